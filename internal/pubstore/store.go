// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubstore persists resolved publication records and builds a
// full-text retrieval index over them.
package pubstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/amityar/labpubs/internal/pipeline"
	"github.com/amityar/labpubs/pkg/types"
)

const dbFile = "publications.db"

// Store manages the publications SQLite database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int

	// fts reports whether the driver was compiled with FTS5 (the
	// sqlite_fts5 build tag). Without it queries use substring matching.
	fts bool
}

// NewStore opens or creates the publications database at
// indexDir/publications.db, creating the schema if needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, indexDir: cfg.IndexDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS publications (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			batch_id TEXT NOT NULL,
			category TEXT,
			authors TEXT,
			title TEXT,
			type TEXT,
			year INTEGER,
			journal TEXT,
			conference TEXT,
			volume TEXT,
			issue TEXT,
			pages TEXT,
			publisher TEXT,
			doi TEXT,
			arxiv_id TEXT,
			awards TEXT,
			language TEXT,
			provenance TEXT,
			valid INTEGER,
			violations TEXT,
			raw_text TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_batch_id ON publications(batch_id)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_type ON publications(type)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_year ON publications(year)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			batch_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='publications_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	s.fts = true

	if ftsExists == 0 {
		if _, err := s.db.Exec(
			`CREATE VIRTUAL TABLE publications_fts USING fts5(
				title, authors, journal, conference, raw_text,
				content=publications, content_rowid=rowid)`,
		); err != nil {
			// go-sqlite3 omits FTS5 unless built with -tags sqlite_fts5.
			if strings.Contains(err.Error(), "no such module: fts5") {
				s.fts = false
				return nil
			}
			return fmt.Errorf("creating FTS table: %w", err)
		}
		ftsStatements := []string{
			`CREATE TRIGGER publications_ai AFTER INSERT ON publications BEGIN
				INSERT INTO publications_fts(rowid, title, authors, journal, conference, raw_text)
				VALUES (new.rowid, new.title, new.authors, new.journal, new.conference, new.raw_text);
			END`,
			`CREATE TRIGGER publications_ad AFTER DELETE ON publications BEGIN
				INSERT INTO publications_fts(publications_fts, rowid, title, authors, journal, conference, raw_text)
				VALUES('delete', old.rowid, old.title, old.authors, old.journal, old.conference, old.raw_text);
			END`,
			`CREATE TRIGGER publications_au AFTER UPDATE ON publications BEGIN
				INSERT INTO publications_fts(publications_fts, rowid, title, authors, journal, conference, raw_text)
				VALUES('delete', old.rowid, old.title, old.authors, old.journal, old.conference, old.raw_text);
				INSERT INTO publications_fts(rowid, title, authors, journal, conference, raw_text)
				VALUES (new.rowid, new.title, new.authors, new.journal, new.conference, new.raw_text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of record-set files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads record-set YAML files from recordsDir and populates the
// database. File modification times drive incremental updates: an
// unchanged batch file is skipped, a changed one replaces the batch's
// records wholesale.
func (s *Store) Ingest(ctx context.Context, recordsDir string, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(recordsDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading records directory %s: %w", recordsDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		batchID := strings.TrimSuffix(entry.Name(), ".yaml")
		filePath := filepath.Join(recordsDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", batchID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE batch_id = ?`, batchID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", batchID)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		set, err := pipeline.ReadRecordSet(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", batchID, err)
			summary.Failed++
			continue
		}

		if err := s.ingestBatch(ctx, batchID, set, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", batchID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d records)\n", batchID, len(set.Records))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d records)\n", batchID, len(set.Records))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestBatch(ctx context.Context, batchID string, set types.RecordSet, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM publications WHERE batch_id = ?`, batchID); err != nil {
			return fmt.Errorf("deleting old records: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO publications (
			id, batch_id, category, authors, title, type, year,
			journal, conference, volume, issue, pages, publisher,
			doi, arxiv_id, awards, language, provenance, valid, violations, raw_text
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range set.Records {
		authorsJSON, _ := json.Marshal(rec.Authors)
		awardsJSON, _ := json.Marshal(rec.Awards)
		violationsJSON, _ := json.Marshal(rec.Violations)
		_, err := stmt.ExecContext(ctx,
			rec.ID, batchID, string(set.Category), string(authorsJSON),
			rec.Title, string(rec.Type), rec.Year,
			rec.Journal, rec.Conference, rec.Volume, rec.Issue, rec.Pages, rec.Publisher,
			rec.DOI, rec.ArxivID, string(awardsJSON), rec.Language,
			string(rec.Provenance), rec.Valid, string(violationsJSON), rec.RawText,
		)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (batch_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(batch_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		batchID, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}
