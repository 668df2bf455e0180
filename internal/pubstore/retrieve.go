// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amityar/labpubs/pkg/types"
)

// QueryOptions holds parameters for publication queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string, matched against title,
	// authors, venue, and the raw citation text.
	Query string

	// Type filters by record type.
	Type types.RecordType

	// Year filters by publication year. Zero means no filter.
	Year int

	// Valid filters by contract status. Nil means no filter.
	Valid *bool

	// BatchID filters by source batch.
	BatchID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Type == "" && q.Year == 0 && q.Valid == nil && q.BatchID == ""
}

// QueryResult is a publication record with its source batch.
type QueryResult struct {
	types.ParsedRecord
	BatchID  string         `json:"batch_id" yaml:"batch_id"`
	Category types.Category `json:"category" yaml:"category"`
}

// Retrieve queries the publications index with optional full-text search
// and structured filters. Full-text queries are ranked by relevance;
// structured-only queries are sorted by year descending, then ID. When the
// driver lacks FTS5, search queries degrade to case-insensitive substring
// matching over the same columns.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	const columns = `p.id, p.batch_id, p.category, p.authors, p.title, p.type, p.year,
		p.journal, p.conference, p.volume, p.issue, p.pages, p.publisher,
		p.doi, p.arxiv_id, p.awards, p.language, p.provenance, p.valid, p.violations, p.raw_text`

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != "" && s.fts
	)

	switch {
	case useFTS:
		qb.WriteString(`SELECT ` + columns + `
			FROM publications_fts
			JOIN publications p ON p.rowid = publications_fts.rowid
			WHERE publications_fts MATCH ?`)
		args = append(args, opts.Query)
	case opts.Query != "":
		qb.WriteString(`SELECT ` + columns + `
			FROM publications p
			WHERE (p.title LIKE ? OR p.authors LIKE ? OR p.journal LIKE ?
				OR p.conference LIKE ? OR p.raw_text LIKE ?)`)
		pattern := "%" + opts.Query + "%"
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	default:
		qb.WriteString(`SELECT ` + columns + `
			FROM publications p
			WHERE 1=1`)
	}

	if opts.Type != "" {
		qb.WriteString(` AND p.type = ?`)
		args = append(args, string(opts.Type))
	}
	if opts.Year != 0 {
		qb.WriteString(` AND p.year = ?`)
		args = append(args, opts.Year)
	}
	if opts.Valid != nil {
		qb.WriteString(` AND p.valid = ?`)
		args = append(args, *opts.Valid)
	}
	if opts.BatchID != "" {
		qb.WriteString(` AND p.batch_id = ?`)
		args = append(args, opts.BatchID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY publications_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY p.year DESC, p.id`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying publications: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr             QueryResult
			recType        string
			provenance     string
			category       string
			authorsJSON    sql.NullString
			awardsJSON     sql.NullString
			violationsJSON sql.NullString
		)

		if err := rows.Scan(
			&qr.ID, &qr.BatchID, &category, &authorsJSON, &qr.Title, &recType, &qr.Year,
			&qr.Journal, &qr.Conference, &qr.Volume, &qr.Issue, &qr.Pages, &qr.Publisher,
			&qr.DOI, &qr.ArxivID, &awardsJSON, &qr.Language, &provenance,
			&qr.Valid, &violationsJSON, &qr.RawText,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		qr.Type = types.RecordType(recType)
		qr.Provenance = types.Provenance(provenance)
		qr.Category = types.Category(category)

		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &qr.Authors)
		}
		if awardsJSON.Valid {
			json.Unmarshal([]byte(awardsJSON.String), &qr.Awards)
		}
		if violationsJSON.Valid {
			json.Unmarshal([]byte(violationsJSON.String), &qr.Violations)
		}

		results = append(results, qr)
	}

	return results, rows.Err()
}

// TypeCount is one row of the per-type breakdown in Stats.
type TypeCount struct {
	Type  types.RecordType `json:"type" yaml:"type"`
	Count int              `json:"count" yaml:"count"`
}

// ProvenanceCount is one row of the per-strategy breakdown in Stats.
type ProvenanceCount struct {
	Provenance types.Provenance `json:"provenance" yaml:"provenance"`
	Count      int              `json:"count" yaml:"count"`
}

// StoreStats summarizes the indexed publications.
type StoreStats struct {
	Records       int               `json:"records" yaml:"records"`
	Batches       int               `json:"batches" yaml:"batches"`
	Valid         int               `json:"valid" yaml:"valid"`
	Invalid       int               `json:"invalid" yaml:"invalid"`
	ByType        []TypeCount       `json:"by_type" yaml:"by_type"`
	ByProvenance  []ProvenanceCount `json:"by_provenance" yaml:"by_provenance"`
	EarliestYear  int               `json:"earliest_year" yaml:"earliest_year"`
	LatestYear    int               `json:"latest_year" yaml:"latest_year"`
	WithDOI       int               `json:"with_doi" yaml:"with_doi"`
	WithAwardNote int               `json:"with_award_note" yaml:"with_award_note"`
}

// Stats computes summary counts over the whole index.
func (s *Store) Stats(ctx context.Context) (StoreStats, error) {
	var st StoreStats

	err := s.db.QueryRowContext(ctx, `
		SELECT count(*),
			count(DISTINCT batch_id),
			coalesce(sum(valid), 0),
			coalesce(min(CASE WHEN year > 0 THEN year END), 0),
			coalesce(max(year), 0),
			coalesce(sum(doi != ''), 0),
			coalesce(sum(awards != 'null' AND awards != '[]'), 0)
		FROM publications`,
	).Scan(&st.Records, &st.Batches, &st.Valid, &st.EarliestYear, &st.LatestYear, &st.WithDOI, &st.WithAwardNote)
	if err != nil {
		return st, fmt.Errorf("computing totals: %w", err)
	}
	st.Invalid = st.Records - st.Valid

	rows, err := s.db.QueryContext(ctx,
		`SELECT type, count(*) FROM publications GROUP BY type ORDER BY count(*) DESC, type`)
	if err != nil {
		return st, fmt.Errorf("computing type breakdown: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return st, fmt.Errorf("scanning type row: %w", err)
		}
		st.ByType = append(st.ByType, tc)
	}
	if err := rows.Err(); err != nil {
		return st, err
	}

	provRows, err := s.db.QueryContext(ctx,
		`SELECT provenance, count(*) FROM publications GROUP BY provenance ORDER BY count(*) DESC, provenance`)
	if err != nil {
		return st, fmt.Errorf("computing provenance breakdown: %w", err)
	}
	defer provRows.Close()
	for provRows.Next() {
		var pc ProvenanceCount
		if err := provRows.Scan(&pc.Provenance, &pc.Count); err != nil {
			return st, fmt.Errorf("scanning provenance row: %w", err)
		}
		st.ByProvenance = append(st.ByProvenance, pc)
	}
	return st, provRows.Err()
}
