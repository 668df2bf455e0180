// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amityar/labpubs/pkg/types"
)

func writeBatchFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReadBatches(t *testing.T) {
	dir := t.TempDir()
	writeBatchFile(t, dir, "02-book.yaml", `
id: book-2023
category: book
citations:
  - "田中太郎：『生体システム入門』オーム社, 2023年"
`)
	writeBatchFile(t, dir, "01-journal.yml", `
category: journal-en
citations:
  - '(1) Jane Doe: "A Study of X." Journal of Y 12(3): pp.45-60, 2019'
  - '(2) John Smith: "Another Study." Journal of Z 8(1): pp.1-9, 2020'
`)
	writeBatchFile(t, dir, "notes.txt", "not a batch")

	batches, err := ReadBatches(dir)
	require.NoError(t, err)
	require.Len(t, batches, 2)

	// Sorted by filename; ID defaults to the filename when absent.
	assert.Equal(t, "01-journal", batches[0].ID)
	assert.Equal(t, types.CategoryJournalEN, batches[0].Category)
	assert.Len(t, batches[0].Citations, 2)

	assert.Equal(t, "book-2023", batches[1].ID)
	assert.Equal(t, types.CategoryBook, batches[1].Category)
}

func TestReadBatchesMalformedFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeBatchFile(t, dir, "bad.yaml", "citations: [unterminated")

	_, err := ReadBatches(dir)
	assert.Error(t, err)
}

func TestReadBatchesMissingDirIsFatal(t *testing.T) {
	_, err := ReadBatches(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestRecordSetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	set := types.RecordSet{
		BatchID:  "journal-en-2024",
		Category: types.CategoryJournalEN,
		Records: []types.ParsedRecord{{
			ID:         "2019-jane-doe-a-study-of-x-00",
			Authors:    []string{"Jane Doe"},
			Title:      "A Study of X",
			Type:       types.TypeJournal,
			Year:       2019,
			Provenance: types.ProvCategoryParser,
			Valid:      true,
			RawText:    `(1) Jane Doe: "A Study of X." Journal of Y 12(3): pp.45-60, 2019`,
		}},
	}

	outDir := filepath.Join(dir, "records")
	require.NoError(t, WriteRecordSet(outDir, set))

	got, err := ReadRecordSet(filepath.Join(outDir, "journal-en-2024.yaml"))
	require.NoError(t, err)
	assert.Equal(t, set, got)
}
