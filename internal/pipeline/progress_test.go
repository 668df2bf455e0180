// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProgressRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "progress.yaml")

	p, err := NewFileProgress(path)
	require.NoError(t, err)
	assert.False(t, p.IsCompleted("journal-en-2024"))

	p.MarkCompleted("journal-en-2024", BatchCounts{Records: 42, Parsed: 30, Resolved: 8, Inferred: 4, Valid: 40, Invalid: 2})
	p.MarkCompleted("book-2023", BatchCounts{Records: 7, Parsed: 7, Valid: 7})
	require.NoError(t, p.Flush())

	reloaded, err := NewFileProgress(path)
	require.NoError(t, err)
	assert.True(t, reloaded.IsCompleted("journal-en-2024"))
	assert.True(t, reloaded.IsCompleted("book-2023"))
	assert.False(t, reloaded.IsCompleted("conference-2023"))

	completed := reloaded.Completed()
	require.Len(t, completed, 2)
	assert.Equal(t, "book-2023", completed[0].BatchID)
	assert.Equal(t, 7, completed[0].Records)
	assert.Equal(t, "journal-en-2024", completed[1].BatchID)
	assert.Equal(t, 42, completed[1].Records)

	// Aggregate counters survive the round trip.
	want := BatchCounts{Records: 49, Parsed: 37, Resolved: 8, Inferred: 4, Valid: 47, Invalid: 2}
	assert.Equal(t, want, reloaded.Totals())
}

func TestFileProgressRemarkIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.yaml")

	p, err := NewFileProgress(path)
	require.NoError(t, err)
	p.MarkCompleted("journal-en-2024", BatchCounts{Records: 42, Valid: 42})
	require.NoError(t, p.Flush())

	first := p.Completed()[0]
	totals := p.Totals()

	p.MarkCompleted("journal-en-2024", BatchCounts{Records: 999, Valid: 999})
	assert.Equal(t, first, p.Completed()[0])
	assert.Equal(t, totals, p.Totals(), "re-marking must not inflate the totals")
}

func TestFileProgressCleanFlushSkipsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.yaml")

	p, err := NewFileProgress(path)
	require.NoError(t, err)
	require.NoError(t, p.Flush())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "clean flush should not create the file")
}

func TestFileProgressMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.yaml")
	require.NoError(t, os.WriteFile(path, []byte("completed: [not: {valid"), 0o644))

	_, err := NewFileProgress(path)
	assert.Error(t, err)
}
