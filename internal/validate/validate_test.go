// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amityar/labpubs/pkg/types"
)

func validRecord() *types.ParsedRecord {
	return &types.ParsedRecord{
		Authors: []string{"Jane Doe", "John Smith"},
		Title:   "A Study of X",
		Type:    types.TypeJournal,
		Year:    2019,
		Journal: "Journal of Y",
		DOI:     "10.1038/s41586-020-1234-5",
	}
}

func TestRecordValid(t *testing.T) {
	ok, violations := Record(validRecord())
	require.True(t, ok)
	assert.Empty(t, violations)
}

func TestRecordViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.ParsedRecord)
		want   string
	}{
		{"missing title", func(r *types.ParsedRecord) { r.Title = "" }, "missing title"},
		{"no authors", func(r *types.ParsedRecord) { r.Authors = nil }, "missing authors"},
		{"empty author list", func(r *types.ParsedRecord) { r.Authors = []string{} }, "missing authors"},
		{"blank author", func(r *types.ParsedRecord) { r.Authors = []string{"Jane Doe", "   "} }, "blank author name"},
		{"missing type", func(r *types.ParsedRecord) { r.Type = "" }, "missing type"},
		{"unknown type", func(r *types.ParsedRecord) { r.Type = "magazine" }, `unknown type "magazine"`},
		{"year too early", func(r *types.ParsedRecord) { r.Year = 1949 }, "year 1949 out of range [1950, 2030]"},
		{"year too late", func(r *types.ParsedRecord) { r.Year = 2031 }, "year 2031 out of range [1950, 2030]"},
		{"short DOI prefix", func(r *types.ParsedRecord) { r.DOI = "10.12/x" }, `malformed DOI "10.12/x"`},
		{"DOI without suffix", func(r *types.ParsedRecord) { r.DOI = "10.1038/" }, `malformed DOI "10.1038/"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)
			ok, violations := Record(rec)
			require.False(t, ok)
			assert.Contains(t, violations, tt.want)
		})
	}
}

func TestRecordOptionalFieldsAbsent(t *testing.T) {
	rec := &types.ParsedRecord{
		Authors: []string{"田中太郎"},
		Title:   "生体知能システムの研究",
		Type:    types.TypeJournal,
	}
	ok, violations := Record(rec)
	require.True(t, ok, "zero year and empty DOI must not trigger violations: %v", violations)
}

func TestRecordDeterministic(t *testing.T) {
	rec := validRecord()
	rec.Title = ""
	rec.Year = 1900

	ok1, v1 := Record(rec)
	ok2, v2 := Record(rec)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, v1, v2)
}

func TestDOIValid(t *testing.T) {
	tests := []struct {
		doi  string
		want bool
	}{
		{"10.1038/s41586-020-1234-5", true},
		{"10.1145/1234567.1234568", true},
		{"10.12/x", false},
		{"10.1038/", false},
		{"doi:10.1038/abc", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.doi, func(t *testing.T) {
			assert.Equal(t, tt.want, DOIValid(tt.doi))
		})
	}
}
