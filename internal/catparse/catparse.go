// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catparse extracts structured publication records from raw citation
// strings using category-specific structural patterns. It is the cheapest
// strategy in the pipeline and runs before any network or inference call.
package catparse

import (
	"github.com/amityar/labpubs/pkg/types"
)

// Parser produces a candidate record from a raw citation. It returns nil,
// not an error, when the text does not match the category's expected
// structure: a citation whose authors or title cannot be located yields no
// record at all rather than a partially filled one.
type Parser interface {
	Parse(raw types.RawCitation) *types.ParsedRecord
}

// Registry dispatches citations to category-specific parsers.
type Registry struct {
	parsers map[types.Category]Parser
}

// NewRegistry builds the default registry covering every known category.
func NewRegistry() *Registry {
	return &Registry{parsers: map[types.Category]Parser{
		types.CategoryJournalJA:        &journalParser{quote: quoteJA, recType: types.TypeJournal},
		types.CategoryJournalEN:        &journalParser{quote: quoteEN, recType: types.TypeJournal},
		types.CategoryReview:           &journalParser{quote: quoteAny, recType: types.TypeReview},
		types.CategoryConference:       &meetingParser{recType: types.TypeConference},
		types.CategoryOralPresentation: &meetingParser{recType: types.TypePresentation},
		types.CategoryBook:             &bookParser{},
	}}
}

// Register adds or replaces the parser for a category. Adding a category is
// a pure extension; existing parsers are untouched.
func (r *Registry) Register(cat types.Category, p Parser) {
	r.parsers[cat] = p
}

// Parse dispatches raw to its category's parser. It returns nil when no
// parser is registered for the category or the parser reports a structural
// mismatch. On success the record carries the raw text and
// category-parser provenance.
func (r *Registry) Parse(raw types.RawCitation) *types.ParsedRecord {
	p, ok := r.parsers[raw.Category]
	if !ok {
		return nil
	}
	rec := p.Parse(raw)
	if rec == nil {
		return nil
	}
	rec.RawText = raw.Text
	rec.Provenance = types.ProvCategoryParser
	return rec
}
