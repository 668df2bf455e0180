// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Category tags a batch of citations with the house style its entries follow.
type Category string

const (
	CategoryJournalJA        Category = "journal-ja"
	CategoryJournalEN        Category = "journal-en"
	CategoryConference       Category = "conference"
	CategoryReview           Category = "review"
	CategoryBook             Category = "book"
	CategoryOralPresentation Category = "oral-presentation"
)

// Categories lists every known category in a stable order.
var Categories = []Category{
	CategoryJournalJA,
	CategoryJournalEN,
	CategoryConference,
	CategoryReview,
	CategoryBook,
	CategoryOralPresentation,
}

// Known reports whether c is one of the recognized categories.
func (c Category) Known() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// DefaultRecordType returns the record type a citation in this category
// normally maps to.
func (c Category) DefaultRecordType() RecordType {
	switch c {
	case CategoryJournalJA, CategoryJournalEN:
		return TypeJournal
	case CategoryConference:
		return TypeConference
	case CategoryReview:
		return TypeReview
	case CategoryBook:
		return TypeBook
	case CategoryOralPresentation:
		return TypePresentation
	default:
		return TypeJournal
	}
}

// RawCitation is one unstructured citation string as scraped from the
// department site, tagged with its batch category and positional index.
// Immutable input.
type RawCitation struct {
	Text     string   `json:"text" yaml:"text"`
	Category Category `json:"category" yaml:"category"`
	Index    int      `json:"index" yaml:"index"`
}

// Batch is a named group of citations sharing a category, processed and
// checkpointed as one unit.
type Batch struct {
	// ID names the batch, e.g. "journal-en-2024".
	ID string `json:"id" yaml:"id"`

	// Category is the house style shared by every citation in the batch.
	Category Category `json:"category" yaml:"category"`

	// Citations holds the raw strings in source order.
	Citations []string `json:"citations" yaml:"citations"`
}

// RecordSet is the per-batch output: one ParsedRecord per input citation,
// in input order.
type RecordSet struct {
	BatchID  string         `json:"batch_id" yaml:"batch_id"`
	Category Category       `json:"category" yaml:"category"`
	Records  []ParsedRecord `json:"records" yaml:"records"`
}
