// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the labpubs pipeline.
package types

// RecordType classifies a publication record.
type RecordType string

const (
	TypeJournal      RecordType = "journal"
	TypeConference   RecordType = "conference"
	TypeBook         RecordType = "book"
	TypeBookChapter  RecordType = "book-chapter"
	TypeReview       RecordType = "review"
	TypePresentation RecordType = "presentation"
	TypePreprint     RecordType = "preprint"
	TypeThesis       RecordType = "thesis"
)

// Provenance identifies which resolution strategy produced a record.
// Retained for auditability; not shown to site visitors.
type Provenance string

const (
	ProvCategoryParser   Provenance = "category-parser"
	ProvExternalResolver Provenance = "external-resolver"
	ProvFallbackResolver Provenance = "fallback-resolver"
)

// ParsedRecord is the canonical output unit of the pipeline: one structured
// publication record per raw citation, created once and never mutated.
// Validation tags drive the schema contract in internal/validate.
type ParsedRecord struct {
	// ID is a deterministic slug derived from year, first author, title
	// fragment, and the citation's running index.
	ID string `json:"id" yaml:"id"`

	// Authors lists person names in source order.
	Authors []string `json:"authors" yaml:"authors" validate:"required,min=1,dive,notblank"`

	// Title is the publication title.
	Title string `json:"title" yaml:"title" validate:"required"`

	// Type classifies the publication.
	Type RecordType `json:"type" yaml:"type" validate:"required,oneof=journal conference book book-chapter review presentation preprint thesis"`

	// Year is the publication year. Zero means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty" validate:"omitempty,min=1950,max=2030"`

	// Venue fields. Journal and Conference are mutually informative but
	// neither is required.
	Journal    string `json:"journal,omitempty" yaml:"journal,omitempty"`
	Conference string `json:"conference,omitempty" yaml:"conference,omitempty"`
	Volume     string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue      string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages      string `json:"pages,omitempty" yaml:"pages,omitempty"`
	Publisher  string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// DOI is the registered identifier, e.g. "10.1038/s41586-020-1234-5".
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty" validate:"omitempty,doi"`

	// ArxivID is the preprint identifier, e.g. "2301.07041".
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	// Awards lists award or invited-paper annotations found in the raw text.
	Awards []string `json:"awards,omitempty" yaml:"awards,omitempty"`

	// Language is "ja" or "en", inferred from script density of the raw text.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// Provenance records which strategy produced this record.
	Provenance Provenance `json:"provenance" yaml:"provenance"`

	// Valid reports whether the record passed the schema contract.
	// Violations lists the broken rules when it did not.
	Valid      bool     `json:"valid" yaml:"valid"`
	Violations []string `json:"violations,omitempty" yaml:"violations,omitempty"`

	// RawText preserves the original citation string for re-processing.
	RawText string `json:"raw_text" yaml:"raw_text"`
}
