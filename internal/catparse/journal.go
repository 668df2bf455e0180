// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catparse

import (
	"github.com/amityar/labpubs/pkg/types"
)

// journalParser handles journal articles and reviews, which share the
// "<Authors>: <quoted title> <Venue> <vol>(<iss>): pp.<pages>, <year>"
// house style. The quote convention and record type vary per category.
type journalParser struct {
	quote   quoteStyle
	recType types.RecordType
}

func (p *journalParser) Parse(raw types.RawCitation) *types.ParsedRecord {
	text := stripIndexMarker(raw.Text)

	authorBlock, rest, ok := splitAuthorTitle(text)
	if !ok {
		return nil
	}
	authors := SplitAuthors(authorBlock)
	if len(authors) == 0 {
		return nil
	}

	title, tail, ok := extractTitle(rest, p.quote)
	if !ok {
		return nil
	}

	rec := &types.ParsedRecord{
		Authors: authors,
		Title:   title,
		Type:    p.recType,
	}

	if venue, ok := extractVenue(tail); ok {
		rec.Journal = venue.name
		rec.Volume = venue.volume
		rec.Issue = venue.issue
		rec.Pages = venue.pages
	} else if pages := extractPages(tail); pages != "" {
		rec.Pages = pages
	}

	rec.Year = ExtractYear(tail)
	if rec.Year == 0 {
		rec.Year = ExtractYear(text)
	}
	rec.DOI = FindDOI(text)
	rec.ArxivID = FindArxivID(text)
	rec.Awards = ExtractAwards(text)

	return rec
}
