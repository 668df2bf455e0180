// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catparse

import (
	"regexp"
	"strings"

	"github.com/amityar/labpubs/pkg/types"
)

// chapterMarkerPattern recognizes entries that are chapters in an edited
// volume rather than whole books ("In: ...", "分担執筆", "第3章").
var chapterMarkerPattern = regexp.MustCompile(`(?i:\bin\b[: ])|分担執筆|第\d+章|chapter`)

// commaSplitPattern separates the post-title segments of a book entry.
var commaSplitPattern = regexp.MustCompile(`[,，、]`)

// bookParser handles book and book-chapter entries:
// "<Authors>: 『<Title>』 <Publisher>, <year>". English book titles appear
// in double quotes instead of double corner brackets.
type bookParser struct{}

func (p *bookParser) Parse(raw types.RawCitation) *types.ParsedRecord {
	text := stripIndexMarker(raw.Text)

	authorBlock, rest, ok := splitAuthorTitle(text)
	if !ok {
		return nil
	}
	authors := SplitAuthors(authorBlock)
	if len(authors) == 0 {
		return nil
	}

	title, tail, ok := extractTitle(rest, quoteAny)
	if !ok {
		return nil
	}

	recType := types.TypeBook
	if chapterMarkerPattern.MatchString(text) {
		recType = types.TypeBookChapter
	}

	rec := &types.ParsedRecord{
		Authors: authors,
		Title:   title,
		Type:    recType,
	}

	rec.Publisher = extractPublisher(tail)
	rec.Pages = extractPages(tail)
	rec.Year = ExtractYear(tail)
	if rec.Year == 0 {
		rec.Year = ExtractYear(text)
	}
	rec.DOI = FindDOI(text)
	rec.Awards = ExtractAwards(text)

	return rec
}

// extractPublisher takes the first comma-separated segment after the title
// that is neither a year nor a page range.
func extractPublisher(tail string) string {
	tail = bracketPattern.ReplaceAllString(tail, "")
	for _, part := range commaSplitPattern.Split(tail, -1) {
		part = strings.Trim(part, " .。:：")
		if part == "" {
			continue
		}
		if onlyYearPattern.MatchString(part) || pagesPattern.MatchString(part) {
			continue
		}
		return part
	}
	return ""
}
