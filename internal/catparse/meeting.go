// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catparse

import (
	"regexp"
	"strings"

	"github.com/amityar/labpubs/pkg/types"
)

// meetingVenuePattern captures the meeting name that follows the title,
// skipping common lead-ins ("In", "Proc. of", "presented at"). The name
// runs to the next comma, which separates it from location and date.
var meetingVenuePattern = regexp.MustCompile(`^[\s,，.。]*(?:(?i:in|at|proc\.?(?:eedings)?\s+of|presented\s+at)\s+)?([^,，()（）]+)`)

// onlyYearPattern recognizes a venue candidate that is really just the year.
var onlyYearPattern = regexp.MustCompile(`^\d{4}\s*年?$`)

// meetingParser handles conference papers and oral presentations, which
// follow "<Authors>: <quoted title> <Meeting>, <location>, <year>". Both
// quote conventions appear in either category, so it accepts any.
type meetingParser struct {
	recType types.RecordType
}

func (p *meetingParser) Parse(raw types.RawCitation) *types.ParsedRecord {
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

	rec := &types.ParsedRecord{
		Authors: authors,
		Title:   title,
		Type:    p.recType,
	}

	// Award annotations sit between title and venue in some entries;
	// strip them so they cannot be mistaken for the meeting name.
	venueTail := bracketPattern.ReplaceAllString(tail, "")
	if m := meetingVenuePattern.FindStringSubmatch(venueTail); m != nil {
		venue := strings.TrimSpace(m[1])
		venue = strings.TrimRight(venue, ".。 ")
		if venue != "" && !onlyYearPattern.MatchString(venue) {
			rec.Conference = venue
		}
	}

	rec.Pages = extractPages(tail)
	rec.Year = ExtractYear(tail)
	if rec.Year == 0 {
		rec.Year = ExtractYear(text)
	}
	rec.DOI = FindDOI(text)
	rec.ArxivID = FindArxivID(text)
	rec.Awards = ExtractAwards(text)

	return rec
}
