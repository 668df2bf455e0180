// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package infer

import (
	"regexp"
	"strings"

	"github.com/amityar/labpubs/internal/catparse"
	"github.com/amityar/labpubs/pkg/types"
)

// Safety-net patterns: author block before a title quote, title inside
// quotes, four-digit year near a separator. Deliberately looser than the
// category parsers so a degraded model still leaves something auditable.
var (
	netAuthorsPattern = regexp.MustCompile(`^\s*(?:[\(（]\d+[\)）]|\d+[.)])?\s*([^「『"“:：]+?)\s*[,，:：]?\s*[「『"“]`)
	netTitlePattern   = regexp.MustCompile(`[「『"“]([^」』"”]+)[」』"”]`)
	netYearPattern    = regexp.MustCompile(`[,，\s(（](19[5-9]\d|20[0-2]\d|2030)\s*(?:年|[)）.,]|$)`)
)

// regexFallback is the resolver's own safety net. Whatever it extracts is
// returned as-is; missing fields surface as validation violations rather
// than a dropped record.
func regexFallback(raw types.RawCitation) *types.ParsedRecord {
	rec := &types.ParsedRecord{
		Type:       raw.Category.DefaultRecordType(),
		Provenance: types.ProvFallbackResolver,
		RawText:    raw.Text,
	}

	if m := netAuthorsPattern.FindStringSubmatch(raw.Text); m != nil {
		rec.Authors = catparse.SplitAuthors(m[1])
	}

	if m := netTitlePattern.FindStringSubmatch(raw.Text); m != nil {
		rec.Title = strings.TrimRight(strings.TrimSpace(m[1]), ".,。，、 ")
	}

	if m := netYearPattern.FindStringSubmatch(raw.Text); m != nil {
		year := 0
		for _, r := range m[1] {
			year = year*10 + int(r-'0')
		}
		rec.Year = year
	}

	rec.DOI = catparse.FindDOI(raw.Text)
	rec.ArxivID = catparse.FindArxivID(raw.Text)

	return rec
}
