// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catparse

import (
	"regexp"
	"strings"
	"unicode"
)

// indexMarkerPattern matches a leading list marker such as "(1) ", "（３）",
// or "12. " that the scraper leaves on each citation.
var indexMarkerPattern = regexp.MustCompile(`^\s*(?:[\(（]\d+[\)）]|\d+[.)])\s*`)

// authorSepPattern splits an author block on Japanese and Western name
// separators: 、 ・ ， , ; " and " and "&".
var authorSepPattern = regexp.MustCompile(`\s*(?:、|・|，|;|,|\sand\s|&)\s*`)

// Title quoting conventions. Japanese venues use corner brackets; English
// venues use straight or curly double quotes. Book titles may use double
// corner brackets.
var (
	jaTitlePattern   = regexp.MustCompile(`「([^」]+)」`)
	enTitlePattern   = regexp.MustCompile(`["“]([^"”]+)["”]`)
	bookTitlePattern = regexp.MustCompile(`『([^』]+)』`)
)

// venuePattern matches the journal house style
// "<Venue> <volume>(<issue>): pp.<pages>" with full-width variants tolerated.
var venuePattern = regexp.MustCompile(`([\p{L}][\p{L}\p{N}\s&.\-:']*?)\s*,?\s+(?:Vol\.?\s*)?(\d{1,4})\s*[\(（](\d{1,4}(?:[-–]\d{1,4})?)[\)）]\s*[:：]\s*(?:pp?\.\s*)?([A-Za-z]?\d+(?:\s*[-–‐]\s*[A-Za-z]?\d+)?)`)

// pagesPattern matches a standalone page range like "pp.45-60" or "p. 12-19".
var pagesPattern = regexp.MustCompile(`pp?\.\s*([A-Za-z]?\d+\s*[-–‐]\s*[A-Za-z]?\d+)`)

// yearPattern matches a publication year in [1950, 2030], tolerant of a
// trailing Japanese year suffix.
var yearPattern = regexp.MustCompile(`(19[5-9]\d|20[0-2]\d|2030)\s*年?`)

// doiInlinePattern matches inline DOIs in bare, "doi:" and URL forms.
var doiInlinePattern = regexp.MustCompile(`(?:(?i:doi)[:：]\s*|https?://(?:dx\.)?doi\.org/)?(10\.\d{4,9}/[^\s,;"'<>」』】）]+)`)

// arxivInlinePattern matches inline arXiv identifiers like "arXiv:2301.07041".
var arxivInlinePattern = regexp.MustCompile(`(?i:arxiv)[:：]\s*(\d{4}\.\d{4,5}(?:v\d+)?)`)

// Bracketed annotations carry award and invited-paper markers. Only segments
// mentioning an award keyword count; citation keys like "[3]" do not.
var (
	bracketPattern = regexp.MustCompile(`【([^】]+)】|\[([^\]]+)\]|〔([^〕]+)〕`)
	awardKeywordRe = regexp.MustCompile(`(?i)award|prize|invited|best\s+(?:paper|poster|presentation)|受賞|賞|招待|表彰`)
)

// stripIndexMarker removes a leading positional marker from a citation.
func stripIndexMarker(text string) string {
	return indexMarkerPattern.ReplaceAllString(text, "")
}

// splitAuthorTitle splits a citation into the author block and the remainder.
// The author block is anchored at the start of the string and ends at the
// first colon or opening title quote. Returns ok=false when no delimiter is
// found or the author block is empty; per the registry contract that means
// structural mismatch, not partial success.
func splitAuthorTitle(text string) (authors, rest string, ok bool) {
	for i, r := range text {
		switch r {
		case ':', '：':
			authors = strings.TrimRight(text[:i], " \t,，、")
			rest = strings.TrimLeft(text[i+len(string(r)):], " \t")
			if authors == "" {
				return "", "", false
			}
			return authors, rest, true
		case '「', '『', '"', '“':
			authors = strings.TrimRight(text[:i], " \t,，、")
			if authors == "" {
				return "", "", false
			}
			return authors, text[i:], true
		}
	}
	return "", "", false
}

// SplitAuthors breaks an author block into individual names.
func SplitAuthors(block string) []string {
	parts := authorSepPattern.Split(block, -1)
	var names []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		names = append(names, p)
	}
	return names
}

// quoteStyle selects which title quoting conventions a category accepts.
type quoteStyle int

const (
	quoteAny quoteStyle = iota
	quoteJA
	quoteEN
)

// extractTitle locates the quoted title in rest and returns it with the text
// following the closing quote. Trailing sentence punctuation inside the
// quotes is trimmed.
func extractTitle(rest string, q quoteStyle) (title, tail string, ok bool) {
	var patterns []*regexp.Regexp
	switch q {
	case quoteJA:
		patterns = []*regexp.Regexp{jaTitlePattern}
	case quoteEN:
		patterns = []*regexp.Regexp{enTitlePattern}
	default:
		patterns = []*regexp.Regexp{jaTitlePattern, enTitlePattern, bookTitlePattern}
	}

	for _, pat := range patterns {
		loc := pat.FindStringSubmatchIndex(rest)
		if loc == nil {
			continue
		}
		title = strings.TrimSpace(rest[loc[2]:loc[3]])
		title = strings.TrimRight(title, ".,。，、 ")
		if title == "" {
			return "", "", false
		}
		return title, rest[loc[1]:], true
	}
	return "", "", false
}

// venueParts holds the output of the journal venue pattern.
type venueParts struct {
	name   string
	volume string
	issue  string
	pages  string
}

// extractVenue applies the "<Venue> <volume>(<issue>): pp.<pages>" pattern.
func extractVenue(tail string) (venueParts, bool) {
	m := venuePattern.FindStringSubmatch(tail)
	if m == nil {
		return venueParts{}, false
	}
	return venueParts{
		name:   strings.TrimSpace(m[1]),
		volume: m[2],
		issue:  m[3],
		pages:  normalizePages(m[4]),
	}, true
}

// extractPages finds a standalone page range.
func extractPages(text string) string {
	m := pagesPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return normalizePages(m[1])
}

// normalizePages collapses dash variants and spacing to "45-60" form.
func normalizePages(pages string) string {
	pages = strings.NewReplacer("–", "-", "‐", "-").Replace(pages)
	parts := strings.Split(pages, "-")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, "-")
}

// ExtractYear returns the publication year found in text, or zero. When the
// text contains several candidates the last one wins, since years close the
// citation in every house style.
func ExtractYear(text string) int {
	ms := yearPattern.FindAllStringSubmatch(text, -1)
	if len(ms) == 0 {
		return 0
	}
	last := ms[len(ms)-1][1]
	year := 0
	for _, r := range last {
		year = year*10 + int(r-'0')
	}
	return year
}

// FindDOI scans the whole citation for an inline DOI in bare, "doi:", or
// URL form and returns the normalized identifier, or "".
func FindDOI(text string) string {
	m := doiInlinePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimRight(m[1], ".,;)）]」")
}

// FindArxivID scans the citation for an inline arXiv identifier, or "".
func FindArxivID(text string) string {
	m := arxivInlinePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractAwards returns award and invited-paper annotations found in
// bracketed segments of the citation, in source order.
func ExtractAwards(text string) []string {
	var awards []string
	for _, m := range bracketPattern.FindAllStringSubmatch(text, -1) {
		content := m[1]
		if content == "" {
			content = m[2]
		}
		if content == "" {
			content = m[3]
		}
		content = strings.TrimSpace(content)
		if content == "" || !awardKeywordRe.MatchString(content) {
			continue
		}
		awards = append(awards, content)
	}
	return awards
}

// DetectLanguage infers "ja" or "en" from the script-character density of
// the citation. The threshold is calibrated to the observed corpus: mixed
// citations with Japanese venue names but English titles still read as
// Japanese entries above 20% Japanese script.
func DetectLanguage(text string) string {
	letters, japanese := 0, 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			japanese++
		}
	}
	if letters > 0 && float64(japanese)/float64(letters) > 0.2 {
		return "ja"
	}
	return "en"
}
