// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package infer

import (
	"bytes"
	"text/template"
)

// Delimiters the model is told to wrap its JSON object in. A uniquely
// delimited block keeps the worked example in the prompt echo from being
// mistaken for the answer.
const (
	recordOpen  = "<<<RECORD"
	recordClose = "RECORD>>>"
)

// extractionPromptTmpl instructs the model to emit exactly one structured
// record for the embedded citation.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`You are a bibliographic extraction system. Extract a structured publication record from the citation below. Citations mix Japanese and English academic styles.

Fields:
- authors: array of person names in source order
- title: the publication title without surrounding quotes
- type: one of "journal", "conference", "book", "book-chapter", "review", "presentation", "preprint", "thesis"
- year: four-digit publication year, or 0 if absent
- journal: journal name, or "" (use for journal and review entries)
- conference: meeting name, or "" (use for conference and presentation entries)
- volume, issue, pages, publisher: strings, "" if absent
- doi: the DOI like "10.1038/s41586-020-1234-5", or "" if absent

Emit exactly one JSON object between the lines ` + recordOpen + ` and ` + recordClose + `. No other text between the delimiters.

Example citation:
(1) Jane Doe, John Smith: "A Study of X." Journal of Y 12(3): pp.45-60, 2019

Example response:
` + recordOpen + `
{"authors": ["Jane Doe", "John Smith"], "title": "A Study of X", "type": "journal", "year": 2019, "journal": "Journal of Y", "conference": "", "volume": "12", "issue": "3", "pages": "45-60", "publisher": "", "doi": ""}
` + recordClose + `

Citation:
{{.Citation}}
`))

// renderPrompt executes the extraction prompt template for one citation.
func renderPrompt(citation string) (string, error) {
	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, struct{ Citation string }{Citation: citation}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
