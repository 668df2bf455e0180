// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catparse

import (
	"testing"

	"github.com/amityar/labpubs/pkg/types"
)

func TestParseJournalEN(t *testing.T) {
	reg := NewRegistry()
	raw := types.RawCitation{
		Text:     `(1) Jane Doe, John Smith: "A Study of X." Journal of Y 12(3): pp.45-60, 2019`,
		Category: types.CategoryJournalEN,
	}

	rec := reg.Parse(raw)
	if rec == nil {
		t.Fatal("Parse returned nil for well-formed journal-en citation")
	}

	wantAuthors := []string{"Jane Doe", "John Smith"}
	if len(rec.Authors) != len(wantAuthors) {
		t.Fatalf("authors = %v, want %v", rec.Authors, wantAuthors)
	}
	for i, a := range wantAuthors {
		if rec.Authors[i] != a {
			t.Errorf("authors[%d] = %q, want %q", i, rec.Authors[i], a)
		}
	}
	if rec.Title != "A Study of X" {
		t.Errorf("title = %q, want %q", rec.Title, "A Study of X")
	}
	if rec.Journal != "Journal of Y" {
		t.Errorf("journal = %q, want %q", rec.Journal, "Journal of Y")
	}
	if rec.Volume != "12" || rec.Issue != "3" || rec.Pages != "45-60" {
		t.Errorf("volume/issue/pages = %q/%q/%q, want 12/3/45-60", rec.Volume, rec.Issue, rec.Pages)
	}
	if rec.Year != 2019 {
		t.Errorf("year = %d, want 2019", rec.Year)
	}
	if rec.Type != types.TypeJournal {
		t.Errorf("type = %q, want journal", rec.Type)
	}
	if rec.Provenance != types.ProvCategoryParser {
		t.Errorf("provenance = %q, want category-parser", rec.Provenance)
	}
	if rec.RawText != raw.Text {
		t.Errorf("raw text not preserved")
	}
}

func TestParseJournalJA(t *testing.T) {
	reg := NewRegistry()
	raw := types.RawCitation{
		Text:     "田中太郎、山田花子：「生体知能の解析」人工知能学会誌 34(2): pp.1-10, 2019年",
		Category: types.CategoryJournalJA,
	}

	rec := reg.Parse(raw)
	if rec == nil {
		t.Fatal("Parse returned nil for well-formed journal-ja citation")
	}
	if len(rec.Authors) != 2 || rec.Authors[0] != "田中太郎" || rec.Authors[1] != "山田花子" {
		t.Errorf("authors = %v", rec.Authors)
	}
	if rec.Title != "生体知能の解析" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.Journal != "人工知能学会誌" {
		t.Errorf("journal = %q", rec.Journal)
	}
	if rec.Volume != "34" || rec.Issue != "2" || rec.Pages != "1-10" {
		t.Errorf("volume/issue/pages = %q/%q/%q", rec.Volume, rec.Issue, rec.Pages)
	}
	if rec.Year != 2019 {
		t.Errorf("year = %d, want 2019", rec.Year)
	}
}

func TestParseConference(t *testing.T) {
	reg := NewRegistry()
	raw := types.RawCitation{
		Text:     `Jane Doe, Ken Tanaka: "Neural Control of Z." Proc. of ICRA, Paris, pp.101-108, 2020 [Best Paper Award]`,
		Category: types.CategoryConference,
	}

	rec := reg.Parse(raw)
	if rec == nil {
		t.Fatal("Parse returned nil for well-formed conference citation")
	}
	if rec.Type != types.TypeConference {
		t.Errorf("type = %q, want conference", rec.Type)
	}
	if rec.Conference != "ICRA" {
		t.Errorf("conference = %q, want ICRA", rec.Conference)
	}
	if rec.Pages != "101-108" {
		t.Errorf("pages = %q, want 101-108", rec.Pages)
	}
	if rec.Year != 2020 {
		t.Errorf("year = %d, want 2020", rec.Year)
	}
	if len(rec.Awards) != 1 || rec.Awards[0] != "Best Paper Award" {
		t.Errorf("awards = %v, want [Best Paper Award]", rec.Awards)
	}
}

func TestParseOralPresentation(t *testing.T) {
	reg := NewRegistry()
	raw := types.RawCitation{
		Text:     "田中太郎・山田花子：「発表タイトル」日本ロボット学会学術講演会, 2021年【優秀発表賞】",
		Category: types.CategoryOralPresentation,
	}

	rec := reg.Parse(raw)
	if rec == nil {
		t.Fatal("Parse returned nil for well-formed oral-presentation citation")
	}
	if rec.Type != types.TypePresentation {
		t.Errorf("type = %q, want presentation", rec.Type)
	}
	if len(rec.Authors) != 2 {
		t.Errorf("authors = %v, want 2 names split on ・", rec.Authors)
	}
	if rec.Conference != "日本ロボット学会学術講演会" {
		t.Errorf("conference = %q", rec.Conference)
	}
	if rec.Year != 2021 {
		t.Errorf("year = %d, want 2021", rec.Year)
	}
	if len(rec.Awards) != 1 || rec.Awards[0] != "優秀発表賞" {
		t.Errorf("awards = %v", rec.Awards)
	}
}

func TestParseBook(t *testing.T) {
	reg := NewRegistry()

	t.Run("whole book", func(t *testing.T) {
		rec := reg.Parse(types.RawCitation{
			Text:     "山田花子: 『生体システム入門』 オーム社, 2018年",
			Category: types.CategoryBook,
		})
		if rec == nil {
			t.Fatal("Parse returned nil")
		}
		if rec.Type != types.TypeBook {
			t.Errorf("type = %q, want book", rec.Type)
		}
		if rec.Title != "生体システム入門" {
			t.Errorf("title = %q", rec.Title)
		}
		if rec.Publisher != "オーム社" {
			t.Errorf("publisher = %q, want オーム社", rec.Publisher)
		}
		if rec.Year != 2018 {
			t.Errorf("year = %d, want 2018", rec.Year)
		}
	})

	t.Run("chapter", func(t *testing.T) {
		rec := reg.Parse(types.RawCitation{
			Text:     `John Smith: "Adaptive Filters." In: Handbook of Signal Processing, Springer, pp.200-230, 2017`,
			Category: types.CategoryBook,
		})
		if rec == nil {
			t.Fatal("Parse returned nil")
		}
		if rec.Type != types.TypeBookChapter {
			t.Errorf("type = %q, want book-chapter", rec.Type)
		}
	})
}

func TestParseReview(t *testing.T) {
	reg := NewRegistry()
	rec := reg.Parse(types.RawCitation{
		Text:     "田中太郎：「生体信号処理の最近の進歩」計測と制御 58(4): pp.12-18, 2020年",
		Category: types.CategoryReview,
	})
	if rec == nil {
		t.Fatal("Parse returned nil for well-formed review citation")
	}
	if rec.Type != types.TypeReview {
		t.Errorf("type = %q, want review", rec.Type)
	}
	if rec.Journal != "計測と制御" {
		t.Errorf("journal = %q", rec.Journal)
	}
}

func TestParseStructuralMismatch(t *testing.T) {
	reg := NewRegistry()
	tests := []struct {
		name string
		raw  types.RawCitation
	}{
		{"no delimiters", types.RawCitation{Text: "completely unstructured text with no quoting", Category: types.CategoryJournalEN}},
		{"missing title quotes", types.RawCitation{Text: "Jane Doe, John Smith: A Study of X, Journal of Y, 2019", Category: types.CategoryJournalEN}},
		{"no authors before quote", types.RawCitation{Text: `"Title Without Authors." Journal of Y, 2019`, Category: types.CategoryJournalEN}},
		{"ja quotes on en category", types.RawCitation{Text: "田中太郎：「日本語タイトル」雑誌 1(1): pp.1-2, 2019年", Category: types.CategoryJournalEN}},
		{"unknown category", types.RawCitation{Text: `Jane Doe: "A Study." J 1(1): pp.1-2, 2019`, Category: types.Category("patent")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := reg.Parse(tt.raw); rec != nil {
				t.Errorf("Parse = %+v, want nil", rec)
			}
		})
	}
}

func TestParseDOIURLForm(t *testing.T) {
	reg := NewRegistry()
	rec := reg.Parse(types.RawCitation{
		Text:     `Jane Doe: "A Study of X." Journal of Y 12(3): pp.45-60, 2019. https://doi.org/10.1038/s41586-020-1234-5`,
		Category: types.CategoryJournalEN,
	})
	if rec == nil {
		t.Fatal("Parse returned nil")
	}
	if rec.DOI != "10.1038/s41586-020-1234-5" {
		t.Errorf("doi = %q, want 10.1038/s41586-020-1234-5", rec.DOI)
	}
}
