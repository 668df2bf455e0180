// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amityar/labpubs/internal/httputil"
	"github.com/amityar/labpubs/pkg/types"
)

func TestMain(m *testing.M) {
	httputil.RetryBaseDelay = time.Millisecond
	os.Exit(m.Run())
}

// memCache is an in-memory Cache for resolver tests.
type memCache struct {
	entries map[string]Entry
	flushes int
}

func newMemCache() *memCache { return &memCache{entries: make(map[string]Entry)} }

func (m *memCache) Get(doi string) (Entry, bool) { e, ok := m.entries[doi]; return e, ok }
func (m *memCache) Put(e Entry) {
	if _, ok := m.entries[e.DOI]; ok {
		return
	}
	m.entries[e.DOI] = e
}
func (m *memCache) Flush() error { m.flushes++; return nil }

func testResolverConfig() types.ResolverConfig {
	return types.ResolverConfig{
		HTTPConfig:      types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "labpubs-test/0.1"},
		RequestInterval: time.Millisecond,
		MaxRetries:      1,
	}
}

const workJSON = `{"message": {
	"DOI": "10.1038/s41586-020-1234-5",
	"type": "journal-article",
	"title": ["A Study of X"],
	"author": [{"given": "Jane", "family": "Doe"}, {"given": "John", "family": "Smith"}],
	"container-title": ["Journal of Y"],
	"volume": "12",
	"issue": "3",
	"page": "45-60",
	"publisher": "Nature Publishing",
	"published-print": {"date-parts": [[2019, 4, 1]]},
	"published-online": {"date-parts": [[2018, 12, 20]]}
}}`

func TestResolveMapsWork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, workJSON)
	}))
	defer srv.Close()
	oldBase := crossrefAPIBase
	crossrefAPIBase = srv.URL + "/"
	defer func() { crossrefAPIBase = oldBase }()

	r := NewResolver(srv.Client(), newMemCache(), testResolverConfig())
	rec, err := r.Resolve(context.Background(), "10.1038/s41586-020-1234-5")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rec == nil {
		t.Fatal("Resolve returned nil record")
	}

	if rec.Title != "A Study of X" {
		t.Errorf("title = %q", rec.Title)
	}
	if len(rec.Authors) != 2 || rec.Authors[0] != "Jane Doe" || rec.Authors[1] != "John Smith" {
		t.Errorf("authors = %v", rec.Authors)
	}
	if rec.Year != 2019 {
		t.Errorf("year = %d, want print year 2019", rec.Year)
	}
	if rec.Journal != "Journal of Y" || rec.Volume != "12" || rec.Issue != "3" || rec.Pages != "45-60" {
		t.Errorf("venue = %q/%q/%q/%q", rec.Journal, rec.Volume, rec.Issue, rec.Pages)
	}
	if rec.Type != types.TypeJournal {
		t.Errorf("type = %q", rec.Type)
	}
	if rec.Provenance != types.ProvExternalResolver {
		t.Errorf("provenance = %q", rec.Provenance)
	}
}

func TestResolveOnlineDateFallback(t *testing.T) {
	body := `{"message": {"type": "journal-article", "title": ["T"],
		"author": [{"given": "A", "family": "B"}],
		"published-online": {"date-parts": [[2021]]}}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()
	oldBase := crossrefAPIBase
	crossrefAPIBase = srv.URL + "/"
	defer func() { crossrefAPIBase = oldBase }()

	r := NewResolver(srv.Client(), newMemCache(), testResolverConfig())
	rec, err := r.Resolve(context.Background(), "10.1234/online-only")
	if err != nil || rec == nil {
		t.Fatalf("Resolve: rec=%v err=%v", rec, err)
	}
	if rec.Year != 2021 {
		t.Errorf("year = %d, want online year 2021", rec.Year)
	}
}

func TestResolveTypeMapping(t *testing.T) {
	tests := []struct {
		crType   string
		want     types.RecordType
		wantConf bool
	}{
		{"journal-article", types.TypeJournal, false},
		{"proceedings-article", types.TypeConference, true},
		{"book-chapter", types.TypeBookChapter, false},
		{"posted-content", types.TypePreprint, false},
		{"dissertation", types.TypeThesis, false},
		{"weird-new-type", types.TypeJournal, false},
	}
	for _, tt := range tests {
		t.Run(tt.crType, func(t *testing.T) {
			w := crossrefWork{
				Type:           tt.crType,
				Title:          []string{"T"},
				Author:         []crossrefAuthor{{Given: "A", Family: "B"}},
				ContainerTitle: []string{"Venue"},
			}
			rec := mapWork(w, "10.1234/t")
			if rec.Type != tt.want {
				t.Errorf("type = %q, want %q", rec.Type, tt.want)
			}
			if tt.wantConf && rec.Conference != "Venue" {
				t.Errorf("conference = %q, want Venue", rec.Conference)
			}
			if !tt.wantConf && rec.Journal != "Venue" {
				t.Errorf("journal = %q, want Venue", rec.Journal)
			}
		})
	}
}

func TestResolveDisplayNameFallback(t *testing.T) {
	w := crossrefWork{
		Type:   "journal-article",
		Title:  []string{"T"},
		Author: []crossrefAuthor{{Name: "Research Consortium"}},
	}
	rec := mapWork(w, "10.1234/t")
	if len(rec.Authors) != 1 || rec.Authors[0] != "Research Consortium" {
		t.Errorf("authors = %v, want display-name fallback", rec.Authors)
	}
}

func TestResolveFailureSentinel(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()
	oldBase := crossrefAPIBase
	crossrefAPIBase = srv.URL + "/"
	defer func() { crossrefAPIBase = oldBase }()

	cache := newMemCache()
	r := NewResolver(srv.Client(), cache, testResolverConfig())

	rec, err := r.Resolve(context.Background(), "10.9999/unregistered")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rec != nil {
		t.Fatalf("rec = %+v, want nil for unregistered DOI", rec)
	}

	e, ok := cache.Get("10.9999/unregistered")
	if !ok || !e.Failed || e.Cause == "" {
		t.Fatalf("cache entry = %+v, want failure sentinel with cause", e)
	}

	// Second resolve must hit the sentinel, not the network.
	rec, err = r.Resolve(context.Background(), "10.9999/unregistered")
	if err != nil || rec != nil {
		t.Fatalf("second Resolve: rec=%v err=%v", rec, err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("registry calls = %d, want 1 (sentinel short-circuit)", got)
	}
}

func TestResolveResultDoesNotAliasCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, workJSON)
	}))
	defer srv.Close()
	oldBase := crossrefAPIBase
	crossrefAPIBase = srv.URL + "/"
	defer func() { crossrefAPIBase = oldBase }()

	cache := newMemCache()
	r := NewResolver(srv.Client(), cache, testResolverConfig())
	doi := "10.1038/s41586-020-1234-5"

	first, err := r.Resolve(context.Background(), doi)
	if err != nil || first == nil {
		t.Fatalf("Resolve: rec=%v err=%v", first, err)
	}

	// Mutating the returned record must leave the cached entry intact.
	first.Authors[0] = "Mallory Mutation"
	first.Title = "clobbered"

	e, ok := cache.Get(doi)
	if !ok || e.Record == nil {
		t.Fatalf("cache entry missing: %+v", e)
	}
	if e.Record.Authors[0] != "Jane Doe" {
		t.Errorf("cached authors = %v, want Jane Doe preserved", e.Record.Authors)
	}

	second, err := r.Resolve(context.Background(), doi)
	if err != nil || second == nil {
		t.Fatalf("second Resolve: rec=%v err=%v", second, err)
	}
	if second.Title != "A Study of X" || second.Authors[0] != "Jane Doe" {
		t.Errorf("second resolve = %q by %v, want original record", second.Title, second.Authors)
	}

	second.Authors[1] = "Trent Tamper"
	third, _ := r.Resolve(context.Background(), doi)
	if third.Authors[1] != "John Smith" {
		t.Errorf("cache hit aliases caller slices: %v", third.Authors)
	}
}

func TestResolveCachedSuccessSkipsNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, workJSON)
	}))
	defer srv.Close()
	oldBase := crossrefAPIBase
	crossrefAPIBase = srv.URL + "/"
	defer func() { crossrefAPIBase = oldBase }()

	r := NewResolver(srv.Client(), newMemCache(), testResolverConfig())
	doi := "10.1038/s41586-020-1234-5"

	for i := 0; i < 3; i++ {
		rec, err := r.Resolve(context.Background(), doi)
		if err != nil || rec == nil {
			t.Fatalf("Resolve %d: rec=%v err=%v", i, rec, err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("registry calls = %d, want 1", got)
	}
}
