// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossref resolves DOIs to authoritative publication records via
// the CrossRef registry, behind a durable cache and a global rate limit.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/amityar/labpubs/internal/httputil"
	"github.com/amityar/labpubs/pkg/types"
)

// crossrefAPIBase is the CrossRef works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works/"

// Resolver looks up DOIs against CrossRef. Lookups are globally
// rate-limited: the registry is a shared resource with usage-policy
// constraints, so the minimum delay applies across identifiers, not per
// identifier.
type Resolver struct {
	client  *http.Client
	cache   Cache
	limiter *rate.Limiter
	cfg     types.ResolverConfig
}

// NewResolver builds a Resolver around the given cache. A zero
// RequestInterval defaults to one second.
func NewResolver(client *http.Client, cache Cache, cfg types.ResolverConfig) *Resolver {
	interval := cfg.RequestInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &Resolver{
		client:  client,
		cache:   cache,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		cfg:     cfg,
	}
}

// Resolve returns the authoritative record for doi, or nil when the
// registry cannot supply one. Expected failures (unregistered DOI, network
// error, malformed response) are recorded as cache sentinels and reported
// as a nil record, never as an error; the returned error is reserved for
// context cancellation. A cached verdict, success or failure, short-circuits
// the network entirely.
func (r *Resolver) Resolve(ctx context.Context, doi string) (*types.ParsedRecord, error) {
	if e, ok := r.cache.Get(doi); ok {
		if e.Failed || e.Record == nil {
			return nil, nil
		}
		return cloneRecord(e.Record), nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	rec, err := r.fetch(ctx, doi)
	if err != nil {
		if ctx.Err() != nil {
			// Cancellation is not a registry verdict; leave the cache alone.
			return nil, ctx.Err()
		}
		r.cache.Put(Entry{DOI: doi, Failed: true, Cause: err.Error(), FetchedAt: time.Now().UTC()})
		return nil, nil
	}

	r.cache.Put(Entry{DOI: doi, Record: rec, FetchedAt: time.Now().UTC()})
	return cloneRecord(rec), nil
}

// cloneRecord copies rec so the caller's slices never alias the cached
// entry; a caller mutating its result must not rewrite the cache.
func cloneRecord(rec *types.ParsedRecord) *types.ParsedRecord {
	out := *rec
	out.Authors = append([]string(nil), rec.Authors...)
	out.Awards = append([]string(nil), rec.Awards...)
	out.Violations = append([]string(nil), rec.Violations...)
	return &out
}

// crossrefResponse and friends capture the fields we need from a CrossRef
// work record.
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefWork struct {
	DOI             string           `json:"DOI"`
	Type            string           `json:"type"`
	Title           []string         `json:"title"`
	Author          []crossrefAuthor `json:"author"`
	ContainerTitle  []string         `json:"container-title"`
	Volume          string           `json:"volume"`
	Issue           string           `json:"issue"`
	Page            string           `json:"page"`
	Publisher       string           `json:"publisher"`
	PublishedPrint  crossrefDate     `json:"published-print"`
	PublishedOnline crossrefDate     `json:"published-online"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	Name   string `json:"name"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

func (d crossrefDate) year() int {
	if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
		return d.DateParts[0][0]
	}
	return 0
}

// fetch performs one registry lookup.
func (r *Resolver) fetch(ctx context.Context, doi string) (*types.ParsedRecord, error) {
	apiURL := crossrefAPIBase + doi
	if r.cfg.Mailto != "" {
		apiURL += "?mailto=" + r.cfg.Mailto
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, r.client, req, r.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("DOI not registered (HTTP 404)")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CrossRef API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing CrossRef response: %w", err)
	}

	rec := mapWork(cr.Message, doi)
	if rec.Title == "" {
		return nil, fmt.Errorf("CrossRef record for %s has no title", doi)
	}
	return rec, nil
}

// typeMap converts the CrossRef work-type taxonomy into the local
// enumeration. Unrecognized types default to journal.
var typeMap = map[string]types.RecordType{
	"journal-article":     types.TypeJournal,
	"proceedings-article": types.TypeConference,
	"book":                types.TypeBook,
	"monograph":           types.TypeBook,
	"edited-book":         types.TypeBook,
	"book-chapter":        types.TypeBookChapter,
	"book-section":        types.TypeBookChapter,
	"book-part":           types.TypeBookChapter,
	"posted-content":      types.TypePreprint,
	"dissertation":        types.TypeThesis,
}

// mapWork converts a CrossRef work into a ParsedRecord with
// external-resolver provenance.
func mapWork(w crossrefWork, requestedDOI string) *types.ParsedRecord {
	rec := &types.ParsedRecord{
		Type:       types.TypeJournal,
		Provenance: types.ProvExternalResolver,
	}

	if t, ok := typeMap[w.Type]; ok {
		rec.Type = t
	}

	if len(w.Title) > 0 {
		rec.Title = strings.TrimSpace(w.Title[0])
	}

	for _, a := range w.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name == "" {
			name = strings.TrimSpace(a.Name)
		}
		if name == "" {
			continue
		}
		rec.Authors = append(rec.Authors, name)
	}

	// Print date wins; online-only publications fall back.
	rec.Year = w.PublishedPrint.year()
	if rec.Year == 0 {
		rec.Year = w.PublishedOnline.year()
	}

	if len(w.ContainerTitle) > 0 {
		venue := strings.TrimSpace(w.ContainerTitle[0])
		if rec.Type == types.TypeConference || rec.Type == types.TypePresentation {
			rec.Conference = venue
		} else {
			rec.Journal = venue
		}
	}

	rec.Volume = w.Volume
	rec.Issue = w.Issue
	rec.Pages = strings.ReplaceAll(w.Page, "–", "-")
	rec.Publisher = w.Publisher

	rec.DOI = w.DOI
	if rec.DOI == "" {
		rec.DOI = requestedDOI
	}

	return rec
}
