// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package infer is the pipeline's last-resort strategy: a local
// text-generation model prompted to emit a structured record, with a
// regex safety net when the model output is unusable. It always produces
// a record, because the orchestrator's coverage invariant requires one
// record per input regardless of how badly extraction degrades.
package infer

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/amityar/labpubs/pkg/types"
)

// Backend abstracts the text-generation endpoint so tests can supply a mock.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Resolver drives model-based extraction with the built-in safety net.
type Resolver struct {
	backend    Backend
	maxRetries int
}

// NewResolver wraps backend. A zero MaxRetries defaults to 2: the model is
// the most expensive strategy, so it gets fewer attempts than the registry.
func NewResolver(backend Backend, cfg types.InferenceConfig) *Resolver {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 2
	}
	return &Resolver{backend: backend, maxRetries: maxRetries}
}

// ResolveByInference extracts a record from raw via the model, falling back
// to regex best-effort extraction when the model call fails, the response
// contains no parsable JSON, or required fields are missing. It never
// returns nil.
func (r *Resolver) ResolveByInference(ctx context.Context, raw types.RawCitation) *types.ParsedRecord {
	prompt, err := renderPrompt(raw.Text)
	if err == nil {
		if resp, genErr := r.generateWithRetry(ctx, prompt); genErr == nil {
			if rec := parseResponse(resp, raw); rec != nil {
				return rec
			}
		}
	}
	return regexFallback(raw)
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// generateWithRetry calls the backend with exponential backoff.
func (r *Resolver) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}
		resp, err := r.backend.Generate(ctx, prompt)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return "", lastErr
}

// inferredRecord is the JSON shape the model is asked to produce.
type inferredRecord struct {
	Authors    []string `json:"authors"`
	Title      string   `json:"title"`
	Type       string   `json:"type"`
	Year       int      `json:"year"`
	Journal    string   `json:"journal"`
	Conference string   `json:"conference"`
	Volume     string   `json:"volume"`
	Issue      string   `json:"issue"`
	Pages      string   `json:"pages"`
	Publisher  string   `json:"publisher"`
	DOI        string   `json:"doi"`
}

// validInferredTypes guards the model's type field; anything else falls
// back to the category default.
var validInferredTypes = map[types.RecordType]bool{
	types.TypeJournal:      true,
	types.TypeConference:   true,
	types.TypeBook:         true,
	types.TypeBookChapter:  true,
	types.TypeReview:       true,
	types.TypePresentation: true,
	types.TypePreprint:     true,
	types.TypeThesis:       true,
}

// parseResponse turns the model's textual response into a record. It
// returns nil when no usable JSON is found or the required fields are
// missing, signaling the caller to engage the safety net.
func parseResponse(resp string, raw types.RawCitation) *types.ParsedRecord {
	obj := extractJSON(resp)
	if obj == "" {
		return nil
	}

	var ir inferredRecord
	if err := json.Unmarshal([]byte(obj), &ir); err != nil {
		return nil
	}

	var authors []string
	for _, a := range ir.Authors {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	title := strings.TrimSpace(ir.Title)
	if len(authors) == 0 || title == "" {
		return nil
	}

	recType := types.RecordType(ir.Type)
	if !validInferredTypes[recType] {
		recType = raw.Category.DefaultRecordType()
	}

	return &types.ParsedRecord{
		Authors:    authors,
		Title:      title,
		Type:       recType,
		Year:       ir.Year,
		Journal:    strings.TrimSpace(ir.Journal),
		Conference: strings.TrimSpace(ir.Conference),
		Volume:     strings.TrimSpace(ir.Volume),
		Issue:      strings.TrimSpace(ir.Issue),
		Pages:      strings.TrimSpace(ir.Pages),
		Publisher:  strings.TrimSpace(ir.Publisher),
		DOI:        strings.TrimSpace(ir.DOI),
		Provenance: types.ProvFallbackResolver,
		RawText:    raw.Text,
	}
}
