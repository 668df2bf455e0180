// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs raw citation batches through the resolution
// strategies in order of trust: category parsers, the external metadata
// registry, then model inference with its safety net. Every citation
// yields exactly one record; completed batches are checkpointed so an
// interrupted run resumes where it stopped.
package pipeline

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"strings"

	"github.com/amityar/labpubs/internal/catparse"
	"github.com/amityar/labpubs/internal/validate"
	"github.com/amityar/labpubs/pkg/types"
)

// MetadataResolver resolves a DOI to an authoritative record, or nil when
// the registry has no usable answer.
type MetadataResolver interface {
	Resolve(ctx context.Context, doi string) (*types.ParsedRecord, error)
}

// InferenceResolver extracts a record from a raw citation as a last resort.
// It never returns nil.
type InferenceResolver interface {
	ResolveByInference(ctx context.Context, raw types.RawCitation) *types.ParsedRecord
}

// Flusher is any durable state that must be persisted at batch boundaries,
// such as the resolver cache.
type Flusher interface {
	Flush() error
}

// Orchestrator wires the strategies together for a run.
type Orchestrator struct {
	registry  *catparse.Registry
	metadata  MetadataResolver
	inference InferenceResolver
	progress  Progress
	flushers  []Flusher
}

// NewOrchestrator builds an Orchestrator. Extra flushers (the resolver
// cache, typically) are persisted alongside progress after each batch.
func NewOrchestrator(registry *catparse.Registry, metadata MetadataResolver, inference InferenceResolver, progress Progress, flushers ...Flusher) *Orchestrator {
	return &Orchestrator{
		registry:  registry,
		metadata:  metadata,
		inference: inference,
		progress:  progress,
		flushers:  flushers,
	}
}

// RunStats summarizes a pipeline run.
type RunStats struct {
	Batches int
	Skipped int
	BatchCounts
}

// Total returns the number of batches seen, completed or skipped.
func (s RunStats) Total() int {
	return s.Batches + s.Skipped
}

// Run processes batches in order, writing one record-set file per batch to
// outputDir and checkpointing after each. Batches recorded as completed by
// a prior run are skipped without touching any resolver. Per-citation
// failures degrade to weaker strategies rather than stopping the run; the
// returned error is reserved for cancellation and I/O failures.
func (o *Orchestrator) Run(ctx context.Context, batches []types.Batch, outputDir string, w io.Writer) (RunStats, error) {
	var stats RunStats
	for _, b := range batches {
		if o.progress.IsCompleted(b.ID) {
			fmt.Fprintf(w, "skipped: %s (already completed)\n", b.ID)
			stats.Skipped++
			continue
		}

		set, counts, err := o.processBatch(ctx, b)
		if err != nil {
			return stats, err
		}
		if err := WriteRecordSet(outputDir, set); err != nil {
			return stats, err
		}

		o.progress.MarkCompleted(b.ID, counts)
		if err := o.checkpoint(); err != nil {
			return stats, err
		}

		stats.Batches++
		stats.BatchCounts.add(counts)
		fmt.Fprintf(w, "completed: %s (%d records)\n", b.ID, len(set.Records))
	}

	fmt.Fprintf(w, "\nRun summary: %d batches completed, %d skipped; %d records (%d parsed, %d resolved, %d inferred; %d valid, %d invalid)\n",
		stats.Batches, stats.Skipped, stats.Records, stats.Parsed, stats.Resolved, stats.Inferred, stats.Valid, stats.Invalid)
	return stats, nil
}

// checkpoint persists progress and any registered durable state.
func (o *Orchestrator) checkpoint() error {
	if err := o.progress.Flush(); err != nil {
		return err
	}
	for _, f := range o.flushers {
		if err := f.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// processBatch resolves every citation in b, in order. The output always
// holds one record per citation.
func (o *Orchestrator) processBatch(ctx context.Context, b types.Batch) (types.RecordSet, BatchCounts, error) {
	set := types.RecordSet{
		BatchID:  b.ID,
		Category: b.Category,
		Records:  make([]types.ParsedRecord, 0, len(b.Citations)),
	}
	var counts BatchCounts
	for i, text := range b.Citations {
		raw := types.RawCitation{Text: text, Category: b.Category, Index: i}
		rec, err := o.processCitation(ctx, raw)
		if err != nil {
			return set, counts, err
		}

		counts.Records++
		switch rec.Provenance {
		case types.ProvCategoryParser:
			counts.Parsed++
		case types.ProvExternalResolver:
			counts.Resolved++
		case types.ProvFallbackResolver:
			counts.Inferred++
		}
		if rec.Valid {
			counts.Valid++
		} else {
			counts.Invalid++
		}

		set.Records = append(set.Records, *rec)
	}
	return set, counts, nil
}

// processCitation applies the strategies in trust order. Parser and
// registry records must pass the schema contract to be accepted; the
// inference answer is taken as-is, with the contract recorded on the
// final record either way.
func (o *Orchestrator) processCitation(ctx context.Context, raw types.RawCitation) (*types.ParsedRecord, error) {
	doi := catparse.FindDOI(raw.Text)

	rec := o.registry.Parse(raw)
	if rec != nil {
		if ok, _ := validate.Record(rec); !ok {
			rec = nil
		}
	}

	if rec == nil && doi != "" {
		resolved, err := o.metadata.Resolve(ctx, doi)
		if err != nil {
			return nil, err
		}
		if resolved != nil {
			if ok, _ := validate.Record(resolved); ok {
				rec = resolved
			}
		}
	}

	if rec == nil {
		rec = o.inference.ResolveByInference(ctx, raw)
	}

	enrich(rec, raw, doi)
	rec.Valid, rec.Violations = validate.Record(rec)
	rec.ID = deriveID(rec, raw)
	return rec, nil
}

// enrich backfills fields every strategy can miss from the raw text.
func enrich(rec *types.ParsedRecord, raw types.RawCitation, doi string) {
	if rec.DOI == "" {
		rec.DOI = doi
	}
	if rec.ArxivID == "" {
		rec.ArxivID = catparse.FindArxivID(raw.Text)
	}
	if len(rec.Awards) == 0 {
		rec.Awards = catparse.ExtractAwards(raw.Text)
	}
	if rec.Language == "" {
		rec.Language = catparse.DetectLanguage(raw.Text)
	}
	if rec.RawText == "" {
		rec.RawText = raw.Text
	}
}

// deriveID builds the record's stable identifier from the year, the first
// author, a title fragment, and the citation's index within its batch.
// Citations whose author and title carry no slug-safe characters (common
// for Japanese entries) fall back to a hash of the raw text.
func deriveID(rec *types.ParsedRecord, raw types.RawCitation) string {
	var parts []string
	if rec.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", rec.Year))
	}
	if len(rec.Authors) > 0 {
		if s := slugify(rec.Authors[0], 2); s != "" {
			parts = append(parts, s)
		}
	}
	if s := slugify(rec.Title, 4); s != "" {
		parts = append(parts, s)
	}

	if len(parts) == 0 {
		sum := sha256.Sum256([]byte(raw.Text))
		parts = append(parts, fmt.Sprintf("rec-%x", sum[:4]))
	}

	parts = append(parts, fmt.Sprintf("%02d", raw.Index))
	return strings.Join(parts, "-")
}

// slugify lowercases s, keeps ASCII letters and digits, and joins up to
// maxWords words with hyphens.
func slugify(s string, maxWords int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	words := strings.Fields(b.String())
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, "-")
}
