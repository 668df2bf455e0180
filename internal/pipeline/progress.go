// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.yaml.in/yaml/v3"
)

// Progress tracks which batches a run has already finished, so an
// interrupted run can resume without redoing them.
type Progress interface {
	// IsCompleted reports whether the batch was finished by a prior run.
	IsCompleted(batchID string) bool

	// MarkCompleted records a finished batch and folds its counts into
	// the running totals.
	MarkCompleted(batchID string, counts BatchCounts)

	// Flush persists the completion state.
	Flush() error
}

// BatchCounts tallies one batch's records by resolution strategy and
// contract status.
type BatchCounts struct {
	Records  int `yaml:"records"`
	Parsed   int `yaml:"parsed"`
	Resolved int `yaml:"resolved"`
	Inferred int `yaml:"inferred"`
	Valid    int `yaml:"valid"`
	Invalid  int `yaml:"invalid"`
}

func (c *BatchCounts) add(d BatchCounts) {
	c.Records += d.Records
	c.Parsed += d.Parsed
	c.Resolved += d.Resolved
	c.Inferred += d.Inferred
	c.Valid += d.Valid
	c.Invalid += d.Invalid
}

// CompletedBatch is one line of durable progress state.
type CompletedBatch struct {
	BatchID     string    `yaml:"batch_id"`
	Records     int       `yaml:"records"`
	CompletedAt time.Time `yaml:"completed_at"`
}

type progressState struct {
	Completed []CompletedBatch `yaml:"completed"`
	Totals    BatchCounts      `yaml:"totals"`
}

// FileProgress is the YAML-backed Progress used by the CLI. A missing file
// means a fresh run. Entries are only ever added; re-marking a completed
// batch is a no-op, so replayed runs converge on the same state.
type FileProgress struct {
	path   string
	done   map[string]CompletedBatch
	totals BatchCounts
	dirty  bool
}

// NewFileProgress loads progress state from path, tolerating a missing file.
func NewFileProgress(path string) (*FileProgress, error) {
	p := &FileProgress{path: path, done: make(map[string]CompletedBatch)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading progress file: %w", err)
	}

	var state progressState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing progress file %s: %w", path, err)
	}
	for _, c := range state.Completed {
		p.done[c.BatchID] = c
	}
	p.totals = state.Totals
	return p, nil
}

func (p *FileProgress) IsCompleted(batchID string) bool {
	_, ok := p.done[batchID]
	return ok
}

func (p *FileProgress) MarkCompleted(batchID string, counts BatchCounts) {
	if _, ok := p.done[batchID]; ok {
		return
	}
	p.done[batchID] = CompletedBatch{
		BatchID:     batchID,
		Records:     counts.Records,
		CompletedAt: time.Now().UTC(),
	}
	p.totals.add(counts)
	p.dirty = true
}

// Totals returns the aggregate counters over every completed batch.
func (p *FileProgress) Totals() BatchCounts {
	return p.totals
}

// Completed returns the recorded completions sorted by batch ID.
func (p *FileProgress) Completed() []CompletedBatch {
	out := make([]CompletedBatch, 0, len(p.done))
	for _, c := range p.done {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BatchID < out[j].BatchID })
	return out
}

// Flush writes the state back to disk when it changed.
func (p *FileProgress) Flush() error {
	if !p.dirty {
		return nil
	}

	data, err := yaml.Marshal(progressState{Completed: p.Completed(), Totals: p.totals})
	if err != nil {
		return fmt.Errorf("marshaling progress state: %w", err)
	}
	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating progress directory: %w", err)
		}
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("writing progress file: %w", err)
	}
	p.dirty = false
	return nil
}
