// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/amityar/labpubs/pkg/types"
)

// Entry is one cached lookup verdict: either the resolved record or a
// failure sentinel with its cause. Sentinels keep known-bad identifiers
// from being re-fetched for the life of the cache.
type Entry struct {
	DOI       string              `json:"doi" yaml:"doi"`
	Record    *types.ParsedRecord `json:"record,omitempty" yaml:"record,omitempty"`
	Failed    bool                `json:"failed" yaml:"failed"`
	Cause     string              `json:"cause,omitempty" yaml:"cause,omitempty"`
	FetchedAt time.Time           `json:"fetched_at" yaml:"fetched_at"`
}

// Cache is the durable lookup store consulted before any network call.
// Implementations are append-only per identifier: a verdict, once stored,
// is never overwritten.
type Cache interface {
	Get(doi string) (Entry, bool)
	Put(e Entry)
	Flush() error
}

// cacheFile is the on-disk YAML shape.
type cacheFile struct {
	Entries []Entry `yaml:"entries"`
}

// FileCache is a YAML-backed Cache. The whole file is read at construction
// and rewritten on Flush; the orchestrator flushes at each batch boundary.
type FileCache struct {
	path    string
	entries map[string]Entry
	dirty   bool
}

// NewFileCache loads the cache at path, which need not exist yet.
func NewFileCache(path string) (*FileCache, error) {
	c := &FileCache{path: path, entries: make(map[string]Entry)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("reading cache %s: %w", path, err)
	}

	var f cacheFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing cache %s: %w", path, err)
	}
	for _, e := range f.Entries {
		c.entries[e.DOI] = e
	}
	return c, nil
}

// Get returns the cached verdict for doi, if any.
func (c *FileCache) Get(doi string) (Entry, bool) {
	e, ok := c.entries[doi]
	return e, ok
}

// Put stores a verdict. An identifier already present is left untouched,
// keeping the cache deterministic across re-runs.
func (c *FileCache) Put(e Entry) {
	if _, ok := c.entries[e.DOI]; ok {
		return
	}
	c.entries[e.DOI] = e
	c.dirty = true
}

// Len returns the number of cached identifiers.
func (c *FileCache) Len() int {
	return len(c.entries)
}

// Flush rewrites the cache file when entries were added since the last
// flush. Entries are sorted by identifier so the file diffs cleanly.
func (c *FileCache) Flush() error {
	if !c.dirty {
		return nil
	}

	f := cacheFile{Entries: make([]Entry, 0, len(c.entries))}
	for _, e := range c.entries {
		f.Entries = append(f.Entries, e)
	}
	sort.Slice(f.Entries, func(i, j int) bool { return f.Entries[i].DOI < f.Entries[j].DOI })

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating cache directory: %w", err)
		}
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("writing cache %s: %w", c.path, err)
	}
	c.dirty = false
	return nil
}
