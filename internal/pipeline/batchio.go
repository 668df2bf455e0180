// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/amityar/labpubs/pkg/types"
)

// ReadBatches loads every YAML batch file under inputDir, sorted by
// filename so runs are deterministic. An unreadable or malformed file is
// an error: input problems must stop the run, not silently shrink it.
func ReadBatches(inputDir string) ([]types.Batch, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	batches := make([]types.Batch, 0, len(names))
	for _, name := range names {
		path := filepath.Join(inputDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading batch file %s: %w", path, err)
		}

		var b types.Batch
		if err := yaml.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("parsing batch file %s: %w", path, err)
		}
		if b.ID == "" {
			b.ID = strings.TrimSuffix(name, filepath.Ext(name))
		}
		batches = append(batches, b)
	}
	return batches, nil
}

// WriteRecordSet writes one record-set YAML file per batch under outputDir.
func WriteRecordSet(outputDir string, set types.RecordSet) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := yaml.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshaling record set %s: %w", set.BatchID, err)
	}

	path := filepath.Join(outputDir, set.BatchID+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing record set %s: %w", path, err)
	}
	return nil
}

// ReadRecordSet loads a record-set YAML file written by WriteRecordSet.
func ReadRecordSet(path string) (types.RecordSet, error) {
	var set types.RecordSet
	data, err := os.ReadFile(path)
	if err != nil {
		return set, fmt.Errorf("reading record set: %w", err)
	}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return set, fmt.Errorf("parsing record set %s: %w", path, err)
	}
	return set, nil
}
