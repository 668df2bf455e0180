// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "labpubs/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResolverConfig holds settings for the external metadata resolver.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline"`

	// RequestInterval is the minimum delay between consecutive registry
	// lookups. Global to the resolver, not per identifier.
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval"`

	// CacheFile is the path of the durable lookup cache.
	CacheFile string `json:"cache_file" yaml:"cache_file"`

	// Mailto is sent to the registry for polite-pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// MaxRetries is the number of retry attempts on rate-limited responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// InferenceConfig holds settings for the fallback language-model resolver.
type InferenceConfig struct {
	// Endpoint is the local text-generation endpoint
	// (e.g. "http://localhost:11434").
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Model is the model identifier passed to the endpoint.
	Model string `json:"model" yaml:"model"`

	// Timeout is the per-call timeout. Inference on long citations is slow,
	// so this defaults well above the HTTP default.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retry attempts for failed model calls.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// PipelineConfig groups settings for a full pipeline run.
type PipelineConfig struct {
	// InputDir contains one YAML batch file per category/year group.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives one record-set YAML file per completed batch.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ProgressFile is the path of the resumable progress state.
	ProgressFile string `json:"progress_file" yaml:"progress_file"`

	Resolver  ResolverConfig  `json:"resolver" yaml:"resolver"`
	Inference InferenceConfig `json:"inference" yaml:"inference"`
}

// StoreConfig holds settings for the publications index.
type StoreConfig struct {
	// IndexDir is the directory holding the SQLite index database.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
