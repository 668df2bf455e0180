// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amityar/labpubs/internal/catparse"
	"github.com/amityar/labpubs/internal/crossref"
	"github.com/amityar/labpubs/internal/infer"
	"github.com/amityar/labpubs/internal/pipeline"
	"github.com/amityar/labpubs/pkg/types"
)

const (
	defaultTimeout          = 60 * time.Second
	defaultRequestInterval  = 1 * time.Second
	defaultInferenceTimeout = 120 * time.Second
	defaultEndpoint         = "http://localhost:11434"
	defaultModel            = "qwen2.5:7b"
	defaultUserAgent        = "labpubs/0.1"
	defaultMaxRetries       = 2
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve citation batches into publication records",
	Long: `Run processes every batch file in the input directory through the
resolution strategies and writes one record-set YAML file per batch.
Progress is checkpointed per batch: interrupting and rerunning skips
completed batches, and cached registry lookups are never repeated.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("input-dir", "input", "directory of batch YAML files")
	runCmd.Flags().String("output-dir", "output/records", "directory for record-set files")
	runCmd.Flags().String("progress-file", "output/progress.yaml", "resumable progress state")
	runCmd.Flags().String("cache-file", "cache/crossref.yaml", "durable registry lookup cache")
	runCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	runCmd.Flags().Duration("request-interval", 0, "minimum delay between registry lookups (default 1s)")
	runCmd.Flags().String("mailto", "", "contact email for CrossRef polite-pool access")
	runCmd.Flags().String("inference-endpoint", "", "local text-generation endpoint (default http://localhost:11434)")
	runCmd.Flags().String("inference-model", "", "model identifier for the fallback resolver (default qwen2.5:7b)")
	runCmd.Flags().Duration("inference-timeout", 0, "per-call inference timeout (default 120s)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfigFromFlags(cmd)

	batches, err := pipeline.ReadBatches(cfg.InputDir)
	if err != nil {
		return err
	}

	cache, err := crossref.NewFileCache(cfg.Resolver.CacheFile)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.Resolver.Timeout}
	resolver := crossref.NewResolver(client, cache, cfg.Resolver)

	backend := infer.NewOllamaBackend(cfg.Inference)
	inference := infer.NewResolver(backend, cfg.Inference)

	progress, err := pipeline.NewFileProgress(cfg.ProgressFile)
	if err != nil {
		return err
	}

	o := pipeline.NewOrchestrator(catparse.NewRegistry(), resolver, inference, progress, cache)
	_, err = o.Run(context.Background(), batches, cfg.OutputDir, os.Stdout)
	return err
}

func pipelineConfigFromFlags(cmd *cobra.Command) types.PipelineConfig {
	inputDir, _ := cmd.Flags().GetString("input-dir")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	progressFile, _ := cmd.Flags().GetString("progress-file")
	cacheFile, _ := cmd.Flags().GetString("cache-file")

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	interval, _ := cmd.Flags().GetDuration("request-interval")
	if interval == 0 {
		interval = defaultRequestInterval
	}
	mailto, _ := cmd.Flags().GetString("mailto")

	endpoint, _ := cmd.Flags().GetString("inference-endpoint")
	endpoint = secretDefault("inference-endpoint", endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	model, _ := cmd.Flags().GetString("inference-model")
	model = secretDefault("inference-model", model)
	if model == "" {
		model = defaultModel
	}
	inferenceTimeout, _ := cmd.Flags().GetDuration("inference-timeout")
	if inferenceTimeout == 0 {
		inferenceTimeout = defaultInferenceTimeout
	}

	return types.PipelineConfig{
		InputDir:     inputDir,
		OutputDir:    outputDir,
		ProgressFile: progressFile,
		Resolver: types.ResolverConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: defaultUserAgent,
			},
			RequestInterval: interval,
			CacheFile:       cacheFile,
			Mailto:          secretDefault("crossref-mailto", mailto),
			MaxRetries:      defaultMaxRetries,
		},
		Inference: types.InferenceConfig{
			Endpoint: endpoint,
			Model:    model,
			Timeout:  inferenceTimeout,
		},
	}
}
