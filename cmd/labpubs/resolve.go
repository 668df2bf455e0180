// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/amityar/labpubs/internal/crossref"
	"github.com/amityar/labpubs/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [dois...]",
	Short: "Look up DOIs against the CrossRef registry",
	Long: `Resolve fetches authoritative records for the given DOIs and prints
them as YAML. Lookups go through the same durable cache as the pipeline,
so a DOI resolved here is free on the next run.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("cache-file", "cache/crossref.yaml", "durable registry lookup cache")
	resolveCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	resolveCmd.Flags().Duration("request-interval", 0, "minimum delay between registry lookups (default 1s)")
	resolveCmd.Flags().String("mailto", "", "contact email for CrossRef polite-pool access")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more DOIs")
	}

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

	cache, err := crossref.NewFileCache(cacheFile)
	if err != nil {
		return err
	}

	cfg := types.ResolverConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		RequestInterval: interval,
		CacheFile:       cacheFile,
		Mailto:          secretDefault("crossref-mailto", mailto),
		MaxRetries:      defaultMaxRetries,
	}
	resolver := crossref.NewResolver(&http.Client{Timeout: timeout}, cache, cfg)

	var misses int
	for _, doi := range args {
		rec, err := resolver.Resolve(context.Background(), doi)
		if err != nil {
			return err
		}
		if rec == nil {
			fmt.Fprintf(os.Stdout, "no record: %s\n", doi)
			misses++
			continue
		}
		data, err := yaml.Marshal(rec)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "---\n%s", data)
	}

	if err := cache.Flush(); err != nil {
		return err
	}
	if misses > 0 {
		return fmt.Errorf("%d DOI(s) could not be resolved", misses)
	}
	return nil
}
