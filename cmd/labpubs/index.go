// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amityar/labpubs/internal/pubstore"
	"github.com/amityar/labpubs/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Ingest resolved record sets into the publications index",
	Long: `Index reads record-set YAML files produced by run and ingests them
into a SQLite database with FTS5 indexing. Unchanged batch files are
skipped on subsequent runs; changed ones replace the batch's records.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("records-dir", "output/records", "directory of record-set files")
	addStoreFlags(indexCmd)

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	recordsDir, _ := cmd.Flags().GetString("records-dir")

	store, err := pubstore.NewStore(storeConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), recordsDir, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d batch file(s) failed indexing", summary.Failed)
	}
	return nil
}

// storeConfigFromFlags builds the index configuration shared by the
// index, query, export, and stats commands.
func storeConfigFromFlags(cmd *cobra.Command) types.StoreConfig {
	indexDir, _ := cmd.Flags().GetString("index-dir")
	if indexDir == "" {
		indexDir = "index"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.StoreConfig{
		IndexDir:   indexDir,
		MaxResults: maxResults,
	}
}

// addStoreFlags registers the flags consumed by storeConfigFromFlags.
func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("index-dir", "index", "directory holding the SQLite index")
	cmd.Flags().Int("max-results", 20, "maximum number of query results")
}
