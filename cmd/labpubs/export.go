// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amityar/labpubs/internal/pubstore"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the publications index to YAML or JSON",
	Long: `Export writes the full publications index (or a filtered subset) to
export.yaml or export.json in the index directory. Supports the same
filter flags as query for partial exports.`,
	RunE: runExport,
}

func init() {
	addStoreFlags(exportCmd)
	addFilterFlags(exportCmd)
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg := storeConfigFromFlags(cmd)
	store, err := pubstore.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.yaml\n", cfg.IndexDir)
	case "json":
		if err := store.ExportJSON(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.json\n", cfg.IndexDir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}
