// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amityar/labpubs/internal/catparse"
	"github.com/amityar/labpubs/internal/pipeline"
	"github.com/amityar/labpubs/internal/validate"
	"github.com/amityar/labpubs/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Dry-run the category parsers over the input batches",
	Long: `Validate parses every citation in the input directory with the
category parsers alone, without touching the registry or the inference
endpoint. It reports which citations the parsers handle and which records
break the schema contract, so batch files can be checked before a full run.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("input-dir", "input", "directory of batch YAML files")
	validateCmd.Flags().Bool("verbose", false, "print each unparsed or invalid citation")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	inputDir, _ := cmd.Flags().GetString("input-dir")
	verbose, _ := cmd.Flags().GetBool("verbose")

	batches, err := pipeline.ReadBatches(inputDir)
	if err != nil {
		return err
	}

	registry := catparse.NewRegistry()
	var total, parsed, valid int

	for _, b := range batches {
		var batchParsed, batchValid int
		for i, text := range b.Citations {
			total++
			rec := registry.Parse(types.RawCitation{Text: text, Category: b.Category, Index: i})
			if rec == nil {
				if verbose {
					fmt.Fprintf(os.Stdout, "  unparsed  %s[%d]: %s\n", b.ID, i, text)
				}
				continue
			}
			batchParsed++

			ok, violations := validate.Record(rec)
			if ok {
				batchValid++
			} else if verbose {
				fmt.Fprintf(os.Stdout, "  invalid   %s[%d]: %v\n", b.ID, i, violations)
			}
		}
		parsed += batchParsed
		valid += batchValid
		fmt.Fprintf(os.Stdout, "%s: %d citations, %d parsed, %d valid\n",
			b.ID, len(b.Citations), batchParsed, batchValid)
	}

	fmt.Fprintf(os.Stdout, "\nTotal: %d citations, %d parsed (%d valid); %d need a resolver\n",
		total, parsed, valid, total-valid)
	return nil
}
