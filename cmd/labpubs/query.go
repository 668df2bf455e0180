// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amityar/labpubs/internal/pubstore"
	"github.com/amityar/labpubs/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [query]",
	Short: "Search the publications index",
	Long: `Query searches indexed publications using FTS5 full-text search over
titles, authors, venues, and raw citation text, combined with structured
filters (type, year, batch, validity).`,
	RunE: runQuery,
}

func init() {
	addStoreFlags(queryCmd)
	addFilterFlags(queryCmd)
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	store, err := pubstore.NewStore(storeConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --type, --year, --batch, or a validity flag")
	}

	results, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(results, jsonOutput)
}

func formatQueryOutput(results []pubstore.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-5s  %-12s  %-44s  %-24s  %s\n",
		"Rank", "Year", "Type", "Title", "Authors", "Valid")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 104))

	for i, r := range results {
		title := r.Title
		if len(title) > 44 {
			title = title[:41] + "..."
		}
		authors := strings.Join(r.Authors, ", ")
		if len(authors) > 24 {
			authors = authors[:21] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-5d  %-12s  %-44s  %-24s  %t\n",
			i+1, r.Year, r.Type, title, authors, r.Valid)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// addFilterFlags registers the filter flags shared by query and export.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", "full-text search query")
	cmd.Flags().String("type", "", "filter by record type: journal, conference, book, book-chapter, review, presentation, preprint, thesis")
	cmd.Flags().Int("year", 0, "filter by publication year")
	cmd.Flags().String("batch", "", "filter by source batch ID")
	cmd.Flags().Bool("valid-only", false, "only records that passed validation")
	cmd.Flags().Bool("invalid-only", false, "only records that failed validation")
	cmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) pubstore.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	recType, _ := cmd.Flags().GetString("type")
	year, _ := cmd.Flags().GetInt("year")
	batchID, _ := cmd.Flags().GetString("batch")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := pubstore.QueryOptions{
		Query:      queryText,
		Type:       types.RecordType(recType),
		Year:       year,
		BatchID:    batchID,
		MaxResults: limit,
	}

	validOnly, _ := cmd.Flags().GetBool("valid-only")
	invalidOnly, _ := cmd.Flags().GetBool("invalid-only")
	if validOnly != invalidOnly {
		opts.Valid = &validOnly
	}
	return opts
}
