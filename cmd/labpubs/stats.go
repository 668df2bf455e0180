// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amityar/labpubs/internal/pubstore"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the publications index",
	RunE:  runStats,
}

func init() {
	addStoreFlags(statsCmd)
	statsCmd.Flags().Bool("json", false, "output stats as JSON")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := pubstore.NewStore(storeConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	fmt.Fprintf(os.Stdout, "records:  %d (%d valid, %d invalid)\n", st.Records, st.Valid, st.Invalid)
	fmt.Fprintf(os.Stdout, "batches:  %d\n", st.Batches)
	if st.EarliestYear > 0 {
		fmt.Fprintf(os.Stdout, "years:    %d-%d\n", st.EarliestYear, st.LatestYear)
	}
	fmt.Fprintf(os.Stdout, "with DOI: %d\n", st.WithDOI)
	fmt.Fprintf(os.Stdout, "awards:   %d\n", st.WithAwardNote)

	if len(st.ByType) > 0 {
		fmt.Fprintln(os.Stdout, "\nby type:")
		for _, tc := range st.ByType {
			fmt.Fprintf(os.Stdout, "  %-14s %d\n", tc.Type, tc.Count)
		}
	}
	if len(st.ByProvenance) > 0 {
		fmt.Fprintln(os.Stdout, "\nby strategy:")
		for _, pc := range st.ByProvenance {
			fmt.Fprintf(os.Stdout, "  %-18s %d\n", pc.Provenance, pc.Count)
		}
	}
	return nil
}
