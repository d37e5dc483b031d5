// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/perspective-engine/internal/pubmed"
	"github.com/pdiddy/perspective-engine/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search PubMed for papers matching a query",
	Long: `Search queries the NCBI E-utilities for papers matching a query, fetches
record details in batches, and writes the resulting paper pool as JSON.
Missing record fields are left empty so the pool reloads losslessly.

The pool can also be saved to a YAML query file with --query-file, or
indexed into the local pool database with --save.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("max-results", 0, "maximum number of papers to fetch (default 100)")
	searchCmd.Flags().String("out", "", "write the paper pool JSON to this path (default stdout)")
	searchCmd.Flags().String("query-file", "", "also save the query and results to a YAML query file")
	searchCmd.Flags().Bool("save", false, "index the pool into the local paper database")
	searchCmd.Flags().String("db", "", "paper database path (default data/index/papers.db)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search query")
	}
	query := strings.Join(args, " ")

	cfg := searchConfig(cmd)
	client := newSearchClient(cfg)

	papers, err := client.Search(context.Background(), query, cfg, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Found %d papers\n", len(papers))

	// Pools are persisted raw so reloading them is lossless; sentinels
	// appear only in display output (papers list, prompt context).
	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		data, err := json.MarshalIndent(papers, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding paper pool: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("writing paper pool: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Saved pool to %s\n", outPath)
	} else {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(papers); err != nil {
			return err
		}
	}

	queryFile, _ := cmd.Flags().GetString("query-file")
	if queryFile != "" {
		if err := pubmed.WriteQueryFile(queryFile, query, cfg, papers); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Saved query file to %s\n", queryFile)
	}

	save, _ := cmd.Flags().GetBool("save")
	if save {
		st, err := store.NewStore(storeConfig(cmd))
		if err != nil {
			return err
		}
		defer st.Close()

		saved, err := st.SavePool(context.Background(), query, papers)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Indexed %d papers\n", saved)
	}

	return nil
}
