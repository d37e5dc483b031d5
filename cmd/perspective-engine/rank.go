// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/perspective-engine/internal/cite"
)

var rankCmd = &cobra.Command{
	Use:   "rank [article-file]",
	Short: "Extract key sentences and rank supporting references",
	Long: `Rank extracts verbatim key sentences from an article and ranks one to
three supporting references from the paper pool for each. The result is
validated strictly; on failure the raw model output is saved next to the
output path with an .error suffix for diagnosis.`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().String("pool", "", "paper pool file (JSON or YAML query file)")
	rankCmd.Flags().String("model", "", "AI model identifier for generation")
	rankCmd.Flags().String("out", "ranked_references.json", "write the ranked references JSON to this path")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one article file")
	}
	poolPath, _ := cmd.Flags().GetString("pool")
	if poolPath == "" {
		return fmt.Errorf("provide a paper pool with --pool")
	}

	manuscript, err := readText(args[0])
	if err != nil {
		return err
	}
	pool, err := loadPool(poolPath)
	if err != nil {
		return err
	}

	g, maxRetries, err := newGenerator(cmd)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	result, err := cite.RankToFile(context.Background(), g, manuscript, pool, maxRetries, outPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ranked references for %d key sentences\n", len(result.KeySentences))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
	return nil
}
