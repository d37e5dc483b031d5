// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/perspective-engine/internal/cite"
)

var matchCmd = &cobra.Command{
	Use:   "match [marked-article-file]",
	Short: "Resolve [REF] markers against a paper pool",
	Long: `Match replaces each [REF] marker in a marked article with an APA-style
in-text citation drawn from the paper pool. Markers no pool paper supports
become "[REF not found]".`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().String("pool", "", "paper pool file (JSON or YAML query file)")
	matchCmd.Flags().String("model", "", "AI model identifier for generation")
	matchCmd.Flags().String("out", "", "write the referenced article to this path (default stdout)")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one marked article file")
	}
	poolPath, _ := cmd.Flags().GetString("pool")
	if poolPath == "" {
		return fmt.Errorf("provide a paper pool with --pool")
	}

	marked, err := readText(args[0])
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
	if outPath != "" {
		if err := cite.MatchToFile(context.Background(), g, marked, pool, maxRetries, outPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
		return nil
	}

	matched, err := cite.MatchReferences(context.Background(), g, marked, pool, maxRetries)
	if err != nil {
		return err
	}
	fmt.Println(matched)
	return nil
}
