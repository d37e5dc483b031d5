// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/perspective-engine/internal/article"
	"github.com/pdiddy/perspective-engine/internal/narrative"
)

var reviewCmd = &cobra.Command{
	Use:   "review [article-file]",
	Short: "Review an article for narrative flow and fidelity",
	Long: `Review assesses an article against the interview transcript: narrative
flow, transition quality, and content fidelity. Deterministic narrative
metrics are computed locally and supplied to the reviewer. When --out is
set, the metrics are also written to a sibling _narrative_analysis.json
file.`,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().String("transcript", "", "interview transcript file")
	reviewCmd.Flags().String("model", "", "AI model identifier for generation")
	reviewCmd.Flags().String("out", "", "write the review feedback to this path (default stdout)")

	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one article file")
	}
	transcriptPath, _ := cmd.Flags().GetString("transcript")
	if transcriptPath == "" {
		return fmt.Errorf("provide a transcript with --transcript")
	}

	text, err := readText(args[0])
	if err != nil {
		return err
	}
	transcript, err := readText(transcriptPath)
	if err != nil {
		return err
	}

	g, maxRetries, err := newGenerator(cmd)
	if err != nil {
		return err
	}

	metrics := narrative.Analyze(text)

	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		if _, err := article.ReviewToFile(context.Background(), g, text, transcript, metrics, maxRetries, outPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", article.MetricsPath(outPath))
		return nil
	}

	result, err := article.Review(context.Background(), g, text, transcript, metrics, maxRetries)
	if err != nil {
		return err
	}
	fmt.Println(result.FeedbackText())
	return nil
}
