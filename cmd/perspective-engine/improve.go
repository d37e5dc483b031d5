// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/perspective-engine/internal/article"
)

var improveCmd = &cobra.Command{
	Use:   "improve [article-file]",
	Short: "Rewrite an article to address review feedback",
	Long: `Improve rewrites an article to address review feedback while staying
faithful to the interview transcript. [REF] markers and resolved citations
are preserved in place.`,
	RunE: runImprove,
}

func init() {
	improveCmd.Flags().String("feedback", "", "review feedback file")
	improveCmd.Flags().String("transcript", "", "interview transcript file")
	improveCmd.Flags().String("model", "", "AI model identifier for generation")
	improveCmd.Flags().String("out", "", "write the improved article to this path (default stdout)")

	rootCmd.AddCommand(improveCmd)
}

func runImprove(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one article file")
	}
	feedbackPath, _ := cmd.Flags().GetString("feedback")
	if feedbackPath == "" {
		return fmt.Errorf("provide review feedback with --feedback")
	}
	transcriptPath, _ := cmd.Flags().GetString("transcript")
	if transcriptPath == "" {
		return fmt.Errorf("provide a transcript with --transcript")
	}

	text, err := readText(args[0])
	if err != nil {
		return err
	}
	feedback, err := readText(feedbackPath)
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

	improved, err := article.Improve(context.Background(), g, text, feedback, transcript, maxRetries)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	return writeText(outPath, improved)
}
