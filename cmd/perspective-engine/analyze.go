// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/perspective-engine/internal/narrative"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [article-file]",
	Short: "Compute narrative flow metrics for an article",
	Long: `Analyze computes deterministic narrative metrics for a text file:
transition word density, sentence and paragraph length statistics, and
paragraph boundary transition scores. No network calls are made.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("out", "", "write metrics JSON to this path (default stdout)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one article file")
	}

	text, err := readText(args[0])
	if err != nil {
		return err
	}

	metrics := narrative.Analyze(text)

	data, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metrics: %w", err)
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", outPath)
	return nil
}
