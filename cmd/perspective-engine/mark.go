// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/perspective-engine/internal/article"
)

var markCmd = &cobra.Command{
	Use:   "mark [article-file]",
	Short: "Insert [REF] markers where an article needs citations",
	Long: `Mark inserts [REF] markers after claims in an article that should be
supported by a citation. The article text is otherwise unchanged.`,
	RunE: runMark,
}

func init() {
	markCmd.Flags().String("model", "", "AI model identifier for generation")
	markCmd.Flags().String("out", "", "write the marked article to this path (default stdout)")

	rootCmd.AddCommand(markCmd)
}

func runMark(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one article file")
	}

	text, err := readText(args[0])
	if err != nil {
		return err
	}

	g, maxRetries, err := newGenerator(cmd)
	if err != nil {
		return err
	}

	marked, err := article.Mark(context.Background(), g, text, maxRetries)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	return writeText(outPath, marked)
}
