// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/perspective-engine/internal/article"
)

var draftCmd = &cobra.Command{
	Use:   "draft [transcript-file]",
	Short: "Draft a perspective article from an interview transcript",
	Long: `Draft generates a first-person perspective article from an interview
transcript, preserving the speaker's voice and claims. The topic guides
the framing of the piece.`,
	RunE: runDraft,
}

func init() {
	draftCmd.Flags().String("topic", "", "subject of the perspective article")
	draftCmd.Flags().String("model", "", "AI model identifier for generation")
	draftCmd.Flags().String("out", "", "write the draft to this path (default stdout)")

	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one transcript file")
	}
	topic, _ := cmd.Flags().GetString("topic")
	if topic == "" {
		return fmt.Errorf("provide a topic with --topic")
	}

	transcript, err := readText(args[0])
	if err != nil {
		return err
	}

	g, maxRetries, err := newGenerator(cmd)
	if err != nil {
		return err
	}

	text, err := article.Draft(context.Background(), g, transcript, topic, maxRetries)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	return writeText(outPath, text)
}
