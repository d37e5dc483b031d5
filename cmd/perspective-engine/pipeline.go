// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/perspective-engine/internal/pipeline"
	"github.com/pdiddy/perspective-engine/pkg/types"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline [transcript-file]",
	Short: "Run the full transcript-to-referenced-article workflow",
	Long: `Pipeline runs every stage in order: literature search, article drafting,
then review cycles of marking, reference matching, narrative analysis,
review, and improvement, and finally reference ranking. Each stage writes
its artifact under the data directory before the next stage runs.`,
	RunE: runPipeline,
}

func init() {
	pipelineCmd.Flags().String("topic", "", "subject of the perspective article")
	pipelineCmd.Flags().String("query", "", "literature search query (default: the topic)")
	pipelineCmd.Flags().Int("max-results", 0, "maximum number of papers to fetch (default 100)")
	pipelineCmd.Flags().Int("cycles", 0, "number of review cycles (default 3)")
	pipelineCmd.Flags().String("data-dir", "", "base directory for artifacts (default data)")
	pipelineCmd.Flags().String("model", "", "AI model identifier for generation")

	rootCmd.AddCommand(pipelineCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one transcript file")
	}
	topic, _ := cmd.Flags().GetString("topic")
	if topic == "" {
		return fmt.Errorf("provide a topic with --topic")
	}
	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		query = topic
	}

	cycles, _ := cmd.Flags().GetInt("cycles")
	if cycles == 0 {
		cycles = viper.GetInt("pipeline.review_cycles")
	}
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("pipeline.data_dir")
	}

	searchCfg := searchConfig(cmd)
	client := newSearchClient(searchCfg)

	g, maxRetries, err := newGenerator(cmd)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		TranscriptPath: args[0],
		Topic:          topic,
		Query:          query,
		Search:         searchCfg,
		Pipeline: types.PipelineConfig{
			DataDir:      dataDir,
			ReviewCycles: cycles,
		},
		MaxRetries: maxRetries,
	}

	result, err := pipeline.Run(context.Background(), client, g, opts, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nPipeline complete\n")
	fmt.Fprintf(os.Stdout, "  pool:    %s (%d papers)\n", result.PoolPath, result.PoolSize)
	fmt.Fprintf(os.Stdout, "  article: %s\n", result.ArticlePath)
	fmt.Fprintf(os.Stdout, "  ranked:  %s\n", result.RankedPath)
	return nil
}
