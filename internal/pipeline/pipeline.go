// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the full transcript-to-referenced-article workflow:
// literature search, drafting, iterative mark/match/review/improve cycles,
// and final reference ranking. Each step writes its artifact under the data
// directory before the next step runs, so a failed run leaves everything
// produced so far on disk.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/perspective-engine/internal/article"
	"github.com/pdiddy/perspective-engine/internal/cite"
	"github.com/pdiddy/perspective-engine/internal/genai"
	"github.com/pdiddy/perspective-engine/internal/narrative"
	"github.com/pdiddy/perspective-engine/pkg/types"
)

const defaultReviewCycles = 3

// Searcher is the literature search capability the pipeline depends on.
// *pubmed.Client implements it; tests supply doubles.
type Searcher interface {
	Search(ctx context.Context, query string, cfg types.SearchConfig, w io.Writer) ([]types.Paper, error)
}

// Options configures one pipeline run.
type Options struct {
	// TranscriptPath is the interview transcript file.
	TranscriptPath string

	// Topic is the subject of the perspective article.
	Topic string

	// Query is the literature search query.
	Query string

	// Search configures the literature search stage.
	Search types.SearchConfig

	// Pipeline configures artifact layout and cycle count.
	Pipeline types.PipelineConfig

	// MaxRetries is passed to every generation call.
	MaxRetries int
}

// Result lists the principal artifacts of a completed run.
type Result struct {
	PoolPath    string
	PoolSize    int
	ArticlePath string
	RankedPath  string
}

// Run executes the workflow sequentially. Any step failure aborts the run
// with a wrapped error; artifacts already written stay on disk. An empty
// search pool is not a failure: the later stages receive the empty pool and
// markers resolve to "[REF not found]".
func Run(ctx context.Context, searcher Searcher, g genai.Generator, opts Options, w io.Writer) (Result, error) {
	dataDir := opts.Pipeline.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	cycles := opts.Pipeline.ReviewCycles
	if cycles <= 0 {
		cycles = defaultReviewCycles
	}
	ts := time.Now().Format("20060102_150405")

	var result Result

	// Step 1: literature search and pool persistence.
	fmt.Fprintf(w, "searching literature: %q\n", opts.Query)
	pool, err := searcher.Search(ctx, opts.Query, opts.Search, w)
	if err != nil {
		return result, fmt.Errorf("literature search: %w", err)
	}
	result.PoolSize = len(pool)
	result.PoolPath = filepath.Join(dataDir, "pubmed", fmt.Sprintf("search_results_%s.json", ts))
	// Persist the pool raw so it can be fed back to match/rank losslessly.
	if err := writeJSON(result.PoolPath, pool); err != nil {
		return result, err
	}
	fmt.Fprintf(w, "found %d papers, pool saved to %s\n", len(pool), result.PoolPath)

	// Step 2: transcript to perspective article.
	transcript, err := os.ReadFile(opts.TranscriptPath)
	if err != nil {
		return result, fmt.Errorf("reading transcript: %w", err)
	}
	fmt.Fprintf(w, "drafting perspective article: %s\n", opts.Topic)
	current, err := article.Draft(ctx, g, string(transcript), opts.Topic, opts.MaxRetries)
	if err != nil {
		return result, err
	}
	draftPath := filepath.Join(dataDir, "perspective", fmt.Sprintf("perspective_article_%s.txt", ts))
	if err := writeText(draftPath, current); err != nil {
		return result, err
	}

	// Steps 3-5: iterative mark, match, review, improve.
	for cycle := 1; cycle <= cycles; cycle++ {
		fmt.Fprintf(w, "cycle %d/%d: marking citations\n", cycle, cycles)
		marked, err := article.Mark(ctx, g, current, opts.MaxRetries)
		if err != nil {
			return result, err
		}
		markedPath := filepath.Join(dataDir, "marked", fmt.Sprintf("marked_article_%s_cycle%d.txt", ts, cycle))
		if err := writeText(markedPath, marked); err != nil {
			return result, err
		}

		fmt.Fprintf(w, "cycle %d/%d: matching references\n", cycle, cycles)
		matchedPath := filepath.Join(dataDir, "references", fmt.Sprintf("article_with_references_%s_cycle%d.txt", ts, cycle))
		if err := os.MkdirAll(filepath.Dir(matchedPath), 0o755); err != nil {
			return result, fmt.Errorf("creating output directory: %w", err)
		}
		if err := cite.MatchToFile(ctx, g, marked, pool, opts.MaxRetries, matchedPath); err != nil {
			return result, err
		}
		matched, err := os.ReadFile(matchedPath)
		if err != nil {
			return result, fmt.Errorf("reading matched article: %w", err)
		}

		fmt.Fprintf(w, "cycle %d/%d: reviewing\n", cycle, cycles)
		metrics := narrative.Analyze(string(matched))
		reviewPath := filepath.Join(dataDir, "review", fmt.Sprintf("review_feedback_%s_cycle%d.json", ts, cycle))
		if err := os.MkdirAll(filepath.Dir(reviewPath), 0o755); err != nil {
			return result, fmt.Errorf("creating output directory: %w", err)
		}
		review, err := article.ReviewToFile(ctx, g, string(matched), string(transcript), metrics, opts.MaxRetries, reviewPath)
		if err != nil {
			return result, err
		}

		fmt.Fprintf(w, "cycle %d/%d: improving\n", cycle, cycles)
		improved, err := article.Improve(ctx, g, string(matched), review.FeedbackText(), string(transcript), opts.MaxRetries)
		if err != nil {
			return result, err
		}
		improvedPath := filepath.Join(dataDir, "improved", fmt.Sprintf("improved_article_%s_cycle%d.txt", ts, cycle))
		if err := writeText(improvedPath, improved); err != nil {
			return result, err
		}
		current = improved
		result.ArticlePath = improvedPath
	}

	// Step 6: rank references against the final article.
	fmt.Fprintf(w, "ranking references\n")
	result.RankedPath = filepath.Join(dataDir, "ranked", fmt.Sprintf("ranked_references_%s.json", ts))
	if err := os.MkdirAll(filepath.Dir(result.RankedPath), 0o755); err != nil {
		return result, fmt.Errorf("creating output directory: %w", err)
	}
	if _, err := cite.RankToFile(ctx, g, current, pool, opts.MaxRetries, result.RankedPath); err != nil {
		return result, err
	}

	fmt.Fprintf(w, "pipeline complete: article %s, references %s\n", result.ArticlePath, result.RankedPath)
	return result, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, data, 0o644)
}

func writeText(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return os.WriteFile(path, []byte(text), 0o644)
}
