// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/perspective-engine/internal/pubmed"
	"github.com/pdiddy/perspective-engine/pkg/types"
)

// loadPool reads a paper pool from a JSON pool file or a YAML query file,
// chosen by extension.
func loadPool(path string) ([]types.Paper, error) {
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		qf, err := pubmed.ReadQueryFile(path)
		if err != nil {
			return nil, err
		}
		return qf.Results, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading paper pool: %w", err)
	}
	var papers []types.Paper
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("parsing paper pool %s: %w", path, err)
	}
	return papers, nil
}

// readText reads a whole text file, for transcripts and article drafts.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// writeText writes generated text to a file, or stdout when path is empty.
func writeText(path, text string) error {
	if path == "" {
		fmt.Println(text)
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
	return nil
}
