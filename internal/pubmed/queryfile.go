// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/perspective-engine/pkg/types"
)

// QueryFile is the on-disk representation of a literature search and its
// results. A search can be saved to a file and reloaded later without
// re-querying the E-utilities.
type QueryFile struct {
	Query   string          `yaml:"query"`
	Config  QueryFileConfig `yaml:"config"`
	Results []types.Paper   `yaml:"results"`
	Summary QuerySummary    `yaml:"summary"`
}

// QueryFileConfig stores the search configuration that produced the results.
type QueryFileConfig struct {
	MaxResults int `yaml:"max_results"`
	BatchSize  int `yaml:"batch_size"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a query and its results to a YAML file. Papers are
// written raw, missing fields staying empty, so a reloaded pool round-trips
// losslessly; sentinels belong to display output only.
func WriteQueryFile(path, query string, cfg types.SearchConfig, papers []types.Paper) error {
	qf := QueryFile{
		Query: query,
		Config: QueryFileConfig{
			MaxResults: cfg.MaxResults,
			BatchSize:  cfg.BatchSize,
		},
		Results: papers,
		Summary: QuerySummary{
			Total:     len(papers),
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}
