// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/perspective-engine/internal/genai"
	"github.com/pdiddy/perspective-engine/internal/pubmed"
	"github.com/pdiddy/perspective-engine/internal/secrets"
	"github.com/pdiddy/perspective-engine/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "perspective-engine/0.1"
	defaultModel     = "claude-sonnet-4-5-20250929"
)

// searchConfig builds the search stage configuration from flags, config
// file, and secrets, in that order of precedence.
func searchConfig(cmd *cobra.Command) types.SearchConfig {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults <= 0 {
		maxResults = viper.GetInt("search.max_results")
	}

	delay := viper.GetDuration("search.batch_delay")
	if delay == 0 {
		delay = time.Second
	}

	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		MaxResults: maxResults,
		BatchSize:  viper.GetInt("search.batch_size"),
		BatchDelay: delay,
		APIKey:     loadedSecrets.Resolve(secrets.NCBIAPIKey, "NCBI_API_KEY", viper.GetString("search.api_key")),
	}
}

// newSearchClient returns a PubMed client with the configured timeout.
func newSearchClient(cfg types.SearchConfig) *pubmed.Client {
	return &pubmed.Client{Client: &http.Client{Timeout: cfg.Timeout}}
}

// newGenerator builds the generation backend from flags, config, and secrets.
func newGenerator(cmd *cobra.Command) (*genai.ClaudeBackend, int, error) {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("ai.model")
	}
	if model == "" {
		model = defaultModel
	}

	apiKey := loadedSecrets.Resolve(secrets.AnthropicAPIKey, "ANTHROPIC_API_KEY", viper.GetString("ai.api_key"))
	if apiKey == "" {
		return nil, 0, fmt.Errorf("no Anthropic API key: set .secrets/anthropic-api-key, ANTHROPIC_API_KEY, or ai.api_key")
	}

	maxRetries := viper.GetInt("ai.max_retries")

	return &genai.ClaudeBackend{
		APIKey: apiKey,
		Model:  model,
		Client: &http.Client{Timeout: 5 * time.Minute},
	}, maxRetries, nil
}

// storeConfig builds the pool store configuration.
func storeConfig(cmd *cobra.Command) types.StoreConfig {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("store.db_path")
	}
	if dbPath == "" {
		dbPath = "data/index/papers.db"
	}
	return types.StoreConfig{
		DBPath:     dbPath,
		MaxResults: viper.GetInt("store.max_results"),
	}
}
