package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "perspective-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the literature search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults caps the number of identifiers requested (default 100).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// BatchSize is the number of identifiers per detail fetch (default 20,
	// the E-utilities fair-use payload limit).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// BatchDelay is the pacing delay between detail fetches (default 1s).
	BatchDelay time.Duration `json:"batch_delay" yaml:"batch_delay"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// AIConfig holds shared settings for stages that call the generation service.
type AIConfig struct {
	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// StoreConfig holds settings for the local paper pool store.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "data/index/papers.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups settings for a full transcript-to-article run.
type PipelineConfig struct {
	// DataDir is the base directory for run artifacts (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// ReviewCycles is the number of review/improvement iterations (default 3).
	ReviewCycles int `json:"review_cycles" yaml:"review_cycles"`
}
