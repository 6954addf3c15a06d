// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dejayillegal/JobFinder-Pro/internal/match"
)

// Config is the CLI configuration, loadable from a JSON file. All fields
// are optional; missing values fall back to defaults or environment
// variables merged in by the command layer.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty selects the in-memory store

	// Connector credentials
	AdzunaAppID  string `json:"adzuna_app_id,omitempty"`
	AdzunaAppKey string `json:"adzuna_app_key,omitempty"`
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // empty selects the rule-based extractor

	// Behavior
	UseMockData  bool    `json:"use_mock_data,omitempty"`   // serve fixtures instead of real sources
	MockFallback *bool   `json:"mock_fallback,omitempty"`   // degrade a failing real source to its mock twin (default true)
	MinScore     float64 `json:"min_score,omitempty"`       // matches below this never surface (0-100)
	Workers      int     `json:"workers,omitempty"`         // orchestrator worker pool size
	JobTimeout   int     `json:"job_timeout_sec,omitempty"` // wall-clock budget per processing job
	Verbose      bool    `json:"verbose,omitempty"`
	JSONLogs     bool    `json:"json_logs,omitempty"`

	// Scoring
	Weights *match.Weights `json:"weights,omitempty"` // nil uses the default 60/25/15 blend
}

// Environment variable fallbacks, applied after file and flag merging.
const (
	EnvDatabaseURL  = "DATABASE_URL"
	EnvAdzunaAppID  = "ADZUNA_APP_ID"
	EnvAdzunaAppKey = "ADZUNA_APP_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Credentials are
// not required here: missing ones degrade at runtime to mock data.
func (c *Config) Validate() error {
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("config error: 'min_score' must be between 0 and 100")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}
	if c.JobTimeout < 0 {
		return fmt.Errorf("config error: 'job_timeout_sec' must be non-negative")
	}
	if c.Weights != nil {
		if err := c.Weights.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.AdzunaAppID == "" {
		result.AdzunaAppID = defaults.AdzunaAppID
	}
	if result.AdzunaAppKey == "" {
		result.AdzunaAppKey = defaults.AdzunaAppKey
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}

	if result.MinScore == 0 {
		result.MinScore = defaults.MinScore
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.JobTimeout == 0 {
		result.JobTimeout = defaults.JobTimeout
	}
	if result.MockFallback == nil {
		result.MockFallback = defaults.MockFallback
	}
	if result.Weights == nil {
		result.Weights = defaults.Weights
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv fills credentials and the database URL from the environment when
// the config still lacks them.
func (c *Config) ApplyEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv(EnvDatabaseURL)
	}
	if c.AdzunaAppID == "" {
		c.AdzunaAppID = os.Getenv(EnvAdzunaAppID)
	}
	if c.AdzunaAppKey == "" {
		c.AdzunaAppKey = os.Getenv(EnvAdzunaAppKey)
	}
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = os.Getenv(EnvGeminiAPIKey)
	}
}

// EffectiveWeights resolves the configured scoring weights.
func (c *Config) EffectiveWeights() match.Weights {
	if c.Weights != nil {
		return *c.Weights
	}
	return match.DefaultWeights()
}

// EffectiveMinScore resolves the configured match threshold.
func (c *Config) EffectiveMinScore() float64 {
	if c.MinScore > 0 {
		return c.MinScore
	}
	return match.DefaultMinScore
}

// MockFallbackEnabled defaults to true: a failing real source should
// degrade, not fail the run.
func (c *Config) MockFallbackEnabled() bool {
	if c.MockFallback == nil {
		return true
	}
	return *c.MockFallback
}
