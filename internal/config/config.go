// Package config provides configuration loading and validation for the match engine.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the application configuration. Values can come from a
// JSON file, environment variables, or CLI flags; missing values use defaults.
type Config struct {
	// Connections
	DatabaseURL  string `json:"database_url,omitempty"`   // PostgreSQL connection URL
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key

	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Matching policy
	AcceptanceThreshold float64 `json:"acceptance_threshold,omitempty"`  // deterministic score accepted as final at or above this
	MaxConcurrentScores int     `json:"max_concurrent_scores,omitempty"` // cap on parallel per-job scoring
	JobsFallbackURL     string  `json:"jobs_fallback_url,omitempty"`     // secondary job listing endpoint

	// Logging
	LogJSON bool `json:"log_json,omitempty"` // JSON log encoding
	Debug   bool `json:"debug,omitempty"`    // debug log level
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

// ApplyEnv overlays environment variables onto the config. Environment
// values win over file values.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("JOBS_FALLBACK_URL"); v != "" {
		c.JobsFallbackURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: 'gemini_api_key' is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be in [0, 65535]")
	}
	if c.AcceptanceThreshold < 0 || c.AcceptanceThreshold > 100 {
		return fmt.Errorf("config error: 'acceptance_threshold' must be in [0, 100]")
	}
	if c.MaxConcurrentScores < 0 {
		return fmt.Errorf("config error: 'max_concurrent_scores' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.JobsFallbackURL == "" {
		result.JobsFallbackURL = defaults.JobsFallbackURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.AcceptanceThreshold == 0 {
		result.AcceptanceThreshold = defaults.AcceptanceThreshold
	}
	if result.MaxConcurrentScores == 0 {
		result.MaxConcurrentScores = defaults.MaxConcurrentScores
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
