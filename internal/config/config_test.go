package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfigFile(t, `{
		"database_url": "postgres://localhost/jobmatch",
		"gemini_api_key": "test-key",
		"port": 9090,
		"acceptance_threshold": 55,
		"max_concurrent_scores": 8
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/jobmatch", cfg.DatabaseURL)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 55.0, cfg.AcceptanceThreshold)
	assert.Equal(t, 8, cfg.MaxConcurrentScores)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadConfig_MalformedJSON(t *testing.T) {
	path := writeConfigFile(t, `{not json`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("PORT", "7070")

	cfg := &Config{DatabaseURL: "postgres://file/db", Port: 8080}
	cfg.ApplyEnv()

	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "env-key", cfg.GeminiAPIKey)
	assert.Equal(t, 7070, cfg.Port)
}

func TestApplyEnv_IgnoresInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg := &Config{Port: 8080}
	cfg.ApplyEnv()

	assert.Equal(t, 8080, cfg.Port)
}

func TestValidate(t *testing.T) {
	valid := Config{DatabaseURL: "postgres://localhost/db", GeminiAPIKey: "k", Port: 8080}
	assert.NoError(t, valid.Validate())

	missingDB := valid
	missingDB.DatabaseURL = ""
	assert.Error(t, missingDB.Validate())

	missingKey := valid
	missingKey.GeminiAPIKey = ""
	assert.Error(t, missingKey.Validate())

	badThreshold := valid
	badThreshold.AcceptanceThreshold = 150
	assert.Error(t, badThreshold.Validate())

	badConcurrency := valid
	badConcurrency.MaxConcurrentScores = -1
	assert.Error(t, badConcurrency.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://own/db"}
	merged := cfg.MergeWithDefaults(Config{
		DatabaseURL:         "postgres://default/db",
		GeminiAPIKey:        "default-key",
		Port:                8080,
		AcceptanceThreshold: 40,
		MaxConcurrentScores: 4,
	})

	assert.Equal(t, "postgres://own/db", merged.DatabaseURL, "own value wins")
	assert.Equal(t, "default-key", merged.GeminiAPIKey)
	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, 40.0, merged.AcceptanceThreshold)
	assert.Equal(t, 4, merged.MaxConcurrentScores)
}
