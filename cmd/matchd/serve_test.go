package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetServeFlags() {
	serveConfigPath = ""
	servePort = 0
	serveThreshold = 0
	serveWorkers = 0
	serveJSONLogs = false
	serveDebug = false
}

func TestLoadConfig_EnvAndFlagPrecedence(t *testing.T) {
	resetServeFlags()
	t.Setenv("DATABASE_URL", "postgres://localhost/matchdb")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "9090")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/matchdb", cfg.DatabaseURL)
	assert.Equal(t, 9090, cfg.Port)

	// Flags win over environment.
	servePort = 7000
	serveThreshold = 55
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, 55.0, cfg.AcceptanceThreshold)

	resetServeFlags()
}

func TestLoadConfig_DefaultPort(t *testing.T) {
	resetServeFlags()
	t.Setenv("DATABASE_URL", "postgres://localhost/matchdb")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadConfig_MissingDatabaseURL(t *testing.T) {
	resetServeFlags()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "")

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")
}
