package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "https://en.wikipedia.org", cfg.Source.BaseURL)
	assert.Equal(t, "StatesOfTheWorldBot/1.0", cfg.Source.UserAgent)
	assert.Equal(t, 15, cfg.Source.TimeoutSeconds)
	assert.Equal(t, 2.0, cfg.Source.RatePerSecond)
	assert.Equal(t, 3, cfg.Source.MaxRetries)

	assert.Equal(t, "states.db", cfg.Store.Path)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"SOTW_PORT":            "9000",
		"SOTW_SOURCE_BASE_URL": "http://localhost:8080",
		"SOTW_DB_PATH":         "/tmp/test.db",
		"SOTW_LOG_LEVEL":       "debug",
		"SOTW_LOG_DEV":         "true",
	}
	for k, v := range envVars {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Source.BaseURL)
	assert.Equal(t, "/tmp/test.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}

func TestApplyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
source:
  base_url: http://mirror.local
  rate_per_second: 0.5
store:
  path: mirror.db
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg := Default()
	require.NoError(t, cfg.ApplyFile(path))

	assert.Equal(t, "http://mirror.local", cfg.Source.BaseURL)
	assert.Equal(t, 0.5, cfg.Source.RatePerSecond)
	assert.Equal(t, "mirror.db", cfg.Store.Path)
	// Untouched sections keep defaults
	assert.Equal(t, "8000", cfg.Server.Port)
}

func TestApplyFileMissing(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyFile("/nonexistent/config.yaml")
	assert.Error(t, err)
}
