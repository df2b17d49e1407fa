package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempHome(t *testing.T) {
	t.Helper()
	orig := homeDir
	homeDir = t.TempDir()
	t.Cleanup(func() { homeDir = orig })
}

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	withTempHome(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Locale)
	assert.Equal(t, "data", cfg.OutputPath)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, 3, cfg.Attempts)
	assert.Equal(t, 20.0, cfg.RequestsPerSecond)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	withTempHome(t)

	cfg := NewConfig()
	cfg.Locale = "ko-KR"
	cfg.OutputPath = "/tmp/store"
	cfg.Workers = 4
	cfg.FreshnessPrefixes = []string{"2026.1", "2025."}
	cfg.Marketplace.PluginsURL = "https://mirror.example.com"

	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ko-KR", loaded.Locale)
	assert.Equal(t, "/tmp/store", loaded.OutputPath)
	assert.Equal(t, 4, loaded.Workers)
	assert.Equal(t, []string{"2026.1", "2025."}, loaded.FreshnessPrefixes)
	assert.Equal(t, "https://mirror.example.com", loaded.Marketplace.PluginsURL)
}

func TestLoadFillsDefaultsForUnsetFields(t *testing.T) {
	withTempHome(t)

	require.NoError(t, EnsureDir(Dir()))
	partial := []byte(`{"locale": "en-US"}`)
	require.NoError(t, os.WriteFile(ConfigPath(), partial, 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "en-US", cfg.Locale)
	assert.Equal(t, "data", cfg.OutputPath)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, 20.0, cfg.RequestsPerSecond)
}

func TestConfigPathUnderConfigDir(t *testing.T) {
	withTempHome(t)

	assert.Equal(t, filepath.Join(homeDir, ".config", "jbpluggen"), Dir())
	assert.Equal(t, filepath.Join(Dir(), "config.json"), ConfigPath())
}
