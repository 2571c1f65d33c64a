// ABOUTME: Tests for configuration loading
// ABOUTME: Covers defaults, file values and environment overrides
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempXDG(t *testing.T) {
	t.Helper()
	origConfig, origData := xdg.ConfigHome, xdg.DataHome
	xdg.ConfigHome = t.TempDir()
	xdg.DataHome = t.TempDir()
	t.Cleanup(func() {
		xdg.ConfigHome = origConfig
		xdg.DataHome = origData
	})
}

func TestLoadDefaults(t *testing.T) {
	useTempXDG(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultBackend, cfg.Backend)
	assert.Equal(t, "simple_crm_v1", cfg.StorageKey)
	assert.Equal(t, filepath.Join(xdg.DataHome, AppName), cfg.DataDir)
}

func TestSaveAndLoad(t *testing.T) {
	useTempXDG(t)

	cfg := DefaultConfig()
	cfg.Backend = "badger"
	cfg.LogLevel = "debug"
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "badger", loaded.Backend)
	assert.Equal(t, "debug", loaded.LogLevel)
	assert.Equal(t, "simple_crm_v1", loaded.StorageKey)
}

func TestLoadInvalidFileFallsBackToDefaults(t *testing.T) {
	useTempXDG(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(Path()), 0700))
	require.NoError(t, os.WriteFile(Path(), []byte("{not json"), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultBackend, cfg.Backend)
}

func TestEnvOverrides(t *testing.T) {
	useTempXDG(t)
	t.Setenv("SIMPLECRM_BACKEND", "sqlite")
	t.Setenv("SIMPLECRM_STORAGE_KEY", "other_slot")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, "other_slot", cfg.StorageKey)
}
