// ABOUTME: Configuration for storage backend, data location and logging
// ABOUTME: Loads JSON config from the XDG config home with environment overrides
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/harperreed/simplecrm/models"
)

const (
	// AppName names the XDG directories the tool owns.
	AppName = "simplecrm"

	// ConfigFileName is where we store local config.
	ConfigFileName = "config.json"

	// DefaultBackend keeps the document as a plain JSON file.
	DefaultBackend = "file"
)

// Config holds storage and logging settings.
type Config struct {
	// Backend selects the storage slot implementation (file, badger, bolt, sqlite, memory)
	Backend string `json:"backend,omitempty"`

	// DataDir is where the slot keeps its data (default: $XDG_DATA_HOME/simplecrm)
	DataDir string `json:"data_dir,omitempty"`

	// StorageKey names the slot the document lives in
	StorageKey string `json:"storage_key,omitempty"`

	LogLevel    string `json:"log_level,omitempty"`
	LogEncoding string `json:"log_encoding,omitempty"`
}

// DefaultConfig returns a new config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend:     DefaultBackend,
		DataDir:     DefaultDataDir(),
		StorageKey:  models.StorageKey,
		LogLevel:    "warn",
		LogEncoding: "console",
	}
}

// DefaultDataDir returns the XDG data directory for the tool.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFileName)
}

// Load reads config from disk, falling back to defaults when the file is
// missing or unreadable, then applies environment overrides.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	var fileCfg Config
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		// Invalid config, use defaults
		applyEnvOverrides(cfg)
		return cfg, nil //nolint:nilerr // Intentionally returning defaults on parse error
	}
	cfg.merge(&fileCfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

// merge copies every non-empty field of other into c.
func (c *Config) merge(other *Config) {
	if other.Backend != "" {
		c.Backend = other.Backend
	}
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
	if other.StorageKey != "" {
		c.StorageKey = other.StorageKey
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogEncoding != "" {
		c.LogEncoding = other.LogEncoding
	}
}

// applyEnvOverrides applies environment variable overrides:
// SIMPLECRM_BACKEND, SIMPLECRM_DATA_DIR, SIMPLECRM_STORAGE_KEY,
// SIMPLECRM_LOG_LEVEL, SIMPLECRM_LOG_ENCODING.
func applyEnvOverrides(cfg *Config) {
	cfg.merge(&Config{
		Backend:     os.Getenv("SIMPLECRM_BACKEND"),
		DataDir:     os.Getenv("SIMPLECRM_DATA_DIR"),
		StorageKey:  os.Getenv("SIMPLECRM_STORAGE_KEY"),
		LogLevel:    os.Getenv("SIMPLECRM_LOG_LEVEL"),
		LogEncoding: os.Getenv("SIMPLECRM_LOG_ENCODING"),
	})
}

// Save persists the config to disk.
func (c *Config) Save() error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
