// ABOUTME: Workout log configuration management with backend selection.
// ABOUTME: Handles settings, logging and cache knobs, and the storage backend factory.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/workoutlog/internal/memo"
	"github.com/harperreed/workoutlog/internal/metrics"
	"github.com/harperreed/workoutlog/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"

	defaultCacheSizeMB = 32
	defaultLogLevel    = "warn"
)

// Config stores workoutlog configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "badger".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts workoutlog.db here. Badger keeps its files in a badger/ folder here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/workoutlog.
	DataDir string `json:"data_dir,omitempty"`

	// LogLevel is a logrus level name. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`

	// LogFormatJSON switches log output to JSON lines.
	LogFormatJSON bool `json:"log_format_json,omitempty"`

	// CacheSizeMB sizes the report cache. 0 means the default, negative disables it.
	CacheSizeMB int `json:"cache_size_mb,omitempty"`

	// CacheTTLSeconds expires cached reports. 0 keeps them until the log changes.
	CacheTTLSeconds int `json:"cache_ttl_seconds,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to warn.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return defaultLogLevel
	}
	return c.LogLevel
}

// GetCacheSizeMB returns the cache size; 0 means the cache is disabled.
func (c *Config) GetCacheSizeMB() int {
	switch {
	case c.CacheSizeMB < 0:
		return 0
	case c.CacheSizeMB == 0:
		return defaultCacheSizeMB
	default:
		return c.CacheSizeMB
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, "workoutlog.db"))
	case BackendBadger:
		return storage.OpenKV(filepath.Join(dataDir, "badger"))
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// NewCache builds the report cache, or returns nil when caching is disabled.
func (c *Config) NewCache(m *metrics.Manager, logger logrus.FieldLogger) *memo.Cache {
	size := c.GetCacheSizeMB()
	if size == 0 {
		return nil
	}
	return memo.New(memo.Options{
		SizeMB:     size,
		TTLSeconds: c.CacheTTLSeconds,
		Metrics:    m,
		Logger:     logger,
	})
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "workoutlog", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
