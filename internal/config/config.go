// Package config provides configuration management for readpack.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default combined-output ceilings. These are the host-environment constants
// the packing core packs under; the core itself never computes them.
const (
	DefaultMaxTotalBytes = 100_000
	DefaultMaxTotalLines = 2_000
)

// Config holds all configuration for readpack.
type Config struct {
	// ServerAddr is the address the HTTP server listens on (e.g., ":7090").
	ServerAddr string `yaml:"server_addr"`

	// DataDir is the directory for persistent data (SQLite DB, etc.).
	DataDir string `yaml:"data_dir"`

	// DatabasePath is the full path to the SQLite database file.
	DatabasePath string `yaml:"database_path"`

	// MaxTotalBytes and MaxTotalLines bound the combined packed output.
	MaxTotalBytes int `yaml:"max_total_bytes"`
	MaxTotalLines int `yaml:"max_total_lines"`

	// GitHubToken authenticates the optional GitHub-backed reader.
	GitHubToken string `yaml:"-"`
}

// Load builds a Config from defaults, an optional YAML file, and environment
// variables, in that order of precedence (env wins).
//
// The file path is taken from READPACK_CONFIG, falling back to
// <data-dir>/config.yaml when that exists.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr:    ":7090",
		DataDir:       defaultDataDir(),
		MaxTotalBytes: DefaultMaxTotalBytes,
		MaxTotalLines: DefaultMaxTotalLines,
	}

	path := os.Getenv("READPACK_CONFIG")
	if path == "" {
		candidate := filepath.Join(cfg.DataDir, "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.ServerAddr = envOr("READPACK_ADDR", cfg.ServerAddr)
	cfg.DataDir = envOr("READPACK_DATA_DIR", cfg.DataDir)
	cfg.MaxTotalBytes = envOrInt("READPACK_MAX_BYTES", cfg.MaxTotalBytes)
	cfg.MaxTotalLines = envOrInt("READPACK_MAX_LINES", cfg.MaxTotalLines)
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(cfg.DataDir, "readpack.db")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.MaxTotalBytes <= 0 {
		return errors.New("max_total_bytes must be positive")
	}
	if c.MaxTotalLines <= 0 {
		return errors.New("max_total_lines must be positive")
	}
	if c.ServerAddr == "" {
		return errors.New("server_addr is required")
	}
	return nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".readpack"
	}
	return filepath.Join(home, ".readpack")
}
