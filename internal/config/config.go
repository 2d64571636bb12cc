// Package config loads safeguard's YAML configuration: file locations,
// the backend call timeout, and the monitor interval. Defaults live in
// code; a missing file is not an error.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configurable parameters.
type Config struct {
	TopicsPath      string        `yaml:"topics_path"`
	DatabasePath    string        `yaml:"database_path"`
	AuditLogPath    string        `yaml:"audit_log_path"`
	BackendTimeout  time.Duration `yaml:"backend_timeout"`
	MonitorInterval time.Duration `yaml:"monitor_interval"`
}

// DefaultDir returns the default safeguard state directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "safeguard")
	}
	return filepath.Join(home, ".safeguard")
}

// Default returns the built-in configuration.
func Default() *Config {
	dir := DefaultDir()
	return &Config{
		TopicsPath:      filepath.Join(dir, "topics.yaml"),
		DatabasePath:    filepath.Join(dir, "safeguard.db"),
		AuditLogPath:    filepath.Join(dir, "audit.jsonl"),
		BackendTimeout:  5 * time.Second,
		MonitorInterval: 5 * time.Second,
	}
}

// Load reads configuration from a YAML file. Empty path falls back to
// ~/.safeguard/config.yaml. Missing file returns defaults. Invalid YAML
// returns an error. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = filepath.Join(DefaultDir(), "config.yaml")
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.BackendTimeout <= 0 {
		cfg.BackendTimeout = Default().BackendTimeout
	}
	if cfg.MonitorInterval <= 0 {
		cfg.MonitorInterval = Default().MonitorInterval
	}
	return cfg, nil
}

// LoadWithHash loads configuration and returns the SHA-256 of the raw file
// contents, for detecting changes during hot reload. A missing file hashes
// to the empty string.
func LoadWithHash(path string) (*Config, string, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}

	resolved := path
	if resolved == "" {
		resolved = filepath.Join(DefaultDir(), "config.yaml")
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return cfg, "", nil
	}
	sum := sha256.Sum256(data)
	return cfg, hex.EncodeToString(sum[:]), nil
}
