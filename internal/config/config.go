// Package config loads and validates the ampcalc configuration file.
//
// Configuration is a small YAML document (default ~/.ampcalc/config.yaml)
// covering logging, the optional result cache, and an optional replacement
// standards dataset. A missing file yields the defaults; a malformed file
// is an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	// DefaultDirName is the config directory under the user home.
	DefaultDirName = ".ampcalc"

	// DefaultFileName is the config file name.
	DefaultFileName = "config.yaml"

	// DefaultCacheMaxEntries bounds the result cache.
	DefaultCacheMaxEntries = 1024
)

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is console or json.
	Format string `yaml:"format"`
}

// CacheConfig controls the optional result memoizer.
type CacheConfig struct {
	// Enabled turns the cache on.
	Enabled bool `yaml:"enabled"`

	// MaxEntries bounds the cache; must be positive when enabled.
	MaxEntries int `yaml:"max_entries"`
}

// StandardsConfig points at a replacement standards dataset.
type StandardsConfig struct {
	// Dataset is a path to a YAML dataset file. Empty means the embedded
	// default dataset.
	Dataset string `yaml:"dataset"`
}

// Config is the full configuration document.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Cache     CacheConfig     `yaml:"cache"`
	Standards StandardsConfig `yaml:"standards"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Cache:   CacheConfig{Enabled: false, MaxEntries: DefaultCacheMaxEntries},
	}
}

// DefaultPath returns the default config file path under the user home.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName, DefaultFileName), nil
}

// Load reads the config file at path, overlaying it on the defaults.
// A missing file returns the defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}

	if c.Cache.Enabled && c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive when the cache is enabled, got %d",
			c.Cache.MaxEntries)
	}

	if c.Standards.Dataset != "" {
		if _, err := os.Stat(c.Standards.Dataset); err != nil {
			return fmt.Errorf("standards.dataset: %w", err)
		}
	}
	return nil
}

// WriteDefault writes the default configuration to path, creating parent
// directories. Refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
