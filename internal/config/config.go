// Package config loads hookmind configuration from .hookmind/config.yaml.
// Missing file means defaults; the decision core must work with zero setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all hookmind configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Throttle    ThrottleConfig    `yaml:"throttle"`
	Retry       RetryConfig       `yaml:"retry"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ThrottleConfig gates the priority throttle. Disabled by default.
type ThrottleConfig struct {
	Enabled bool `yaml:"enabled"`
}

// RetryConfig tunes the backoff schedule.
type RetryConfig struct {
	MaxRetries  int `yaml:"max_retries"`
	BaseDelayMS int `yaml:"base_delay_ms"`
}

// CalibrationConfig tunes the learning store's persistence.
type CalibrationConfig struct {
	// ArchiveEvicted copies records evicted from the bounded list into the
	// SQLite cold store instead of discarding them.
	ArchiveEvicted bool `yaml:"archive_evicted"`
}

// LoggingConfig controls the category loggers. Debug off means silent.
type LoggingConfig struct {
	DebugMode bool   `yaml:"debug_mode"`
	Level     string `yaml:"level"`
}

// Default returns the zero-setup configuration.
func Default() *Config {
	return &Config{
		Name:    "hookmind",
		Version: "1.0",
		Retry: RetryConfig{
			MaxRetries:  3,
			BaseDelayMS: 1000,
		},
		Calibration: CalibrationConfig{
			ArchiveEvicted: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from workspace/.hookmind/config.yaml, applying
// defaults for missing file or fields and env overrides last.
func Load(workspace string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(workspace, ".hookmind", "config.yaml")
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets the plugin wrapper flip flags without editing the
// config file.
func applyEnvOverrides(cfg *Config) {
	if v, ok := lookupBool("HOOKMIND_THROTTLE_ENABLED"); ok {
		cfg.Throttle.Enabled = v
	}
	if v, ok := lookupBool("HOOKMIND_DEBUG"); ok {
		cfg.Logging.DebugMode = v
	}
	if v := os.Getenv("HOOKMIND_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func lookupBool(key string) (bool, bool) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// Validate checks that tunables are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Retry.MaxRetries < 1 {
		return fmt.Errorf("retry.max_retries must be >= 1")
	}
	if c.Retry.BaseDelayMS < 0 {
		return fmt.Errorf("retry.base_delay_ms must be >= 0")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	return nil
}

// FindWorkspaceRoot walks up from the working directory looking for an
// existing .hookmind marker, falling back to the starting directory.
func FindWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, ".hookmind")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return originalDir, nil
}
