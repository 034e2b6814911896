// Package config handles configuration loading and defaults.
package config

import "fmt"

// Default values.
const (
	DefaultDataDir = "~/.taskdeck"
	DefaultBackend = "file"
)

// Backend names accepted by the storage layer.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds the full configuration for taskdeck.
type Config struct {
	// Data directory (supports ~ expansion)
	DataDir string `toml:"data_dir"`

	// Storage backend: file or sqlite
	Backend string `toml:"backend"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
}

// setDefaults fills cfg with default values.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Backend = DefaultBackend
	cfg.LogLevel = "info"
	cfg.LogFormat = "text"
	cfg.LogTimestamps = false
}

// finalizeConfig computes derived values and validates the result.
func finalizeConfig(cfg *Config) error {
	cfg.DataDir = expandPath(cfg.DataDir)
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir is empty")
	}
	switch cfg.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (expected %s|%s)",
			cfg.Backend, BackendFile, BackendSQLite)
	}
	return nil
}
