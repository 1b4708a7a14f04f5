// Package config provides configuration management for the LeapGraph CLI.
//
// This package extends the shared configuration types from
// internal/config with CLI-specific fields and functionality. The shared
// types (IdentityConfig, HistoryConfig) are defined in internal/config
// and re-exported here via type aliases for convenience.
package config

import (
	"time"

	sharedcfg "github.com/leapstack-labs/leapgraph/internal/config"
	"github.com/leapstack-labs/leapgraph/internal/provision"
)

// TargetConfig is an alias for the provisioner target configuration.
// This allows CLI code to use config.TargetConfig without importing the
// provision package.
type TargetConfig = provision.Config

// IdentityConfig is an alias for the shared identity configuration.
// This allows CLI code to use config.IdentityConfig without importing
// internal/config.
type IdentityConfig = sharedcfg.IdentityConfig

// HistoryConfig is an alias for the shared history configuration.
// This allows CLI code to use config.HistoryConfig without importing
// internal/config.
type HistoryConfig = sharedcfg.HistoryConfig

// WatchConfig holds configuration for schema watch mode.
type WatchConfig struct {
	DebounceMS int `koanf:"debounce_ms"`
}

// DefaultWatchConfig returns a WatchConfig with default values.
func DefaultWatchConfig() *WatchConfig {
	return &WatchConfig{DebounceMS: 400}
}

// Debounce returns the rebuild debounce interval.
func (w *WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// GetWatchConfig returns the watch config with defaults applied for any
// unset values.
func (c *Config) GetWatchConfig() *WatchConfig {
	if c.Watch == nil {
		return DefaultWatchConfig()
	}
	w := c.Watch
	if w.DebounceMS <= 0 {
		w.DebounceMS = 400
	}
	return w
}

// GetHistoryConfig returns the history config with defaults applied for
// any unset values.
func (c *Config) GetHistoryConfig() *HistoryConfig {
	if c.History == nil {
		return &HistoryConfig{Keep: sharedcfg.DefaultHistoryKeep}
	}
	h := c.History
	if h.Keep == 0 {
		h.Keep = sharedcfg.DefaultHistoryKeep
	}
	return h
}

// Config holds all CLI configuration options.
type Config struct {
	Project      string               `koanf:"project"`
	SchemaPath   string               `koanf:"schema"`
	StatePath    string               `koanf:"state_path"`
	Environment  string               `koanf:"environment"`
	Verbose      bool                 `koanf:"verbose"`
	OutputFormat string               `koanf:"output"`
	Transformers []string             `koanf:"transformers"`
	Target       *TargetConfig        `koanf:"target"`
	Identity     *IdentityConfig      `koanf:"identity"`
	History      *HistoryConfig       `koanf:"history"`
	Watch        *WatchConfig         `koanf:"watch"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the resolved project root directory. It is set by
	// the loader and never read from configuration.
	ProjectRoot string `koanf:"-"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	SchemaPath   string          `koanf:"schema"`
	Transformers []string        `koanf:"transformers"`
	Target       *TargetConfig   `koanf:"target"`
	Identity     *IdentityConfig `koanf:"identity"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultSchemaPath = sharedcfg.DefaultSchemaPath
	DefaultStateFile  = ".leapgraph/state.db"
	DefaultEnv        = "dev"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
