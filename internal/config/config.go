// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-aes.
//
// go-aes is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package config loads the aes command line tool configuration from a
// YAML file with environment variable overrides. The cipher packages
// themselves take no configuration; everything here selects CLI
// defaults and safety-rail behavior.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete CLI configuration
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Safety   SafetyConfig   `yaml:"safety"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// DefaultsConfig supplies values used when the corresponding flags are
// omitted
type DefaultsConfig struct {
	Mode     string `yaml:"mode"`     // ecb, cbc, ctr, gcm, gcm-siv
	Encoding string `yaml:"encoding"` // hex, base64
}

// SafetyConfig controls the AEAD session safety rails
type SafetyConfig struct {
	// TrackNonces rejects nonce reuse under the same key within a session
	TrackNonces bool `yaml:"track_nonces"`

	// UsageLimitBytes caps plaintext volume per key. Zero selects the
	// per-mode default; negative disables the cap.
	UsageLimitBytes int64 `yaml:"usage_limit_bytes"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// MetricsConfig controls in-process Prometheus collection
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the configuration used when no config file is
// provided.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Mode:     "gcm",
			Encoding: "hex",
		},
		Safety: SafetyConfig{
			TrackNonces:     true,
			UsageLimitBytes: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// Load reads configuration from a YAML file and applies environment variable overrides
func Load(path string) (*Config, error) {
	// Read the config file
	// #nosec G304 - Config file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML on top of the defaults so omitted sections keep their
	// default values
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load when path is non-empty, and otherwise
// returns the defaults with environment overrides applied.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	if mode := os.Getenv("AES_MODE"); mode != "" {
		cfg.Defaults.Mode = mode
	}
	if encoding := os.Getenv("AES_ENCODING"); encoding != "" {
		cfg.Defaults.Encoding = encoding
	}
	if level := os.Getenv("AES_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if track := os.Getenv("AES_TRACK_NONCES"); track != "" {
		v, err := strconv.ParseBool(track)
		if err != nil {
			log.Printf("Warning: invalid AES_TRACK_NONCES value %q, using default %t: %v",
				track, cfg.Safety.TrackNonces, err)
		} else {
			cfg.Safety.TrackNonces = v
		}
	}
	if limit := os.Getenv("AES_USAGE_LIMIT_BYTES"); limit != "" {
		v, err := strconv.ParseInt(limit, 10, 64)
		if err != nil {
			log.Printf("Warning: invalid AES_USAGE_LIMIT_BYTES value %q, using default %d: %v",
				limit, cfg.Safety.UsageLimitBytes, err)
		} else {
			cfg.Safety.UsageLimitBytes = v
		}
	}
	if metrics := os.Getenv("AES_METRICS_ENABLED"); metrics != "" {
		v, err := strconv.ParseBool(metrics)
		if err != nil {
			log.Printf("Warning: invalid AES_METRICS_ENABLED value %q, using default %t: %v",
				metrics, cfg.Metrics.Enabled, err)
		} else {
			cfg.Metrics.Enabled = v
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate default mode
	validModes := map[string]bool{
		"ecb": true, "cbc": true, "ctr": true, "gcm": true, "gcm-siv": true,
	}
	if !validModes[strings.ToLower(c.Defaults.Mode)] {
		return fmt.Errorf("invalid mode: %s (must be ecb, cbc, ctr, gcm, or gcm-siv)", c.Defaults.Mode)
	}

	// Validate default encoding
	validEncodings := map[string]bool{
		"hex": true, "base64": true,
	}
	if !validEncodings[strings.ToLower(c.Defaults.Encoding)] {
		return fmt.Errorf("invalid encoding: %s (must be hex or base64)", c.Defaults.Encoding)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	return nil
}

// DebugEnabled reports whether the configured log level requests debug
// output.
func (c *Config) DebugEnabled() bool {
	return strings.EqualFold(c.Logging.Level, "debug")
}
