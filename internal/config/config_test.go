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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoad_Success tests successful loading of a valid config file
func TestLoad_Success(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
defaults:
  mode: "gcm-siv"
  encoding: "base64"

safety:
  track_nonces: true
  usage_limit_bytes: 1073741824

logging:
  level: "debug"

metrics:
  enabled: true
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	// Validate defaults
	if cfg.Defaults.Mode != "gcm-siv" {
		t.Errorf("Defaults.Mode = %v, want gcm-siv", cfg.Defaults.Mode)
	}
	if cfg.Defaults.Encoding != "base64" {
		t.Errorf("Defaults.Encoding = %v, want base64", cfg.Defaults.Encoding)
	}

	// Validate safety rails
	if !cfg.Safety.TrackNonces {
		t.Error("Safety.TrackNonces = false, want true")
	}
	if cfg.Safety.UsageLimitBytes != 1073741824 {
		t.Errorf("Safety.UsageLimitBytes = %v, want 1073741824", cfg.Safety.UsageLimitBytes)
	}

	// Validate logging
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %v, want debug", cfg.Logging.Level)
	}
	if !cfg.DebugEnabled() {
		t.Error("DebugEnabled() = false, want true")
	}

	// Validate metrics
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
}

// TestLoad_FileNotFound tests loading a non-existent config file
func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}

	if cfg != nil {
		t.Errorf("Load() = %v, want nil", cfg)
	}
}

// TestLoad_InvalidYAML tests loading a malformed config file
func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("defaults: [not a mapping"), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
}

// TestLoad_PartialFileKeepsDefaults tests that omitted sections retain defaults
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "warn"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %v, want warn", cfg.Logging.Level)
	}
	if cfg.Defaults.Mode != "gcm" {
		t.Errorf("Defaults.Mode = %v, want default gcm", cfg.Defaults.Mode)
	}
	if cfg.Defaults.Encoding != "hex" {
		t.Errorf("Defaults.Encoding = %v, want default hex", cfg.Defaults.Encoding)
	}
	if !cfg.Safety.TrackNonces {
		t.Error("Safety.TrackNonces = false, want default true")
	}
}

// TestDefaultConfig tests the built-in defaults
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v, want nil", err)
	}

	if cfg.Defaults.Mode != "gcm" {
		t.Errorf("Defaults.Mode = %v, want gcm", cfg.Defaults.Mode)
	}
	if cfg.Defaults.Encoding != "hex" {
		t.Errorf("Defaults.Encoding = %v, want hex", cfg.Defaults.Encoding)
	}
	if !cfg.Safety.TrackNonces {
		t.Error("Safety.TrackNonces = false, want true")
	}
	if cfg.Safety.UsageLimitBytes != 0 {
		t.Errorf("Safety.UsageLimitBytes = %v, want 0", cfg.Safety.UsageLimitBytes)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %v, want info", cfg.Logging.Level)
	}
	if cfg.DebugEnabled() {
		t.Error("DebugEnabled() = true, want false")
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
}

// TestLoadOrDefault_EmptyPath tests defaults when no file is given
func TestLoadOrDefault_EmptyPath(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault(\"\") error = %v, want nil", err)
	}
	if cfg.Defaults.Mode != "gcm" {
		t.Errorf("Defaults.Mode = %v, want gcm", cfg.Defaults.Mode)
	}
}

// TestValidate_InvalidMode tests rejection of unknown modes
func TestValidate_InvalidMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Defaults.Mode = "xts"

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() error = nil, want invalid mode error")
	}
}

// TestValidate_InvalidEncoding tests rejection of unknown encodings
func TestValidate_InvalidEncoding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Defaults.Encoding = "base32"

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() error = nil, want invalid encoding error")
	}
}

// TestValidate_InvalidLogLevel tests rejection of unknown log levels
func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "trace"

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() error = nil, want invalid log level error")
	}
}

// TestValidate_CaseInsensitive tests that validation accepts mixed case
func TestValidate_CaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Defaults.Mode = "GCM-SIV"
	cfg.Defaults.Encoding = "Base64"
	cfg.Logging.Level = "DEBUG"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
	if !cfg.DebugEnabled() {
		t.Error("DebugEnabled() = false, want true for level DEBUG")
	}
}

// TestEnvOverrides tests environment variable overrides
func TestEnvOverrides(t *testing.T) {
	t.Setenv("AES_MODE", "ctr")
	t.Setenv("AES_ENCODING", "base64")
	t.Setenv("AES_LOG_LEVEL", "error")
	t.Setenv("AES_TRACK_NONCES", "false")
	t.Setenv("AES_USAGE_LIMIT_BYTES", "4096")
	t.Setenv("AES_METRICS_ENABLED", "true")

	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault(\"\") error = %v, want nil", err)
	}

	if cfg.Defaults.Mode != "ctr" {
		t.Errorf("Defaults.Mode = %v, want ctr", cfg.Defaults.Mode)
	}
	if cfg.Defaults.Encoding != "base64" {
		t.Errorf("Defaults.Encoding = %v, want base64", cfg.Defaults.Encoding)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %v, want error", cfg.Logging.Level)
	}
	if cfg.Safety.TrackNonces {
		t.Error("Safety.TrackNonces = true, want false")
	}
	if cfg.Safety.UsageLimitBytes != 4096 {
		t.Errorf("Safety.UsageLimitBytes = %v, want 4096", cfg.Safety.UsageLimitBytes)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
}

// TestEnvOverrides_InvalidValuesKeepDefaults tests that malformed env values are ignored
func TestEnvOverrides_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("AES_TRACK_NONCES", "definitely")
	t.Setenv("AES_USAGE_LIMIT_BYTES", "lots")

	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault(\"\") error = %v, want nil", err)
	}

	if !cfg.Safety.TrackNonces {
		t.Error("Safety.TrackNonces = false, want default true")
	}
	if cfg.Safety.UsageLimitBytes != 0 {
		t.Errorf("Safety.UsageLimitBytes = %v, want default 0", cfg.Safety.UsageLimitBytes)
	}
}

// TestEnvOverrides_InvalidModeFailsValidation tests that a bad env mode surfaces as an error
func TestEnvOverrides_InvalidModeFailsValidation(t *testing.T) {
	t.Setenv("AES_MODE", "rot13")

	if _, err := LoadOrDefault(""); err == nil {
		t.Fatal("LoadOrDefault(\"\") error = nil, want invalid mode error")
	}
}

// TestEnvOverridesFile tests that env vars take precedence over file values
func TestEnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
defaults:
  mode: "cbc"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	t.Setenv("AES_MODE", "gcm")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Defaults.Mode != "gcm" {
		t.Errorf("Defaults.Mode = %v, want gcm (env override)", cfg.Defaults.Mode)
	}
}
