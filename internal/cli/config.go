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

package cli

import (
	"fmt"
	"strings"

	"github.com/jeremyhahn/go-aes/internal/config"
	"github.com/jeremyhahn/go-aes/pkg/logging"
	"github.com/jeremyhahn/go-aes/pkg/metrics"
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the YAML configuration file
	ConfigFile string

	// OutputFormat controls output formatting (text, json)
	OutputFormat string

	// Encoding controls how binary parameters and results are encoded
	// (hex, base64). Empty means use the configured default.
	Encoding string

	// Verbose enables verbose output on stderr
	Verbose bool

	// Stats dumps collected metrics to stderr after the command runs
	Stats bool

	// file is the loaded file/env configuration
	file *config.Config

	// log is the resolved logger
	log *logging.Logger
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputFormat: "text",
	}
}

// Load resolves the file and environment configuration backing the
// flags, fills in flag defaults that were left empty, and applies the
// metrics toggle. Called once before any command runs.
func (c *Config) Load() error {
	fileCfg, err := config.LoadOrDefault(c.ConfigFile)
	if err != nil {
		return err
	}
	c.file = fileCfg

	if c.Encoding == "" {
		c.Encoding = fileCfg.Defaults.Encoding
	}
	c.Encoding = strings.ToLower(c.Encoding)
	if c.Encoding != "hex" && c.Encoding != "base64" {
		return fmt.Errorf("invalid encoding: %s (must be hex or base64)", c.Encoding)
	}

	// --stats implies collection for this invocation
	if fileCfg.Metrics.Enabled || c.Stats {
		metrics.Enable()
	} else {
		metrics.Disable()
	}

	c.log = logging.NewLogger(c.Verbose || fileCfg.DebugEnabled())
	return nil
}

// File returns the loaded file configuration, loading defaults if Load
// has not run (direct Printer-level tests construct Config bare).
func (c *Config) File() *config.Config {
	if c.file == nil {
		c.file = config.DefaultConfig()
	}
	return c.file
}

// Logger returns the resolved logger.
func (c *Config) Logger() *logging.Logger {
	if c.log == nil {
		c.log = logging.NewLogger(c.Verbose)
	}
	return c.log
}

// DefaultMode returns the mode used when --mode is omitted.
func (c *Config) DefaultMode() string {
	return strings.ToLower(c.File().Defaults.Mode)
}
