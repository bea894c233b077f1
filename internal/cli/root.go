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
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	// Global configuration
	globalConfig *Config

	// operationID correlates all verbose/log output of one invocation
	operationID string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "aes",
	Short: "go-aes CLI - AES block cipher and mode operations",
	Long: `go-aes CLI provides a command-line interface for the go-aes cipher
engine: block encryption in the classic confidentiality modes,
authenticated encryption, and key wrapping.

Supported modes:
  - ecb:      Electronic Codebook (PKCS#7 padded)
  - cbc:      Cipher Block Chaining (PKCS#7 padded)
  - ctr:      Counter mode (stream)
  - gcm:      Galois/Counter Mode (AEAD)
  - gcm-siv:  Nonce misuse-resistant AEAD (RFC 8452)

Key wrapping (wrap/unwrap commands):
  - kw:       AES Key Wrap (RFC 3394)
  - kwp:      AES Key Wrap with Padding (RFC 5649)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		operationID = uuid.NewString()
		return globalConfig.Load()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Initialize global config
	globalConfig = NewConfig()

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&globalConfig.ConfigFile, "config", "",
		"config file (default is built-in defaults plus AES_* environment overrides)")
	rootCmd.PersistentFlags().StringVarP(&globalConfig.OutputFormat, "output", "o", "text",
		"output format (text, json)")
	rootCmd.PersistentFlags().StringVarP(&globalConfig.Encoding, "encoding", "e", "",
		"encoding for binary parameters and results (hex, base64)")
	rootCmd.PersistentFlags().BoolVarP(&globalConfig.Verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVar(&globalConfig.Stats, "stats", false,
		"print collected operation metrics to stderr after the command")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(wrapCmd)
	rootCmd.AddCommand(unwrapCmd)
	rootCmd.AddCommand(selftestCmd)
	rootCmd.AddCommand(modesCmd)
}

// getConfig returns the global configuration
func getConfig() *Config {
	return globalConfig
}

// handleError prints an error and exits with code 1
func handleError(err error) {
	printer := NewPrinter(globalConfig.OutputFormat, globalConfig.Encoding, os.Stderr)
	_ = printer.PrintError(err) // Error printing to stderr is best-effort
	finishOperation()
	os.Exit(1)
}

// printVerbose logs a debug line stamped with the operation ID if
// verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if globalConfig.Verbose {
		globalConfig.Logger().With("op", operationID).Debugf(format, args...)
	}
}

// finishOperation emits the end-of-invocation diagnostics (currently the
// optional metrics dump). Runs on both the success and error paths.
func finishOperation() {
	if globalConfig.Stats {
		dumpStats(os.Stderr)
	}
}
