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

	"github.com/spf13/cobra"
)

// ModeInfo describes one supported mode for the modes command
type ModeInfo struct {
	Name     string
	Type     string
	KeySizes string
	IV       string
	Notes    string
}

// supportedModes is the table behind "aes modes". Key sizes are bits.
var supportedModes = []ModeInfo{
	{
		Name:     "ecb",
		Type:     "block",
		KeySizes: "128/192/256",
		IV:       "none",
		Notes:    "PKCS#7 padding; identical blocks leak, avoid for new designs",
	},
	{
		Name:     "cbc",
		Type:     "block",
		KeySizes: "128/192/256",
		IV:       "16 byte IV",
		Notes:    "PKCS#7 padding; IV must be unpredictable",
	},
	{
		Name:     "ctr",
		Type:     "stream",
		KeySizes: "128/192/256",
		IV:       "16, 8 or 4 byte nonce",
		Notes:    "no padding; never reuse a nonce under the same key",
	},
	{
		Name:     "gcm",
		Type:     "aead",
		KeySizes: "128/192/256",
		IV:       "12 byte nonce (8+ ok)",
		Notes:    "16 byte tag, authenticates AAD; nonce reuse is fatal",
	},
	{
		Name:     "gcm-siv",
		Type:     "aead",
		KeySizes: "128/256",
		IV:       "12 byte nonce",
		Notes:    "RFC 8452, nonce misuse resistant",
	},
	{
		Name:     "kw",
		Type:     "keywrap",
		KeySizes: "128/192/256",
		IV:       "none",
		Notes:    "RFC 3394, wraps keys of 16+ bytes in 8 byte multiples",
	},
	{
		Name:     "kwp",
		Type:     "keywrap",
		KeySizes: "128/192/256",
		IV:       "none",
		Notes:    "RFC 5649, wraps keys of any length",
	},
}

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List supported modes of operation",
	Long: `List the AES modes this tool supports, the key sizes each accepts
and the IV or nonce each requires. The kw and kwp entries are the key
wrapping algorithms used by the wrap and unwrap commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, cfg.Encoding, os.Stdout)
		if err := printer.PrintModes(supportedModes); err != nil {
			handleError(err)
			return
		}
		finishOperation()
	},
}
