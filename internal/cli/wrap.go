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
	"time"

	"github.com/jeremyhahn/go-aes/pkg/keywrap"
	"github.com/jeremyhahn/go-aes/pkg/metrics"
	"github.com/spf13/cobra"
)

var wrapCmd = &cobra.Command{
	Use:   "wrap [key]",
	Short: "Wrap a key with AES Key Wrap",
	Long: `Wrap key material under a key encryption key using AES Key Wrap
(RFC 3394). The key argument is decoded per --encoding; --input reads
raw key bytes from a file instead.

Plain Key Wrap requires the key to be a multiple of 8 bytes and at
least 16 bytes long. Pass --padded to use Key Wrap with Padding
(RFC 5649), which accepts any key length of at least one byte.

Examples:
  aes wrap --kek 000102030405060708090a0b0c0d0e0f 00112233445566778899aabbccddeeff
  aes wrap --padded --kek-file kek.bin --input ed25519.key`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		start := time.Now()

		padded, _ := cmd.Flags().GetBool("padded")
		mode := metrics.ModeKW
		if padded {
			mode = metrics.ModeKWP
		}

		kek, err := readSecret(cmd, "kek", "key encryption key")
		if err != nil {
			handleError(err)
			return
		}
		defer kek.Wipe()

		keyMaterial, err := readPayload(cmd, args, cfg.Encoding, true)
		if err != nil {
			handleError(err)
			return
		}
		defer wipeBytes(keyMaterial)

		kekBytes, err := kek.Bytes()
		if err != nil {
			handleError(err)
			return
		}
		defer wipeBytes(kekBytes)

		w, err := keywrap.New(kekBytes)
		if err != nil {
			handleError(err)
			return
		}

		var wrapped []byte
		if padded {
			wrapped, err = w.WrapPadded(keyMaterial)
		} else {
			wrapped, err = w.Wrap(keyMaterial)
		}
		if err != nil {
			metrics.RecordError(metrics.OpWrap, mode, "wrap_failed")
			handleError(err)
			return
		}
		metrics.RecordOperation(metrics.OpWrap, mode, metrics.StatusSuccess,
			time.Since(start).Seconds(), len(keyMaterial))
		printVerbose("wrapped %d bytes of key material", len(keyMaterial))

		printer := NewPrinter(cfg.OutputFormat, cfg.Encoding, os.Stdout)
		if err := printer.PrintWrapped(wrapped, padded); err != nil {
			handleError(err)
			return
		}
		finishOperation()
	},
}

func init() {
	wrapCmd.Flags().Bool("padded", false, "use Key Wrap with Padding (RFC 5649)")
	wrapCmd.Flags().String("input", "", "read raw key bytes from a file instead of an argument")
	addKeyFlags(wrapCmd, "kek", "key encryption key")
}
