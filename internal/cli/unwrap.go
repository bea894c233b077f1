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

var unwrapCmd = &cobra.Command{
	Use:   "unwrap [wrapped-key]",
	Short: "Unwrap a key wrapped with AES Key Wrap",
	Long: `Recover key material wrapped under a key encryption key. The
wrapped key argument is decoded per --encoding; --input reads raw
wrapped bytes from a file instead.

Pass --padded when the key was wrapped with Key Wrap with Padding
(RFC 5649). Unwrapping fails when the integrity check does not match,
which means the wrong KEK was used or the data was tampered with.

Examples:
  aes unwrap --kek 000102030405060708090a0b0c0d0e0f 1fa68b0a8112b447aef34bd8fb5a7b829d3e862371d2cfe5
  aes unwrap --padded --kek-file kek.bin --input wrapped.bin`,
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

		wrapped, err := readPayload(cmd, args, cfg.Encoding, true)
		if err != nil {
			handleError(err)
			return
		}

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

		var keyMaterial []byte
		if padded {
			keyMaterial, err = w.UnwrapPadded(wrapped)
		} else {
			keyMaterial, err = w.Unwrap(wrapped)
		}
		if err != nil {
			metrics.RecordError(metrics.OpUnwrap, mode, "unwrap_failed")
			handleError(err)
			return
		}
		defer wipeBytes(keyMaterial)
		metrics.RecordOperation(metrics.OpUnwrap, mode, metrics.StatusSuccess,
			time.Since(start).Seconds(), len(wrapped))
		printVerbose("unwrapped %d bytes of key material", len(keyMaterial))

		printer := NewPrinter(cfg.OutputFormat, cfg.Encoding, os.Stdout)
		if err := printer.PrintUnwrapped(keyMaterial); err != nil {
			handleError(err)
			return
		}
		finishOperation()
	},
}

func init() {
	unwrapCmd.Flags().Bool("padded", false, "the key was wrapped with Key Wrap with Padding (RFC 5649)")
	unwrapCmd.Flags().String("input", "", "read raw wrapped bytes from a file instead of an argument")
	addKeyFlags(unwrapCmd, "kek", "key encryption key")
}
