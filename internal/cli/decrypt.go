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
	"os"
	"strings"
	"time"

	"github.com/jeremyhahn/go-aes/pkg/gcm"
	"github.com/jeremyhahn/go-aes/pkg/gcmsiv"
	"github.com/jeremyhahn/go-aes/pkg/metrics"
	"github.com/jeremyhahn/go-aes/pkg/modes"
	"github.com/spf13/cobra"
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt [ciphertext]",
	Short: "Decrypt data with AES",
	Long: `Decrypt data using the selected AES mode of operation.

The ciphertext argument is decoded per --encoding; --input reads raw
ciphertext bytes from a file instead. CBC requires the IV used during
encryption, and CTR, GCM and GCM-SIV require the nonce. GCM and GCM-SIV
also require the same additional authenticated data and fail when the
ciphertext or tag has been tampered with.

Examples:
  aes decrypt --key 000102030405060708090a0b0c0d0e0f d5c33a...
  aes decrypt --mode gcm --key-file kek.bin --nonce 1af38c2dc2b96ffdd86694092341bc04 --aad "header-v1" 42831e...`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		start := time.Now()

		mode, _ := cmd.Flags().GetString("mode")
		if mode == "" {
			mode = cfg.DefaultMode()
		}
		mode = strings.ToLower(mode)

		key, err := readSecret(cmd, "key", "key")
		if err != nil {
			handleError(err)
			return
		}
		defer key.Wipe()

		ciphertext, err := readPayload(cmd, args, cfg.Encoding, true)
		if err != nil {
			handleError(err)
			return
		}

		keyBytes, err := key.Bytes()
		if err != nil {
			handleError(err)
			return
		}
		defer wipeBytes(keyBytes)

		plaintext, err := decryptWithMode(cmd, mode, cfg.Encoding, keyBytes, ciphertext)
		if err != nil {
			metrics.RecordError(metrics.OpDecrypt, mode, "decrypt_failed")
			handleError(err)
			return
		}
		metrics.RecordOperation(metrics.OpDecrypt, mode, metrics.StatusSuccess,
			time.Since(start).Seconds(), len(ciphertext))
		printVerbose("decrypted %d bytes with aes-%s", len(ciphertext), mode)

		printer := NewPrinter(cfg.OutputFormat, cfg.Encoding, os.Stdout)
		if err := printer.PrintDecrypted(plaintext); err != nil {
			handleError(err)
			return
		}
		finishOperation()
	},
}

// decryptWithMode dispatches to the mode selected on the command line.
// Unlike encryption, the IV or nonce is never generated here: the caller
// must supply the exact value used to encrypt.
func decryptWithMode(cmd *cobra.Command, mode, encoding string, key, ciphertext []byte) ([]byte, error) {
	switch mode {
	case "ecb":
		c, err := modes.NewECB(key)
		if err != nil {
			return nil, err
		}
		return c.Decrypt(ciphertext)

	case "cbc":
		iv, err := requiredBytes(cmd, "iv", encoding)
		if err != nil {
			return nil, err
		}
		c, err := modes.NewCBC(key, iv)
		if err != nil {
			return nil, err
		}
		return c.Decrypt(ciphertext)

	case "ctr":
		nonce, err := requiredBytes(cmd, "nonce", encoding)
		if err != nil {
			return nil, err
		}
		c, err := modes.NewCTR(key, nonce)
		if err != nil {
			return nil, err
		}
		return c.Decrypt(ciphertext)

	case "gcm":
		nonce, err := requiredBytes(cmd, "nonce", encoding)
		if err != nil {
			return nil, err
		}
		aad, _ := cmd.Flags().GetString("aad")
		g, err := gcm.New(key, nonce, []byte(aad))
		if err != nil {
			return nil, err
		}
		return g.Decrypt(ciphertext)

	case "gcm-siv":
		nonce, err := requiredBytes(cmd, "nonce", encoding)
		if err != nil {
			return nil, err
		}
		aad, _ := cmd.Flags().GetString("aad")
		s, err := gcmsiv.New(key, nonce, []byte(aad))
		if err != nil {
			return nil, err
		}
		return s.Decrypt(ciphertext)

	default:
		return nil, fmt.Errorf("unknown mode %q: valid modes are ecb, cbc, ctr, gcm, gcm-siv", mode)
	}
}

// requiredBytes decodes a flag that decryption cannot proceed without
func requiredBytes(cmd *cobra.Command, name, encoding string) ([]byte, error) {
	b, err := flagBytes(cmd, name, encoding)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("--%s is required for decryption", name)
	}
	return b, nil
}

func init() {
	decryptCmd.Flags().StringP("mode", "m", "", "cipher mode: ecb, cbc, ctr, gcm, gcm-siv (default from config)")
	decryptCmd.Flags().String("iv", "", "initialization vector used during encryption (cbc)")
	decryptCmd.Flags().String("nonce", "", "nonce used during encryption (ctr, gcm, gcm-siv)")
	decryptCmd.Flags().String("aad", "", "additional authenticated data used during encryption")
	decryptCmd.Flags().String("input", "", "read raw ciphertext bytes from a file instead of an argument")
	addKeyFlags(decryptCmd, "key", "decryption key")
}
