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
	"crypto/rand"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeremyhahn/go-aes/pkg/aes"
	"github.com/jeremyhahn/go-aes/pkg/gcm"
	"github.com/jeremyhahn/go-aes/pkg/gcmsiv"
	"github.com/jeremyhahn/go-aes/pkg/metrics"
	"github.com/jeremyhahn/go-aes/pkg/modes"
	"github.com/spf13/cobra"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt [plaintext]",
	Short: "Encrypt data with AES",
	Long: `Encrypt data using the selected AES mode of operation.

The plaintext is passed as a literal argument or read from a file with
--input. When no IV or nonce is provided, a random one is generated and
printed alongside the ciphertext. ECB and CBC apply PKCS#7 padding, so
the plaintext may be any length. GCM and GCM-SIV append a 16 byte
authentication tag to the ciphertext.

Examples:
  aes encrypt --key 000102030405060708090a0b0c0d0e0f "hello world"
  aes encrypt --mode cbc --key-file kek.bin --input document.pdf
  aes encrypt --mode gcm --key-prompt --aad "header-v1" "hello world"`,
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

		plaintext, err := readPayload(cmd, args, cfg.Encoding, false)
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

		out, err := encryptWithMode(cmd, mode, cfg.Encoding, keyBytes, plaintext)
		if err != nil {
			metrics.RecordError(metrics.OpEncrypt, mode, "encrypt_failed")
			handleError(err)
			return
		}
		metrics.RecordOperation(metrics.OpEncrypt, mode, metrics.StatusSuccess,
			time.Since(start).Seconds(), len(plaintext))
		printVerbose("encrypted %d bytes with aes-%s", len(plaintext), mode)

		printer := NewPrinter(cfg.OutputFormat, cfg.Encoding, os.Stdout)
		if err := printer.PrintEncrypted(out); err != nil {
			handleError(err)
			return
		}
		finishOperation()
	},
}

// encryptWithMode dispatches to the mode selected on the command line.
// The returned output carries whichever IV or nonce was used so callers
// can persist it next to the ciphertext.
func encryptWithMode(cmd *cobra.Command, mode, encoding string, key, plaintext []byte) (*EncryptedOutput, error) {
	switch mode {
	case "ecb":
		c, err := modes.NewECB(key)
		if err != nil {
			return nil, err
		}
		ciphertext, err := c.Encrypt(plaintext)
		if err != nil {
			return nil, err
		}
		return &EncryptedOutput{Mode: mode, Ciphertext: ciphertext}, nil

	case "cbc":
		iv, err := paramBytes(cmd, "iv", encoding, aes.BlockSize)
		if err != nil {
			return nil, err
		}
		c, err := modes.NewCBC(key, iv)
		if err != nil {
			return nil, err
		}
		ciphertext, err := c.Encrypt(plaintext)
		if err != nil {
			return nil, err
		}
		return &EncryptedOutput{Mode: mode, Ciphertext: ciphertext, IV: iv}, nil

	case "ctr":
		nonce, err := paramBytes(cmd, "nonce", encoding, aes.BlockSize)
		if err != nil {
			return nil, err
		}
		c, err := modes.NewCTR(key, nonce)
		if err != nil {
			return nil, err
		}
		ciphertext, err := c.Encrypt(plaintext)
		if err != nil {
			return nil, err
		}
		return &EncryptedOutput{Mode: mode, Ciphertext: ciphertext, Nonce: nonce}, nil

	case "gcm":
		nonce, err := paramBytes(cmd, "nonce", encoding, gcm.StandardNonceSize)
		if err != nil {
			return nil, err
		}
		aad, _ := cmd.Flags().GetString("aad")
		g, err := gcm.New(key, nonce, []byte(aad))
		if err != nil {
			return nil, err
		}
		ciphertext, err := g.Encrypt(plaintext)
		if err != nil {
			return nil, err
		}
		return &EncryptedOutput{Mode: mode, Ciphertext: ciphertext, Nonce: nonce}, nil

	case "gcm-siv":
		nonce, err := paramBytes(cmd, "nonce", encoding, gcmsiv.NonceSize)
		if err != nil {
			return nil, err
		}
		aad, _ := cmd.Flags().GetString("aad")
		s, err := gcmsiv.New(key, nonce, []byte(aad))
		if err != nil {
			return nil, err
		}
		ciphertext, err := s.Encrypt(plaintext)
		if err != nil {
			return nil, err
		}
		return &EncryptedOutput{Mode: mode, Ciphertext: ciphertext, Nonce: nonce}, nil

	default:
		return nil, fmt.Errorf("unknown mode %q: valid modes are ecb, cbc, ctr, gcm, gcm-siv", mode)
	}
}

// paramBytes returns the named IV or nonce flag, generating size random
// bytes when the flag is unset
func paramBytes(cmd *cobra.Command, name, encoding string, size int) ([]byte, error) {
	b, err := flagBytes(cmd, name, encoding)
	if err != nil {
		return nil, err
	}
	if b != nil {
		return b, nil
	}
	return randomBytes(size)
}

// randomBytes fills a fresh buffer from crypto/rand
func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

func init() {
	encryptCmd.Flags().StringP("mode", "m", "", "cipher mode: ecb, cbc, ctr, gcm, gcm-siv (default from config)")
	encryptCmd.Flags().String("iv", "", "initialization vector for cbc (random when omitted)")
	encryptCmd.Flags().String("nonce", "", "nonce for ctr, gcm and gcm-siv (random when omitted)")
	encryptCmd.Flags().String("aad", "", "additional authenticated data for gcm and gcm-siv")
	encryptCmd.Flags().String("input", "", "read the plaintext from a file instead of an argument")
	addKeyFlags(encryptCmd, "key", "encryption key")
}
