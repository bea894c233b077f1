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
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/jeremyhahn/go-aes/internal/secret"
	"github.com/jeremyhahn/go-aes/pkg/encoding/hexutil"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// decodeInput decodes a binary parameter strictly in the selected
// encoding. Data parameters are never auto-detected; a ciphertext that
// happens to be valid in both encodings must not silently change meaning.
func decodeInput(s, encoding string) ([]byte, error) {
	if encoding == "base64" {
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 input: %w", err)
		}
		return b, nil
	}
	return hexutil.Decode(s)
}

// addKeyFlags registers the three mutually exclusive key input flags.
// base is "key" for cipher commands and "kek" for the wrap commands.
func addKeyFlags(cmd *cobra.Command, base, what string) {
	cmd.Flags().String(base, "", what+" as hex or base64")
	cmd.Flags().String(base+"-file", "", "file containing the raw "+what+" bytes")
	cmd.Flags().Bool(base+"-prompt", false, "prompt for the "+what+" without echo")
}

// readSecret resolves key material from --<base>, --<base>-file or
// --<base>-prompt. Exactly one source must be provided. The caller owns
// the returned secret and should Wipe it when done.
func readSecret(cmd *cobra.Command, base, promptLabel string) (*secret.Secret, error) {
	value, _ := cmd.Flags().GetString(base)
	file, _ := cmd.Flags().GetString(base + "-file")
	prompt, _ := cmd.Flags().GetBool(base + "-prompt")

	sources := 0
	if value != "" {
		sources++
	}
	if file != "" {
		sources++
	}
	if prompt {
		sources++
	}
	if sources == 0 {
		return nil, fmt.Errorf("no %s provided: use --%s, --%s-file or --%s-prompt",
			promptLabel, base, base, base)
	}
	if sources > 1 {
		return nil, fmt.Errorf("--%s, --%s-file and --%s-prompt are mutually exclusive",
			base, base, base)
	}

	var raw []byte
	switch {
	case value != "":
		b, err := hexutil.DecodeAuto(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", promptLabel, err)
		}
		raw = b
	case file != "":
		// #nosec G304 - Key file path is provided by the user
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s file: %w", promptLabel, err)
		}
		raw = b
	default:
		b, err := promptSecret(fmt.Sprintf("Enter %s (hex or base64): ", promptLabel))
		if err != nil {
			return nil, err
		}
		decoded, err := hexutil.DecodeAuto(string(b))
		wipeBytes(b)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", promptLabel, err)
		}
		raw = decoded
	}

	s, err := secret.New(raw)
	wipeBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", promptLabel, err)
	}
	return s, nil
}

// promptSecret reads a line from the terminal without echoing
func promptSecret(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read from terminal: %w", err)
	}
	return b, nil
}

// readPayload returns the data a command operates on: either the single
// positional argument or the raw contents of --input. When decode is
// true the positional argument is decoded per the selected encoding;
// otherwise it is taken as literal bytes.
func readPayload(cmd *cobra.Command, args []string, encoding string, decode bool) ([]byte, error) {
	inputFile, _ := cmd.Flags().GetString("input")

	switch {
	case len(args) == 1 && inputFile != "":
		return nil, fmt.Errorf("provide either a data argument or --input, not both")
	case len(args) == 1:
		if decode {
			return decodeInput(args[0], encoding)
		}
		return []byte(args[0]), nil
	case inputFile != "":
		// #nosec G304 - Input file path is provided by the user
		b, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("no input provided: pass a data argument or --input")
	}
}

// flagBytes decodes an optional binary flag, returning nil when unset
func flagBytes(cmd *cobra.Command, name, encoding string) ([]byte, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return nil, nil
	}
	b, err := decodeInput(s, encoding)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return b, nil
}

// wipeBytes zeroes a scratch buffer holding key material
func wipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
