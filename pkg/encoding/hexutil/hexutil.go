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

// Package hexutil provides small hex and base64 helpers shared by the CLI
// and the test suites. Core cipher packages never import it.
package hexutil

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Decode decodes a hex string, tolerating an optional 0x prefix, embedded
// spaces and mixed case. Test vectors copied out of RFCs and NIST documents
// frequently carry all three.
func Decode(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.ReplaceAll(s, " ", "")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("hexutil: decode %q: %w", s, err)
	}
	return b, nil
}

// MustDecode is Decode for static inputs; it panics on malformed hex and is
// intended for test vectors and compiled-in constants only.
func MustDecode(s string) []byte {
	b, err := Decode(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Encode returns the lowercase hex encoding of b.
func Encode(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeAuto decodes s as hex when possible, falling back to standard
// base64. The CLI accepts either form for key material; data parameters
// are decoded strictly in the selected encoding instead, since a string
// valid in both encodings must not silently change meaning.
func DecodeAuto(s string) ([]byte, error) {
	if b, err := Decode(s); err == nil {
		return b, nil
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("hexutil: input is neither hex nor base64: %w", err)
	}
	return b, nil
}
