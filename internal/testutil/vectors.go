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

// Package testutil loads the JSON test-vector fixtures consumed by the
// package test suites. The fixture formats mirror the published sources:
// flat known-answer lists for the NIST SP 800-38A and RFC vectors, and
// grouped suites with valid/invalid cases for interoperability testing.
// Core cipher packages never import this package.
package testutil

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"testing"
)

// HexBytes decodes JSON hex strings into bytes. An empty string decodes to
// an empty (non-nil) slice so that "no AAD" and "empty plaintext" survive
// the round trip the way the published suites express them.
type HexBytes []byte

var _ interface {
	UnmarshalText([]byte) error
} = (*HexBytes)(nil)

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *HexBytes) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("testutil: bad hex %q: %w", string(text), err)
	}
	if decoded == nil {
		decoded = []byte{}
	}
	*h = decoded
	return nil
}

// KnownAnswer is one deterministic vector: fixed inputs, one exact output.
type KnownAnswer struct {
	Name       string   `json:"name"`
	Key        HexBytes `json:"key"`
	IV         HexBytes `json:"iv"`
	Nonce      HexBytes `json:"nonce"`
	AAD        HexBytes `json:"aad"`
	Plaintext  HexBytes `json:"plaintext"`
	Ciphertext HexBytes `json:"ciphertext"`
	Tag        HexBytes `json:"tag"`
}

// KnownAnswerSuite is a flat list of known answers with a provenance note.
type KnownAnswerSuite struct {
	Source  string        `json:"source"`
	Vectors []KnownAnswer `json:"vectors"`
}

// InteropCase is one case of an interoperability suite. Result is "valid",
// "acceptable" or "invalid"; invalid cases must fail to decrypt.
type InteropCase struct {
	ID      int      `json:"tcId"`
	Comment string   `json:"comment"`
	Key     HexBytes `json:"key"`
	IV      HexBytes `json:"iv"`
	AAD     HexBytes `json:"aad"`
	Msg     HexBytes `json:"msg"`
	CT      HexBytes `json:"ct"`
	Tag     HexBytes `json:"tag"`
	Result  string   `json:"result"`
	Flags   []string `json:"flags"`
}

// InteropGroup carries the per-group parameters the published suites use
// (sizes in bits).
type InteropGroup struct {
	KeySize int            `json:"keySize"`
	IVSize  int            `json:"ivSize"`
	TagSize int            `json:"tagSize"`
	Type    string         `json:"type"`
	Tests   []*InteropCase `json:"tests"`
}

// InteropSuite is a grouped interoperability suite for one algorithm.
type InteropSuite struct {
	Algorithm string          `json:"algorithm"`
	Groups    []*InteropGroup `json:"testGroups"`
}

// LoadKnownAnswers reads a flat known-answer fixture from path.
func LoadKnownAnswers(t *testing.T, path string) *KnownAnswerSuite {
	t.Helper()
	var suite KnownAnswerSuite
	loadJSON(t, path, &suite)
	if len(suite.Vectors) == 0 {
		t.Fatalf("fixture %s contains no vectors", path)
	}
	return &suite
}

// LoadInteropSuite reads a grouped interoperability fixture from path.
func LoadInteropSuite(t *testing.T, path string) *InteropSuite {
	t.Helper()
	var suite InteropSuite
	loadJSON(t, path, &suite)
	if len(suite.Groups) == 0 {
		t.Fatalf("fixture %s contains no test groups", path)
	}
	return &suite
}

func loadJSON(t *testing.T, path string, v any) {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("parse fixture %s: %v", path, err)
	}
}

// Corrupt returns a copy of b with the byte at index i XORed with mask.
// Negative i counts from the end. Used to build tampered inputs that must
// fail authentication.
func Corrupt(b []byte, i int, mask byte) []byte {
	out := append([]byte(nil), b...)
	if i < 0 {
		i += len(out)
	}
	out[i] ^= mask
	return out
}

// Concat joins byte slices into a fresh buffer.
func Concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
