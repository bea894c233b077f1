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

// Package types holds the small set of interfaces shared across the cipher
// packages, so consumers like the CLI can drive any mode uniformly.
package types

// Cipher is the surface every mode context exposes: a pure transform from
// input bytes to a freshly allocated output. For AEAD modes Encrypt returns
// ciphertext with the 16-byte tag appended and Decrypt expects it appended.
//
// Implementations are immutable after construction and safe for concurrent
// use from multiple goroutines.
type Cipher interface {
	Encrypt(data []byte) ([]byte, error)
	Decrypt(data []byte) ([]byte, error)
}
