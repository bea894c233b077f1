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

// Package modes implements the unauthenticated AES operating modes: ECB,
// CBC and CTR. ECB and CBC apply PKCS7 padding by default; pass
// WithoutPadding to operate on raw block-aligned data, which is how the
// NIST SP 800-38A vectors are replayed.
//
// Every context derives its key schedule once at construction, is immutable
// afterwards, and allocates a fresh output per call, so contexts are safe
// for concurrent use.
package modes

// Option adjusts padding behavior for the ECB and CBC constructors.
type Option func(*options)

type options struct {
	disablePadding bool
}

// WithoutPadding disables PKCS7 padding. Encrypt then requires
// block-aligned input and Decrypt returns the raw decrypted blocks.
func WithoutPadding() Option {
	return func(o *options) {
		o.disablePadding = true
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// xorBytes XORs b into a for the first n = min(len(a), len(b)) bytes of
// dst, returning n.
func xorBytes(dst, a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dst[i] = a[i] ^ b[i]
	}
	return n
}
