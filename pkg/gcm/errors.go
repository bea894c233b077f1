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

package gcm

import "errors"

var (
	// ErrInvalidLength is returned for a nonce shorter than 8 bytes or a
	// ciphertext shorter than the 16-byte tag.
	ErrInvalidLength = errors.New("gcm: invalid input length")

	// ErrAuthenticationFailed is returned when tag verification fails on
	// decrypt. No plaintext is ever released alongside it.
	ErrAuthenticationFailed = errors.New("gcm: message authentication failed")
)
