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

package keywrap

import "errors"

var (
	// ErrInvalidLength is returned when the key data does not meet the
	// algorithm's length requirements: RFC 3394 needs a multiple of 8
	// bytes and at least 16, RFC 5649 at least 1 byte.
	ErrInvalidLength = errors.New("keywrap: invalid input length")

	// ErrUnwrapFailed is returned when an integrity check fails during
	// unwrapping: wrong fixed IV, wrong magic, inconsistent length or
	// non-zero padding. The reason is deliberately not distinguished.
	ErrUnwrapFailed = errors.New("keywrap: integrity check failed")
)
