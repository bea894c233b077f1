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

package modes

import "errors"

var (
	// ErrInvalidLength is returned when an input, IV or nonce length is
	// incompatible with the mode: non-block-aligned data with padding
	// disabled, a CBC IV that is not 16 bytes, or a CTR nonce that is not
	// 16, 8 or 4 bytes.
	ErrInvalidLength = errors.New("modes: invalid input length")

	// ErrInvalidPadding is returned by ECB/CBC decryption when the trailing
	// PKCS7 padding bytes are malformed.
	ErrInvalidPadding = errors.New("modes: invalid padding")
)
