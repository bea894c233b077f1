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

package aead

import "errors"

var (
	// ErrNonceReuse is returned when a nonce is presented twice under the
	// same session key.
	//
	// For AES-GCM this is a critical failure: a repeated nonce leaks the
	// authentication key and lets an attacker forge messages. The session
	// refuses to encrypt rather than degrade. AES-GCM-SIV sessions track
	// nonces too, because even misuse-resistant encryption reveals message
	// equality on reuse.
	ErrNonceReuse = errors.New("aead: nonce reuse detected, encryption rejected")

	// ErrUsageLimitExceeded is returned when sealing another message would
	// push the total bytes encrypted under one key past the configured
	// limit. The caller should rotate the key and start a new session.
	ErrUsageLimitExceeded = errors.New("aead: key usage limit exceeded")

	// ErrUnsupportedMode is returned for a Mode this package does not
	// implement.
	ErrUnsupportedMode = errors.New("aead: unsupported mode")
)
