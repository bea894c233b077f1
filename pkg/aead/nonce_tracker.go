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

import (
	"encoding/hex"
	"sync"
)

// NonceTracker records every nonce used under one key and rejects repeats.
//
// NIST SP 800-38D requires each (key, nonce) pair to be used at most once
// with GCM; a repeat breaks authentication entirely. GCM-SIV survives a
// repeat with only message-equality leakage, but deployments that care
// about that leakage track nonces there as well.
//
// Nonces are kept as hex strings in a map, so memory grows with every
// sealed message. Long-running systems should rotate keys (and with them,
// sessions) rather than accumulate tracker state without bound.
//
// Example usage:
//
//	tracker := aead.NewNonceTracker(true)
//	if err := tracker.CheckAndRecord(nonce); err != nil {
//	    return err // nonce was already used under this key
//	}
type NonceTracker struct {
	enabled bool
	seen    map[string]struct{}
	mu      sync.RWMutex
}

// NewNonceTracker creates a nonce tracker. When enabled is false every
// operation is a no-op, for callers that guarantee uniqueness some other
// way (a counter, a database constraint).
func NewNonceTracker(enabled bool) *NonceTracker {
	return &NonceTracker{
		enabled: enabled,
		seen:    make(map[string]struct{}),
	}
}

// CheckAndRecord atomically checks whether the nonce has been seen under
// this tracker and records it. It returns ErrNonceReuse on a repeat; the
// caller must not proceed with encryption in that case.
//
// Safe for concurrent use: when several goroutines race on the same nonce,
// exactly one wins.
func (nt *NonceTracker) CheckAndRecord(nonce []byte) error {
	if !nt.enabled {
		return nil
	}

	key := hex.EncodeToString(nonce)

	nt.mu.Lock()
	defer nt.mu.Unlock()

	if _, exists := nt.seen[key]; exists {
		return ErrNonceReuse
	}
	nt.seen[key] = struct{}{}
	return nil
}

// Contains reports whether the nonce has been recorded, without recording
// it. Always false when tracking is disabled.
func (nt *NonceTracker) Contains(nonce []byte) bool {
	if !nt.enabled {
		return false
	}

	key := hex.EncodeToString(nonce)

	nt.mu.RLock()
	defer nt.mu.RUnlock()

	_, exists := nt.seen[key]
	return exists
}

// Count returns the number of unique nonces recorded. Useful for deciding
// when to rotate the key. Zero when tracking is disabled.
func (nt *NonceTracker) Count() int {
	if !nt.enabled {
		return 0
	}

	nt.mu.RLock()
	defer nt.mu.RUnlock()

	return len(nt.seen)
}

// Clear forgets all recorded nonces. Only safe after rotating to a new
// key; clearing and reusing nonces under the same key defeats the tracker.
func (nt *NonceTracker) Clear() {
	if !nt.enabled {
		return
	}

	nt.mu.Lock()
	defer nt.mu.Unlock()

	nt.seen = make(map[string]struct{})
}

// IsEnabled reports whether tracking is active.
func (nt *NonceTracker) IsEnabled() bool {
	return nt.enabled
}
