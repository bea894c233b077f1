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
	"fmt"
	"sync/atomic"
)

const (
	// DefaultUsageLimit is the maximum plaintext volume sealed under a
	// single key when nonce uniqueness is enforced by a tracker: 350GB, a
	// conservative reading of the NIST SP 800-38D invocation bounds.
	DefaultUsageLimit = 350 * 1024 * 1024 * 1024

	// RandomNonceLimit is the tighter 68GB bound to use when nonces are
	// drawn at random without tracking, where the birthday paradox on
	// 96-bit nonces dominates.
	RandomNonceLimit = 68 * 1024 * 1024 * 1024
)

// BytesTracker counts plaintext bytes sealed under one key and fails
// closed once a configured limit is reached, signalling that the key must
// be rotated. All operations are atomic; no locking is required.
type BytesTracker struct {
	enabled bool
	used    atomic.Int64
	limit   int64
}

// NewBytesTracker creates a bytes tracker. A zero limit selects
// DefaultUsageLimit; enabled=false makes every operation a no-op.
func NewBytesTracker(enabled bool, limit int64) *BytesTracker {
	if limit == 0 {
		limit = DefaultUsageLimit
	}
	return &BytesTracker{
		enabled: enabled,
		limit:   limit,
	}
}

// CheckAndIncrement reserves n bytes of budget, or returns
// ErrUsageLimitExceeded without consuming any budget when the reservation
// would cross the limit. The caller is expected to rotate the key.
func (bt *BytesTracker) CheckAndIncrement(n int64) error {
	if !bt.enabled {
		return nil
	}

	total := bt.used.Add(n)
	if total > bt.limit {
		// Roll back so a retry after rotation is not double-counted.
		bt.used.Add(-n)
		return fmt.Errorf("%w: %d of %d bytes used, %d requested",
			ErrUsageLimitExceeded, total-n, bt.limit, n)
	}
	return nil
}

// Used returns the total bytes sealed so far, zero when disabled.
func (bt *BytesTracker) Used() int64 {
	if !bt.enabled {
		return 0
	}
	return bt.used.Load()
}

// Remaining returns the budget left before the limit, -1 when disabled.
func (bt *BytesTracker) Remaining() int64 {
	if !bt.enabled {
		return -1
	}
	return bt.limit - bt.used.Load()
}

// Limit returns the configured limit, -1 when disabled.
func (bt *BytesTracker) Limit() int64 {
	if !bt.enabled {
		return -1
	}
	return bt.limit
}

// UsagePercent returns how much of the budget is consumed, 0.0 to 100.0.
func (bt *BytesTracker) UsagePercent() float64 {
	if !bt.enabled || bt.limit == 0 {
		return 0.0
	}
	return float64(bt.used.Load()) / float64(bt.limit) * 100.0
}

// ShouldWarn reports whether usage has crossed 90% of the limit, giving
// operators room to rotate before seals start failing.
func (bt *BytesTracker) ShouldWarn() bool {
	if !bt.enabled {
		return false
	}
	return bt.UsagePercent() >= 90.0
}

// Stats returns the tracker state as a map for structured logging.
func (bt *BytesTracker) Stats() map[string]interface{} {
	if !bt.enabled {
		return map[string]interface{}{"enabled": false}
	}
	used := bt.used.Load()
	return map[string]interface{}{
		"enabled":       true,
		"bytes_used":    used,
		"limit":         bt.limit,
		"remaining":     bt.limit - used,
		"usage_percent": bt.UsagePercent(),
		"warn":          bt.ShouldWarn(),
	}
}

// Reset zeroes the counter. Only meaningful immediately after rotating to
// a fresh key.
func (bt *BytesTracker) Reset() {
	if bt.enabled {
		bt.used.Store(0)
	}
}

// IsEnabled reports whether usage accounting is active.
func (bt *BytesTracker) IsEnabled() bool {
	return bt.enabled
}
