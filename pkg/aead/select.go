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
	"runtime"

	"golang.org/x/sys/cpu"
)

// HasAESNI reports whether the CPU exposes AES instructions.
//
// The table-driven software cipher in pkg/aes runs everywhere; this probe
// exists so operators can see whether a deployment also has the hardware
// path available for comparison benchmarks.
//
// Supported architectures:
//   - amd64: X86.HasAES
//   - arm64: ARM64.HasAES
//   - everything else reports false
func HasAESNI() bool {
	switch runtime.GOARCH {
	case "amd64":
		return cpu.X86.HasAES
	case "arm64":
		return cpu.ARM64.HasAES
	default:
		return false
	}
}

// Recommend picks an AEAD mode from the caller's nonce discipline.
//
// When every nonce is guaranteed unique (a persisted counter, a tracked
// session), GCM is the right default: one pass per message. When that
// guarantee is soft — nonces chosen at random across restarts, multiple
// writers sharing a key — GCM-SIV's misuse resistance is worth its second
// pass.
func Recommend(nonceUniquenessAssured bool) Mode {
	if nonceUniquenessAssured {
		return ModeGCM
	}
	return ModeGCMSIV
}
