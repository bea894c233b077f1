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

import (
	"fmt"

	"github.com/jeremyhahn/go-aes/pkg/aes"
	"github.com/jeremyhahn/go-aes/pkg/types"
)

// CTR turns the block cipher into a stream cipher: keystream block i is the
// encryption of a 128-bit big-endian counter that starts at the nonce-derived
// value, advances by one per block, and wraps modulo 2^128 (an all-0xFF
// counter block is followed by the all-zero block).
//
// The nonce convention is a fixed contract, reproducing a widely deployed
// provider's behavior rather than a general variable-width counter:
//
//   - 16 bytes: used verbatim as the initial counter
//   - 8 bytes:  high-order 8 counter bytes; the low 8 start at zero
//   - 4 bytes:  high-order 4 counter bytes; the low 12 start at zero
//
// Every other nonce length fails with ErrInvalidLength.
type CTR struct {
	block   *aes.Cipher
	counter [aes.BlockSize]byte
}

var _ types.Cipher = (*CTR)(nil)

// NewCTR creates a CTR context from the key and nonce. Each Encrypt or
// Decrypt call restarts the keystream at the nonce-derived counter; the
// context carries no per-call state.
func NewCTR(key, nonce []byte) (*CTR, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	c := &CTR{block: block}
	switch len(nonce) {
	case 16, 8, 4:
		copy(c.counter[:], nonce)
	default:
		return nil, fmt.Errorf("%w: CTR nonce must be 16, 8 or 4 bytes, got %d",
			ErrInvalidLength, len(nonce))
	}
	return c, nil
}

// Encrypt XORs data with the keystream. Any input length is accepted; the
// final keystream block is truncated.
func (c *CTR) Encrypt(data []byte) ([]byte, error) {
	return c.xorKeyStream(data), nil
}

// Decrypt is the identical XOR transform.
func (c *CTR) Decrypt(data []byte) ([]byte, error) {
	return c.xorKeyStream(data), nil
}

func (c *CTR) xorKeyStream(data []byte) []byte {
	out := make([]byte, len(data))
	counter := c.counter
	var ks [aes.BlockSize]byte
	for i := 0; i < len(data); i += aes.BlockSize {
		c.block.EncryptBlock(ks[:], counter[:])
		end := i + aes.BlockSize
		if end > len(data) {
			end = len(data)
		}
		xorBytes(out[i:end], data[i:end], ks[:])
		incCounter(&counter)
	}
	return out
}

// incCounter adds one to a 128-bit big-endian counter, wrapping at 2^128.
func incCounter(counter *[aes.BlockSize]byte) {
	for i := aes.BlockSize - 1; i >= 0; i-- {
		counter[i]++
		if counter[i] != 0 {
			return
		}
	}
}
