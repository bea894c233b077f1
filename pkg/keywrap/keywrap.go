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

// Package keywrap implements the AES key-wrap algorithms: RFC 3394 for key
// data in whole 8-byte blocks and the RFC 5649 padded variant for arbitrary
// lengths.
//
// Key wrapping is a deterministic, IV-free way to protect key material
// under a key-encrypting key (KEK). Determinism is the point: wrapping the
// same key twice yields the same ciphertext, so wrapped keys can be
// compared and deduplicated at rest. Do not use it for general message
// encryption; that is what the AEAD modes are for.
package keywrap

import (
	"encoding/binary"
	"fmt"

	"github.com/jeremyhahn/go-aes/pkg/aes"
)

const (
	// blockSize is the 64-bit half-block the wrap register operates on.
	blockSize = 8

	// defaultIV is the RFC 3394 initial value checked on unwrap.
	defaultIV = 0xa6a6a6a6a6a6a6a6

	// paddedMagic is the high half of the RFC 5649 alternative initial
	// value; the low half carries the original key-data length.
	paddedMagic = 0xa65959a6

	rounds = 6
)

// Wrapper wraps and unwraps key material under a fixed KEK. Immutable and
// safe for concurrent use.
type Wrapper struct {
	block *aes.Cipher
}

// New creates a Wrapper for the given 16, 24 or 32 byte KEK.
func New(kek []byte) (*Wrapper, error) {
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}
	return &Wrapper{block: block}, nil
}

// Wrap protects key data per RFC 3394. The data must be a multiple of 8
// bytes and at least 16; the output is 8 bytes longer than the input.
func (w *Wrapper) Wrap(data []byte) ([]byte, error) {
	if len(data)%blockSize != 0 || len(data) < 2*blockSize {
		return nil, fmt.Errorf("%w: key data must be a multiple of %d bytes and at least %d, got %d",
			ErrInvalidLength, blockSize, 2*blockSize, len(data))
	}
	return w.wrap(defaultIV, data), nil
}

// Unwrap recovers key data wrapped by Wrap. Integrity failures return
// ErrUnwrapFailed and release no key data.
func (w *Wrapper) Unwrap(data []byte) ([]byte, error) {
	if len(data)%blockSize != 0 || len(data) < 3*blockSize {
		return nil, fmt.Errorf("%w: wrapped data must be a multiple of %d bytes and at least %d, got %d",
			ErrInvalidLength, blockSize, 3*blockSize, len(data))
	}
	iv, out := w.unwrap(data)
	if iv != defaultIV {
		wipe(out)
		return nil, ErrUnwrapFailed
	}
	return out, nil
}

// WrapPadded protects key data of any length from 1 byte up per RFC 5649,
// zero-padding to the next 8-byte boundary and recording the true length in
// the initial value.
func (w *Wrapper) WrapPadded(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: key data must not be empty", ErrInvalidLength)
	}
	if uint64(len(data)) > 0xffffffff {
		return nil, fmt.Errorf("%w: key data exceeds the 32-bit length field", ErrInvalidLength)
	}
	aiv := uint64(paddedMagic)<<32 | uint64(uint32(len(data)))

	padded := make([]byte, (len(data)+blockSize-1)/blockSize*blockSize)
	copy(padded, data)

	// A single padded block skips the 6-round schedule: one raw AES
	// encryption of AIV || block (RFC 5649 section 4.1).
	if len(padded) == blockSize {
		in := make([]byte, aes.BlockSize)
		binary.BigEndian.PutUint64(in[:blockSize], aiv)
		copy(in[blockSize:], padded)
		out := make([]byte, aes.BlockSize)
		w.block.EncryptBlock(out, in)
		return out, nil
	}
	return w.wrap(aiv, padded), nil
}

// UnwrapPadded recovers key data wrapped by WrapPadded, validating the
// magic, the encoded length and the zero padding before returning it.
func (w *Wrapper) UnwrapPadded(data []byte) ([]byte, error) {
	if len(data)%blockSize != 0 || len(data) < 2*blockSize {
		return nil, fmt.Errorf("%w: wrapped data must be a multiple of %d bytes and at least %d, got %d",
			ErrInvalidLength, blockSize, 2*blockSize, len(data))
	}

	var aiv uint64
	var padded []byte
	if len(data) == aes.BlockSize {
		out := make([]byte, aes.BlockSize)
		w.block.DecryptBlock(out, data)
		aiv = binary.BigEndian.Uint64(out[:blockSize])
		padded = out[blockSize:]
	} else {
		aiv, padded = w.unwrap(data)
	}

	if uint32(aiv>>32) != paddedMagic {
		wipe(padded)
		return nil, ErrUnwrapFailed
	}
	length := int(uint32(aiv))
	if length <= len(padded)-blockSize || length > len(padded) {
		wipe(padded)
		return nil, ErrUnwrapFailed
	}
	for _, b := range padded[length:] {
		if b != 0 {
			wipe(padded)
			return nil, ErrUnwrapFailed
		}
	}
	return padded[:length], nil
}

// wrap runs the RFC 3394 section 2.2.1 register schedule over whole
// half-blocks with the given initial value, returning A || R[1..n].
func (w *Wrapper) wrap(iv uint64, data []byte) []byte {
	n := len(data) / blockSize
	out := make([]byte, (n+1)*blockSize)
	copy(out[blockSize:], data)

	a := iv
	var buf [aes.BlockSize]byte
	for j := 0; j < rounds; j++ {
		for i := 0; i < n; i++ {
			r := out[(i+1)*blockSize:]
			binary.BigEndian.PutUint64(buf[:blockSize], a)
			copy(buf[blockSize:], r[:blockSize])
			w.block.EncryptBlock(buf[:], buf[:])
			t := uint64(n*j + i + 1)
			a = binary.BigEndian.Uint64(buf[:blockSize]) ^ t
			copy(r[:blockSize], buf[blockSize:])
		}
	}
	binary.BigEndian.PutUint64(out[:blockSize], a)
	return out
}

// unwrap reverses the register schedule and returns the recovered initial
// value alongside the candidate key data. Callers decide whether the
// initial value passes.
func (w *Wrapper) unwrap(data []byte) (uint64, []byte) {
	n := len(data)/blockSize - 1
	out := make([]byte, n*blockSize)
	copy(out, data[blockSize:])

	a := binary.BigEndian.Uint64(data[:blockSize])
	var buf [aes.BlockSize]byte
	for j := rounds - 1; j >= 0; j-- {
		for i := n - 1; i >= 0; i-- {
			r := out[i*blockSize:]
			t := uint64(n*j + i + 1)
			binary.BigEndian.PutUint64(buf[:blockSize], a^t)
			copy(buf[blockSize:], r[:blockSize])
			w.block.DecryptBlock(buf[:], buf[:])
			a = binary.BigEndian.Uint64(buf[:blockSize])
			copy(r[:blockSize], buf[blockSize:])
		}
	}
	return a, out
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
