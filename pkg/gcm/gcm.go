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

// Package gcm implements AES-GCM (NIST SP 800-38D) on top of the block
// cipher core and the shared GF(2^128) arithmetic.
//
// A context binds key, nonce and additional authenticated data at
// construction and exposes the Encrypt/Decrypt pair over byte slices, with
// the 16-byte tag appended to the ciphertext. Tag verification happens
// before any plaintext is produced, so a failed Decrypt can never leak
// partial plaintext.
package gcm

import (
	"crypto/subtle"
	"fmt"

	"github.com/jeremyhahn/go-aes/pkg/aes"
	"github.com/jeremyhahn/go-aes/pkg/gf128"
	"github.com/jeremyhahn/go-aes/pkg/types"
)

const (
	// TagSize is the length of the authentication tag in bytes. Truncated
	// tags are not supported.
	TagSize = 16

	// StandardNonceSize is the canonical 96-bit nonce length, which skips
	// the GHASH-based counter derivation.
	StandardNonceSize = 12

	// MinNonceSize is the smallest accepted nonce. Shorter nonces give
	// degenerate counter spaces and are rejected rather than supported.
	MinNonceSize = 8
)

// GCM is an immutable AES-GCM context. Safe for concurrent use.
type GCM struct {
	block *aes.Cipher
	nonce []byte
	aad   []byte
	// h is the GHASH key, the encryption of the all-zero block.
	h [aes.BlockSize]byte
}

var _ types.Cipher = (*GCM)(nil)

// New creates an AES-GCM context.
//
// Parameters:
//   - key: 16, 24 or 32 bytes (aes.ErrInvalidKeyLength otherwise)
//   - nonce: at least 8 bytes; 12 bytes is the standard and fastest choice
//   - aad: additional authenticated data, may be nil
//
// Encrypting two different messages with the same key and nonce destroys
// GCM's guarantees; use the aead package's trackers or gcmsiv when nonce
// uniqueness cannot be assured.
func New(key, nonce, aad []byte) (*GCM, error) {
	if len(nonce) < MinNonceSize {
		return nil, fmt.Errorf("%w: nonce must be at least %d bytes, got %d",
			ErrInvalidLength, MinNonceSize, len(nonce))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	g := &GCM{
		block: block,
		nonce: append([]byte(nil), nonce...),
		aad:   append([]byte(nil), aad...),
	}
	var zero [aes.BlockSize]byte
	g.block.EncryptBlock(g.h[:], zero[:])
	return g, nil
}

// Encrypt seals plaintext and returns ciphertext with the tag appended.
func (g *GCM) Encrypt(plaintext []byte) ([]byte, error) {
	counter := g.deriveCounter()

	var tagMask [aes.BlockSize]byte
	g.block.EncryptBlock(tagMask[:], counter[:])
	inc32(&counter)

	out := make([]byte, len(plaintext)+TagSize)
	g.counterCrypt(out[:len(plaintext)], plaintext, &counter)

	tag := g.auth(out[:len(plaintext)], tagMask)
	copy(out[len(plaintext):], tag[:])
	return out, nil
}

// Decrypt opens ciphertext||tag. It returns ErrInvalidLength when the input
// cannot contain a tag and ErrAuthenticationFailed when verification fails;
// the tag is checked before any plaintext is computed.
func (g *GCM) Decrypt(data []byte) ([]byte, error) {
	if len(data) < TagSize {
		return nil, fmt.Errorf("%w: ciphertext of %d bytes is shorter than the %d-byte tag",
			ErrInvalidLength, len(data), TagSize)
	}
	ciphertext, tag := data[:len(data)-TagSize], data[len(data)-TagSize:]

	counter := g.deriveCounter()
	var tagMask [aes.BlockSize]byte
	g.block.EncryptBlock(tagMask[:], counter[:])
	inc32(&counter)

	expected := g.auth(ciphertext, tagMask)
	if subtle.ConstantTimeCompare(expected[:], tag) != 1 {
		return nil, ErrAuthenticationFailed
	}

	out := make([]byte, len(ciphertext))
	g.counterCrypt(out, ciphertext, &counter)
	return out, nil
}

// deriveCounter computes J0: the 12-byte nonce concatenated with a block
// counter of 1, or for other nonce lengths the GHASH of the padded nonce
// followed by its 64-bit bit length.
func (g *GCM) deriveCounter() [aes.BlockSize]byte {
	var counter [aes.BlockSize]byte
	if len(g.nonce) == StandardNonceSize {
		copy(counter[:], g.nonce)
		counter[aes.BlockSize-1] = 1
		return counter
	}
	hash := gf128.New(gf128.GHASH, g.h[:])
	hash.UpdatePadded(g.nonce)
	hash.UpdateUint64s(0, uint64(len(g.nonce))*8)
	return hash.Sum()
}

// auth computes GHASH over AAD, ciphertext and the bit-length block, then
// masks with the encrypted J0.
func (g *GCM) auth(ciphertext []byte, tagMask [aes.BlockSize]byte) [TagSize]byte {
	hash := gf128.New(gf128.GHASH, g.h[:])
	hash.UpdatePadded(g.aad)
	hash.UpdatePadded(ciphertext)
	hash.UpdateUint64s(uint64(len(g.aad))*8, uint64(len(ciphertext))*8)
	tag := hash.Sum()
	for i := range tag {
		tag[i] ^= tagMask[i]
	}
	return tag
}

// counterCrypt XORs in with successive encrypted counter blocks. The block
// counter is the low 32 bits of J0, big-endian, wrapping at 2^32 as SP
// 800-38D defines; the upper 96 bits never change.
func (g *GCM) counterCrypt(out, in []byte, counter *[aes.BlockSize]byte) {
	var ks [aes.BlockSize]byte
	for len(in) > 0 {
		g.block.EncryptBlock(ks[:], counter[:])
		inc32(counter)
		n := len(in)
		if n > aes.BlockSize {
			n = aes.BlockSize
		}
		for i := 0; i < n; i++ {
			out[i] = in[i] ^ ks[i]
		}
		in, out = in[n:], out[n:]
	}
}

// inc32 increments the final four counter bytes as a big-endian 32-bit
// integer, wrapping at 2^32.
func inc32(counter *[aes.BlockSize]byte) {
	for i := aes.BlockSize - 1; i >= aes.BlockSize-4; i-- {
		counter[i]++
		if counter[i] != 0 {
			return
		}
	}
}
