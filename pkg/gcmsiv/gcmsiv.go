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

// Package gcmsiv implements AES-GCM-SIV (RFC 8452), the nonce-misuse
// resistant AEAD.
//
// Unlike GCM, repeating a nonce with the same key only reveals whether two
// messages were identical; it does not leak the keystream or the
// authentication key. The cost is a second pass over the plaintext: the tag
// is derived from the plaintext first and then seeds the counter for
// encryption, so nothing about the keystream is fixed before the whole
// message has been authenticated.
package gcmsiv

import (
	"crypto/subtle"
	"encoding/binary"
	"fmt"

	"github.com/jeremyhahn/go-aes/pkg/aes"
	"github.com/jeremyhahn/go-aes/pkg/gf128"
	"github.com/jeremyhahn/go-aes/pkg/types"
)

const (
	// TagSize is the length of the authentication tag in bytes.
	TagSize = 16

	// NonceSize is the only nonce length RFC 8452 defines.
	NonceSize = 12
)

// GCMSIV is an immutable AES-GCM-SIV context. Safe for concurrent use.
//
// The context holds the per-nonce derived keys rather than the top-level
// key: RFC 8452 fixes the nonce at construction time anyway, so the
// derivation work is paid once instead of on every call.
type GCMSIV struct {
	// enc is the block cipher keyed with the derived message-encryption
	// key.
	enc     *aes.Cipher
	authKey [16]byte
	nonce   [NonceSize]byte
	aad     []byte
}

var _ types.Cipher = (*GCMSIV)(nil)

// New creates an AES-GCM-SIV context.
//
// Parameters:
//   - key: 16 or 32 bytes; RFC 8452 defines no 192-bit variant
//   - nonce: exactly 12 bytes
//   - aad: additional authenticated data, may be nil
func New(key, nonce, aad []byte) (*GCMSIV, error) {
	if len(key) != 16 && len(key) != 32 {
		return nil, fmt.Errorf("%w: gcmsiv requires a 16 or 32 byte key, got %d",
			aes.ErrInvalidKeyLength, len(key))
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce must be exactly %d bytes, got %d",
			ErrInvalidLength, NonceSize, len(nonce))
	}
	root, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	s := &GCMSIV{aad: append([]byte(nil), aad...)}
	copy(s.nonce[:], nonce)

	// RFC 8452 section 4: encrypt little-endian counters prepended to the
	// nonce and keep the first half of each block. Counters 0-1 build the
	// authentication key; 2-3 (AES-128) or 2-5 (AES-256) the encryption
	// key.
	encKey := make([]byte, len(key))
	var in, out [aes.BlockSize]byte
	copy(in[4:], nonce)
	counter := uint32(0)
	derive := func(dst []byte) {
		for off := 0; off < len(dst); off += 8 {
			binary.LittleEndian.PutUint32(in[:4], counter)
			root.EncryptBlock(out[:], in[:])
			copy(dst[off:off+8], out[:8])
			counter++
		}
	}
	derive(s.authKey[:])
	derive(encKey)

	s.enc, err = aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Encrypt seals plaintext and returns ciphertext with the tag appended.
func (s *GCMSIV) Encrypt(plaintext []byte) ([]byte, error) {
	tag := s.deriveTag(plaintext)

	out := make([]byte, len(plaintext)+TagSize)
	s.counterCrypt(out[:len(plaintext)], plaintext, tag)
	copy(out[len(plaintext):], tag[:])
	return out, nil
}

// Decrypt opens ciphertext||tag. The keystream is applied first and the tag
// recomputed from the recovered plaintext; on mismatch the plaintext buffer
// is wiped and only ErrAuthenticationFailed escapes.
func (s *GCMSIV) Decrypt(data []byte) ([]byte, error) {
	if len(data) < TagSize {
		return nil, fmt.Errorf("%w: ciphertext of %d bytes cannot contain a %d-byte tag",
			ErrInvalidLength, len(data), TagSize)
	}
	ciphertext := data[:len(data)-TagSize]
	var received [TagSize]byte
	copy(received[:], data[len(data)-TagSize:])

	plaintext := make([]byte, len(ciphertext))
	s.counterCrypt(plaintext, ciphertext, received)

	expected := s.deriveTag(plaintext)
	if subtle.ConstantTimeCompare(expected[:], received[:]) != 1 {
		for i := range plaintext {
			plaintext[i] = 0
		}
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// deriveTag runs POLYVAL over the padded AAD, the padded plaintext and the
// little-endian bit-length block, folds in the nonce, clears the top bit
// and encrypts the result (RFC 8452 section 5).
func (s *GCMSIV) deriveTag(plaintext []byte) [TagSize]byte {
	h := gf128.New(gf128.Polyval, s.authKey[:])
	h.UpdatePadded(s.aad)
	h.UpdatePadded(plaintext)
	h.UpdateUint64s(uint64(len(s.aad))*8, uint64(len(plaintext))*8)

	tag := h.Sum()
	for i := 0; i < NonceSize; i++ {
		tag[i] ^= s.nonce[i]
	}
	tag[15] &= 0x7f

	var out [TagSize]byte
	s.enc.EncryptBlock(out[:], tag[:])
	return out
}

// counterCrypt XORs src with the keystream seeded by the tag. The initial
// counter block is the tag with its top bit forced on; the first four bytes
// then count up as a little-endian 32-bit integer, wrapping modulo 2^32.
// The RFC's counter-wrap vectors pin both the width and the byte order.
func (s *GCMSIV) counterCrypt(dst, src []byte, tag [TagSize]byte) {
	counter := tag
	counter[15] |= 0x80

	var keystream [aes.BlockSize]byte
	for len(src) > 0 {
		s.enc.EncryptBlock(keystream[:], counter[:])
		binary.LittleEndian.PutUint32(counter[:4],
			binary.LittleEndian.Uint32(counter[:4])+1)

		n := len(src)
		if n > aes.BlockSize {
			n = aes.BlockSize
		}
		for i := 0; i < n; i++ {
			dst[i] = src[i] ^ keystream[i]
		}
		src = src[n:]
		dst = dst[n:]
	}
}
