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

// Package aes implements the AES block cipher (FIPS 197) from scratch for
// key sizes of 128, 192 and 256 bits.
//
// The package exposes only the raw 16-byte block transform. Operating modes
// (ECB, CBC, CTR, GCM, GCM-SIV, key wrapping) are layered on top by the
// modes, gcm, gcmsiv and keywrap packages.
//
// The round transform is table-driven: SubBytes, ShiftRows and MixColumns
// are folded into four 256-entry lookup tables per direction, and every
// lookup is indexed unconditionally so no branch depends on key or data
// bytes. The round-key schedule is derived once at construction and never
// mutated, so a single Cipher is safe for concurrent use from multiple
// goroutines.
package aes

import (
	"encoding/binary"
	"fmt"
)

// BlockSize is the AES block size in bytes, fixed for all key sizes.
const BlockSize = 16

// Cipher is an immutable AES key schedule. It implements the single-block
// encrypt and decrypt transforms that every operating mode builds on.
//
// Construct with NewCipher. The zero value is not usable.
type Cipher struct {
	enc []uint32
	dec []uint32
}

// NewCipher derives the round-key schedule for the given key and returns a
// reusable block cipher context.
//
// Parameters:
//   - key: 16, 24 or 32 bytes, selecting AES-128, AES-192 or AES-256
//
// Returns ErrInvalidKeyLength for any other key length. The key slice is
// not retained; callers may zeroize it after construction.
func NewCipher(key []byte) (*Cipher, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidKeyLength, len(key))
	}
	n := len(key) + 28
	c := &Cipher{
		enc: make([]uint32, n),
		dec: make([]uint32, n),
	}
	expandKey(key, c.enc, c.dec)
	return c, nil
}

// BlockSize returns the cipher's block size in bytes. AES is a 128-bit
// block cipher for every key size.
func (c *Cipher) BlockSize() int {
	return BlockSize
}

// KeyBits returns the key size of the derived schedule in bits
// (128, 192 or 256).
func (c *Cipher) KeyBits() int {
	// schedule length is 4*(rounds+1); rounds is 10/12/14
	return (len(c.enc)/4 - 7) * 32
}

// rounds returns the number of AES rounds for the derived schedule.
func (c *Cipher) rounds() int {
	return len(c.enc)/4 - 1
}

// EncryptBlock encrypts exactly one 16-byte block from src into dst.
// dst and src may overlap entirely or not at all. Anything other than a
// full block is a caller contract violation; length checks belong to the
// mode layers.
func (c *Cipher) EncryptBlock(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("aes: input not full block")
	}
	s0 := binary.BigEndian.Uint32(src[0:4])
	s1 := binary.BigEndian.Uint32(src[4:8])
	s2 := binary.BigEndian.Uint32(src[8:12])
	s3 := binary.BigEndian.Uint32(src[12:16])

	xk := c.enc
	s0 ^= xk[0]
	s1 ^= xk[1]
	s2 ^= xk[2]
	s3 ^= xk[3]

	var t0, t1, t2, t3 uint32
	k := 4
	for r := 0; r < c.rounds()-1; r++ {
		t0 = xk[k+0] ^ te0[uint8(s0>>24)] ^ te1[uint8(s1>>16)] ^ te2[uint8(s2>>8)] ^ te3[uint8(s3)]
		t1 = xk[k+1] ^ te0[uint8(s1>>24)] ^ te1[uint8(s2>>16)] ^ te2[uint8(s3>>8)] ^ te3[uint8(s0)]
		t2 = xk[k+2] ^ te0[uint8(s2>>24)] ^ te1[uint8(s3>>16)] ^ te2[uint8(s0>>8)] ^ te3[uint8(s1)]
		t3 = xk[k+3] ^ te0[uint8(s3>>24)] ^ te1[uint8(s0>>16)] ^ te2[uint8(s1>>8)] ^ te3[uint8(s2)]
		k += 4
		s0, s1, s2, s3 = t0, t1, t2, t3
	}

	// Final round omits MixColumns.
	s0 = uint32(sbox0[t0>>24])<<24 | uint32(sbox0[t1>>16&0xff])<<16 | uint32(sbox0[t2>>8&0xff])<<8 | uint32(sbox0[t3&0xff])
	s1 = uint32(sbox0[t1>>24])<<24 | uint32(sbox0[t2>>16&0xff])<<16 | uint32(sbox0[t3>>8&0xff])<<8 | uint32(sbox0[t0&0xff])
	s2 = uint32(sbox0[t2>>24])<<24 | uint32(sbox0[t3>>16&0xff])<<16 | uint32(sbox0[t0>>8&0xff])<<8 | uint32(sbox0[t1&0xff])
	s3 = uint32(sbox0[t3>>24])<<24 | uint32(sbox0[t0>>16&0xff])<<16 | uint32(sbox0[t1>>8&0xff])<<8 | uint32(sbox0[t2&0xff])

	s0 ^= xk[k+0]
	s1 ^= xk[k+1]
	s2 ^= xk[k+2]
	s3 ^= xk[k+3]

	binary.BigEndian.PutUint32(dst[0:4], s0)
	binary.BigEndian.PutUint32(dst[4:8], s1)
	binary.BigEndian.PutUint32(dst[8:12], s2)
	binary.BigEndian.PutUint32(dst[12:16], s3)
}

// DecryptBlock decrypts exactly one 16-byte block from src into dst using
// the equivalent inverse cipher. The same contract as EncryptBlock applies.
func (c *Cipher) DecryptBlock(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("aes: input not full block")
	}
	s0 := binary.BigEndian.Uint32(src[0:4])
	s1 := binary.BigEndian.Uint32(src[4:8])
	s2 := binary.BigEndian.Uint32(src[8:12])
	s3 := binary.BigEndian.Uint32(src[12:16])

	xk := c.dec
	s0 ^= xk[0]
	s1 ^= xk[1]
	s2 ^= xk[2]
	s3 ^= xk[3]

	var t0, t1, t2, t3 uint32
	k := 4
	for r := 0; r < c.rounds()-1; r++ {
		t0 = xk[k+0] ^ td0[uint8(s0>>24)] ^ td1[uint8(s3>>16)] ^ td2[uint8(s2>>8)] ^ td3[uint8(s1)]
		t1 = xk[k+1] ^ td0[uint8(s1>>24)] ^ td1[uint8(s0>>16)] ^ td2[uint8(s3>>8)] ^ td3[uint8(s2)]
		t2 = xk[k+2] ^ td0[uint8(s2>>24)] ^ td1[uint8(s1>>16)] ^ td2[uint8(s0>>8)] ^ td3[uint8(s3)]
		t3 = xk[k+3] ^ td0[uint8(s3>>24)] ^ td1[uint8(s2>>16)] ^ td2[uint8(s1>>8)] ^ td3[uint8(s0)]
		k += 4
		s0, s1, s2, s3 = t0, t1, t2, t3
	}

	s0 = uint32(sbox1[t0>>24])<<24 | uint32(sbox1[t3>>16&0xff])<<16 | uint32(sbox1[t2>>8&0xff])<<8 | uint32(sbox1[t1&0xff])
	s1 = uint32(sbox1[t1>>24])<<24 | uint32(sbox1[t0>>16&0xff])<<16 | uint32(sbox1[t3>>8&0xff])<<8 | uint32(sbox1[t2&0xff])
	s2 = uint32(sbox1[t2>>24])<<24 | uint32(sbox1[t1>>16&0xff])<<16 | uint32(sbox1[t0>>8&0xff])<<8 | uint32(sbox1[t3&0xff])
	s3 = uint32(sbox1[t3>>24])<<24 | uint32(sbox1[t2>>16&0xff])<<16 | uint32(sbox1[t1>>8&0xff])<<8 | uint32(sbox1[t0&0xff])

	s0 ^= xk[k+0]
	s1 ^= xk[k+1]
	s2 ^= xk[k+2]
	s3 ^= xk[k+3]

	binary.BigEndian.PutUint32(dst[0:4], s0)
	binary.BigEndian.PutUint32(dst[4:8], s1)
	binary.BigEndian.PutUint32(dst[8:12], s2)
	binary.BigEndian.PutUint32(dst[12:16], s3)
}

// rotw rotates a schedule word left by one byte.
func rotw(w uint32) uint32 { return w<<8 | w>>24 }

// subw applies the S-box to each byte of a schedule word.
func subw(w uint32) uint32 {
	return uint32(sbox0[w>>24])<<24 |
		uint32(sbox0[w>>16&0xff])<<16 |
		uint32(sbox0[w>>8&0xff])<<8 |
		uint32(sbox0[w&0xff])
}

// expandKey fills enc with the encryption round keys and dec with the
// round keys of the equivalent inverse cipher (FIPS 197 §5.3.5): the
// encryption schedule reversed blockwise, with InvMixColumns applied to
// every round key except the first and last.
func expandKey(key []byte, enc, dec []uint32) {
	nk := len(key) / 4
	i := 0
	for ; i < nk; i++ {
		enc[i] = binary.BigEndian.Uint32(key[4*i:])
	}
	for ; i < len(enc); i++ {
		t := enc[i-1]
		switch {
		case i%nk == 0:
			t = subw(rotw(t)) ^ uint32(powx[i/nk-1])<<24
		case nk > 6 && i%nk == 4:
			t = subw(t)
		}
		enc[i] = enc[i-nk] ^ t
	}

	n := len(enc)
	for i := 0; i < n; i += 4 {
		ei := n - i - 4
		for j := 0; j < 4; j++ {
			x := enc[ei+j]
			if i > 0 && i+4 < n {
				x = td0[sbox0[x>>24]] ^ td1[sbox0[x>>16&0xff]] ^ td2[sbox0[x>>8&0xff]] ^ td3[sbox0[x&0xff]]
			}
			dec[i+j] = x
		}
	}
}
