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

package aes

// Round lookup tables. te0..te3 fold SubBytes and MixColumns for the
// encryption rounds, td0..td3 fold InvSubBytes and InvMixColumns for the
// equivalent inverse cipher. All eight tables plus both S-boxes are built
// once at package init from GF(2^8) arithmetic over the AES polynomial
// x^8 + x^4 + x^3 + x + 1, instead of being pasted in as 2KB of literals.
var (
	powx  [16]byte
	sbox0 [256]byte
	sbox1 [256]byte

	te0, te1, te2, te3 [256]uint32
	td0, td1, td2, td3 [256]uint32
)

// xtime multiplies a field element by x (i.e. by 2), reducing modulo the
// AES polynomial. Branch-free: the conditional reduction is selected by
// arithmetic on the carried-out bit.
func xtime(b byte) byte {
	return b<<1 ^ (b>>7)*0x1b
}

// rotl rotates a byte left by n bits.
func rotl(b byte, n uint) byte {
	return b<<n | b>>(8-n)
}

func init() {
	// Round-constant powers of x used by the key schedule.
	p := byte(1)
	for i := range powx {
		powx[i] = p
		p = xtime(p)
	}

	// Discrete log and antilog tables over the generator 3 (= x+1), which
	// generates the full multiplicative group of GF(2^8).
	var alog [255]byte
	var logt [256]byte
	a := byte(1)
	for i := 0; i < 255; i++ {
		alog[i] = a
		logt[a] = byte(i)
		a ^= xtime(a)
	}

	// S-box: multiplicative inverse followed by the FIPS 197 affine map.
	for x := 0; x < 256; x++ {
		var inv byte
		if x != 0 {
			inv = alog[(255-int(logt[x]))%255]
		}
		s := inv ^ rotl(inv, 1) ^ rotl(inv, 2) ^ rotl(inv, 3) ^ rotl(inv, 4) ^ 0x63
		sbox0[x] = s
		sbox1[s] = byte(x)
	}

	for x := 0; x < 256; x++ {
		s := sbox0[x]
		s2 := xtime(s)
		s3 := s2 ^ s

		// MixColumns column (2s, s, s, 3s) and its byte rotations.
		w := uint32(s2)<<24 | uint32(s)<<16 | uint32(s)<<8 | uint32(s3)
		te0[x] = w
		te1[x] = w>>8 | w<<24
		te2[x] = w>>16 | w<<16
		te3[x] = w>>24 | w<<8

		is := sbox1[x]
		i2 := xtime(is)
		i4 := xtime(i2)
		i8 := xtime(i4)
		i9 := i8 ^ is
		ib := i8 ^ i2 ^ is
		id := i8 ^ i4 ^ is
		ie := i8 ^ i4 ^ i2

		// InvMixColumns column (14s, 9s, 13s, 11s) and its rotations.
		v := uint32(ie)<<24 | uint32(i9)<<16 | uint32(id)<<8 | uint32(ib)
		td0[x] = v
		td1[x] = v>>8 | v<<24
		td2[x] = v>>16 | v<<16
		td3[x] = v>>24 | v<<8
	}
}
