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

// Package gf128 implements multiplication in GF(2^128) for the two
// polynomial MACs used by the authenticated modes: GHASH (NIST GCM) and
// POLYVAL (RFC 8452).
//
// Both MACs evaluate the same Horner recurrence acc = (acc XOR block) * H
// over 16-byte blocks; they differ only in bit and byte ordering. The field
// core here is written once in the GHASH representation, and the POLYVAL
// convention is obtained through the RFC 8452 Appendix A mapping
//
//	POLYVAL(H, X_1..X_n) =
//	    ByteReverse(GHASH(mulX_GHASH(ByteReverse(H)), ByteReverse(X_1)..))
//
// so the two MACs can never drift apart algebraically.
package gf128

import "encoding/binary"

// Convention selects the bit/byte-order interpretation of keys, blocks and
// digests.
type Convention int

const (
	// GHASH is the reflected-bit convention used by GCM.
	GHASH Convention = iota
	// Polyval is the little-endian convention of RFC 8452 used by GCM-SIV.
	Polyval
)

// element is a field element in the GHASH representation: low holds the
// coefficients of x^0..x^63, high the coefficients of x^64..x^127. GHASH
// reverses bit order, so the lowest-degree term of each word sits in its
// most significant bit.
type element struct {
	low, high uint64
}

// reductionTable propagates four bits shifted off the low end of an element
// back into the top, folding the reduction polynomial. Indexed by those
// four bits.
var reductionTable = [16]uint16{
	0x0000, 0x1c20, 0x3840, 0x2460, 0x7080, 0x6ca0, 0x48c0, 0x54e0,
	0xe100, 0xfd20, 0xd940, 0xc560, 0x9180, 0x8da0, 0xa9c0, 0xb5e0,
}

// Hasher accumulates 16-byte blocks under a fixed hash key H. It is not
// safe for concurrent use; the AEAD layers create one per operation.
type Hasher struct {
	conv Convention
	// productTable[reverseBits(i)] = H * i for i in 0..15, enabling
	// 4-bit-at-a-time multiplication without secret-dependent branches.
	productTable [16]element
	acc          element
}

// New builds a Hasher for the given convention and 16-byte hash key.
func New(conv Convention, h []byte) *Hasher {
	if len(h) != 16 {
		panic("gf128: hash key must be 16 bytes")
	}
	var hb [16]byte
	copy(hb[:], h)
	if conv == Polyval {
		reverse(&hb)
	}
	x := element{
		low:  binary.BigEndian.Uint64(hb[:8]),
		high: binary.BigEndian.Uint64(hb[8:]),
	}
	if conv == Polyval {
		// mulX_GHASH of the byte-reversed key, per the Appendix A mapping.
		x = double(x)
	}

	g := &Hasher{conv: conv}
	g.productTable[reverseBits(1)] = x
	for i := 2; i < 16; i += 2 {
		g.productTable[reverseBits(i)] = double(g.productTable[reverseBits(i/2)])
		g.productTable[reverseBits(i+1)] = add(g.productTable[reverseBits(i)], x)
	}
	return g
}

// reverseBits reverses the order of the low four bits of i.
func reverseBits(i int) int {
	i = ((i << 2) & 0xc) | ((i >> 2) & 0x3)
	i = ((i << 1) & 0xa) | ((i >> 1) & 0x5)
	return i
}

func add(x, y element) element {
	return element{low: x.low ^ y.low, high: x.high ^ y.high}
}

// double multiplies an element by x in the GHASH representation, folding
// the reduction polynomial when a coefficient shifts off the end.
func double(x element) element {
	msbSet := x.high&1 == 1
	var d element
	d.high = x.high >> 1
	d.high |= x.low << 63
	d.low = x.low >> 1
	if msbSet {
		d.low ^= 0xe100000000000000
	}
	return d
}

// mul sets y = y * H.
func (g *Hasher) mul(y *element) {
	var z element
	for i := 0; i < 2; i++ {
		word := y.high
		if i == 1 {
			word = y.low
		}
		for j := 0; j < 64; j += 4 {
			msw := z.high & 0xf
			z.high >>= 4
			z.high |= z.low << 60
			z.low >>= 4
			z.low ^= uint64(reductionTable[msw]) << 48

			t := g.productTable[word&0xf]
			z.low ^= t.low
			z.high ^= t.high
			word >>= 4
		}
	}
	*y = z
}

// Update absorbs exactly one 16-byte block.
func (g *Hasher) Update(block []byte) {
	if len(block) != 16 {
		panic("gf128: update requires a full 16-byte block")
	}
	var b [16]byte
	copy(b[:], block)
	if g.conv == Polyval {
		reverse(&b)
	}
	g.acc.low ^= binary.BigEndian.Uint64(b[:8])
	g.acc.high ^= binary.BigEndian.Uint64(b[8:])
	g.mul(&g.acc)
}

// UpdatePadded absorbs data of any length, zero-padding the final partial
// block. Absorbing an empty slice is a no-op, matching both MAC
// definitions.
func (g *Hasher) UpdatePadded(data []byte) {
	for len(data) >= 16 {
		g.Update(data[:16])
		data = data[16:]
	}
	if len(data) > 0 {
		var b [16]byte
		copy(b[:], data)
		g.Update(b[:])
	}
}

// UpdateUint64s absorbs one block formed from two 64-bit values laid out in
// the convention's byte order. GCM uses it for the big-endian bit-length
// block, GCM-SIV for the little-endian one.
func (g *Hasher) UpdateUint64s(a, b uint64) {
	var blk [16]byte
	if g.conv == Polyval {
		binary.LittleEndian.PutUint64(blk[:8], a)
		binary.LittleEndian.PutUint64(blk[8:], b)
	} else {
		binary.BigEndian.PutUint64(blk[:8], a)
		binary.BigEndian.PutUint64(blk[8:], b)
	}
	g.Update(blk[:])
}

// Sum appends nothing and returns the current digest in the convention's
// byte order. The hasher may keep absorbing afterwards (GCM derives J0 and
// the tag mask from intermediate states).
func (g *Hasher) Sum() [16]byte {
	var out [16]byte
	binary.BigEndian.PutUint64(out[:8], g.acc.low)
	binary.BigEndian.PutUint64(out[8:], g.acc.high)
	if g.conv == Polyval {
		reverse(&out)
	}
	return out
}

// Reset clears the accumulator, keeping the key schedule.
func (g *Hasher) Reset() {
	g.acc = element{}
}

func reverse(b *[16]byte) {
	for i := 0; i < 8; i++ {
		b[i], b[15-i] = b[15-i], b[i]
	}
}
