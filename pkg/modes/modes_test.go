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
	stdaes "crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-aes/internal/testutil"
	"github.com/jeremyhahn/go-aes/pkg/encoding/hexutil"
	"github.com/jeremyhahn/go-aes/pkg/types"
)

// newVectorCipher builds the context named by a SP 800-38A vector with
// padding disabled, so the raw block-aligned data replays exactly.
func newVectorCipher(t *testing.T, name string, key, iv []byte) types.Cipher {
	t.Helper()
	switch {
	case strings.HasPrefix(name, "ECB"):
		c, err := NewECB(key, WithoutPadding())
		require.NoError(t, err)
		return c
	case strings.HasPrefix(name, "CBC"):
		c, err := NewCBC(key, iv, WithoutPadding())
		require.NoError(t, err)
		return c
	case strings.HasPrefix(name, "CTR"):
		c, err := NewCTR(key, iv)
		require.NoError(t, err)
		return c
	default:
		t.Fatalf("unknown vector cipher %q", name)
		return nil
	}
}

func TestNISTSP80038AVectors(t *testing.T) {
	suite := testutil.LoadKnownAnswers(t, "testdata/nist_sp800_38a.json")
	for _, tv := range suite.Vectors {
		t.Run(tv.Name, func(t *testing.T) {
			c := newVectorCipher(t, tv.Name, tv.Key, tv.IV)

			ct, err := c.Encrypt(tv.Plaintext)
			require.NoError(t, err)
			assert.Equal(t, []byte(tv.Ciphertext), ct, "encrypt direction")

			pt, err := c.Decrypt(tv.Ciphertext)
			require.NoError(t, err)
			assert.Equal(t, []byte(tv.Plaintext), pt, "decrypt direction")
		})
	}
}

// TestCBCInteropSuite runs the padded-CBC suite: valid cases round-trip
// through the PKCS7 layer, invalid ciphertexts must fail with the right
// sentinel and release nothing.
func TestCBCInteropSuite(t *testing.T) {
	suite := testutil.LoadInteropSuite(t, "testdata/cbc_interop.json")
	for _, group := range suite.Groups {
		for _, tc := range group.Tests {
			t.Run(fmt.Sprintf("key%d/tc%d", group.KeySize, tc.ID), func(t *testing.T) {
				c, err := NewCBC(tc.Key, tc.IV)
				if group.IVSize != 128 {
					require.Error(t, err, "%s", tc.Comment)
					assert.True(t, errors.Is(err, ErrInvalidLength))
					return
				}
				require.NoError(t, err)

				if tc.Result == "invalid" {
					out, err := c.Decrypt(tc.CT)
					if hasFlag(tc.Flags, "InvalidPadding") {
						assert.True(t, errors.Is(err, ErrInvalidPadding), "%s: got %v", tc.Comment, err)
					} else {
						assert.True(t, errors.Is(err, ErrInvalidLength), "%s: got %v", tc.Comment, err)
					}
					assert.Nil(t, out, "failed decrypt must not release plaintext")
					return
				}

				sealed, err := c.Encrypt(tc.Msg)
				require.NoError(t, err, "%s", tc.Comment)
				assert.Equal(t, len(tc.Msg)/16*16+16, len(sealed), "PKCS7 output length")

				back, err := c.Decrypt(sealed)
				require.NoError(t, err)
				assert.Equal(t, []byte(tc.Msg), back)
			})
		}
	}
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}

func TestPKCS7RoundTrip(t *testing.T) {
	key := hexutil.MustDecode("2b7e151628aed2a6abf7158809cf4f3c")
	iv := hexutil.MustDecode("000102030405060708090a0b0c0d0e0f")

	for _, mode := range []string{"ecb", "cbc"} {
		for length := 0; length <= 48; length++ {
			pt := make([]byte, length)
			_, err := rand.Read(pt)
			require.NoError(t, err)

			var c types.Cipher
			if mode == "ecb" {
				c, err = NewECB(key)
			} else {
				c, err = NewCBC(key, iv)
			}
			require.NoError(t, err)

			ct, err := c.Encrypt(pt)
			require.NoError(t, err)
			assert.Equal(t, 0, len(ct)%16, "%s ciphertext must be block aligned", mode)
			assert.Greater(t, len(ct), length, "%s padding always adds bytes", mode)

			got, err := c.Decrypt(ct)
			require.NoError(t, err)
			assert.Equal(t, pt, got, "%s round-trip at length %d", mode, length)
		}
	}
}

func TestUnalignedInputWithoutPadding(t *testing.T) {
	key := make([]byte, 16)

	e, err := NewECB(key, WithoutPadding())
	require.NoError(t, err)
	_, err = e.Encrypt(make([]byte, 17))
	assert.True(t, errors.Is(err, ErrInvalidLength))
	_, err = e.Decrypt(make([]byte, 15))
	assert.True(t, errors.Is(err, ErrInvalidLength))

	c, err := NewCBC(key, make([]byte, 16), WithoutPadding())
	require.NoError(t, err)
	_, err = c.Encrypt(make([]byte, 31))
	assert.True(t, errors.Is(err, ErrInvalidLength))

	// Empty input is a degenerate aligned case.
	out, err := e.Encrypt(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCBCInvalidIV(t *testing.T) {
	for _, n := range []int{0, 8, 15, 17, 32} {
		_, err := NewCBC(make([]byte, 16), make([]byte, n))
		assert.True(t, errors.Is(err, ErrInvalidLength), "IV length %d", n)
	}
}

func TestInvalidPadding(t *testing.T) {
	key := hexutil.MustDecode("2b7e151628aed2a6abf7158809cf4f3c")
	iv := hexutil.MustDecode("000102030405060708090a0b0c0d0e0f")

	c, err := NewCBC(key, iv)
	require.NoError(t, err)
	ct, err := c.Encrypt([]byte("attack at dawn"))
	require.NoError(t, err)

	// Flipping the low bits of the final ciphertext block scrambles the
	// recovered padding.
	_, err = c.Decrypt(testutil.Corrupt(ct, -1, 0xff))
	assert.True(t, errors.Is(err, ErrInvalidPadding), "got %v", err)

	// A decrypted all-zero final byte is out of the [1,16] range.
	raw, err := NewCBC(key, iv, WithoutPadding())
	require.NoError(t, err)
	zeros, err := raw.Encrypt(make([]byte, 16))
	require.NoError(t, err)
	_, err = c.Decrypt(zeros)
	assert.True(t, errors.Is(err, ErrInvalidPadding))

	// Padded ciphertext can never be empty.
	_, err = c.Decrypt(nil)
	assert.True(t, errors.Is(err, ErrInvalidLength))
}

func TestECBKeyValidation(t *testing.T) {
	_, err := NewECB(make([]byte, 20))
	assert.Error(t, err)
}

// CBC against the standard library over random inputs.
func TestCBCAgainstStandardLibrary(t *testing.T) {
	for _, keyLen := range []int{16, 24, 32} {
		key := make([]byte, keyLen)
		iv := make([]byte, 16)
		pt := make([]byte, 12*16)
		_, err := rand.Read(key)
		require.NoError(t, err)
		_, err = rand.Read(iv)
		require.NoError(t, err)
		_, err = rand.Read(pt)
		require.NoError(t, err)

		ours, err := NewCBC(key, iv, WithoutPadding())
		require.NoError(t, err)
		got, err := ours.Encrypt(pt)
		require.NoError(t, err)

		block, err := stdaes.NewCipher(key)
		require.NoError(t, err)
		want := make([]byte, len(pt))
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(want, pt)

		require.Equal(t, want, got, "CBC diverges from crypto/cipher (key %d bytes)", keyLen)
	}
}

// CTR keystream against the standard library, including the full 128-bit
// counter wrap: with an all-0xFF initial counter the second keystream block
// comes from the all-zero counter.
func TestCTRCounterWrap(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	nonce := hexutil.MustDecode("ffffffffffffffffffffffffffffffff")
	msg := make([]byte, 64)
	for i := range msg {
		msg[i] = 0x40
	}

	ours, err := NewCTR(key, nonce)
	require.NoError(t, err)
	got, err := ours.Encrypt(msg)
	require.NoError(t, err)

	block, err := stdaes.NewCipher(key)
	require.NoError(t, err)
	want := make([]byte, len(msg))
	cipher.NewCTR(block, nonce).XORKeyStream(want, msg)

	require.Equal(t, want, got, "wraparound keystream diverges from crypto/cipher")

	back, err := ours.Decrypt(got)
	require.NoError(t, err)
	assert.Equal(t, msg, back)
}

// The short-nonce conventions extend with zero bytes, so the equivalent
// 16-byte counter reproduces them exactly.
func TestCTRShortNonceConventions(t *testing.T) {
	key := make([]byte, 16)
	_, err := rand.Read(key)
	require.NoError(t, err)
	msg := make([]byte, 80)
	_, err = rand.Read(msg)
	require.NoError(t, err)

	for _, n := range []int{4, 8} {
		nonce := make([]byte, n)
		for i := range nonce {
			nonce[i] = 0xff
		}
		expanded := make([]byte, 16)
		copy(expanded, nonce)

		short, err := NewCTR(key, nonce)
		require.NoError(t, err)
		full, err := NewCTR(key, expanded)
		require.NoError(t, err)

		a, err := short.Encrypt(msg)
		require.NoError(t, err)
		b, err := full.Encrypt(msg)
		require.NoError(t, err)
		assert.Equal(t, b, a, "%d-byte nonce must zero-extend", n)

		block, err := stdaes.NewCipher(key)
		require.NoError(t, err)
		want := make([]byte, len(msg))
		cipher.NewCTR(block, expanded).XORKeyStream(want, msg)
		assert.Equal(t, want, a, "%d-byte nonce diverges from crypto/cipher", n)
	}

	for _, n := range []int{0, 1, 5, 12, 15, 17} {
		_, err := NewCTR(key, make([]byte, n))
		assert.True(t, errors.Is(err, ErrInvalidLength), "nonce length %d must be rejected", n)
	}
}

// Encrypt must not advance shared state: repeated calls on one context give
// identical output, and partial-block tails work.
func TestCTRStateless(t *testing.T) {
	key := make([]byte, 16)
	nonce := make([]byte, 8)
	c, err := NewCTR(key, nonce)
	require.NoError(t, err)

	msg := []byte("seventeen bytes!!")
	require.Len(t, msg, 17)

	first, err := c.Encrypt(msg)
	require.NoError(t, err)
	second, err := c.Encrypt(msg)
	require.NoError(t, err)
	assert.Equal(t, first, second, "context must be immutable across calls")

	back, err := c.Decrypt(first)
	require.NoError(t, err)
	assert.Equal(t, msg, back)
}

func BenchmarkCBCEncrypt(b *testing.B) {
	c, err := NewCBC(make([]byte, 32), make([]byte, 16), WithoutPadding())
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]byte, 8192)
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Encrypt(buf); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCTREncrypt(b *testing.B) {
	c, err := NewCTR(make([]byte, 32), make([]byte, 16))
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]byte, 8192)
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Encrypt(buf); err != nil {
			b.Fatal(err)
		}
	}
}
