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

// CBC chains blocks by XORing each plaintext block with the previous
// ciphertext block, seeded by a 16-byte IV.
type CBC struct {
	block   *aes.Cipher
	iv      [aes.BlockSize]byte
	padding bool
}

var _ types.Cipher = (*CBC)(nil)

// NewCBC creates a CBC context for the given key and 16-byte IV.
//
// Parameters:
//   - key: 16, 24 or 32 bytes
//   - iv: exactly 16 bytes
//   - opts: WithoutPadding to disable PKCS7
//
// Returns aes.ErrInvalidKeyLength or ErrInvalidLength respectively when the
// key or IV has an unsupported length.
func NewCBC(key, iv []byte, opts ...Option) (*CBC, error) {
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: CBC IV must be 16 bytes, got %d", ErrInvalidLength, len(iv))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	c := &CBC{block: block, padding: !o.disablePadding}
	copy(c.iv[:], iv)
	return c, nil
}

// Encrypt encrypts plaintext under CBC, applying PKCS7 padding unless
// disabled, in which case non-block-aligned input fails with
// ErrInvalidLength. The chaining state lives on the stack of this call, so
// concurrent Encrypts never interfere.
func (c *CBC) Encrypt(plaintext []byte) ([]byte, error) {
	data := plaintext
	if c.padding {
		data = pkcs7Pad(plaintext)
	} else if len(plaintext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not block-aligned and padding is disabled",
			ErrInvalidLength, len(plaintext))
	}
	out := make([]byte, len(data))
	var chained [aes.BlockSize]byte
	prev := c.iv[:]
	for i := 0; i < len(data); i += aes.BlockSize {
		xorBytes(chained[:], data[i:i+aes.BlockSize], prev)
		c.block.EncryptBlock(out[i:i+aes.BlockSize], chained[:])
		prev = out[i : i+aes.BlockSize]
	}
	return out, nil
}

// Decrypt reverses the chaining and, unless padding is disabled, validates
// and strips PKCS7 padding (ErrInvalidPadding on malformed padding).
func (c *CBC) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext of %d bytes is not block-aligned",
			ErrInvalidLength, len(ciphertext))
	}
	if c.padding && len(ciphertext) == 0 {
		return nil, fmt.Errorf("%w: padded ciphertext cannot be empty", ErrInvalidLength)
	}
	out := make([]byte, len(ciphertext))
	prev := c.iv[:]
	for i := 0; i < len(ciphertext); i += aes.BlockSize {
		c.block.DecryptBlock(out[i:i+aes.BlockSize], ciphertext[i:i+aes.BlockSize])
		xorBytes(out[i:i+aes.BlockSize], out[i:i+aes.BlockSize], prev)
		prev = ciphertext[i : i+aes.BlockSize]
	}
	if !c.padding {
		return out, nil
	}
	return pkcs7Unpad(out)
}
