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

// ECB applies the block transform independently per 16-byte block. It
// offers no semantic security for structured data and exists for raw
// vector replay and as a building block; prefer the AEAD modes.
type ECB struct {
	block   *aes.Cipher
	padding bool
}

var _ types.Cipher = (*ECB)(nil)

// NewECB creates an ECB context for the given key.
//
// Parameters:
//   - key: 16, 24 or 32 bytes
//   - opts: WithoutPadding to disable PKCS7
//
// Returns aes.ErrInvalidKeyLength for unsupported key sizes.
func NewECB(key []byte, opts ...Option) (*ECB, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	return &ECB{block: block, padding: !o.disablePadding}, nil
}

// Encrypt encrypts plaintext, applying PKCS7 padding unless disabled. With
// padding disabled, non-block-aligned input fails with ErrInvalidLength.
func (e *ECB) Encrypt(plaintext []byte) ([]byte, error) {
	data := plaintext
	if e.padding {
		data = pkcs7Pad(plaintext)
	} else if len(plaintext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not block-aligned and padding is disabled",
			ErrInvalidLength, len(plaintext))
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += aes.BlockSize {
		e.block.EncryptBlock(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
	}
	return out, nil
}

// Decrypt decrypts ciphertext and, unless padding is disabled, validates
// and strips the PKCS7 padding (ErrInvalidPadding on malformed padding).
func (e *ECB) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext of %d bytes is not block-aligned",
			ErrInvalidLength, len(ciphertext))
	}
	if e.padding && len(ciphertext) == 0 {
		return nil, fmt.Errorf("%w: padded ciphertext cannot be empty", ErrInvalidLength)
	}
	out := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += aes.BlockSize {
		e.block.DecryptBlock(out[i:i+aes.BlockSize], ciphertext[i:i+aes.BlockSize])
	}
	if !e.padding {
		return out, nil
	}
	return pkcs7Unpad(out)
}
