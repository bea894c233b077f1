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

// Package secret provides secure in-memory handling of key material for
// the CLI.
//
// A Secret holds raw bytes that can be wiped once the surrounding
// operation is finished. The cipher packages receive plain byte slices;
// this container exists so the CLI has exactly one place that owns the
// key between input parsing and wiping.
package secret

import (
	"crypto/subtle"
	"errors"
)

var (
	// ErrEmptySecret is returned when empty key material is provided.
	ErrEmptySecret = errors.New("secret cannot be empty")

	// ErrSecretWiped is returned when the secret has been wiped.
	ErrSecretWiped = errors.New("secret has been wiped")
)

// Secret stores sensitive bytes in memory until Wipe is called.
type Secret struct {
	data []byte
}

// New creates a Secret from the given bytes.
//
// The provided slice is copied to prevent external modification.
// Returns an error if the input is empty.
func New(data []byte) (*Secret, error) {
	if len(data) == 0 {
		return nil, ErrEmptySecret
	}
	// Copy to prevent external modification
	d := make([]byte, len(data))
	copy(d, data)
	return &Secret{data: d}, nil
}

// Bytes returns a copy of the secret bytes.
//
// The returned slice is a copy so callers cannot modify the internal
// state; callers should wipe their copy when finished with it.
func (s *Secret) Bytes() ([]byte, error) {
	if s.data == nil {
		return nil, ErrSecretWiped
	}
	result := make([]byte, len(s.data))
	copy(result, s.data)
	return result, nil
}

// Len returns the length of the secret in bytes, or 0 after Wipe.
func (s *Secret) Len() int {
	return len(s.data)
}

// Wipe overwrites the secret with zeros and releases it.
//
// After calling Wipe the secret cannot be retrieved and Bytes returns
// ErrSecretWiped. Wipe is idempotent.
func (s *Secret) Wipe() {
	if s.data != nil {
		for i := range s.data {
			s.data[i] = 0
		}
		// ConstantTimeCopy keeps the compiler from eliding the wipe
		subtle.ConstantTimeCopy(1, s.data, make([]byte, len(s.data)))
		s.data = nil
	}
}

// Equal compares two secrets in constant time.
//
// Returns an error if either secret has been wiped. The intermediate
// copies are zeroed before returning.
func Equal(a, b *Secret) (bool, error) {
	aBytes, err := a.Bytes()
	if err != nil {
		return false, err
	}
	defer func() {
		for i := range aBytes {
			aBytes[i] = 0
		}
	}()

	bBytes, err := b.Bytes()
	if err != nil {
		return false, err
	}
	defer func() {
		for i := range bBytes {
			bBytes[i] = 0
		}
	}()

	return subtle.ConstantTimeCompare(aBytes, bBytes) == 1, nil
}
