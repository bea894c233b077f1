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

// Package aead layers key-lifecycle safety on top of the gcm and gcmsiv
// packages.
//
// The mode packages are deliberately stateless: a context binds key, nonce
// and AAD and computes. Everything that spans messages lives here instead:
// a Session owns the key, hands out fresh nonces, refuses nonce reuse and
// enforces the per-key volume limits recommended by NIST SP 800-38D. Use a
// Session wherever one key seals many messages; use the mode packages
// directly for one-shot operations and test vectors.
package aead

import (
	"crypto/rand"
	"fmt"

	"github.com/jeremyhahn/go-aes/pkg/gcm"
	"github.com/jeremyhahn/go-aes/pkg/gcmsiv"
	"github.com/jeremyhahn/go-aes/pkg/types"
)

// Mode names an AEAD construction managed by a Session.
type Mode string

const (
	// ModeGCM is AES-GCM per NIST SP 800-38D. Fastest, but nonce reuse is
	// catastrophic; sessions keep nonce tracking on by default.
	ModeGCM Mode = "aes-gcm"

	// ModeGCMSIV is AES-GCM-SIV per RFC 8452. Two passes over each
	// message buy graceful degradation when a nonce repeats.
	ModeGCMSIV Mode = "aes-gcm-siv"
)

// NonceSize is the nonce length sessions generate: the 96-bit size GCM
// treats as standard and GCM-SIV requires.
const NonceSize = 12

// Session seals and opens many messages under one key, tracking nonce
// uniqueness and cumulative volume. Safe for concurrent use.
type Session struct {
	mode   Mode
	key    []byte
	nonces *NonceTracker
	usage  *BytesTracker
}

// Option adjusts a Session at construction.
type Option func(*sessionConfig)

type sessionConfig struct {
	trackNonces bool
	usageLimit  int64
}

// WithoutNonceTracking disables the reuse check for callers that derive
// nonces from a source that cannot repeat, such as a message counter.
func WithoutNonceTracking() Option {
	return func(c *sessionConfig) { c.trackNonces = false }
}

// WithUsageLimit overrides the default per-key volume limit in bytes.
// A negative limit disables usage accounting entirely.
func WithUsageLimit(limit int64) Option {
	return func(c *sessionConfig) { c.usageLimit = limit }
}

// NewSession creates a session for the given mode and key. Key length
// rules are the mode's: 16, 24 or 32 bytes for GCM, 16 or 32 for GCM-SIV.
func NewSession(mode Mode, key []byte, opts ...Option) (*Session, error) {
	cfg := sessionConfig{trackNonces: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Validate the key eagerly by building a throwaway context, so a bad
	// key surfaces here and not on the first Seal.
	var probe [NonceSize]byte
	var err error
	switch mode {
	case ModeGCM:
		_, err = gcm.New(key, probe[:], nil)
	case ModeGCMSIV:
		_, err = gcmsiv.New(key, probe[:], nil)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}
	if err != nil {
		return nil, err
	}

	s := &Session{
		mode:   mode,
		key:    append([]byte(nil), key...),
		nonces: NewNonceTracker(cfg.trackNonces),
	}
	switch {
	case cfg.usageLimit < 0:
		s.usage = NewBytesTracker(false, 0)
	case cfg.usageLimit == 0 && !cfg.trackNonces:
		// Random nonces without tracking get the tighter birthday bound.
		s.usage = NewBytesTracker(true, RandomNonceLimit)
	default:
		s.usage = NewBytesTracker(true, cfg.usageLimit)
	}
	return s, nil
}

// Mode returns the session's AEAD construction.
func (s *Session) Mode() Mode {
	return s.mode
}

// RandomNonce draws a fresh 12-byte nonce from crypto/rand.
func (s *Session) RandomNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("aead: nonce generation failed: %w", err)
	}
	return nonce, nil
}

// Seal encrypts plaintext under the session key with the given nonce and
// AAD, returning ciphertext with the tag appended. It fails closed on
// nonce reuse and on key overuse, before touching the plaintext.
func (s *Session) Seal(nonce, aad, plaintext []byte) ([]byte, error) {
	if err := s.nonces.CheckAndRecord(nonce); err != nil {
		return nil, err
	}
	if err := s.usage.CheckAndIncrement(int64(len(plaintext))); err != nil {
		return nil, err
	}
	ctx, err := s.context(nonce, aad)
	if err != nil {
		return nil, err
	}
	return ctx.Encrypt(plaintext)
}

// SealWithRandomNonce generates a nonce, seals the plaintext and returns
// both. The nonce must travel with the ciphertext; it is not secret.
func (s *Session) SealWithRandomNonce(aad, plaintext []byte) (nonce, sealed []byte, err error) {
	nonce, err = s.RandomNonce()
	if err != nil {
		return nil, nil, err
	}
	sealed, err = s.Seal(nonce, aad, plaintext)
	if err != nil {
		return nil, nil, err
	}
	return nonce, sealed, nil
}

// Open decrypts and verifies ciphertext||tag sealed under the session key.
// Decryption does not consume nonce or volume budget.
func (s *Session) Open(nonce, aad, data []byte) ([]byte, error) {
	ctx, err := s.context(nonce, aad)
	if err != nil {
		return nil, err
	}
	return ctx.Decrypt(data)
}

// NonceCount returns the number of nonces recorded by this session.
func (s *Session) NonceCount() int {
	return s.nonces.Count()
}

// Usage returns the session's volume tracker for monitoring and rotation
// decisions.
func (s *Session) Usage() *BytesTracker {
	return s.usage
}

// Close wipes the session key. The session must not be used afterwards.
func (s *Session) Close() {
	for i := range s.key {
		s.key[i] = 0
	}
}

func (s *Session) context(nonce, aad []byte) (types.Cipher, error) {
	switch s.mode {
	case ModeGCM:
		return gcm.New(s.key, nonce, aad)
	case ModeGCMSIV:
		return gcmsiv.New(s.key, nonce, aad)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, s.mode)
	}
}
