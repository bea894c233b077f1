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

package secret

import (
	"bytes"
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr bool
	}{
		{
			name:    "16 byte key",
			input:   bytes.Repeat([]byte{0xaa}, 16),
			wantErr: false,
		},
		{
			name:    "32 byte key",
			input:   bytes.Repeat([]byte{0x55}, 32),
			wantErr: false,
		},
		{
			name:    "empty input",
			input:   []byte{},
			wantErr: true,
		},
		{
			name:    "nil input",
			input:   nil,
			wantErr: true,
		},
		{
			name:    "binary data with null bytes",
			input:   []byte{0x00, 0x01, 0x02, 0xFF},
			wantErr: false,
		},
		{
			name:    "single byte",
			input:   []byte{0x7f},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, ErrEmptySecret) {
					t.Errorf("New() error = %v, want ErrEmptySecret", err)
				}
				return
			}
			if s == nil {
				t.Fatal("New() returned nil secret without error")
			}
			if s.Len() != len(tt.input) {
				t.Errorf("Len() = %d, want %d", s.Len(), len(tt.input))
			}
			got, err := s.Bytes()
			if err != nil {
				t.Fatalf("Bytes() error = %v", err)
			}
			if !bytes.Equal(got, tt.input) {
				t.Errorf("Bytes() = %x, want %x", got, tt.input)
			}
		})
	}
}

func TestSecret_Isolation(t *testing.T) {
	t.Run("external modification does not affect secret", func(t *testing.T) {
		original := []byte("sixteen byte key")
		s, err := New(original)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		// Modify the original slice
		original[0] = 'X'

		got, err := s.Bytes()
		if err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}
		if got[0] == 'X' {
			t.Error("Secret was modified through the input slice")
		}
	})

	t.Run("returned bytes are independent copies", func(t *testing.T) {
		s, err := New([]byte("sixteen byte key"))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		copy1, err := s.Bytes()
		if err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}
		copy2, err := s.Bytes()
		if err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}

		copy1[0] = 'X'

		if copy2[0] == 'X' {
			t.Error("Modifying one returned slice affected another")
		}

		copy3, err := s.Bytes()
		if err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}
		if copy3[0] == 'X' {
			t.Error("Secret was modified through a returned slice")
		}
	})
}

func TestSecret_Wipe(t *testing.T) {
	t.Run("wipe releases the secret", func(t *testing.T) {
		s, err := New([]byte("sensitive key material"))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		s.Wipe()

		if s.Len() != 0 {
			t.Errorf("Len() after Wipe = %d, want 0", s.Len())
		}

		got, err := s.Bytes()
		if !errors.Is(err, ErrSecretWiped) {
			t.Errorf("Bytes() after Wipe error = %v, want ErrSecretWiped", err)
		}
		if got != nil {
			t.Errorf("Bytes() after Wipe = %v, want nil", got)
		}
	})

	t.Run("wipe is idempotent", func(t *testing.T) {
		s, err := New([]byte("test key"))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		s.Wipe()
		s.Wipe()
		s.Wipe()

		if _, err := s.Bytes(); !errors.Is(err, ErrSecretWiped) {
			t.Errorf("Bytes() after repeated Wipe error = %v, want ErrSecretWiped", err)
		}
	})

	t.Run("wipe zeroes previously returned backing array", func(t *testing.T) {
		// Bytes returns copies, so wiping the secret must not disturb them
		s, err := New([]byte{1, 2, 3, 4})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		before, err := s.Bytes()
		if err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}

		s.Wipe()

		if !bytes.Equal(before, []byte{1, 2, 3, 4}) {
			t.Error("Wipe() disturbed a copy handed out before the wipe")
		}
	})
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a    []byte
		b    []byte
		want bool
	}{
		{
			name: "equal secrets",
			a:    []byte("same key material"),
			b:    []byte("same key material"),
			want: true,
		},
		{
			name: "different secrets",
			a:    []byte("key material one"),
			b:    []byte("key material two"),
			want: false,
		},
		{
			name: "different lengths",
			a:    []byte("short"),
			b:    []byte("much longer key material"),
			want: false,
		},
		{
			name: "binary data equal",
			a:    []byte{0x00, 0xff, 0x80, 0x01},
			b:    []byte{0x00, 0xff, 0x80, 0x01},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.a)
			if err != nil {
				t.Fatalf("New(a) error = %v", err)
			}
			b, err := New(tt.b)
			if err != nil {
				t.Fatalf("New(b) error = %v", err)
			}

			got, err := Equal(a, b)
			if err != nil {
				t.Fatalf("Equal() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("equal returns error for wiped secret", func(t *testing.T) {
		a, _ := New([]byte("key one"))
		b, _ := New([]byte("key two"))

		a.Wipe()

		if _, err := Equal(a, b); !errors.Is(err, ErrSecretWiped) {
			t.Errorf("Equal() with wiped first secret error = %v, want ErrSecretWiped", err)
		}

		a, _ = New([]byte("key one"))
		b.Wipe()

		if _, err := Equal(a, b); !errors.Is(err, ErrSecretWiped) {
			t.Errorf("Equal() with wiped second secret error = %v, want ErrSecretWiped", err)
		}
	})
}

func BenchmarkNew(b *testing.B) {
	key := bytes.Repeat([]byte{0xaa}, 32)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = New(key)
	}
}

func BenchmarkSecret_Bytes(b *testing.B) {
	s, _ := New(bytes.Repeat([]byte{0xaa}, 32))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Bytes()
	}
}

func BenchmarkEqual(b *testing.B) {
	s1, _ := New(bytes.Repeat([]byte{0xaa}, 32))
	s2, _ := New(bytes.Repeat([]byte{0xaa}, 32))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Equal(s1, s2)
	}
}
