// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package idprovider

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"

	"github.com/eciesio/ecies-core/internal/core"
)

// OpaqueProvider implements the N-byte Opaque variant of spec §4.4: a
// plain hex-encoded byte buffer whose validation checks length only.
type OpaqueProvider struct {
	N int
}

func (p *OpaqueProvider) Name() string    { return "Opaque" }
func (p *OpaqueProvider) ByteLength() int { return p.N }

// Generate draws N cryptographically random bytes.
func (p *OpaqueProvider) Generate() ([]byte, error) {
	b := make([]byte, p.N)
	if _, err := rand.Read(b); err != nil {
		return nil, core.WrapErrorf(core.KindInvalidKeySize, err, "failed to draw %d random opaque bytes", p.N)
	}
	return b, nil
}

// Validate checks length only (spec §4.4 table).
func (p *OpaqueProvider) Validate(b []byte) bool {
	return len(b) == p.N
}

// Serialise renders b as 2*N lower-case hex characters.
func (p *OpaqueProvider) Serialise(b []byte) (string, error) {
	if len(b) != p.N {
		return "", invalidByteLengthParameter("opaque id must be %d bytes, got %d", p.N, len(b))
	}
	return hex.EncodeToString(b), nil
}

// Deserialise parses a 2*N-char lower-case hex string back into bytes.
func (p *OpaqueProvider) Deserialise(s string) ([]byte, error) {
	if len(s) != p.N*2 {
		return nil, core.NewErrorf(core.KindInvalidStringLength, "opaque id string must be %d characters, got %d", p.N*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, core.WrapErrorf(core.KindInvalidCharacters, err, "opaque id string is not valid hex")
	}
	return b, nil
}

// Equals performs a constant-time comparison for inputs of length N.
func (p *OpaqueProvider) Equals(a, b []byte) bool {
	if len(a) != p.N || len(b) != p.N {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Clone returns a disjoint copy of b.
func (p *OpaqueProvider) Clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
