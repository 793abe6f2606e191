// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package idprovider

import (
	"crypto/subtle"

	"github.com/eciesio/ecies-core/internal/core"
	guuid "github.com/google/uuid"
)

// UUIDProvider implements the 16-byte UUID variant of spec §4.4,
// grounded on aries-framework-go's go.mod dependency on
// github.com/google/uuid for generation, serialisation and parsing.
type UUIDProvider struct{}

const uuidProviderSize = 16

func (p *UUIDProvider) Name() string    { return "UUID" }
func (p *UUIDProvider) ByteLength() int { return uuidProviderSize }

// Generate draws a fresh random (v4) UUID.
func (p *UUIDProvider) Generate() ([]byte, error) {
	u, err := guuid.NewRandom()
	if err != nil {
		return nil, core.WrapErrorf(core.KindInvalidGuid, err, "failed to generate UUID")
	}
	return u[:], nil
}

// Validate checks length and RFC-4122 compliance (spec §4.4 table).
func (p *UUIDProvider) Validate(b []byte) bool {
	if len(b) != uuidProviderSize {
		return false
	}
	var u guuid.UUID
	copy(u[:], b)
	return u.Variant() == guuid.RFC4122
}

// Serialise renders b as the 36-char dashed hex form.
func (p *UUIDProvider) Serialise(b []byte) (string, error) {
	if len(b) != uuidProviderSize {
		return "", invalidByteLengthParameter("UUID must be %d bytes, got %d", uuidProviderSize, len(b))
	}
	var u guuid.UUID
	copy(u[:], b)
	return u.String(), nil
}

// Deserialise parses a 36-char dashed hex string back into raw bytes.
func (p *UUIDProvider) Deserialise(s string) ([]byte, error) {
	u, err := guuid.Parse(s)
	if err != nil {
		return nil, core.WrapErrorf(core.KindParseFailed, err, "UUID string %q is malformed", s)
	}
	return u[:], nil
}

// Equals performs a constant-time comparison.
func (p *UUIDProvider) Equals(a, b []byte) bool {
	if len(a) != uuidProviderSize || len(b) != uuidProviderSize {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Clone returns a disjoint copy of b.
func (p *UUIDProvider) Clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
