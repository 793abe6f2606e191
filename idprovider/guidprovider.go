// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package idprovider

import (
	"crypto/subtle"
	"encoding/base64"

	"github.com/eciesio/ecies-core/guid"
	"github.com/eciesio/ecies-core/internal/core"
)

// GUIDProvider implements the 16-byte RFC-4122 GUID v4 variant of spec
// §4.4, a thin adapter over guid.GUID.
type GUIDProvider struct{}

const guidProviderSize = guid.Size

func (p *GUIDProvider) Name() string    { return "GUIDv4" }
func (p *GUIDProvider) ByteLength() int { return guidProviderSize }

// Generate draws a fresh v4 GUID.
func (p *GUIDProvider) Generate() ([]byte, error) {
	g, err := guid.NewV4()
	if err != nil {
		return nil, err
	}
	return g.Bytes(), nil
}

// Validate checks length and that the RFC-4122 v4 bits are set (spec
// §4.4 table).
func (p *GUIDProvider) Validate(b []byte) bool {
	if len(b) != guidProviderSize {
		return false
	}
	g, err := guid.FromBytes(b)
	if err != nil {
		return false
	}
	return g.Version() == guid.Version4
}

// Serialise renders b as the 24-char standard base-64 form (spec §4.4
// table).
func (p *GUIDProvider) Serialise(b []byte) (string, error) {
	if len(b) != guidProviderSize {
		return "", invalidByteLengthParameter("GUID must be %d bytes, got %d", guidProviderSize, len(b))
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Deserialise parses a 24-char base-64 string back into raw bytes.
func (p *GUIDProvider) Deserialise(s string) ([]byte, error) {
	if len(s) != 24 {
		return nil, core.NewErrorf(core.KindInvalidStringLength, "GUID base-64 string must be 24 characters, got %d", len(s))
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, core.WrapErrorf(core.KindParseFailed, err, "GUID base-64 string is malformed")
	}
	return b, nil
}

// Equals performs a constant-time comparison.
func (p *GUIDProvider) Equals(a, b []byte) bool {
	if len(a) != guidProviderSize || len(b) != guidProviderSize {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Clone returns a disjoint copy of b.
func (p *GUIDProvider) Clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
