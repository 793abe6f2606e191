// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package idprovider

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/eciesio/ecies-core/internal/core"
)

// ObjectIDProvider implements the 12-byte ObjectID variant of spec
// §4.4: a 4-byte big-endian timestamp, 5 random bytes, and a 3-byte
// counter monotonically increasing within the process, mirroring the
// scoped nonce counter the teacher library keeps in
// internal/stream/stream.go (incNonce).
type ObjectIDProvider struct{}

// objectIDCounter is shared by every ObjectIDProvider in the process;
// only its low 24 bits are used.
var objectIDCounter atomic.Uint32

const objectIDSize = 12

func (p *ObjectIDProvider) Name() string    { return "ObjectID" }
func (p *ObjectIDProvider) ByteLength() int { return objectIDSize }

// Generate draws a fresh ObjectID: timestamp || random || counter.
func (p *ObjectIDProvider) Generate() ([]byte, error) {
	b := make([]byte, objectIDSize)
	binary.BigEndian.PutUint32(b[0:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(b[4:9]); err != nil {
		return nil, core.WrapErrorf(core.KindInvalidKeySize, err, "failed to draw random ObjectID bytes")
	}
	c := objectIDCounter.Add(1) & 0x00FFFFFF
	b[9] = byte(c >> 16)
	b[10] = byte(c >> 8)
	b[11] = byte(c)
	return b, nil
}

// Validate checks length and that the id is not all-zero (spec §4.4
// table: "validate also checks: not all-zero").
func (p *ObjectIDProvider) Validate(b []byte) bool {
	if len(b) != objectIDSize {
		return false
	}
	var acc byte
	for _, x := range b {
		acc |= x
	}
	return acc != 0
}

// Serialise renders b as 24 lower-case hex characters.
func (p *ObjectIDProvider) Serialise(b []byte) (string, error) {
	if len(b) != objectIDSize {
		return "", invalidByteLengthParameter("ObjectID must be %d bytes, got %d", objectIDSize, len(b))
	}
	return hex.EncodeToString(b), nil
}

// Deserialise parses a 24-char lower-case hex string back into bytes.
func (p *ObjectIDProvider) Deserialise(s string) ([]byte, error) {
	if len(s) != objectIDSize*2 {
		return nil, core.NewErrorf(core.KindInvalidStringLength, "ObjectID string must be %d characters, got %d", objectIDSize*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, core.WrapErrorf(core.KindInvalidCharacters, err, "ObjectID string is not valid hex")
	}
	return b, nil
}

// Equals performs a constant-time comparison for buffers of the
// declared ByteLength (spec §4.4 cross-variant rule).
func (p *ObjectIDProvider) Equals(a, b []byte) bool {
	if len(a) != objectIDSize || len(b) != objectIDSize {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Clone returns a disjoint copy of b.
func (p *ObjectIDProvider) Clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
