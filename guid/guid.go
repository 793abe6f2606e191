// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package guid implements the GUID value type of spec §4.5: 16 raw
// bytes plus a cached RFC-4122 version/variant tag, parsed from five
// input shapes and rendered through five string/number representations.
// The version/variant bit extraction is grounded on
// other_examples/32d220d2_agext-uuid's UUID.Version/Variant methods;
// the five-way constructor discrimination follows google/uuid's
// parse-by-shape precedent, generalised to also accept raw bytes and a
// big-integer form.
package guid

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/eciesio/ecies-core/internal/core"
	guuid "github.com/google/uuid"
)

// Size is the fixed byte length of every GUID.
const Size = 16

// GUID is 16 raw bytes plus a cached version/variant tag (spec §3).
type GUID struct {
	raw     [Size]byte
	version int // 0 means "none" (boundary values, or an unversioned raw construction)
	variant int
}

// Version constants, spec §4.5.
const (
	VersionNone = 0
	Version1    = 1
	Version3    = 3
	Version4    = 4
	Version5    = 5
	Version6    = 6
	Version7    = 7
)

// Empty returns the all-zero boundary GUID, version = none (spec §3).
func Empty() GUID {
	return GUID{}
}

// Max returns the all-0xFF boundary GUID, version = none (spec §3).
func Max() GUID {
	g := GUID{}
	for i := range g.raw {
		g.raw[i] = 0xFF
	}
	return g
}

// FromBytes builds a GUID from exactly 16 raw bytes, the "raw" shape of
// spec §4.5's five-way constructor.
func FromBytes(b []byte) (GUID, error) {
	if len(b) != Size {
		return GUID{}, core.NewErrorf(core.KindInvalidGuidLength, "raw GUID input must be %d bytes, got %d", Size, len(b))
	}
	var g GUID
	copy(g.raw[:], b)
	g.version, g.variant = extractTag(g.raw)
	return g, nil
}

// Parse implements the five-way string/number constructor of spec
// §4.5, discriminating the input shape by length: 36-char dashed hex,
// 32-char short hex, 24-char standard base-64, or (via ParseBigInt) a
// big-integer form.
func Parse(s string) (GUID, error) {
	if s == "" {
		return GUID{}, core.NewErrorf(core.KindValueIsNull, "GUID input must not be empty")
	}
	switch len(s) {
	case 36:
		return parseFullHex(s)
	case 32:
		return parseShortHex(s)
	case 24:
		return parseBase64(s)
	default:
		return GUID{}, core.NewErrorf(core.KindInvalidGuidLength, "unrecognised GUID string length %d", len(s))
	}
}

// ParseBigInt implements the numeric ("bigint") shape of spec §4.5: the
// value must be in [0, 2^128).
func ParseBigInt(n *big.Int) (GUID, error) {
	if n == nil {
		return GUID{}, core.NewErrorf(core.KindValueIsNull, "GUID bigint input must not be nil")
	}
	if n.Sign() < 0 {
		return GUID{}, core.NewErrorf(core.KindInvalidGuid, "GUID bigint input must be non-negative")
	}
	max := new(big.Int).Lsh(big.NewInt(1), 128)
	if n.Cmp(max) >= 0 {
		return GUID{}, core.NewErrorf(core.KindInvalidGuid, "GUID bigint input must be < 2^128")
	}
	b := n.Bytes()
	if len(b) > Size {
		return GUID{}, core.NewErrorf(core.KindInvalidGuid, "GUID bigint input overflows 16 bytes")
	}
	var raw [Size]byte
	copy(raw[Size-len(b):], b)
	g := GUID{raw: raw}
	g.version, g.variant = extractTag(g.raw)
	return g, nil
}

func parseFullHex(s string) (GUID, error) {
	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return GUID{}, core.NewErrorf(core.KindInvalidCharacters, "malformed dashed GUID %q", s)
	}
	hexPart := s[0:8] + s[9:13] + s[14:18] + s[19:23] + s[24:36]
	return parseShortHex(hexPart)
}

func parseShortHex(s string) (GUID, error) {
	if len(s) != 32 {
		return GUID{}, core.NewErrorf(core.KindInvalidGuidLength, "short-hex GUID must be 32 characters, got %d", len(s))
	}
	b, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return GUID{}, core.WrapErrorf(core.KindInvalidCharacters, err, "short-hex GUID contains non-hex characters")
	}
	g, err := FromBytes(b)
	if err != nil {
		return GUID{}, err
	}
	if !isValidRFC4122OrBoundary(g.raw) {
		return GUID{}, core.NewErrorf(core.KindInvalidGuidBrand, "GUID %q is not a boundary value and carries an invalid RFC-4122 version", s)
	}
	return g, nil
}

func parseBase64(s string) (GUID, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return GUID{}, core.WrapErrorf(core.KindParseFailed, err, "GUID base-64 input is not valid base-64")
	}
	g, err := FromBytes(b)
	if err != nil {
		return GUID{}, err
	}
	if !isValidRFC4122OrBoundary(g.raw) {
		return GUID{}, core.NewErrorf(core.KindInvalidGuidBrand, "GUID %q is not a boundary value and carries an invalid RFC-4122 version", s)
	}
	return g, nil
}

// isValidRFC4122OrBoundary reports whether raw is either a boundary value
// (Empty or Max, spec §3) or carries a version nibble in the valid
// RFC-4122 set {1,3,4,5,6,7}, per spec §4.5 validation step (c).
func isValidRFC4122OrBoundary(raw [Size]byte) bool {
	if raw == ([Size]byte{}) {
		return true
	}
	allFF := true
	for _, b := range raw {
		if b != 0xFF {
			allFF = false
			break
		}
	}
	if allFF {
		return true
	}
	version, _ := extractTag(raw)
	switch version {
	case Version1, Version3, Version4, Version5, Version6, Version7:
		return true
	default:
		return false
	}
}

// extractTag extracts the RFC-4122 version (high nibble of byte 6) and
// variant (high bits of byte 8), per other_examples/32d220d2_agext-uuid
// UUID.Version/Variant. The all-0xFF boundary value is tagged like
// Max(): VersionNone and variant 0.
func extractTag(raw [Size]byte) (version, variant int) {
	if raw == Max().raw {
		return VersionNone, 0
	}
	version = int(raw[6]>>4) & 0x0f
	switch {
	case raw[8]&0x80 == 0x00:
		variant = 0
	case raw[8]&0xc0 == 0x80:
		variant = 1
	default:
		variant = 2
	}
	return version, variant
}

// Version returns the cached RFC-4122 version, or VersionNone.
func (g GUID) Version() int { return g.version }

// Variant returns the cached RFC-4122 variant.
func (g GUID) Variant() int { return g.variant }

// Bytes returns the 16 raw bytes.
func (g GUID) Bytes() []byte {
	return append([]byte(nil), g.raw[:]...)
}

// FullHex renders the dashed 36-character hex form.
func (g GUID) FullHex() string {
	h := hex.EncodeToString(g.raw[:])
	return h[0:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:32]
}

// ShortHex renders the undashed 32-character hex form.
func (g GUID) ShortHex() string {
	return hex.EncodeToString(g.raw[:])
}

// Base64 renders standard base-64 with padding.
func (g GUID) Base64() string {
	return base64.StdEncoding.EncodeToString(g.raw[:])
}

// URLBase64 renders URL-safe base-64 without padding (spec §4.5:
// `+`→`-`, `/`→`_`, strip `=`).
func (g GUID) URLBase64() string {
	return base64.RawURLEncoding.EncodeToString(g.raw[:])
}

// BigInt renders the GUID as an unsigned big-integer.
func (g GUID) BigInt() *big.Int {
	return new(big.Int).SetBytes(g.raw[:])
}

// String renders the debug form "Guid(<full-hex>, v<version>,
// variant=<variant>)" (spec §4.5).
func (g GUID) String() string {
	return fmt.Sprintf("Guid(%s, v%d, variant=%d)", g.FullHex(), g.version, g.variant)
}

// Compare is byte-wise lexicographic on the 16-byte raw form (spec
// §4.5 "Ordering").
func (g GUID) Compare(other GUID) int {
	for i := 0; i < Size; i++ {
		if g.raw[i] != other.raw[i] {
			if g.raw[i] < other.raw[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Equal reports whether g and other have the same raw bytes.
func (g GUID) Equal(other GUID) bool {
	return g.raw == other.raw
}

// HashCode returns a 32-bit FNV-1a fold over the raw bytes, suitable
// for hashed maps (spec §4.5).
func (g GUID) HashCode() uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for _, b := range g.raw {
		h ^= uint32(b)
		h *= fnvPrime
	}
	return h
}

func setVersionVariant(raw *[Size]byte, version byte) {
	raw[6] = (raw[6] & 0x0f) | (version << 4)
	raw[8] = (raw[8] & 0x3f) | 0x80 // RFC-4122 variant
}

// NewV1 produces a time-based GUID (spec §4.5), generated via
// google/uuid's v1 implementation and re-tagged into this module's type.
func NewV1() (GUID, error) {
	u, err := guuid.NewUUID()
	if err != nil {
		return GUID{}, core.WrapErrorf(core.KindInvalidGuid, err, "failed to generate v1 GUID")
	}
	return FromBytes(u[:])
}

// NewV3 produces a name-based GUID using MD5 over namespace‖name (spec
// §4.5).
func NewV3(namespace GUID, name []byte) GUID {
	h := md5.New()
	h.Write(namespace.raw[:])
	h.Write(name)
	sum := h.Sum(nil)
	var raw [Size]byte
	copy(raw[:], sum[:Size])
	setVersionVariant(&raw, Version3)
	g := GUID{raw: raw}
	g.version, g.variant = extractTag(g.raw)
	return g
}

// NewV4 produces a cryptographically random GUID (spec §4.5).
func NewV4() (GUID, error) {
	var raw [Size]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return GUID{}, core.WrapErrorf(core.KindInvalidGuid, err, "failed to draw random bytes for v4 GUID")
	}
	setVersionVariant(&raw, Version4)
	g := GUID{raw: raw}
	g.version, g.variant = extractTag(g.raw)
	return g, nil
}

// NewV5 produces a name-based GUID using SHA-1 over namespace‖name
// (spec §4.5).
func NewV5(namespace GUID, name []byte) GUID {
	h := sha1.New()
	h.Write(namespace.raw[:])
	h.Write(name)
	sum := h.Sum(nil)
	var raw [Size]byte
	copy(raw[:], sum[:Size])
	setVersionVariant(&raw, Version5)
	g := GUID{raw: raw}
	g.version, g.variant = extractTag(g.raw)
	return g
}

// NewV6 produces a reordered time-based GUID via google/uuid's v6
// implementation.
func NewV6() (GUID, error) {
	u, err := guuid.NewV6()
	if err != nil {
		return GUID{}, core.WrapErrorf(core.KindInvalidGuid, err, "failed to generate v6 GUID")
	}
	return FromBytes(u[:])
}

// NewV7 produces a Unix-epoch-ordered time-based GUID via google/uuid's
// v7 implementation. The clock source is delegated to that library, per
// spec §1's non-goal of owning GUID clock sources.
func NewV7() (GUID, error) {
	u, err := guuid.NewV7()
	if err != nil {
		return GUID{}, core.WrapErrorf(core.KindInvalidGuid, err, "failed to generate v7 GUID")
	}
	return FromBytes(u[:])
}

var (
	// NamespaceDNS, NamespaceURL, NamespaceOID and NamespaceX500 are the
	// standard RFC-4122 namespaces for NewV3/NewV5.
	NamespaceDNS  = mustFromBytes(guuid.NameSpaceDNS[:])
	NamespaceURL  = mustFromBytes(guuid.NameSpaceURL[:])
	NamespaceOID  = mustFromBytes(guuid.NameSpaceOID[:])
	NamespaceX500 = mustFromBytes(guuid.NameSpaceX500[:])
)

func mustFromBytes(b []byte) GUID {
	g, err := FromBytes(b)
	if err != nil {
		panic(err)
	}
	return g
}
