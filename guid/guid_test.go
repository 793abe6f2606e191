// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package guid

import (
	"encoding/base64"
	"math/big"
	"testing"

	"github.com/eciesio/ecies-core/internal/core"
)

func TestFiveWayRoundTrip(t *testing.T) {
	for i := 0; i < 200; i++ {
		g, err := NewV4()
		if err != nil {
			t.Fatalf("NewV4: %v", err)
		}

		if got, err := FromBytes(g.Bytes()); err != nil || !got.Equal(g) {
			t.Fatalf("FromBytes round trip failed for %s: got %s, err %v", g, got, err)
		}
		if got, err := Parse(g.FullHex()); err != nil || !got.Equal(g) {
			t.Fatalf("Parse(FullHex) round trip failed for %s: got %s, err %v", g, got, err)
		}
		if got, err := Parse(g.ShortHex()); err != nil || !got.Equal(g) {
			t.Fatalf("Parse(ShortHex) round trip failed for %s: got %s, err %v", g, got, err)
		}
		if got, err := Parse(g.Base64()); err != nil || !got.Equal(g) {
			t.Fatalf("Parse(Base64) round trip failed for %s: got %s, err %v", g, got, err)
		}
		if got, err := ParseBigInt(g.BigInt()); err != nil || !got.Equal(g) {
			t.Fatalf("ParseBigInt round trip failed for %s: got %s, err %v", g, got, err)
		}
	}
}

func TestVersionFactories(t *testing.T) {
	v4a, err := NewV4()
	if err != nil {
		t.Fatalf("NewV4: %v", err)
	}
	if v4a.Version() != Version4 {
		t.Errorf("NewV4 version = %d, want %d", v4a.Version(), Version4)
	}

	v1, err := NewV1()
	if err != nil {
		t.Fatalf("NewV1: %v", err)
	}
	if v1.Version() != Version1 {
		t.Errorf("NewV1 version = %d, want %d", v1.Version(), Version1)
	}

	v6, err := NewV6()
	if err != nil {
		t.Fatalf("NewV6: %v", err)
	}
	if v6.Version() != Version6 {
		t.Errorf("NewV6 version = %d, want %d", v6.Version(), Version6)
	}

	v7, err := NewV7()
	if err != nil {
		t.Fatalf("NewV7: %v", err)
	}
	if v7.Version() != Version7 {
		t.Errorf("NewV7 version = %d, want %d", v7.Version(), Version7)
	}

	v3 := NewV3(NamespaceDNS, []byte("example.com"))
	if v3.Version() != Version3 {
		t.Errorf("NewV3 version = %d, want %d", v3.Version(), Version3)
	}
	v3Again := NewV3(NamespaceDNS, []byte("example.com"))
	if !v3.Equal(v3Again) {
		t.Error("NewV3 is not deterministic for the same namespace and name")
	}

	v5 := NewV5(NamespaceURL, []byte("https://example.com"))
	if v5.Version() != Version5 {
		t.Errorf("NewV5 version = %d, want %d", v5.Version(), Version5)
	}
	v5Again := NewV5(NamespaceURL, []byte("https://example.com"))
	if !v5.Equal(v5Again) {
		t.Error("NewV5 is not deterministic for the same namespace and name")
	}

	if v3.Equal(v5) {
		t.Error("v3 and v5 of unrelated inputs collided")
	}
}

func TestBoundaryValues(t *testing.T) {
	empty := Empty()
	if empty.Version() != VersionNone {
		t.Errorf("Empty().Version() = %d, want VersionNone", empty.Version())
	}
	if empty.BigInt().Sign() != 0 {
		t.Error("Empty().BigInt() is not zero")
	}

	max := Max()
	want := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	if max.BigInt().Cmp(want) != 0 {
		t.Errorf("Max().BigInt() = %s, want %s", max.BigInt(), want)
	}

	if empty.Compare(max) >= 0 {
		t.Error("Empty() did not compare as less than Max()")
	}
}

func TestCompareAndEqual(t *testing.T) {
	a, _ := FromBytes(make([]byte, Size))
	b := Max()
	if a.Compare(b) != -1 {
		t.Errorf("Compare(zero, max) = %d, want -1", a.Compare(b))
	}
	if b.Compare(a) != 1 {
		t.Errorf("Compare(max, zero) = %d, want 1", b.Compare(a))
	}
	if a.Compare(a) != 0 {
		t.Errorf("Compare(a, a) = %d, want 0", a.Compare(a))
	}
	if !a.Equal(a) {
		t.Error("Equal(a, a) = false")
	}
	if a.Equal(b) {
		t.Error("Equal(zero, max) = true")
	}
}

func TestHashCodeStableAndDiscriminating(t *testing.T) {
	g, err := NewV4()
	if err != nil {
		t.Fatalf("NewV4: %v", err)
	}
	if g.HashCode() != g.HashCode() {
		t.Error("HashCode is not stable across calls")
	}
	other, err := NewV4()
	if err != nil {
		t.Fatalf("NewV4: %v", err)
	}
	if g.HashCode() == other.HashCode() && !g.Equal(other) {
		t.Log("HashCode collision between two distinct random GUIDs (possible but rare)")
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Error("Parse accepted an empty string")
	}
	if _, err := Parse("not-a-guid-at-all"); err == nil {
		t.Error("Parse accepted garbage input")
	}
	if _, err := Parse("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"); err == nil {
		t.Error("Parse accepted a 32-char string with non-hex characters")
	}
}

func TestParseBigIntRejectsOutOfRange(t *testing.T) {
	if _, err := ParseBigInt(big.NewInt(-1)); err == nil {
		t.Error("ParseBigInt accepted a negative value")
	}
	tooBig := new(big.Int).Lsh(big.NewInt(1), 128)
	if _, err := ParseBigInt(tooBig); err == nil {
		t.Error("ParseBigInt accepted a value >= 2^128")
	}
	if _, err := ParseBigInt(nil); err == nil {
		t.Error("ParseBigInt accepted a nil value")
	}
}

func TestParseRejectsInvalidRFC4122Version(t *testing.T) {
	// Version nibble 0x2 (byte 6 high nibble) is not in the valid set
	// {1,3,4,5,6,7} and the value is not a boundary (all-zero/all-0xFF).
	short := "00112233445520006677889900112233"[:32]
	_, err := Parse(short)
	if err == nil {
		t.Fatal("Parse accepted a 32-char hex string with an invalid RFC-4122 version")
	}
	cerr, ok := err.(*core.Error)
	if !ok {
		t.Fatalf("Parse error is %T, want *core.Error", err)
	}
	if cerr.Kind != core.KindInvalidGuidBrand {
		t.Errorf("Parse error kind = %s, want %s", cerr.Kind, core.KindInvalidGuidBrand)
	}

	dashed := "00112233-4455-2000-6677-889900112233"
	if _, err := Parse(dashed); err == nil {
		t.Error("Parse(FullHex) accepted an invalid RFC-4122 version")
	}

	var raw [Size]byte
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	raw[6] = 0x20 // version nibble 2, not in {1,3,4,5,6,7}
	b64 := base64.StdEncoding.EncodeToString(raw[:])
	if _, err := Parse(b64); err == nil {
		t.Error("Parse(Base64) accepted a GUID with an invalid RFC-4122 version, expected rejection")
	}
}

func TestParseAcceptsBoundaryValuesDespiteVersionNone(t *testing.T) {
	if _, err := Parse(Empty().ShortHex()); err != nil {
		t.Errorf("Parse rejected the Empty() boundary value: %v", err)
	}
	if _, err := Parse(Max().ShortHex()); err != nil {
		t.Errorf("Parse rejected the Max() boundary value: %v", err)
	}
}

func TestURLBase64HasNoPadding(t *testing.T) {
	g, err := NewV4()
	if err != nil {
		t.Fatalf("NewV4: %v", err)
	}
	s := g.URLBase64()
	for _, c := range s {
		if c == '=' {
			t.Fatalf("URLBase64 %q contains padding", s)
		}
		if c == '+' || c == '/' {
			t.Fatalf("URLBase64 %q contains standard-alphabet characters", s)
		}
	}
}
