// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"bytes"
	"testing"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	profile := DefaultPbkdf2Profiles()["interactive"]
	salt := bytes.Repeat([]byte{0x07}, profile.SaltBytes)
	passphrase := []byte("correct horse battery staple")

	k1 := DeriveKey(profile, passphrase, salt)
	k2 := DeriveKey(profile, passphrase, salt)
	if !bytes.Equal(k1, k2) {
		t.Error("DeriveKey is not deterministic for identical inputs")
	}
	if len(k1) != profile.HashBytes {
		t.Errorf("DeriveKey produced %d bytes, want %d", len(k1), profile.HashBytes)
	}
}

func TestDeriveKeyDiffersBySalt(t *testing.T) {
	profile := DefaultPbkdf2Profiles()["interactive"]
	passphrase := []byte("correct horse battery staple")
	saltA := bytes.Repeat([]byte{0x01}, profile.SaltBytes)
	saltB := bytes.Repeat([]byte{0x02}, profile.SaltBytes)

	kA := DeriveKey(profile, passphrase, saltA)
	kB := DeriveKey(profile, passphrase, saltB)
	if bytes.Equal(kA, kB) {
		t.Error("DeriveKey produced the same key for two different salts")
	}
}

func TestNewSaltProducesDistinctValues(t *testing.T) {
	profile := DefaultPbkdf2Profiles()["sensitive"]
	a, err := NewSalt(profile)
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	b, err := NewSalt(profile)
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	if len(a) != profile.SaltBytes {
		t.Errorf("NewSalt produced %d bytes, want %d", len(a), profile.SaltBytes)
	}
	if bytes.Equal(a, b) {
		t.Error("NewSalt produced identical salts across two calls")
	}
}
