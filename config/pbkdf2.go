// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"crypto/rand"
	"crypto/sha256"

	"github.com/eciesio/ecies-core/internal/core"
	"golang.org/x/crypto/pbkdf2"
)

// NewSalt draws profile.SaltBytes of random salt for use with
// DeriveKey.
func NewSalt(profile Pbkdf2Profile) ([]byte, error) {
	salt := make([]byte, profile.SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, core.WrapErrorf(core.KindInvalidKeySize, err, "failed to draw PBKDF2 salt")
	}
	return salt, nil
}

// DeriveKey stretches passphrase under profile's iteration count into
// profile.HashBytes of key material (spec §4.7 PBKDF2 profile).
func DeriveKey(profile Pbkdf2Profile, passphrase, salt []byte) []byte {
	return pbkdf2.Key(passphrase, salt, profile.Iterations, profile.HashBytes, sha256.New)
}
