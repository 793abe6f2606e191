// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config implements the nested configuration record, its
// process-wide registry with provenance, and the cross-field invariant
// validator of spec §4.7. The tunable numeric-profile idea is grounded
// on the teacher library's ScryptRecipient.workFactor field
// (internal/age/scrypt.go); here it generalises to a full nested record
// and a named-configuration registry.
package config

import "github.com/eciesio/ecies-core/idprovider"

// Symmetric describes the payload AEAD (spec §4.7 ECIES.symmetric).
type Symmetric struct {
	Algorithm string // e.g. "AES-256-GCM"; must contain the KeyBits value
	KeyBits   int    // 128 or 256
	Mode      string // e.g. "GCM"
}

// ECIESConfig holds the crypto parameters of spec §4.7.
type ECIESConfig struct {
	Curve                     string // fixed to "secp256k1"
	Symmetric                 Symmetric
	PrimaryKeyDerivationPath  string // e.g. "m/44'/0'/0'/0/0"
	MnemonicStrength          int    // BIP-39 entropy bits, e.g. 128/256
	MultipleRecipientIDSize   int    // B, spec §3
	MultipleMaxRecipients     int
}

// Pbkdf2Profile is one named PBKDF2 tuning profile (spec §4.7).
type Pbkdf2Profile struct {
	Iterations int
	SaltBytes  int
	HashBytes  int
}

// Config is the immutable-after-registration nested configuration
// record of spec §3/§4.7.
type Config struct {
	ECIES            ECIESConfig
	MemberIDLength   int
	Pbkdf2SaltBytes  int
	Pbkdf2Profiles   map[string]Pbkdf2Profile
	IDProvider       idprovider.Provider
}

// DefaultPbkdf2Profiles returns a baseline set of named profiles
// satisfying Pbkdf2ProfilesValidity (spec §4.7 invariant 2).
func DefaultPbkdf2Profiles() map[string]Pbkdf2Profile {
	return map[string]Pbkdf2Profile{
		"interactive": {Iterations: 100_000, SaltBytes: 16, HashBytes: 32},
		"sensitive":   {Iterations: 1_000_000, SaltBytes: 32, HashBytes: 64},
	}
}

// Default builds the default configuration entry, keyed by idProvider's
// own declared byte length so RecipientIdConsistency holds by
// construction.
func Default(idProvider idprovider.Provider) *Config {
	b := idProvider.ByteLength()
	return &Config{
		ECIES: ECIESConfig{
			Curve: "secp256k1",
			Symmetric: Symmetric{
				Algorithm: "AES-256-GCM",
				KeyBits:   256,
				Mode:      "GCM",
			},
			PrimaryKeyDerivationPath: "m/44'/60'/0'/0/0",
			MnemonicStrength:         256,
			MultipleRecipientIDSize:  b,
			MultipleMaxRecipients:    65535,
		},
		MemberIDLength:  b,
		Pbkdf2SaltBytes: 16,
		Pbkdf2Profiles:  DefaultPbkdf2Profiles(),
		IDProvider:      idProvider,
	}
}
