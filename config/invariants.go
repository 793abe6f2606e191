// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/eciesio/ecies-core/internal/core"
)

// Invariant is a named, independently-testable configuration check
// (spec §4.7 "Three invariants").
type Invariant struct {
	Name  string
	Check func(c *Config) error
}

var derivationPathRe = regexp.MustCompile(`^m/\d+'/\d+'(/\d+'?)*$`)

// recipientIDConsistency is invariant 1: MEMBER_ID_LENGTH =
// ECIES.multiple.recipient_id_size = idProvider.byteLength.
func recipientIDConsistency(c *Config) error {
	b := c.IDProvider.ByteLength()
	if c.MemberIDLength != b || c.ECIES.MultipleRecipientIDSize != b {
		return fmt.Errorf("RecipientIdConsistency: MEMBER_ID_LENGTH=%d, recipient_id_size=%d, idProvider.byteLength=%d must all match",
			c.MemberIDLength, c.ECIES.MultipleRecipientIDSize, b)
	}
	return nil
}

// pbkdf2ProfilesValidity is invariant 2.
func pbkdf2ProfilesValidity(c *Config) error {
	var bad []string
	for name, p := range c.Pbkdf2Profiles {
		if p.Iterations < 1_000 || p.Iterations > 10_000_000 {
			bad = append(bad, fmt.Sprintf("%s.iterations=%d out of [1000,10000000]", name, p.Iterations))
			continue
		}
		if p.SaltBytes < 16 {
			bad = append(bad, fmt.Sprintf("%s.saltBytes=%d < 16", name, p.SaltBytes))
			continue
		}
		switch p.HashBytes {
		case 16, 24, 32, 48, 64:
		default:
			bad = append(bad, fmt.Sprintf("%s.hashBytes=%d not in {16,24,32,48,64}", name, p.HashBytes))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("Pbkdf2ProfilesValidity: %s", strings.Join(bad, "; "))
	}
	return nil
}

// encryptionAlgorithmConsistency is invariant 3.
func encryptionAlgorithmConsistency(c *Config) error {
	if c.ECIES.Curve != "secp256k1" {
		return fmt.Errorf("EncryptionAlgorithmConsistency: curve %q is not secp256k1", c.ECIES.Curve)
	}
	switch c.ECIES.Symmetric.KeyBits {
	case 128, 256:
	default:
		return fmt.Errorf("EncryptionAlgorithmConsistency: symmetric.key_bits=%d not in {128,256}", c.ECIES.Symmetric.KeyBits)
	}
	if !strings.Contains(strings.ToUpper(c.ECIES.Symmetric.Algorithm), fmt.Sprintf("%d", c.ECIES.Symmetric.KeyBits)) {
		return fmt.Errorf("EncryptionAlgorithmConsistency: symmetric.algorithm %q does not match key_bits=%d",
			c.ECIES.Symmetric.Algorithm, c.ECIES.Symmetric.KeyBits)
	}
	if !derivationPathRe.MatchString(c.ECIES.PrimaryKeyDerivationPath) {
		return fmt.Errorf("EncryptionAlgorithmConsistency: derivation path %q does not match m/<purpose>'/<coin>'/...",
			c.ECIES.PrimaryKeyDerivationPath)
	}
	return nil
}

// builtinInvariants are the three named invariants of spec §4.7,
// always run first.
var builtinInvariants = []Invariant{
	{Name: "RecipientIdConsistency", Check: recipientIDConsistency},
	{Name: "Pbkdf2ProfilesValidity", Check: pbkdf2ProfilesValidity},
	{Name: "EncryptionAlgorithmConsistency", Check: encryptionAlgorithmConsistency},
}

// Validate runs the builtin invariants plus any custom invariants
// registered on the calling registry, aggregating every violation into
// one InvariantViolation error (spec §7's aggregation policy). It
// returns nil when c passes every check.
func Validate(c *Config, custom []Invariant) error {
	var failures []string
	for _, inv := range append(append([]Invariant{}, builtinInvariants...), custom...) {
		if err := inv.Check(c); err != nil {
			failures = append(failures, err.Error())
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return core.NewErrorf(core.KindInvariantViolation, "%s", strings.Join(failures, " | "))
}
