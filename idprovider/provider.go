// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package idprovider defines the identifier-provider contract (spec
// §3/§4.4) and its four concrete variants. The Provider interface is
// grounded on the teacher library's Recipient/Identity pair in
// internal/age/age.go: a Type() string tag plus behavioural methods,
// generalised here from "recipient kind" to "identifier kind".
package idprovider

import "github.com/eciesio/ecies-core/internal/core"

// Provider is the identifier-provider contract of spec §3, covering
// identifiers as raw byte slices only. No variant has methods that
// convert to or from a native identifier type (such as guid.GUID or a
// UUID string); callers work with the bytes and the Serialise /
// Deserialise string forms.
type Provider interface {
	// Name identifies the provider variant, e.g. "ObjectID", "GUIDv4",
	// "UUID", "Opaque".
	Name() string
	// ByteLength is B, the fixed identifier byte length this provider
	// produces and accepts.
	ByteLength() int
	// Generate draws a fresh identifier from a cryptographic RNG.
	Generate() ([]byte, error)
	// Validate reports whether b is a well-formed identifier for this
	// provider: the right length, plus any variant-specific checks.
	Validate(b []byte) bool
	// Serialise renders b in this provider's canonical string form.
	Serialise(b []byte) (string, error)
	// Deserialise parses s back into raw identifier bytes.
	Deserialise(s string) ([]byte, error)
	// Equals reports whether a and b are the same identifier, in
	// constant time for inputs of the provider's declared ByteLength
	// (spec §4.4 cross-variant rule).
	Equals(a, b []byte) bool
	// Clone returns a disjoint copy of b.
	Clone(b []byte) []byte
}

// invalidByteLengthParameter builds a core error of kind
// KindInvalidByteLengthParameter, shared by the Serialise methods of
// every variant.
func invalidByteLengthParameter(format string, args ...interface{}) error {
	return core.NewErrorf(core.KindInvalidByteLengthParameter, format, args...)
}
