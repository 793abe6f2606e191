// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package core implements the single- and multi-recipient ECIES
// orchestration: drawing ephemeral keys, deriving shared secrets and
// wrapping or unwrapping the AEAD payload. It mirrors the split the
// teacher library keeps between its low-level primitives and the
// higher-level encrypt/decrypt entry points in internal/age/age.go,
// generalised from X25519/ChaCha20Poly1305 to secp256k1/AES-256-GCM.
package core

import (
	"github.com/eciesio/ecies-core/internal/wire"
)

// EncryptedLength returns the basic envelope length for a plaintext of
// length l (spec §4.2 "Length computation").
func EncryptedLength(l int) int { return wire.EncryptedLength(l) }

// EncryptedLengthPrefixed returns the length-prefixed envelope length.
func EncryptedLengthPrefixed(l int) int { return wire.EncryptedLengthPrefixed(l) }

// Encrypt performs the single-recipient ECIES codec of spec §4.2:
// draw an ephemeral keypair, derive the shared secret against the
// recipient's public key, seal plaintext under the derived key and
// assemble the basic envelope.
func Encrypt(recipientPub, plaintext []byte) ([]byte, error) {
	eph, err := GenerateEphemeral()
	if err != nil {
		return nil, err
	}
	shared, err := eph.DeriveShared(recipientPub)
	if err != nil {
		return nil, err
	}
	key, err := KDF(shared, nil)
	if err != nil {
		return nil, err
	}
	defer Zero(key)
	defer Zero(shared)

	iv, err := RandomIV()
	if err != nil {
		return nil, err
	}
	ct, tag, err := AEADEncrypt(key, iv, plaintext, nil)
	if err != nil {
		return nil, err
	}

	env := &wire.Envelope{
		EphemeralPk: eph.PublicKeyUncompressed(),
		IV:          iv,
		Tag:         tag,
		Ciphertext:  ct,
	}
	return env.Marshal()
}

// Decrypt is the inverse of Encrypt, requiring the recipient's raw
// 32-byte private scalar.
func Decrypt(recipientPriv, envelope []byte) ([]byte, error) {
	env, err := wire.ParseEnvelope(envelope)
	if err != nil {
		return nil, wrapErr(KindDecryptionFailed, err, "failed to parse basic envelope").WithSource(0, envelope)
	}
	shared, err := DeriveSharedFromPrivate(recipientPriv, env.EphemeralPk)
	if err != nil {
		return nil, err
	}
	key, err := KDF(shared, nil)
	if err != nil {
		return nil, err
	}
	defer Zero(key)
	defer Zero(shared)

	pt, err := AEADDecrypt(key, env.IV, env.Ciphertext, env.Tag, nil)
	if err != nil {
		return nil, err
	}
	return pt, nil
}

// EncryptLengthPrefixed is Encrypt followed by a 4-byte big-endian
// length prefix, used by the streaming encrypt transform (spec §4.6)
// so consecutive blocks can be decoded without external framing.
func EncryptLengthPrefixed(recipientPub, plaintext []byte) ([]byte, error) {
	eph, err := GenerateEphemeral()
	if err != nil {
		return nil, err
	}
	shared, err := eph.DeriveShared(recipientPub)
	if err != nil {
		return nil, err
	}
	key, err := KDF(shared, nil)
	if err != nil {
		return nil, err
	}
	defer Zero(key)
	defer Zero(shared)

	iv, err := RandomIV()
	if err != nil {
		return nil, err
	}
	ct, tag, err := AEADEncrypt(key, iv, plaintext, nil)
	if err != nil {
		return nil, err
	}

	env := &wire.Envelope{
		EphemeralPk: eph.PublicKeyUncompressed(),
		IV:          iv,
		Tag:         tag,
		Ciphertext:  ct,
	}
	return wire.MarshalLengthPrefixed(env)
}

// DecryptLengthPrefixed parses one length-prefixed envelope from data
// and returns the plaintext plus the number of bytes consumed.
func DecryptLengthPrefixed(recipientPriv, data []byte) (plaintext []byte, consumed int, err error) {
	env, n, err := wire.ParseLengthPrefixed(data)
	if err != nil {
		return nil, 0, wrapErr(KindDecryptionFailed, err, "failed to parse length-prefixed envelope")
	}
	shared, err := DeriveSharedFromPrivate(recipientPriv, env.EphemeralPk)
	if err != nil {
		return nil, 0, err
	}
	key, err := KDF(shared, nil)
	if err != nil {
		return nil, 0, err
	}
	defer Zero(key)
	defer Zero(shared)

	pt, err := AEADDecrypt(key, env.IV, env.Ciphertext, env.Tag, nil)
	if err != nil {
		return nil, 0, err
	}
	return pt, n, nil
}
