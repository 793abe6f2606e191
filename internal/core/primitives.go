// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"github.com/btcsuite/btcd/btcec"
	"golang.org/x/crypto/hkdf"
)

const (
	// IVSize is the AES-256-GCM nonce size used throughout the core (spec §4.1).
	IVSize = 12
	// TagSize is the AES-256-GCM authentication tag size.
	TagSize = 16
	// SymmetricKeySize is the AES-256 key size, also the size of the
	// multi-recipient session key K_s (spec §4.3).
	SymmetricKeySize = 32
	// UncompressedPublicKeySize is the SEC1 uncompressed public key size,
	// including the leading 0x04 type byte.
	UncompressedPublicKeySize = 65
)

// EphemeralKeyPair is an ephemeral secp256k1 keypair drawn once per envelope.
type EphemeralKeyPair struct {
	priv *btcec.PrivateKey
}

// GenerateEphemeral draws a fresh ephemeral keypair from the system RNG.
func GenerateEphemeral() (*EphemeralKeyPair, error) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, wrapErr(KindInvalidKeySize, err, "failed to generate ephemeral keypair")
	}
	return &EphemeralKeyPair{priv: priv}, nil
}

// PublicKeyUncompressed returns the 65-byte uncompressed SEC1 encoding.
func (k *EphemeralKeyPair) PublicKeyUncompressed() []byte {
	return k.priv.PubKey().SerializeUncompressed()
}

// DeriveShared performs the secp256k1 scalar multiplication
// `localPriv * remotePub` (spec §4.1 derive_shared), failing when
// remotePub is not a valid point on the curve.
func (k *EphemeralKeyPair) DeriveShared(remotePub []byte) ([]byte, error) {
	return deriveShared(k.priv, remotePub)
}

// deriveShared is the shared entry point used both from the ephemeral side
// (encrypt) and the recipient side (decrypt), where the roles of local
// private key and remote public key are swapped.
func deriveShared(localPriv *btcec.PrivateKey, remotePub []byte) ([]byte, error) {
	pub, err := btcec.ParsePubKey(remotePub, btcec.S256())
	if err != nil {
		return nil, wrapErr(KindInvalidPublicKey, err, "remote public key is not on the curve")
	}
	x, _ := pub.ScalarMult(pub.X, pub.Y, localPriv.D.Bytes())
	shared := make([]byte, 32)
	xb := x.Bytes()
	copy(shared[32-len(xb):], xb)
	return shared, nil
}

// DeriveSharedFromPrivate mirrors DeriveShared for the recipient side of an
// exchange, given the recipient's raw 32-byte private scalar.
func DeriveSharedFromPrivate(sk, remotePub []byte) ([]byte, error) {
	if len(sk) != 32 {
		return nil, newErr(KindInvalidKeySize, "private key must be 32 bytes, got %d", len(sk))
	}
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), sk)
	return deriveShared(priv, remotePub)
}

// PublicKeyFromPrivate derives the 65-byte uncompressed public key for a
// raw 32-byte secp256k1 private scalar.
func PublicKeyFromPrivate(sk []byte) ([]byte, error) {
	if len(sk) != 32 {
		return nil, newErr(KindInvalidKeySize, "private key must be 32 bytes, got %d", len(sk))
	}
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), sk)
	return priv.PubKey().SerializeUncompressed(), nil
}

// KDF derives a 32-byte AES-256 key from a shared secret via HKDF-SHA-256
// (spec §4.1). info provides optional domain separation (e.g. a
// recipient id in the multi-recipient wrap).
func KDF(shared, info []byte) ([]byte, error) {
	h := hkdf.New(sha256.New, shared, nil, info)
	key := make([]byte, SymmetricKeySize)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, wrapErr(KindDecryptionFailed, err, "HKDF expansion failed")
	}
	return key, nil
}

// AEADEncrypt seals plaintext under key/iv with AES-256-GCM, returning
// ciphertext and the detached 16-byte tag (spec §4.1).
func AEADEncrypt(key, iv, plaintext, aad []byte) (ct, tag []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	sealed := aead.Seal(nil, iv, plaintext, aad)
	ct = sealed[:len(sealed)-TagSize]
	tag = sealed[len(sealed)-TagSize:]
	return ct, tag, nil
}

// AEADDecrypt opens ciphertext||tag under key/iv, returning
// DecryptionFailed on any authentication failure (spec §4.2).
func AEADDecrypt(key, iv, ct, tag, aad []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	sealed := make([]byte, 0, len(ct)+len(tag))
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)
	pt, err := aead.Open(nil, iv, sealed, aad)
	if err != nil {
		return nil, wrapErr(KindDecryptionFailed, err, "AEAD authentication failed")
	}
	return pt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != SymmetricKeySize {
		return nil, newErr(KindInvalidKeySize, "symmetric key must be %d bytes, got %d", SymmetricKeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, wrapErr(KindInvalidKeySize, err, "failed to create AES cipher")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, wrapErr(KindInvalidKeySize, err, "failed to create GCM instance")
	}
	return aead, nil
}

// RandomIV draws a fresh random 12-byte AES-GCM nonce.
func RandomIV() ([]byte, error) {
	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, wrapErr(KindInvalidKeySize, err, "failed to draw random IV")
	}
	return iv, nil
}

// RandomSymmetricKey draws a fresh 32-byte symmetric session key K_s
// (spec §4.3 step 1).
func RandomSymmetricKey() ([]byte, error) {
	k := make([]byte, SymmetricKeySize)
	if _, err := rand.Read(k); err != nil {
		return nil, wrapErr(KindInvalidKeySize, err, "failed to draw random symmetric key")
	}
	return k, nil
}

// DeterministicIV computes the first 12 bytes of SHA-256(headerPrefix ||
// id), used as the per-recipient wrap IV so it can be recomputed on
// decrypt without being stored (spec §4.3 step 3).
func DeterministicIV(headerPrefix, id []byte) []byte {
	h := sha256.Sum256(append(append([]byte(nil), headerPrefix...), id...))
	return h[:IVSize]
}

// Zero overwrites b with zeroes in place, used to scrub key material
// before it is dropped (spec §5 Resource discipline).
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
