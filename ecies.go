// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ecies implements ECIES encryption on secp256k1, with a
// multi-recipient envelope wrapper, a pluggable identifier-provider
// abstraction, an RFC-4122 GUID value type, and streaming transforms.
//
// This is a narrow facade over the internal core packages, in the same
// spirit as the teacher library's root package over internal/age: the
// exported surface re-types and re-exports the internal orchestration
// rather than re-implementing it.
package ecies

import (
	"github.com/eciesio/ecies-core/internal/core"
	"github.com/eciesio/ecies-core/internal/stream"
)

// Error is the sum-typed error surfaced instead of panics (spec §7).
type Error = core.Error

// Kind identifies the category of an Error.
type Kind = core.Kind

// Error kinds, re-exported from the internal core (spec §7).
const (
	KindInvalidKeySize            = core.KindInvalidKeySize
	KindInvalidPublicKey          = core.KindInvalidPublicKey
	KindDecryptionFailed          = core.KindDecryptionFailed
	KindRecipientNotFound         = core.KindRecipientNotFound
	KindTooManyRecipients         = core.KindTooManyRecipients
	KindInvalidEnvelopeVersion    = core.KindInvalidEnvelopeVersion
	KindInvalidGuid               = core.KindInvalidGuid
	KindInvalidGuidLength         = core.KindInvalidGuidLength
	KindInvalidGuidBrand          = core.KindInvalidGuidBrand
	KindInputMustBeString         = core.KindInputMustBeString
	KindInvalidStringLength       = core.KindInvalidStringLength
	KindInvalidCharacters         = core.KindInvalidCharacters
	KindParseFailed               = core.KindParseFailed
	KindInvalidByteLengthParameter = core.KindInvalidByteLengthParameter
	KindInvalidDeserializedId     = core.KindInvalidDeserializedId
	KindValueIsNull               = core.KindValueIsNull
	KindDecryptedLengthMismatch   = core.KindDecryptedLengthMismatch
	KindDecryptedChecksumMismatch = core.KindDecryptedChecksumMismatch
	KindInvariantViolation        = core.KindInvariantViolation
)

// Translator maps a (componentID, key, vars) triple to a localised
// message (spec §6).
type Translator = core.Translator

// Recipient pairs an identifier-provider id with a recipient's
// secp256k1 public key, the unit of input to MultiEncrypt (spec §4.3).
type Recipient = core.Recipient

// Encrypt performs the single-recipient ECIES codec of spec §4.2,
// emitting the basic envelope `0x04 ‖ e_pk ‖ iv ‖ tag ‖ ct`.
func Encrypt(recipientPublicKey, plaintext []byte) ([]byte, error) {
	return core.Encrypt(recipientPublicKey, plaintext)
}

// Decrypt is the inverse of Encrypt, given the recipient's raw 32-byte
// private scalar.
func Decrypt(recipientPrivateKey, envelope []byte) ([]byte, error) {
	return core.Decrypt(recipientPrivateKey, envelope)
}

// EncryptLengthPrefixed is Encrypt with a 4-byte big-endian length
// prefix, for framing consecutive envelopes in a byte stream.
func EncryptLengthPrefixed(recipientPublicKey, plaintext []byte) ([]byte, error) {
	return core.EncryptLengthPrefixed(recipientPublicKey, plaintext)
}

// DecryptLengthPrefixed parses one length-prefixed envelope from data
// and returns the plaintext and the number of bytes consumed.
func DecryptLengthPrefixed(recipientPrivateKey, data []byte) (plaintext []byte, consumed int, err error) {
	return core.DecryptLengthPrefixed(recipientPrivateKey, data)
}

// EncryptedLength returns the basic envelope length for a plaintext of
// length l (spec §4.2 "Length computation").
func EncryptedLength(l int) int { return core.EncryptedLength(l) }

// EncryptedLengthPrefixed returns the length-prefixed envelope length.
func EncryptedLengthPrefixed(l int) int { return core.EncryptedLengthPrefixed(l) }

// MultiEncrypt implements the multi-recipient processor of spec §4.3.
// idSize is the configuration-wide identifier byte length B;
// maxRecipients enforces the configured ceiling before any crypto runs.
func MultiEncrypt(recipients []*Recipient, plaintext []byte, idSize, maxRecipients int) ([]byte, error) {
	return core.MultiEncrypt(recipients, plaintext, idSize, maxRecipients)
}

// MultiDecrypt implements the recipient lookup and decrypt side of
// spec §4.3 for the caller identified by (id, privateKey).
func MultiDecrypt(id, privateKey, envelope []byte, idSize, maxRecipients int) ([]byte, error) {
	return core.MultiDecrypt(id, privateKey, envelope, idSize, maxRecipients)
}

// ErrAborted is returned by a streaming transform's Transform/Flush
// once its CancelToken has fired.
var ErrAborted = stream.ErrAborted

// CancelToken is the cooperative cancellation handle for streaming
// transforms (spec §5).
type CancelToken = stream.CancelToken

// EncryptTransform is the streaming encrypt transform of spec §4.6.
type EncryptTransform = stream.EncryptTransform

// DecryptTransform is the streaming decrypt transform of spec §4.6.
type DecryptTransform = stream.DecryptTransform

// ChecksumTransform is the rolling SHA3-512 checksum transform of spec
// §4.6.
type ChecksumTransform = stream.ChecksumTransform

// XorFoldTransform is the running XOR fold transform of spec §4.6.
type XorFoldTransform = stream.XorFoldTransform

// NewEncryptTransform builds a streaming encrypt transform targeting a
// single recipient public key with the given block size.
func NewEncryptTransform(recipientPublicKey []byte, blockSize int, cancel *CancelToken) (*EncryptTransform, error) {
	return stream.NewEncryptTransform(recipientPublicKey, blockSize, cancel)
}

// NewDecryptTransform builds the inverse of NewEncryptTransform.
func NewDecryptTransform(recipientPrivateKey []byte, blockSize int, cancel *CancelToken) *DecryptTransform {
	return stream.NewDecryptTransform(recipientPrivateKey, blockSize, cancel)
}

// NewChecksumTransform builds a rolling SHA3-512 checksum transform.
// observer is invoked with the 64-byte digest on flush.
func NewChecksumTransform(observer func(digest []byte), cancel *CancelToken) *ChecksumTransform {
	return stream.NewChecksumTransform(observer, cancel)
}

// NewXorFoldTransform builds a running XOR fold transform.
func NewXorFoldTransform(cancel *CancelToken) *XorFoldTransform {
	return stream.NewXorFoldTransform(cancel)
}
