// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import "fmt"

// Kind identifies the category of a Error, matching the error surface of
// the core (spec §7).
type Kind string

const (
	KindInvalidKeySize            Kind = "InvalidKeySize"
	KindInvalidPublicKey          Kind = "InvalidPublicKey"
	KindDecryptionFailed          Kind = "DecryptionFailed"
	KindRecipientNotFound         Kind = "RecipientNotFound"
	KindTooManyRecipients         Kind = "TooManyRecipients"
	KindInvalidEnvelopeVersion    Kind = "InvalidEnvelopeVersion"
	KindInvalidGuid               Kind = "InvalidGuid"
	KindInvalidGuidLength         Kind = "InvalidGuidLength"
	KindInvalidGuidBrand          Kind = "InvalidGuidBrand"
	KindInputMustBeString         Kind = "InputMustBeString"
	KindInvalidStringLength       Kind = "InvalidStringLength"
	KindInvalidCharacters         Kind = "InvalidCharacters"
	KindParseFailed               Kind = "ParseFailed"
	KindInvalidByteLengthParameter Kind = "InvalidByteLengthParameter"
	KindInvalidDeserializedId     Kind = "InvalidDeserializedId"
	KindValueIsNull               Kind = "ValueIsNull"
	KindDecryptedLengthMismatch   Kind = "DecryptedValueLengthMismatch"
	KindDecryptedChecksumMismatch Kind = "DecryptedValueChecksumMismatch"
	KindInvariantViolation        Kind = "InvariantViolation"
)

// Translator maps a (componentID, key, vars) triple to a localised
// message. When nil, the untranslated key is used (spec §6/§7).
type Translator interface {
	Translate(componentID, key string, vars map[string]string) string
}

// Error is the sum-typed result the core surfaces instead of panics
// (spec §7). SourceData carries the offending offset/bytes, bounded to 64
// bytes by the caller that constructs the error.
type Error struct {
	Kind       Kind
	Message    string
	SourceData []byte
	Offset     int
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Localized renders the error through an optional Translator, falling
// back to the untranslated Kind/Message.
func (e *Error) Localized(t Translator, componentID string) string {
	if t == nil {
		return e.Error()
	}
	return t.Translate(componentID, string(e.Kind), map[string]string{"message": e.Message})
}

const sourceDataCap = 64

func newErr(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapErr(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// NewErrorf is the exported form of newErr, for packages outside core
// (idprovider, guid, config) that need to surface the same closed set
// of error kinds without duplicating the Error type.
func NewErrorf(kind Kind, format string, args ...interface{}) *Error {
	return newErr(kind, format, args...)
}

// WrapErrorf is the exported form of wrapErr.
func WrapErrorf(kind Kind, err error, format string, args ...interface{}) *Error {
	return wrapErr(kind, err, format, args...)
}

// WithSource is the exported form of (*Error).withSource.
func (e *Error) WithSource(offset int, data []byte) *Error {
	return e.withSource(offset, data)
}

// withSource attaches a bounded offset/bytes snapshot of the offending
// region, as required by spec §7's codec wrapping policy.
func (e *Error) withSource(offset int, data []byte) *Error {
	e.Offset = offset
	if len(data) > sourceDataCap {
		data = data[:sourceDataCap]
	}
	e.SourceData = append([]byte(nil), data...)
	return e
}
