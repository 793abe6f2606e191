// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"github.com/eciesio/ecies-core/internal/wire"
)

// Recipient is one (id, public key) pair supplied to MultiEncrypt.
type Recipient struct {
	ID        []byte
	PublicKey []byte
}

// MultiEncrypt implements the multi-recipient processor of spec §4.3:
// one fresh symmetric session key is AEAD-sealed once over the
// plaintext, then wrapped once per recipient so any listed recipient
// can recover it. maxRecipients enforces the configured ceiling before
// any crypto runs (TooManyRecipients).
func MultiEncrypt(recipients []*Recipient, plaintext []byte, idSize, maxRecipients int) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, newErr(KindTooManyRecipients, "at least one recipient is required")
	}
	if len(recipients) > maxRecipients {
		return nil, newErr(KindTooManyRecipients, "recipient count %d exceeds configured maximum %d", len(recipients), maxRecipients)
	}
	if len(recipients) > 0xFFFF {
		return nil, newErr(KindTooManyRecipients, "recipient count %d exceeds the 16-bit wire limit", len(recipients))
	}
	for _, r := range recipients {
		if len(r.ID) != idSize {
			return nil, newErr(KindInvalidKeySize, "recipient id must be %d bytes, got %d", idSize, len(r.ID))
		}
	}

	sessionKey, err := RandomSymmetricKey()
	if err != nil {
		return nil, err
	}
	defer Zero(sessionKey)

	eph, err := GenerateEphemeral()
	if err != nil {
		return nil, err
	}

	h := &wire.Header{
		EphemeralPk: eph.PublicKeyUncompressed(),
		IDSize:      idSize,
		// Recipients is pre-sized (but left empty of real entries) so
		// that Prefix's recipientCount field reflects the final total
		// while per-recipient IVs are being derived below; each slot is
		// filled in place rather than appended, since appending would
		// change len() mid-loop and skew the deterministic IV derived
		// for earlier recipients.
		Recipients: make([]*wire.RecipientEntry, len(recipients)),
	}
	for i, r := range recipients {
		entry, err := wrapForRecipient(eph, h, r, sessionKey)
		if err != nil {
			return nil, err
		}
		h.Recipients[i] = entry
	}
	h.SortRecipients()

	headerPrefix := h.Prefix()

	payloadIV, err := RandomIV()
	if err != nil {
		return nil, err
	}
	ct, tag, err := AEADEncrypt(sessionKey, payloadIV, plaintext, headerPrefix)
	if err != nil {
		return nil, err
	}
	h.PayloadIV = payloadIV
	h.PayloadTag = tag

	headerBytes, err := h.Marshal()
	if err != nil {
		return nil, wrapErr(KindDecryptionFailed, err, "failed to marshal multi-recipient header")
	}
	return append(headerBytes, ct...), nil
}

// wrapForRecipient computes RecipientEntry_i per spec §4.3 step 3. The
// deterministic IV is derived from a provisional header prefix built
// from the fields known before the recipient count is finalised; since
// the prefix only depends on recipientCount (fixed once len(recipients)
// is known) and the constant magic/version/type bytes, it is safe to
// compute here before sorting.
func wrapForRecipient(eph *EphemeralKeyPair, h *wire.Header, r *Recipient, sessionKey []byte) (*wire.RecipientEntry, error) {
	shared, err := eph.DeriveShared(r.PublicKey)
	if err != nil {
		return nil, err
	}
	defer Zero(shared)

	key, err := KDF(shared, r.ID)
	if err != nil {
		return nil, err
	}
	defer Zero(key)

	prefix := h.Prefix()
	iv := DeterministicIV(prefix, r.ID)

	wrapped, tag, err := AEADEncrypt(key, iv, sessionKey, nil)
	if err != nil {
		return nil, err
	}
	return &wire.RecipientEntry{ID: append([]byte(nil), r.ID...), Tag: tag, WrappedKey: wrapped}, nil
}

// MultiDecrypt implements the recipient lookup and decrypt side of
// spec §4.3. id/priv identify the caller's own entry in the envelope.
func MultiDecrypt(id, priv, envelope []byte, idSize, maxRecipients int) ([]byte, error) {
	h, consumed, err := wire.ParseHeader(envelope, idSize)
	if err != nil {
		if _, ok := err.(*wire.InvalidVersionError); ok {
			return nil, wrapErr(KindInvalidEnvelopeVersion, err, "unsupported envelope version")
		}
		return nil, wrapErr(KindDecryptionFailed, err, "failed to parse multi-recipient header").WithSource(0, envelope)
	}
	if len(h.Recipients) > maxRecipients {
		return nil, newErr(KindTooManyRecipients, "recipient count %d exceeds configured maximum %d", len(h.Recipients), maxRecipients)
	}

	entry := h.FindRecipient(id)
	if entry == nil {
		return nil, newErr(KindRecipientNotFound, "id %x is not present in this envelope", id)
	}

	shared, err := DeriveSharedFromPrivate(priv, h.EphemeralPk)
	if err != nil {
		return nil, err
	}
	defer Zero(shared)

	key, err := KDF(shared, id)
	if err != nil {
		return nil, err
	}
	defer Zero(key)

	prefix := h.Prefix()
	iv := DeterministicIV(prefix, id)

	sessionKey, err := AEADDecrypt(key, iv, entry.WrappedKey, entry.Tag, nil)
	if err != nil {
		return nil, err
	}
	defer Zero(sessionKey)

	ct := envelope[consumed:]
	pt, err := AEADDecrypt(sessionKey, h.PayloadIV, ct, h.PayloadTag, prefix)
	if err != nil {
		return nil, err
	}
	return pt, nil
}
