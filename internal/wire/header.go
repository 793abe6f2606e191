// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

// Magic identifies a multi-recipient envelope. It must never start with
// BasicTypeByte so the two envelope shapes can be told apart by their
// first byte (spec §6).
var Magic = [2]byte{0xEC, 0x1E}

// CurrentVersion is the multi-recipient header version this package
// writes and is willing to parse without InvalidEnvelopeVersion.
const CurrentVersion = 0x01

const (
	// HeaderPrefixSize is the number of leading header bytes (magic
	// through recipientCount) bound as AEAD associated data on the
	// payload and used as the per-recipient deterministic IV salt
	// (spec §4.3, "Header prefix").
	HeaderPrefixSize = 2 + 1 + 1 + 2

	payloadIVSize  = 12
	payloadTagSize = 16

	// HeaderFixedSize is HeaderPrefixSize plus payloadIv, payloadTag and
	// the 65-byte ephemeral public key, i.e. everything before the
	// RecipientEntry array.
	HeaderFixedSize = HeaderPrefixSize + payloadIVSize + payloadTagSize + UncompressedPublicKeySize

	// WrappedKeySize is 16 bytes of AEAD tag + 32 bytes of wrapped
	// symmetric key (spec §3 invariants).
	WrappedKeySize = 16 + 32
)

// RecipientEntry is one `id || tag || wrappedKey` record inside a
// multi-recipient header.
type RecipientEntry struct {
	ID         []byte // B bytes, configuration-wide identifier length
	Tag        []byte // 16 bytes
	WrappedKey []byte // 32 bytes ciphertext of the symmetric key
}

// Header is the fixed-layout multi-recipient envelope header (spec §3).
type Header struct {
	Type            byte // reserved for future envelope sub-types; currently always 0x00
	PayloadIV       []byte
	PayloadTag      []byte
	EphemeralPk     []byte // 65 bytes uncompressed SEC1
	Recipients      []*RecipientEntry
	IDSize          int // B, the configuration-wide identifier byte length
}

// SortRecipients sorts entries by id, byte-wise lexicographic, so
// decoders can binary-search and so the envelope is deterministic under
// a fixed RNG regardless of caller-supplied order (spec §4.3 step 4).
func (h *Header) SortRecipients() {
	sort.Slice(h.Recipients, func(i, j int) bool {
		return bytes.Compare(h.Recipients[i].ID, h.Recipients[j].ID) < 0
	})
}

// Prefix returns the first HeaderPrefixSize bytes of the header as they
// will appear on the wire: magic, version, type, recipientCount. This is
// the value bound as AEAD associated data (spec §4.3 step 2).
func (h *Header) Prefix() []byte {
	buf := make([]byte, HeaderPrefixSize)
	copy(buf[0:2], Magic[:])
	buf[2] = CurrentVersion
	buf[3] = h.Type
	binary.BigEndian.PutUint16(buf[4:6], uint16(len(h.Recipients)))
	return buf
}

// Marshal writes the complete header (prefix, payload iv/tag, ephemeral
// pk, recipient entries). Recipients must already be sorted; call
// SortRecipients first if order is not already canonical.
func (h *Header) Marshal() ([]byte, error) {
	if len(h.Recipients) == 0 {
		return nil, fmt.Errorf("wire: multi-recipient header needs at least one recipient")
	}
	if len(h.Recipients) > 0xFFFF {
		return nil, fmt.Errorf("wire: too many recipients for a 16-bit count: %d", len(h.Recipients))
	}
	if len(h.PayloadIV) != payloadIVSize {
		return nil, fmt.Errorf("wire: payload iv must be %d bytes, got %d", payloadIVSize, len(h.PayloadIV))
	}
	if len(h.PayloadTag) != payloadTagSize {
		return nil, fmt.Errorf("wire: payload tag must be %d bytes, got %d", payloadTagSize, len(h.PayloadTag))
	}
	if len(h.EphemeralPk) != UncompressedPublicKeySize {
		return nil, fmt.Errorf("wire: ephemeral public key must be %d bytes, got %d", UncompressedPublicKeySize, len(h.EphemeralPk))
	}

	seen := make(map[string]bool, len(h.Recipients))
	for _, r := range h.Recipients {
		if h.IDSize != 0 && len(r.ID) != h.IDSize {
			return nil, fmt.Errorf("wire: recipient id length %d does not match configured length %d", len(r.ID), h.IDSize)
		}
		if len(r.Tag) != 16 {
			return nil, fmt.Errorf("wire: recipient tag must be 16 bytes, got %d", len(r.Tag))
		}
		if len(r.WrappedKey) != 32 {
			return nil, fmt.Errorf("wire: wrapped key must be 32 bytes, got %d", len(r.WrappedKey))
		}
		key := string(r.ID)
		if seen[key] {
			return nil, fmt.Errorf("wire: duplicate recipient id %x", r.ID)
		}
		seen[key] = true
	}

	buf := bytes.NewBuffer(make([]byte, 0, HeaderFixedSize+len(h.Recipients)*(h.IDSize+WrappedKeySize)))
	buf.Write(h.Prefix())
	buf.Write(h.PayloadIV)
	buf.Write(h.PayloadTag)
	buf.Write(h.EphemeralPk)
	for _, r := range h.Recipients {
		buf.Write(r.ID)
		buf.Write(r.Tag)
		buf.Write(r.WrappedKey)
	}
	return buf.Bytes(), nil
}

// ParseHeader parses a multi-recipient header from data, given the
// configuration-wide identifier byte length idSize. It returns the
// header and the number of bytes consumed (so the caller can locate the
// trailing payload ciphertext).
func ParseHeader(data []byte, idSize int) (h *Header, consumed int, err error) {
	if len(data) < HeaderFixedSize {
		return nil, 0, fmt.Errorf("wire: header truncated: %d bytes, need at least %d", len(data), HeaderFixedSize)
	}
	if !bytes.Equal(data[0:2], Magic[:]) {
		return nil, 0, fmt.Errorf("wire: bad magic %x, want %x", data[0:2], Magic)
	}
	version := data[2]
	if version != CurrentVersion {
		return nil, 0, &InvalidVersionError{Version: version}
	}
	typ := data[3]
	count := int(binary.BigEndian.Uint16(data[4:6]))
	if count == 0 {
		return nil, 0, fmt.Errorf("wire: recipientCount must not be zero")
	}

	off := HeaderPrefixSize
	payloadIV := append([]byte(nil), data[off:off+payloadIVSize]...)
	off += payloadIVSize
	payloadTag := append([]byte(nil), data[off:off+payloadTagSize]...)
	off += payloadTagSize
	epk := append([]byte(nil), data[off:off+UncompressedPublicKeySize]...)
	off += UncompressedPublicKeySize

	entrySize := idSize + WrappedKeySize
	need := off + count*entrySize
	if len(data) < need {
		return nil, 0, fmt.Errorf("wire: header declares %d recipients but data is too short", count)
	}

	entries := make([]*RecipientEntry, 0, count)
	seen := make(map[string]bool, count)
	for i := 0; i < count; i++ {
		start := off + i*entrySize
		id := append([]byte(nil), data[start:start+idSize]...)
		tag := append([]byte(nil), data[start+idSize:start+idSize+16]...)
		wrapped := append([]byte(nil), data[start+idSize+16:start+entrySize]...)
		key := string(id)
		if seen[key] {
			return nil, 0, fmt.Errorf("wire: duplicate recipient id %x in header", id)
		}
		seen[key] = true
		entries = append(entries, &RecipientEntry{ID: id, Tag: tag, WrappedKey: wrapped})
	}

	h = &Header{
		Type:        typ,
		PayloadIV:   payloadIV,
		PayloadTag:  payloadTag,
		EphemeralPk: epk,
		Recipients:  entries,
		IDSize:      idSize,
	}
	return h, need, nil
}

// FindRecipient binary-searches a (caller-sorted, as produced by
// ParseHeader/Marshal) recipient list for id.
func (h *Header) FindRecipient(id []byte) *RecipientEntry {
	i := sort.Search(len(h.Recipients), func(i int) bool {
		return bytes.Compare(h.Recipients[i].ID, id) >= 0
	})
	if i < len(h.Recipients) && bytes.Equal(h.Recipients[i].ID, id) {
		return h.Recipients[i]
	}
	return nil
}

// InvalidVersionError is returned when a header carries an unknown
// version byte (spec §6).
type InvalidVersionError struct {
	Version byte
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("wire: unsupported envelope version 0x%02x", e.Version)
}
