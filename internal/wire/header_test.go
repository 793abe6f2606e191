// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"
)

func sampleHeader(n int, idSize int) *Header {
	h := &Header{
		PayloadIV:   bytes.Repeat([]byte{0x01}, payloadIVSize),
		PayloadTag:  bytes.Repeat([]byte{0x02}, payloadTagSize),
		EphemeralPk: append([]byte{BasicTypeByte}, bytes.Repeat([]byte{0x03}, 64)...),
		IDSize:      idSize,
	}
	for i := 0; i < n; i++ {
		id := make([]byte, idSize)
		id[idSize-1] = byte(n - i) // descending, so SortRecipients has work to do
		h.Recipients = append(h.Recipients, &RecipientEntry{
			ID:         id,
			Tag:        bytes.Repeat([]byte{byte(i)}, 16),
			WrappedKey: bytes.Repeat([]byte{byte(i + 1)}, 32),
		})
	}
	return h
}

func TestHeaderMarshalParseRoundTrip(t *testing.T) {
	h := sampleHeader(4, 12)
	h.SortRecipients()
	data, err := h.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, consumed, err := ParseHeader(data, 12)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if consumed != len(data) {
		t.Errorf("consumed = %d, want %d", consumed, len(data))
	}
	if len(got.Recipients) != len(h.Recipients) {
		t.Fatalf("got %d recipients, want %d", len(got.Recipients), len(h.Recipients))
	}
	for i, e := range got.Recipients {
		if !bytes.Equal(e.ID, h.Recipients[i].ID) {
			t.Errorf("entry %d id mismatch: got %x, want %x", i, e.ID, h.Recipients[i].ID)
		}
	}
}

func TestHeaderSortRecipientsOrdersById(t *testing.T) {
	h := sampleHeader(5, 12)
	h.SortRecipients()
	for i := 1; i < len(h.Recipients); i++ {
		if bytes.Compare(h.Recipients[i-1].ID, h.Recipients[i].ID) >= 0 {
			t.Errorf("entries not strictly increasing at index %d", i)
		}
	}
}

func TestFindRecipient(t *testing.T) {
	h := sampleHeader(6, 12)
	h.SortRecipients()
	for _, want := range h.Recipients {
		got := h.FindRecipient(want.ID)
		if got == nil || !bytes.Equal(got.ID, want.ID) {
			t.Errorf("FindRecipient(%x) = %v, want entry with that id", want.ID, got)
		}
	}
	missing := make([]byte, 12)
	missing[0] = 0xFF
	if h.FindRecipient(missing) != nil {
		t.Error("FindRecipient found an id that was never inserted")
	}
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	h := sampleHeader(1, 12)
	data, err := h.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	data[0] ^= 0xFF
	if _, _, err := ParseHeader(data, 12); err == nil {
		t.Fatal("ParseHeader accepted bad magic")
	}
}

func TestParseHeaderRejectsUnknownVersion(t *testing.T) {
	h := sampleHeader(1, 12)
	data, err := h.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	data[2] = 0x99
	_, _, err = ParseHeader(data, 12)
	if err == nil {
		t.Fatal("ParseHeader accepted an unknown version")
	}
	if _, ok := err.(*InvalidVersionError); !ok {
		t.Errorf("error type = %T, want *InvalidVersionError", err)
	}
}

func TestMarshalRejectsZeroRecipients(t *testing.T) {
	h := sampleHeader(0, 12)
	if _, err := h.Marshal(); err == nil {
		t.Fatal("Marshal accepted zero recipients")
	}
}

func TestMarshalRejectsDuplicateIDs(t *testing.T) {
	h := sampleHeader(2, 12)
	h.Recipients[1].ID = append([]byte(nil), h.Recipients[0].ID...)
	if _, err := h.Marshal(); err == nil {
		t.Fatal("Marshal accepted duplicate recipient ids")
	}
}
