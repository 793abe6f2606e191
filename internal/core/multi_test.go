// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"bytes"
	"testing"
)

const testIDSize = 12

func testID(n byte) []byte {
	id := make([]byte, testIDSize)
	id[testIDSize-1] = n
	return id
}

func TestMultiEncryptDecryptRoundTrip(t *testing.T) {
	const n = 5
	var recipients []*Recipient
	privs := make(map[string][]byte, n)
	for i := byte(0); i < n; i++ {
		sk, pk := generateKeypair(t)
		id := testID(i)
		recipients = append(recipients, &Recipient{ID: id, PublicKey: pk})
		privs[string(id)] = sk
	}

	plaintext := []byte("a message for every listed recipient")
	env, err := MultiEncrypt(recipients, plaintext, testIDSize, 100)
	if err != nil {
		t.Fatalf("MultiEncrypt: %v", err)
	}

	for id, sk := range privs {
		got, err := MultiDecrypt([]byte(id), sk, env, testIDSize, 100)
		if err != nil {
			t.Fatalf("MultiDecrypt for id %x: %v", id, err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Errorf("MultiDecrypt for id %x = %q, want %q", id, got, plaintext)
		}
	}
}

func TestMultiDecryptRecipientNotFound(t *testing.T) {
	sk, pk := generateKeypair(t)
	recipients := []*Recipient{{ID: testID(1), PublicKey: pk}}
	env, err := MultiEncrypt(recipients, []byte("hi"), testIDSize, 10)
	if err != nil {
		t.Fatalf("MultiEncrypt: %v", err)
	}

	_, err = MultiDecrypt(testID(2), sk, env, testIDSize, 10)
	if err == nil {
		t.Fatal("MultiDecrypt succeeded for an unlisted id")
	}
	e, ok := err.(*Error)
	if !ok || e.Kind != KindRecipientNotFound {
		t.Errorf("error = %v, want KindRecipientNotFound", err)
	}
}

func TestMultiDecryptWrongKeyForListedID(t *testing.T) {
	_, pk := generateKeypair(t)
	otherSK, _ := generateKeypair(t)
	id := testID(1)
	recipients := []*Recipient{{ID: id, PublicKey: pk}}
	env, err := MultiEncrypt(recipients, []byte("hi"), testIDSize, 10)
	if err != nil {
		t.Fatalf("MultiEncrypt: %v", err)
	}

	_, err = MultiDecrypt(id, otherSK, env, testIDSize, 10)
	if err == nil {
		t.Fatal("MultiDecrypt succeeded with the wrong private key")
	}
}

func TestMultiEncryptTooManyRecipients(t *testing.T) {
	_, pk := generateKeypair(t)
	var recipients []*Recipient
	for i := byte(0); i < 5; i++ {
		recipients = append(recipients, &Recipient{ID: testID(i), PublicKey: pk})
	}
	_, err := MultiEncrypt(recipients, []byte("hi"), testIDSize, 3)
	if err == nil {
		t.Fatal("MultiEncrypt succeeded above maxRecipients")
	}
	e, ok := err.(*Error)
	if !ok || e.Kind != KindTooManyRecipients {
		t.Errorf("error = %v, want KindTooManyRecipients", err)
	}
}

func TestMultiEncryptOrderIndependentBytes(t *testing.T) {
	// Entries are sorted by id regardless of caller input order, so two
	// envelopes built from the same (unordered) recipient set differ only
	// in their random draws, not in entry order.
	_, pkA := generateKeypair(t)
	_, pkB := generateKeypair(t)
	forward := []*Recipient{{ID: testID(1), PublicKey: pkA}, {ID: testID(2), PublicKey: pkB}}
	backward := []*Recipient{{ID: testID(2), PublicKey: pkB}, {ID: testID(1), PublicKey: pkA}}

	envF, err := MultiEncrypt(forward, []byte("x"), testIDSize, 10)
	if err != nil {
		t.Fatalf("MultiEncrypt forward: %v", err)
	}
	envB, err := MultiEncrypt(backward, []byte("x"), testIDSize, 10)
	if err != nil {
		t.Fatalf("MultiEncrypt backward: %v", err)
	}
	if len(envF) != len(envB) {
		t.Fatalf("envelope lengths differ: %d vs %d", len(envF), len(envB))
	}
	// The first recipient entry in both envelopes must be for testID(1),
	// since sorting is independent of caller order.
	headerPrefixLen := 6 + 12 + 16 + 65
	entryIDF := envF[headerPrefixLen : headerPrefixLen+testIDSize]
	entryIDB := envB[headerPrefixLen : headerPrefixLen+testIDSize]
	if !bytes.Equal(entryIDF, testID(1)) || !bytes.Equal(entryIDB, testID(1)) {
		t.Errorf("expected first recipient entry to be testID(1) regardless of input order, got %x and %x", entryIDF, entryIDB)
	}
}
