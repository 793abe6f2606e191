// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stream

import (
	"errors"
	"hash"

	"golang.org/x/crypto/sha3"
)

// ChecksumTransform feeds every byte through SHA3-512 and passes the
// input through unchanged, emitting the 64-byte digest to Observer on
// flush (spec §4.6 "Rolling checksum transform"). The teacher library
// has no equivalent stage; this follows the transform(chunk)*/flush()
// protocol of transform.go directly.
type ChecksumTransform struct {
	h        hash.Hash
	Observer func(digest []byte)
	cancel   *CancelToken
	flushed  bool
}

// NewChecksumTransform builds a checksum transform. observer may be nil
// if the caller does not need the digest.
func NewChecksumTransform(observer func(digest []byte), cancel *CancelToken) *ChecksumTransform {
	return &ChecksumTransform{h: sha3.New512(), Observer: observer, cancel: cancel}
}

// Transform hashes chunk and returns it unchanged as the sole output.
func (t *ChecksumTransform) Transform(chunk []byte) ([][]byte, error) {
	if t.cancel != nil && t.cancel.Aborted() {
		t.abort()
		return nil, ErrAborted
	}
	if t.flushed {
		return nil, errors.New("stream: transform called after flush")
	}
	t.h.Write(chunk)
	return [][]byte{chunk}, nil
}

// Flush emits the final 64-byte SHA3-512 digest via Observer.
func (t *ChecksumTransform) Flush() ([][]byte, error) {
	if t.cancel != nil && t.cancel.Aborted() {
		t.abort()
		return nil, ErrAborted
	}
	if t.flushed {
		return nil, errors.New("stream: flush called twice")
	}
	t.flushed = true
	digest := t.h.Sum(nil)
	if t.Observer != nil {
		t.Observer(digest)
	}
	return nil, nil
}

func (t *ChecksumTransform) abort() {
	t.h.Reset()
	t.flushed = true
}
