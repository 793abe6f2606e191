// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stream implements the chunked encrypt/decrypt, checksum and
// XOR-fold transforms of spec §4.6. It is adapted from the teacher
// library's internal/stream package: the same chunk-buffer-then-flush
// state machine, rehomed from an io.Reader/io.Writer pair onto a
// push-based transform(chunk)*/flush()
// protocol with cooperative cancellation, since the transforms here are
// driven by a sink rather than copied through a Go io pipe. There is no
// nonce counter: every block is a self-contained length-prefixed
// envelope with its own ephemeral key and random IV.
package stream

import (
	"errors"
	"sync/atomic"

	"github.com/eciesio/ecies-core/internal/core"
	"github.com/eciesio/ecies-core/internal/wire"
)

// ErrAborted is returned by Transform/Flush once a CancelToken has
// fired, matching the "Aborted" signal of spec §4.6/§5.
var ErrAborted = errors.New("stream: transform aborted")

// CancelToken is the cooperative cancellation handle of spec §5: the
// sink calls Cancel from any goroutine; the transform observes it
// between chunks and between Transform/Flush calls.
type CancelToken struct {
	fired atomic.Bool
}

// Cancel requests that the next Transform/Flush call abort.
func (c *CancelToken) Cancel() { c.fired.Store(true) }

// Aborted reports whether Cancel has been called.
func (c *CancelToken) Aborted() bool { return c.fired.Load() }

// EncryptTransform implements spec §4.6's encrypt transform: it buffers
// plaintext until capacity = blockSize - overhead bytes are available,
// encrypts that slice with the length-prefixed single-recipient codec,
// and emits a block of exactly blockSize bytes.
type EncryptTransform struct {
	recipientPub []byte
	capacity     int
	buf          []byte
	cancel       *CancelToken
	flushed      bool
}

// NewEncryptTransform builds a transform targeting a single recipient
// public key. blockSize must be large enough to hold at least one byte
// of plaintext once the length-prefixed envelope overhead is
// subtracted.
func NewEncryptTransform(recipientPub []byte, blockSize int, cancel *CancelToken) (*EncryptTransform, error) {
	capacity := blockSize - wire.LengthPrefixedOverhead
	if capacity <= 0 {
		return nil, errors.New("stream: blockSize too small for envelope overhead")
	}
	return &EncryptTransform{recipientPub: recipientPub, capacity: capacity, cancel: cancel}, nil
}

// Transform buffers chunk and emits zero or more blockSize-sized
// encrypted blocks for every full capacity of plaintext accumulated.
func (t *EncryptTransform) Transform(chunk []byte) ([][]byte, error) {
	if t.cancel != nil && t.cancel.Aborted() {
		t.abort()
		return nil, ErrAborted
	}
	if t.flushed {
		return nil, errors.New("stream: transform called after flush")
	}
	t.buf = append(t.buf, chunk...)

	var out [][]byte
	for len(t.buf) >= t.capacity {
		piece := t.buf[:t.capacity]
		env, err := core.EncryptLengthPrefixed(t.recipientPub, piece)
		if err != nil {
			t.abort()
			return nil, err
		}
		out = append(out, env)
		t.buf = t.buf[t.capacity:]
	}
	return out, nil
}

// Flush encrypts and emits any residual plaintext shorter than
// capacity. It must be called exactly once and no Transform call may
// follow it.
func (t *EncryptTransform) Flush() ([][]byte, error) {
	if t.cancel != nil && t.cancel.Aborted() {
		t.abort()
		return nil, ErrAborted
	}
	if t.flushed {
		return nil, errors.New("stream: flush called twice")
	}
	t.flushed = true
	env, err := core.EncryptLengthPrefixed(t.recipientPub, t.buf)
	core.Zero(t.buf)
	t.buf = nil
	if err != nil {
		return nil, err
	}
	return [][]byte{env}, nil
}

func (t *EncryptTransform) abort() {
	core.Zero(t.buf)
	t.buf = nil
	t.flushed = true
}

// DecryptTransform is the inverse of EncryptTransform: it consumes
// exactly blockSize bytes at a time and emits the recovered plaintext.
type DecryptTransform struct {
	recipientPriv []byte
	blockSize     int
	buf           []byte
	cancel        *CancelToken
	flushed       bool
}

// NewDecryptTransform builds a transform for a recipient's raw 32-byte
// private scalar. blockSize must match the value the producing
// EncryptTransform was constructed with.
func NewDecryptTransform(recipientPriv []byte, blockSize int, cancel *CancelToken) *DecryptTransform {
	return &DecryptTransform{recipientPriv: recipientPriv, blockSize: blockSize, cancel: cancel}
}

// Transform buffers chunk and emits plaintext for every full blockSize
// of ciphertext accumulated.
func (t *DecryptTransform) Transform(chunk []byte) ([][]byte, error) {
	if t.cancel != nil && t.cancel.Aborted() {
		t.abort()
		return nil, ErrAborted
	}
	if t.flushed {
		return nil, errors.New("stream: transform called after flush")
	}
	t.buf = append(t.buf, chunk...)

	var out [][]byte
	for len(t.buf) >= t.blockSize {
		block := t.buf[:t.blockSize]
		pt, _, err := core.DecryptLengthPrefixed(t.recipientPriv, block)
		if err != nil {
			t.abort()
			return nil, err
		}
		out = append(out, pt)
		t.buf = t.buf[t.blockSize:]
	}
	return out, nil
}

// Flush decrypts the final short block, if any residual bytes remain.
func (t *DecryptTransform) Flush() ([][]byte, error) {
	if t.cancel != nil && t.cancel.Aborted() {
		t.abort()
		return nil, ErrAborted
	}
	if t.flushed {
		return nil, errors.New("stream: flush called twice")
	}
	t.flushed = true
	if len(t.buf) == 0 {
		return nil, nil
	}
	pt, _, err := core.DecryptLengthPrefixed(t.recipientPriv, t.buf)
	core.Zero(t.buf)
	t.buf = nil
	if err != nil {
		return nil, err
	}
	return [][]byte{pt}, nil
}

func (t *DecryptTransform) abort() {
	core.Zero(t.buf)
	t.buf = nil
	t.flushed = true
}
