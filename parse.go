// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecies

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/eciesio/ecies-core/internal/core"
)

// Key encoding prefixes, in the spirit of the teacher library's
// "AGE-SECRET-KEY-1"/"age1" textual key tags, but hex rather than
// bech32 (spec §6 treats the wallet as an opaque (sk, pk) producer and
// does not mandate a textual encoding, so this module supplies its own
// human-copyable one).
const (
	secretKeyPrefix = "ECIES-SECRET-KEY-1"
	publicKeyPrefix = "ecies1"
)

// EncodeSecretKey renders a raw 32-byte secp256k1 private scalar as an
// uppercase-hex string tagged with secretKeyPrefix.
func EncodeSecretKey(sk []byte) (string, error) {
	if len(sk) != 32 {
		return "", core.NewErrorf(core.KindInvalidKeySize, "private key must be 32 bytes, got %d", len(sk))
	}
	return secretKeyPrefix + strings.ToUpper(hex.EncodeToString(sk)), nil
}

// ParseSecretKey parses a string produced by EncodeSecretKey.
func ParseSecretKey(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(s, secretKeyPrefix)
	if !ok {
		return nil, core.NewErrorf(core.KindParseFailed, "unrecognised secret key encoding")
	}
	sk, err := hex.DecodeString(strings.ToLower(rest))
	if err != nil {
		return nil, core.WrapErrorf(core.KindInvalidCharacters, err, "secret key is not valid hex")
	}
	if len(sk) != 32 {
		return nil, core.NewErrorf(core.KindInvalidKeySize, "private key must be 32 bytes, got %d", len(sk))
	}
	return sk, nil
}

// EncodePublicKey renders a 33- or 65-byte SEC1 public key as a
// lower-case hex string tagged with publicKeyPrefix.
func EncodePublicKey(pk []byte) (string, error) {
	if len(pk) != 33 && len(pk) != 65 {
		return "", core.NewErrorf(core.KindInvalidKeySize, "public key must be 33 or 65 bytes, got %d", len(pk))
	}
	return publicKeyPrefix + hex.EncodeToString(pk), nil
}

// ParsePublicKey parses a string produced by EncodePublicKey.
func ParsePublicKey(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(s, publicKeyPrefix)
	if !ok {
		return nil, core.NewErrorf(core.KindParseFailed, "unrecognised public key encoding")
	}
	pk, err := hex.DecodeString(rest)
	if err != nil {
		return nil, core.WrapErrorf(core.KindInvalidCharacters, err, "public key is not valid hex")
	}
	if len(pk) != 33 && len(pk) != 65 {
		return nil, core.NewErrorf(core.KindInvalidKeySize, "public key must be 33 or 65 bytes, got %d", len(pk))
	}
	return pk, nil
}

// ParseSecretKeys parses a file with one secp256k1 secret key encoding
// per line. Empty lines and lines starting with "#" are ignored,
// mirroring the teacher library's ParseIdentities line discipline.
func ParseSecretKeys(f io.Reader) ([][]byte, error) {
	const sizeLimit = 1 << 20
	var keys [][]byte
	scanner := bufio.NewScanner(io.LimitReader(f, sizeLimit))
	var n int
	for scanner.Scan() {
		n++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("ecies: secret key file is not valid UTF-8")
		}
		sk, err := ParseSecretKey(line)
		if err != nil {
			return nil, fmt.Errorf("ecies: error at line %d: %w", n, err)
		}
		keys = append(keys, sk)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ecies: failed to read secret key file: %w", err)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("ecies: no secret keys found")
	}
	return keys, nil
}

// ParsePublicKeys parses a file with one secp256k1 public key encoding
// per line.
func ParsePublicKeys(f io.Reader) ([][]byte, error) {
	const sizeLimit = 1 << 20
	var keys [][]byte
	scanner := bufio.NewScanner(io.LimitReader(f, sizeLimit))
	var n int
	for scanner.Scan() {
		n++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("ecies: public key file is not valid UTF-8")
		}
		pk, err := ParsePublicKey(line)
		if err != nil {
			return nil, fmt.Errorf("ecies: error at line %d: %w", n, err)
		}
		keys = append(keys, pk)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ecies: failed to read public key file: %w", err)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("ecies: no public keys found")
	}
	return keys, nil
}
