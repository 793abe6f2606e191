// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/eciesio/ecies-core/idprovider"
)

// DefaultKey names the default registry entry, the only one `Clear`
// preserves (spec §4.7 "clear() preserves only the default entry").
const DefaultKey = "default"

// Provenance records how a registered configuration came to be (spec
// §3/§4.7).
type Provenance struct {
	CreatedAt   time.Time
	BaseKey     string
	Description string
	Overrides   map[string]string
	Checksum    [32]byte
}

// checksumSnapshot is a JSON-stable projection of Config used only to
// compute Provenance.Checksum; it excludes the IDProvider interface
// value (not meaningfully JSON-serialisable) in favour of its Name and
// ByteLength, which are exactly the fields RecipientIdConsistency cares
// about.
type checksumSnapshot struct {
	ECIES           ECIESConfig
	MemberIDLength  int
	Pbkdf2SaltBytes int
	Pbkdf2Profiles  map[string]Pbkdf2Profile
	ProviderName    string
	ProviderBytes   int
}

func checksumOf(c *Config) ([32]byte, error) {
	snap := checksumSnapshot{
		ECIES:           c.ECIES,
		MemberIDLength:  c.MemberIDLength,
		Pbkdf2SaltBytes: c.Pbkdf2SaltBytes,
		Pbkdf2Profiles:  c.Pbkdf2Profiles,
	}
	if c.IDProvider != nil {
		snap.ProviderName = c.IDProvider.Name()
		snap.ProviderBytes = c.IDProvider.ByteLength()
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return [32]byte{}, fmt.Errorf("config: failed to serialise checksum snapshot: %w", err)
	}
	return sha256.Sum256(b), nil
}

type entry struct {
	config     *Config
	provenance Provenance
}

// Registry is the process-wide keyed configuration map of spec §4.7.
// Every mutation is guarded by mu. Get takes mu's read lock whether or
// not the registry is frozen; reads are not lock-free after Freeze.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	custom   []Invariant
	frozen   bool
}

// NewRegistry creates a registry seeded with a default entry built from
// idProvider (spec §4.7: "the default entry is constructed at load
// time").
func NewRegistry(idProvider idprovider.Provider) (*Registry, error) {
	r := &Registry{entries: make(map[string]*entry)}
	def := Default(idProvider)
	if err := r.Register(DefaultKey, def, "", "default configuration", nil); err != nil {
		return nil, err
	}
	return r, nil
}

// Register validates c against the builtin and custom invariants, and
// on success stores it under key together with a computed Provenance.
// baseKey/description/overrides are free-form provenance metadata
// supplied by the caller (spec §4.7).
func (r *Registry) Register(key string, c *Config, baseKey, description string, overrides map[string]string) error {
	if err := Validate(c, r.customSnapshot()); err != nil {
		return err
	}
	sum, err := checksumOf(c)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("config: registry is frozen, cannot register %q", key)
	}
	r.entries[key] = &entry{
		config: c,
		provenance: Provenance{
			CreatedAt:   time.Now().UTC(),
			BaseKey:     baseKey,
			Description: description,
			Overrides:   overrides,
			Checksum:    sum,
		},
	}
	return nil
}

// Get returns the configuration and provenance registered under key.
func (r *Registry) Get(key string) (*Config, Provenance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, Provenance{}, false
	}
	return e.config, e.provenance, true
}

// Freeze makes the registry read-only; subsequent Register/Clear calls
// fail.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Clear removes every entry except DefaultKey (spec §4.7 "clear()
// preserves only the default entry"). It also drops user-registered
// custom invariants.
func (r *Registry) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("config: registry is frozen, cannot clear")
	}
	def, hasDefault := r.entries[DefaultKey]
	r.entries = make(map[string]*entry)
	if hasDefault {
		r.entries[DefaultKey] = def
	}
	r.custom = nil
	return nil
}

// RegisterInvariant adds a custom invariant, run on every subsequent
// Register call in addition to the three builtin invariants.
func (r *Registry) RegisterInvariant(inv Invariant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom = append(r.custom, inv)
}

func (r *Registry) customSnapshot() []Invariant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Invariant{}, r.custom...)
}
