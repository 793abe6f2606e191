// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package idprovider

import "testing"

func TestObjectIDValidateRejectsAllZero(t *testing.T) {
	p := &ObjectIDProvider{}
	zero := make([]byte, objectIDSize)
	if p.Validate(zero) {
		t.Error("Validate accepted an all-zero ObjectID")
	}
}

func TestObjectIDCounterIncrements(t *testing.T) {
	p := &ObjectIDProvider{}
	first, err := p.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := p.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// The last 3 bytes are the monotonic counter; consecutive calls
	// within the same process must not collide.
	if string(first[9:]) == string(second[9:]) {
		t.Error("counter suffix repeated across consecutive Generate calls")
	}
}
