// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

// sampleRecord is a representative steward state record using cbor
// struct tags (the convention for purely-internal types).
type sampleRecord struct {
	Step    string `cbor:"step"`
	Path    string `cbor:"path,omitempty"`
	Applied int    `cbor:"applied"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{
		Step:    "vault-scaffold",
		Path:    "/data/vault/MEMORY.md",
		Applied: 4,
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	record := sampleRecord{
		Step:    "repo-sync",
		Path:    "/data/repos/notes",
		Applied: 1,
	}

	first, err := Marshal(record)
	if err != nil {
		t.Fatalf("Marshal (first): %v", err)
	}
	second, err := Marshal(record)
	if err != nil {
		t.Fatalf("Marshal (second): %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestMarshalDeterministicMapKeys(t *testing.T) {
	// Map iteration order is randomized in Go; deterministic encoding
	// must sort keys so the output is stable across runs.
	value := map[string]int{"zeta": 1, "alpha": 2, "mid": 3}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for i := 0; i < 16; i++ {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal (iteration %d): %v", i, err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("map encoding unstable at iteration %d", i)
		}
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	// A future steward may add receipt fields; an older reader must
	// still decode the fields it knows.
	type extended struct {
		Step    string `cbor:"step"`
		Path    string `cbor:"path,omitempty"`
		Applied int    `cbor:"applied"`
		Extra   string `cbor:"extra"`
	}

	data, err := Marshal(extended{Step: "cron-schedule", Applied: 1, Extra: "future"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal with unknown field: %v", err)
	}
	if decoded.Step != "cron-schedule" || decoded.Applied != 1 {
		t.Errorf("decoded = %+v, want Step=cron-schedule Applied=1", decoded)
	}
}

func TestUnmarshalIntoAnyUsesStringKeyedMaps(t *testing.T) {
	data, err := Marshal(map[string]any{"name": "digest", "count": 2})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	typed, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if typed["name"] != "digest" {
		t.Errorf("decoded[name] = %v, want digest", typed["name"])
	}
}
