// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

// sampleSnapshot mirrors the shape of a stored session: json tags,
// optional pointer fields.
type sampleSnapshot struct {
	SessionKey string `json:"session_key,omitempty"`
	UID        *int64 `json:"uid,omitempty"`
	APIKey     string `json:"api_key"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	uid := int64(100000123456789)
	original := sampleSnapshot{SessionKey: "abc-123", UID: &uid, APIKey: "key"}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleSnapshot
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.SessionKey != original.SessionKey || decoded.APIKey != original.APIKey {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
	if decoded.UID == nil || *decoded.UID != uid {
		t.Errorf("uid = %v, want %d", decoded.UID, uid)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]any{"b": 2, "a": 1, "c": "three"}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestJSONTagsNameFields(t *testing.T) {
	data, err := Marshal(sampleSnapshot{APIKey: "key"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diagnostic, `"api_key"`) || strings.Contains(diagnostic, "session_key") {
		t.Errorf("diagnostic = %s, want only the api_key field", diagnostic)
	}
}

func TestUnmarshalAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"outer": map[string]any{"inner": "value"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	outer, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded %T, want map[string]any", decoded)
	}
	if _, ok := outer["outer"].(map[string]any); !ok {
		t.Errorf("nested %T, want map[string]any", outer["outer"])
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	var decoded sampleSnapshot
	err := Unmarshal([]byte{0xff, 0x00}, &decoded)
	if err == nil {
		t.Fatal("expected error for malformed CBOR")
	}
	if strings.TrimSpace(err.Error()) == "" {
		t.Error("error message is empty")
	}
}
