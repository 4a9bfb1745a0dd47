// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/bureau-foundation/fbsession/lib/rest"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	session, transport, _ := newTestSession(t, TokenPolicy())
	scriptSession(transport, "42", "1900000000", "session-secret")
	transport.reply(MethodEventsGet, &rest.Response{Value: []any{map[string]any{"eid": "1"}}})
	ctx := context.Background()
	if err := session.Secure(ctx); err != nil {
		t.Fatalf("Secure: %v", err)
	}
	if _, err := session.Events(ctx, EventFilter{}); err != nil {
		t.Fatalf("Events: %v", err)
	}

	data, err := json.Marshal(session.Snapshot())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	restoredTransport := newFakeTransport()
	restored, err := Restore(snapshot, Config{Transport: restoredTransport, Policy: TokenPolicy()})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if restored.APIKey() != testAPIKey || restored.secretKey != testSecretKey {
		t.Error("keys not restored")
	}
	if restored.SessionKey() != "session-key-1" || restored.SessionSecret() != "session-secret" {
		t.Error("session key or secret not restored")
	}
	if uid, ok := restored.UserID(); !ok || uid != 42 {
		t.Errorf("uid = %d, %v", uid, ok)
	}
	if expires, ok := restored.ExpiresAt(); !ok || expires != 1900000000 {
		t.Errorf("expires = %d, %v", expires, ok)
	}
	token, err := restored.AuthToken(ctx)
	if err != nil || token != "token-abc" {
		t.Errorf("auth token = %q, %v", token, err)
	}
	if !reflect.DeepEqual(restored.Snapshot(), snapshot) {
		t.Errorf("restored snapshot differs:\n got %+v\nwant %+v", restored.Snapshot(), snapshot)
	}

	// Memoized results are not carried over.
	restoredTransport.reply(MethodEventsGet, &rest.Response{Value: []any{}})
	events, err := restored.Events(ctx, EventFilter{})
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 0 {
		t.Error("restored session served a cached result")
	}
	if restoredTransport.callCount() != 1 {
		t.Errorf("restored session made %d calls, want 1", restoredTransport.callCount())
	}
}

func TestSnapshot_Unauthenticated(t *testing.T) {
	session, _, _ := newTestSession(t, WebPolicy())

	snapshot := session.Snapshot()
	if snapshot.UID != nil || snapshot.Expires != nil || snapshot.SessionKey != "" || snapshot.AuthToken != "" {
		t.Errorf("unauthenticated snapshot = %+v", snapshot)
	}

	restored, err := Restore(snapshot, Config{Transport: newFakeTransport()})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if _, ok := restored.ExpiresAt(); ok {
		t.Error("restored unauthenticated session has an expiry")
	}
	if restored.Secured() {
		t.Error("restored unauthenticated session is secured")
	}
}

func TestSnapshot_JSONFieldNames(t *testing.T) {
	uid, expires := int64(7), int64(0)
	data, err := json.Marshal(Snapshot{
		SessionKey: "k",
		UID:        &uid,
		Expires:    &expires,
		APIKey:     "a",
		SecretKey:  "s",
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"session_key":"k","uid":7,"expires":0,"api_key":"a","secret_key":"s"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestRestore_RequiresKeys(t *testing.T) {
	if _, err := Restore(Snapshot{APIKey: "a"}, Config{Transport: newFakeTransport()}); err == nil {
		t.Fatal("expected error for a snapshot without a secret key")
	}
}
