// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signature

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand/v2"
	"testing"
)

func TestCanonical(t *testing.T) {
	params := map[string]string{
		"v":       "1.0",
		"method":  "facebook.auth.createToken",
		"api_key": "abc",
	}
	got := Canonical(params)
	want := "api_key=abcmethod=facebook.auth.createTokenv=1.0"
	if got != want {
		t.Errorf("Canonical = %q, want %q", got, want)
	}
}

func TestSign_KnownVector(t *testing.T) {
	params := map[string]string{
		"api_key": "abc",
		"method":  "facebook.auth.createToken",
		"v":       "1.0",
	}
	raw := "api_key=abcmethod=facebook.auth.createTokenv=1.0" + "s3cr3t"
	digest := md5.Sum([]byte(raw))
	want := hex.EncodeToString(digest[:])

	if got := Sign(params, "s3cr3t"); got != want {
		t.Errorf("Sign = %q, want %q", got, want)
	}
}

func TestSign_EmptyParams(t *testing.T) {
	digest := md5.Sum([]byte("secret"))
	want := hex.EncodeToString(digest[:])
	if got := Sign(map[string]string{}, "secret"); got != want {
		t.Errorf("Sign(empty) = %q, want %q", got, want)
	}
}

func TestSign_OrderIndependent(t *testing.T) {
	keys := []string{"api_key", "call_id", "method", "session_key", "uid", "v", "format", "query"}
	values := []string{"k", "1700000000.5", "facebook.fql.query", "sess-1", "42", "1.0", "XML", "SELECT name FROM user WHERE uid=42"}

	reference := make(map[string]string, len(keys))
	for i, key := range keys {
		reference[key] = values[i]
	}
	want := Sign(reference, "secret")

	random := rand.New(rand.NewPCG(1, 2))
	for trial := range 50 {
		order := random.Perm(len(keys))
		shuffled := make(map[string]string, len(keys))
		for _, index := range order {
			shuffled[keys[index]] = values[index]
		}
		if got := Sign(shuffled, "secret"); got != want {
			t.Fatalf("trial %d: signature changed under reordering: %q != %q", trial, got, want)
		}
	}
}

func TestSign_ChangesWithContent(t *testing.T) {
	base := map[string]string{
		"api_key": "key",
		"method":  "facebook.events.get",
		"uid":     "42",
		"v":       "1.0",
	}
	original := Sign(base, "secret")

	tests := []struct {
		name   string
		mutate func(map[string]string)
		secret string
	}{
		{name: "value changed", mutate: func(p map[string]string) { p["uid"] = "43" }, secret: "secret"},
		{name: "key added", mutate: func(p map[string]string) { p["eids"] = "1,2" }, secret: "secret"},
		{name: "key removed", mutate: func(p map[string]string) { delete(p, "uid") }, secret: "secret"},
		{name: "method changed", mutate: func(p map[string]string) { p["method"] = "facebook.events.getMembers" }, secret: "secret"},
		{name: "secret changed", mutate: func(map[string]string) {}, secret: "secret2"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			params := make(map[string]string, len(base))
			for key, value := range base {
				params[key] = value
			}
			test.mutate(params)
			if got := Sign(params, test.secret); got == original {
				t.Errorf("signature unchanged after mutation: %q", got)
			}
		})
	}
}

func TestVerify(t *testing.T) {
	params := map[string]string{"a": "1", "b": "2"}
	sig := Sign(params, "secret")

	if !Verify(params, "secret", sig) {
		t.Error("Verify rejected a valid signature")
	}
	if Verify(params, "other", sig) {
		t.Error("Verify accepted a signature under the wrong secret")
	}
}

func TestJoinList(t *testing.T) {
	if got := JoinList([]string{"1", "2", "3"}); got != "1,2,3" {
		t.Errorf("JoinList = %q, want %q", got, "1,2,3")
	}
	if got := JoinList(nil); got != "" {
		t.Errorf("JoinList(nil) = %q, want empty", got)
	}
}

func TestJoinIDs(t *testing.T) {
	if got := JoinIDs([]int64{100, 200}); got != "100,200" {
		t.Errorf("JoinIDs = %q, want %q", got, "100,200")
	}
}
