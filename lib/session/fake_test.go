// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/fbsession/lib/clock"
	"github.com/bureau-foundation/fbsession/lib/rest"
)

// fakeTransport records every dispatched parameter set and answers
// from a per-method script.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []rest.Params
	replies map[string]*rest.Response
	errors  map[string]error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		replies: make(map[string]*rest.Response),
		errors:  make(map[string]error),
	}
}

func (transport *fakeTransport) reply(method string, response *rest.Response) {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	transport.replies[method] = response
}

func (transport *fakeTransport) fail(method string, err error) {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	transport.errors[method] = err
}

func (transport *fakeTransport) Post(ctx context.Context, params rest.Params) (*rest.Response, error) {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	transport.calls = append(transport.calls, params.Clone())
	method := params["method"]
	if err := transport.errors[method]; err != nil {
		return nil, err
	}
	if response, ok := transport.replies[method]; ok {
		return response, nil
	}
	return nil, fmt.Errorf("fake transport: no reply scripted for %s", method)
}

// callsTo returns the recorded calls of one method.
func (transport *fakeTransport) callsTo(method string) []rest.Params {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	var matching []rest.Params
	for _, call := range transport.calls {
		if call["method"] == method {
			matching = append(matching, call)
		}
	}
	return matching
}

func (transport *fakeTransport) callCount() int {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	return len(transport.calls)
}

func (transport *fakeTransport) lastCall(t *testing.T) rest.Params {
	t.Helper()
	transport.mu.Lock()
	defer transport.mu.Unlock()
	if len(transport.calls) == 0 {
		t.Fatal("no calls recorded")
	}
	return transport.calls[len(transport.calls)-1]
}

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	testAPIKey    = "test-api-key"
	testSecretKey = "test-secret-key"
)

// newTestSession returns a Session on a fake transport and fake clock.
func newTestSession(t *testing.T, policy Policy) (*Session, *fakeTransport, *clock.FakeClock) {
	t.Helper()
	transport := newFakeTransport()
	fakeClock := clock.Fake(testEpoch)
	session, err := New(Config{
		APIKey:    testAPIKey,
		SecretKey: testSecretKey,
		Transport: transport,
		Policy:    policy,
		Clock:     fakeClock,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return session, transport, fakeClock
}

// scriptSession makes the fake transport answer the bootstrap calls.
func scriptSession(transport *fakeTransport, uid string, expires string, secret string) {
	transport.reply(MethodCreateToken, &rest.Response{Value: "token-abc"})
	transport.reply(MethodGetSession, &rest.Response{Value: map[string]any{
		"session_key": "session-key-1",
		"uid":         uid,
		"expires":     expires,
		"secret":      secret,
	}})
}
