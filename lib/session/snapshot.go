// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
)

// Snapshot is the persisted form of a Session: exactly what is needed
// to recreate it. Memoized query results are not part of it.
//
// UID and Expires are nil before authentication.
type Snapshot struct {
	SessionKey    string `json:"session_key,omitempty"`
	UID           *int64 `json:"uid,omitempty"`
	Expires       *int64 `json:"expires,omitempty"`
	SessionSecret string `json:"session_secret,omitempty"`
	AuthToken     string `json:"auth_token,omitempty"`
	APIKey        string `json:"api_key"`
	SecretKey     string `json:"secret_key"`
}

// Snapshot captures the session's persistent state.
func (session *Session) Snapshot() Snapshot {
	snapshot := Snapshot{
		APIKey:    session.apiKey,
		SecretKey: session.secretKey,
	}
	if token, ok := session.authToken.peek(); ok {
		snapshot.AuthToken = token
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	snapshot.SessionKey = session.sessionKey
	snapshot.SessionSecret = session.sessionSecret
	if session.hasUID {
		uid := session.uid
		snapshot.UID = &uid
	}
	if session.hasExpires {
		expires := session.expires
		snapshot.Expires = &expires
	}
	return snapshot
}

// Restore recreates a Session from a snapshot. The keys come from the
// snapshot; everything else (transport, policy, clock, logger, base
// URLs) comes from config, whose APIKey and SecretKey are ignored.
func Restore(snapshot Snapshot, config Config) (*Session, error) {
	config.APIKey = snapshot.APIKey
	config.SecretKey = snapshot.SecretKey
	session, err := New(config)
	if err != nil {
		return nil, fmt.Errorf("session: restoring snapshot: %w", err)
	}

	if snapshot.AuthToken != "" {
		session.authToken.set(snapshot.AuthToken)
	}
	session.sessionKey = snapshot.SessionKey
	session.sessionSecret = snapshot.SessionSecret
	if snapshot.UID != nil {
		session.uid = *snapshot.UID
		session.hasUID = true
	}
	if snapshot.Expires != nil {
		session.expires = *snapshot.Expires
		session.hasExpires = true
	}
	return session, nil
}
