// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessionstore persists session snapshots by name.
//
// A [Store] encodes a session.Snapshot (JSON or deterministic CBOR),
// optionally seals it with age, and hands the bytes to a [Backend]:
// [FileBackend] keeps one owner-only file per session, [RedisBackend]
// keeps one key per session with a TTL matching the session's expiry.
//
// Sealed values carry a prefix, so a store configured with identities
// reads both sealed and plain snapshots and sealing can be turned on
// without migrating existing ones.
package sessionstore
