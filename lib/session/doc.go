// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session manages an authenticated session against the
// platform REST API.
//
// A [Session] holds the application's keys and, once established, the
// session key, user id, expiry, and session secret the server issued.
// Every call goes through [Session.Post], which adds the protocol
// fields (method, api_key, v, call_id, session_key), signs the result
// with [signature.Sign], and hands it to a [Transport].
//
// Variants differ only in their [Policy]:
//
//   - [WebPolicy] signs everything with the application secret.
//   - [CanvasPolicy] additionally requests canvas display from the
//     login page.
//   - [TokenPolicy] (installed applications) signs only the bootstrap
//     calls with the application secret and everything else with the
//     session secret, appends the auth token to the login URL, and
//     refuses profile markup calls for any user but the session's own.
//
// Sessions never refresh themselves. [Session.Expired] and
// [Session.Secured] observe expiry; re-establishing is the caller's
// call to [Session.Secure]. Remote errors come back as *rest.APIError
// values and are never retried here.
//
// [Session.Snapshot] and [Restore] persist and recreate a session. The
// sessionstore package stores snapshots.
package session
