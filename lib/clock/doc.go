// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Production code accepts a Clock instead of calling time.Now directly.
// In production, Real() provides the standard library behavior. In
// tests, Fake() provides a clock that only moves when told to:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	s := session.New(session.Config{..., Clock: c})
//	c.Advance(2 * time.Hour) // past the session's expiry
package clock
