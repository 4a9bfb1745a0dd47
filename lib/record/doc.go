// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package record holds the typed values hydrated from REST replies:
// users, photos, albums, tags, events, and event attendance.
//
// Each type has a FromMap constructor that reads the fields it knows
// from a generic reply object and keeps the full object in Fields, so
// callers can reach attributes this package does not model. Missing or
// malformed fields are left at their zero value; hydration never fails.
package record
