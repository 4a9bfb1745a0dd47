// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the wall clock for testability. Production code
// injects Real(); tests inject Fake() and move time explicitly.
//
// Session expiry checks and call id generation read the time through a
// Clock so that tests can place a session on either side of its
// expiry boundary without sleeping.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
