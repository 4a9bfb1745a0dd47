// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNonSessionUser is returned when a call names a user other than
	// the session's authenticated user and the session's policy
	// forbids that.
	ErrNonSessionUser = errors.New("user is not the logged in user")

	// ErrMissingArgument is returned when an operation needs at least
	// one of several optional arguments and got none.
	ErrMissingArgument = errors.New("missing argument")

	// ErrInvalidInteger is returned when a value that must be an
	// integer (uid, expires) is not.
	ErrInvalidInteger = errors.New("invalid integer")

	// ErrNoSessionSecret is returned by the token policy when an
	// ordinary method is called before a session secret exists.
	ErrNoSessionSecret = errors.New("no session secret; establish a session first")
)

// NonSessionUserError describes a rejected cross-user call.
type NonSessionUserError struct {
	Method       string
	SessionUID   int64
	RequestedUID string
}

func (err *NonSessionUserError) Error() string {
	return fmt.Sprintf("session: %s: user %q is not the logged in user (%d)", err.Method, err.RequestedUID, err.SessionUID)
}

func (err *NonSessionUserError) Unwrap() error { return ErrNonSessionUser }

// CoercionError reports a field that could not be read as an integer.
type CoercionError struct {
	Field string
	Value string
	Err   error
}

func (err *CoercionError) Error() string {
	return fmt.Sprintf("session: %s %q is not an integer: %v", err.Field, err.Value, err.Err)
}

// Unwrap exposes both the ErrInvalidInteger kind and the underlying
// strconv error.
func (err *CoercionError) Unwrap() []error { return []error{ErrInvalidInteger, err.Err} }
