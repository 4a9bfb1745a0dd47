// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rest

import (
	"errors"
	"fmt"
)

// Error kinds reported by the REST server. An [*APIError] matches the
// sentinel for its code under errors.Is.
var (
	ErrUnknown                   = errors.New("unknown error")
	ErrServiceUnavailable        = errors.New("service unavailable")
	ErrMaxRequestsDepleted       = errors.New("max requests depleted")
	ErrHostNotAllowed            = errors.New("host not allowed")
	ErrMissingOrInvalidParameter = errors.New("missing or invalid parameter")
	ErrInvalidAPIKey             = errors.New("invalid API key")
	ErrSessionExpired            = errors.New("session expired")
	ErrCallOutOfOrder            = errors.New("call out of order")
	ErrIncorrectSignature        = errors.New("incorrect signature")

	ErrFQLParse                 = errors.New("FQL parse error")
	ErrFQLFieldDoesNotExist     = errors.New("FQL field does not exist")
	ErrFQLTableDoesNotExist     = errors.New("FQL table does not exist")
	ErrFQLStatementNotIndexable = errors.New("FQL statement not indexable")
	ErrFQLFunctionDoesNotExist  = errors.New("FQL function does not exist")
	ErrFQLWrongArgumentCount    = errors.New("FQL wrong number of arguments passed to function")
)

// ErrTransport marks failures below the protocol: connection errors,
// TLS failures, timeouts, and non-2xx HTTP statuses. The REST server
// reports its own errors with HTTP 200 and an error document, so
// anything tagged ErrTransport never reached the application layer.
var ErrTransport = errors.New("transport failure")

// errorKinds maps the server's numeric error codes to their kinds.
var errorKinds = map[int]error{
	1:   ErrUnknown,
	2:   ErrServiceUnavailable,
	4:   ErrMaxRequestsDepleted,
	5:   ErrHostNotAllowed,
	100: ErrMissingOrInvalidParameter,
	101: ErrInvalidAPIKey,
	102: ErrSessionExpired,
	103: ErrCallOutOfOrder,
	104: ErrIncorrectSignature,
	601: ErrFQLParse,
	602: ErrFQLFieldDoesNotExist,
	603: ErrFQLTableDoesNotExist,
	604: ErrFQLStatementNotIndexable,
	605: ErrFQLFunctionDoesNotExist,
	606: ErrFQLWrongArgumentCount,
}

// APIError is an error document returned by the REST server.
type APIError struct {
	// Code is the platform's numeric error code (error_code).
	Code int

	// Message is the server's description (error_msg).
	Message string

	// Method is the API method that failed, when known.
	Method string
}

func (err *APIError) Error() string {
	if err.Method != "" {
		return fmt.Sprintf("rest: %s: error %d: %s", err.Method, err.Code, err.Message)
	}
	return fmt.Sprintf("rest: error %d: %s", err.Code, err.Message)
}

// Kind returns the sentinel for err's code. Codes without a sentinel
// are reported as ErrUnknown.
func (err *APIError) Kind() error {
	if kind, ok := errorKinds[err.Code]; ok {
		return kind
	}
	return ErrUnknown
}

// Is reports whether target is the sentinel for err's code.
func (err *APIError) Is(target error) bool {
	return err.Kind() == target
}

// StatusError is a non-2xx HTTP response. It wraps ErrTransport.
type StatusError struct {
	StatusCode int
	Body       string
}

func (err *StatusError) Error() string {
	return fmt.Sprintf("rest: HTTP %d: %s", err.StatusCode, err.Body)
}

func (err *StatusError) Unwrap() error { return ErrTransport }

// IsSessionExpired reports whether err is a session-expired error. The
// caller must run the establish-session flow again; nothing refreshes
// automatically.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// IsIncorrectSignature reports whether the server rejected the call's
// signature.
func IsIncorrectSignature(err error) bool {
	return errors.Is(err, ErrIncorrectSignature)
}

// IsFQLError reports whether err is any of the structured-query errors.
func IsFQLError(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.Code >= 601 && apiError.Code <= 606
}

// IsTransient reports whether err is a temporary condition that may
// succeed if the caller tries again later: transport failures, HTTP 5xx
// and 429, the server's service-unavailable code, and quota depletion.
// Everything else (bad signatures, expired sessions, FQL errors,
// invalid parameters) will fail the same way on retry.
func IsTransient(err error) bool {
	var statusError *StatusError
	if errors.As(err, &statusError) {
		return statusError.StatusCode >= 500 || statusError.StatusCode == 429
	}
	if errors.Is(err, ErrTransport) {
		return true
	}
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrMaxRequestsDepleted)
}
