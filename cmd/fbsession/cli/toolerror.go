// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so scripts can react to the
// exit status without parsing error text.
type ErrorCategory string

const (
	// CategoryValidation: bad arguments or flags. Fix the input.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: no stored session under the requested name.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryTransient: the platform is unavailable or throttling.
	// Retrying later may succeed.
	CategoryTransient ErrorCategory = "transient"
)

// exitCodes maps categories to process exit statuses. Uncategorized
// errors exit 1.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryNotFound:   3,
	CategoryTransient:  4,
}

// ToolError is a categorized command error. It wraps the underlying
// error so errors.Is and errors.As still see the full chain.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// Status returns the process exit status for the error's category.
func (e *ToolError) Status() int {
	if code, ok := exitCodes[e.Category]; ok {
		return code
	}
	return 1
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound wraps err as a not-found error.
func NotFound(err error) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: err}
}

// Transient wraps err as a transient error.
func Transient(err error) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: err}
}
