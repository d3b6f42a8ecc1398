// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrEntryNotFound is returned when the unit has no entry function.
	ErrEntryNotFound = errors.New("entry function not found")

	// ErrTooFewParams is returned when a traced argument index is past the
	// end of the callee's parameter list.
	ErrTooFewParams = errors.New("callee has too few parameters")
)

// Error reports an aborted inference.
type Error struct {
	// Function is the function being resolved when inference stopped.
	Function string

	// Param is the parameter index involved, or -1.
	Param int

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Param >= 0 {
		return fmt.Sprintf("analyzer: %s parameter %d: %v", e.Function, e.Param, e.Err)
	}
	return fmt.Sprintf("analyzer: %s: %v", e.Function, e.Err)
}

// Unwrap returns the sentinel cause.
func (e *Error) Unwrap() error { return e.Err }
