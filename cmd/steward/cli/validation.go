// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ValidationError marks bad command invocation input: wrong argument
// count, unparseable values, impossible flag combinations. When a Run
// function returns one, [Command.Execute] appends a pointer to the
// command's --help so the user can see the expected shape.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *ValidationError) Unwrap() error { return e.Err }

// Validation creates a ValidationError from a format string.
func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Err: fmt.Errorf(format, args...)}
}
