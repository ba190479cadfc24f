// Package errors provides structured error types for the Trackstack application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library entry points
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND / AMBIGUOUS_*: Data file lookup failures
//   - STORE_* / MALFORMED_*: On-disk store failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRegion, "region start %d >= stop %d", start, stop)
//	if errors.Is(err, errors.ErrCodeInvalidRegion) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStoreIO, origErr, "failed to read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidRegion Code = "INVALID_REGION"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidChrom  Code = "INVALID_CHROMOSOME"

	// Coordinate resolution errors
	ErrCodeUnknownChrom   Code = "UNKNOWN_CHROMOSOME"
	ErrCodeEmptySelection Code = "EMPTY_SELECTION"

	// Data file lookup errors
	ErrCodeNoFileFound   Code = "NO_FILE_FOUND"
	ErrCodeAmbiguousFile Code = "AMBIGUOUS_FILE"

	// On-disk store errors
	ErrCodeStoreIO          Code = "STORE_IO"
	ErrCodeMalformedWindows Code = "MALFORMED_WINDOWS"
	ErrCodeMalformedMatrix  Code = "MALFORMED_MATRIX"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
