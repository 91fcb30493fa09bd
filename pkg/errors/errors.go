// Package errors provides structured error types for notegraph.
//
// This package defines error codes and types that enable:
//   - Consistent error reporting across the CLI, the view, and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into the three classes the build distinguishes:
//   - fatal: INVALID_PATH, NOT_A_DIRECTORY, NO_DOCUMENTS abort before the
//     interactive phase starts
//   - per-document: UNREADABLE_DOCUMENT is recorded and the build continues
//   - usage: INVALID_CONFIG, INVALID_FORMAT, INVALID_ARGUMENT
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoDocuments, "no .md files under %s", root)
//	if errors.Is(err, errors.ErrCodeNoDocuments) {
//	    // Handle empty corpus
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeUnreadable, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Fatal discovery errors
	ErrCodeInvalidPath  Code = "INVALID_PATH"
	ErrCodeNotDirectory Code = "NOT_A_DIRECTORY"
	ErrCodeNoDocuments  Code = "NO_DOCUMENTS"

	// Per-document errors
	ErrCodeUnreadable Code = "UNREADABLE_DOCUMENT"

	// Usage errors
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"

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

// IsFatal reports whether err carries one of the codes that must stop a run
// before the interactive phase.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidPath, ErrCodeNotDirectory, ErrCodeNoDocuments:
		return true
	}
	return false
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
