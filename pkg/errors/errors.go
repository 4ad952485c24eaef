// Package errors provides structured error types for the treestore CLI and
// HTTP API.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND / UNKNOWN_*: Resource not found
//   - CONFLICT, CYCLE: The request contradicts the current tree
//   - INTERNAL_*: Unexpected internal errors
//
// # Tree Errors
//
// The tree package reports failures with plain sentinel errors. [FromTree]
// classifies them so callers at the edges (CLI exit messages, HTTP status
// codes) can switch on a [Code] instead of on individual sentinels:
//
//	if err := store.Add(rec); err != nil {
//	    return errors.FromTree(err)
//	}
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid id: %q", raw)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "failed to decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Takheer/mstroy-test/pkg/tree"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidID     Code = "INVALID_ID"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeUnknownParent Code = "UNKNOWN_PARENT"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Structural errors
	ErrCodeConflict Code = "CONFLICT"
	ErrCodeCycle    Code = "CYCLE"

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

// Error implements the error interface. The cause is omitted when the
// message already repeats it.
func (e *Error) Error() string {
	if e.Cause != nil && e.Message != e.Cause.Error() {
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

// FromTree classifies an error returned by the tree package. Errors that
// already carry a code, and nil, are returned unchanged. Anything that is
// not a tree sentinel becomes ErrCodeInternal.
func FromTree(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	code := ErrCodeInternal
	switch {
	case errors.Is(err, tree.ErrInvalidID):
		code = ErrCodeInvalidID
	case errors.Is(err, tree.ErrDuplicateIdentifier):
		code = ErrCodeConflict
	case errors.Is(err, tree.ErrUnknownParent):
		code = ErrCodeUnknownParent
	case errors.Is(err, tree.ErrUnknownIdentifier):
		code = ErrCodeNotFound
	case errors.Is(err, tree.ErrCyclicStructure):
		code = ErrCodeCycle
	}
	return &Error{Code: code, Message: err.Error(), Cause: err}
}

// HTTPStatus maps a code to the status the API responds with.
// Unknown and empty codes map to 500.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidID, ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeConflict, ErrCodeCycle:
		return http.StatusConflict
	case ErrCodeUnknownParent:
		return http.StatusUnprocessableEntity
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
