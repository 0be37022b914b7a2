// Package errors provides structured error types for yamlviz.
//
// Errors carry a machine-readable [Code] so that the CLI, the HTTP relay and
// the MCP tools can all react to the same failure in their own way: the CLI
// prints the user message, the server maps the code to a status, and the
// pipeline records per-document failures without aborting the batch.
//
// # Error Codes
//
//   - PARSE_ERROR, EMPTY_DOCUMENT: per-document, non-fatal
//   - LAYOUT_PRECONDITION: internal consistency fault in the layout input
//   - EXTERNAL_SERVICE: the fix relay or export backend failed
//   - INVALID_*: input or configuration validation failures
//   - INTERNAL_ERROR: anything unexpected
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", f)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeExternalService, origErr, "fix request failed")
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Document errors
	ErrCodeParse              Code = "PARSE_ERROR"
	ErrCodeEmptyDocument      Code = "EMPTY_DOCUMENT"
	ErrCodeLayoutPrecondition Code = "LAYOUT_PRECONDITION"

	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeTooLarge         Code = "TOO_LARGE"

	// Auto-fix and export collaborators
	ErrCodeExternalService Code = "EXTERNAL_SERVICE"
	ErrCodeFixUnavailable  Code = "FIX_UNAVAILABLE"
	ErrCodeFixInProgress   Code = "FIX_IN_PROGRESS"
	ErrCodeTimeout         Code = "TIMEOUT"
	ErrCodeUnauthorized    Code = "UNAUTHORIZED"

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
// External service failures keep their cause so the upstream reason is
// shown verbatim.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Code == ErrCodeExternalService && e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the status code the HTTP relay responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeParse, ErrCodeEmptyDocument, ErrCodeInvalidInput, ErrCodeInvalidFormat,
		ErrCodeInvalidDirection, ErrCodeInvalidPath:
		return http.StatusBadRequest
	case ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeFixUnavailable:
		return http.StatusUnprocessableEntity
	case ErrCodeFixInProgress:
		return http.StatusConflict
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeExternalService:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
