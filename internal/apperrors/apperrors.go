package apperrors

import (
	"errors"
	"fmt"
)

// Code identifies a failure condition that callers are allowed to react to.
type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeRateUnavailable Code = "RATE_UNAVAILABLE"
	CodeUpstreamTimeout Code = "UPSTREAM_TIMEOUT"
	CodeLocked          Code = "LOCKED"
	CodeInternal        Code = "INTERNAL_ERROR"
)

// Error is a coded error crossing the service boundary. Internal causes are
// kept for logging but never rendered to the caller.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func InvalidState(msg string) *Error {
	return &Error{Code: CodeInvalidState, Message: msg}
}

func RateUnavailable(msg string) *Error {
	return &Error{Code: CodeRateUnavailable, Message: msg}
}

func UpstreamTimeout(msg string) *Error {
	return &Error{Code: CodeUpstreamTimeout, Message: msg}
}

func Locked(msg string) *Error {
	return &Error{Code: CodeLocked, Message: msg}
}

// Internal wraps an unexpected error. The cause is logged server-side; the
// caller only ever sees the generic message.
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", cause: cause}
}

// CodeOf extracts the condition code from err, treating anything uncoded as
// an internal failure.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given condition code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
