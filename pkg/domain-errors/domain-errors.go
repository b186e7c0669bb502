package domainerrors

import "errors"

// Code represents a console error category independent of the transport layer.
// Codes describe what went wrong from the operator's point of view, not in HTTP terms.
type Code string

const (
	// CodeValidation is a client-local pre-flight failure. It never reaches the network.
	CodeValidation Code = "validation_failed"
	// CodeUnauthorized covers invalid credentials and invalid or expired recovery tokens.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden is a role mismatch. It is resolved to a redirect or a hidden control.
	CodeForbidden Code = "forbidden"
	// CodeNetwork means the backend could not be reached (transport failure, timeout, open breaker).
	CodeNetwork Code = "network_error"
	// CodeRequest means the backend answered but rejected the request.
	CodeRequest    Code = "request_failed"
	CodeNotFound   Code = "not_found"
	CodeBadRequest Code = "bad_request"
	CodeInternal   Code = "internal_error"
)

// Error wraps console or backend failures with a stable code.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost domain error in the chain,
// or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOr returns the message of the outermost domain error, or fallback
// when the error carries no usable message.
func MessageOr(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
