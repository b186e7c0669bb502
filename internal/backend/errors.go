package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	dErrors "nexuscomply/pkg/domain-errors"
)

// errorBody is the backend's error envelope. Spring style bodies carry both
// fields, in which case message is the human-readable one.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// StatusError keeps the HTTP status of a rejected call below the domain error.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend status %d", e.Status)
}

// StatusCode lets transports mirror the backend's status without importing this package.
func (e *StatusError) StatusCode() int { return e.Status }

// Status returns the HTTP status carried by err, or 0 when the call never
// produced a response.
func Status(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// BackendMessage returns the message the backend put in its error body, if any.
func BackendMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

func classifyStatus(status int, body []byte) error {
	msg := extractMessage(body)
	cause := &StatusError{Status: status, Message: msg}

	var code dErrors.Code
	switch status {
	case http.StatusUnauthorized:
		code = dErrors.CodeUnauthorized
	case http.StatusForbidden:
		code = dErrors.CodeForbidden
	case http.StatusNotFound:
		code = dErrors.CodeNotFound
	default:
		code = dErrors.CodeRequest
	}

	if msg == "" {
		msg = fallbackMessage(status)
	}
	return &dErrors.Error{Code: code, Message: msg, Err: cause}
}

func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal([]byte(trimmed), &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		return eb.Error
	}
	return ""
}

func fallbackMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "not authenticated"
	case http.StatusForbidden:
		return "not permitted"
	case http.StatusNotFound:
		return "not found"
	}
	if status >= http.StatusInternalServerError {
		return "backend error, try again later"
	}
	return fmt.Sprintf("request rejected by backend (status %d)", status)
}
