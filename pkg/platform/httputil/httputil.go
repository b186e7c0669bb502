package httputil

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	dErrors "nexuscomply/pkg/domain-errors"
)

// ErrorResponse is the body of every console error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func WriteJSON(w http.ResponseWriter, r *http.Request, status int, response any) {
	render.Status(r, status)
	render.JSON(w, r, response)
}

// WriteError centralizes domain error translation to HTTP responses.
// It translates transport-agnostic domain errors into HTTP status codes and error responses.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		WriteJSON(w, r, StatusOf(err), ErrorResponse{
			Error:   string(domainErr.Code),
			Message: domainErr.Message,
		})
		return
	}

	// Fallback for unexpected errors
	WriteJSON(w, r, http.StatusInternalServerError, ErrorResponse{
		Error: string(dErrors.CodeInternal),
	})
}

// statusCoder is implemented by errors that carry an upstream HTTP status.
type statusCoder interface {
	StatusCode() int
}

// StatusOf translates err to an HTTP status. A rejected backend request
// mirrors the backend's 4xx status when one is known and is a 502 otherwise.
func StatusOf(err error) int {
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeRequest {
		var sc statusCoder
		if errors.As(err, &sc) && sc.StatusCode() >= 400 && sc.StatusCode() < 500 {
			return sc.StatusCode()
		}
		return http.StatusBadGateway
	}
	return DomainCodeToHTTPStatus(code)
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNetwork:
		return http.StatusServiceUnavailable
	case dErrors.CodeRequest:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
