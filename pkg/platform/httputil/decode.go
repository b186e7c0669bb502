package httputil

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	dErrors "nexuscomply/pkg/domain-errors"
)

// maxBodyBytes bounds console request bodies.
const maxBodyBytes = 1 << 20

// DecodeJSON decodes a JSON request body into the target type.
// Returns the decoded value and true on success.
// On failure, writes an error response and returns nil, false.
//
// Usage:
//
//	req, ok := httputil.DecodeJSON[loginRequest](w, r, h.logger, ctx, requestID)
//	if !ok {
//	    return
//	}
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	if err := render.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}
	return &req, true
}
