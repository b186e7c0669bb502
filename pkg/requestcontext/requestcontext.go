// Package requestcontext carries request-scoped values (request ID, request time)
// through context.Context for the console transport and the backend client.
package requestcontext

import (
	"context"
	"time"
)

type contextKeyRequestID struct{}
type contextKeyRequestTime struct{}

// WithRequestID stores the request ID in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, requestID)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyRequestID{}).(string); ok {
		return id
	}
	return ""
}

// WithTime injects a specific time into a context.
// Useful for:
//   - Unit tests of time-derived license state
//   - CLI commands that render a whole page against one instant
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyRequestTime{}, t)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKeyRequestTime{}).(time.Time); ok {
		return t
	}
	return time.Now()
}
