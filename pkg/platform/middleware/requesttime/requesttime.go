// Package requesttime provides middleware that pins one "now" per request.
// Every license row rendered by a request is classified against the same instant,
// so a page never mixes expiry decisions taken on either side of midnight.
package requesttime

import (
	"net/http"
	"time"

	"nexuscomply/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request
// and stores it in the context for consistent time references throughout the request.
func Middleware(next http.Handler) http.Handler {
	return WithClock(time.Now)(next)
}

// WithClock is Middleware with an injectable time source.
func WithClock(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), now())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
