// Package tracer provides a small tracing abstraction for outbound backend calls.
//
// Callers depend on the Tracer and Span interfaces only, so the backend client
// can emit spans without importing OpenTelemetry throughout the codebase.
//
// Implementations:
//   - NoopTracer: for tests
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context carries the span and should be passed to child operations.
	//
	// Backend calls go through StartBackendCall rather than calling Start directly.
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute stored as int64.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Attribute keys used by the backend client.
const (
	AttrHTTPMethod     = "http.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.status_code"
	AttrRequestID      = "request_id"
	AttrErrorCode      = "error.code"
	AttrAuthenticated  = "session.authenticated"
	AttrBackendURL     = "server.url"
)

// Event names used by the backend client.
const (
	EventBreakerRejected = "breaker.rejected"
	EventUnauthorized    = "session.unauthorized"
)

// BackendCall describes one outbound call to the license backend.
type BackendCall struct {
	Method        string
	Route         string
	RequestID     string
	Authenticated bool
}

// SpanName is "{method} {route}", the usual name of an HTTP client span.
// Routes are templates, so names stay low-cardinality.
func (c BackendCall) SpanName() string {
	return c.Method + " " + c.Route
}

func (c BackendCall) Attributes() []Attribute {
	return []Attribute{
		String(AttrHTTPMethod, c.Method),
		String(AttrHTTPRoute, c.Route),
		String(AttrRequestID, c.RequestID),
		Bool(AttrAuthenticated, c.Authenticated),
	}
}

// StartBackendCall opens the span of one backend call.
func StartBackendCall(ctx context.Context, t Tracer, c BackendCall) (context.Context, Span) {
	return t.Start(ctx, c.SpanName(), c.Attributes()...)
}
