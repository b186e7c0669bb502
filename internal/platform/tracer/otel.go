package tracer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dErrors "nexuscomply/pkg/domain-errors"
)

// InstrumentationName is the scope of the backend client's spans.
const InstrumentationName = "nexuscomply/internal/backend"

// OTelTracer records backend calls as OpenTelemetry client spans.
type OTelTracer struct {
	tracer trace.Tracer
	common []attribute.KeyValue
}

type OTelOption func(*OTelTracer)

// WithOTelTracer records on t instead of the global provider's tracer.
func WithOTelTracer(t trace.Tracer) OTelOption {
	return func(o *OTelTracer) {
		o.tracer = t
	}
}

// WithBackendURL tags every span with the backend base URL.
func WithBackendURL(url string) OTelOption {
	return func(o *OTelTracer) {
		if url != "" {
			o.common = append(o.common, attribute.String(AttrBackendURL, url))
		}
	}
}

func NewOTel(opts ...OTelOption) *OTelTracer {
	t := &OTelTracer{}
	for _, opt := range opts {
		opt(t)
	}
	if t.tracer == nil {
		t.tracer = otel.Tracer(InstrumentationName)
	}
	return t
}

// Start opens a client span. Per-call attributes follow the common ones, so
// a per-call value wins on a key clash.
func (t *OTelTracer) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	kv := make([]attribute.KeyValue, 0, len(t.common)+len(attrs))
	kv = append(kv, t.common...)
	kv = append(kv, toOTelAttributes(attrs)...)
	ctx, span := t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(kv...),
	)
	return ctx, &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
	once sync.Once
}

// End marks a failed call with its domain error code and the message a user
// would see. Only the first call has an effect.
func (s *otelSpan) End(err error) {
	s.once.Do(func() {
		if err != nil {
			s.span.RecordError(err)
			s.span.SetAttributes(attribute.String(AttrErrorCode, string(dErrors.CodeOf(err))))
			s.span.SetStatus(codes.Error, dErrors.MessageOr(err, err.Error()))
		}
		s.span.End()
	})
}

func (s *otelSpan) SetAttributes(attrs ...Attribute) {
	s.span.SetAttributes(toOTelAttributes(attrs)...)
}

func (s *otelSpan) AddEvent(name string, attrs ...Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(toOTelAttributes(attrs)...))
}

// toOTelAttributes converts attribute values. Durations become
// milliseconds; any other unknown type is recorded through fmt.
func toOTelAttributes(attrs []Attribute) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			out = append(out, attribute.String(a.Key, v))
		case bool:
			out = append(out, attribute.Bool(a.Key, v))
		case int64:
			out = append(out, attribute.Int64(a.Key, v))
		case int:
			out = append(out, attribute.Int(a.Key, v))
		case float64:
			out = append(out, attribute.Float64(a.Key, v))
		case time.Duration:
			out = append(out, attribute.Int64(a.Key, v.Milliseconds()))
		case []string:
			out = append(out, attribute.StringSlice(a.Key, v))
		case nil:
		default:
			out = append(out, attribute.String(a.Key, fmt.Sprint(v)))
		}
	}
	return out
}

var (
	_ Tracer = (*OTelTracer)(nil)
	_ Span   = (*otelSpan)(nil)
)
