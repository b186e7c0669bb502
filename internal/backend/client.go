// Package backend is the REST client of the license backend. It owns the
// transport concerns of every call: bearer token, request ID, per-request
// timeout, rate limiting, circuit breaking, tracing, metrics and error
// classification into domain error codes.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"nexuscomply/internal/platform/tracer"
	dErrors "nexuscomply/pkg/domain-errors"
	"nexuscomply/pkg/platform/circuit"
	"nexuscomply/pkg/requestcontext"
)

//go:generate mockgen -source=client.go -destination=mocks/mocks.go -package=mocks HTTPDoer,TokenSource

const (
	defaultTimeout  = 15 * time.Second
	maxResponseBody = 4 << 20
	headerRequestID = "X-Request-ID"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token for authenticated calls.
// An empty token sends the request without an Authorization header.
type TokenSource interface {
	BearerToken(ctx context.Context) string
}

// UnauthorizedHook is invoked when an authenticated call is answered with 401.
type UnauthorizedHook func(ctx context.Context, reason string)

// Client calls the license backend.
type Client struct {
	baseURL        string
	http           HTTPDoer
	timeout        time.Duration
	limiter        *rate.Limiter
	breaker        *circuit.Breaker
	tracer         tracer.Tracer
	metrics        *Metrics
	logger         *slog.Logger
	tokens         TokenSource
	onUnauthorized UnauthorizedHook
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithTimeout bounds every call, including rate-limit waits. Default is 15s.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit limits outbound calls to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithBreaker installs a circuit breaker around transport failures.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

// WithTracer sets the span tracer. Default is a no-op tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithMetrics records call outcomes and latency.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithUnauthorizedHook registers the callback fired on 401 for authenticated calls.
func WithUnauthorizedHook(h UnauthorizedHook) Option {
	return func(c *Client) {
		c.onUnauthorized = h
	}
}

// New creates a client for the backend rooted at baseURL (for example
// "http://localhost:8080/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		timeout: defaultTimeout,
		tracer:  tracer.NewNoop(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		// Deadlines come from the per-call context.
		c.http = &http.Client{}
	}
	return c
}

// SetTokenSource wires the token source after construction. The session
// service depends on the client, so main builds the client first.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// SetUnauthorizedHook wires the 401 callback after construction.
func (c *Client) SetUnauthorizedHook(h UnauthorizedHook) {
	c.onUnauthorized = h
}

// call describes one backend round trip.
type call struct {
	method string
	// route is the templated path used for metrics and span names.
	route string
	path  string
	body  any
	// authenticated calls carry the bearer token and fire the 401 hook.
	authenticated bool
}

// response is a completed round trip with a non-error status.
type response struct {
	status int
	body   []byte
}

// do performs the call and returns the raw response for 2xx statuses.
// Non-2xx statuses and transport failures are returned as coded errors.
func (c *Client) do(ctx context.Context, cl call) (resp *response, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestID := requestcontext.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ctx, span := tracer.StartBackendCall(ctx, c.tracer, tracer.BackendCall{
		Method:        cl.method,
		Route:         cl.route,
		RequestID:     requestID,
		Authenticated: cl.authenticated,
	})
	start := time.Now()
	status := 0
	defer func() {
		span.End(err)
		c.metrics.observe(cl.method, cl.route, outcomeOf(status, err), time.Since(start))
	}()

	if c.breaker != nil && !c.breaker.Allow() {
		span.AddEvent(tracer.EventBreakerRejected)
		return nil, dErrors.New(dErrors.CodeNetwork, "backend unavailable, try again shortly")
	}

	if c.limiter != nil {
		if werr := c.limiter.Wait(ctx); werr != nil {
			return nil, dErrors.Wrap(werr, dErrors.CodeNetwork, "backend request timed out")
		}
	}

	req, err := c.newRequest(ctx, cl, requestID)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		// A caller abandoning the call says nothing about backend health.
		if !errors.Is(ctx.Err(), context.Canceled) {
			c.recordTransport(false)
		}
		return nil, c.transportError(ctx, cl, requestID, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		c.recordTransport(false)
		return nil, c.transportError(ctx, cl, requestID, err)
	}

	status = httpResp.StatusCode
	span.SetAttributes(tracer.Int(tracer.AttrHTTPStatusCode, status))
	c.recordTransport(status < http.StatusInternalServerError)

	if status >= 200 && status < 300 {
		return &response{status: status, body: body}, nil
	}

	statusErr := classifyStatus(status, body)
	if status == http.StatusUnauthorized && cl.authenticated {
		span.AddEvent(tracer.EventUnauthorized)
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx, fmt.Sprintf("backend rejected token on %s %s", cl.method, cl.route))
		}
	}
	c.logger.WarnContext(ctx, "backend call rejected",
		"request_id", requestID,
		"method", cl.method,
		"route", cl.route,
		"status", status,
		"code", dErrors.CodeOf(statusErr),
	)
	return nil, statusErr
}

func (c *Client) newRequest(ctx context.Context, cl call, requestID string) (*http.Request, error) {
	var reader io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode backend request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, reader)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create backend request")
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(headerRequestID, requestID)
	if cl.authenticated && c.tokens != nil {
		if token := c.tokens.BearerToken(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) recordTransport(ok bool) {
	if c.breaker == nil {
		return
	}
	var change circuit.StateChange
	if ok {
		change = c.breaker.RecordSuccess()
	} else {
		change = c.breaker.RecordFailure()
	}
	switch {
	case change.Opened:
		c.logger.Warn("backend circuit opened", "breaker", c.breaker.Name())
		c.metrics.setBreakerOpen(true)
	case change.Closed:
		c.logger.Info("backend circuit closed", "breaker", c.breaker.Name())
		c.metrics.setBreakerOpen(false)
	}
}

func (c *Client) transportError(ctx context.Context, cl call, requestID string, err error) error {
	msg := "backend unreachable"
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		msg = "backend request timed out"
	} else if errors.Is(err, context.Canceled) {
		msg = "backend request cancelled"
	}
	c.logger.WarnContext(ctx, "backend call failed",
		"request_id", requestID,
		"method", cl.method,
		"route", cl.route,
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeNetwork, msg)
}

func decode(resp *response, out any) error {
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "malformed backend response")
	}
	return nil
}
