// Package health serves the console's liveness, readiness and status probes.
package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"nexuscomply/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// DefaultCheckTimeout bounds each readiness check.
const DefaultCheckTimeout = 2 * time.Second

// CheckFunc reports a dependency problem as an error.
type CheckFunc func(ctx context.Context) error

type namedCheck struct {
	name  string
	check CheckFunc
}

// Handler serves the probes.
type Handler struct {
	startTime    time.Time
	backend      string
	checkTimeout time.Duration

	mu     sync.RWMutex
	checks []namedCheck
}

// New creates a handler. backend is the base URL reported by the status probe.
func New(backend string) *Handler {
	return &Handler{
		startTime:    time.Now(),
		backend:      backend,
		checkTimeout: DefaultCheckTimeout,
	}
}

// RegisterCheck adds a readiness check. Registering a name twice replaces it.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.checks {
		if h.checks[i].name == name {
			h.checks[i].check = check
			return
		}
	}
	h.checks = append(h.checks, namedCheck{name: name, check: check})
	sort.Slice(h.checks, func(i, j int) bool { return h.checks[i].name < h.checks[j].name })
}

// Register mounts the probe routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

type LivenessResponse struct {
	Status string `json:"status"`
}

func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, r, http.StatusOK, LivenessResponse{Status: "alive"})
}

// CheckResult is the outcome of one readiness check.
type CheckResult struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

type ReadinessResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// HandleReadiness runs every check concurrently, each under its own
// timeout, and answers 503 when any of them fails.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	checks := append([]namedCheck(nil), h.checks...)
	h.mu.RUnlock()

	results := make([]CheckResult, len(checks))
	var g errgroup.Group
	for i, c := range checks {
		g.Go(func() error {
			results[i] = h.run(r.Context(), c.check)
			return nil
		})
	}
	_ = g.Wait()

	resp := ReadinessResponse{Status: "ready", Checks: make(map[string]CheckResult, len(checks))}
	for i, c := range checks {
		resp.Checks[c.name] = results[i]
		if results[i].Status != "up" {
			resp.Status = "not_ready"
		}
	}

	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, r, status, resp)
}

func (h *Handler) run(ctx context.Context, check CheckFunc) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, h.checkTimeout)
	defer cancel()

	start := time.Now()
	err := check(ctx)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	res := CheckResult{Status: "up", LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		res.Status = "down"
		res.Error = err.Error()
	}
	return res
}

// StatusResponse is the body of GET /health.
type StatusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Backend       string `json:"backend"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, r, http.StatusOK, StatusResponse{
		Status:        "healthy",
		Version:       Version,
		Backend:       h.backend,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}
