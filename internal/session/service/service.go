// Package service owns the console session: the signed-in principal, its
// bearer token, and the password change and recovery flows. One Service is
// created per process and injected into the console and CLI.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"nexuscomply/internal/session/store"
	"nexuscomply/pkg/domain"
	"nexuscomply/pkg/requestcontext"
)

type Service struct {
	// mu guards principal and recovery and serializes slot I/O so both
	// slots always change together. It is never held across a backend call.
	mu        sync.Mutex
	api       AuthAPI
	slots     Slots
	principal *domain.Principal
	recovery  map[string]*recoveryEntry

	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source used for token expiry and recovery timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(api AuthAPI, slots Slots, opts ...Option) *Service {
	svc := &Service{
		api:      api,
		slots:    slots,
		recovery: make(map[string]*recoveryEntry),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// Restore loads a persisted session. A missing or unreadable session leaves
// the service signed out; unreadable slots are cleared.
func (s *Service) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.slots.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable session", "error", err)
		return s.slots.Clear(ctx)
	}

	p := snap.Principal()
	if tokenExpired(p.Token, s.now()) {
		s.logger.InfoContext(ctx, "persisted session token expired", "username", p.Username)
		s.countInvalidation("expired")
		return s.slots.Clear(ctx)
	}
	s.principal = p
	s.setAuthenticated(true)
	s.logger.InfoContext(ctx, "session restored", "username", p.Username, "role", p.Role)
	return nil
}

// Current returns a copy of the signed-in principal, or nil. A principal
// whose token has expired is dropped first.
func (s *Service) Current(ctx context.Context) *domain.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.principal == nil {
		return nil
	}
	if tokenExpired(s.principal.Token, s.now()) {
		s.dropLocked(ctx, "expired", "session token expired")
		return nil
	}
	return s.principal.Clone()
}

// BearerToken returns the current token for outbound calls, or "".
func (s *Service) BearerToken(ctx context.Context) string {
	if p := s.Current(ctx); p != nil {
		return p.Token
	}
	return ""
}

// Logout clears the session and all recovery bookkeeping. It always succeeds
// in memory; a slot removal failure is returned for the caller to report.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.principal != nil {
		s.logger.InfoContext(ctx, "logout", "username", s.principal.Username, "request_id", requestcontext.RequestID(ctx))
		if s.metrics != nil {
			s.metrics.Logouts.Inc()
		}
	}
	s.principal = nil
	s.recovery = make(map[string]*recoveryEntry)
	s.setAuthenticated(false)
	return s.slots.Clear(ctx)
}

// Invalidate drops the session without a logout, for example when the
// backend rejects the token.
func (s *Service) Invalidate(ctx context.Context, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(ctx, "rejected", reason)
}

func (s *Service) dropLocked(ctx context.Context, cause, reason string) {
	if s.principal != nil {
		s.logger.InfoContext(ctx, "session invalidated",
			"username", s.principal.Username,
			"reason", reason,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.countInvalidation(cause)
	}
	s.principal = nil
	s.setAuthenticated(false)
	if err := s.slots.Clear(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear session slots", "error", err)
	}
}
