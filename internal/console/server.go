// Package console serves the console views as JSON over chi. Every view is
// gated by the access package before its handler runs.
package console

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nexuscomply/internal/access"
	licensemetrics "nexuscomply/internal/license/metrics"
	"nexuscomply/internal/license/models"
	"nexuscomply/internal/license/query"
	"nexuscomply/internal/license/status"
	"nexuscomply/internal/platform/health"
	"nexuscomply/internal/platform/metrics"
	"nexuscomply/internal/platform/middleware"
	"nexuscomply/internal/session/service"
	"nexuscomply/pkg/domain"
	"nexuscomply/pkg/platform/middleware/requesttime"
)

// Session is the session lifecycle the console drives.
type Session interface {
	access.PrincipalSource
	Login(ctx context.Context, username, password string) (*domain.Principal, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, current, newPassword, confirm string) error
	RequestPasswordReset(ctx context.Context, email string) (*service.ResetRequest, error)
	ValidateResetToken(ctx context.Context, token string) (*service.TokenValidation, error)
	ResetPassword(ctx context.Context, token, newPassword, confirm string) error
}

// Licenses answers the console's license queries. Each call carries its
// own page, size and filter; the console keeps no list state between requests.
type Licenses interface {
	List(ctx context.Context, req query.ListRequest) (*query.Listing, error)
	Get(ctx context.Context, id domain.LicenseID) (*models.License, error)
	Create(ctx context.Context, in models.LicenseInput) (*models.License, error)
	Update(ctx context.Context, id domain.LicenseID, in models.LicenseInput) (*models.License, error)
	Delete(ctx context.Context, id domain.LicenseID) error
	Summary(ctx context.Context, st *status.Engine) (*models.Summary, error)
}

type Server struct {
	session  Session
	licenses Licenses
	logger   *slog.Logger

	health         *health.Handler
	metrics        *metrics.Metrics
	licenseMetrics *licensemetrics.Metrics
	gatherer       prometheus.Gatherer
	requestTimeout time.Duration
	now            func() time.Time
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics instruments every route and exposes g on /metrics.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithLicenseMetrics counts exports.
func WithLicenseMetrics(m *licensemetrics.Metrics) Option {
	return func(s *Server) {
		s.licenseMetrics = m
	}
}

func WithHealth(h *health.Handler) Option {
	return func(s *Server) {
		s.health = h
	}
}

// WithRequestTimeout bounds each request, backend calls included.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.requestTimeout = d
	}
}

// WithClock pins the instant license state is derived against.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

func New(session Session, licenses Licenses, opts ...Option) *Server {
	s := &Server{
		session:  session,
		licenses: licenses,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.health == nil {
		s.health = health.New("")
	}
	return s
}

// Router builds the console routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	if s.metrics != nil {
		r.Use(middleware.Instrument(s.metrics))
	}
	r.Use(middleware.Timeout(s.requestTimeout))
	r.Use(requesttime.WithClock(s.now))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	s.health.Register(r)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		r.Post(access.LoginPath, s.HandleLogin)
		r.Post("/logout", s.HandleLogout)
		r.Post("/forgot-password", s.HandleForgotPassword)
		r.Post("/reset-password", s.HandleResetPassword)
		r.Get("/reset-password/{token}", s.HandleValidateResetToken)

		account := access.Capability{Resource: access.ResourceAccount, Action: access.ActionUpdate}
		r.With(s.require(account)).Get("/me", s.HandleMe)
		r.With(s.require(account)).Post(access.ChangePasswordPath, s.HandleChangePassword)

		dashboard := access.Capability{Resource: access.ResourceDashboard, Action: access.ActionView}
		r.With(s.require(dashboard)).Get("/navigation", s.HandleNavigation)
		r.With(s.require(dashboard)).Get(access.DashboardPath, s.HandleDashboard)

		r.Route("/licenses", func(r chi.Router) {
			r.With(s.require(licensesCan(access.ActionView))).Get("/", s.HandleListLicenses)
			r.With(s.require(licensesCan(access.ActionCreate))).Post("/", s.HandleCreateLicense)
			r.With(s.require(licensesCan(access.ActionExport))).Get("/export.xlsx", s.HandleExportLicenses)
			r.With(s.require(licensesCan(access.ActionView))).Get("/{id}", s.HandleGetLicense)
			r.With(s.require(licensesCan(access.ActionUpdate))).Put("/{id}", s.HandleUpdateLicense)
			r.With(s.require(licensesCan(access.ActionDelete))).Delete("/{id}", s.HandleDeleteLicense)
		})
	})
	return r
}

func (s *Server) require(c access.Capability) func(http.Handler) http.Handler {
	return access.Require(s.session, c, s.logger)
}

func licensesCan(a access.Action) access.Capability {
	return access.Capability{Resource: access.ResourceLicenses, Action: a}
}
