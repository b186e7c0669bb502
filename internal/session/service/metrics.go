package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for session operations.
type Metrics struct {
	Logins          *prometheus.CounterVec
	Logouts         prometheus.Counter
	Invalidations   *prometheus.CounterVec
	PasswordChanges *prometheus.CounterVec
	RecoverySteps   *prometheus.CounterVec
	Authenticated   prometheus.Gauge
}

// NewMetrics registers session collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nexus_session_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		Logouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "nexus_session_logouts_total",
			Help: "Explicit logouts",
		}),
		Invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nexus_session_invalidations_total",
			Help: "Sessions dropped without an explicit logout, by cause",
		}, []string{"cause"}),
		PasswordChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nexus_session_password_changes_total",
			Help: "Password change attempts by outcome",
		}, []string{"outcome"}),
		RecoverySteps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nexus_session_recovery_steps_total",
			Help: "Password recovery protocol steps by step and outcome",
		}, []string{"step", "outcome"}),
		Authenticated: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nexus_session_authenticated",
			Help: "1 while a principal is signed in",
		}),
	}
}

func (s *Service) countLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.Logins.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) countPasswordChange(outcome string) {
	if s.metrics != nil {
		s.metrics.PasswordChanges.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) countRecovery(step, outcome string) {
	if s.metrics != nil {
		s.metrics.RecoverySteps.WithLabelValues(step, outcome).Inc()
	}
}

func (s *Service) countInvalidation(cause string) {
	if s.metrics != nil {
		s.metrics.Invalidations.WithLabelValues(cause).Inc()
	}
}

func (s *Service) setAuthenticated(on bool) {
	if s.metrics == nil {
		return
	}
	if on {
		s.metrics.Authenticated.Set(1)
		return
	}
	s.metrics.Authenticated.Set(0)
}
