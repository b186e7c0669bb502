package backend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dErrors "nexuscomply/pkg/domain-errors"
)

// Metrics holds Prometheus collectors for backend calls.
type Metrics struct {
	Requests    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	BreakerOpen prometheus.Gauge
}

// NewMetrics registers backend collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nexus_backend_requests_total",
			Help: "Backend calls by method, templated route and outcome",
		}, []string{"method", "route", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nexus_backend_request_duration_seconds",
			Help:    "Backend call latency by templated route",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route"}),
		BreakerOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nexus_backend_breaker_open",
			Help: "1 while the backend circuit breaker is open",
		}),
	}
}

func (m *Metrics) observe(method, route, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, route, outcome).Inc()
	m.Duration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) setBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}

// outcomeOf keeps the outcome label low-cardinality.
func outcomeOf(status int, err error) string {
	if err == nil {
		return "ok"
	}
	if status == 0 {
		return string(dErrors.CodeOf(err))
	}
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	}
	return "other"
}
