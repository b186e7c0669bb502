package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the console HTTP surface.
type Metrics struct {
	Requests        *prometheus.CounterVec
	EndpointLatency *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

// New creates and registers the HTTP metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nexus_console_requests_total",
			Help: "Total number of console HTTP requests",
		}, []string{"method", "route", "status"}),
		// - Latency per endpoint (histogram)
		EndpointLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nexus_console_endpoint_latency_seconds",
			Help:    "Latency of console endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nexus_console_requests_in_flight",
			Help: "Console HTTP requests currently being served",
		}),
	}
}

// Observe records one finished request.
func (m *Metrics) Observe(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.EndpointLatency.WithLabelValues(route).Observe(d.Seconds())
}

// Begin marks a request as in flight; the returned func ends it.
func (m *Metrics) Begin() func() {
	if m == nil {
		return func() {}
	}
	m.InFlight.Inc()
	return m.InFlight.Dec
}
