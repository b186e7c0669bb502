// Package metrics provides Prometheus collectors for license queries.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeError      = "error"
	OutcomeSuperseded = "superseded"
)

// Metrics contains the license query and export collectors.
type Metrics struct {
	PageFetches     *prometheus.CounterVec // Page fetches by outcome
	Mutations       *prometheus.CounterVec // Create, update and delete by outcome
	FilteredOut     prometheus.Histogram   // Records hidden by the client-side filter per read
	SummaryDuration prometheus.Histogram   // Dashboard summary walk latency
	Exports         prometheus.Counter     // XLSX exports served
}

// New registers license collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PageFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nexus_license_page_fetches_total",
			Help: "License page fetches by outcome",
		}, []string{"outcome"}),

		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nexus_license_mutations_total",
			Help: "License create, update and delete calls by operation and outcome",
		}, []string{"operation", "outcome"}),

		FilteredOut: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nexus_license_filtered_out_records",
			Help:    "Records of the current page hidden by the client-side filter",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		}),

		SummaryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nexus_license_summary_duration_seconds",
			Help:    "Duration of the dashboard summary walk over every page",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		Exports: factory.NewCounter(prometheus.CounterOpts{
			Name: "nexus_license_exports_total",
			Help: "License XLSX exports served",
		}),
	}
}

// RecordFetch counts a page fetch.
func (m *Metrics) RecordFetch(outcome string) {
	if m == nil {
		return
	}
	m.PageFetches.WithLabelValues(outcome).Inc()
}

// RecordMutation counts a mutation.
func (m *Metrics) RecordMutation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.Mutations.WithLabelValues(operation, outcome).Inc()
}

// ObserveFiltered records how many records a filter hid.
func (m *Metrics) ObserveFiltered(hidden int) {
	if m == nil {
		return
	}
	m.FilteredOut.Observe(float64(hidden))
}

// ObserveSummary records a summary walk.
func (m *Metrics) ObserveSummary(d time.Duration) {
	if m == nil {
		return
	}
	m.SummaryDuration.Observe(d.Seconds())
}

// RecordExport counts an export.
func (m *Metrics) RecordExport() {
	if m == nil {
		return
	}
	m.Exports.Inc()
}
