package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordFetch(OutcomeOK)
	m.RecordFetch(OutcomeSuperseded)
	m.RecordMutation("delete", nil)
	m.RecordMutation("delete", errors.New("boom"))
	m.ObserveFiltered(3)
	m.ObserveSummary(120 * time.Millisecond)
	m.RecordExport()

	assert.InDelta(t, 1, testutil.ToFloat64(m.PageFetches.WithLabelValues(OutcomeOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PageFetches.WithLabelValues(OutcomeSuperseded)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Mutations.WithLabelValues("delete", OutcomeOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Mutations.WithLabelValues("delete", OutcomeError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Exports), 0)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordFetch(OutcomeOK)
	m.RecordMutation("create", nil)
	m.ObserveFiltered(1)
	m.ObserveSummary(time.Second)
	m.RecordExport()
}

func TestRegistrationIsPerRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
