package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordDetection(ResultSuccess)
	m.RecordDetection(ResultSuccess)
	m.RecordAlerts(2, 1, 0)
	m.RecordStoreLookup(ResultCached)
	m.RecordChat("voice", ResultError)
	m.RecordHTTPRequest("GET", "/health", 200, 0.01)
	m.ObserveInference(0.2)

	assert.InDelta(t, 2, testutil.ToFloat64(m.detectionsTotal.WithLabelValues(ResultSuccess)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.alertsTotal.WithLabelValues("sent")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.alertsTotal.WithLabelValues("skipped")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.storeLookupsTotal.WithLabelValues(ResultCached)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.chatRequestsTotal.WithLabelValues("voice", ResultError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/health", "200")), 0)
}

func TestMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordDetection(ResultError)
		m.RecordAlerts(1, 1, 1)
		m.RecordChat("text", ResultSuccess)
	})
}
