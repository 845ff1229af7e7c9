// Package metrics provides Prometheus metrics for the backend
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultSkipped = "skipped"
	ResultEmpty   = "empty"
	ResultCached  = "cached"
)

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	detectionsTotal   *prometheus.CounterVec
	inferenceDuration prometheus.Histogram

	alertsTotal       *prometheus.CounterVec
	storeLookupsTotal *prometheus.CounterVec
	chatRequestsTotal *prometheus.CounterVec
}

// New creates and registers the service metrics on registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time taken for HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.detectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detections_total",
			Help: "Image detections by outcome",
		},
		[]string{"outcome"}, // outcome: success, error, rejected, persisted
	)

	m.inferenceDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inference_duration_seconds",
			Help:    "Time taken by the disease classifier",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)

	m.alertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_total",
			Help: "Nearby-device alerts by result",
		},
		[]string{"result"}, // result: sent, skipped, failed
	)

	m.storeLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_lookups_total",
			Help: "Nearby store lookups by result",
		},
		[]string{"result"},
	)

	m.chatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Chat requests by mode and result",
		},
		[]string{"mode", "result"}, // mode: text, voice
	)
}

func (m *Metrics) getCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.detectionsTotal,
		m.inferenceDuration,
		m.alertsTotal,
		m.storeLookupsTotal,
		m.chatRequestsTotal,
	}
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.getCollectors() {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.getCollectors() {
		collector.Collect(ch)
	}
}

// Registry returns the registry the metrics were registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) RecordDetection(outcome string) {
	if m == nil {
		return
	}
	m.detectionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveInference(seconds float64) {
	if m == nil {
		return
	}
	m.inferenceDuration.Observe(seconds)
}

// RecordAlerts adds one fan-out's counts.
func (m *Metrics) RecordAlerts(sent, skipped, failed int) {
	if m == nil {
		return
	}
	m.alertsTotal.WithLabelValues("sent").Add(float64(sent))
	m.alertsTotal.WithLabelValues("skipped").Add(float64(skipped))
	m.alertsTotal.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) RecordStoreLookup(result string) {
	if m == nil {
		return
	}
	m.storeLookupsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordChat(mode, result string) {
	if m == nil {
		return
	}
	m.chatRequestsTotal.WithLabelValues(mode, result).Inc()
}
