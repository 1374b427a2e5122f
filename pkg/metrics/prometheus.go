// Package metrics provides Prometheus metrics for the wodboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Engine
	rowsNormalized  prometheus.Counter
	rowsRejected    *prometheus.CounterVec
	eventsRanked    prometheus.Counter
	competitors     *prometheus.GaugeVec
	refreshDuration prometheus.Histogram
	refreshTotal    *prometheus.CounterVec
	lastRefreshUnix prometheus.Gauge

	// Sources
	fetchTotal    *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	fetchWorkers  prometheus.Gauge
	fetchQueue    prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "wodboard",
		subsystem:        "leaderboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	})
}

func (m *Manager) initializeMetrics() {
	m.rowsNormalized = m.counter("rows_normalized_total", "Result rows turned into performances")
	m.rowsRejected = m.counterVec("rows_rejected_total", "Result rows dropped during normalization", "reason")
	m.eventsRanked = m.counter("events_ranked_total", "Event tables ranked (one per event and category)")
	m.competitors = promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "competitors", Help: "Competitors on the current board",
	}, []string{"category"})
	m.refreshDuration = m.histogram("refresh_duration_milliseconds", "Duration of a full fetch and recompute")
	m.refreshTotal = m.counterVec("refresh_total", "Leaderboard refreshes by outcome", "outcome")
	m.lastRefreshUnix = m.gauge("last_refresh_unix", "Unix time of the last successful refresh")

	m.fetchTotal = m.counterVec("source_fetch_total", "Event source fetches by event and outcome", "event", "outcome")
	m.fetchDuration = m.histogram("source_fetch_duration_milliseconds", "Duration of a single source fetch")
	m.fetchWorkers = m.gauge("fetch_workers", "Size of the source fetch pool")
	m.fetchQueue = m.gauge("fetch_queue_size", "Fetch jobs waiting for a worker")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_request_duration_milliseconds", Help: "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordRowsNormalized adds n accepted rows.
func RecordRowsNormalized(n int) {
	globalManager.rowsNormalized.Add(float64(n))
}

// RecordRowRejected counts a dropped row by reason.
func RecordRowRejected(reason string) {
	globalManager.rowsRejected.WithLabelValues(reason).Inc()
}

// RecordEventRanked counts a ranked event table.
func RecordEventRanked() {
	globalManager.eventsRanked.Inc()
}

// UpdateCompetitors sets the competitor count of a category board.
func UpdateCompetitors(category string, count int) {
	globalManager.competitors.WithLabelValues(category).Set(float64(count))
}

// RecordRefresh records a refresh outcome ("ok", "partial", "failed") and its duration.
func RecordRefresh(outcome string, durationMs float64, unix int64) {
	globalManager.refreshTotal.WithLabelValues(outcome).Inc()
	globalManager.refreshDuration.Observe(durationMs)
	if outcome != "failed" {
		globalManager.lastRefreshUnix.Set(float64(unix))
	}
}

// RecordFetch records one source fetch.
func RecordFetch(eventID, outcome string, durationMs float64) {
	globalManager.fetchTotal.WithLabelValues(eventID, outcome).Inc()
	globalManager.fetchDuration.Observe(durationMs)
}

// UpdateFetchWorkers sets the fetch pool size.
func UpdateFetchWorkers(count int) {
	globalManager.fetchWorkers.Set(float64(count))
}

// UpdateFetchQueueSize sets the number of queued fetch jobs.
func UpdateFetchQueueSize(size int) {
	globalManager.fetchQueue.Set(float64(size))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
