package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result size buckets: recommendation lists top out at six entries,
// teammate shortlists can be longer.
var resultSizeBuckets = []float64{0, 1, 2, 3, 4, 5, 6, 10, 20, 50} //nolint:gochecknoglobals // fixed bucket layout

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Matching
	recommendationPasses  prometheus.Counter
	recommendationResults prometheus.Histogram
	teammatePasses        prometheus.Counter
	teammateResults       prometheus.Histogram
	scoringLatency        *prometheus.HistogramVec

	// Store
	storeLatency *prometheus.HistogramVec
	fetchErrors  *prometheus.CounterVec
	breakerState *prometheus.GaugeVec

	// Enrollment
	enrollments   *prometheus.CounterVec
	trackedUsers  prometheus.Gauge
	trackedEnroll prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorRateByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "skillhive",
		subsystem:        "matching",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.recommendationPasses = auto.NewCounter(m.counterOpts(
		"recommendation_passes_total", "Total number of hackathon recommendation passes"))
	m.recommendationResults = auto.NewHistogram(m.histogramOpts(
		"recommendation_results", "Number of hackathons returned per recommendation pass", resultSizeBuckets))
	m.teammatePasses = auto.NewCounter(m.counterOpts(
		"teammate_passes_total", "Total number of teammate matching passes"))
	m.teammateResults = auto.NewHistogram(m.histogramOpts(
		"teammate_results", "Number of candidates returned per teammate pass", resultSizeBuckets))
	m.scoringLatency = auto.NewHistogramVec(m.histogramOpts(
		"scoring_latency_milliseconds", "Scoring pass latency in milliseconds", m.histogramBuckets),
		[]string{"kind"})

	m.storeLatency = auto.NewHistogramVec(m.histogramOpts(
		"store_latency_milliseconds", "Store operation latency in milliseconds", m.histogramBuckets),
		[]string{"operation"})
	m.fetchErrors = auto.NewCounterVec(m.counterOpts(
		"fetch_errors_total", "Store fetches that failed and were degraded to empty results"),
		[]string{"operation"})
	m.breakerState = auto.NewGaugeVec(m.gaugeOpts(
		"breaker_state", "Circuit breaker state (0 closed, 1 half-open, 2 open)"),
		[]string{"name"})

	m.enrollments = auto.NewCounterVec(m.counterOpts(
		"enrollments_total", "Enrollment attempts by outcome"),
		[]string{"outcome"})
	m.trackedUsers = auto.NewGauge(m.gaugeOpts(
		"tracked_users", "Users with an in-memory enrollment tracker"))
	m.trackedEnroll = auto.NewGauge(m.gaugeOpts(
		"tracked_enrollments", "Enrollments held across all in-memory trackers"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordRecommendationPass counts one recommendation pass and its result size.
func RecordRecommendationPass(results int, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.recommendationPasses.Inc()
	globalManager.recommendationResults.Observe(float64(results))
	globalManager.scoringLatency.WithLabelValues("recommendation").Observe(latencyMs)
}

// RecordTeammatePass counts one teammate pass and its result size.
func RecordTeammatePass(results int, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.teammatePasses.Inc()
	globalManager.teammateResults.Observe(float64(results))
	globalManager.scoringLatency.WithLabelValues("teammates").Observe(latencyMs)
}

// RecordStoreLatency records the latency of a store operation.
func RecordStoreLatency(operation string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordFetchError counts a degraded fetch.
func RecordFetchError(operation string) {
	if !globalManager.enabled {
		return
	}
	globalManager.fetchErrors.WithLabelValues(operation).Inc()
}

// UpdateBreakerState sets the state gauge of a named circuit breaker.
func UpdateBreakerState(name string, state int) {
	if !globalManager.enabled {
		return
	}
	globalManager.breakerState.WithLabelValues(name).Set(float64(state))
}

// RecordEnrollment counts an enrollment attempt by outcome.
func RecordEnrollment(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.enrollments.WithLabelValues(outcome).Inc()
}

// UpdateTrackedUsers sets the number of in-memory trackers.
func UpdateTrackedUsers(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.trackedUsers.Set(float64(count))
}

// UpdateTrackedEnrollments sets the number of enrollments held by trackers.
func UpdateTrackedEnrollments(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.trackedEnroll.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
