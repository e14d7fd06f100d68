package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the evaluation service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Evaluation metrics
	evaluationsRecorded  *prometheus.CounterVec
	evaluationsRejected  *prometheus.CounterVec
	scoringLatency       prometheus.Histogram
	gradeAssignments     *prometheus.CounterVec
	trendClassifications *prometheus.CounterVec

	// Query metrics
	queries      *prometheus.CounterVec
	queryLatency *prometheus.HistogramVec

	// Scouting report metrics
	reportsRegistered prometheus.Counter
	reportsCompleted  prometheus.Counter

	// Store metrics
	storeEvaluations     prometheus.Gauge
	storePlayers         prometheus.Gauge
	storeReports         prometheus.Gauge
	storeAppendLatency   prometheus.Histogram
	storeSnapshotLatency prometheus.Histogram

	// Dataset metrics
	seedRecordsLoaded *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorRateByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager and the registry it registers on.
var (
	globalManager  atomic.Pointer[Manager]             //nolint:gochecknoglobals // intentional global for singleton metrics manager
	customRegistry atomic.Pointer[prometheus.Registry] //nolint:gochecknoglobals // intentional global for metrics registry
)

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Configure()
}

// Configure replaces the global manager with one built from opts on a fresh
// registry, so collectors can be renamed without duplicate registration.
// Observations made on the previous manager are dropped.
func Configure(opts ...Option) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	m := NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry.Store(registry)
	globalManager.Store(m)
	return registry
}

func global() *Manager { return globalManager.Load() }

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "talentscope",
		subsystem:        "evaluations",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Enabled reports whether observations are recorded.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often periodic gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	if buckets == nil {
		buckets = m.histogramBuckets
	}
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.evaluationsRecorded = auto.NewCounterVec(
		m.counterOpts("recorded_total", "Total number of evaluations stored, by source"),
		[]string{"source"},
	)
	m.evaluationsRejected = auto.NewCounterVec(
		m.counterOpts("rejected_total", "Total number of evaluations rejected, by reason"),
		[]string{"reason"},
	)
	m.scoringLatency = auto.NewHistogram(
		m.histogramOpts("scoring_latency_milliseconds", "Time to aggregate and grade one evaluation", nil),
	)
	m.gradeAssignments = auto.NewCounterVec(
		m.counterOpts("grades_total", "Grades assigned to recorded evaluations"),
		[]string{"grade"},
	)
	m.trendClassifications = auto.NewCounterVec(
		m.counterOpts("trend_classifications_total", "Growth trend classifications served"),
		[]string{"direction"},
	)

	m.queries = auto.NewCounterVec(
		m.counterOpts("queries_total", "Query surface calls by operation and outcome"),
		[]string{"operation", "outcome"},
	)
	m.queryLatency = auto.NewHistogramVec(
		m.histogramOpts("query_latency_milliseconds", "Query surface latency in milliseconds", nil),
		[]string{"operation"},
	)

	m.reportsRegistered = auto.NewCounter(
		m.counterOpts("reports_registered_total", "Scouting reports registered"),
	)
	m.reportsCompleted = auto.NewCounter(
		m.counterOpts("reports_completed_total", "Scouting visits completed with an evaluation"),
	)

	m.storeEvaluations = auto.NewGauge(
		m.gaugeOpts("store_evaluations", "Evaluations held in the store"),
	)
	m.storePlayers = auto.NewGauge(
		m.gaugeOpts("store_players", "Distinct players with at least one evaluation"),
	)
	m.storeReports = auto.NewGauge(
		m.gaugeOpts("store_reports", "Scouting reports held in the store"),
	)
	m.storeAppendLatency = auto.NewHistogram(
		m.histogramOpts("store_append_latency_milliseconds", "Store append latency in milliseconds", nil),
	)
	m.storeSnapshotLatency = auto.NewHistogram(
		m.histogramOpts("store_snapshot_latency_milliseconds", "Store snapshot copy latency in milliseconds", nil),
	)

	m.seedRecordsLoaded = auto.NewCounterVec(
		m.counterOpts("seed_records_loaded_total", "Records loaded from the seed dataset"),
		[]string{"kind"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", nil),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// Evaluation metrics.

// RecordEvaluationRecorded counts a stored evaluation.
func (m *Manager) RecordEvaluationRecorded(source string) {
	if m.enabled {
		m.evaluationsRecorded.WithLabelValues(source).Inc()
	}
}

// RecordEvaluationRejected counts a rejected evaluation.
func (m *Manager) RecordEvaluationRejected(reason string) {
	if m.enabled {
		m.evaluationsRejected.WithLabelValues(reason).Inc()
	}
}

// RecordScoringLatency records scoring latency in milliseconds.
func (m *Manager) RecordScoringLatency(latencyMs float64) {
	if m.enabled {
		m.scoringLatency.Observe(latencyMs)
	}
}

// RecordGrade counts a grade assignment.
func (m *Manager) RecordGrade(grade string) {
	if m.enabled {
		m.gradeAssignments.WithLabelValues(grade).Inc()
	}
}

// RecordTrend counts a trend classification.
func (m *Manager) RecordTrend(direction string) {
	if m.enabled {
		m.trendClassifications.WithLabelValues(direction).Inc()
	}
}

// RecordQuery counts a query surface call and its latency.
func (m *Manager) RecordQuery(operation, outcome string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.queries.WithLabelValues(operation, outcome).Inc()
	m.queryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// Package-level helpers backed by the global manager.

// RecordEvaluationRecorded counts a stored evaluation.
func RecordEvaluationRecorded(source string) { global().RecordEvaluationRecorded(source) }

// RecordEvaluationRejected counts a rejected evaluation.
func RecordEvaluationRejected(reason string) { global().RecordEvaluationRejected(reason) }

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) { global().RecordScoringLatency(latencyMs) }

// RecordGrade counts a grade assignment.
func RecordGrade(grade string) { global().RecordGrade(grade) }

// RecordTrend counts a trend classification.
func RecordTrend(direction string) { global().RecordTrend(direction) }

// RecordQuery counts a query surface call and its latency.
func RecordQuery(operation, outcome string, latencyMs float64) {
	global().RecordQuery(operation, outcome, latencyMs)
}

// RecordReportRegistered increments the registered reports counter.
func RecordReportRegistered() {
	if m := global(); m.enabled {
		m.reportsRegistered.Inc()
	}
}

// RecordReportCompleted increments the completed reports counter.
func RecordReportCompleted() {
	if m := global(); m.enabled {
		m.reportsCompleted.Inc()
	}
}

// Store metrics.

// UpdateStoreEvaluations sets the number of stored evaluations.
func UpdateStoreEvaluations(count int) {
	global().storeEvaluations.Set(float64(count))
}

// UpdateStorePlayers sets the number of distinct players.
func UpdateStorePlayers(count int) {
	global().storePlayers.Set(float64(count))
}

// UpdateStoreReports sets the number of stored scouting reports.
func UpdateStoreReports(count int) {
	global().storeReports.Set(float64(count))
}

// RecordStoreAppendLatency records store append latency.
func RecordStoreAppendLatency(latencyMs float64) {
	if m := global(); m.enabled {
		m.storeAppendLatency.Observe(latencyMs)
	}
}

// RecordStoreSnapshotLatency records store snapshot latency.
func RecordStoreSnapshotLatency(latencyMs float64) {
	if m := global(); m.enabled {
		m.storeSnapshotLatency.Observe(latencyMs)
	}
}

// RecordSeedRecordsLoaded counts records loaded from a dataset, by kind.
func RecordSeedRecordsLoaded(kind string, n int) {
	if m := global(); m.enabled {
		m.seedRecordsLoaded.WithLabelValues(kind).Add(float64(n))
	}
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if m := global(); m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if m := global(); m.enabled {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if m := global(); m.enabled {
		m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// System metrics.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	global().systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	global().systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if m := global(); m.enabled {
		m.systemGCPauseTime.Observe(pauseMs)
	}
}

// RefreshInterval returns the global manager's gauge refresh interval.
func RefreshInterval() time.Duration {
	return global().refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry.Load()
}
