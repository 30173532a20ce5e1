// Package metrics provides Prometheus metrics for the flipper service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the flipper service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Record source
	recordsFetched   *prometheus.CounterVec
	recordsDuplicate prometheus.Counter
	lookupReloads    prometheus.Counter

	// Aggregation
	aggregations        *prometheus.CounterVec
	aggregationDuration *prometheus.HistogramVec
	machineStatsRows    prometheus.Gauge

	// Lineup optimization
	optimizations        *prometheus.CounterVec
	optimizationDuration *prometheus.HistogramVec
	lineupGreedyGap      prometheus.Histogram

	// Read-through cache
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheEntries   prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

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
		namespace:        "flipper",
		subsystem:        "strategy",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
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
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.recordsFetched = auto.NewCounterVec(
		m.counterOpts("records_fetched_total", "Game records returned by record sources"),
		[]string{"source"},
	)
	m.recordsDuplicate = auto.NewCounter(
		m.counterOpts("records_duplicate_total", "Game records dropped as duplicates"))
	m.lookupReloads = auto.NewCounter(
		m.counterOpts("lookup_reloads_total", "Successful reloads of the lookup tables"))

	m.aggregations = auto.NewCounterVec(
		m.counterOpts("aggregations_total", "Statistics aggregations by kind"),
		[]string{"kind"},
	)
	m.aggregationDuration = auto.NewHistogramVec(
		m.histogramOpts("aggregation_duration_seconds", "Time spent aggregating statistics", m.histogramBuckets),
		[]string{"kind"},
	)
	m.machineStatsRows = auto.NewGauge(
		m.gaugeOpts("machine_stats_rows", "Machines in the most recent machine stats answer"))

	m.optimizations = auto.NewCounterVec(
		m.counterOpts("optimizations_total", "Lineup optimizations by format and result"),
		[]string{"format", "result"},
	)
	m.optimizationDuration = auto.NewHistogramVec(
		m.histogramOpts("optimization_duration_seconds", "Time spent optimizing lineups", m.histogramBuckets),
		[]string{"format"},
	)
	m.lineupGreedyGap = auto.NewHistogram(
		m.histogramOpts("lineup_greedy_gap", "Optimal lineup total minus greedy lineup total",
			[]float64{0, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2}))

	m.cacheHits = auto.NewCounter(m.counterOpts("cache_hits_total", "Read-through cache hits"))
	m.cacheMisses = auto.NewCounter(m.counterOpts("cache_misses_total", "Read-through cache misses"))
	m.cacheEvictions = auto.NewCounter(m.counterOpts("cache_evictions_total", "Expired cache entries evicted"))
	m.cacheEntries = auto.NewGauge(m.gaugeOpts("cache_entries", "Entries held by the cache"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_seconds", "HTTP request duration in seconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

// RecordRecordsFetched counts records returned by a source.
func RecordRecordsFetched(source string, count int) {
	globalManager.recordsFetched.WithLabelValues(source).Add(float64(count))
}

// RecordDuplicateRecords counts records dropped as duplicates.
func RecordDuplicateRecords(count int) {
	globalManager.recordsDuplicate.Add(float64(count))
}

// RecordLookupReload increments the lookup reload counter.
func RecordLookupReload() {
	globalManager.lookupReloads.Inc()
}

// RecordAggregation records one aggregation of kind and its duration.
func RecordAggregation(kind string, seconds float64) {
	globalManager.aggregations.WithLabelValues(kind).Inc()
	globalManager.aggregationDuration.WithLabelValues(kind).Observe(seconds)
}

// UpdateMachineStatsRows sets the size of the latest machine stats answer.
func UpdateMachineStatsRows(count int) {
	globalManager.machineStatsRows.Set(float64(count))
}

// RecordOptimization records one optimization outcome ("ok", "invalid" or
// "error").
func RecordOptimization(format, result string) {
	globalManager.optimizations.WithLabelValues(format, result).Inc()
}

// RecordOptimizationDuration records how long an optimization took.
func RecordOptimizationDuration(format string, seconds float64) {
	globalManager.optimizationDuration.WithLabelValues(format).Observe(seconds)
}

// RecordLineupGreedyGap records how far the greedy lineup fell behind.
func RecordLineupGreedyGap(gap float64) {
	globalManager.lineupGreedyGap.Observe(gap)
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordCacheEvictions counts evicted cache entries.
func RecordCacheEvictions(count int) {
	globalManager.cacheEvictions.Add(float64(count))
}

// UpdateCacheEntries sets the number of cached entries.
func UpdateCacheEntries(count int) {
	globalManager.cacheEntries.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent increments the error counter for a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use in bytes.
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
