// Package metrics provides Prometheus metrics for the ocean economy dashboard.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// defaultLatencyBuckets covers in-memory lookups through slow table reads, in
// milliseconds.
var defaultLatencyBuckets = []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000} //nolint:gochecknoglobals // read-only defaults

// Manager manages all Prometheus metrics for the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	latencyBuckets   []float64
	refreshInterval  time.Duration
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Data tables
	tableRows         *prometheus.GaugeVec
	tableLoadDuration *prometheus.HistogramVec
	tableLoadErrors   *prometheus.CounterVec

	// Aggregation and breakdown
	breakdowns       *prometheus.CounterVec
	breakdownLatency prometheus.Histogram
	summaryLatency   prometheus.Histogram

	// Rendering
	chartsRendered *prometheus.CounterVec
	chartErrors    *prometheus.CounterVec
	assetsMissing  *prometheus.CounterVec
	exports        prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "enow",
		subsystem:        "dashboard",
		latencyBuckets:   defaultLatencyBuckets,
		refreshInterval:  defaultRefreshInterval,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval is how often system gauges should be sampled.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
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

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.tableRows = auto.NewGaugeVec(
		m.gaugeOpts("table_rows", "Rows held by each loaded data table"),
		[]string{"table"},
	)
	m.tableLoadDuration = auto.NewHistogramVec(
		m.histogramOpts("table_load_duration_milliseconds", "Time to read and validate a data table", m.latencyBuckets),
		[]string{"table", "format"},
	)
	m.tableLoadErrors = auto.NewCounterVec(
		m.counterOpts("table_load_errors_total", "Data tables that failed to load"),
		[]string{"table"},
	)

	m.breakdowns = auto.NewCounterVec(
		m.counterOpts("breakdowns_total", "State breakdowns computed by mode and status"),
		[]string{"mode", "status"},
	)
	m.breakdownLatency = auto.NewHistogram(
		m.histogramOpts("breakdown_latency_milliseconds", "State breakdown computation latency", m.latencyBuckets),
	)
	m.summaryLatency = auto.NewHistogram(
		m.histogramOpts("summary_latency_milliseconds", "National summary computation latency", m.latencyBuckets),
	)

	m.chartsRendered = auto.NewCounterVec(
		m.counterOpts("charts_rendered_total", "Charts rendered by kind"),
		[]string{"chart"},
	)
	m.chartErrors = auto.NewCounterVec(
		m.counterOpts("chart_errors_total", "Chart renders that failed by kind"),
		[]string{"chart"},
	)
	m.assetsMissing = auto.NewCounterVec(
		m.counterOpts("assets_missing_total", "Requests for static assets that do not exist"),
		[]string{"kind"},
	)
	m.exports = auto.NewCounter(
		m.counterOpts("exports_total", "Workbooks exported"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.latencyBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			defaultLatencyBuckets),
	)
}

// UpdateTableRows sets the row count of a loaded table.
func UpdateTableRows(table string, rows int) {
	globalManager.tableRows.WithLabelValues(table).Set(float64(rows))
}

// RecordTableLoad records how long a table took to load.
func RecordTableLoad(table, format string, durationMs float64) {
	globalManager.tableLoadDuration.WithLabelValues(table, format).Observe(durationMs)
}

// RecordTableLoadError counts a failed table load.
func RecordTableLoadError(table string) {
	globalManager.tableLoadErrors.WithLabelValues(table).Inc()
}

// RecordBreakdown counts a computed breakdown and its latency.
func RecordBreakdown(mode, status string, latencyMs float64) {
	globalManager.breakdowns.WithLabelValues(mode, status).Inc()
	globalManager.breakdownLatency.Observe(latencyMs)
}

// RecordSummaryLatency records national summary latency.
func RecordSummaryLatency(latencyMs float64) {
	globalManager.summaryLatency.Observe(latencyMs)
}

// RecordChartRendered counts a rendered chart.
func RecordChartRendered(chart string) {
	globalManager.chartsRendered.WithLabelValues(chart).Inc()
}

// RecordChartError counts a failed chart render.
func RecordChartError(chart string) {
	globalManager.chartErrors.WithLabelValues(chart).Inc()
}

// RecordAssetMissing counts a missing static asset.
func RecordAssetMissing(kind string) {
	globalManager.assetsMissing.WithLabelValues(kind).Inc()
}

// RecordExport counts an exported workbook.
func RecordExport() {
	globalManager.exports.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
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

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// RefreshInterval returns the sampling interval of the global manager.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
