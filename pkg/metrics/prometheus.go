// Package metrics provides Prometheus metrics for the hoops dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the dashboard exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Query layer
	queryDuration *prometheus.HistogramVec
	queryErrors   *prometheus.CounterVec
	queryRows     *prometheus.CounterVec
	tablesLoaded  prometheus.Gauge
	rowsLoaded    prometheus.Counter

	// Rendering
	chartRenders *prometheus.CounterVec

	// Batch export
	exportJobs     *prometheus.CounterVec
	exportDuration prometheus.Histogram
	exportBytes    prometheus.Counter
}

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry served on /healthz

var globalManager = NewManager(WithPrometheusRegistry(customRegistry)) //nolint:gochecknoglobals // singleton used by the Record* helpers

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hoops",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint, method and status code",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_errors_total",
		Help:        "HTTP responses with status >= 400 by endpoint and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "error_type"})

	m.queryDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "query_duration_milliseconds",
		Help:        "SQL query latency in milliseconds by data source",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"source"})

	m.queryErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "query_errors_total",
		Help:        "SQL queries that failed by data source",
		ConstLabels: m.constLabels,
	}, []string{"source"})

	m.queryRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "query_rows_total",
		Help:        "Rows returned by SQL queries by data source",
		ConstLabels: m.constLabels,
	}, []string{"source"})

	m.tablesLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "csv_tables_loaded",
		Help:        "Number of CSV snapshots currently loaded as tables",
		ConstLabels: m.constLabels,
	})

	m.rowsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "csv_rows_loaded_total",
		Help:        "Rows inserted from CSV snapshots",
		ConstLabels: m.constLabels,
	})

	m.chartRenders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "chart_renders_total",
		Help:        "Charts rendered by kind and outcome",
		ConstLabels: m.constLabels,
	}, []string{"kind", "outcome"})

	m.exportJobs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "export_jobs_total",
		Help:        "Batch export jobs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.exportDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "export_job_duration_milliseconds",
		Help:        "Duration of a single query-to-CSV export job",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.exportBytes = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "export_bytes_total",
		Help:        "Bytes of CSV written by the batch export",
		ConstLabels: m.constLabels,
	})
}

// RecordHTTPRequest records a served request and its latency.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError counts an error response.
func RecordHTTPError(endpoint, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, errorType).Inc()
}

// RecordQuery records a successful query.
func RecordQuery(source string, durationMs float64, rows int) {
	globalManager.queryDuration.WithLabelValues(source).Observe(durationMs)
	globalManager.queryRows.WithLabelValues(source).Add(float64(rows))
}

// RecordQueryError counts a failed query.
func RecordQueryError(source string) {
	globalManager.queryErrors.WithLabelValues(source).Inc()
}

// UpdateTablesLoaded sets the number of loaded CSV tables.
func UpdateTablesLoaded(n int) {
	globalManager.tablesLoaded.Set(float64(n))
}

// RecordRowsLoaded adds rows inserted from a CSV snapshot.
func RecordRowsLoaded(n int) {
	globalManager.rowsLoaded.Add(float64(n))
}

// RecordChartRender counts a chart render attempt.
func RecordChartRender(kind, outcome string) {
	globalManager.chartRenders.WithLabelValues(kind, outcome).Inc()
}

// RecordExportJob records one export job.
func RecordExportJob(outcome string, durationMs float64, bytes int64) {
	globalManager.exportJobs.WithLabelValues(outcome).Inc()
	globalManager.exportDuration.Observe(durationMs)
	if bytes > 0 {
		globalManager.exportBytes.Add(float64(bytes))
	}
}

// GetRegistry returns the registry served on /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
