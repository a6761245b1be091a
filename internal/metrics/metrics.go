package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the analytics service.
type Metrics struct {
	// Query metrics
	Queries      *prometheus.CounterVec
	QueryLatency *prometheus.HistogramVec
	RowsFetched  prometheus.Histogram

	// Result cache metrics
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheWriteFailures prometheus.Counter
	CachePurged        prometheus.Counter

	// Export metrics
	Exports *prometheus.CounterVec

	// System metrics
	DBConnections *prometheus.GaugeVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Queries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Analytics queries by group-by granularity and outcome",
			},
			[]string{"group_by", "status"},
		),
		QueryLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_latency_seconds",
				Help:      "End-to-end analytics query latency",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"status"},
		),
		RowsFetched: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rows_fetched",
				Help:      "Raw metric rows fetched per query",
				Buckets:   []float64{0, 10, 100, 1000, 10000, 100000},
			},
		),
		CacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Result cache hits",
			},
		),
		CacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Result cache misses",
			},
		),
		CacheWriteFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_write_failures_total",
				Help:      "Result cache writes that failed and were skipped",
			},
		),
		CachePurged: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_entries_purged_total",
				Help:      "Expired cache entries removed by the purge loop",
			},
		),
		Exports: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "CSV exports by outcome",
			},
			[]string{"status"},
		),
		DBConnections: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections",
				Help:      "Database connection pool state",
			},
			[]string{"state"},
		),
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordQuery records one completed analytics query.
func (m *Metrics) RecordQuery(groupBy, status string, latency time.Duration) {
	m.Queries.WithLabelValues(groupBy, status).Inc()
	m.QueryLatency.WithLabelValues(status).Observe(latency.Seconds())
}

// RecordExport records one CSV export.
func (m *Metrics) RecordExport(status string) {
	m.Exports.WithLabelValues(status).Inc()
}

// UpdateDBStats updates database connection metrics.
func (m *Metrics) UpdateDBStats(idle, inUse, total int) {
	m.DBConnections.WithLabelValues("idle").Set(float64(idle))
	m.DBConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.DBConnections.WithLabelValues("total").Set(float64(total))
}
