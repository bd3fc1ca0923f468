package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database query duration (seconds)
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gnc_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	// HTTP request duration (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gnc_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	SlowQueryCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gnc_db_slow_query_total",
			Help: "Number of queries slower than the configured threshold",
		},
		[]string{"command"},
	)

	// Statistics requests by scope: global, project
	StatsRequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gnc_stats_request_total",
			Help: "Number of statistics computations",
		},
		[]string{"scope", "status"},
	)

	// 0 closed, 1 open, 2 half open
	DBBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gnc_db_breaker_state",
			Help: "Database circuit breaker state",
		},
	)

	ImportedSiteCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gnc_imported_sites_total",
			Help: "Number of sites created by GeoJSON imports",
		},
	)
)

// RecordDBQueryDuration records a database query duration.
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordHTTPRequestDuration records an HTTP request duration.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementSlowQuery counts a slow query. command is the leading SQL keyword.
func IncrementSlowQuery(command string) {
	SlowQueryCount.WithLabelValues(command).Inc()
}

func SetDBBreakerState(state int) {
	DBBreakerState.Set(float64(state))
}

// IncrementStatsRequest counts a statistics computation.
func IncrementStatsRequest(scope, status string) {
	StatsRequestCount.WithLabelValues(scope, status).Inc()
}

// AddImportedSites adds n to the imported sites counter.
func AddImportedSites(n int) {
	ImportedSiteCount.Add(float64(n))
}
