package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request traffic. Paths are normalized before they reach these labels.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by method, route and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Time spent serving a request",
			// ページ描画は 1 秒を超えない想定
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPPayloadBytes observes request and response body sizes;
	// direction is "in" or "out".
	HTTPPayloadBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_payload_bytes",
			Help:    "Request and response body sizes",
			Buckets: prometheus.ExponentialBuckets(128, 4, 8),
		},
		[]string{"path", "direction"},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "Requests currently being served",
		},
	)
)

// Business metrics track the editorial workflow
var (
	// ArticlesCreatedTotal counts articles created by journalists
	ArticlesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_created_total",
			Help: "Total number of articles created",
		},
	)

	// ArticlesApprovedTotal counts approval transitions (false -> true)
	ArticlesApprovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_approved_total",
			Help: "Total number of article approvals",
		},
	)

	// ArticlesUnapprovedTotal counts withdrawn approvals
	ArticlesUnapprovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_unapproved_total",
			Help: "Total number of withdrawn article approvals",
		},
	)

	// ArticleWritesRejectedTotal counts article saves rejected before persistence
	ArticleWritesRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_writes_rejected_total",
			Help: "Total number of article writes rejected by validation",
		},
		[]string{"field"},
	)

	// NewslettersCreatedTotal counts newsletters created by journalists
	NewslettersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsletters_created_total",
			Help: "Total number of newsletters created",
		},
	)

	// FollowsTotal counts follow and unfollow actions
	FollowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "follows_total",
			Help: "Total number of follow graph changes",
		},
		[]string{"action"}, // action: follow, unfollow
	)

	// ArticlesPendingReview tracks unapproved articles, refreshed by the worker
	ArticlesPendingReview = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "articles_pending_review",
			Help: "Number of articles waiting for editor approval",
		},
	)

	// DigestRunsTotal counts digest job runs by result
	DigestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_runs_total",
			Help: "Total number of editorial digest runs",
		},
		[]string{"result"}, // result: success, failure, skipped
	)

	// DigestDeliveriesTotal counts digest deliveries per channel
	DigestDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_deliveries_total",
			Help: "Total number of digest deliveries per channel",
		},
		[]string{"channel", "result"},
	)
)

// Database access, observed by the breaker-guarded DBTX and the health
// endpoints.
var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database round-trip time by operation",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"}, // query, exec, query_row
	)

	// DBPoolConnections mirrors sql.DBStats; state is in_use, idle or open.
	DBPoolConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_pool_connections",
			Help: "Connections in the database pool by state",
		},
		[]string{"state"},
	)

	DBPoolWaitSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_pool_wait_seconds",
			Help: "Cumulative time spent waiting for a pooled connection",
		},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

// RecordHTTPRequest records one served request. Zero sizes are skipped.
func RecordHTTPRequest(method, path, status string, took time.Duration, in, out int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(took.Seconds())
	if in > 0 {
		HTTPPayloadBytes.WithLabelValues(path, "in").Observe(float64(in))
	}
	if out > 0 {
		HTTPPayloadBytes.WithLabelValues(path, "out").Observe(float64(out))
	}
}
