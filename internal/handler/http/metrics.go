package http

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"sportsdesk/internal/handler/http/pathutil"
	"sportsdesk/internal/handler/http/responsewriter"
	"sportsdesk/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsMiddleware records request count, latency and sizes. Paths are
// normalized (/article/12/ -> /article/:id) to keep label cardinality bounded.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.ActiveConnections.Inc()
		defer metrics.ActiveConnections.Dec()

		rw := responsewriter.Wrap(w)
		start := time.Now()
		next.ServeHTTP(rw, r)

		requestSize := 0
		if r.ContentLength > 0 {
			requestSize = int(r.ContentLength)
		}
		metrics.RecordHTTPRequest(
			r.Method,
			pathutil.NormalizePath(r.URL.Path),
			strconv.Itoa(rw.StatusCode()),
			time.Since(start),
			requestSize,
			rw.BytesWritten(),
		)
	})
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordDBPoolStats copies connection pool statistics into the pool gauges.
func RecordDBPoolStats(stats sql.DBStats) {
	metrics.DBPoolConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	metrics.DBPoolConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	metrics.DBPoolConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	metrics.DBPoolWaitSeconds.Set(stats.WaitDuration.Seconds())
}
