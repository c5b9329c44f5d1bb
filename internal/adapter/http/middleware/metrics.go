package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zkybank/zkybank/internal/infrastructure/metrics"
)

// MetricsMiddleware records HTTP request counts and durations.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metrics recording.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := normalizePath(r.URL.Path)

		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath replaces account numbers in paths to keep label cardinality
// bounded: /api/v1/accounts/100001/balance -> /api/v1/accounts/:number/balance.
func normalizePath(path string) string {
	const prefix = "/api/v1/accounts/"

	if !strings.HasPrefix(path, prefix) {
		return path
	}

	rest := path[len(prefix):]
	if rest == "" {
		return path
	}

	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		return prefix + ":number" + rest[idx:]
	}

	return prefix + ":number"
}
