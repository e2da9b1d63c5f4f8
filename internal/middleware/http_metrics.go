package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// normalizePath maps request paths to route patterns so metric label
// cardinality stays bounded.
func normalizePath(path string) string {
	staticRoutes := map[string]bool{
		"/":                     true,
		"/feed/rank":            true,
		"/feed/recommendations": true,
		"/health":               true,
		"/ready":                true,
		"/metrics":              true,
	}
	if staticRoutes[path] {
		return path
	}

	// /feed/{anything-else} collapses to one label.
	if strings.HasPrefix(path, "/feed/") {
		return "/feed/{op}"
	}

	// Unknown routes pass through unchanged so new endpoints are not
	// silently merged.
	return path
}

// metricsResponseWriter wraps http.ResponseWriter to capture status
// code and response size.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int64
	wroteHeader bool
}

func (mrw *metricsResponseWriter) WriteHeader(code int) {
	if mrw.wroteHeader {
		return
	}
	mrw.statusCode = code
	mrw.wroteHeader = true
	mrw.ResponseWriter.WriteHeader(code)
}

func (mrw *metricsResponseWriter) Write(b []byte) (int, error) {
	n, err := mrw.ResponseWriter.Write(b)
	mrw.size += int64(n)
	return n, err
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// HTTPMetrics records duration, sizes, and request counts for each
// request. Health endpoints are excluded.
func HTTPMetrics(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" || r.URL.Path == "/ready" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			mrw := newMetricsResponseWriter(w)

			requestSize := int64(0)
			if contentLength := r.Header.Get("Content-Length"); contentLength != "" {
				if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil {
					requestSize = size
				}
			}

			next.ServeHTTP(mrw, r)

			metrics.ObserveHTTPRequest(
				r.Method,
				normalizePath(r.URL.Path),
				strconv.Itoa(mrw.statusCode),
				time.Since(start).Seconds(),
				requestSize,
				mrw.size,
			)
		})
	}
}
