// Package metrics defines the Prometheus collectors exposed by the studio server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestCount counts HTTP requests by route pattern, method and response status.
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "status"},
	)

	// RequestDuration records the time taken to serve HTTP requests by route pattern and method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studio_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	// NotificationsCreated counts notifications derived from booking mutations, by title.
	NotificationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_notifications_created_total",
			Help: "Number of notifications derived from booking mutations.",
		},
		[]string{"title"},
	)
)

// Register registers every collector with the given registerer.
func Register(r prometheus.Registerer) {
	r.MustRegister(RequestCount, RequestDuration, NotificationsCreated)
}

// Middleware records the count and duration of every request, labelled by route pattern.
func Middleware(next http.Handler) http.Handler {
	h := func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		duration := time.Since(start).Seconds()
		path := routePattern(r)
		status := strconv.Itoa(ww.Status())

		RequestCount.WithLabelValues(path, r.Method, status).Inc()
		RequestDuration.WithLabelValues(path, r.Method).Observe(duration)
	}

	return http.HandlerFunc(h)
}

// routePattern keeps label cardinality bounded by using the matched route instead of the raw path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
