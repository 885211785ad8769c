package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatapp_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	credentialChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatapp_credential_checks_total",
			Help: "Total per-request credential verifications by outcome",
		},
		[]string{"success"},
	)
	messagesAppended = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatapp_messages_appended_total",
			Help: "Total messages appended to conversations",
		},
	)
)

// PrometheusMiddleware records request duration.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(ww.Status())
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

// RecordCredentialCheck records a credential verification outcome.
func RecordCredentialCheck(success bool) {
	credentialChecks.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// RecordMessageAppended bumps the message counter.
func RecordMessageAppended() {
	messagesAppended.Inc()
}
