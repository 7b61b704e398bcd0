package middleware

import (
	"net/http"
	"strconv"
	"time"

	"galaxy-server/internal/shared/metrics"
)

// statusRecorder captures the status code written by downstream
// handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Instrument records request counts and latencies for one route. It is
// applied at registration time with the route pattern so galaxy IDs and
// coordinates don't explode label cardinality.
func Instrument(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		metrics.RequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
	})
}
