package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mergington/activities/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records request counts and latencies labelled by the matched
// ServeMux pattern. It must wrap the mux directly: the mux stores the pattern
// on the request it receives, and any request copy in between hides it.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := newResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		route := r.Pattern
		if route == "" {
			route = unmatchedRoute
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
