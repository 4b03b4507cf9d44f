package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/datagate-io/datagate/pkg/metrics"
)

// Metrics observes request duration by method and response status.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := NewResponseRecorder(w)

		next.ServeHTTP(rec, r)

		metrics.RequestDuration.
			WithLabelValues(r.Method, strconv.Itoa(rec.StatusCode)).
			Observe(time.Since(start).Seconds())
	})
}
