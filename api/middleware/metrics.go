package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shahinarahman616-del/HealthMate/pkg/metrics"
)

// Metrics records per-route request counts, durations, and in-flight gauge
// values. The chi route pattern keeps label cardinality bounded.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.IncInFlight()
			defer m.DecInFlight()

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(r.Method, routePattern(r), statusClass(status), time.Since(start))
		})
	}
}

func statusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}
