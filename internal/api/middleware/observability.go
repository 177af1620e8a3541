package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/rbmarquez/DoctorQ-sub003/internal/infrastructure/observability"
)

// responseWriter captures the status code for metric recording
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Observability traces each request and records request count and latency.
// Metric labels use the route pattern, not the raw path, so IDs do not
// explode cardinality.
func Observability(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx, span := observability.StartSpan(r.Context(), r.Method+" "+r.URL.Path)
			defer span.End()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r.WithContext(ctx))

			pattern := r.Pattern
			if pattern == "" {
				pattern = r.URL.Path
			}

			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", pattern),
				attribute.Int("http.status_code", rw.statusCode),
			)

			observability.RecordRequestMetric(ctx, metrics, r.Method, pattern, rw.statusCode, time.Since(start))
		})
	}
}
