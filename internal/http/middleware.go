package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// HTTPMetricsRecorder records one metric per served request.
// *telemetry.Metrics satisfies it.
type HTTPMetricsRecorder interface {
	RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware records method, route template, status and duration
func MetricsMiddleware(metrics HTTPMetricsRecorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			duration := float64(time.Since(start).Microseconds()) / 1000
			metrics.RecordHTTPRequest(r.Context(), r.Method, route, rec.status, duration)
		})
	}
}
