package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	metricsapp "github.com/gsihag/immigration-ai-saas/internal/metrics/application"
)

// RequestMetrics records every handled request into the metrics
// collector, keyed by the chi route pattern so path parameters do not
// explode the key space
func RequestMetrics(collector *metricsapp.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			endpoint := r.URL.Path
			if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
				if pattern := routeCtx.RoutePattern(); pattern != "" {
					endpoint = pattern
				}
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			elapsedMs := float64(time.Since(start)) / float64(time.Millisecond)
			collector.RecordRequest(endpoint, r.Method, elapsedMs, status)
		})
	}
}
