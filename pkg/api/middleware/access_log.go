package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dskvich/doc-reviewer/pkg/api/response"
)

type HTTPMetrics interface {
	TrackInFlight() func()
	RecordHTTPRequest(route, method string, code int, duration time.Duration)
}

// AccessLog logs and measures each request under the route name returned by
// routeOf.
func AccessLog(metrics HTTPMetrics, routeOf func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := response.NewRecorder(w)

			if metrics != nil {
				defer metrics.TrackInFlight()()
			}
			next.ServeHTTP(rec, r)

			route := routeOf(r)
			duration := time.Since(start)
			if metrics != nil {
				metrics.RecordHTTPRequest(route, r.Method, rec.Status(), duration)
			}

			level := slog.LevelInfo
			switch {
			case rec.Status() >= http.StatusInternalServerError:
				level = slog.LevelError
			case route == "health" || route == "metrics":
				level = slog.LevelDebug
			}
			slog.Log(r.Context(), level, "request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.Status(),
				"bytes", rec.BytesWritten(),
				"duration", duration,
			)
		})
	}
}
