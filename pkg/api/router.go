package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dskvich/doc-reviewer/pkg/api/handler"
	"github.com/dskvich/doc-reviewer/pkg/api/middleware"
	"github.com/dskvich/doc-reviewer/pkg/metrics"
)

type Config struct {
	BackendURL    *url.URL
	FunctionKey   string
	StaticDir     string
	Authenticator middleware.Authenticator
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
}

// NewRouter assembles the gateway: /api is proxied to the backend, /auth/me
// reports the platform identity and every other path serves the client app.
func NewRouter(cfg Config) (http.Handler, error) {
	if cfg.Metrics == nil || cfg.Gatherer == nil {
		return nil, fmt.Errorf("metrics and gatherer are required")
	}

	proxy, err := handler.NewProxy(cfg.BackendURL, cfg.FunctionKey, cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("creating proxy: %w", err)
	}

	var api http.Handler = proxy
	if cfg.Authenticator != nil {
		api = middleware.Authorize(cfg.Authenticator, cfg.Metrics)(proxy)
	}

	identity := handler.NewIdentity()
	health := handler.NewHealth()

	mux := http.NewServeMux()
	mux.Handle("/api/", api)
	mux.Handle("/api", api)
	mux.HandleFunc("GET /auth/me", identity.Me)
	mux.HandleFunc("GET /healthz", health.Check)
	mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/", handler.NewSPA(cfg.StaticDir))

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.AccessLog(cfg.Metrics, routeOf),
	), nil
}

func routeOf(r *http.Request) string {
	p := r.URL.Path
	switch {
	case p == "/api" || strings.HasPrefix(p, "/api/"):
		return "api"
	case strings.HasPrefix(p, "/auth/"):
		return "auth"
	case p == "/healthz":
		return "health"
	case p == "/metrics":
		return "metrics"
	default:
		return "spa"
	}
}
