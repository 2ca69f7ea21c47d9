package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/dskvich/doc-reviewer/pkg/api/middleware"
	"github.com/dskvich/doc-reviewer/pkg/api/response"
	"github.com/dskvich/doc-reviewer/pkg/backend"
	"github.com/dskvich/doc-reviewer/pkg/logger"
)

type ProxyMetrics interface {
	RecordProxyRequest(endpoint string, code int, duration time.Duration)
	RecordProxyError()
}

type proxy struct {
	target  *url.URL
	rp      *httputil.ReverseProxy
	metrics ProxyMetrics
	writer  response.JSONResponseWriter
}

// NewProxy forwards requests to target with the path kept as is, so /api/x
// reaches <target>/api/x. The Host header is rewritten to the target's.
func NewProxy(target *url.URL, functionKey string, metrics ProxyMetrics) (*proxy, error) {
	if target == nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid backend url %v", target)
	}

	p := &proxy{
		target:  target,
		metrics: metrics,
		writer:  response.JSONResponseWriter{},
	}

	p.rp = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
			if functionKey != "" {
				r.Out.Header.Set(backend.FunctionKeyHeader, functionKey)
			}
			if id, ok := logger.RequestIDFromContext(r.In.Context()); ok {
				r.Out.Header.Set(middleware.RequestIDHeader, id)
			}
		},
		Transport:    cleanhttp.DefaultPooledTransport(),
		ErrorHandler: p.handleError,
		ErrorLog:     slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	}

	return p, nil
}

func (p *proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := response.NewRecorder(w)

	p.rp.ServeHTTP(rec, r)

	endpoint := endpointOf(r.URL.Path)
	if p.metrics != nil {
		p.metrics.RecordProxyRequest(endpoint, rec.Status(), time.Since(start))
	}
	slog.DebugContext(r.Context(), "proxied", "endpoint", endpoint, "status", rec.Status(), "duration", time.Since(start))
}

func (p *proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		slog.DebugContext(r.Context(), "client went away", "path", r.URL.Path)
		w.WriteHeader(499)
		return
	}

	slog.ErrorContext(r.Context(), "backend unreachable", "backend", p.target.Host, "path", r.URL.Path, logger.Err(err))
	if p.metrics != nil {
		p.metrics.RecordProxyError()
	}
	p.writer.WriteErrorResponse(w, http.StatusBadGateway, "Backend unavailable")
}

// endpointOf returns the function name of an /api path, e.g. callAoai.
func endpointOf(path string) string {
	rest := strings.TrimPrefix(strings.TrimPrefix(path, "/"), "api")
	rest = strings.TrimPrefix(rest, "/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "root"
	}
	return rest
}
