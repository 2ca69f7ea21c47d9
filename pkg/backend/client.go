// Package backend is a typed client for the serverless document backend
// reached through the gateway's /api prefix.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/dskvich/doc-reviewer/pkg/logger"
)

const (
	DefaultAPIPrefix = "/api"
	identityPath     = "/auth/me"

	// FunctionKeyHeader authorises calls to function-level protected endpoints.
	FunctionKeyHeader = "x-functions-key"
)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func WithHeader(key, value string) Option {
	return func(c *Client) {
		if value != "" {
			c.headers.Set(key, value)
		}
	}
}

// WithAPIPrefix mounts endpoints under prefix; "" or "/" mounts them at the root.
func WithAPIPrefix(prefix string) Option {
	return func(c *Client) {
		c.apiPrefix = ""
		if p := strings.Trim(prefix, "/"); p != "" {
			c.apiPrefix = "/" + p
		}
	}
}

type Client struct {
	baseURL   *url.URL
	apiPrefix string
	hc        *http.Client
	headers   http.Header
}

// NewClient builds a client rooted at baseURL, usually the gateway origin.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base url is empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:   u,
		apiPrefix: DefaultAPIPrefix,
		hc:        cleanhttp.DefaultPooledClient(),
		headers:   http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) apiURL(endpoint string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + c.apiPrefix + "/" + strings.TrimLeft(endpoint, "/")
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) rootURL(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = ""
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if requestID, ok := logger.RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", requestID)
	}
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, rawURL string, payload any) (*http.Request, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	return c.newRequest(ctx, method, rawURL, bytes.NewReader(jsonData), "application/json")
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	slog.DebugContext(req.Context(), "calling backend", "method", req.Method, "url", req.URL.Redacted())

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing HTTP request: %w", err)
	}
	return resp, nil
}

// doJSON performs req and decodes a 2xx body into T.
func doJSON[T any](c *Client, req *http.Request) (T, error) {
	var zero T

	resp, err := c.do(req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	return decode[T](resp)
}

// doNoContent performs req and only checks the status.
func (c *Client) doNoContent(req *http.Request) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return apiError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
