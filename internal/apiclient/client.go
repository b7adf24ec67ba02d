// Package apiclient is the single HTTP client for the backend REST API.
// It builds every call from the configured base URL, attaches the caller's
// bearer token, and normalizes failures into *Error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wellpath/portal/internal/metrics"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second

	// maxErrorBody bounds how much of an error response is read for its message.
	maxErrorBody = 64 << 10

	userAgent = "Wellpath-Portal/1.0"
)

// Client calls the backend API.
type Client struct {
	baseURL        string
	http           *http.Client
	logger         *slog.Logger
	metrics        metrics.Recorder
	onUnauthorized func(ctx context.Context)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for per-call logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(c *Client) { c.metrics = recorder }
}

// WithUnauthorizedHandler registers fn to run when a call that carried a
// bearer token is answered with 401. The session layer uses it to drop
// the stale session.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a Client for baseURL (e.g. https://api.example.com/api/v1).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    NewHTTPClient(0),
		logger:  slog.Default(),
		metrics: metrics.NewNoop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewHTTPClient creates an http.Client for backend calls.
// timeout 0 leaves the total request time bounded only by the caller's context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: TLSHandshakeTimeout,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded 2xx response body. No retries.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	hasToken := req.Header.Get("Authorization") != ""
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(ctx, method, path, 0, start, err)
		return newNetworkError(err)
	}
	defer resp.Body.Close()

	c.observe(ctx, method, path, resp.StatusCode, start, nil)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newHTTPError(resp.StatusCode, readErrorMessage(resp.Body))
		if resp.StatusCode == http.StatusUnauthorized && hasToken && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return &Error{
			Kind:    KindHTTP,
			Status:  resp.StatusCode,
			Message: "Unexpected response from server",
			Err:     fmt.Errorf("decode response: %w", err),
		}
	}

	return nil
}

// Ping checks the backend is reachable. Any HTTP answer counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return newNetworkError(err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Message: "Invalid request data", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, newNetworkError(fmt.Errorf("build request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *Client) observe(ctx context.Context, method, path string, status int, start time.Time, err error) {
	duration := time.Since(start)
	c.metrics.ObserveBackendCall(status, duration)

	attrs := []slog.Attr{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status_code", status),
		slog.Float64("duration_ms", float64(duration.Microseconds())/1000),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		c.logger.LogAttrs(ctx, slog.LevelWarn, "backend call failed", attrs...)
		return
	}

	level := slog.LevelDebug
	if status >= 500 {
		level = slog.LevelWarn
	}
	c.logger.LogAttrs(ctx, level, "backend call", attrs...)
}

// readErrorMessage pulls the envelope message out of an error body.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &env) != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}
