package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// BackendPrefix is the API prefix the fake backend serves under.
const BackendPrefix = "/api/v1"

// RecordedRequest is one call the fake backend received.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	Body          []byte
}

// Backend is a scripted stand-in for the REST API. Routes are matched on
// method and path below BackendPrefix; unscripted routes answer 404.
type Backend struct {
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewBackend starts a fake backend that is closed when t finishes.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{routes: make(map[string]http.HandlerFunc)}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the base URL clients should be configured with.
func (b *Backend) URL() string {
	return b.server.URL + BackendPrefix
}

// Close stops the server early, e.g. to simulate the backend being down.
func (b *Backend) Close() {
	b.server.Close()
}

// Handle scripts method+path with h.
func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

// Envelope scripts a 200 success envelope carrying data.
func (b *Backend) Envelope(method, path string, data any) {
	b.JSON(method, path, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "ok",
		"data":    data,
	})
}

// Fail scripts an error envelope with status and message.
func (b *Backend) Fail(method, path string, status int, message string) {
	b.JSON(method, path, status, map[string]any{
		"status":  "error",
		"message": message,
	})
}

// JSON scripts an arbitrary JSON body with status.
func (b *Backend) JSON(method, path string, status int, body any) {
	b.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

// Requests returns a copy of every request received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// Last returns the most recent request, or the zero value.
func (b *Backend) Last() RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return RecordedRequest{}
	}
	return b.requests[len(b.requests)-1]
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	path := strings.TrimPrefix(r.URL.Path, BackendPrefix)

	b.mu.Lock()
	b.requests = append(b.requests, RecordedRequest{
		Method:        r.Method,
		Path:          path,
		Query:         r.URL.Query(),
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
	})
	h, ok := b.routes[r.Method+" "+path]
	b.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error","message":"Route not found"}`))
		return
	}
	h(w, r)
}
