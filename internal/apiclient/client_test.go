package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

type item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestClient_CallUnwrapsEnvelope(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","message":"ok","data":[{"id":"1","title":"First"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/api/v1/")
	ctx := ContextWithToken(context.Background(), "tok_123")

	items, err := Call[[]item](ctx, c, http.MethodGet, "/admin/blog", url.Values{"status": {"draft"}}, nil)
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}

	if gotPath != "/api/v1/admin/blog" {
		t.Errorf("path = %s, want /api/v1/admin/blog", gotPath)
	}
	if gotQuery != "status=draft" {
		t.Errorf("query = %s, want status=draft", gotQuery)
	}
	if gotAuth != "Bearer tok_123" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if len(items) != 1 || items[0].Title != "First" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("unexpected Authorization header %q", h)
		}
		_, _ = w.Write([]byte(`{"status":"success","data":null}`))
	}))
	defer srv.Close()

	if err := New(srv.URL).Do(context.Background(), http.MethodGet, "/blog", nil, nil, nil); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
}

func TestClient_SendsJSONBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var in item
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		in.ID = "new"
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": in})
	}))
	defer srv.Close()

	got, err := Call[item](context.Background(), New(srv.URL), http.MethodPost, "/admin/blog", nil, item{Title: "Draft"})
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if got.ID != "new" || got.Title != "Draft" {
		t.Errorf("unexpected item: %+v", got)
	}
}

func TestClient_HTTPErrorCarriesMessageAndStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"envelope message", http.StatusBadRequest, `{"status":"error","message":"Email already registered"}`, "Email already registered"},
		{"error field", http.StatusConflict, `{"error":"duplicate slug"}`, "duplicate slug"},
		{"non-json body", http.StatusBadGateway, `<html>bad gateway</html>`, "Bad Gateway"},
		{"empty body", http.StatusNotFound, ``, "Not Found"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New(srv.URL).Do(context.Background(), http.MethodGet, "/x", nil, nil, nil)
			apiErr, ok := AsError(err)
			if !ok {
				t.Fatalf("expected *Error, got %T", err)
			}
			if apiErr.Kind != KindHTTP {
				t.Errorf("Kind = %s, want http", apiErr.Kind)
			}
			if apiErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	err := New(base).Do(context.Background(), http.MethodGet, "/blog", nil, nil, nil)
	if KindOf(err) != KindNetwork {
		t.Fatalf("KindOf = %q, want network (err=%v)", KindOf(err), err)
	}
	if StatusOf(err) != 0 {
		t.Errorf("network errors carry no status, got %d", StatusOf(err))
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Unwrap() == nil {
		t.Error("network error should wrap the transport error")
	}
}

func TestClient_UnauthorizedHandler(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Token expired"}`))
	}))
	defer srv.Close()

	calls := 0
	c := New(srv.URL, WithUnauthorizedHandler(func(ctx context.Context) { calls++ }))

	// Without a token (e.g. a failed login) the hook must not fire.
	err := c.Do(context.Background(), http.MethodPost, "/auth/login", nil, map[string]string{}, nil)
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if calls != 0 {
		t.Errorf("hook fired without a token")
	}

	ctx := ContextWithToken(context.Background(), "stale")
	_ = c.Do(ctx, http.MethodGet, "/user/profile", nil, nil, nil)
	if calls != 1 {
		t.Errorf("hook calls = %d, want 1", calls)
	}
}

func TestClient_MalformedSuccessBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [`))
	}))
	defer srv.Close()

	_, err := Call[[]item](context.Background(), New(srv.URL), http.MethodGet, "/blog", nil, nil)
	if KindOf(err) != KindHTTP {
		t.Errorf("KindOf = %q, want http", KindOf(err))
	}
}

func TestKindOf_NonAPIError(t *testing.T) {
	t.Parallel()

	if KindOf(errors.New("boom")) != "" {
		t.Error("plain errors have no kind")
	}
	if KindOf(NewValidationError("Passwords do not match")) != KindValidation {
		t.Error("validation error kind mismatch")
	}
}
