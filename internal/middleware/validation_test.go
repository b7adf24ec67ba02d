package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"uuid", "3f1c2d4e-5a6b-7c8d-9e0f-1a2b3c4d5e6f", nil},
		{"object id", "65a1f0c2e4b0a1b2c3d4e5f6", nil},
		{"integer", "42", nil},
		{"empty", "", ErrIDInvalid},
		{"path traversal", "../users", ErrIDInvalid},
		{"slash", "a/b", ErrIDInvalid},
		{"query", "1?x=y", ErrIDInvalid},
		{"too long", strings.Repeat("a", MaxIDLength+1), ErrIDTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateID(tt.id); err != tt.wantErr {
				t.Errorf("ValidateID(%q) = %v, want %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr error
	}{
		{"simple", "sleep-hygiene", nil},
		{"digits", "top-10-tips", nil},
		{"single word", "nutrition", nil},
		{"uppercase", "Sleep-Hygiene", ErrSlugInvalid},
		{"double hyphen", "sleep--hygiene", ErrSlugInvalid},
		{"trailing hyphen", "sleep-", ErrSlugInvalid},
		{"empty", "", ErrSlugInvalid},
		{"too long", strings.Repeat("a", MaxSlugLength+1), ErrSlugTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateSlug(tt.slug); err != tt.wantErr {
				t.Errorf("ValidateSlug(%q) = %v, want %v", tt.slug, err, tt.wantErr)
			}
		})
	}
}

func TestValidateIDParam(t *testing.T) {
	t.Parallel()

	called := false
	handler := ValidateIDParam(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	withParam := func(id string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req := httptest.NewRequest(http.MethodGet, "/admin/blog/x", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withParam("bad id!"))
	if rec.Code != http.StatusNotFound || called {
		t.Errorf("malformed id: status = %d, called = %v", rec.Code, called)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withParam("abc123"))
	if !called {
		t.Error("valid id should reach the handler")
	}
}
