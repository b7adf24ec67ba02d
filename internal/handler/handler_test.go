package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/auth"
	"github.com/wellpath/portal/internal/model"
	"github.com/wellpath/portal/internal/session"
)

var testCookie = session.CookieConfig{Name: "wellpath_session", TTL: time.Hour}

// decodePage decodes a view.Page body with Data left raw.
func decodePage(t *testing.T, rec *httptest.ResponseRecorder) pageBody {
	t.Helper()

	var p pageBody
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	return p
}

type pageBody struct {
	Page         string            `json:"page"`
	Title        string            `json:"title"`
	Data         json.RawMessage   `json:"data"`
	Filters      map[string]string `json:"filters"`
	Notification *struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"notification"`
	User     *model.User `json:"user"`
	Redirect string      `json:"redirect"`
}

func TestHandler_NotFound(t *testing.T) {
	h := New(nil, testCookie)

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	rec := httptest.NewRecorder()

	h.NotFound(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	p := decodePage(t, rec)
	if p.Page != "not_found" || p.Notification == nil || p.Notification.Level != "error" {
		t.Errorf("unexpected page: %+v", p)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := New(nil, testCookie)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	h.MethodNotAllowed(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}

	p := decodePage(t, rec)
	if p.Notification == nil || p.Notification.Message != "Method not allowed" {
		t.Errorf("unexpected notification: %+v", p.Notification)
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apiclient.NewValidationError("Email is required"), http.StatusUnprocessableEntity},
		{"network", &apiclient.Error{Kind: apiclient.KindNetwork}, http.StatusBadGateway},
		{"backend 404", &apiclient.Error{Kind: apiclient.KindHTTP, Status: http.StatusNotFound}, http.StatusNotFound},
		{"backend 409", &apiclient.Error{Kind: apiclient.KindHTTP, Status: http.StatusConflict}, http.StatusConflict},
		{"backend 500", &apiclient.Error{Kind: apiclient.KindHTTP, Status: http.StatusInternalServerError}, http.StatusInternalServerError},
		{"backend odd status", &apiclient.Error{Kind: apiclient.KindHTTP, Status: 302}, http.StatusBadGateway},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMessageFor(t *testing.T) {
	t.Parallel()

	if got := messageFor(apiclient.NewValidationError("Name is required")); got != "Name is required" {
		t.Errorf("messageFor(validation) = %q", got)
	}
	if got := messageFor(errors.New("pgx: secret details")); strings.Contains(got, "pgx") {
		t.Errorf("messageFor leaked an internal error: %q", got)
	}
}

func TestListQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  model.ListQuery
	}{
		{"defaults", "", model.ListQuery{Page: 1, Limit: defaultLimit}},
		{"all filters", "?q=+sleep+&status=pending&category=nutrition&page=3&limit=10",
			model.ListQuery{Search: "sleep", Status: "pending", Category: "nutrition", Page: 3, Limit: 10}},
		{"limit capped", "?limit=500", model.ListQuery{Page: 1, Limit: maxLimit}},
		{"garbage numbers", "?page=-2&limit=abc", model.ListQuery{Page: 1, Limit: defaultLimit}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/blog"+tt.query, nil)
			if got := listQuery(req); got != tt.want {
				t.Errorf("listQuery() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader("{not json"))
	var dst map[string]any

	err := decodeJSON(req, &dst)
	if apiclient.KindOf(err) != apiclient.KindValidation {
		t.Fatalf("decodeJSON error = %v, want validation kind", err)
	}
}

func TestRenderList_FailureRendersEmptyList(t *testing.T) {
	h := New(nil, testCookie)

	req := httptest.NewRequest(http.MethodGet, "/blog?q=sleep", nil)
	rec := httptest.NewRecorder()

	fetchErr := &apiclient.Error{Kind: apiclient.KindNetwork, Message: "Network error: unable to reach the server"}
	renderList[model.BlogPost](h, rec, req, "blog", "Blog", listQuery(req), nil, &model.Pagination{Total: 9}, fetchErr)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	p := decodePage(t, rec)
	if string(p.Data) != "[]" {
		t.Errorf("data = %s, want []", p.Data)
	}
	if p.Notification == nil || p.Notification.Level != "error" {
		t.Errorf("expected an error notification, got %+v", p.Notification)
	}
	if p.Filters["q"] != "sleep" {
		t.Errorf("filters = %v, want q=sleep", p.Filters)
	}
}

func TestNotifyError_UnauthorizedSignsOut(t *testing.T) {
	h := New(nil, testCookie)

	sess := &session.Session{ID: "s1", Token: "tok", User: model.User{ID: "u1", Role: model.RoleUser}}
	req := httptest.NewRequest(http.MethodGet, "/dashboard/courses", nil)
	req = req.WithContext(auth.ContextWithSession(req.Context(), session.StateAuthenticated, sess))
	rec := httptest.NewRecorder()

	h.notifyError(rec, req, "courses", "Courses", &apiclient.Error{Kind: apiclient.KindHTTP, Status: http.StatusUnauthorized})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?next=%2Fdashboard%2Fcourses" {
		t.Errorf("Location = %q", loc)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != testCookie.Name || cookies[0].MaxAge >= 0 {
		t.Errorf("expected the session cookie to be expired, got %+v", cookies)
	}
}

func TestNotifyError_UnauthorizedWithoutSession(t *testing.T) {
	h := New(nil, testCookie)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()

	h.notifyError(rec, req, "login", "Log in", &apiclient.Error{Kind: apiclient.KindHTTP, Status: http.StatusUnauthorized, Message: "Invalid email or password"})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	p := decodePage(t, rec)
	if p.Notification == nil || p.Notification.Message != "Invalid email or password" {
		t.Errorf("unexpected notification: %+v", p.Notification)
	}
}
