package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wellpath/portal/internal/auth"
	"github.com/wellpath/portal/internal/metrics"
	"github.com/wellpath/portal/internal/model"
	"github.com/wellpath/portal/internal/session"
)

func TestGuard(t *testing.T) {
	t.Parallel()

	patient := &session.Session{ID: "s1", Token: "tok", User: model.User{ID: "u1", Role: model.RoleUser}}
	admin := &session.Session{ID: "s2", Token: "tok", User: model.User{ID: "u2", Role: model.RoleAdmin}}

	tests := []struct {
		name         string
		method       string
		path         string
		state        session.State
		sess         *session.Session
		wantStatus   int
		wantLocation string
		wantHandler  bool
	}{
		{"public page", http.MethodGet, "/blog", session.StateUnauthenticated, nil, http.StatusOK, "", true},
		{"dashboard anonymous", http.MethodGet, "/dashboard/courses?q=yoga", session.StateUnauthenticated, nil, http.StatusFound, "/login?next=%2Fdashboard%2Fcourses%3Fq%3Dyoga", false},
		{"dashboard anonymous post", http.MethodPost, "/dashboard/bookmarks", session.StateUnauthenticated, nil, http.StatusSeeOther, "/login", false},
		{"admin anonymous", http.MethodGet, "/admin", session.StateUnauthenticated, nil, http.StatusFound, "/login?next=%2Fadmin", false},
		{"admin as patient", http.MethodGet, "/admin/users", session.StateAuthenticated, patient, http.StatusFound, "/dashboard", false},
		{"admin delete as patient", http.MethodDelete, "/admin/users/1", session.StateAuthenticated, patient, http.StatusSeeOther, "/dashboard", false},
		{"admin as admin", http.MethodGet, "/admin/users", session.StateAuthenticated, admin, http.StatusOK, "", true},
		{"dashboard as patient", http.MethodGet, "/dashboard", session.StateAuthenticated, patient, http.StatusOK, "", true},
		{"dashboard while loading", http.MethodGet, "/dashboard", session.StateLoading, nil, http.StatusServiceUnavailable, "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			handler := Guard(GuardConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req = req.WithContext(auth.ContextWithSession(req.Context(), tt.state, tt.sess))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
			}
			if called != tt.wantHandler {
				t.Errorf("handler called = %v, want %v", called, tt.wantHandler)
			}
		})
	}
}

func TestGuard_RecordsDecisions(t *testing.T) {
	t.Parallel()

	recorder := metrics.NewInMemory()
	handler := Guard(GuardConfig{Metrics: recorder})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, path := range []string{"/", "/dashboard", "/admin"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req = req.WithContext(auth.ContextWithSession(context.Background(), session.StateUnauthenticated, nil))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	snap := recorder.Snapshot()
	if snap.GuardDecisions["redirect_login"] != 2 {
		t.Errorf("redirect_login = %d, want 2", snap.GuardDecisions["redirect_login"])
	}
	if snap.GuardDecisions["allow"] != 0 {
		t.Error("public routes are not counted")
	}
}
