package policy

import (
	"testing"

	"github.com/wellpath/portal/internal/model"
	"github.com/wellpath/portal/internal/session"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want RouteClass
	}{
		{"/", Public},
		{"/blog", Public},
		{"/blog/admin-tips", Public},
		{"/login", Public},
		{"/dashboard", Protected},
		{"/dashboard/", Protected},
		{"/dashboard/courses/42", Protected},
		{"/dashboards", Public},
		{"/admin", Admin},
		{"/admin/users/7", Admin},
		{"/administrator", Public},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestCanAccess(t *testing.T) {
	t.Parallel()

	patient := &session.Session{ID: "s1", Token: "tok", User: model.User{ID: "u1", Role: model.RoleUser}}
	admin := &session.Session{ID: "s2", Token: "tok", User: model.User{ID: "u2", Role: model.RoleAdmin}}

	tests := []struct {
		name  string
		path  string
		state session.State
		sess  *session.Session
		want  Decision
	}{
		{"public anonymous", "/blog", session.StateUnauthenticated, nil, DecisionAllow},
		{"public while loading", "/", session.StateLoading, nil, DecisionAllow},
		{"dashboard anonymous", "/dashboard/courses", session.StateUnauthenticated, nil, DecisionRedirectLogin},
		{"admin anonymous", "/admin/blog", session.StateUnauthenticated, nil, DecisionRedirectLogin},
		{"dashboard loading", "/dashboard", session.StateLoading, nil, DecisionPlaceholder},
		{"admin loading", "/admin", session.StateLoading, nil, DecisionPlaceholder},
		{"dashboard patient", "/dashboard/ebooks", session.StateAuthenticated, patient, DecisionAllow},
		{"admin patient", "/admin/users", session.StateAuthenticated, patient, DecisionRedirectDashboard},
		{"admin admin", "/admin/users", session.StateAuthenticated, admin, DecisionAllow},
		{"dashboard admin", "/dashboard", session.StateAuthenticated, admin, DecisionAllow},
		{"authenticated without session", "/dashboard", session.StateAuthenticated, nil, DecisionRedirectLogin},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CanAccess(tt.path, tt.state, tt.sess); got != tt.want {
				t.Errorf("CanAccess(%q, %s) = %s, want %s", tt.path, tt.state, got, tt.want)
			}
		})
	}
}

func TestLoginRedirect(t *testing.T) {
	t.Parallel()

	if got := LoginRedirect(""); got != "/login" {
		t.Errorf("LoginRedirect(\"\") = %s", got)
	}
	if got := LoginRedirect("/dashboard/courses?q=a b"); got != "/login?next=%2Fdashboard%2Fcourses%3Fq%3Da+b" {
		t.Errorf("LoginRedirect = %s", got)
	}
}

func TestSafeNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		next string
		want string
	}{
		{"", "/dashboard"},
		{"/dashboard/courses", "/dashboard/courses"},
		{"/admin/blog?status=draft", "/admin/blog?status=draft"},
		{"https://evil.example", "/dashboard"},
		{"//evil.example", "/dashboard"},
		{"/\\evil.example", "/dashboard"},
		{"dashboard", "/dashboard"},
	}

	for _, tt := range tests {
		if got := SafeNext(tt.next, "/dashboard"); got != tt.want {
			t.Errorf("SafeNext(%q) = %q, want %q", tt.next, got, tt.want)
		}
	}
}

func TestHomeFor(t *testing.T) {
	t.Parallel()

	if HomeFor(nil) != DashboardPath {
		t.Error("anonymous home should be dashboard")
	}
	if HomeFor(&session.Session{User: model.User{Role: model.RoleAdmin}}) != AdminPath {
		t.Error("admin home should be admin console")
	}
}
