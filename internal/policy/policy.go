// Package policy decides whether a request may reach a page. It is a pure
// function of the path and the hydrated session so it can be tested
// without HTTP.
package policy

import (
	"net/url"
	"strings"

	"github.com/wellpath/portal/internal/session"
)

// RouteClass is the access class of a path.
type RouteClass int

const (
	Public RouteClass = iota
	Protected
	Admin
)

// String returns the class name.
func (c RouteClass) String() string {
	switch c {
	case Protected:
		return "protected"
	case Admin:
		return "admin"
	default:
		return "public"
	}
}

// Decision is the outcome of CanAccess.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionRedirectLogin
	DecisionRedirectDashboard
	DecisionPlaceholder
)

// String returns the decision name used in logs and metrics.
func (d Decision) String() string {
	switch d {
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectDashboard:
		return "redirect_dashboard"
	case DecisionPlaceholder:
		return "placeholder"
	default:
		return "allow"
	}
}

// Paths the guard redirects to.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
	AdminPath     = "/admin"
)

// Classify returns the access class for path.
func Classify(path string) RouteClass {
	switch {
	case hasSegmentPrefix(path, AdminPath):
		return Admin
	case hasSegmentPrefix(path, DashboardPath):
		return Protected
	default:
		return Public
	}
}

// CanAccess reports what to do with a request for path given the session
// state. Public paths are always allowed.
func CanAccess(path string, state session.State, sess *session.Session) Decision {
	class := Classify(path)
	if class == Public {
		return DecisionAllow
	}

	switch state {
	case session.StateLoading:
		return DecisionPlaceholder
	case session.StateUnauthenticated:
		return DecisionRedirectLogin
	}

	if sess == nil {
		return DecisionRedirectLogin
	}
	if class == Admin && !sess.IsAdmin() {
		return DecisionRedirectDashboard
	}
	return DecisionAllow
}

// LoginRedirect returns the login URL carrying next as the return target.
func LoginRedirect(next string) string {
	if next == "" || next == LoginPath {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext returns next when it is a local path, and fallback otherwise.
// It rejects absolute and scheme-relative URLs so login cannot be used as
// an open redirect.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}

// HomeFor returns the landing page for a signed-in user.
func HomeFor(sess *session.Session) string {
	if sess != nil && sess.IsAdmin() {
		return AdminPath
	}
	return DashboardPath
}

func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
