// Package auth carries the hydrated session through a request context.
package auth

import (
	"context"

	"github.com/wellpath/portal/internal/model"
	"github.com/wellpath/portal/internal/session"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// authContextKey is the context key for storing the request's auth state.
	authContextKey contextKey = "auth_context"
)

// Context is the session state seen by one request.
type Context struct {
	State   session.State
	Session *session.Session
}

// ContextWithSession adds the hydrated state and session to ctx.
func ContextWithSession(ctx context.Context, state session.State, sess *session.Session) context.Context {
	return context.WithValue(ctx, authContextKey, &Context{State: state, Session: sess})
}

// FromContext retrieves the auth Context. Returns nil if not present.
func FromContext(ctx context.Context) *Context {
	ac, ok := ctx.Value(authContextKey).(*Context)
	if !ok {
		return nil
	}
	return ac
}

// StateFromContext returns the hydrated session state.
// A request that never passed the session loader is unauthenticated.
func StateFromContext(ctx context.Context) session.State {
	ac := FromContext(ctx)
	if ac == nil {
		return session.StateUnauthenticated
	}
	return ac.State
}

// SessionFromContext returns the current session, or nil.
func SessionFromContext(ctx context.Context) *session.Session {
	ac := FromContext(ctx)
	if ac == nil {
		return nil
	}
	return ac.Session
}

// UserFromContext returns the signed-in user, or nil.
func UserFromContext(ctx context.Context) *model.User {
	sess := SessionFromContext(ctx)
	if sess == nil {
		return nil
	}
	u := sess.User
	return &u
}

// UserIDFromContext returns the signed-in user's id.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	sess := SessionFromContext(ctx)
	if sess == nil {
		return ""
	}
	return sess.User.ID
}
