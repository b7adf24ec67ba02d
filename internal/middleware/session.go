package middleware

import (
	"log/slog"
	"net/http"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/auth"
	"github.com/wellpath/portal/internal/session"
)

// SessionConfig holds configuration for the session loader.
type SessionConfig struct {
	Manager *session.Manager
	Cookie  session.CookieConfig
	Logger  *slog.Logger
}

// Session hydrates the request's session from its cookie and stores the
// result in the context. A signed-in request also carries its bearer
// token for backend calls. A cookie that no longer maps to a session is
// expired.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cfg.Cookie.Read(r)
			state, sess := cfg.Manager.Hydrate(r.Context(), id)

			if id != "" && state == session.StateUnauthenticated {
				cfg.Cookie.Expire(w)
			}

			ctx := auth.ContextWithSession(r.Context(), state, sess)
			if sess != nil {
				ctx = apiclient.ContextWithToken(ctx, sess.Token)
			}

			if fields := logFieldsFrom(ctx); fields != nil {
				fields.sessionState = state.String()
				if sess != nil {
					fields.userID = sess.User.ID
				}
			}

			if state == session.StateLoading && cfg.Logger != nil {
				cfg.Logger.Warn("session store unavailable",
					slog.String("request_id", GetRequestID(ctx)),
					slog.String("path", r.URL.Path),
				)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
