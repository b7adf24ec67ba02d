package middleware

import (
	"log/slog"
	"net/http"

	"github.com/wellpath/portal/internal/auth"
	"github.com/wellpath/portal/internal/metrics"
	"github.com/wellpath/portal/internal/policy"
	"github.com/wellpath/portal/internal/view"
)

// placeholderRetryAfter is the Retry-After value sent with the loading page.
const placeholderRetryAfter = "2"

// GuardConfig holds configuration for the route guard.
type GuardConfig struct {
	Logger  *slog.Logger
	Metrics metrics.Recorder
}

// Guard evaluates policy.CanAccess before any page handler runs.
// Must be applied after Session.
func Guard(cfg GuardConfig) func(http.Handler) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			decision := policy.CanAccess(r.URL.Path, auth.StateFromContext(ctx), auth.SessionFromContext(ctx))

			if policy.Classify(r.URL.Path) != policy.Public {
				cfg.Metrics.IncGuardDecision(decision.String())
				if fields := logFieldsFrom(ctx); fields != nil {
					fields.guard = decision.String()
				}
			}

			switch decision {
			case policy.DecisionAllow:
				next.ServeHTTP(w, r)
			case policy.DecisionRedirectLogin:
				returnTo := ""
				if r.Method == http.MethodGet {
					returnTo = r.URL.RequestURI()
				}
				view.Redirect(w, policy.LoginRedirect(returnTo), redirectStatus(r))
			case policy.DecisionRedirectDashboard:
				if cfg.Logger != nil {
					cfg.Logger.Warn("admin route denied",
						slog.String("request_id", GetRequestID(ctx)),
						slog.String("user_id", auth.UserIDFromContext(ctx)),
						slog.String("path", r.URL.Path),
					)
				}
				view.Redirect(w, policy.DashboardPath, redirectStatus(r))
			case policy.DecisionPlaceholder:
				view.Placeholder(w, placeholderRetryAfter)
			}
		})
	}
}

// redirectStatus is 302 for safe methods and 303 otherwise so the browser
// follows up with a GET.
func redirectStatus(r *http.Request) int {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
