package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/wellpath/portal/internal/metrics"
	"github.com/wellpath/portal/internal/ratelimit"
	"github.com/wellpath/portal/internal/view"
)

// RateLimitConfig holds configuration for login rate limiting.
type RateLimitConfig struct {
	Enabled bool
	Limiter ratelimit.Limiter
	Logger  *slog.Logger
	Metrics metrics.Recorder
}

// RateLimitLogin returns middleware that limits login and signup attempts
// per client IP. A limiter failure lets the request through.
func RateLimitLogin(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled || cfg.Limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)

			result, err := cfg.Limiter.Allow(r.Context(), ip)
			if err != nil {
				cfg.Logger.Error("login rate limit check failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))

			if !result.Allowed {
				retryAfter := int(result.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}

				cfg.Logger.Warn("rate limit exceeded",
					slog.String("type", "login"),
					slog.String("ip", ip),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.Int("retry_after_seconds", retryAfter),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				cfg.Metrics.IncLogin(metrics.LoginRateLimited)

				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				view.Message(w, http.StatusTooManyRequests, "login",
					view.Error("Too many attempts. Please try again in "+strconv.Itoa(retryAfter)+" seconds."))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP returns the host part of r.RemoteAddr. Proxy headers are
// honored only through RealIP, which the router installs when configured to
// trust them.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
