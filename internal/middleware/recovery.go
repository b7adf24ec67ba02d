package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/wellpath/portal/internal/view"
)

// Recoverer is a middleware that recovers from panics.
// It logs the panic and renders a 500 page. In development the stack is
// also written to stderr.
func Recoverer(logger *slog.Logger, development bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				logger.Error("panic recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				)

				if development {
					debug.PrintStack()
				}

				view.Message(w, http.StatusInternalServerError, "error",
					view.Error("Something went wrong. Please try again."))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
