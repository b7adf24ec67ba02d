package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/wellpath/portal/internal/auth"
	"github.com/wellpath/portal/internal/metrics"
	"github.com/wellpath/portal/internal/middleware"
	"github.com/wellpath/portal/internal/policy"
	"github.com/wellpath/portal/internal/service"
	"github.com/wellpath/portal/internal/session"
	"github.com/wellpath/portal/internal/view"
)

// AuthHandler serves login, signup, logout and password reset.
type AuthHandler struct {
	*Handler
	auth     *service.AuthService
	sessions *session.Manager
	metrics  metrics.Recorder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(h *Handler, authService *service.AuthService, sessions *session.Manager, recorder metrics.Recorder) *AuthHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthHandler{
		Handler:  h,
		auth:     authService,
		sessions: sessions,
		metrics:  recorder,
	}
}

type loginForm struct {
	service.Credentials
	Next string `json:"next"`
}

type authPageData struct {
	Next string `json:"next,omitempty"`
}

// LoginPage renders the login form. A signed-in visitor is sent home.
// GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if sess := auth.SessionFromContext(r.Context()); sess != nil {
		view.Redirect(w, policy.HomeFor(sess), http.StatusFound)
		return
	}

	next := policy.SafeNext(r.URL.Query().Get("next"), "")
	h.render(w, r, http.StatusOK, view.Page{
		Page:  "login",
		Title: "Log in",
		Data:  authPageData{Next: next},
	})
}

// Login authenticates against the backend, commits the session and sets
// the session cookie. The response names where the browser goes next.
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var form loginForm
	if err := decodeJSON(r, &form); err != nil {
		h.metrics.IncLogin(metrics.LoginFailure)
		h.notifyError(w, r, "login", "Log in", err)
		return
	}

	result, err := h.auth.Login(ctx, form.Credentials)
	if err != nil {
		h.metrics.IncLogin(metrics.LoginFailure)
		h.logger.Info("login failed",
			slog.String("request_id", middleware.GetRequestID(ctx)),
			slog.String("error", err.Error()),
		)
		h.render(w, r, statusFor(err), view.Page{
			Page:         "login",
			Title:        "Log in",
			Data:         authPageData{Next: policy.SafeNext(form.Next, "")},
			Notification: view.Error(messageFor(err)),
		})
		return
	}

	// A new login replaces whatever session the browser carried.
	if previous := auth.SessionFromContext(ctx); previous != nil {
		if err := h.sessions.Clear(ctx, previous); err != nil {
			h.logger.Warn("failed to clear previous session",
				slog.String("request_id", middleware.GetRequestID(ctx)),
				slog.String("error", err.Error()),
			)
		}
	}

	sess, err := h.sessions.Commit(ctx, result.Token, result.User)
	if err != nil {
		h.metrics.IncLogin(metrics.LoginFailure)
		h.logger.Error("failed to commit session",
			slog.String("request_id", middleware.GetRequestID(ctx)),
			slog.String("user_id", result.User.ID),
			slog.String("error", err.Error()),
		)
		view.Render(w, http.StatusServiceUnavailable, view.Page{
			Page:         "login",
			Title:        "Log in",
			Notification: view.Error("Unable to start your session. Please try again."),
		})
		return
	}

	h.cookie.Set(w, sess.ID)
	h.metrics.IncLogin(metrics.LoginSuccess)
	h.logger.Info("user logged in",
		slog.String("request_id", middleware.GetRequestID(ctx)),
		slog.String("user_id", sess.User.ID),
		slog.String("role", sess.User.Role),
	)

	message := result.Message
	if message == "" {
		message = "Welcome back, " + sess.User.Name
	}

	user := sess.User
	view.Render(w, http.StatusOK, view.Page{
		Page:         "login",
		Title:        "Log in",
		User:         &user,
		Notification: view.Success(message),
		Redirect:     policy.SafeNext(form.Next, policy.HomeFor(sess)),
	})
}

// SignupPage renders the registration form.
// GET /signup
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	if sess := auth.SessionFromContext(r.Context()); sess != nil {
		view.Redirect(w, policy.HomeFor(sess), http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, view.Page{Page: "signup", Title: "Sign up"})
}

// Signup registers an account. It does not sign the visitor in.
// POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in service.SignupInput
	if err := decodeJSON(r, &in); err != nil {
		h.metrics.IncSignup("failure")
		h.notifyError(w, r, "signup", "Sign up", err)
		return
	}

	message, err := h.auth.Signup(r.Context(), in)
	if err != nil {
		h.metrics.IncSignup("failure")
		h.notifyError(w, r, "signup", "Sign up", err)
		return
	}
	h.metrics.IncSignup("success")

	if message == "" {
		message = "Account created. Please log in."
	}
	h.render(w, r, http.StatusCreated, view.Page{
		Page:         "signup",
		Title:        "Sign up",
		Notification: view.Success(message),
		Redirect:     policy.LoginPath,
	})
}

// Logout clears the session and sends the browser to the login page.
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if sess := auth.SessionFromContext(ctx); sess != nil {
		if err := h.sessions.Clear(ctx, sess); err != nil {
			h.logger.Error("failed to clear session",
				slog.String("request_id", middleware.GetRequestID(ctx)),
				slog.String("user_id", sess.User.ID),
				slog.String("error", err.Error()),
			)
		} else {
			h.logger.Info("user logged out",
				slog.String("request_id", middleware.GetRequestID(ctx)),
				slog.String("user_id", sess.User.ID),
			)
		}
		h.metrics.IncLogout()
	}

	h.cookie.Expire(w)
	view.Redirect(w, policy.LoginPath, http.StatusSeeOther)
}

// Me returns the signed-in user.
// GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch auth.StateFromContext(ctx) {
	case session.StateLoading:
		view.Placeholder(w, "2")
		return
	case session.StateAuthenticated:
		user := auth.UserFromContext(ctx)
		h.render(w, r, http.StatusOK, view.Page{Page: "me", Title: "Account", Data: user, User: user})
	default:
		view.Message(w, http.StatusUnauthorized, "me", view.Error("You are not logged in"))
	}
}

// ForgotPassword asks the backend to email a reset link.
// POST /forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in service.ForgotPasswordInput
	if err := decodeJSON(r, &in); err != nil {
		h.notifyError(w, r, "forgot_password", "Forgot password", err)
		return
	}

	message, err := h.auth.ForgotPassword(r.Context(), in)
	if err != nil {
		h.notifyError(w, r, "forgot_password", "Forgot password", err)
		return
	}
	if message == "" {
		message = "If that email is registered, a reset link is on its way."
	}

	h.render(w, r, http.StatusOK, view.Page{
		Page:         "forgot_password",
		Title:        "Forgot password",
		Notification: view.Success(message),
	})
}

// ResetPassword completes a password reset.
// POST /reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in service.ResetPasswordInput
	if err := decodeJSON(r, &in); err != nil {
		h.notifyError(w, r, "reset_password", "Reset password", err)
		return
	}

	message, err := h.auth.ResetPassword(r.Context(), in)
	if err != nil {
		h.notifyError(w, r, "reset_password", "Reset password", err)
		return
	}
	if message == "" {
		message = "Password updated. Please log in."
	}

	h.render(w, r, http.StatusOK, view.Page{
		Page:         "reset_password",
		Title:        "Reset password",
		Notification: view.Success(message),
		Redirect:     policy.LoginPath,
	})
}

// SessionInvalidator returns the hook the API client runs when the backend
// rejects a session's token: the session is cleared so the next request
// is treated as signed out.
func SessionInvalidator(sessions *session.Manager, recorder metrics.Recorder, logger *slog.Logger) func(ctx context.Context) {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context) {
		sess := auth.SessionFromContext(ctx)
		if sess == nil {
			return
		}
		if err := sessions.Clear(ctx, sess); err != nil {
			logger.Error("failed to invalidate session",
				slog.String("request_id", middleware.GetRequestID(ctx)),
				slog.String("user_id", sess.User.ID),
				slog.String("error", err.Error()),
			)
			return
		}
		recorder.IncSessionInvalidated()
		logger.Info("session invalidated by backend",
			slog.String("request_id", middleware.GetRequestID(ctx)),
			slog.String("user_id", sess.User.ID),
		)
	}
}
