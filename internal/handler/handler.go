// Package handler provides the portal's HTTP page handlers. Every page
// answers with a view.Page JSON view-model.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/auth"
	"github.com/wellpath/portal/internal/middleware"
	"github.com/wellpath/portal/internal/model"
	"github.com/wellpath/portal/internal/policy"
	"github.com/wellpath/portal/internal/session"
	"github.com/wellpath/portal/internal/view"
)

// Default page size for list pages.
const (
	defaultLimit = 20
	maxLimit     = 100
)

// errInvalidForm is returned when a request body cannot be decoded.
var errInvalidForm = apiclient.NewValidationError("Invalid form data")

// Handler holds what every page handler needs: a logger and the session
// cookie, which is expired when the backend rejects the session's token.
type Handler struct {
	logger *slog.Logger
	cookie session.CookieConfig
}

// New creates a new Handler.
func New(logger *slog.Logger, cookie session.CookieConfig) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, cookie: cookie}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	view.Message(w, http.StatusNotFound, "not_found", view.Error("Page not found"))
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	view.Message(w, http.StatusMethodNotAllowed, "method_not_allowed", view.Error("Method not allowed"))
}

// render writes p with the signed-in user attached.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, p view.Page) {
	if p.User == nil {
		p.User = auth.UserFromContext(r.Context())
	}
	view.Render(w, status, p)
}

// notifyError renders page with an error notification whose status follows
// the error kind. A backend 401 on a signed-in request means the session is
// gone, so the cookie is expired and the visitor is sent to log in again.
func (h *Handler) notifyError(w http.ResponseWriter, r *http.Request, page, title string, err error) {
	ctx := r.Context()

	if apiclient.IsUnauthorized(err) && auth.SessionFromContext(ctx) != nil {
		h.cookie.Expire(w)
		returnTo := ""
		status := http.StatusSeeOther
		if r.Method == http.MethodGet {
			returnTo = r.URL.RequestURI()
			status = http.StatusFound
		}
		view.Redirect(w, policy.LoginRedirect(returnTo), status)
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("page request failed",
			slog.String("request_id", middleware.GetRequestID(ctx)),
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}

	h.render(w, r, status, view.Page{
		Page:         page,
		Title:        title,
		Notification: view.Error(messageFor(err)),
	})
}

// signedOut answers a backend 401 through notifyError and reports whether
// it did. Pages that fetch several sections check each error with it so a
// later failure cannot mask the sign-out.
func (h *Handler) signedOut(w http.ResponseWriter, r *http.Request, page, title string, err error) bool {
	if !apiclient.IsUnauthorized(err) {
		return false
	}
	h.notifyError(w, r, page, title, err)
	return true
}

// renderList renders a list page. A failed fetch still renders the page,
// with an empty list and an error notification.
func renderList[T any](h *Handler, w http.ResponseWriter, r *http.Request, page, title string, q model.ListQuery, items []T, pg *model.Pagination, err error) {
	p := view.Page{
		Page:       page,
		Title:      title,
		Filters:    filtersOf(q),
		Pagination: pg,
	}

	if err != nil {
		if apiclient.IsUnauthorized(err) && auth.SessionFromContext(r.Context()) != nil {
			h.notifyError(w, r, page, title, err)
			return
		}
		h.logger.Warn("list fetch failed",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		p.Data = []T{}
		p.Pagination = nil
		p.Notification = view.Error(messageFor(err))
		h.render(w, r, http.StatusOK, p)
		return
	}

	if items == nil {
		items = []T{}
	}
	p.Data = items
	h.render(w, r, http.StatusOK, p)
}

// statusFor maps an error to the status of the page that reports it.
func statusFor(err error) int {
	apiErr, ok := apiclient.AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch apiErr.Kind {
	case apiclient.KindValidation:
		return http.StatusUnprocessableEntity
	case apiclient.KindNetwork:
		return http.StatusBadGateway
	case apiclient.KindHTTP:
		if apiErr.Status >= 400 && apiErr.Status <= 599 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the user-facing message for err.
func messageFor(err error) string {
	if apiErr, ok := apiclient.AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong. Please try again."
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errInvalidForm
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apiclient.NewValidationError("Request body too large")
		}
		return errInvalidForm
	}
	return nil
}

// listQuery reads ?q, ?status, ?category, ?page and ?limit.
func listQuery(r *http.Request) model.ListQuery {
	values := r.URL.Query()

	q := model.ListQuery{
		Search:   strings.TrimSpace(values.Get("q")),
		Status:   strings.TrimSpace(values.Get("status")),
		Category: strings.TrimSpace(values.Get("category")),
		Page:     1,
		Limit:    defaultLimit,
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		q.Limit = min(limit, maxLimit)
	}

	return q
}

// filtersOf echoes the active filters back to the view.
func filtersOf(q model.ListQuery) map[string]string {
	filters := make(map[string]string, 3)
	if q.Search != "" {
		filters["q"] = q.Search
	}
	if q.Status != "" {
		filters["status"] = q.Status
	}
	if q.Category != "" {
		filters["category"] = q.Category
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
