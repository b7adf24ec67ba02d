package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/auth"
	"github.com/wellpath/portal/internal/middleware"
	"github.com/wellpath/portal/internal/model"
	"github.com/wellpath/portal/internal/service"
	"github.com/wellpath/portal/internal/session"
	"github.com/wellpath/portal/internal/view"
)

// Payment kinds accepted by VerifyPayment.
const (
	paymentCourse = "course"
	paymentEbook  = "ebook"
)

var errUnknownPaymentKind = apiclient.NewValidationError("Kind must be one of: course, ebook")

// DashboardHandler serves the signed-in user's pages under /dashboard.
type DashboardHandler struct {
	*Handler
	services *service.Services
	sessions *session.Manager
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(h *Handler, services *service.Services, sessions *session.Manager) *DashboardHandler {
	return &DashboardHandler{Handler: h, services: services, sessions: sessions}
}

type overviewData struct {
	Courses      []model.Course      `json:"courses"`
	Ebooks       []model.Ebook       `json:"ebooks"`
	Appointments []model.Appointment `json:"appointments"`
}

// Overview summarizes the user's courses, ebooks and appointments. Each
// section is fetched on its own; a failed one stays empty.
// GET /dashboard
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := overviewData{
		Courses:      []model.Course{},
		Ebooks:       []model.Ebook{},
		Appointments: []model.Appointment{},
	}
	var failed error

	if courses, err := h.services.Courses.MyCourses(ctx); err != nil {
		if h.signedOut(w, r, "dashboard", "Dashboard", err) {
			return
		}
		failed = err
	} else {
		data.Courses = courses
	}
	if ebooks, err := h.services.Ebooks.MyLibrary(ctx); err != nil {
		if h.signedOut(w, r, "dashboard", "Dashboard", err) {
			return
		}
		failed = err
	} else {
		data.Ebooks = ebooks
	}
	if appts, _, err := h.services.Appointments.Mine(ctx, model.ListQuery{Status: string(model.AppointmentPending)}); err != nil {
		if h.signedOut(w, r, "dashboard", "Dashboard", err) {
			return
		}
		failed = err
	} else {
		data.Appointments = appts
	}

	p := view.Page{Page: "dashboard", Title: "Dashboard", Data: data}
	if failed != nil {
		h.logger.Warn("dashboard fetch failed",
			slog.String("request_id", middleware.GetRequestID(ctx)),
			slog.String("error", failed.Error()),
		)
		p.Notification = view.Error(messageFor(failed))
	}
	h.render(w, r, http.StatusOK, p)
}

// Courses lists the course catalog.
// GET /dashboard/courses
func (h *DashboardHandler) Courses(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	courses, pg, err := h.services.Courses.List(r.Context(), q)
	if err == nil {
		courses = model.FilterCourses(courses, q.Search)
	}
	renderList(h.Handler, w, r, "courses", "Courses", q, courses, pg, err)
}

// MyCourses lists courses the user bought.
// GET /dashboard/courses/mine
func (h *DashboardHandler) MyCourses(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	courses, err := h.services.Courses.MyCourses(r.Context())
	if err == nil {
		courses = model.FilterCourses(courses, q.Search)
	}
	renderList(h.Handler, w, r, "my_courses", "My courses", q, courses, nil, err)
}

// Course renders one course.
// GET /dashboard/courses/{id}
func (h *DashboardHandler) Course(w http.ResponseWriter, r *http.Request) {
	course, err := h.services.Courses.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.notifyError(w, r, "course", "Course", err)
		return
	}
	h.render(w, r, http.StatusOK, view.Page{Page: "course", Title: course.Title, Data: course})
}

// PurchaseCourse starts a payment and points the browser at the provider.
// POST /dashboard/courses/{id}/purchase
func (h *DashboardHandler) PurchaseCourse(w http.ResponseWriter, r *http.Request) {
	payment, err := h.services.Courses.Purchase(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.notifyError(w, r, "course", "Course", err)
		return
	}
	h.render(w, r, http.StatusOK, view.Page{
		Page:     "course",
		Title:    "Course",
		Data:     payment,
		Redirect: payment.AuthorizationURL,
	})
}

type paymentForm struct {
	Kind      string `json:"kind"`
	Reference string `json:"reference"`
}

// VerifyPayment confirms a course or ebook payment after the provider
// sends the browser back.
// POST /dashboard/payments/verify
func (h *DashboardHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var form paymentForm
	if err := decodeJSON(r, &form); err != nil {
		h.notifyError(w, r, "payment", "Payment", err)
		return
	}

	var (
		receipt model.PaymentReceipt
		err     error
		next    string
	)
	switch form.Kind {
	case paymentCourse:
		receipt, err = h.services.Courses.VerifyPayment(r.Context(), form.Reference)
		next = "/dashboard/courses/mine"
	case paymentEbook:
		receipt, err = h.services.Ebooks.VerifyPayment(r.Context(), form.Reference)
		next = "/dashboard/ebooks/library"
	default:
		err = errUnknownPaymentKind
	}
	if err != nil {
		h.notifyError(w, r, "payment", "Payment", err)
		return
	}

	h.logger.Info("payment verified",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("user_id", auth.UserIDFromContext(r.Context())),
		slog.String("kind", form.Kind),
		slog.String("status", receipt.Status),
	)
	h.render(w, r, http.StatusOK, view.Page{
		Page:         "payment",
		Title:        "Payment",
		Data:         receipt,
		Notification: view.Success("Payment verified"),
		Redirect:     next,
	})
}

// Ebooks lists the ebook catalog.
// GET /dashboard/ebooks
func (h *DashboardHandler) Ebooks(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	ebooks, pg, err := h.services.Ebooks.List(r.Context(), q)
	if err == nil {
		ebooks = model.FilterEbooks(ebooks, q.Search)
	}
	renderList(h.Handler, w, r, "ebooks", "Ebooks", q, ebooks, pg, err)
}

// Library lists ebooks the user bought.
// GET /dashboard/ebooks/library
func (h *DashboardHandler) Library(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	ebooks, err := h.services.Ebooks.MyLibrary(r.Context())
	if err == nil {
		ebooks = model.FilterEbooks(ebooks, q.Search)
	}
	renderList(h.Handler, w, r, "library", "My library", q, ebooks, nil, err)
}

// PurchaseEbook starts a payment and points the browser at the provider.
// POST /dashboard/ebooks/{id}/purchase
func (h *DashboardHandler) PurchaseEbook(w http.ResponseWriter, r *http.Request) {
	payment, err := h.services.Ebooks.Purchase(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.notifyError(w, r, "ebook", "Ebook", err)
		return
	}
	h.render(w, r, http.StatusOK, view.Page{
		Page:     "ebook",
		Title:    "Ebook",
		Data:     payment,
		Redirect: payment.AuthorizationURL,
	})
}

// DownloadEbook redirects to a short-lived download link.
// GET /dashboard/ebooks/{id}/download
func (h *DashboardHandler) DownloadEbook(w http.ResponseWriter, r *http.Request) {
	dl, err := h.services.Ebooks.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.notifyError(w, r, "ebook", "Ebook", err)
		return
	}
	if dl.URL == "" {
		h.notifyError(w, r, "ebook", "Ebook", &apiclient.Error{
			Kind:    apiclient.KindHTTP,
			Status:  http.StatusBadGateway,
			Message: "Download is not available",
		})
		return
	}
	view.Redirect(w, dl.URL, http.StatusFound)
}

type appointmentsData struct {
	Appointments []model.Appointment     `json:"appointments"`
	Types        []model.AppointmentType `json:"types"`
}

// Appointments lists the user's appointments and the bookable types.
// GET /dashboard/appointments
func (h *DashboardHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := listQuery(r)
	data := appointmentsData{Appointments: []model.Appointment{}, Types: []model.AppointmentType{}}

	appts, pg, err := h.services.Appointments.Mine(ctx, q)
	if err == nil {
		data.Appointments = model.FilterAppointmentsByStatus(model.FilterAppointments(appts, q.Search), q.Status)
		var types []model.AppointmentType
		if types, err = h.services.Appointments.Types(ctx); err == nil {
			data.Types = types
		}
	}
	if apiclient.IsUnauthorized(err) {
		h.notifyError(w, r, "appointments", "Appointments", err)
		return
	}

	p := view.Page{Page: "appointments", Title: "Appointments", Data: data, Filters: filtersOf(q), Pagination: pg}
	if err != nil {
		h.logger.Warn("appointments fetch failed",
			slog.String("request_id", middleware.GetRequestID(ctx)),
			slog.String("error", err.Error()),
		)
		p.Pagination = nil
		p.Notification = view.Error(messageFor(err))
	}
	h.render(w, r, http.StatusOK, p)
}

// BookAppointment books a consultation.
// POST /dashboard/appointments
func (h *DashboardHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var in service.BookingInput
	if err := decodeJSON(r, &in); err != nil {
		h.notifyError(w, r, "appointments", "Appointments", err)
		return
	}

	appt, err := h.services.Appointments.Book(r.Context(), in)
	if err != nil {
		h.notifyError(w, r, "appointments", "Appointments", err)
		return
	}
	h.render(w, r, http.StatusCreated, view.Page{
		Page:         "appointments",
		Title:        "Appointments",
		Data:         appt,
		Notification: view.Success("Appointment booked"),
	})
}

// CancelAppointment cancels one of the user's appointments.
// POST /dashboard/appointments/{id}/cancel
func (h *DashboardHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	appt, err := h.services.Appointments.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.notifyError(w, r, "appointments", "Appointments", err)
		return
	}
	h.render(w, r, http.StatusOK, view.Page{
		Page:         "appointments",
		Title:        "Appointments",
		Data:         appt,
		Notification: view.Success("Appointment cancelled"),
	})
}

// Bookmarks lists saved resources, narrowed by ?category (the resource type).
// GET /dashboard/bookmarks
func (h *DashboardHandler) Bookmarks(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	bookmarks, err := h.services.Bookmarks.List(r.Context())
	if err == nil {
		bookmarks = model.FilterBookmarksByType(bookmarks, q.Category)
	}
	renderList(h.Handler, w, r, "bookmarks", "Bookmarks", q, bookmarks, nil, err)
}

// AddBookmark saves a resource.
// POST /dashboard/bookmarks
func (h *DashboardHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	var in service.BookmarkInput
	if err := decodeJSON(r, &in); err != nil {
		h.notifyError(w, r, "bookmarks", "Bookmarks", err)
		return
	}

	bookmark, err := h.services.Bookmarks.Add(r.Context(), in)
	if err != nil {
		h.notifyError(w, r, "bookmarks", "Bookmarks", err)
		return
	}
	h.render(w, r, http.StatusCreated, view.Page{
		Page:         "bookmarks",
		Title:        "Bookmarks",
		Data:         bookmark,
		Notification: view.Success("Bookmark saved"),
	})
}

// RemoveBookmark deletes a bookmark.
// DELETE /dashboard/bookmarks/{id}
func (h *DashboardHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Bookmarks.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.notifyError(w, r, "bookmarks", "Bookmarks", err)
		return
	}
	h.render(w, r, http.StatusOK, view.Page{
		Page:         "bookmarks",
		Title:        "Bookmarks",
		Notification: view.Success("Bookmark removed"),
	})
}

// LiveSessions lists live sessions, narrowed by ?status.
// GET /dashboard/live-sessions
func (h *DashboardHandler) LiveSessions(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	sessions, pg, err := h.services.LiveSessions.List(r.Context(), q)
	if err == nil {
		sessions = model.FilterLiveSessionsByStatus(sessions, q.Status)
	}
	renderList(h.Handler, w, r, "live_sessions", "Live sessions", q, sessions, pg, err)
}

// LiveSession renders one live session.
// GET /dashboard/live-sessions/{id}
func (h *DashboardHandler) LiveSession(w http.ResponseWriter, r *http.Request) {
	ls, err := h.services.LiveSessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.notifyError(w, r, "live_session", "Live session", err)
		return
	}
	h.render(w, r, http.StatusOK, view.Page{Page: "live_session", Title: ls.Title, Data: ls})
}

// Profile renders the user's profile as the backend has it.
// GET /dashboard/profile
func (h *DashboardHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.Profile.Get(r.Context())
	if err != nil {
		h.notifyError(w, r, "profile", "Profile", err)
		return
	}
	h.render(w, r, http.StatusOK, view.Page{Page: "profile", Title: "Profile", Data: user})
}

// UpdateProfile saves the profile and refreshes the session's cached user.
// PUT /dashboard/profile
func (h *DashboardHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.ProfileInput
	if err := decodeJSON(r, &in); err != nil {
		h.notifyError(w, r, "profile", "Profile", err)
		return
	}

	user, err := h.services.Profile.Update(ctx, in)
	if err != nil {
		h.notifyError(w, r, "profile", "Profile", err)
		return
	}

	if sess := auth.SessionFromContext(ctx); sess != nil {
		// Roles change only through a fresh login.
		user.Role = sess.User.Role
		if _, err := h.sessions.Refresh(ctx, sess, user); err != nil {
			h.logger.Warn("failed to refresh session user",
				slog.String("request_id", middleware.GetRequestID(ctx)),
				slog.String("user_id", sess.User.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	h.render(w, r, http.StatusOK, view.Page{
		Page:         "profile",
		Title:        "Profile",
		Data:         user,
		User:         &user,
		Notification: view.Success("Profile updated"),
	})
}

// ChangePassword changes the user's password.
// PUT /dashboard/profile/password
func (h *DashboardHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in service.PasswordChangeInput
	if err := decodeJSON(r, &in); err != nil {
		h.notifyError(w, r, "profile", "Profile", err)
		return
	}

	message, err := h.services.Profile.ChangePassword(r.Context(), in)
	if err != nil {
		h.notifyError(w, r, "profile", "Profile", err)
		return
	}
	if message == "" {
		message = "Password changed"
	}
	h.render(w, r, http.StatusOK, view.Page{
		Page:         "profile",
		Title:        "Profile",
		Notification: view.Success(message),
	})
}
