package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/auth"
	"github.com/wellpath/portal/internal/middleware"
	"github.com/wellpath/portal/internal/model"
	"github.com/wellpath/portal/internal/service"
	"github.com/wellpath/portal/internal/view"
)

// overviewPending is how many pending appointments the admin overview shows.
const overviewPending = 5

var errDeleteSelf = apiclient.NewValidationError("You cannot delete your own account")

// crudService is the call set a crudPages console drives.
type crudService[T, I any] interface {
	List(ctx context.Context, q model.ListQuery) ([]T, *model.Pagination, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, in I) (T, error)
	Update(ctx context.Context, id string, in I) (T, error)
	Delete(ctx context.Context, id string) error
}

// crudPages serves list, detail, create, update and delete pages for one
// admin resource.
type crudPages[T, I any] struct {
	*Handler
	svc    crudService[T, I]
	page   string
	title  string
	noun   string
	filter func([]T, model.ListQuery) []T
}

// Routes mounts the console on r.
func (c *crudPages[T, I]) Routes(r chi.Router) {
	r.Get("/", c.List)
	r.Post("/", c.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Use(middleware.ValidateIDParam)
		r.Get("/", c.Get)
		r.Put("/", c.Update)
		r.Delete("/", c.Delete)
	})
}

func (c *crudPages[T, I]) List(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	items, pg, err := c.svc.List(r.Context(), q)
	if err == nil && c.filter != nil {
		items = c.filter(items, q)
	}
	renderList(c.Handler, w, r, c.page, c.title, q, items, pg, err)
}

func (c *crudPages[T, I]) Get(w http.ResponseWriter, r *http.Request) {
	item, err := c.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.notifyError(w, r, c.page, c.title, err)
		return
	}
	c.render(w, r, http.StatusOK, view.Page{Page: c.page, Title: c.title, Data: item})
}

func (c *crudPages[T, I]) Create(w http.ResponseWriter, r *http.Request) {
	var in I
	if err := decodeJSON(r, &in); err != nil {
		c.notifyError(w, r, c.page, c.title, err)
		return
	}

	item, err := c.svc.Create(r.Context(), in)
	if err != nil {
		c.notifyError(w, r, c.page, c.title, err)
		return
	}
	c.audit(r, "created", "")
	c.render(w, r, http.StatusCreated, view.Page{
		Page:         c.page,
		Title:        c.title,
		Data:         item,
		Notification: view.Success(c.noun + " created"),
	})
}

func (c *crudPages[T, I]) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in I
	if err := decodeJSON(r, &in); err != nil {
		c.notifyError(w, r, c.page, c.title, err)
		return
	}

	item, err := c.svc.Update(r.Context(), id, in)
	if err != nil {
		c.notifyError(w, r, c.page, c.title, err)
		return
	}
	c.audit(r, "updated", id)
	c.render(w, r, http.StatusOK, view.Page{
		Page:         c.page,
		Title:        c.title,
		Data:         item,
		Notification: view.Success(c.noun + " updated"),
	})
}

func (c *crudPages[T, I]) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := c.svc.Delete(r.Context(), id); err != nil {
		c.notifyError(w, r, c.page, c.title, err)
		return
	}
	c.audit(r, "deleted", id)
	c.render(w, r, http.StatusOK, view.Page{
		Page:         c.page,
		Title:        c.title,
		Notification: view.Success(c.noun + " deleted"),
	})
}

func (c *crudPages[T, I]) audit(r *http.Request, action, id string) {
	c.logger.Info("admin "+action+" "+c.page,
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("admin_id", auth.UserIDFromContext(r.Context())),
		slog.String("id", id),
	)
}

// AdminHandler serves the admin console under /admin.
type AdminHandler struct {
	*Handler
	services *service.Services

	Blog             *crudPages[model.BlogPost, service.BlogInput]
	Courses          *crudPages[model.Course, service.CourseInput]
	Ebooks           *crudPages[model.Ebook, service.EbookInput]
	Media            *crudPages[model.MediaItem, service.MediaInput]
	Speaking         *crudPages[model.SpeakingEvent, service.SpeakingInput]
	AppointmentTypes *crudPages[model.AppointmentType, service.AppointmentTypeInput]
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(h *Handler, services *service.Services) *AdminHandler {
	return &AdminHandler{
		Handler:  h,
		services: services,
		Blog: &crudPages[model.BlogPost, service.BlogInput]{
			Handler: h, svc: services.Blog.Admin(), page: "admin_blog", title: "Blog", noun: "Post",
			filter: func(posts []model.BlogPost, q model.ListQuery) []model.BlogPost {
				posts = model.FilterBlogPosts(posts, q.Search)
				return model.SortBlogPostsNewest(model.FilterBlogPostsByCategory(posts, q.Category))
			},
		},
		Courses: &crudPages[model.Course, service.CourseInput]{
			Handler: h, svc: services.Courses.Admin(), page: "admin_courses", title: "Courses", noun: "Course",
			filter: func(courses []model.Course, q model.ListQuery) []model.Course {
				return model.FilterCourses(courses, q.Search)
			},
		},
		Ebooks: &crudPages[model.Ebook, service.EbookInput]{
			Handler: h, svc: services.Ebooks.Admin(), page: "admin_ebooks", title: "Ebooks", noun: "Ebook",
			filter: func(ebooks []model.Ebook, q model.ListQuery) []model.Ebook {
				return model.FilterEbooks(ebooks, q.Search)
			},
		},
		Media: &crudPages[model.MediaItem, service.MediaInput]{
			Handler: h, svc: services.Media.Admin(), page: "admin_media", title: "Media", noun: "Media item",
			filter: func(items []model.MediaItem, q model.ListQuery) []model.MediaItem {
				return model.FilterMediaByKind(model.FilterMedia(items, q.Search), q.Category)
			},
		},
		Speaking: &crudPages[model.SpeakingEvent, service.SpeakingInput]{
			Handler: h, svc: services.Speaking.Admin(), page: "admin_speaking", title: "Speaking", noun: "Event",
			filter: func(events []model.SpeakingEvent, q model.ListQuery) []model.SpeakingEvent {
				events = model.FilterSpeaking(events, q.Search)
				events = model.FilterSpeakingByCategory(events, q.Category)
				return model.FilterSpeakingByStatus(events, q.Status)
			},
		},
		AppointmentTypes: &crudPages[model.AppointmentType, service.AppointmentTypeInput]{
			Handler: h, svc: services.Appointments.AdminTypes(), page: "admin_appointment_types", title: "Appointment types", noun: "Appointment type",
			filter: func(types []model.AppointmentType, q model.ListQuery) []model.AppointmentType {
				return model.FilterAppointmentTypes(types, q.Search)
			},
		},
	}
}

type adminOverviewData struct {
	TotalUsers          int                 `json:"totalUsers"`
	PendingAppointments []model.Appointment `json:"pendingAppointments"`
}

// Overview shows the account count and the oldest pending appointments.
// GET /admin
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := adminOverviewData{PendingAppointments: []model.Appointment{}}
	var failed error

	if users, pg, err := h.services.Users.List(ctx, model.ListQuery{Page: 1, Limit: 1}); err != nil {
		if h.signedOut(w, r, "admin", "Admin", err) {
			return
		}
		failed = err
	} else if pg != nil {
		data.TotalUsers = pg.Total
	} else {
		data.TotalUsers = len(users)
	}

	pendingQuery := model.ListQuery{Status: string(model.AppointmentPending), Page: 1, Limit: overviewPending}
	if appts, _, err := h.services.Appointments.List(ctx, pendingQuery); err != nil {
		if h.signedOut(w, r, "admin", "Admin", err) {
			return
		}
		failed = err
	} else {
		appts = model.FilterAppointmentsByStatus(appts, pendingQuery.Status)
		data.PendingAppointments = appts[:min(len(appts), overviewPending)]
	}

	p := view.Page{Page: "admin", Title: "Admin", Data: data}
	if failed != nil {
		h.logger.Warn("admin overview fetch failed",
			slog.String("request_id", middleware.GetRequestID(ctx)),
			slog.String("error", failed.Error()),
		)
		p.Notification = view.Error(messageFor(failed))
	}
	h.render(w, r, http.StatusOK, p)
}

// Appointments lists every appointment, narrowed by ?q and ?status.
// GET /admin/appointments
func (h *AdminHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	appts, pg, err := h.services.Appointments.List(r.Context(), q)
	if err == nil {
		appts = model.FilterAppointmentsByStatus(model.FilterAppointments(appts, q.Search), q.Status)
	}
	renderList(h.Handler, w, r, "admin_appointments", "Appointments", q, appts, pg, err)
}

// UpdateAppointmentStatus confirms, completes or cancels an appointment.
// PATCH /admin/appointments/{id}/status
func (h *AdminHandler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	var in service.AppointmentStatusInput
	if err := decodeJSON(r, &in); err != nil {
		h.notifyError(w, r, "admin_appointments", "Appointments", err)
		return
	}

	appt, err := h.services.Appointments.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.notifyError(w, r, "admin_appointments", "Appointments", err)
		return
	}
	h.render(w, r, http.StatusOK, view.Page{
		Page:         "admin_appointments",
		Title:        "Appointments",
		Data:         appt,
		Notification: view.Success("Appointment " + string(appt.Status)),
	})
}

// Users lists accounts, narrowed by ?q, ?status and ?category (the role).
// GET /admin/users
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	users, pg, err := h.services.Users.List(r.Context(), q)
	if err == nil {
		users = model.FilterUsers(users, q.Search)
	}
	renderList(h.Handler, w, r, "admin_users", "Users", q, users, pg, err)
}

// User renders one account.
// GET /admin/users/{id}
func (h *AdminHandler) User(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.notifyError(w, r, "admin_user", "User", err)
		return
	}
	h.render(w, r, http.StatusOK, view.Page{Page: "admin_user", Title: user.Name, Data: user})
}

// UpdateUserStatus activates or suspends an account.
// PATCH /admin/users/{id}/status
func (h *AdminHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	var in service.UserStatusInput
	if err := decodeJSON(r, &in); err != nil {
		h.notifyError(w, r, "admin_user", "User", err)
		return
	}

	user, err := h.services.Users.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.notifyError(w, r, "admin_user", "User", err)
		return
	}
	h.logger.Info("admin updated user status",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("admin_id", auth.UserIDFromContext(r.Context())),
		slog.String("user_id", user.ID),
		slog.String("status", string(user.AccountStatus)),
	)
	h.render(w, r, http.StatusOK, view.Page{
		Page:         "admin_user",
		Title:        "User",
		Data:         user,
		Notification: view.Success("Account status updated"),
	})
}

// DeleteUser removes an account. Admins cannot delete themselves.
// DELETE /admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if id == auth.UserIDFromContext(ctx) {
		h.notifyError(w, r, "admin_user", "User", errDeleteSelf)
		return
	}

	if err := h.services.Users.Delete(ctx, id); err != nil {
		h.notifyError(w, r, "admin_user", "User", err)
		return
	}
	h.logger.Info("admin deleted user",
		slog.String("request_id", middleware.GetRequestID(ctx)),
		slog.String("admin_id", auth.UserIDFromContext(ctx)),
		slog.String("user_id", id),
	)
	h.render(w, r, http.StatusOK, view.Page{
		Page:         "admin_user",
		Title:        "User",
		Notification: view.Success("User deleted"),
	})
}
