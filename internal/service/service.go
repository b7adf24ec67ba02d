// Package service maps each backend resource to typed call wrappers.
// Services assemble query strings, dispatch through the API client and
// unwrap the response envelope. Business rules stay in the backend.
package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/model"
)

// Service errors. All are *apiclient.Error with KindValidation so callers
// handle them like any other failure.
var (
	ErrPasswordMismatch = apiclient.NewValidationError("Passwords do not match")
	ErrMissingID        = apiclient.NewValidationError("A valid id is required")
	ErrMissingReference = apiclient.NewValidationError("Payment reference is required")
)

// Services bundles every resource service behind one client.
type Services struct {
	Auth         *AuthService
	Blog         *BlogService
	Courses      *CourseService
	Ebooks       *EbookService
	Appointments *AppointmentService
	Speaking     *SpeakingService
	Media        *MediaService
	Users        *UserService
	Profile      *ProfileService
	Bookmarks    *BookmarkService
	LiveSessions *LiveSessionService
}

// New builds all services on client.
func New(client *apiclient.Client) *Services {
	return &Services{
		Auth:         NewAuthService(client),
		Blog:         NewBlogService(client),
		Courses:      NewCourseService(client),
		Ebooks:       NewEbookService(client),
		Appointments: NewAppointmentService(client),
		Speaking:     NewSpeakingService(client),
		Media:        NewMediaService(client),
		Users:        NewUserService(client),
		Profile:      NewProfileService(client),
		Bookmarks:    NewBookmarkService(client),
		LiveSessions: NewLiveSessionService(client),
	}
}

// joinPath builds an API path from base and escaped segments.
func joinPath(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// queryValues turns the optional list filters into a query string.
// Zero values are omitted.
func queryValues(q model.ListQuery) url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	return nil
}

// Resource is the CRUD call set shared by the admin consoles.
// T is the record type, I the create/update input.
type Resource[T, I any] struct {
	client *apiclient.Client
	base   string
}

func newResource[T, I any](client *apiclient.Client, base string) Resource[T, I] {
	return Resource[T, I]{client: client, base: base}
}

// List fetches a page of records.
func (r Resource[T, I]) List(ctx context.Context, q model.ListQuery) ([]T, *model.Pagination, error) {
	env, err := apiclient.CallEnvelope[[]T](ctx, r.client, http.MethodGet, r.base, queryValues(q), nil)
	if err != nil {
		return nil, nil, err
	}
	items := env.Data
	if items == nil {
		items = []T{}
	}
	return items, env.Pagination, nil
}

// Get fetches one record by id.
func (r Resource[T, I]) Get(ctx context.Context, id string) (T, error) {
	if err := requireID(id); err != nil {
		var zero T
		return zero, err
	}
	return apiclient.Call[T](ctx, r.client, http.MethodGet, joinPath(r.base, id), nil, nil)
}

// Create validates in and creates a record.
func (r Resource[T, I]) Create(ctx context.Context, in I) (T, error) {
	if err := Validate(in); err != nil {
		var zero T
		return zero, err
	}
	return apiclient.Call[T](ctx, r.client, http.MethodPost, r.base, nil, in)
}

// Update validates in and replaces the record with id.
func (r Resource[T, I]) Update(ctx context.Context, id string, in I) (T, error) {
	var zero T
	if err := requireID(id); err != nil {
		return zero, err
	}
	if err := Validate(in); err != nil {
		return zero, err
	}
	return apiclient.Call[T](ctx, r.client, http.MethodPut, joinPath(r.base, id), nil, in)
}

// Delete removes the record with id.
func (r Resource[T, I]) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return r.client.Do(ctx, http.MethodDelete, joinPath(r.base, id), nil, nil, nil)
}
