package service

import (
	"context"
	"net/http"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/model"
)

// BookingInput is the appointment booking form.
type BookingInput struct {
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
	Type     string `json:"type" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required,datetime=15:04"`
	Notes    string `json:"notes,omitempty" validate:"max=1000"`
}

// AppointmentStatusInput changes an appointment's status.
type AppointmentStatusInput struct {
	Status model.AppointmentStatus `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

// AppointmentTypeInput is the admin appointment-type form.
type AppointmentTypeInput struct {
	Name            string  `json:"name" validate:"required,min=2,max=100"`
	Description     string  `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes" validate:"required,min=5,max=480"`
	Price           float64 `json:"price" validate:"gte=0"`
}

// AppointmentService wraps /user/appointments and /admin/appointments.
type AppointmentService struct {
	client *apiclient.Client
	mine   Resource[model.Appointment, struct{}]
	all    Resource[model.Appointment, struct{}]
	types  Resource[model.AppointmentType, AppointmentTypeInput]
}

// NewAppointmentService creates a new AppointmentService.
func NewAppointmentService(client *apiclient.Client) *AppointmentService {
	return &AppointmentService{
		client: client,
		mine:   newResource[model.Appointment, struct{}](client, "/user/appointments"),
		all:    newResource[model.Appointment, struct{}](client, "/admin/appointments"),
		types:  newResource[model.AppointmentType, AppointmentTypeInput](client, "/admin/appointments/types"),
	}
}

// Types returns the bookable appointment types.
func (s *AppointmentService) Types(ctx context.Context) ([]model.AppointmentType, error) {
	items, err := apiclient.Call[[]model.AppointmentType](ctx, s.client, http.MethodGet, "/user/appointments/types", nil, nil)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.AppointmentType{}
	}
	return items, nil
}

// Book creates an appointment for the signed-in user.
func (s *AppointmentService) Book(ctx context.Context, in BookingInput) (model.Appointment, error) {
	if err := Validate(in); err != nil {
		return model.Appointment{}, err
	}
	return apiclient.Call[model.Appointment](ctx, s.client, http.MethodPost, "/user/appointments", nil, in)
}

// Mine returns the signed-in user's appointments.
func (s *AppointmentService) Mine(ctx context.Context, q model.ListQuery) ([]model.Appointment, *model.Pagination, error) {
	return s.mine.List(ctx, q)
}

// Cancel cancels one of the signed-in user's appointments.
func (s *AppointmentService) Cancel(ctx context.Context, id string) (model.Appointment, error) {
	if err := requireID(id); err != nil {
		return model.Appointment{}, err
	}
	return apiclient.Call[model.Appointment](ctx, s.client, http.MethodPatch, joinPath("/user/appointments", id, "cancel"), nil, struct{}{})
}

// List returns every appointment for the admin console.
func (s *AppointmentService) List(ctx context.Context, q model.ListQuery) ([]model.Appointment, *model.Pagination, error) {
	return s.all.List(ctx, q)
}

// UpdateStatus sets an appointment's status.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, in AppointmentStatusInput) (model.Appointment, error) {
	if err := requireID(id); err != nil {
		return model.Appointment{}, err
	}
	if err := Validate(in); err != nil {
		return model.Appointment{}, err
	}
	return apiclient.Call[model.Appointment](ctx, s.client, http.MethodPatch, joinPath("/admin/appointments", id, "status"), nil, in)
}

// AdminTypes returns the appointment-type CRUD calls.
func (s *AppointmentService) AdminTypes() Resource[model.AppointmentType, AppointmentTypeInput] {
	return s.types
}
