package service

import (
	"context"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/model"
)

// SpeakingInput is the admin speaking-event form.
type SpeakingInput struct {
	Title       string               `json:"title" validate:"required,min=3,max=200"`
	Venue       string               `json:"venue" validate:"required"`
	Date        string               `json:"date" validate:"required,datetime=2006-01-02"`
	Category    string               `json:"category,omitempty"`
	Description string               `json:"description,omitempty"`
	Status      model.SpeakingStatus `json:"status" validate:"required,oneof=upcoming completed cancelled"`
}

// SpeakingService wraps /speaking and /admin/speaking.
type SpeakingService struct {
	public Resource[model.SpeakingEvent, struct{}]
	admin  Resource[model.SpeakingEvent, SpeakingInput]
}

// NewSpeakingService creates a new SpeakingService.
func NewSpeakingService(client *apiclient.Client) *SpeakingService {
	return &SpeakingService{
		public: newResource[model.SpeakingEvent, struct{}](client, "/speaking"),
		admin:  newResource[model.SpeakingEvent, SpeakingInput](client, "/admin/speaking"),
	}
}

// List returns speaking events for the public site.
func (s *SpeakingService) List(ctx context.Context, q model.ListQuery) ([]model.SpeakingEvent, *model.Pagination, error) {
	return s.public.List(ctx, q)
}

// Admin returns the admin CRUD calls.
func (s *SpeakingService) Admin() Resource[model.SpeakingEvent, SpeakingInput] {
	return s.admin
}
