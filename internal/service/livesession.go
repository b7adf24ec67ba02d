package service

import (
	"context"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/model"
)

// LiveSessionService wraps /user/live-sessions.
type LiveSessionService struct {
	sessions Resource[model.LiveSession, struct{}]
}

// NewLiveSessionService creates a new LiveSessionService.
func NewLiveSessionService(client *apiclient.Client) *LiveSessionService {
	return &LiveSessionService{
		sessions: newResource[model.LiveSession, struct{}](client, "/user/live-sessions"),
	}
}

// List returns live sessions visible to the signed-in user.
func (s *LiveSessionService) List(ctx context.Context, q model.ListQuery) ([]model.LiveSession, *model.Pagination, error) {
	return s.sessions.List(ctx, q)
}

// Get returns one live session.
func (s *LiveSessionService) Get(ctx context.Context, id string) (model.LiveSession, error) {
	return s.sessions.Get(ctx, id)
}
