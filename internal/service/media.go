package service

import (
	"context"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/model"
)

// MediaInput is the admin media form. URL and AssetID come from an upload
// that already happened.
type MediaInput struct {
	Title     string          `json:"title" validate:"required,min=2,max=200"`
	Kind      model.MediaKind `json:"kind" validate:"required,oneof=image video podcast article"`
	URL       string          `json:"url" validate:"required,url"`
	AssetID   string          `json:"assetId,omitempty"`
	Thumbnail string          `json:"thumbnail,omitempty" validate:"omitempty,url"`
}

// MediaService wraps /media and /admin/media.
type MediaService struct {
	public Resource[model.MediaItem, struct{}]
	admin  Resource[model.MediaItem, MediaInput]
}

// NewMediaService creates a new MediaService.
func NewMediaService(client *apiclient.Client) *MediaService {
	return &MediaService{
		public: newResource[model.MediaItem, struct{}](client, "/media"),
		admin:  newResource[model.MediaItem, MediaInput](client, "/admin/media"),
	}
}

// List returns media items for the public site.
func (s *MediaService) List(ctx context.Context, q model.ListQuery) ([]model.MediaItem, *model.Pagination, error) {
	return s.public.List(ctx, q)
}

// Admin returns the admin CRUD calls.
func (s *MediaService) Admin() Resource[model.MediaItem, MediaInput] {
	return s.admin
}
