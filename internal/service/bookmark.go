package service

import (
	"context"
	"net/http"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/model"
)

// BookmarkInput saves a resource.
type BookmarkInput struct {
	ResourceType string `json:"resourceType" validate:"required,oneof=course ebook blog"`
	ResourceID   string `json:"resourceId" validate:"required"`
}

// BookmarkService wraps /user/bookmarks.
type BookmarkService struct {
	client    *apiclient.Client
	bookmarks Resource[model.Bookmark, BookmarkInput]
}

// NewBookmarkService creates a new BookmarkService.
func NewBookmarkService(client *apiclient.Client) *BookmarkService {
	return &BookmarkService{
		client:    client,
		bookmarks: newResource[model.Bookmark, BookmarkInput](client, "/user/bookmarks"),
	}
}

// List returns the signed-in user's bookmarks.
func (s *BookmarkService) List(ctx context.Context) ([]model.Bookmark, error) {
	items, err := apiclient.Call[[]model.Bookmark](ctx, s.client, http.MethodGet, "/user/bookmarks", nil, nil)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Bookmark{}
	}
	return items, nil
}

// Add saves a bookmark.
func (s *BookmarkService) Add(ctx context.Context, in BookmarkInput) (model.Bookmark, error) {
	return s.bookmarks.Create(ctx, in)
}

// Remove deletes a bookmark.
func (s *BookmarkService) Remove(ctx context.Context, id string) error {
	return s.bookmarks.Delete(ctx, id)
}
