package service

import (
	"context"
	"net/http"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/model"
)

// BlogInput is the admin blog form.
type BlogInput struct {
	Title      string           `json:"title" validate:"required,min=3,max=200"`
	Slug       string           `json:"slug,omitempty" validate:"omitempty,max=200"`
	Excerpt    string           `json:"excerpt,omitempty" validate:"max=500"`
	Content    string           `json:"content" validate:"required"`
	Status     model.BlogStatus `json:"status" validate:"required,oneof=draft published"`
	Categories []string         `json:"categories,omitempty"`
	Tags       []string         `json:"tags,omitempty"`
	CoverImage string           `json:"coverImage,omitempty" validate:"omitempty,url"`
}

// BlogService wraps the public /blog and admin /admin/blog endpoints.
type BlogService struct {
	client *apiclient.Client
	admin  Resource[model.BlogPost, BlogInput]
}

// NewBlogService creates a new BlogService.
func NewBlogService(client *apiclient.Client) *BlogService {
	return &BlogService{
		client: client,
		admin:  newResource[model.BlogPost, BlogInput](client, "/admin/blog"),
	}
}

// List returns published posts for the public site.
func (s *BlogService) List(ctx context.Context, q model.ListQuery) ([]model.BlogPost, *model.Pagination, error) {
	env, err := apiclient.CallEnvelope[[]model.BlogPost](ctx, s.client, http.MethodGet, "/blog", queryValues(q), nil)
	if err != nil {
		return nil, nil, err
	}
	if env.Data == nil {
		env.Data = []model.BlogPost{}
	}
	return env.Data, env.Pagination, nil
}

// GetBySlug returns one published post.
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (model.BlogPost, error) {
	if err := requireID(slug); err != nil {
		return model.BlogPost{}, err
	}
	return apiclient.Call[model.BlogPost](ctx, s.client, http.MethodGet, joinPath("/blog", slug), nil, nil)
}

// Admin returns the admin CRUD calls.
func (s *BlogService) Admin() Resource[model.BlogPost, BlogInput] {
	return s.admin
}
