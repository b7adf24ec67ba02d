package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/middleware"
	"github.com/wellpath/portal/internal/model"
	"github.com/wellpath/portal/internal/service"
	"github.com/wellpath/portal/internal/view"
)

// homeHighlights is how many posts and events the home page features.
const homeHighlights = 3

// MarketingHandler serves the public pages.
type MarketingHandler struct {
	*Handler
	services *service.Services
}

// NewMarketingHandler creates a new MarketingHandler.
func NewMarketingHandler(h *Handler, services *service.Services) *MarketingHandler {
	return &MarketingHandler{Handler: h, services: services}
}

type homeData struct {
	Posts  []model.BlogPost      `json:"posts"`
	Events []model.SpeakingEvent `json:"events"`
}

// Home renders the landing page with the latest posts and upcoming events.
// A failed fetch leaves its section empty.
// GET /
func (h *MarketingHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := homeData{Posts: []model.BlogPost{}, Events: []model.SpeakingEvent{}}
	var failed error

	posts, _, err := h.services.Blog.List(ctx, model.ListQuery{Status: string(model.BlogPublished), Limit: homeHighlights})
	if err != nil {
		failed = err
	} else {
		posts = model.SortBlogPostsNewest(posts)
		data.Posts = posts[:min(len(posts), homeHighlights)]
	}

	events, _, err := h.services.Speaking.List(ctx, model.ListQuery{Status: string(model.SpeakingUpcoming), Limit: homeHighlights})
	if err != nil {
		failed = err
	} else {
		data.Events = events[:min(len(events), homeHighlights)]
	}

	p := view.Page{Page: "home", Title: "Home", Data: data}
	if failed != nil {
		h.logger.Warn("home page fetch failed",
			slog.String("request_id", middleware.GetRequestID(ctx)),
			slog.String("error", failed.Error()),
		)
		p.Notification = view.Error(messageFor(failed))
	}
	h.render(w, r, http.StatusOK, p)
}

// Blog lists published posts, newest first, narrowed by ?q and ?category.
// GET /blog
func (h *MarketingHandler) Blog(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)

	posts, pg, err := h.services.Blog.List(r.Context(), q)
	if err == nil {
		posts = publishedOnly(posts)
		posts = model.FilterBlogPosts(posts, q.Search)
		posts = model.FilterBlogPostsByCategory(posts, q.Category)
		posts = model.SortBlogPostsNewest(posts)
	}
	renderList(h.Handler, w, r, "blog", "Blog", q, posts, pg, err)
}

// BlogPost renders one post by slug.
// GET /blog/{slug}
func (h *MarketingHandler) BlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.services.Blog.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if apiclient.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.notifyError(w, r, "blog_post", "Blog", err)
		return
	}
	h.render(w, r, http.StatusOK, view.Page{Page: "blog_post", Title: post.Title, Data: post})
}

// Media lists media items, narrowed by ?q and ?category (the media kind).
// GET /media
func (h *MarketingHandler) Media(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)

	items, pg, err := h.services.Media.List(r.Context(), q)
	if err == nil {
		items = model.FilterMedia(items, q.Search)
		items = model.FilterMediaByKind(items, q.Category)
	}
	renderList(h.Handler, w, r, "media", "Media", q, items, pg, err)
}

// Speaking lists speaking engagements, narrowed by ?q, ?category and ?status.
// GET /speaking
func (h *MarketingHandler) Speaking(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)

	events, pg, err := h.services.Speaking.List(r.Context(), q)
	if err == nil {
		events = model.FilterSpeaking(events, q.Search)
		events = model.FilterSpeakingByCategory(events, q.Category)
		events = model.FilterSpeakingByStatus(events, q.Status)
	}
	renderList(h.Handler, w, r, "speaking", "Speaking", q, events, pg, err)
}

func publishedOnly(posts []model.BlogPost) []model.BlogPost {
	out := make([]model.BlogPost, 0, len(posts))
	for _, p := range posts {
		if p.IsPublished() {
			out = append(out, p)
		}
	}
	return out
}
