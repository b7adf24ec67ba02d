package model

import (
	"slices"
	"strings"
	"time"
)

// BlogStatus is the publication state of a blog post.
type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
)

// BlogPost represents a blog article.
type BlogPost struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Content     string     `json:"content,omitempty"`
	Status      BlogStatus `json:"status"`
	Categories  []string   `json:"categories,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	CoverImage  string     `json:"coverImage,omitempty"`
	Author      string     `json:"author,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsPublished reports whether the post is visible on the public site.
func (p *BlogPost) IsPublished() bool {
	return p.Status == BlogPublished
}

// FilterBlogPosts returns the posts whose title or excerpt contains query,
// case-insensitively. An empty query returns every post.
func FilterBlogPosts(posts []BlogPost, query string) []BlogPost {
	return filter(posts, query, func(p BlogPost) []string {
		return []string{p.Title, p.Excerpt}
	})
}

// FilterBlogPostsByCategory keeps posts tagged with category.
func FilterBlogPostsByCategory(posts []BlogPost, category string) []BlogPost {
	if category == "" {
		return posts
	}
	out := make([]BlogPost, 0, len(posts))
	for _, p := range posts {
		if slices.ContainsFunc(p.Categories, func(c string) bool { return strings.EqualFold(c, category) }) {
			out = append(out, p)
		}
	}
	return out
}

// SortBlogPostsNewest orders posts by publication date, newest first.
// Posts without a publication date fall back to their creation date.
func SortBlogPostsNewest(posts []BlogPost) []BlogPost {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b BlogPost) int {
		return b.sortTime().Compare(a.sortTime())
	})
	return sorted
}

func (p BlogPost) sortTime() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}
