package model

import "strings"

// ListQuery carries the optional filters a list page or list call accepts.
type ListQuery struct {
	Search   string
	Status   string
	Category string
	Page     int
	Limit    int
}

// Pagination mirrors the backend's pagination block.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// filter keeps the items for which any of fields contains query.
// An empty or whitespace-only query returns items unchanged.
func filter[T any](items []T, query string, fields func(T) []string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// equalFold keeps the items whose key equals want, ignoring case.
// An empty want returns items unchanged.
func equalFold[T any](items []T, want string, key func(T) string) []T {
	want = strings.TrimSpace(want)
	if want == "" {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if strings.EqualFold(key(item), want) {
			out = append(out, item)
		}
	}
	return out
}
