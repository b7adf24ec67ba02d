package middleware

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/wellpath/portal/internal/view"
)

// Validation limits.
const (
	// MaxIDLength is the maximum length for a resource id path parameter.
	MaxIDLength = 64

	// MaxSlugLength is the maximum length for a blog slug.
	MaxSlugLength = 200
)

// Validation errors.
var (
	ErrIDInvalid   = errors.New("id contains invalid characters")
	ErrIDTooLong   = errors.New("id exceeds maximum length")
	ErrSlugInvalid = errors.New("slug contains invalid characters")
	ErrSlugTooLong = errors.New("slug exceeds maximum length")
)

// validIDPattern matches backend ids: UUIDs, ULIDs, Mongo ObjectIDs, integers.
var validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validSlugPattern matches lowercase words joined by hyphens.
var validSlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidateID checks a resource id before it is placed in a backend path.
func ValidateID(id string) error {
	if len(id) > MaxIDLength {
		return ErrIDTooLong
	}
	if !validIDPattern.MatchString(id) {
		return ErrIDInvalid
	}
	return nil
}

// ValidateSlug checks a blog slug.
func ValidateSlug(slug string) error {
	if len(slug) > MaxSlugLength {
		return ErrSlugTooLong
	}
	if !validSlugPattern.MatchString(slug) {
		return ErrSlugInvalid
	}
	return nil
}

// ValidateIDParam rejects requests whose {id} route parameter is malformed.
func ValidateIDParam(next http.Handler) http.Handler {
	return validateParam("id", ValidateID, next)
}

// ValidateSlugParam rejects requests whose {slug} route parameter is malformed.
func ValidateSlugParam(next http.Handler) http.Handler {
	return validateParam("slug", ValidateSlug, next)
}

func validateParam(name string, check func(string) error, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := check(chi.URLParam(r, name)); err != nil {
			view.Message(w, http.StatusNotFound, "not_found", view.Error("Page not found"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
