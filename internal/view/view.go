// Package view renders page view-models. Every page answers with the same
// JSON shape so clients can treat notifications and redirects uniformly.
package view

import (
	"encoding/json"
	"net/http"

	"github.com/wellpath/portal/internal/model"
)

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a transient message shown with a page.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Success returns a success notification.
func Success(message string) *Notification {
	return &Notification{Level: LevelSuccess, Message: message}
}

// Error returns an error notification.
func Error(message string) *Notification {
	return &Notification{Level: LevelError, Message: message}
}

// Info returns an informational notification.
func Info(message string) *Notification {
	return &Notification{Level: LevelInfo, Message: message}
}

// Page is the view-model of one rendered page.
type Page struct {
	Page         string            `json:"page"`
	Title        string            `json:"title"`
	Data         any               `json:"data"`
	Filters      map[string]string `json:"filters,omitempty"`
	Pagination   *model.Pagination `json:"pagination,omitempty"`
	Notification *Notification     `json:"notification,omitempty"`
	User         *model.User       `json:"user,omitempty"`
	Redirect     string            `json:"redirect,omitempty"`
}

// Render writes p as JSON with status.
func Render(w http.ResponseWriter, status int, p Page) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(p)
}

// Placeholder renders the page shown while the session is still loading.
func Placeholder(w http.ResponseWriter, retryAfterSeconds string) {
	w.Header().Set("Retry-After", retryAfterSeconds)
	Render(w, http.StatusServiceUnavailable, Page{
		Page:         "loading",
		Title:        "Loading",
		Notification: Info("Your session is loading. Please try again in a moment."),
	})
}

// Redirect sends the client to target with a view-model naming it.
func Redirect(w http.ResponseWriter, target string, status int) {
	w.Header().Set("Location", target)
	Render(w, status, Page{Page: "redirect", Title: "Redirecting", Redirect: target})
}

// Message renders a page that carries only a notification.
func Message(w http.ResponseWriter, status int, page string, n *Notification) {
	Render(w, status, Page{Page: page, Title: http.StatusText(status), Notification: n})
}
