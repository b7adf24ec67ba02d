package model

import "time"

// Bookmark references a course, ebook or blog post a user saved.
type Bookmark struct {
	ID           string    `json:"id"`
	ResourceType string    `json:"resourceType"`
	ResourceID   string    `json:"resourceId"`
	Title        string    `json:"title,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LiveSessionStatus is the state of a live session.
type LiveSessionStatus string

const (
	LiveScheduled LiveSessionStatus = "scheduled"
	LiveNow       LiveSessionStatus = "live"
	LiveEnded     LiveSessionStatus = "ended"
)

// LiveSession is a scheduled or running live class.
type LiveSession struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Host     string            `json:"host,omitempty"`
	StartsAt time.Time         `json:"startsAt"`
	JoinURL  string            `json:"joinUrl,omitempty"`
	Status   LiveSessionStatus `json:"status"`
}

// FilterBookmarksByType keeps bookmarks of resourceType.
func FilterBookmarksByType(items []Bookmark, resourceType string) []Bookmark {
	return equalFold(items, resourceType, func(b Bookmark) string { return b.ResourceType })
}

// FilterLiveSessionsByStatus keeps sessions in status.
func FilterLiveSessionsByStatus(items []LiveSession, status string) []LiveSession {
	return equalFold(items, status, func(s LiveSession) string { return string(s.Status) })
}
