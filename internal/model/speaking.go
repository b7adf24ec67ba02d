package model

// SpeakingStatus is the state of a speaking engagement.
type SpeakingStatus string

const (
	SpeakingUpcoming  SpeakingStatus = "upcoming"
	SpeakingCompleted SpeakingStatus = "completed"
	SpeakingCancelled SpeakingStatus = "cancelled"
)

// SpeakingEvent represents a talk, panel or workshop.
type SpeakingEvent struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Venue       string         `json:"venue"`
	Date        string         `json:"date"`
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description,omitempty"`
	Status      SpeakingStatus `json:"status"`
}

// FilterSpeaking matches query against title and venue.
func FilterSpeaking(events []SpeakingEvent, query string) []SpeakingEvent {
	return filter(events, query, func(e SpeakingEvent) []string {
		return []string{e.Title, e.Venue}
	})
}

// FilterSpeakingByCategory keeps events in category.
func FilterSpeakingByCategory(events []SpeakingEvent, category string) []SpeakingEvent {
	return equalFold(events, category, func(e SpeakingEvent) string { return e.Category })
}

// FilterSpeakingByStatus keeps events in status.
func FilterSpeakingByStatus(events []SpeakingEvent, status string) []SpeakingEvent {
	return equalFold(events, status, func(e SpeakingEvent) string { return string(e.Status) })
}
