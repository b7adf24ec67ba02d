package model

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a consultation booking.
// Date is YYYY-MM-DD and Time is HH:MM, as the backend sends them.
type Appointment struct {
	ID        string            `json:"id"`
	FullName  string            `json:"fullName"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone,omitempty"`
	Type      string            `json:"type"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	Notes     string            `json:"notes,omitempty"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// AppointmentType is a bookable kind of consultation.
type AppointmentType struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// FilterAppointments matches query against patient name, email and type.
func FilterAppointments(items []Appointment, query string) []Appointment {
	return filter(items, query, func(a Appointment) []string {
		return []string{a.FullName, a.Email, a.Type}
	})
}

// FilterAppointmentsByStatus keeps appointments in the given status.
func FilterAppointmentsByStatus(items []Appointment, status string) []Appointment {
	return equalFold(items, status, func(a Appointment) string { return string(a.Status) })
}

// FilterAppointmentTypes matches query against the type name.
func FilterAppointmentTypes(items []AppointmentType, query string) []AppointmentType {
	return filter(items, query, func(t AppointmentType) []string {
		return []string{t.Name, t.Description}
	})
}
