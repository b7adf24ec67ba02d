// Package model defines the records the portal mirrors from the backend API.
// The backend owns their lifecycle; the portal only displays and edits them.
package model

import "time"

// Role values carried on a user record.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AccountStatus is the backend-managed state of a user account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountPending   AccountStatus = "pending"
)

// User represents a portal user as returned by the backend.
type User struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Role          string        `json:"role"`
	AccountStatus AccountStatus `json:"accountStatus,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Avatar        string        `json:"avatar,omitempty"`
	CreatedAt     *time.Time    `json:"createdAt,omitempty"`
}

// IsAdmin compares the cached role to the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// FilterUsers returns users whose name or email contains query, case-insensitively.
func FilterUsers(users []User, query string) []User {
	return filter(users, query, func(u User) []string {
		return []string{u.Name, u.Email}
	})
}
