package models

import "time"

// UserRole represents the available platform roles.
type UserRole string

const (
	RoleStudent    UserRole = "Student"
	RoleInstructor UserRole = "Instructor"
	RoleAdmin      UserRole = "Admin"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// User represents a platform account stored in the users table. Accounts
// are created on first contact with role Student; EnrolledCount is only
// meaningful for instructors.
type User struct {
	ID            string    `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	Name          string    `db:"name" json:"name"`
	PhotoURL      string    `db:"photo_url" json:"photo_url,omitempty"`
	Role          UserRole  `db:"role" json:"role"`
	EnrolledCount int       `db:"enrolled_count" json:"enrolled_count"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
