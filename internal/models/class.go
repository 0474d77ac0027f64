package models

import "time"

// ClassStatus is the submission state of a class.
type ClassStatus string

const (
	ClassPending  ClassStatus = "Pending"
	ClassApproved ClassStatus = "Approved"
	ClassDenied   ClassStatus = "Denied"
)

// Class represents a course offered by an instructor. Classes start
// Pending and move to Approved or Denied by admin action; Denied carries
// reviewer feedback. Seats and Enrolled are adjusted when payments are
// recorded.
type Class struct {
	ID              string      `db:"id" json:"id"`
	Title           string      `db:"title" json:"title"`
	Description     string      `db:"description" json:"description"`
	ImageURL        string      `db:"image_url" json:"image_url,omitempty"`
	InstructorName  string      `db:"instructor_name" json:"instructor_name"`
	InstructorEmail string      `db:"instructor_email" json:"instructor_email"`
	Price           float64     `db:"price" json:"price"`
	Seats           int         `db:"seats" json:"seats"`
	Enrolled        int         `db:"enrolled" json:"enrolled"`
	Status          ClassStatus `db:"status" json:"status"`
	Feedback        *string     `db:"feedback" json:"feedback,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}
