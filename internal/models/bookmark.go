package models

import "time"

// SavedClass is a student's bookmark of a class. At most one bookmark
// exists per (class, student) pair.
type SavedClass struct {
	ID           string    `db:"id" json:"id"`
	ClassID      string    `db:"class_id" json:"class_id"`
	StudentEmail string    `db:"student_email" json:"student_email"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SavedClassDetail extends SavedClass with class context for listings.
type SavedClassDetail struct {
	SavedClass
	ClassTitle     string  `db:"class_title" json:"class_title"`
	ClassImageURL  string  `db:"class_image_url" json:"class_image_url,omitempty"`
	ClassPrice     float64 `db:"class_price" json:"class_price"`
	InstructorName string  `db:"instructor_name" json:"instructor_name"`
}
