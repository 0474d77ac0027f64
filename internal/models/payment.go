package models

import "time"

// Payment is the immutable record of a completed enrollment purchase. The
// presence of a row for (class, student) means the student is enrolled.
type Payment struct {
	ID              string    `db:"id" json:"id"`
	ClassID         string    `db:"class_id" json:"class_id"`
	StudentEmail    string    `db:"student_email" json:"student_email"`
	InstructorEmail string    `db:"instructor_email" json:"instructor_email"`
	Price           float64   `db:"price" json:"price"`
	TransactionID   string    `db:"transaction_id" json:"transaction_id"`
	PaidAt          time.Time `db:"paid_at" json:"paid_at"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// PaymentDetail extends Payment with class context for history listings
// and receipts.
type PaymentDetail struct {
	Payment
	ClassTitle string `db:"class_title" json:"class_title"`
}
