package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/notenexus/note-nexus-api/internal/models"
	appErrors "github.com/notenexus/note-nexus-api/pkg/errors"
)

// PaymentRepository handles persistence of payment records.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Record stores a completed payment. The class counters, the instructor's
// enrollment counter and the payment row are written in a single
// transaction so a partial failure leaves no trace.
//
// The seat decrement is guarded: a class with no remaining seats yields
// ErrClassFull and nothing is written.
func (r *PaymentRepository) Record(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	payment.CreatedAt = now
	if payment.PaidAt.IsZero() {
		payment.PaidAt = now
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payment tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE classes SET seats = seats - 1, enrolled = enrolled + 1, updated_at = $2 WHERE id = $1 AND seats > 0`,
		payment.ClassID, now)
	if err != nil {
		return fmt.Errorf("adjust class counters: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust class counters rows: %w", err)
	}
	if affected == 0 {
		var one int
		if err := tx.GetContext(ctx, &one, `SELECT 1 FROM classes WHERE id = $1`, payment.ClassID); err != nil {
			if err == sql.ErrNoRows {
				return sql.ErrNoRows
			}
			return fmt.Errorf("check class: %w", err)
		}
		return appErrors.ErrClassFull
	}

	// The instructor row is created on the fly when absent so counters
	// survive instructors who never hit the login upsert.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO users (id, email, name, photo_url, role, enrolled_count, created_at, updated_at)
         VALUES ($1, $2, '', '', $3, 1, $4, $4)
         ON CONFLICT (email) DO UPDATE SET enrolled_count = users.enrolled_count + 1, updated_at = EXCLUDED.updated_at`,
		uuid.NewString(), payment.InstructorEmail, models.RoleInstructor, now); err != nil {
		return fmt.Errorf("bump instructor enrollment: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO payments (id, class_id, student_email, instructor_email, price, transaction_id, paid_at, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		payment.ID, payment.ClassID, payment.StudentEmail, payment.InstructorEmail,
		payment.Price, payment.TransactionID, payment.PaidAt, payment.CreatedAt); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment tx: %w", err)
	}
	return nil
}

// ExistsForClassAndStudent reports whether a payment record exists for
// the pair, which is the definition of "enrolled".
func (r *PaymentRepository) ExistsForClassAndStudent(ctx context.Context, classID, studentEmail string) (bool, error) {
	const query = `SELECT 1 FROM payments WHERE class_id = $1 AND student_email = $2 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, classID, studentEmail); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// ListByStudent returns the student's payment history, most recent first.
func (r *PaymentRepository) ListByStudent(ctx context.Context, studentEmail string) ([]models.PaymentDetail, error) {
	const query = `SELECT p.id, p.class_id, p.student_email, p.instructor_email, p.price, p.transaction_id, p.paid_at, p.created_at,
        c.title AS class_title
        FROM payments p
        JOIN classes c ON c.id = p.class_id
        WHERE p.student_email = $1
        ORDER BY p.paid_at DESC`
	var payments []models.PaymentDetail
	if err := r.db.SelectContext(ctx, &payments, query, studentEmail); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// FindDetailByID returns a single payment with class context.
// sql.ErrNoRows passes through.
func (r *PaymentRepository) FindDetailByID(ctx context.Context, id string) (*models.PaymentDetail, error) {
	const query = `SELECT p.id, p.class_id, p.student_email, p.instructor_email, p.price, p.transaction_id, p.paid_at, p.created_at,
        c.title AS class_title
        FROM payments p
        JOIN classes c ON c.id = p.class_id
        WHERE p.id = $1`
	var payment models.PaymentDetail
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}
