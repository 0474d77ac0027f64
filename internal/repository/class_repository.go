package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/notenexus/note-nexus-api/internal/models"
)

// ClassRepository handles persistence of classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = "id, title, description, image_url, instructor_name, instructor_email, price, seats, enrolled, status, feedback, created_at, updated_at"

// Create persists a new class. Status defaults to Pending when unset.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	if class.Status == "" {
		class.Status = models.ClassPending
	}
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, title, description, image_url, instructor_name, instructor_email, price, seats, enrolled, status, created_at, updated_at)
        VALUES (:id, :title, :description, :image_url, :instructor_name, :instructor_email, :price, :seats, :enrolled, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// FindByID returns a class by id. sql.ErrNoRows passes through.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE id = $1", classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// List returns every class regardless of status, newest first.
func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes ORDER BY created_at DESC", classColumns)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// ListByInstructor returns the classes owned by the given instructor.
func (r *ClassRepository) ListByInstructor(ctx context.Context, email string) ([]models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE instructor_email = $1 ORDER BY created_at DESC", classColumns)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, email); err != nil {
		return nil, fmt.Errorf("list classes by instructor: %w", err)
	}
	return classes, nil
}

// ListApproved returns approved classes sorted by enrollment descending.
// A non-positive limit returns all of them.
func (r *ClassRepository) ListApproved(ctx context.Context, limit int) ([]models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE status = $1 ORDER BY enrolled DESC", classColumns)
	args := []interface{}{models.ClassApproved}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}

	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("list approved classes: %w", err)
	}
	return classes, nil
}

// Approve moves a class to Approved. Prior feedback is left in place.
func (r *ClassRepository) Approve(ctx context.Context, id string) error {
	const query = `UPDATE classes SET status = $2, updated_at = $3 WHERE id = $1`
	return r.execStatus(ctx, query, id, models.ClassApproved)
}

// Deny moves a class to Denied and stores reviewer feedback, overwriting
// any prior approval.
func (r *ClassRepository) Deny(ctx context.Context, id, feedback string) error {
	const query = `UPDATE classes SET status = $2, feedback = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, models.ClassDenied, feedback, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deny class: %w", err)
	}
	return checkAffected(result)
}

// Update replaces the mutable fields of a class and clears reviewer
// feedback. Status is intentionally left untouched.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	const query = `UPDATE classes SET title = $2, description = $3, image_url = $4, price = $5, seats = $6, feedback = NULL, updated_at = $7
        WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, class.ID, class.Title, class.Description, class.ImageURL, class.Price, class.Seats, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return checkAffected(result)
}

func (r *ClassRepository) execStatus(ctx context.Context, query, id string, status models.ClassStatus) error {
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set class status: %w", err)
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
