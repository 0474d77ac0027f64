package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/notenexus/note-nexus-api/internal/models"
)

// BookmarkRepository handles persistence of saved classes.
type BookmarkRepository struct {
	db *sqlx.DB
}

// NewBookmarkRepository constructs the repository.
func NewBookmarkRepository(db *sqlx.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// FindByClassAndStudent returns the bookmark for the pair, or
// sql.ErrNoRows when none exists.
func (r *BookmarkRepository) FindByClassAndStudent(ctx context.Context, classID, studentEmail string) (*models.SavedClass, error) {
	const query = `SELECT id, class_id, student_email, created_at FROM saved_classes WHERE class_id = $1 AND student_email = $2`
	var saved models.SavedClass
	if err := r.db.GetContext(ctx, &saved, query, classID, studentEmail); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Create persists a new bookmark. The saved_classes table carries a
// UNIQUE(class_id, student_email) constraint backing the application-level
// existence check.
func (r *BookmarkRepository) Create(ctx context.Context, saved *models.SavedClass) error {
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	saved.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO saved_classes (id, class_id, student_email, created_at)
        VALUES (:id, :class_id, :student_email, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, saved); err != nil {
		return fmt.Errorf("create bookmark: %w", err)
	}
	return nil
}

// ListByStudent returns the student's bookmarks with class context,
// newest first.
func (r *BookmarkRepository) ListByStudent(ctx context.Context, studentEmail string) ([]models.SavedClassDetail, error) {
	const query = `SELECT sc.id, sc.class_id, sc.student_email, sc.created_at,
        c.title AS class_title, c.image_url AS class_image_url, c.price AS class_price, c.instructor_name
        FROM saved_classes sc
        JOIN classes c ON c.id = sc.class_id
        WHERE sc.student_email = $1
        ORDER BY sc.created_at DESC`
	var bookmarks []models.SavedClassDetail
	if err := r.db.SelectContext(ctx, &bookmarks, query, studentEmail); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return bookmarks, nil
}

// Delete removes a bookmark by id scoped to the owning student. The email
// filter is the ownership check. sql.ErrNoRows is returned when nothing
// matched.
func (r *BookmarkRepository) Delete(ctx context.Context, id, studentEmail string) error {
	const query = `DELETE FROM saved_classes WHERE id = $1 AND student_email = $2`
	result, err := r.db.ExecContext(ctx, query, id, studentEmail)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return checkAffected(result)
}
