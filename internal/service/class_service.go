package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/notenexus/note-nexus-api/internal/models"
	appErrors "github.com/notenexus/note-nexus-api/pkg/errors"
	"github.com/notenexus/note-nexus-api/pkg/export"
)

const approvedClassesCachePattern = "classes:approved:*"

type classRepository interface {
	Create(ctx context.Context, class *models.Class) error
	FindByID(ctx context.Context, id string) (*models.Class, error)
	List(ctx context.Context) ([]models.Class, error)
	ListByInstructor(ctx context.Context, email string) ([]models.Class, error)
	ListApproved(ctx context.Context, limit int) ([]models.Class, error)
	Approve(ctx context.Context, id string) error
	Deny(ctx context.Context, id, feedback string) error
	Update(ctx context.Context, class *models.Class) error
}

// CreateClassRequest describes a class submission.
type CreateClassRequest struct {
	Title          string  `json:"title" validate:"required"`
	Description    string  `json:"description"`
	ImageURL       string  `json:"image_url"`
	InstructorName string  `json:"instructor_name" validate:"required"`
	Price          float64 `json:"price" validate:"gte=0"`
	Seats          int     `json:"seats" validate:"gt=0"`
}

// UpdateClassRequest replaces the mutable fields of a class.
type UpdateClassRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Price       float64 `json:"price" validate:"gte=0"`
	Seats       int     `json:"seats" validate:"gt=0"`
}

// DenyClassRequest carries the mandatory reviewer feedback.
type DenyClassRequest struct {
	Feedback string `json:"feedback" validate:"required"`
}

// ClassService orchestrates the class submission workflow.
type ClassService struct {
	repo      classRepository
	cache     *CacheService
	exporter  *export.CSVExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, cache: cache, exporter: export.NewCSVExporter(), validator: validate, logger: logger}
}

// Create submits a new class for review. It starts Pending; the owning
// instructor comes from the caller's token, never the payload.
func (s *ClassService) Create(ctx context.Context, claims *models.JWTClaims, req CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class := &models.Class{
		Title:           req.Title,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		InstructorName:  req.InstructorName,
		InstructorEmail: claims.Email,
		Price:           req.Price,
		Seats:           req.Seats,
		Status:          models.ClassPending,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// List returns every class regardless of status.
func (s *ClassService) List(ctx context.Context) ([]models.Class, error) {
	classes, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Get returns a single class by id.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Mine returns the caller's own classes.
func (s *ClassService) Mine(ctx context.Context, claims *models.JWTClaims) ([]models.Class, error) {
	classes, err := s.repo.ListByInstructor(ctx, claims.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Approved returns the public listing of approved classes sorted by
// enrollment, served from cache when possible.
func (s *ClassService) Approved(ctx context.Context, limit int) ([]models.Class, error) {
	key := "classes:approved:" + strconv.Itoa(limit)

	var cached []models.Class
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	classes, err := s.repo.ListApproved(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list approved classes")
	}

	if err := s.cache.Set(ctx, key, classes, 0); err != nil {
		s.logger.Warn("failed to cache approved classes", zap.Error(err))
	}
	return classes, nil
}

// Approve moves a class to Approved.
func (s *ClassService) Approve(ctx context.Context, id string) error {
	if err := s.repo.Approve(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve class")
	}
	s.invalidateListing(ctx)
	return nil
}

// Deny moves a class to Denied with the supplied feedback. Denying an
// already approved class overwrites the approval.
func (s *ClassService) Deny(ctx context.Context, id string, req DenyClassRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "feedback is required")
	}

	if err := s.repo.Deny(ctx, id, req.Feedback); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deny class")
	}
	s.invalidateListing(ctx)
	return nil
}

// Update replaces the mutable fields of a class and clears reviewer
// feedback. Status is left untouched: a Denied class stays Denied until
// an admin acts again.
func (s *ClassService) Update(ctx context.Context, id string, req UpdateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class := &models.Class{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Seats:       req.Seats,
	}
	if err := s.repo.Update(ctx, class); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	s.invalidateListing(ctx)

	return s.Get(ctx, id)
}

// ExportMine renders the caller's classes as a CSV roster.
func (s *ClassService) ExportMine(ctx context.Context, claims *models.JWTClaims) ([]byte, error) {
	classes, err := s.Mine(ctx, claims)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Title", "Status", "Price", "Seats", "Enrolled", "Feedback"},
	}
	for _, class := range classes {
		feedback := ""
		if class.Feedback != nil {
			feedback = *class.Feedback
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Title":    class.Title,
			"Status":   string(class.Status),
			"Price":    fmt.Sprintf("%.2f", class.Price),
			"Seats":    strconv.Itoa(class.Seats),
			"Enrolled": strconv.Itoa(class.Enrolled),
			"Feedback": feedback,
		})
	}

	data, err := s.exporter.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}
	return data, nil
}

func (s *ClassService) invalidateListing(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, approvedClassesCachePattern); err != nil {
		s.logger.Warn("failed to invalidate class listing cache", zap.Error(err))
	}
}
