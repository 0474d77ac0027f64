package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/notenexus/note-nexus-api/internal/models"
	appErrors "github.com/notenexus/note-nexus-api/pkg/errors"
)

type bookmarkRepository interface {
	FindByClassAndStudent(ctx context.Context, classID, studentEmail string) (*models.SavedClass, error)
	Create(ctx context.Context, saved *models.SavedClass) error
	ListByStudent(ctx context.Context, studentEmail string) ([]models.SavedClassDetail, error)
	Delete(ctx context.Context, id, studentEmail string) error
}

// SelectClassRequest bookmarks a class for the caller.
type SelectClassRequest struct {
	ClassID string `json:"classId" validate:"required"`
}

// SelectClassResult reports whether the bookmark already existed.
type SelectClassResult struct {
	Exist   bool               `json:"exist"`
	Message string             `json:"message,omitempty"`
	Saved   *models.SavedClass `json:"saved,omitempty"`
}

// BookmarkService manages saved classes. The student identity always
// comes from the caller's token, which is what prevents bookmarking or
// deleting on someone else's behalf.
type BookmarkService struct {
	repo      bookmarkRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookmarkService constructs a BookmarkService.
func NewBookmarkService(repo bookmarkRepository, validate *validator.Validate, logger *zap.Logger) *BookmarkService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookmarkService{repo: repo, validator: validate, logger: logger}
}

// Select bookmarks a class. Selecting an already bookmarked class is not
// an error; the result carries an exist flag instead.
func (s *BookmarkService) Select(ctx context.Context, claims *models.JWTClaims, req SelectClassRequest) (*SelectClassResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bookmark payload")
	}

	existing, err := s.repo.FindByClassAndStudent(ctx, req.ClassID, claims.Email)
	if err == nil {
		return &SelectClassResult{
			Exist:   true,
			Message: "This class is already in your bookmarks",
			Saved:   existing,
		}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up bookmark")
	}

	saved := &models.SavedClass{ClassID: req.ClassID, StudentEmail: claims.Email}
	if err := s.repo.Create(ctx, saved); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save bookmark")
	}
	return &SelectClassResult{Saved: saved}, nil
}

// List returns the caller's bookmarks with class context.
func (s *BookmarkService) List(ctx context.Context, claims *models.JWTClaims) ([]models.SavedClassDetail, error) {
	bookmarks, err := s.repo.ListByStudent(ctx, claims.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookmarks")
	}
	return bookmarks, nil
}

// Delete removes one of the caller's bookmarks by id.
func (s *BookmarkService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	if err := s.repo.Delete(ctx, id, claims.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "bookmark not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete bookmark")
	}
	return nil
}
