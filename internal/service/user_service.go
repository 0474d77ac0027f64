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

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
	ListInstructors(ctx context.Context, limit int) ([]models.User, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole) error
}

// RegisterUserRequest carries the profile payload sent on first contact.
type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required"`
	PhotoURL string `json:"photo_url"`
}

// SetRoleRequest assigns a role to a user.
type SetRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required"`
}

// UserService provides account use cases.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// Register is the upsert-on-first-contact flow. An unknown email is
// inserted with role Student; a known email is returned untouched, the
// payload ignored. The second return reports whether a row was created.
func (s *UserService) Register(ctx context.Context, email string, req RegisterUserRequest) (*models.User, bool, error) {
	if email == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "email is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up user")
	}

	user := &models.User{
		Email:    email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Role:     models.RoleStudent,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}
	return user, true, nil
}

// RoleOf returns the caller's own role. Cross-identity queries are
// rejected.
func (s *UserService) RoleOf(ctx context.Context, claims *models.JWTClaims, email string) (models.UserRole, error) {
	if claims == nil || claims.Email != email {
		return "", appErrors.Clone(appErrors.ErrForbidden, "cannot query another user's role")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user.Role, nil
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, nil
}

// Instructors returns instructor accounts sorted by enrollment count.
func (s *UserService) Instructors(ctx context.Context, limit int) ([]models.User, error) {
	instructors, err := s.repo.ListInstructors(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	return instructors, nil
}

// SetRole assigns an arbitrary role to the user with the given id.
func (s *UserService) SetRole(ctx context.Context, id string, req SetRoleRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}
	if !req.Role.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	if err := s.repo.UpdateRole(ctx, id, req.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set role")
	}

	s.logger.Info("role assigned", zap.String("user_id", id), zap.String("role", string(req.Role)))
	return nil
}
