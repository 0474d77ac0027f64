package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notenexus/note-nexus-api/internal/models"
	appErrors "github.com/notenexus/note-nexus-api/pkg/errors"
)

type mockUserRepo struct {
	byEmail         *models.User
	findByEmailErr  error
	createErr       error
	listResp        []models.User
	instructorsResp []models.User
	updateRoleErr   error
	created         *models.User
	lastLimit       int
	lastRoleID      string
	lastRole        models.UserRole
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.byEmail, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return m.byEmail, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = user
	return nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) {
	return m.listResp, nil
}

func (m *mockUserRepo) ListInstructors(ctx context.Context, limit int) ([]models.User, error) {
	m.lastLimit = limit
	return m.instructorsResp, nil
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	m.lastRoleID = id
	m.lastRole = role
	return m.updateRoleErr
}

func newTestUserService(repo *mockUserRepo) *UserService {
	return NewUserService(repo, validator.New(), zap.NewNop())
}

func TestUserServiceRegisterNewUser(t *testing.T) {
	repo := &mockUserRepo{findByEmailErr: sql.ErrNoRows}
	svc := newTestUserService(repo)

	user, created, err := svc.Register(context.Background(), "new@example.com", RegisterUserRequest{Name: "New Student"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleStudent, user.Role)
	require.NotNil(t, repo.created)
	assert.Equal(t, "new@example.com", repo.created.Email)
}

func TestUserServiceRegisterExistingUserUntouched(t *testing.T) {
	existing := &models.User{Email: "known@example.com", Name: "Original", Role: models.RoleInstructor}
	repo := &mockUserRepo{byEmail: existing}
	svc := newTestUserService(repo)

	user, created, err := svc.Register(context.Background(), "known@example.com", RegisterUserRequest{Name: "Replacement"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Original", user.Name)
	assert.Equal(t, models.RoleInstructor, user.Role)
	assert.Nil(t, repo.created)
}

func TestUserServiceRegisterRequiresName(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{})

	_, _, err := svc.Register(context.Background(), "new@example.com", RegisterUserRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceRoleOfCrossIdentity(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{byEmail: &models.User{Email: "other@example.com"}})

	_, err := svc.RoleOf(context.Background(), &models.JWTClaims{Email: "me@example.com"}, "other@example.com")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUserServiceRoleOfOwnRole(t *testing.T) {
	repo := &mockUserRepo{byEmail: &models.User{Email: "me@example.com", Role: models.RoleAdmin}}
	svc := newTestUserService(repo)

	role, err := svc.RoleOf(context.Background(), &models.JWTClaims{Email: "me@example.com"}, "me@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestUserServiceSetRole(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newTestUserService(repo)

	err := svc.SetRole(context.Background(), "user-1", SetRoleRequest{Role: models.RoleInstructor})
	require.NoError(t, err)
	assert.Equal(t, "user-1", repo.lastRoleID)
	assert.Equal(t, models.RoleInstructor, repo.lastRole)
}

func TestUserServiceSetRoleRejectsUnknownRole(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{})

	err := svc.SetRole(context.Background(), "user-1", SetRoleRequest{Role: "Superuser"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceSetRoleUnknownUser(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{updateRoleErr: sql.ErrNoRows})

	err := svc.SetRole(context.Background(), "ghost", SetRoleRequest{Role: models.RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUserServiceInstructorsPassesLimit(t *testing.T) {
	repo := &mockUserRepo{instructorsResp: []models.User{{Email: "teacher@example.com"}}}
	svc := newTestUserService(repo)

	instructors, err := svc.Instructors(context.Background(), 6)
	require.NoError(t, err)
	assert.Len(t, instructors, 1)
	assert.Equal(t, 6, repo.lastLimit)
}
