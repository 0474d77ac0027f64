package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notenexus/note-nexus-api/internal/middleware"
	"github.com/notenexus/note-nexus-api/internal/models"
	"github.com/notenexus/note-nexus-api/internal/service"
	appErrors "github.com/notenexus/note-nexus-api/pkg/errors"
)

type userServiceMock struct {
	registerUser    *models.User
	registerCreated bool
	registerErr     error
	roleResp        models.UserRole
	roleErr         error
	listResp        []models.User
	listErr         error
	instructorsResp []models.User
	instructorsErr  error
	setRoleErr      error
	lastEmail       string
	lastLimit       int
	lastSetRoleID   string
	lastSetRole     models.UserRole
}

func (m *userServiceMock) Register(ctx context.Context, email string, req service.RegisterUserRequest) (*models.User, bool, error) {
	m.lastEmail = email
	return m.registerUser, m.registerCreated, m.registerErr
}

func (m *userServiceMock) RoleOf(ctx context.Context, claims *models.JWTClaims, email string) (models.UserRole, error) {
	m.lastEmail = email
	return m.roleResp, m.roleErr
}

func (m *userServiceMock) List(ctx context.Context) ([]models.User, error) {
	return m.listResp, m.listErr
}

func (m *userServiceMock) Instructors(ctx context.Context, limit int) ([]models.User, error) {
	m.lastLimit = limit
	return m.instructorsResp, m.instructorsErr
}

func (m *userServiceMock) SetRole(ctx context.Context, id string, req service.SetRoleRequest) error {
	m.lastSetRoleID = id
	m.lastSetRole = req.Role
	return m.setRoleErr
}

func TestUserHandlerRegisterNewUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &userServiceMock{
		registerUser:    &models.User{Email: "new@example.com", Role: models.RoleStudent},
		registerCreated: true,
	}
	handler := NewUserHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/user/new@example.com", bytes.NewBufferString(`{"name":"New Student"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "email", Value: "new@example.com"}}

	handler.Register(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "new@example.com", mockSvc.lastEmail)
}

func TestUserHandlerRegisterExistingUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &userServiceMock{
		registerUser:    &models.User{Email: "known@example.com"},
		registerCreated: false,
	}
	handler := NewUserHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/user/known@example.com", bytes.NewBufferString(`{"name":"Known"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "email", Value: "known@example.com"}}

	handler.Register(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User Exist")
}

func TestUserHandlerRoleCrossIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &userServiceMock{roleErr: appErrors.ErrForbidden}
	handler := NewUserHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/user-role/other@example.com", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "email", Value: "other@example.com"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Email: "me@example.com"})

	handler.Role(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserHandlerInstructorsLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &userServiceMock{
		instructorsResp: []models.User{{Email: "teacher@example.com", Role: models.RoleInstructor}},
	}
	handler := NewUserHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/instructors?limit=6", nil)
	c.Request = req

	handler.Instructors(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6, mockSvc.lastLimit)
}

func TestUserHandlerSetRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &userServiceMock{}
	handler := NewUserHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/set-role/user-1", bytes.NewBufferString(`{"role":"Instructor"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "user-1"}}

	handler.SetRole(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", mockSvc.lastSetRoleID)
	assert.Equal(t, models.RoleInstructor, mockSvc.lastSetRole)
}

func TestUserHandlerSetRoleUnknownUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &userServiceMock{setRoleErr: appErrors.ErrNotFound}
	handler := NewUserHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/set-role/ghost", bytes.NewBufferString(`{"role":"Admin"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	handler.SetRole(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
