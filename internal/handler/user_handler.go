package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/notenexus/note-nexus-api/internal/models"
	"github.com/notenexus/note-nexus-api/internal/service"
	appErrors "github.com/notenexus/note-nexus-api/pkg/errors"
	"github.com/notenexus/note-nexus-api/pkg/response"
)

type userService interface {
	Register(ctx context.Context, email string, req service.RegisterUserRequest) (*models.User, bool, error)
	RoleOf(ctx context.Context, claims *models.JWTClaims, email string) (models.UserRole, error)
	List(ctx context.Context) ([]models.User, error)
	Instructors(ctx context.Context, limit int) ([]models.User, error)
	SetRole(ctx context.Context, id string, req service.SetRoleRequest) error
}

// UserHandler handles account endpoints.
type UserHandler struct {
	service userService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// Register godoc
// @Summary Upsert user on first contact
// @Description Creates the account with role Student when the email is unknown; otherwise returns a user-exists marker
// @Tags Users
// @Accept json
// @Produce json
// @Param email path string true "User email"
// @Param payload body service.RegisterUserRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /user/{email} [put]
func (h *UserHandler) Register(c *gin.Context) {
	email := c.Param("email")

	var req service.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, created, err := h.service.Register(c.Request.Context(), email, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !created {
		response.JSON(c, http.StatusOK, gin.H{"message": "User Exist"}, nil)
		return
	}

	response.Created(c, user)
}

// Role godoc
// @Summary Get own role
// @Tags Users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /user-role/{email} [get]
func (h *UserHandler) Role(c *gin.Context) {
	role, err := h.service.RoleOf(c.Request.Context(), claimsFromContext(c), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"role": role}, nil)
}

// List godoc
// @Summary List all users
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /all-users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, users, nil)
}

// Instructors godoc
// @Summary List instructors by popularity
// @Tags Users
// @Produce json
// @Param limit query int false "Maximum number of instructors"
// @Success 200 {object} response.Envelope
// @Router /instructors [get]
func (h *UserHandler) Instructors(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	instructors, err := h.service.Instructors(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, instructors, nil)
}

// SetRole godoc
// @Summary Assign a role
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body service.SetRoleRequest true "Role payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /set-role/{id} [put]
func (h *UserHandler) SetRole(c *gin.Context) {
	var req service.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.SetRole(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "role updated"}, nil)
}
