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

type classService interface {
	Create(ctx context.Context, claims *models.JWTClaims, req service.CreateClassRequest) (*models.Class, error)
	List(ctx context.Context) ([]models.Class, error)
	Get(ctx context.Context, id string) (*models.Class, error)
	Mine(ctx context.Context, claims *models.JWTClaims) ([]models.Class, error)
	Approved(ctx context.Context, limit int) ([]models.Class, error)
	Approve(ctx context.Context, id string) error
	Deny(ctx context.Context, id string, req service.DenyClassRequest) error
	Update(ctx context.Context, id string, req service.UpdateClassRequest) (*models.Class, error)
	ExportMine(ctx context.Context, claims *models.JWTClaims) ([]byte, error)
}

// ClassHandler handles the class submission workflow.
type ClassHandler struct {
	service classService
}

// NewClassHandler creates a new class handler.
func NewClassHandler(svc classService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// Create godoc
// @Summary Submit a class
// @Description Creates a class in Pending status owned by the caller
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /class [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	class, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, class)
}

// List godoc
// @Summary List every class
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, classes, nil)
}

// Get returns a single class by id.
func (h *ClassHandler) Get(c *gin.Context) {
	class, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, class, nil)
}

// Mine returns the caller's own classes.
func (h *ClassHandler) Mine(c *gin.Context) {
	classes, err := h.service.Mine(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, classes, nil)
}

// Approved godoc
// @Summary List approved classes by popularity
// @Tags Classes
// @Produce json
// @Param limit query int false "Maximum number of classes"
// @Success 200 {object} response.Envelope
// @Router /all-classes [get]
func (h *ClassHandler) Approved(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	classes, err := h.service.Approved(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, classes, nil)
}

// Approve godoc
// @Summary Approve a class
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /class-approve/{id} [put]
func (h *ClassHandler) Approve(c *gin.Context) {
	if err := h.service.Approve(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"status": models.ClassApproved}, nil)
}

// Deny godoc
// @Summary Deny a class with feedback
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body service.DenyClassRequest true "Feedback payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /class-deny/{id} [put]
func (h *ClassHandler) Deny(c *gin.Context) {
	var req service.DenyClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.Deny(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"status": models.ClassDenied}, nil)
}

// Update replaces the mutable fields of a class and clears feedback.
func (h *ClassHandler) Update(c *gin.Context) {
	var req service.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	class, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, class, nil)
}

// ExportMine streams the caller's classes as a CSV roster.
func (h *ClassHandler) ExportMine(c *gin.Context) {
	data, err := h.service.ExportMine(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="my-classes.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
