package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notenexus/note-nexus-api/internal/models"
	"github.com/notenexus/note-nexus-api/internal/service"
	appErrors "github.com/notenexus/note-nexus-api/pkg/errors"
	"github.com/notenexus/note-nexus-api/pkg/response"
)

type bookmarkService interface {
	Select(ctx context.Context, claims *models.JWTClaims, req service.SelectClassRequest) (*service.SelectClassResult, error)
	List(ctx context.Context, claims *models.JWTClaims) ([]models.SavedClassDetail, error)
	Delete(ctx context.Context, claims *models.JWTClaims, id string) error
}

// BookmarkHandler handles saved classes.
type BookmarkHandler struct {
	service bookmarkService
}

// NewBookmarkHandler creates a new bookmark handler.
func NewBookmarkHandler(svc bookmarkService) *BookmarkHandler {
	return &BookmarkHandler{service: svc}
}

// Select godoc
// @Summary Bookmark a class
// @Description Saves a class for the caller; selecting twice reports exist=true without erroring
// @Tags Bookmarks
// @Accept json
// @Produce json
// @Param payload body service.SelectClassRequest true "Bookmark payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /select-class [post]
func (h *BookmarkHandler) Select(c *gin.Context) {
	var req service.SelectClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.Select(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Exist {
		response.JSON(c, http.StatusOK, result, nil)
		return
	}

	response.Created(c, result)
}

// List returns the caller's bookmarks.
func (h *BookmarkHandler) List(c *gin.Context) {
	bookmarks, err := h.service.List(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, bookmarks, nil)
}

// Delete removes one of the caller's bookmarks by id.
func (h *BookmarkHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
