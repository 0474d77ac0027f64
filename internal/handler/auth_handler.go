package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notenexus/note-nexus-api/internal/models"
	appErrors "github.com/notenexus/note-nexus-api/pkg/errors"
	"github.com/notenexus/note-nexus-api/pkg/response"
)

type authTokenIssuer interface {
	IssueToken(req models.TokenRequest) (*models.TokenResponse, error)
}

// AuthHandler issues access tokens.
type AuthHandler struct {
	auth authTokenIssuer
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth authTokenIssuer) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Token godoc
// @Summary Issue access token
// @Description Signs a short-lived access token for the given email
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.TokenRequest true "Token payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /jwt [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	token, err := h.auth.IssueToken(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, token, nil)
}
