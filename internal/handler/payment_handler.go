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

type paymentService interface {
	CreateIntent(ctx context.Context, req service.CreatePaymentIntentRequest) (*service.PaymentIntentResponse, error)
	Record(ctx context.Context, claims *models.JWTClaims, req service.RecordPaymentRequest) (*models.Payment, error)
	EnrollmentCheck(ctx context.Context, classID, email string) (*service.EnrollmentCheckResult, error)
	History(ctx context.Context, claims *models.JWTClaims) ([]models.PaymentDetail, error)
	Receipt(ctx context.Context, claims *models.JWTClaims, id string) ([]byte, error)
}

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	service paymentService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(svc paymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// CreateIntent godoc
// @Summary Create a payment intent
// @Description Stages a card payment with the gateway and returns the client secret
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body service.CreatePaymentIntentRequest true "Intent payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /create-payment-intent [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req service.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "price is required"))
		return
	}

	intent, err := h.service.CreateIntent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, intent, nil)
}

// Record godoc
// @Summary Record a completed payment
// @Description Adjusts class and instructor counters and stores the payment record atomically
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body service.RecordPaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	payment, err := h.service.Record(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, payment)
}

// EnrollmentCheck reports whether a payment record exists for the pair.
func (h *PaymentHandler) EnrollmentCheck(c *gin.Context) {
	result, err := h.service.EnrollmentCheck(c.Request.Context(), c.Query("classId"), c.Query("email"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// History returns the caller's payments, most recent first.
func (h *PaymentHandler) History(c *gin.Context) {
	payments, err := h.service.History(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, payments, nil)
}

// Receipt streams a PDF receipt for one of the caller's payments.
func (h *PaymentHandler) Receipt(c *gin.Context) {
	data, err := h.service.Receipt(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="receipt.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
