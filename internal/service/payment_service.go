package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/notenexus/note-nexus-api/internal/gateway"
	"github.com/notenexus/note-nexus-api/internal/models"
	appErrors "github.com/notenexus/note-nexus-api/pkg/errors"
	"github.com/notenexus/note-nexus-api/pkg/export"
)

type paymentRepository interface {
	Record(ctx context.Context, payment *models.Payment) error
	ExistsForClassAndStudent(ctx context.Context, classID, studentEmail string) (bool, error)
	ListByStudent(ctx context.Context, studentEmail string) ([]models.PaymentDetail, error)
	FindDetailByID(ctx context.Context, id string) (*models.PaymentDetail, error)
}

// CreatePaymentIntentRequest stages a payment for the given price.
type CreatePaymentIntentRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

// PaymentIntentResponse carries the client secret for in-browser
// confirmation.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// RecordPaymentRequest stores a completed payment.
type RecordPaymentRequest struct {
	ClassID         string    `json:"classId" validate:"required"`
	InstructorEmail string    `json:"instructorEmail" validate:"required,email"`
	Price           float64   `json:"price" validate:"required,gt=0"`
	TransactionID   string    `json:"transactionId" validate:"required"`
	Date            time.Time `json:"date"`
}

// EnrollmentCheckResult reports whether a payment record exists for the
// pair.
type EnrollmentCheckResult struct {
	Exist bool `json:"exist"`
}

// PaymentService wraps the payment gateway and the enrollment bookkeeping
// that follows a confirmed payment.
type PaymentService struct {
	repo      paymentRepository
	gateway   gateway.PaymentGateway
	cache     *CacheService
	receipts  *export.ReceiptExporter
	currency  string
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(repo paymentRepository, gw gateway.PaymentGateway, cache *CacheService, currency string, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{
		repo:      repo,
		gateway:   gw,
		cache:     cache,
		receipts:  export.NewReceiptExporter(),
		currency:  currency,
		validator: validate,
		logger:    logger,
	}
}

// CreateIntent stages a card payment with the gateway and returns the
// client secret. Prices are converted to the currency's smallest unit.
func (s *PaymentService) CreateIntent(ctx context.Context, req CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "price is required")
	}

	amount := int64(math.Round(req.Price * 100))
	intent, err := s.gateway.CreateIntent(ctx, amount, s.currency)
	if err != nil {
		s.logger.Error("payment intent creation failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrPaymentGateway.Code, appErrors.ErrPaymentGateway.Status, appErrors.ErrPaymentGateway.Message)
	}

	return &PaymentIntentResponse{ClientSecret: intent.ClientSecret}, nil
}

// Record books a confirmed payment: the class loses a seat and gains an
// enrollee, the instructor's counter grows and the payment row is
// inserted, all atomically. A duplicate purchase for the same class is
// rejected before anything is written.
func (s *PaymentService) Record(ctx context.Context, claims *models.JWTClaims, req RecordPaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	enrolled, err := s.repo.ExistsForClassAndStudent(ctx, req.ClassID, claims.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if enrolled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in this class")
	}

	payment := &models.Payment{
		ClassID:         req.ClassID,
		StudentEmail:    claims.Email,
		InstructorEmail: req.InstructorEmail,
		Price:           req.Price,
		TransactionID:   req.TransactionID,
		PaidAt:          req.Date,
	}
	if err := s.repo.Record(ctx, payment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	if err := s.cache.Invalidate(ctx, approvedClassesCachePattern); err != nil {
		s.logger.Warn("failed to invalidate class listing cache", zap.Error(err))
	}

	return payment, nil
}

// EnrollmentCheck reports whether a payment record exists for the pair.
func (s *PaymentService) EnrollmentCheck(ctx context.Context, classID, email string) (*EnrollmentCheckResult, error) {
	if classID == "" || email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classId and email are required")
	}

	exists, err := s.repo.ExistsForClassAndStudent(ctx, classID, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	return &EnrollmentCheckResult{Exist: exists}, nil
}

// History returns the caller's payments, most recent first.
func (s *PaymentService) History(ctx context.Context, claims *models.JWTClaims) ([]models.PaymentDetail, error) {
	payments, err := s.repo.ListByStudent(ctx, claims.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}

// Receipt renders a PDF receipt for one of the caller's own payments.
func (s *PaymentService) Receipt(ctx context.Context, claims *models.JWTClaims, id string) ([]byte, error) {
	payment, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	if payment.StudentEmail != claims.Email {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "receipt belongs to another student")
	}

	data, err := s.receipts.Render(export.Receipt{
		PaymentID:       payment.ID,
		TransactionID:   payment.TransactionID,
		ClassTitle:      payment.ClassTitle,
		StudentEmail:    payment.StudentEmail,
		InstructorEmail: payment.InstructorEmail,
		Price:           payment.Price,
		PaidAt:          payment.PaidAt,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render receipt")
	}
	return data, nil
}
