package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notenexus/note-nexus-api/internal/gateway"
	"github.com/notenexus/note-nexus-api/internal/models"
	appErrors "github.com/notenexus/note-nexus-api/pkg/errors"
)

type mockPaymentRepo struct {
	recordErr  error
	exists     bool
	existsErr  error
	listResp   []models.PaymentDetail
	detailResp *models.PaymentDetail
	detailErr  error
	recorded   *models.Payment
}

func (m *mockPaymentRepo) Record(ctx context.Context, payment *models.Payment) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = payment
	return nil
}

func (m *mockPaymentRepo) ExistsForClassAndStudent(ctx context.Context, classID, studentEmail string) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockPaymentRepo) ListByStudent(ctx context.Context, studentEmail string) ([]models.PaymentDetail, error) {
	return m.listResp, nil
}

func (m *mockPaymentRepo) FindDetailByID(ctx context.Context, id string) (*models.PaymentDetail, error) {
	if m.detailErr != nil {
		return nil, m.detailErr
	}
	return m.detailResp, nil
}

type mockGateway struct {
	resp       *gateway.PaymentIntent
	err        error
	lastAmount int64
	lastCurr   string
}

func (m *mockGateway) CreateIntent(ctx context.Context, amount int64, currency string) (*gateway.PaymentIntent, error) {
	m.lastAmount = amount
	m.lastCurr = currency
	return m.resp, m.err
}

func newTestPaymentService(repo *mockPaymentRepo, gw *mockGateway) *PaymentService {
	cache := NewCacheService(nil, nil, 0, zap.NewNop(), false)
	return NewPaymentService(repo, gw, cache, "usd", validator.New(), zap.NewNop())
}

func TestPaymentServiceCreateIntentConvertsToCents(t *testing.T) {
	gw := &mockGateway{resp: &gateway.PaymentIntent{ID: "pi_1", ClientSecret: "pi_secret"}}
	svc := newTestPaymentService(&mockPaymentRepo{}, gw)

	res, err := svc.CreateIntent(context.Background(), CreatePaymentIntentRequest{Price: 49.99})
	require.NoError(t, err)
	assert.Equal(t, "pi_secret", res.ClientSecret)
	assert.Equal(t, int64(4999), gw.lastAmount)
	assert.Equal(t, "usd", gw.lastCurr)
}

func TestPaymentServiceCreateIntentRequiresPrice(t *testing.T) {
	svc := newTestPaymentService(&mockPaymentRepo{}, &mockGateway{})

	_, err := svc.CreateIntent(context.Background(), CreatePaymentIntentRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceCreateIntentGatewayFailure(t *testing.T) {
	gw := &mockGateway{err: errors.New("stripe down")}
	svc := newTestPaymentService(&mockPaymentRepo{}, gw)

	_, err := svc.CreateIntent(context.Background(), CreatePaymentIntentRequest{Price: 10})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPaymentGateway.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrPaymentGateway.Status, appErr.Status)
}

func TestPaymentServiceRecord(t *testing.T) {
	repo := &mockPaymentRepo{}
	svc := newTestPaymentService(repo, &mockGateway{})

	payment, err := svc.Record(context.Background(), &models.JWTClaims{Email: "student@example.com"}, RecordPaymentRequest{
		ClassID:         "class-1",
		InstructorEmail: "teacher@example.com",
		Price:           49.99,
		TransactionID:   "txn_1",
		Date:            time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", payment.StudentEmail)
	require.NotNil(t, repo.recorded)
	assert.Equal(t, "class-1", repo.recorded.ClassID)
}

func TestPaymentServiceRecordRejectsDuplicate(t *testing.T) {
	repo := &mockPaymentRepo{exists: true}
	svc := newTestPaymentService(repo, &mockGateway{})

	_, err := svc.Record(context.Background(), &models.JWTClaims{Email: "student@example.com"}, RecordPaymentRequest{
		ClassID:         "class-1",
		InstructorEmail: "teacher@example.com",
		Price:           49.99,
		TransactionID:   "txn_1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.recorded)
}

func TestPaymentServiceRecordUnknownClass(t *testing.T) {
	repo := &mockPaymentRepo{recordErr: sql.ErrNoRows}
	svc := newTestPaymentService(repo, &mockGateway{})

	_, err := svc.Record(context.Background(), &models.JWTClaims{Email: "student@example.com"}, RecordPaymentRequest{
		ClassID:         "ghost",
		InstructorEmail: "teacher@example.com",
		Price:           49.99,
		TransactionID:   "txn_1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceRecordClassFull(t *testing.T) {
	repo := &mockPaymentRepo{recordErr: appErrors.ErrClassFull}
	svc := newTestPaymentService(repo, &mockGateway{})

	_, err := svc.Record(context.Background(), &models.JWTClaims{Email: "student@example.com"}, RecordPaymentRequest{
		ClassID:         "class-1",
		InstructorEmail: "teacher@example.com",
		Price:           49.99,
		TransactionID:   "txn_1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrClassFull.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceEnrollmentCheck(t *testing.T) {
	svc := newTestPaymentService(&mockPaymentRepo{exists: true}, &mockGateway{})

	result, err := svc.EnrollmentCheck(context.Background(), "class-1", "student@example.com")
	require.NoError(t, err)
	assert.True(t, result.Exist)
}

func TestPaymentServiceEnrollmentCheckRequiresBothParams(t *testing.T) {
	svc := newTestPaymentService(&mockPaymentRepo{}, &mockGateway{})

	_, err := svc.EnrollmentCheck(context.Background(), "", "student@example.com")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceReceiptOwnership(t *testing.T) {
	repo := &mockPaymentRepo{detailResp: &models.PaymentDetail{
		Payment: models.Payment{ID: "payment-1", StudentEmail: "other@example.com"},
	}}
	svc := newTestPaymentService(repo, &mockGateway{})

	_, err := svc.Receipt(context.Background(), &models.JWTClaims{Email: "me@example.com"}, "payment-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceReceiptRendersPDF(t *testing.T) {
	repo := &mockPaymentRepo{detailResp: &models.PaymentDetail{
		Payment: models.Payment{
			ID:              "payment-1",
			StudentEmail:    "me@example.com",
			InstructorEmail: "teacher@example.com",
			Price:           49.99,
			TransactionID:   "txn_1",
			PaidAt:          time.Now(),
		},
		ClassTitle: "Go Fundamentals",
	}}
	svc := newTestPaymentService(repo, &mockGateway{})

	data, err := svc.Receipt(context.Background(), &models.JWTClaims{Email: "me@example.com"}, "payment-1")
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}
