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

type mockBookmarkRepo struct {
	existing   *models.SavedClass
	findErr    error
	createErr  error
	listResp   []models.SavedClassDetail
	deleteErr  error
	created    *models.SavedClass
	lastID     string
	lastEmail  string
	lastListBy string
}

func (m *mockBookmarkRepo) FindByClassAndStudent(ctx context.Context, classID, studentEmail string) (*models.SavedClass, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.existing, nil
}

func (m *mockBookmarkRepo) Create(ctx context.Context, saved *models.SavedClass) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = saved
	return nil
}

func (m *mockBookmarkRepo) ListByStudent(ctx context.Context, studentEmail string) ([]models.SavedClassDetail, error) {
	m.lastListBy = studentEmail
	return m.listResp, nil
}

func (m *mockBookmarkRepo) Delete(ctx context.Context, id, studentEmail string) error {
	m.lastID = id
	m.lastEmail = studentEmail
	return m.deleteErr
}

func newTestBookmarkService(repo *mockBookmarkRepo) *BookmarkService {
	return NewBookmarkService(repo, validator.New(), zap.NewNop())
}

func TestBookmarkServiceSelectNew(t *testing.T) {
	repo := &mockBookmarkRepo{findErr: sql.ErrNoRows}
	svc := newTestBookmarkService(repo)

	result, err := svc.Select(context.Background(), &models.JWTClaims{Email: "student@example.com"}, SelectClassRequest{ClassID: "class-1"})
	require.NoError(t, err)
	assert.False(t, result.Exist)
	require.NotNil(t, repo.created)
	assert.Equal(t, "class-1", repo.created.ClassID)
	assert.Equal(t, "student@example.com", repo.created.StudentEmail)
}

func TestBookmarkServiceSelectExisting(t *testing.T) {
	repo := &mockBookmarkRepo{existing: &models.SavedClass{ID: "bookmark-1", ClassID: "class-1"}}
	svc := newTestBookmarkService(repo)

	result, err := svc.Select(context.Background(), &models.JWTClaims{Email: "student@example.com"}, SelectClassRequest{ClassID: "class-1"})
	require.NoError(t, err)
	assert.True(t, result.Exist)
	assert.Equal(t, "This class is already in your bookmarks", result.Message)
	assert.Nil(t, repo.created)
}

func TestBookmarkServiceSelectRequiresClassID(t *testing.T) {
	svc := newTestBookmarkService(&mockBookmarkRepo{})

	_, err := svc.Select(context.Background(), &models.JWTClaims{Email: "student@example.com"}, SelectClassRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBookmarkServiceListUsesTokenIdentity(t *testing.T) {
	repo := &mockBookmarkRepo{listResp: []models.SavedClassDetail{{ClassTitle: "Go Fundamentals"}}}
	svc := newTestBookmarkService(repo)

	bookmarks, err := svc.List(context.Background(), &models.JWTClaims{Email: "student@example.com"})
	require.NoError(t, err)
	assert.Len(t, bookmarks, 1)
	assert.Equal(t, "student@example.com", repo.lastListBy)
}

func TestBookmarkServiceDeleteScopedToCaller(t *testing.T) {
	repo := &mockBookmarkRepo{}
	svc := newTestBookmarkService(repo)

	err := svc.Delete(context.Background(), &models.JWTClaims{Email: "student@example.com"}, "bookmark-1")
	require.NoError(t, err)
	assert.Equal(t, "bookmark-1", repo.lastID)
	assert.Equal(t, "student@example.com", repo.lastEmail)
}

func TestBookmarkServiceDeleteUnknown(t *testing.T) {
	svc := newTestBookmarkService(&mockBookmarkRepo{deleteErr: sql.ErrNoRows})

	err := svc.Delete(context.Background(), &models.JWTClaims{Email: "student@example.com"}, "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
