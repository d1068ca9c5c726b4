package service

import (
	"context"
	"testing"
	"time"

	"taskmanager/internal/auth"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	storage "taskmanager/repository/inmemory"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

func newTestServices(t *testing.T) (*Services, *storage.Storage) {
	t.Helper()
	st := storage.NewStorage()
	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	s, err := New(st, auth.NewBcryptHasher(bcrypt.MinCost), tokens, "hexlet@example.com")
	require.NoError(t, err)
	return s, st
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func mustUser(t *testing.T, s *Services, email string) *models.UserResponse {
	t.Helper()
	u, err := s.Users.Create(context.Background(), models.UserCreateRequest{
		Email: email, FirstName: strPtr("First"), LastName: strPtr("Last"), Password: "secret",
	})
	require.NoError(t, err)
	return u
}

func mustStatus(t *testing.T, s *Services, slug string) *models.TaskStatusResponse {
	t.Helper()
	st, err := s.TaskStatuses.Create(context.Background(), models.TaskStatusCreateRequest{Name: slug + " name", Slug: slug})
	require.NoError(t, err)
	return st
}

func mustLabel(t *testing.T, s *Services, name string) *models.LabelResponse {
	t.Helper()
	l, err := s.Labels.Create(context.Background(), models.LabelCreateRequest{Name: name})
	require.NoError(t, err)
	return l
}

func requireCode(t *testing.T, err error, want *errors.Error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, want), "got %v, want %s", err, want.Code)
}
