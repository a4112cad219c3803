package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

type SessionStore struct {
	mock.Mock
}

func (m *SessionStore) GetMode(ctx context.Context, userID int64) (models.Mode, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Mode), args.Error(1)
}

func (m *SessionStore) SetMode(ctx context.Context, userID int64, mode models.Mode) error {
	args := m.Called(ctx, userID, mode)
	return args.Error(0)
}

func (m *SessionStore) Clear(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
