package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

type Journal struct {
	mock.Mock
}

func (m *Journal) Record(ctx context.Context, entry *models.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, entry *models.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Repository) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	args := m.Called(ctx, userID)

	stats, _ := args.Get(0).(*models.UserStats)

	return stats, args.Error(1)
}
