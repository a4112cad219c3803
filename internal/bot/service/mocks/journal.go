package mocks

import (
	"context"

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
