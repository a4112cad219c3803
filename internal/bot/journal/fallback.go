package journal

import (
	"context"
	"log/slog"

	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

// FallbackJournal пишет в резервный журнал, если основной вернул ошибку.
type FallbackJournal struct {
	primary   Journal
	secondary Journal
	logger    *slog.Logger
}

func NewFallbackJournal(primary, secondary Journal, logger *slog.Logger) *FallbackJournal {
	return &FallbackJournal{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

func (j *FallbackJournal) Record(ctx context.Context, entry *models.JournalEntry) error {
	err := j.primary.Record(ctx, entry)
	if err == nil {
		return nil
	}

	j.logger.Warn("Основной журнал недоступен, переключаемся на резервный",
		"primary_error", err,
		"update_id", entry.UpdateID,
	)

	if fallbackErr := j.secondary.Record(ctx, entry); fallbackErr != nil {
		return err
	}

	return nil
}
