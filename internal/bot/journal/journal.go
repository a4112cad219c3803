package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/Matthew11K/tester-bot/internal/common/metrics"
	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

const (
	sinkNop      = "nop"
	sinkPostgres = "postgres"
	sinkKafka    = "kafka"
)

type Journal interface {
	Record(ctx context.Context, entry *models.JournalEntry) error
}

type Repository interface {
	Save(ctx context.Context, entry *models.JournalEntry) error

	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	UserStats(ctx context.Context, userID int64) (*models.UserStats, error)
}

type NopJournal struct{}

func (NopJournal) Record(context.Context, *models.JournalEntry) error {
	metrics.RecordJournalWrite(sinkNop, "skipped")
	return nil
}

type RepositoryJournal struct {
	repo   Repository
	logger *slog.Logger
}

func NewRepositoryJournal(repo Repository, logger *slog.Logger) *RepositoryJournal {
	return &RepositoryJournal{
		repo:   repo,
		logger: logger,
	}
}

func (j *RepositoryJournal) Record(ctx context.Context, entry *models.JournalEntry) error {
	if err := j.repo.Save(ctx, entry); err != nil {
		metrics.RecordJournalWrite(sinkPostgres, "error")
		return err
	}

	metrics.RecordJournalWrite(sinkPostgres, "success")

	return nil
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}

	return "success"
}
