package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/Matthew11K/tester-bot/internal/common/metrics"
)

const (
	SessionStatsJobName     = "session_stats"
	JournalRetentionJobName = "journal_retention"
)

type SessionCounter interface {
	Count() int
}

type EventPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionStatsJob обновляет gauge активных сессий.
func SessionStatsJob(sessions SessionCounter, interval time.Duration) Job {
	return Job{
		Name:     SessionStatsJobName,
		Interval: interval,
		Run: func(context.Context) error {
			metrics.UpdateActiveSessions(sessions.Count())
			return nil
		},
	}
}

// JournalRetentionJob удаляет записи журнала старше retention.
func JournalRetentionJob(purger EventPurger, retention, interval time.Duration, logger *slog.Logger) Job {
	return Job{
		Name:     JournalRetentionJobName,
		Interval: interval,
		Run: func(ctx context.Context) error {
			deleted, err := purger.DeleteOlderThan(ctx, time.Now().UTC().Add(-retention))
			if err != nil {
				return err
			}

			if deleted > 0 {
				logger.Info("Удалены устаревшие записи журнала", "deleted", deleted)
			}

			return nil
		},
	}
}
