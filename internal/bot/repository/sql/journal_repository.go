package sql

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/Matthew11K/tester-bot/internal/common/metrics"
	"github.com/Matthew11K/tester-bot/internal/database"
	customerrors "github.com/Matthew11K/tester-bot/internal/domain/errors"
	"github.com/Matthew11K/tester-bot/internal/domain/models"
	"github.com/Matthew11K/tester-bot/pkg/txs"
)

const (
	insertEventQuery = `
		INSERT INTO bot_events (update_id, user_id, chat_id, intent, mode_before, mode_after, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	upsertUserStatsQuery = `
		INSERT INTO bot_user_stats (user_id, events_total, last_intent, last_seen_at)
		VALUES ($1, 1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			events_total = bot_user_stats.events_total + 1,
			last_intent = EXCLUDED.last_intent,
			last_seen_at = EXCLUDED.last_seen_at`

	deleteOlderThanQuery = `DELETE FROM bot_events WHERE created_at < $1`

	selectUserStatsQuery = `
		SELECT user_id, events_total, last_intent, last_seen_at
		FROM bot_user_stats
		WHERE user_id = $1`
)

type JournalRepository struct {
	db        *database.PostgresDB
	txManager *txs.TxManager
}

func NewJournalRepository(db *database.PostgresDB, txManager *txs.TxManager) *JournalRepository {
	return &JournalRepository{
		db:        db,
		txManager: txManager,
	}
}

// Save записывает событие и обновляет статистику пользователя в одной транзакции.
func (r *JournalRepository) Save(ctx context.Context, entry *models.JournalEntry) error {
	start := time.Now()

	err := r.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		querier := txs.GetQuerier(ctx, r.db.Pool)

		_, err := querier.Exec(ctx, insertEventQuery,
			entry.UpdateID,
			entry.UserID,
			entry.ChatID,
			entry.Intent,
			entry.ModeBefore.String(),
			entry.ModeAfter.String(),
			string(entry.Outcome),
			entry.CreatedAt,
		)
		if err != nil {
			return &customerrors.ErrSQLExecution{Operation: "вставка события журнала", Cause: err}
		}

		_, err = querier.Exec(ctx, upsertUserStatsQuery, entry.UserID, entry.Intent, entry.CreatedAt)
		if err != nil {
			return &customerrors.ErrSQLExecution{Operation: "обновление статистики пользователя", Cause: err}
		}

		return nil
	})

	recordQuery("save_event", err, start)

	return err
}

func (r *JournalRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	start := time.Now()

	tag, err := txs.GetQuerier(ctx, r.db.Pool).Exec(ctx, deleteOlderThanQuery, cutoff)

	recordQuery("delete_old_events", err, start)

	if err != nil {
		return 0, &customerrors.ErrSQLExecution{Operation: "удаление старых событий", Cause: err}
	}

	return tag.RowsAffected(), nil
}

func (r *JournalRepository) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	var stats models.UserStats

	err := txs.GetQuerier(ctx, r.db.Pool).QueryRow(ctx, selectUserStatsQuery, userID).
		Scan(&stats.UserID, &stats.EventsTotal, &stats.LastIntent, &stats.LastSeenAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &customerrors.ErrUserStatsNotFound{UserID: userID}
		}

		return nil, &customerrors.ErrSQLExecution{Operation: "получение статистики пользователя", Cause: err}
	}

	return &stats, nil
}

func recordQuery(operation string, err error, start time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	metrics.RecordDatabaseQuery(operation, status, time.Since(start))
}
