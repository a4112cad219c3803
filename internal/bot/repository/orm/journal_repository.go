package orm

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/Matthew11K/tester-bot/internal/common/metrics"
	"github.com/Matthew11K/tester-bot/internal/database"
	customerrors "github.com/Matthew11K/tester-bot/internal/domain/errors"
	"github.com/Matthew11K/tester-bot/internal/domain/models"
	"github.com/Matthew11K/tester-bot/pkg/txs"
)

type JournalRepository struct {
	db        *database.PostgresDB
	txManager *txs.TxManager
	sq        sq.StatementBuilderType
}

func NewJournalRepository(db *database.PostgresDB, txManager *txs.TxManager) *JournalRepository {
	return &JournalRepository{
		db:        db,
		txManager: txManager,
		sq:        sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *JournalRepository) Save(ctx context.Context, entry *models.JournalEntry) error {
	start := time.Now()

	err := r.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		querier := txs.GetQuerier(ctx, r.db.Pool)

		query, args, err := r.sq.Insert("bot_events").
			Columns("update_id", "user_id", "chat_id", "intent", "mode_before", "mode_after", "outcome", "created_at").
			Values(
				entry.UpdateID,
				entry.UserID,
				entry.ChatID,
				entry.Intent,
				entry.ModeBefore.String(),
				entry.ModeAfter.String(),
				string(entry.Outcome),
				entry.CreatedAt,
			).
			ToSql()
		if err != nil {
			return &customerrors.ErrBuildSQLQuery{Operation: "вставка события журнала", Cause: err}
		}

		if _, err = querier.Exec(ctx, query, args...); err != nil {
			return &customerrors.ErrSQLExecution{Operation: "вставка события журнала", Cause: err}
		}

		query, args, err = r.sq.Insert("bot_user_stats").
			Columns("user_id", "events_total", "last_intent", "last_seen_at").
			Values(entry.UserID, 1, entry.Intent, entry.CreatedAt).
			Suffix("ON CONFLICT (user_id) DO UPDATE SET " +
				"events_total = bot_user_stats.events_total + 1, " +
				"last_intent = EXCLUDED.last_intent, " +
				"last_seen_at = EXCLUDED.last_seen_at").
			ToSql()
		if err != nil {
			return &customerrors.ErrBuildSQLQuery{Operation: "обновление статистики пользователя", Cause: err}
		}

		if _, err = querier.Exec(ctx, query, args...); err != nil {
			return &customerrors.ErrSQLExecution{Operation: "обновление статистики пользователя", Cause: err}
		}

		return nil
	})

	recordQuery("save_event", err, start)

	return err
}

func (r *JournalRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	start := time.Now()

	query, args, err := r.sq.Delete("bot_events").
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, &customerrors.ErrBuildSQLQuery{Operation: "удаление старых событий", Cause: err}
	}

	tag, err := txs.GetQuerier(ctx, r.db.Pool).Exec(ctx, query, args...)

	recordQuery("delete_old_events", err, start)

	if err != nil {
		return 0, &customerrors.ErrSQLExecution{Operation: "удаление старых событий", Cause: err}
	}

	return tag.RowsAffected(), nil
}

func (r *JournalRepository) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	query, args, err := r.sq.Select("user_id", "events_total", "last_intent", "last_seen_at").
		From("bot_user_stats").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "получение статистики пользователя", Cause: err}
	}

	var stats models.UserStats

	err = txs.GetQuerier(ctx, r.db.Pool).QueryRow(ctx, query, args...).
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
