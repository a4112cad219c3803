package txs

import (
	"context"
	"log/slog"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	customerrors "github.com/Matthew11K/tester-bot/internal/domain/errors"
)

type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type TxManager struct {
	db     Beginner
	logger *slog.Logger
}

func NewTxManager(db Beginner, logger *slog.Logger) *TxManager {
	return &TxManager{
		db:     db,
		logger: logger,
	}
}

func injectTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// WithTransaction выполняет txFunc в транзакции. Если контекст уже несёт транзакцию,
// txFunc выполняется в ней, а фиксацией управляет внешний вызов.
func (t *TxManager) WithTransaction(ctx context.Context, txFunc func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return txFunc(ctx)
	}

	tx, err := t.db.Begin(ctx)
	if err != nil {
		t.logger.Error("Ошибка при начале транзакции", "error", err)
		return &customerrors.ErrBeginTransaction{Cause: err}
	}

	txCtx := injectTx(ctx, tx)

	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Паника в транзакции, выполняем rollback", "panic", r)

			_ = tx.Rollback(ctx)

			panic(r)
		}
	}()

	if err := txFunc(txCtx); err != nil {
		t.logger.Error("Ошибка в транзакции, выполняем rollback", "error", err)

		if rbErr := tx.Rollback(ctx); rbErr != nil {
			t.logger.Error("Ошибка при rollback транзакции", "error", rbErr)
			return errors.Wrapf(err, "ошибка rollback: %v", rbErr)
		}

		return errors.Wrap(err, "ошибка в транзакции")
	}

	if err := tx.Commit(ctx); err != nil {
		t.logger.Error("Ошибка при commit транзакции", "error", err)
		return &customerrors.ErrCommitTransaction{Cause: err}
	}

	return nil
}
