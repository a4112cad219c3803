package txs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerrors "github.com/Matthew11K/tester-bot/internal/domain/errors"
	"github.com/Matthew11K/tester-bot/pkg/txs"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx    *fakeTx
	err   error
	calls int
}

func (f *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	f.calls++

	if f.err != nil {
		return nil, f.err
	}

	return f.tx, nil
}

func newManager(beginner txs.Beginner) *txs.TxManager {
	return txs.NewTxManager(beginner, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestWithTransaction_Commit(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	manager := newManager(beginner)

	var querier txs.Querier

	err := manager.WithTransaction(context.Background(), func(ctx context.Context) error {
		querier = txs.GetQuerier(ctx, nil)
		return nil
	})

	require.NoError(t, err)
	assert.Same(t, beginner.tx, querier)
	assert.True(t, beginner.tx.committed)
	assert.False(t, beginner.tx.rolledBack)
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	manager := newManager(beginner)
	cause := errors.New("insert failed")

	err := manager.WithTransaction(context.Background(), func(context.Context) error {
		return cause
	})

	require.ErrorIs(t, err, cause)
	assert.True(t, beginner.tx.rolledBack)
	assert.False(t, beginner.tx.committed)
}

func TestWithTransaction_BeginError(t *testing.T) {
	manager := newManager(&fakeBeginner{err: errors.New("no connection")})

	err := manager.WithTransaction(context.Background(), func(context.Context) error {
		t.Fatal("функция не должна вызываться без транзакции")
		return nil
	})

	var beginErr *customerrors.ErrBeginTransaction
	require.ErrorAs(t, err, &beginErr)
}

func TestWithTransaction_Nested(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	manager := newManager(beginner)

	err := manager.WithTransaction(context.Background(), func(ctx context.Context) error {
		return manager.WithTransaction(ctx, func(context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, beginner.calls)
}
