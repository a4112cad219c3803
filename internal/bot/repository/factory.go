package repository

import (
	"log/slog"

	"github.com/Matthew11K/tester-bot/internal/bot/journal"
	"github.com/Matthew11K/tester-bot/internal/bot/repository/orm"
	sqlrepo "github.com/Matthew11K/tester-bot/internal/bot/repository/sql"
	"github.com/Matthew11K/tester-bot/internal/config"
	"github.com/Matthew11K/tester-bot/internal/database"
	"github.com/Matthew11K/tester-bot/internal/domain/errors"
	"github.com/Matthew11K/tester-bot/pkg/txs"
)

type Factory struct {
	db        *database.PostgresDB
	txManager *txs.TxManager
	config    *config.Config
	logger    *slog.Logger
}

func NewFactory(db *database.PostgresDB, config *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		db:        db,
		txManager: txs.NewTxManager(db.Pool, logger),
		config:    config,
		logger:    logger,
	}
}

func (f *Factory) CreateJournalRepository() (journal.Repository, error) {
	switch f.config.DatabaseAccessType {
	case config.SquirrelAccess:
		f.logger.Info("Создание ORM (Squirrel) репозитория журнала")
		return orm.NewJournalRepository(f.db, f.txManager), nil
	case config.SQLAccess:
		f.logger.Info("Создание SQL репозитория журнала")
		return sqlrepo.NewJournalRepository(f.db, f.txManager), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}
