package database

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-migrate/migrate/v4"

	// драйвер postgres и источник file регистрируются для migrate.New.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations применяет все up-миграции из каталога migrationsPath.
func RunMigrations(dsn, migrationsPath string, logger *slog.Logger) error {
	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return errors.Wrap(err, "путь к миграциям")
	}

	m, err := migrate.New("file://"+absPath, dsn)
	if err != nil {
		return errors.Wrap(err, "инициализация миграций")
	}

	defer func() {
		sourceErr, dbErr := m.Close()
		if sourceErr != nil || dbErr != nil {
			logger.Warn("Ошибка при закрытии миграций", "source_error", sourceErr, "db_error", dbErr)
		}
	}()

	fromVer, _, _ := m.Version()
	start := time.Now()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Миграции не требуются", "version", fromVer)
			return nil
		}

		return errors.Wrap(err, "применение миграций")
	}

	toVer, _, _ := m.Version()

	logger.Info("Миграции успешно применены",
		"from_version", fromVer,
		"to_version", toVer,
		"duration", time.Since(start).String(),
	)

	return nil
}
