package journal

import (
	"io"
	"log/slog"
	"strings"

	"go.uber.org/multierr"

	"github.com/Matthew11K/tester-bot/internal/config"
	customerrors "github.com/Matthew11K/tester-bot/internal/domain/errors"
)

// Factory собирает журнал по настройкам JOURNAL_TRANSPORT и JOURNAL_FALLBACK_TRANSPORT.
// repo может быть nil, если postgres-журнал не настроен.
type Factory struct {
	config  *config.Config
	repo    Repository
	logger  *slog.Logger
	closers []io.Closer
}

func NewFactory(cfg *config.Config, repo Repository, logger *slog.Logger) *Factory {
	return &Factory{
		config: cfg,
		repo:   repo,
		logger: logger,
	}
}

func (f *Factory) Create() (Journal, error) {
	primary, err := f.create(f.config.JournalTransport)
	if err != nil {
		return nil, err
	}

	if f.config.JournalFallbackTransport == "" || f.config.JournalFallbackTransport == config.JournalNone {
		return primary, nil
	}

	secondary, err := f.create(f.config.JournalFallbackTransport)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Журнал с резервным транспортом",
		"primary", f.config.JournalTransport,
		"fallback", f.config.JournalFallbackTransport,
	)

	return NewFallbackJournal(primary, secondary, f.logger), nil
}

func (f *Factory) create(transport config.JournalTransport) (Journal, error) {
	f.logger.Info("Создание журнала событий", "transport", transport)

	switch transport {
	case config.JournalNone, "":
		return NopJournal{}, nil
	case config.JournalPostgres:
		if f.repo == nil {
			return nil, &customerrors.ErrConfig{Key: "DATABASE_URL", Reason: "обязателен для журнала POSTGRES"}
		}

		return NewRepositoryJournal(f.repo, f.logger), nil
	case config.JournalKafka:
		kafkaJournal := NewKafkaJournal(strings.Split(f.config.KafkaBrokers, ","), f.config.TopicBotEvents, f.logger)
		f.closers = append(f.closers, kafkaJournal)

		return kafkaJournal, nil
	default:
		return nil, &customerrors.ErrUnknownJournalTransport{Transport: string(transport)}
	}
}

// Close закрывает созданные фабрикой продюсеры.
func (f *Factory) Close() error {
	var err error

	for _, closer := range f.closers {
		err = multierr.Append(err, closer.Close())
	}

	f.closers = nil

	return err
}
