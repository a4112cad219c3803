package journal_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Matthew11K/tester-bot/internal/bot/journal"
	"github.com/Matthew11K/tester-bot/internal/bot/journal/mocks"
	"github.com/Matthew11K/tester-bot/internal/config"
	customerrors "github.com/Matthew11K/tester-bot/internal/domain/errors"
	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEntry() *models.JournalEntry {
	return &models.JournalEntry{
		UpdateID:   100,
		UserID:     7,
		ChatID:     42,
		Intent:     "callback:sum_numbers",
		ModeBefore: models.ModeIdle,
		ModeAfter:  models.ModeSummingNumbers,
		Outcome:    models.OutcomeReplied,
		CreatedAt:  time.Date(2024, 5, 1, 12, 30, 0, 123000000, time.UTC),
	}
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}

	w.messages = append(w.messages, msgs...)

	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestNopJournal(t *testing.T) {
	assert.NoError(t, journal.NopJournal{}.Record(context.Background(), sampleEntry()))
}

func TestRepositoryJournal_Record(t *testing.T) {
	// Arrange
	repo := &mocks.Repository{}
	entry := sampleEntry()
	repo.On("Save", mock.Anything, entry).Return(nil).Once()

	j := journal.NewRepositoryJournal(repo, discardLogger())

	// Act
	err := j.Record(context.Background(), entry)

	// Assert
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRepositoryJournal_PropagatesError(t *testing.T) {
	// Arrange
	repo := &mocks.Repository{}
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	j := journal.NewRepositoryJournal(repo, discardLogger())

	// Act
	err := j.Record(context.Background(), sampleEntry())

	// Assert
	assert.Error(t, err)
}

func TestKafkaJournal_Record(t *testing.T) {
	// Arrange
	writer := &fakeWriter{}
	j := journal.NewKafkaJournalWithWriter(writer, "bot-events", discardLogger())
	entry := sampleEntry()

	// Act
	err := j.Record(context.Background(), entry)

	// Assert
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "7", string(writer.messages[0].Key), "ключом должен быть id пользователя")

	decoded, err := journal.Decode(writer.messages[0].Value)
	require.NoError(t, err)
	assert.Equal(t, entry, decoded)
}

func TestKafkaJournal_WriteError(t *testing.T) {
	// Arrange
	writer := &fakeWriter{err: kafka.LeaderNotAvailable}
	j := journal.NewKafkaJournalWithWriter(writer, "bot-events", discardLogger())

	// Act
	err := j.Record(context.Background(), sampleEntry())

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, kafka.LeaderNotAvailable)
	assert.Contains(t, err.Error(), "bot-events")
}

func TestKafkaJournal_Close(t *testing.T) {
	// Arrange
	writer := &fakeWriter{}
	j := journal.NewKafkaJournalWithWriter(writer, "bot-events", discardLogger())

	// Act
	err := j.Close()

	// Assert
	require.NoError(t, err)
	assert.True(t, writer.closed)
}

func TestFallbackJournal_PrimarySuccess(t *testing.T) {
	// Arrange
	primary := &mocks.Journal{}
	secondary := &mocks.Journal{}
	entry := sampleEntry()
	primary.On("Record", mock.Anything, entry).Return(nil)

	j := journal.NewFallbackJournal(primary, secondary, discardLogger())

	// Act
	err := j.Record(context.Background(), entry)

	// Assert
	require.NoError(t, err)
	primary.AssertExpectations(t)
	secondary.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestFallbackJournal_PrimaryFailsSecondarySuccess(t *testing.T) {
	// Arrange
	primary := &mocks.Journal{}
	secondary := &mocks.Journal{}
	entry := sampleEntry()
	primary.On("Record", mock.Anything, entry).Return(errors.New("kafka недоступна"))
	secondary.On("Record", mock.Anything, entry).Return(nil)

	j := journal.NewFallbackJournal(primary, secondary, discardLogger())

	// Act
	err := j.Record(context.Background(), entry)

	// Assert
	require.NoError(t, err)
	primary.AssertExpectations(t)
	secondary.AssertExpectations(t)
}

func TestFallbackJournal_BothFail(t *testing.T) {
	// Arrange
	primary := &mocks.Journal{}
	secondary := &mocks.Journal{}
	primaryErr := errors.New("kafka недоступна")
	primary.On("Record", mock.Anything, mock.Anything).Return(primaryErr)
	secondary.On("Record", mock.Anything, mock.Anything).Return(errors.New("postgres недоступен"))

	j := journal.NewFallbackJournal(primary, secondary, discardLogger())

	// Act
	err := j.Record(context.Background(), sampleEntry())

	// Assert
	assert.ErrorIs(t, err, primaryErr, "возвращается ошибка основного журнала")
}

func TestFactory_Create(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		repo     journal.Repository
		wantType any
	}{
		{
			name:     "без журнала",
			cfg:      config.Config{JournalTransport: config.JournalNone},
			wantType: journal.NopJournal{},
		},
		{
			name:     "postgres",
			cfg:      config.Config{JournalTransport: config.JournalPostgres},
			repo:     &mocks.Repository{},
			wantType: &journal.RepositoryJournal{},
		},
		{
			name:     "kafka",
			cfg:      config.Config{JournalTransport: config.JournalKafka, KafkaBrokers: "localhost:9092", TopicBotEvents: "bot-events"},
			wantType: &journal.KafkaJournal{},
		},
		{
			name: "kafka с резервным postgres",
			cfg: config.Config{
				JournalTransport:         config.JournalKafka,
				JournalFallbackTransport: config.JournalPostgres,
				KafkaBrokers:             "localhost:9092",
				TopicBotEvents:           "bot-events",
			},
			repo:     &mocks.Repository{},
			wantType: &journal.FallbackJournal{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			cfg := tt.cfg
			factory := journal.NewFactory(&cfg, tt.repo, discardLogger())

			// Act
			j, err := factory.Create()

			// Assert
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, j)
			assert.NoError(t, factory.Close())
		})
	}
}

func TestFactory_PostgresWithoutRepository(t *testing.T) {
	// Arrange
	factory := journal.NewFactory(&config.Config{JournalTransport: config.JournalPostgres}, nil, discardLogger())

	// Act
	_, err := factory.Create()

	// Assert
	var cfgErr *customerrors.ErrConfig
	assert.ErrorAs(t, err, &cfgErr)
}

func TestFactory_UnknownTransport(t *testing.T) {
	// Arrange
	factory := journal.NewFactory(&config.Config{JournalTransport: "HTTP"}, nil, discardLogger())

	// Act
	_, err := factory.Create()

	// Assert
	var transportErr *customerrors.ErrUnknownJournalTransport
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "HTTP", transportErr.Transport)
}
