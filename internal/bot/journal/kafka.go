package journal

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/segmentio/kafka-go"

	"github.com/Matthew11K/tester-bot/internal/common/metrics"
	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaJournal публикует записи в топик событий бота. Ключом сообщения служит id пользователя,
// поэтому события одного пользователя попадают в одну партицию.
type KafkaJournal struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

func NewKafkaJournal(brokers []string, topic string, logger *slog.Logger) *KafkaJournal {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Logger:                 kafka.LoggerFunc(logger.Debug),
		ErrorLogger:            kafka.LoggerFunc(logger.Error),
	}

	return newKafkaJournal(writer, topic, logger)
}

func newKafkaJournal(writer messageWriter, topic string, logger *slog.Logger) *KafkaJournal {
	return &KafkaJournal{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

func (j *KafkaJournal) Record(ctx context.Context, entry *models.JournalEntry) error {
	err := j.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(entry.UserID, 10)),
		Value: Encode(entry),
		Time:  entry.CreatedAt,
	})

	metrics.RecordJournalWrite(sinkKafka, statusOf(err))

	if err != nil {
		return errors.Wrapf(err, "отправка записи журнала в топик %s", j.topic)
	}

	return nil
}

func (j *KafkaJournal) Close() error {
	return j.writer.Close()
}
