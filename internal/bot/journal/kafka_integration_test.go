package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/Matthew11K/tester-bot/internal/bot/journal"
)

func TestKafkaJournal_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	kafkaContainer, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)

	defer func() {
		if err := kafkaContainer.Terminate(context.Background()); err != nil {
			t.Logf("Ошибка при остановке Kafka контейнера: %v", err)
		}
	}()

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)

	const topic = "bot-events-test"

	j := journal.NewKafkaJournal(brokers, topic, discardLogger())
	defer j.Close()

	entry := sampleEntry()

	require.Eventually(t, func() bool {
		return j.Record(ctx, entry) == nil
	}, time.Minute, time.Second, "запись должна пройти после создания топика")

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	defer reader.Close()

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()

	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err)

	decoded, err := journal.Decode(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, entry, decoded)
	assert.Equal(t, "7", string(msg.Key))
}
