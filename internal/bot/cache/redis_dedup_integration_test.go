package cache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Matthew11K/tester-bot/internal/bot/cache"
)

func TestRedisDeduplicator_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}

	ctx := context.Background()

	redisC, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)

	defer func() {
		if err := redisC.Terminate(context.Background()); err != nil {
			t.Logf("Ошибка при остановке Redis контейнера: %v", err)
		}
	}()

	host, err := redisC.Host(ctx)
	require.NoError(t, err)

	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dedup, err := cache.NewRedisDeduplicator(host+":"+port.Port(), "", 0, logger)
	require.NoError(t, err)

	defer dedup.Close()

	first, err := dedup.MarkProcessed(ctx, 42)
	require.NoError(t, err)
	assert.True(t, first)

	repeat, err := dedup.MarkProcessed(ctx, 42)
	require.NoError(t, err)
	assert.False(t, repeat)
}
