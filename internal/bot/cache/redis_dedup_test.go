package cache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matthew11K/tester-bot/internal/bot/cache"
)

func newDeduplicator(t *testing.T, opts ...cache.DedupOption) (*cache.RedisDeduplicator, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dedup, err := cache.NewRedisDeduplicator(mr.Addr(), "", 0, logger, opts...)
	require.NoError(t, err)

	t.Cleanup(func() { _ = dedup.Close() })

	return dedup, mr
}

func TestMarkProcessed_FirstAndRepeat(t *testing.T) {
	// Arrange
	dedup, _ := newDeduplicator(t)
	ctx := context.Background()

	// Act
	first, err := dedup.MarkProcessed(ctx, 100)
	require.NoError(t, err)

	repeat, err := dedup.MarkProcessed(ctx, 100)
	require.NoError(t, err)

	other, err := dedup.MarkProcessed(ctx, 101)
	require.NoError(t, err)

	// Assert
	assert.True(t, first)
	assert.False(t, repeat, "повторный id должен отбрасываться")
	assert.True(t, other)
}

func TestMarkProcessed_KeyAndTTL(t *testing.T) {
	// Arrange
	dedup, mr := newDeduplicator(t, cache.WithTTL(time.Minute), cache.WithPrefix("test:"))

	// Act
	_, err := dedup.MarkProcessed(context.Background(), 7)
	require.NoError(t, err)

	// Assert
	assert.True(t, mr.Exists("test:7"))
	assert.Equal(t, time.Minute, mr.TTL("test:7"))
}

func TestMarkProcessed_ExpiresAfterTTL(t *testing.T) {
	// Arrange
	dedup, mr := newDeduplicator(t, cache.WithTTL(time.Second))
	ctx := context.Background()

	_, err := dedup.MarkProcessed(ctx, 1)
	require.NoError(t, err)

	// Act
	mr.FastForward(2 * time.Second)

	again, err := dedup.MarkProcessed(ctx, 1)

	// Assert
	require.NoError(t, err)
	assert.True(t, again)
}

func TestMarkProcessed_RedisUnavailable(t *testing.T) {
	// Arrange
	dedup, mr := newDeduplicator(t)
	mr.Close()

	// Act
	_, err := dedup.MarkProcessed(context.Background(), 1)

	// Assert
	assert.Error(t, err)
}

func TestNewRedisDeduplicator_ConnectionError(t *testing.T) {
	// Arrange
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Act
	_, err := cache.NewRedisDeduplicator("127.0.0.1:1", "", 0, logger)

	// Assert
	assert.Error(t, err)
}
