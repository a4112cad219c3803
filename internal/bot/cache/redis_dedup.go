package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-redis/redis/v8"
)

const (
	DefaultDedupTTL    = 24 * time.Hour
	DefaultDedupPrefix = "tester-bot:update:"
)

type DedupOption func(*RedisDeduplicator)

func WithTTL(ttl time.Duration) DedupOption {
	return func(d *RedisDeduplicator) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

func WithPrefix(prefix string) DedupOption {
	return func(d *RedisDeduplicator) {
		d.prefix = prefix
	}
}

// RedisDeduplicator помечает id обновлений как обработанные. Защищает от повторной
// доставки после перезапуска, когда offset ещё не был подтверждён Telegram.
type RedisDeduplicator struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

func NewRedisDeduplicator(
	redisURL, password string,
	db int,
	logger *slog.Logger,
	opts ...DedupOption,
) (*RedisDeduplicator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "подключение к Redis")
	}

	logger.Info("Соединение с Redis успешно установлено")

	d := &RedisDeduplicator{
		client: client,
		ttl:    DefaultDedupTTL,
		prefix: DefaultDedupPrefix,
		logger: logger,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// MarkProcessed возвращает true, если обновление встречается впервые.
func (d *RedisDeduplicator) MarkProcessed(ctx context.Context, updateID int64) (bool, error) {
	key := d.prefix + strconv.FormatInt(updateID, 10)

	first, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return false, errors.Wrapf(err, "пометка обновления %d", updateID)
	}

	if !first {
		d.logger.Debug("Обновление уже обрабатывалось", "update_id", updateID)
	}

	return first, nil
}

func (d *RedisDeduplicator) Close() error {
	return d.client.Close()
}
