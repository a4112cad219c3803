package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	customerrors "github.com/Matthew11K/tester-bot/internal/domain/errors"
)

type AccessType string

const (
	SQLAccess      AccessType = "SQL"
	SquirrelAccess AccessType = "SQUIRREL" // Вместо ORM
)

type JournalTransport string

const (
	JournalNone     JournalTransport = "NONE"
	JournalPostgres JournalTransport = "POSTGRES"
	JournalKafka    JournalTransport = "KAFKA"
)

type BotProfile string

const (
	ProfileMenu   BotProfile = "menu"
	ProfileLegacy BotProfile = "legacy"
)

type Config struct {
	TelegramBotToken    string        `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramAPIEndpoint string        `mapstructure:"TELEGRAM_API_ENDPOINT"`
	TelegramPollTimeout time.Duration `mapstructure:"TELEGRAM_POLL_TIMEOUT"`
	BotMetricsPort      int           `mapstructure:"BOT_METRICS_PORT"`

	BotProfile                 BotProfile `mapstructure:"BOT_PROFILE"`
	UnsupportedContentKeyboard bool       `mapstructure:"UNSUPPORTED_CONTENT_KEYBOARD"`

	ReconnectDelay      time.Duration `mapstructure:"RECONNECT_DELAY"`
	DispatchWorkers     int           `mapstructure:"DISPATCH_WORKERS"`
	DispatchTimeout     time.Duration `mapstructure:"DISPATCH_TIMEOUT"`
	ShutdownGracePeriod time.Duration `mapstructure:"SHUTDOWN_GRACE_PERIOD"`

	DatabaseURL        string     `mapstructure:"DATABASE_URL"`
	DatabaseAccessType AccessType `mapstructure:"DATABASE_ACCESS_TYPE"`
	DatabaseMaxConn    int        `mapstructure:"DATABASE_MAX_CONNECTIONS"`
	MigrationsPath     string     `mapstructure:"MIGRATIONS_PATH"`

	JournalTransport         JournalTransport `mapstructure:"JOURNAL_TRANSPORT"`
	JournalFallbackTransport JournalTransport `mapstructure:"JOURNAL_FALLBACK_TRANSPORT"`
	JournalRetention         time.Duration    `mapstructure:"JOURNAL_RETENTION"`
	JournalCleanupInterval   time.Duration    `mapstructure:"JOURNAL_CLEANUP_INTERVAL"`
	SessionStatsInterval     time.Duration    `mapstructure:"SESSION_STATS_INTERVAL"`

	KafkaBrokers   string `mapstructure:"KAFKA_BROKERS"`
	TopicBotEvents string `mapstructure:"TOPIC_BOT_EVENTS"`

	RedisURL      string        `mapstructure:"REDIS_URL"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	DedupTTL      time.Duration `mapstructure:"DEDUP_TTL"`

	ExternalRequestTimeout time.Duration `mapstructure:"EXTERNAL_REQUEST_TIMEOUT"`

	RateLimitRequests int           `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`

	RetryCount           int           `mapstructure:"RETRY_COUNT"`
	RetryBackoff         time.Duration `mapstructure:"RETRY_BACKOFF"`
	RetryableStatusCodes []int         `mapstructure:"RETRYABLE_STATUS_CODES"`

	CBSlidingWindowSize        int           `mapstructure:"CB_SLIDING_WINDOW_SIZE"`
	CBMinimumRequiredCalls     int           `mapstructure:"CB_MINIMUM_REQUIRED_CALLS"`
	CBFailureRateThreshold     int           `mapstructure:"CB_FAILURE_RATE_THRESHOLD"`
	CBPermittedCallsInHalfOpen int           `mapstructure:"CB_PERMITTED_CALLS_IN_HALF_OPEN"`
	CBWaitDurationInOpenState  time.Duration `mapstructure:"CB_WAIT_DURATION_IN_OPEN_STATE"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() *Config {
	setDefaults()

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	_ = viper.ReadInConfig()

	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return getDefaultConfig()
	}

	config.BotProfile = BotProfile(strings.ToLower(string(config.BotProfile)))
	config.JournalTransport = JournalTransport(strings.ToUpper(string(config.JournalTransport)))
	config.JournalFallbackTransport = JournalTransport(strings.ToUpper(string(config.JournalFallbackTransport)))
	config.DatabaseAccessType = AccessType(strings.ToUpper(string(config.DatabaseAccessType)))

	return config
}

// Validate проверяет настройки, без которых бот не может стартовать.
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" {
		return &customerrors.ErrConfig{Key: "TELEGRAM_BOT_TOKEN", Reason: "не задан токен бота"}
	}

	switch c.BotProfile {
	case ProfileMenu, ProfileLegacy:
	default:
		return &customerrors.ErrConfig{Key: "BOT_PROFILE", Reason: "неизвестный профиль " + string(c.BotProfile)}
	}

	for key, transport := range map[string]JournalTransport{
		"JOURNAL_TRANSPORT":          c.JournalTransport,
		"JOURNAL_FALLBACK_TRANSPORT": c.JournalFallbackTransport,
	} {
		switch transport {
		case "", JournalNone, JournalKafka:
		case JournalPostgres:
			if c.DatabaseURL == "" {
				return &customerrors.ErrConfig{Key: "DATABASE_URL", Reason: "журнал в postgres требует строку подключения"}
			}
		default:
			return &customerrors.ErrConfig{Key: key, Reason: "неизвестный транспорт " + string(transport)}
		}
	}

	positive := []struct {
		key string
		ok  bool
	}{
		{"DISPATCH_WORKERS", c.DispatchWorkers > 0},
		{"DISPATCH_TIMEOUT", c.DispatchTimeout > 0},
		{"SHUTDOWN_GRACE_PERIOD", c.ShutdownGracePeriod > 0},
		{"RATE_LIMIT_REQUESTS", c.RateLimitRequests > 0},
		{"RATE_LIMIT_WINDOW", c.RateLimitWindow > 0},
	}

	for _, p := range positive {
		if !p.ok {
			return &customerrors.ErrConfig{Key: p.key, Reason: "должно быть больше нуля"}
		}
	}

	return nil
}

func (c *Config) UsesPostgresJournal() bool {
	return c.JournalTransport == JournalPostgres || c.JournalFallbackTransport == JournalPostgres
}

func setDefaults() {
	viper.SetDefault("TELEGRAM_BOT_TOKEN", "")
	viper.SetDefault("TELEGRAM_API_ENDPOINT", "https://api.telegram.org/bot%s/%s")
	viper.SetDefault("TELEGRAM_POLL_TIMEOUT", "30s")
	viper.SetDefault("BOT_METRICS_PORT", 9094)

	viper.SetDefault("BOT_PROFILE", string(ProfileMenu))
	viper.SetDefault("UNSUPPORTED_CONTENT_KEYBOARD", true)

	viper.SetDefault("RECONNECT_DELAY", "10s")
	viper.SetDefault("DISPATCH_WORKERS", 16)
	viper.SetDefault("DISPATCH_TIMEOUT", "10s")
	viper.SetDefault("SHUTDOWN_GRACE_PERIOD", "5s")

	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_ACCESS_TYPE", string(SQLAccess))
	viper.SetDefault("DATABASE_MAX_CONNECTIONS", 10)
	viper.SetDefault("MIGRATIONS_PATH", "migrations")

	viper.SetDefault("JOURNAL_TRANSPORT", string(JournalNone))
	viper.SetDefault("JOURNAL_FALLBACK_TRANSPORT", "")
	viper.SetDefault("JOURNAL_RETENTION", "720h")
	viper.SetDefault("JOURNAL_CLEANUP_INTERVAL", "1h")
	viper.SetDefault("SESSION_STATS_INTERVAL", "1m")

	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("TOPIC_BOT_EVENTS", "bot-events")

	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("DEDUP_TTL", "24h")

	viper.SetDefault("EXTERNAL_REQUEST_TIMEOUT", "10s")

	viper.SetDefault("RATE_LIMIT_REQUESTS", 30)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")

	viper.SetDefault("RETRY_COUNT", 3)
	viper.SetDefault("RETRY_BACKOFF", "500ms")
	viper.SetDefault("RETRYABLE_STATUS_CODES", []int{500, 502, 503, 504})

	viper.SetDefault("CB_SLIDING_WINDOW_SIZE", 10)
	viper.SetDefault("CB_MINIMUM_REQUIRED_CALLS", 5)
	viper.SetDefault("CB_FAILURE_RATE_THRESHOLD", 50)
	viper.SetDefault("CB_PERMITTED_CALLS_IN_HALF_OPEN", 2)
	viper.SetDefault("CB_WAIT_DURATION_IN_OPEN_STATE", "30s")

	viper.SetDefault("LOG_LEVEL", "info")
}

func getDefaultConfig() *Config {
	return &Config{
		TelegramAPIEndpoint: "https://api.telegram.org/bot%s/%s",
		TelegramPollTimeout: 30 * time.Second,
		BotMetricsPort:      9094,

		BotProfile:                 ProfileMenu,
		UnsupportedContentKeyboard: true,

		ReconnectDelay:      10 * time.Second,
		DispatchWorkers:     16,
		DispatchTimeout:     10 * time.Second,
		ShutdownGracePeriod: 5 * time.Second,

		DatabaseAccessType: SQLAccess,
		DatabaseMaxConn:    10,
		MigrationsPath:     "migrations",

		JournalTransport:       JournalNone,
		JournalRetention:       720 * time.Hour,
		JournalCleanupInterval: 1 * time.Hour,
		SessionStatsInterval:   1 * time.Minute,

		KafkaBrokers:   "localhost:9092",
		TopicBotEvents: "bot-events",

		DedupTTL: 24 * time.Hour,

		ExternalRequestTimeout: 10 * time.Second,

		RateLimitRequests: 30,
		RateLimitWindow:   1 * time.Minute,

		RetryCount:           3,
		RetryBackoff:         500 * time.Millisecond,
		RetryableStatusCodes: []int{500, 502, 503, 504},

		CBSlidingWindowSize:        10,
		CBMinimumRequiredCalls:     5,
		CBFailureRateThreshold:     50,
		CBPermittedCallsInHalfOpen: 2,
		CBWaitDurationInOpenState:  30 * time.Second,

		LogLevel: "info",
	}
}
