package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/Matthew11K/tester-bot/internal/bot/cache"
	"github.com/Matthew11K/tester-bot/internal/bot/clients"
	"github.com/Matthew11K/tester-bot/internal/bot/domain"
	"github.com/Matthew11K/tester-bot/internal/bot/journal"
	"github.com/Matthew11K/tester-bot/internal/bot/recovery"
	"github.com/Matthew11K/tester-bot/internal/bot/repository"
	"github.com/Matthew11K/tester-bot/internal/bot/repository/memory"
	"github.com/Matthew11K/tester-bot/internal/bot/service"
	"github.com/Matthew11K/tester-bot/internal/bot/telegram"
	"github.com/Matthew11K/tester-bot/internal/common/httputil"
	"github.com/Matthew11K/tester-bot/internal/common/metrics"
	"github.com/Matthew11K/tester-bot/internal/common/middleware"
	"github.com/Matthew11K/tester-bot/internal/config"
	"github.com/Matthew11K/tester-bot/internal/database"
	"github.com/Matthew11K/tester-bot/internal/scheduler"
	"github.com/Matthew11K/tester-bot/pkg"
)

// pollSlack: запас HTTP таймаута поверх long polling таймаута getUpdates.
const pollSlack = 10 * time.Second

type app struct {
	poller        *telegram.Poller
	dispatcher    *service.Dispatcher
	flushTimeout  time.Duration
	metricsServer *metrics.MetricsServer
	scheduler     *scheduler.Scheduler
	logger        *slog.Logger

	closers []func() error
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка запуска сервиса: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()
	appLogger := pkg.NewLogger(os.Stdout, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		appLogger.Error("Некорректная конфигурация", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, appLogger)
	if err != nil {
		return err
	}

	appLogger.Info("Сервис запущен",
		"profile", cfg.BotProfile,
		"journal", cfg.JournalTransport,
	)

	runErr := a.run(ctx)
	closeErr := a.close()

	appLogger.Info("Сервис остановлен")

	return multierr.Combine(runErr, closeErr)
}

//nolint:funlen // последовательная сборка всех компонентов бота
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (a *app, err error) {
	a = &app{logger: logger, flushTimeout: cfg.ShutdownGracePeriod}

	defer func() {
		if err != nil {
			err = multierr.Append(err, a.close())
		}
	}()

	settings := httputil.SettingsFromConfig(cfg)
	if minTimeout := cfg.TelegramPollTimeout + pollSlack; settings.Timeout < minTimeout {
		settings.Timeout = minTimeout
	}

	rest := httputil.NewResilientClient(settings, logger, "telegram_api")

	telegramClient, err := clients.NewTelegramClient(
		cfg.TelegramBotToken,
		cfg.TelegramAPIEndpoint,
		rest,
		cfg.TelegramPollTimeout,
		logger.With("component", "telegram"),
	)
	if err != nil {
		logger.Error("Ошибка при создании Telegram клиента", "error", err)
		return a, errors.Wrap(err, "создание Telegram клиента")
	}

	setupTelegram(ctx, telegramClient, logger)

	journalRepo, err := a.setupJournalRepository(ctx, cfg, logger)
	if err != nil {
		return a, err
	}

	journalFactory := journal.NewFactory(cfg, journalRepo, logger)
	a.closers = append(a.closers, journalFactory.Close)

	eventJournal, err := journalFactory.Create()
	if err != nil {
		logger.Error("Ошибка при создании журнала событий", "error", err)
		return a, errors.Wrap(err, "создание журнала событий")
	}

	caps := service.DefaultCapabilities(cfg.UnsupportedContentKeyboard)
	if cfg.BotProfile == config.ProfileLegacy {
		caps = service.LegacyCapabilities()
	}

	sessions := memory.NewSessionRepository()
	a.dispatcher = service.NewDispatcher(sessions, caps, eventJournal, logger, service.WithJournalTimeout(cfg.DispatchTimeout))

	pollerOpts := []telegram.Option{
		telegram.WithRateLimiter(middleware.NewRateLimiter(ctx, cfg.RateLimitRequests, cfg.RateLimitWindow, logger)),
	}

	if cfg.RedisURL != "" {
		dedup, dedupErr := cache.NewRedisDeduplicator(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB, logger, cache.WithTTL(cfg.DedupTTL))
		if dedupErr != nil {
			logger.Warn("Redis недоступен, дедупликация обновлений отключена", "error", dedupErr)
		} else {
			a.closers = append(a.closers, dedup.Close)
			pollerOpts = append(pollerOpts, telegram.WithDeduplicator(dedup))
		}
	}

	a.poller = telegram.NewPoller(
		telegramClient,
		a.dispatcher,
		recovery.NewFixedDelay(cfg.ReconnectDelay),
		telegram.Settings{
			Workers:         cfg.DispatchWorkers,
			DispatchTimeout: cfg.DispatchTimeout,
			GracePeriod:     cfg.ShutdownGracePeriod,
		},
		logger,
		pollerOpts...,
	)

	jobs := []scheduler.Job{scheduler.SessionStatsJob(sessions, cfg.SessionStatsInterval)}
	if journalRepo != nil {
		jobs = append(jobs, scheduler.JournalRetentionJob(journalRepo, cfg.JournalRetention, cfg.JournalCleanupInterval, logger))
	}

	a.scheduler = scheduler.NewScheduler(logger, jobs...)

	httpLimiter := middleware.NewRateLimiter(ctx, cfg.RateLimitRequests, cfg.RateLimitWindow, logger)
	a.metricsServer = metrics.NewMetricsServer(
		cfg.BotMetricsPort,
		logger,
		middleware.NewHTTPMetrics("bot_metrics", metrics.MetricsPath, metrics.HealthPath).Middleware,
		httpLimiter.Middleware,
	)

	return a, nil
}

func (a *app) setupJournalRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (journal.Repository, error) {
	if !cfg.UsesPostgresJournal() {
		return nil, nil
	}

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Ошибка при применении миграций", "error", err)
		return nil, err
	}

	db, err := database.NewPostgresDB(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка при подключении к базе данных", "error", err)
		return nil, errors.Wrap(err, "подключение к базе данных")
	}

	a.closers = append(a.closers, func() error {
		db.Close()
		return nil
	})

	repo, err := repository.NewFactory(db, cfg, logger).CreateJournalRepository()
	if err != nil {
		logger.Error("Ошибка при создании репозитория журнала", "error", err)
		return nil, err
	}

	return repo, nil
}

func setupTelegram(ctx context.Context, client domain.TelegramClientAPI, logger *slog.Logger) {
	if err := client.DeleteWebhook(ctx); err != nil {
		logger.Warn("Не удалось снять webhook", "error", err)
	}

	botCommands := []domain.BotCommand{
		{Command: "start", Description: "Открыть главное меню"},
		{Command: "menu", Description: "Вернуться в главное меню"},
	}

	if err := client.SetMyCommands(ctx, botCommands); err != nil {
		logger.Error("Ошибка при регистрации команд бота", "error", err)
		return
	}

	logger.Info("Команды бота успешно зарегистрированы")
}

func (a *app) run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return a.metricsServer.Start(groupCtx)
	})

	group.Go(func() error {
		err := a.poller.Run(groupCtx)
		if errors.Is(err, telegram.ErrShutdownTimeout) {
			return nil
		}

		return err
	})

	return group.Wait()
}

// close освобождает ресурсы в обратном порядке создания.
func (a *app) close() error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	var err error

	// Журнал закрывается только после фоновых записей диспетчера.
	if a.dispatcher != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), a.flushTimeout)
		err = multierr.Append(err, a.dispatcher.Flush(flushCtx))
		cancel()
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}

	a.closers = nil

	return err
}
