package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Matthew11K/tester-bot/internal/bot/domain"
	"github.com/Matthew11K/tester-bot/internal/bot/handlers"
	"github.com/Matthew11K/tester-bot/internal/bot/recovery"
	"github.com/Matthew11K/tester-bot/internal/common/metrics"
	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

var ErrShutdownTimeout = errors.New("не все обновления обработаны до истечения времени остановки")

type Dispatcher interface {
	Dispatch(ctx context.Context, event *models.Event) (*models.Reply, error)
}

type Deduplicator interface {
	MarkProcessed(ctx context.Context, updateID int64) (bool, error)
}

type Limiter interface {
	Allow(key string) bool
}

type Settings struct {
	Workers         int
	DispatchTimeout time.Duration
	GracePeriod     time.Duration
}

type Option func(*Poller)

func WithRateLimiter(limiter Limiter) Option {
	return func(p *Poller) {
		p.limiter = limiter
	}
}

func WithDeduplicator(dedup Deduplicator) Option {
	return func(p *Poller) {
		p.dedup = dedup
	}
}

// Poller получает обновления long polling'ом и обрабатывает каждое в отдельной горутине.
// Порядок обработки событий одного пользователя не гарантируется.
type Poller struct {
	client     domain.TelegramClientAPI
	dispatcher Dispatcher
	policy     recovery.Policy
	limiter    Limiter
	dedup      Deduplicator
	settings   Settings
	logger     *slog.Logger
}

func NewPoller(
	client domain.TelegramClientAPI,
	dispatcher Dispatcher,
	policy recovery.Policy,
	settings Settings,
	logger *slog.Logger,
	opts ...Option,
) *Poller {
	if settings.Workers <= 0 {
		settings.Workers = 1
	}

	p := &Poller{
		client:     client,
		dispatcher: dispatcher,
		policy:     policy,
		settings:   settings,
		logger:     logger,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run блокируется до отмены ctx. После отмены новые обновления не запрашиваются,
// а уже запущенные обработчики получают GracePeriod на завершение.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("Запуск Telegram поллера", "workers", p.settings.Workers)

	var group errgroup.Group

	group.SetLimit(p.settings.Workers)

	offset := 0
	attempt := 0

	for ctx.Err() == nil {
		batch, err := p.client.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}

			attempt++

			if !p.backoff(ctx, err, attempt) {
				break
			}

			continue
		}

		attempt = 0
		offset = batch.NextOffset

		for i := range batch.Events {
			if ctx.Err() != nil {
				p.logger.Info("Остановка: необработанные обновления пакета отброшены",
					"skipped", len(batch.Events)-i,
				)

				break
			}

			event := batch.Events[i]

			if !p.admit(ctx, &event) {
				continue
			}

			group.Go(func() error {
				p.handle(ctx, &event)
				return nil
			})
		}
	}

	return p.drain(&group)
}

func (p *Poller) backoff(ctx context.Context, err error, attempt int) bool {
	metrics.RecordTransportError("get_updates")

	decision := p.policy.Next(err, attempt)
	if decision.Stop {
		return false
	}

	p.logger.Error(recovery.Describe(err),
		"attempt", attempt,
		"retry_in", decision.Delay.String(),
	)

	if waitErr := recovery.Wait(ctx, decision.Delay); waitErr != nil {
		return false
	}

	metrics.RecordReconnect()

	return true
}

func (p *Poller) admit(ctx context.Context, event *models.Event) bool {
	kind := event.Kind.String()

	if p.dedup != nil {
		first, err := p.dedup.MarkProcessed(ctx, event.UpdateID)

		switch {
		case err != nil:
			p.logger.Warn("Дедупликатор недоступен, обновление обрабатывается", "update_id", event.UpdateID, "error", err)
		case !first:
			metrics.RecordUpdate(kind, "duplicate")
			p.logger.Info("Повторное обновление пропущено", "update_id", event.UpdateID)

			return false
		}
	}

	if p.limiter != nil && !p.limiter.Allow(strconv.FormatInt(event.UserID, 10)) {
		metrics.RecordUpdate(kind, "rate_limited")
		return false
	}

	return true
}

func (p *Poller) handle(parent context.Context, event *models.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), p.settings.DispatchTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			metrics.RecordUpdate(event.Kind.String(), "panic")
			p.logger.Error("Паника при обработке обновления", "update_id", event.UpdateID, "panic", r)

			p.send(ctx, processingErrorReply(event))
		}
	}()

	if event.Kind == models.EventCallback && event.CallbackID != "" {
		if err := p.client.AnswerCallback(ctx, event.CallbackID); err != nil {
			metrics.RecordTransportError("answer_callback")
			p.logger.Warn("Ошибка при ответе на callback", "update_id", event.UpdateID, "error", err)
		}
	}

	reply, err := p.dispatcher.Dispatch(ctx, event)
	if err != nil {
		metrics.RecordUpdate(event.Kind.String(), "error")
		p.logger.Error("Ошибка при обработке обновления",
			"update_id", event.UpdateID,
			"user_id", event.UserID,
			"error", err,
		)

		reply = processingErrorReply(event)
	} else {
		metrics.RecordUpdate(event.Kind.String(), "processed")
	}

	if reply == nil {
		return
	}

	p.send(ctx, reply)
}

func (p *Poller) send(ctx context.Context, reply *models.Reply) {
	if err := p.client.SendReply(ctx, reply); err != nil {
		metrics.RecordTransportError("send_message")
		p.logger.Error("Ошибка при отправке ответа",
			"chat_id", reply.ChatID,
			"error", err,
		)
	}
}

func processingErrorReply(event *models.Event) *models.Reply {
	return &models.Reply{ChatID: event.ChatID, Body: handlers.ProcessingError(), Format: models.FormatPlain}
}

func (p *Poller) drain(group *errgroup.Group) error {
	done := make(chan struct{})

	go func() {
		_ = group.Wait()

		close(done)
	}()

	timer := time.NewTimer(p.settings.GracePeriod)
	defer timer.Stop()

	select {
	case <-done:
		p.logger.Info("Telegram поллер остановлен")
		return nil
	case <-timer.C:
		p.logger.Warn("Остановка поллера без ожидания незавершённых обработчиков",
			"grace_period", p.settings.GracePeriod.String(),
		)

		return ErrShutdownTimeout
	}
}
