package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Matthew11K/tester-bot/internal/bot/classifier"
	"github.com/Matthew11K/tester-bot/internal/bot/handlers"
	"github.com/Matthew11K/tester-bot/internal/common/metrics"
	customerrors "github.com/Matthew11K/tester-bot/internal/domain/errors"
	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

const (
	tracerName = "github.com/Matthew11K/tester-bot/internal/bot/service"

	defaultJournalTimeout = 5 * time.Second
)

type SessionStore interface {
	GetMode(ctx context.Context, userID int64) (models.Mode, error)

	SetMode(ctx context.Context, userID int64, mode models.Mode) error

	Clear(ctx context.Context, userID int64) error
}

type Journal interface {
	Record(ctx context.Context, entry *models.JournalEntry) error
}

// Dispatcher связывает классификатор, хранилище режимов и обработчики режимов.
// Все изменения режима пользователя проходят через него.
type Dispatcher struct {
	sessions            SessionStore
	modes               map[models.Mode]ModeCapability
	entries             map[models.CallbackAction]models.Mode
	unsupportedKeyboard models.KeyboardSpec
	journal             Journal
	journalTimeout      time.Duration
	pending             sync.WaitGroup
	logger              *slog.Logger
	tracer              trace.Tracer
}

type DispatcherOption func(*Dispatcher)

// WithJournalTimeout ограничивает время одной записи в журнал.
func WithJournalTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.journalTimeout = timeout
		}
	}
}

type outcome struct {
	reply *models.Reply
	next  models.Mode
	kind  models.Outcome
}

func NewDispatcher(
	sessions SessionStore,
	caps Capabilities,
	journal Journal,
	logger *slog.Logger,
	opts ...DispatcherOption,
) *Dispatcher {
	entries := make(map[models.CallbackAction]models.Mode, len(caps.Modes))

	for mode, capability := range caps.Modes {
		if capability.EntryAction != "" {
			entries[capability.EntryAction] = mode
		}
	}

	d := &Dispatcher{
		sessions:            sessions,
		modes:               caps.Modes,
		entries:             entries,
		unsupportedKeyboard: caps.UnsupportedKeyboard,
		journal:             journal,
		journalTimeout:      defaultJournalTimeout,
		logger:              logger,
		tracer:              otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Dispatch обрабатывает одно событие и возвращает ответ. nil означает, что отвечать не нужно.
// Ошибка возвращается только при сбое хранилища режимов. Запись в журнал идёт в фоне
// и ответ не задерживает.
func (d *Dispatcher) Dispatch(ctx context.Context, event *models.Event) (*models.Reply, error) {
	start := time.Now()
	intent := classifier.Classify(event)

	ctx, span := d.tracer.Start(ctx, "bot.dispatch", trace.WithAttributes(
		attribute.Int64("user.id", event.UserID),
		attribute.Int64("update.id", event.UpdateID),
		attribute.String("intent", intent.Label()),
	))
	defer span.End()

	current, err := d.sessions.GetMode(ctx, event.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session lookup failed")

		return nil, errors.Wrap(err, "получение режима пользователя")
	}

	result, err := d.route(ctx, event, intent, current)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session update failed")

		return nil, err
	}

	keyboard := models.KeyboardNone
	if result.reply != nil {
		result.reply.ChatID = event.ChatID
		keyboard = result.reply.Keyboard
	}

	span.SetAttributes(
		attribute.String("mode.before", current.String()),
		attribute.String("mode.after", result.next.String()),
		attribute.String("outcome", string(result.kind)),
	)

	metrics.RecordDispatch(intent.Label(), string(result.kind), keyboard.String(), time.Since(start))
	metrics.RecordModeTransition(current.String(), result.next.String())

	d.logger.Debug("Событие обработано",
		"user_id", event.UserID,
		"intent", intent.Label(),
		"mode_before", current.String(),
		"mode_after", result.next.String(),
		"outcome", string(result.kind),
	)

	d.record(ctx, event, intent, current, result)

	return result.reply, nil
}

func (d *Dispatcher) route(ctx context.Context, event *models.Event, intent models.Intent, current models.Mode) (outcome, error) {
	switch intent.Kind {
	case models.IntentCommand:
		return d.resetToMainMenu(ctx, event.UserID)
	case models.IntentCallback:
		return d.routeCallback(ctx, event, intent, current)
	case models.IntentText:
		return d.routeText(event, intent.Text, current), nil
	default:
		d.logger.Info("Получено сообщение неподдерживаемого типа",
			"user_id", event.UserID,
			"error", &customerrors.ErrUnsupportedContent{ContentType: intent.ContentType},
		)

		return outcome{
			reply: &models.Reply{Body: handlers.UnsupportedContent(), Format: models.FormatPlain, Keyboard: d.unsupportedKeyboard},
			next:  current,
			kind:  models.OutcomeReplied,
		}, nil
	}
}

func (d *Dispatcher) routeCallback(
	ctx context.Context,
	event *models.Event,
	intent models.Intent,
	current models.Mode,
) (outcome, error) {
	//nolint:exhaustive // режимы обрабатываются по таблице ниже
	switch intent.Action {
	case models.CallbackMainMenu:
		return d.resetToMainMenu(ctx, event.UserID)
	case models.CallbackHelp:
		return outcome{reply: helpReply(), next: current, kind: models.OutcomeReplied}, nil
	}

	mode, ok := d.entries[intent.Action]
	if !ok {
		d.logger.Warn("Callback проигнорирован",
			"user_id", event.UserID,
			"error", &customerrors.ErrUnrecognizedCallback{Data: intent.RawData},
		)

		return outcome{next: current, kind: models.OutcomeIgnored}, nil
	}

	if err := d.sessions.SetMode(ctx, event.UserID, mode); err != nil {
		return outcome{}, errors.Wrap(err, "установка режима пользователя")
	}

	return outcome{
		reply: &models.Reply{Body: d.modes[mode].Prompt, Format: models.FormatHTML, Keyboard: models.KeyboardBackToMenu},
		next:  mode,
		kind:  models.OutcomeReplied,
	}, nil
}

func (d *Dispatcher) routeText(event *models.Event, text string, current models.Mode) outcome {
	capability, ok := d.modes[current]
	if !ok || capability.Handler == nil {
		return outcome{reply: mainMenuReply(handlers.IdleGuidance()), next: current, kind: models.OutcomeReplied}
	}

	result, err := capability.Handler(text)
	if err != nil {
		kind, reply := errorReply(err)
		metrics.RecordHandlerError(kind)

		d.logger.Info("Некорректный ввод пользователя",
			"user_id", event.UserID,
			"mode", current.String(),
			"error", err,
		)

		return outcome{reply: reply, next: current, kind: models.OutcomeInputError}
	}

	if result.NoOp {
		return outcome{next: current, kind: models.OutcomeNoOp}
	}

	return outcome{
		reply: &models.Reply{Body: result.Text, Format: models.FormatPlain, Keyboard: capability.Keyboard},
		next:  current,
		kind:  models.OutcomeReplied,
	}
}

func (d *Dispatcher) resetToMainMenu(ctx context.Context, userID int64) (outcome, error) {
	if err := d.sessions.Clear(ctx, userID); err != nil {
		return outcome{}, errors.Wrap(err, "сброс режима пользователя")
	}

	return outcome{reply: mainMenuReply(handlers.MainMenu()), next: models.ModeIdle, kind: models.OutcomeReplied}, nil
}

func (d *Dispatcher) record(ctx context.Context, event *models.Event, intent models.Intent, before models.Mode, result outcome) {
	if d.journal == nil {
		return
	}

	entry := &models.JournalEntry{
		UpdateID:   event.UpdateID,
		UserID:     event.UserID,
		ChatID:     event.ChatID,
		Intent:     intent.Label(),
		ModeBefore: before,
		ModeAfter:  result.next,
		Outcome:    result.kind,
		CreatedAt:  time.Now().UTC(),
	}

	d.pending.Add(1)

	go func() {
		defer d.pending.Done()

		recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.journalTimeout)
		defer cancel()

		if err := d.journal.Record(recordCtx, entry); err != nil {
			d.logger.Warn("Не удалось записать событие в журнал",
				"update_id", entry.UpdateID,
				"error", err,
			)
		}
	}()
}

// Flush ждёт завершения фоновых записей в журнал. Вызывается перед закрытием журнала.
func (d *Dispatcher) Flush(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		d.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "ожидание записи журнала")
	}
}
