package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Matthew11K/tester-bot/internal/bot/domain"
	"github.com/Matthew11K/tester-bot/internal/bot/keyboard"
	customerrors "github.com/Matthew11K/tester-bot/internal/domain/errors"
	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

const (
	DefaultAPIEndpoint = tgbotapi.APIEndpoint

	opGetMe          = "get_me"
	opGetUpdates     = "get_updates"
	opSendMessage    = "send_message"
	opAnswerCallback = "answer_callback"
	opSetMyCommands  = "set_my_commands"
	opDeleteWebhook  = "delete_webhook"
)

// TelegramClient переводит Bot API в события и ответы бота. Все ошибки API
// возвращаются как *ErrTransport; токен в сообщения об ошибках не попадает.
type TelegramClient struct {
	bot         *tgbotapi.BotAPI
	rest        *resty.Client
	token       string
	endpoint    string
	pollTimeout time.Duration
	logger      *slog.Logger
}

// NewTelegramClient проверяет токен запросом getMe. endpoint задаётся в формате
// tgbotapi: "https://api.telegram.org/bot%s/%s".
func NewTelegramClient(
	token string,
	endpoint string,
	rest *resty.Client,
	pollTimeout time.Duration,
	logger *slog.Logger,
) (*TelegramClient, error) {
	if endpoint == "" {
		endpoint = DefaultAPIEndpoint
	}

	if err := tgbotapi.SetLogger(&botLogger{logger: logger}); err != nil {
		return nil, errors.Wrap(err, "установка логгера Telegram клиента")
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, rest.GetClient())
	if err != nil {
		return nil, transportError(opGetMe, err)
	}

	logger.Info("Telegram клиент авторизован", "username", bot.Self.UserName)

	return &TelegramClient{
		bot:         bot,
		rest:        rest,
		token:       token,
		endpoint:    endpoint,
		pollTimeout: pollTimeout,
		logger:      logger,
	}, nil
}

// GetUpdates выполняет один long polling запрос. tgbotapi не принимает контекст,
// поэтому при отмене ctx запрос дорабатывает в фоне, а метод возвращается сразу.
func (c *TelegramClient) GetUpdates(ctx context.Context, offset int) (*domain.UpdateBatch, error) {
	updateConfig := tgbotapi.NewUpdate(offset)
	updateConfig.Timeout = int(c.pollTimeout.Seconds())
	updateConfig.AllowedUpdates = []string{"message", "callback_query"}

	type result struct {
		updates []tgbotapi.Update
		err     error
	}

	done := make(chan result, 1)

	go func() {
		updates, err := c.bot.GetUpdates(updateConfig)
		done <- result{updates: updates, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, transportError(opGetUpdates, res.err)
		}

		return toBatch(res.updates, offset), nil
	}
}

func (c *TelegramClient) SendReply(_ context.Context, reply *models.Reply) error {
	msg := tgbotapi.NewMessage(reply.ChatID, reply.Body)

	if reply.Format == models.FormatHTML {
		msg.ParseMode = tgbotapi.ModeHTML
	}

	if markup, ok := keyboard.Render(reply.Keyboard); ok {
		msg.ReplyMarkup = markup
	}

	if _, err := c.bot.Send(msg); err != nil {
		return transportError(opSendMessage, err)
	}

	return nil
}

func (c *TelegramClient) AnswerCallback(_ context.Context, callbackID string) error {
	if _, err := c.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return transportError(opAnswerCallback, err)
	}

	return nil
}

func (c *TelegramClient) SetMyCommands(_ context.Context, commands []domain.BotCommand) error {
	botAPICommands := make([]tgbotapi.BotCommand, 0, len(commands))
	for _, cmd := range commands {
		botAPICommands = append(botAPICommands, tgbotapi.BotCommand{
			Command:     cmd.Command,
			Description: cmd.Description,
		})
	}

	if _, err := c.bot.Request(tgbotapi.NewSetMyCommands(botAPICommands...)); err != nil {
		return transportError(opSetMyCommands, err)
	}

	return nil
}

// DeleteWebhook снимает webhook, иначе getUpdates возвращает 409 Conflict.
// Запрос идёт через resty, чтобы использовать его ретраи.
func (c *TelegramClient) DeleteWebhook(ctx context.Context) error {
	var apiResp tgbotapi.APIResponse

	resp, err := c.rest.R().
		SetContext(ctx).
		SetFormData(map[string]string{"drop_pending_updates": "false"}).
		SetResult(&apiResp).
		SetError(&apiResp).
		Post(fmt.Sprintf(c.endpoint, c.token, "deleteWebhook"))
	if err != nil {
		return transportError(opDeleteWebhook, err)
	}

	if !apiResp.Ok {
		return &customerrors.ErrTransport{
			Op:    opDeleteWebhook,
			Code:  apiResp.ErrorCode,
			Cause: errors.Errorf("HTTP %d: %s", resp.StatusCode(), apiResp.Description),
		}
	}

	return nil
}

// transportError убирает URL запроса из ошибки: в пути содержится токен бота.
func transportError(op string, err error) error {
	transportErr := &customerrors.ErrTransport{Op: op, Cause: err}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		transportErr.Cause = errors.Wrap(urlErr.Err, urlErr.Op)
	}

	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		transportErr.Code = apiErr.Code
		transportErr.RetryAfter = time.Duration(apiErr.RetryAfter) * time.Second
	}

	return transportErr
}

func toBatch(updates []tgbotapi.Update, offset int) *domain.UpdateBatch {
	batch := &domain.UpdateBatch{
		Events:     make([]models.Event, 0, len(updates)),
		NextOffset: offset,
	}

	for i := range updates {
		if next := updates[i].UpdateID + 1; next > batch.NextOffset {
			batch.NextOffset = next
		}

		if event, ok := toEvent(&updates[i]); ok {
			batch.Events = append(batch.Events, event)
		}
	}

	return batch
}

func toEvent(update *tgbotapi.Update) (models.Event, bool) {
	switch {
	case update.Message != nil:
		msg := update.Message

		event := models.Event{UpdateID: int64(update.UpdateID)}

		if msg.Chat != nil {
			event.ChatID = msg.Chat.ID
			event.UserID = msg.Chat.ID
		}

		if msg.From != nil {
			event.UserID = msg.From.ID
		}

		if msg.Text != "" {
			event.Kind = models.EventText
			event.Text = msg.Text
		} else {
			event.Kind = models.EventOther
			event.ContentType = contentType(msg)
		}

		return event, true
	case update.CallbackQuery != nil:
		query := update.CallbackQuery

		event := models.Event{
			UpdateID:   int64(update.UpdateID),
			Kind:       models.EventCallback,
			CallbackID: query.ID,
			Data:       query.Data,
		}

		if query.From != nil {
			event.UserID = query.From.ID
			event.ChatID = query.From.ID
		}

		if query.Message != nil && query.Message.Chat != nil {
			event.ChatID = query.Message.Chat.ID
		}

		return event, true
	default:
		return models.Event{}, false
	}
}

//nolint:gocyclo // плоский перебор полей сообщения
func contentType(msg *tgbotapi.Message) string {
	switch {
	case len(msg.Photo) > 0:
		return "photo"
	case msg.Sticker != nil:
		return "sticker"
	case msg.Animation != nil:
		return "animation"
	case msg.Document != nil:
		return "document"
	case msg.Voice != nil:
		return "voice"
	case msg.VideoNote != nil:
		return "video_note"
	case msg.Video != nil:
		return "video"
	case msg.Audio != nil:
		return "audio"
	case msg.Venue != nil:
		return "venue"
	case msg.Location != nil:
		return "location"
	case msg.Contact != nil:
		return "contact"
	case msg.Poll != nil:
		return "poll"
	case msg.Dice != nil:
		return "dice"
	default:
		return "other"
	}
}

type botLogger struct {
	logger *slog.Logger
}

func (l *botLogger) Println(v ...interface{}) {
	l.logger.Debug(fmt.Sprint(v...), "component", "tgbotapi")
}

func (l *botLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "tgbotapi")
}
