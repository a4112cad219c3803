package domain

import (
	"context"

	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

type BotCommand struct {
	Command     string
	Description string
}

// UpdateBatch содержит результат одного long polling запроса. NextOffset учитывает и те
// обновления, которые не превратились в события.
type UpdateBatch struct {
	Events     []models.Event
	NextOffset int
}

type TelegramClientAPI interface {
	GetUpdates(ctx context.Context, offset int) (*UpdateBatch, error)

	SendReply(ctx context.Context, reply *models.Reply) error

	AnswerCallback(ctx context.Context, callbackID string) error

	SetMyCommands(ctx context.Context, commands []BotCommand) error

	DeleteWebhook(ctx context.Context) error
}
