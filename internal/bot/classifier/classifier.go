package classifier

import (
	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

// Classify превращает входящее событие в намерение. Функция не имеет побочных эффектов.
func Classify(event *models.Event) models.Intent {
	switch event.Kind {
	case models.EventText:
		if command, ok := models.ParseCommand(event.Text); ok {
			return models.Intent{Kind: models.IntentCommand, Command: command, Text: event.Text}
		}

		return models.Intent{Kind: models.IntentText, Text: event.Text}
	case models.EventCallback:
		action, _ := models.ParseCallbackAction(event.Data)

		return models.Intent{Kind: models.IntentCallback, Action: action, RawData: event.Data}
	default:
		return models.Intent{Kind: models.IntentUnsupported, ContentType: event.ContentType}
	}
}
