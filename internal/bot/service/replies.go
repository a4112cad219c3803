package service

import (
	"errors"
	"fmt"
	"html"

	"github.com/Matthew11K/tester-bot/internal/bot/handlers"
	customerrors "github.com/Matthew11K/tester-bot/internal/domain/errors"
	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

const (
	calculationFailedKind = "calculation_failed"
	calculationFailedText = "Не удалось выполнить вычисление. Попробуйте ещё раз."
)

var inputErrorReplies = map[customerrors.ValidationKind]func(token string) string{
	customerrors.KindInvalidNumberFormat: func(token string) string {
		return fmt.Sprintf("Не удалось распознать число <code>%s</code>.\n"+
			"Отправьте числа через пробел, например: <code>2 3 15</code>", html.EscapeString(token))
	},
	customerrors.KindNumberOverflow: func(string) string {
		return "Слишком большие числа: результат не помещается в допустимый диапазон. Попробуйте числа поменьше."
	},
}

// errorReply выбирает текст ответа по виду ошибки обработчика.
func errorReply(err error) (kind string, reply *models.Reply) {
	kind = calculationFailedKind
	body := calculationFailedText

	var validationErr *customerrors.ErrInputValidation
	if errors.As(err, &validationErr) {
		if render, ok := inputErrorReplies[validationErr.Kind]; ok {
			kind = string(validationErr.Kind)
			body = render(validationErr.Token)
		}
	}

	return kind, &models.Reply{Body: body, Format: models.FormatHTML, Keyboard: models.KeyboardBackToMenu}
}

func mainMenuReply(body string) *models.Reply {
	return &models.Reply{Body: body, Format: models.FormatHTML, Keyboard: models.KeyboardMainMenu}
}

func helpReply() *models.Reply {
	return &models.Reply{Body: handlers.Help(), Format: models.FormatHTML, Keyboard: models.KeyboardBackToMenu}
}
