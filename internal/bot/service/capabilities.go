package service

import (
	"github.com/Matthew11K/tester-bot/internal/bot/handlers"
	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

// ModeCapability описывает, как режим обрабатывает текст и как в него попасть.
type ModeCapability struct {
	Handler handlers.ModeHandler
	// EntryAction задаёт callback, который включает режим. Пустое значение: режим не выбирается из меню.
	EntryAction models.CallbackAction
	Prompt      string
	Keyboard    models.KeyboardSpec
}

// Capabilities задаёт таблицу режимов, по которой работает Dispatcher.
type Capabilities struct {
	Modes               map[models.Mode]ModeCapability
	UnsupportedKeyboard models.KeyboardSpec
}

func DefaultCapabilities(unsupportedKeyboard bool) Capabilities {
	caps := Capabilities{
		Modes: map[models.Mode]ModeCapability{
			models.ModeCountingChars: {
				Handler:     handlers.CountChars,
				EntryAction: models.CallbackCountChars,
				Prompt:      handlers.CountCharsPrompt(),
				Keyboard:    models.KeyboardBackToMenu,
			},
			models.ModeSummingNumbers: {
				Handler:     handlers.SumNumbers,
				EntryAction: models.CallbackSumNumbers,
				Prompt:      handlers.SumNumbersPrompt(),
				Keyboard:    models.KeyboardBackToMenu,
			},
		},
		UnsupportedKeyboard: models.KeyboardNone,
	}

	if unsupportedKeyboard {
		caps.UnsupportedKeyboard = models.KeyboardMainMenu
	}

	return caps
}

// LegacyCapabilities повторяет поведение первой версии бота: в режиме ожидания
// на любой текст отвечаем его длиной, на прочие сообщения отвечаем без клавиатуры.
func LegacyCapabilities() Capabilities {
	caps := DefaultCapabilities(false)
	caps.Modes[models.ModeIdle] = ModeCapability{
		Handler:  handlers.LegacyCharCount,
		Keyboard: models.KeyboardNone,
	}

	return caps
}
