package keyboard

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

const (
	countCharsLabel = "🔤 Подсчитать символы"
	sumNumbersLabel = "➕ Сложить числа"
	helpLabel       = "❓ Помощь"
	backLabel       = "⬅️ Главное меню"
)

// Render превращает именованную раскладку в inline-клавиатуру Telegram.
// Для KeyboardNone возвращает false.
func Render(spec models.KeyboardSpec) (tgbotapi.InlineKeyboardMarkup, bool) {
	switch spec {
	case models.KeyboardMainMenu:
		return tgbotapi.NewInlineKeyboardMarkup(
			row(countCharsLabel, models.CallbackCountChars),
			row(sumNumbersLabel, models.CallbackSumNumbers),
			row(helpLabel, models.CallbackHelp),
		), true
	case models.KeyboardBackToMenu:
		return tgbotapi.NewInlineKeyboardMarkup(
			row(backLabel, models.CallbackMainMenu),
		), true
	default:
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
}

func row(label string, action models.CallbackAction) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, string(action)))
}
