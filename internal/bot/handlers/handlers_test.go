package handlers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matthew11K/tester-bot/internal/bot/handlers"
	customerrors "github.com/Matthew11K/tester-bot/internal/domain/errors"
)

func TestCountChars(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "латиница", text: "hello", expected: "Количество символов: 5"},
		{name: "кириллица", text: "привет", expected: "Количество символов: 6"},
		{name: "пробелы считаются", text: "a b", expected: "Количество символов: 3"},
		{name: "эмодзи с модификатором как один символ", text: "👍🏽", expected: "Количество символов: 1"},
		{name: "флаг как один символ", text: "🇷🇺!", expected: "Количество символов: 2"},
		{name: "слэш не в начале", text: "a/b", expected: "Количество символов: 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handlers.CountChars(tt.text)

			require.NoError(t, err)
			assert.False(t, result.NoOp)
			assert.Equal(t, tt.expected, result.Text)
		})
	}
}

func TestCountChars_CommandIsNoOp(t *testing.T) {
	result, err := handlers.CountChars("/foo")

	require.NoError(t, err)
	assert.True(t, result.NoOp)
	assert.Empty(t, result.Text)
}

func TestLegacyCharCount(t *testing.T) {
	result, err := handlers.LegacyCharCount("hello")

	require.NoError(t, err)
	assert.Equal(t, "Длина сообщения: 5 знаков", result.Text)
}

func TestSumNumbers(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "целые", text: "2 3 15", expected: "2 + 3 + 15 = 20"},
		{name: "лишние пробелы", text: "  2\t3 \n 15  ", expected: "2 + 3 + 15 = 20"},
		{name: "одно число", text: "7", expected: "7 = 7"},
		{name: "дробные", text: "1.5 2.25", expected: "1.5 + 2.25 = 3.75"},
		{name: "запятая как разделитель", text: "1,5 1", expected: "1.5 + 1 = 2.5"},
		{name: "отрицательные", text: "10 -3", expected: "10 + -3 = 7"},
		{name: "экспонента", text: "1e3 1", expected: "1000 + 1 = 1001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handlers.SumNumbers(tt.text)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Text)
		})
	}
}

func TestSumNumbers_Errors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		kind  customerrors.ValidationKind
		token string
	}{
		{name: "буква", text: "2 a 15", kind: customerrors.KindInvalidNumberFormat, token: "a"},
		{name: "пустой ввод", text: "   ", kind: customerrors.KindInvalidNumberFormat, token: "   "},
		{name: "NaN", text: "1 NaN", kind: customerrors.KindInvalidNumberFormat, token: "NaN"},
		{name: "бесконечность", text: "inf", kind: customerrors.KindInvalidNumberFormat, token: "inf"},
		{name: "слишком большое число", text: "1 1e400", kind: customerrors.KindNumberOverflow, token: "1e400"},
		{name: "переполнение суммы", text: "1e308 1e308", kind: customerrors.KindNumberOverflow, token: "1e308"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handlers.SumNumbers(tt.text)

			var validationErr *customerrors.ErrInputValidation
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.kind, validationErr.Kind)
			assert.Equal(t, tt.token, validationErr.Token)
			assert.ErrorIs(t, err, &customerrors.ErrInputValidation{Kind: tt.kind})
		})
	}
}

func TestSumNumbers_CommandIsNoOp(t *testing.T) {
	result, err := handlers.SumNumbers("/start 1 2")

	require.NoError(t, err)
	assert.True(t, result.NoOp)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "20", handlers.FormatNumber(20))
	assert.Equal(t, "0.30000000000000004", handlers.FormatNumber(0.1+0.2))
	assert.Equal(t, "1e+21", handlers.FormatNumber(1e21))
}

func TestStaticTexts(t *testing.T) {
	assert.Contains(t, handlers.Help(), "/start")
	assert.Contains(t, handlers.Help(), "/menu")
	assert.Contains(t, handlers.IdleGuidance(), handlers.MainMenu())
	assert.NotEmpty(t, handlers.CountCharsPrompt())
	assert.NotEmpty(t, handlers.SumNumbersPrompt())
	assert.Equal(t, "Данный тип сообщений не поддерживается. Пожалуйста отправьте текст.", handlers.UnsupportedContent())
}
