package handlers

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// CountChars считает видимые пользователю символы (графемные кластеры).
func CountChars(text string) (Result, error) {
	if strings.HasPrefix(text, "/") {
		return noOp(), nil
	}

	return Result{Text: fmt.Sprintf("Количество символов: %d", CharCount(text))}, nil
}

// LegacyCharCount отвечает в формате первой версии бота и считает любой текст.
func LegacyCharCount(text string) (Result, error) {
	return Result{Text: fmt.Sprintf("Длина сообщения: %d знаков", CharCount(text))}, nil
}

func CharCount(text string) int {
	return uniseg.GraphemeClusterCount(text)
}
