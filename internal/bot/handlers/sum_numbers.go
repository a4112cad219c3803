package handlers

import (
	"errors"
	"math"
	"strconv"
	"strings"

	customerrors "github.com/Matthew11K/tester-bot/internal/domain/errors"
)

// SumNumbers складывает числа, разделённые пробелами, слева направо.
func SumNumbers(text string) (Result, error) {
	if strings.HasPrefix(text, "/") {
		return noOp(), nil
	}

	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return Result{}, &customerrors.ErrInputValidation{Kind: customerrors.KindInvalidNumberFormat, Token: text}
	}

	operands := make([]string, 0, len(tokens))
	sum := 0.0

	for _, token := range tokens {
		value, err := parseNumber(token)
		if err != nil {
			return Result{}, err
		}

		sum += value
		if math.IsInf(sum, 0) {
			return Result{}, &customerrors.ErrInputValidation{Kind: customerrors.KindNumberOverflow, Token: token}
		}

		operands = append(operands, FormatNumber(value))
	}

	return Result{Text: strings.Join(operands, " + ") + " = " + FormatNumber(sum)}, nil
}

func parseNumber(token string) (float64, error) {
	value, err := strconv.ParseFloat(strings.Replace(token, ",", ".", 1), 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && math.IsInf(value, 0) {
			return 0, &customerrors.ErrInputValidation{Kind: customerrors.KindNumberOverflow, Token: token}
		}

		if !errors.Is(err, strconv.ErrRange) {
			return 0, &customerrors.ErrInputValidation{Kind: customerrors.KindInvalidNumberFormat, Token: token}
		}
	}

	// ParseFloat принимает "NaN" и "Inf", но это не числа для пользователя.
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &customerrors.ErrInputValidation{Kind: customerrors.KindInvalidNumberFormat, Token: token}
	}

	return value, nil
}

// FormatNumber печатает число в кратчайшей точной десятичной записи.
func FormatNumber(value float64) string {
	if math.Abs(value) >= 1e21 {
		return strconv.FormatFloat(value, 'g', -1, 64)
	}

	return strconv.FormatFloat(value, 'f', -1, 64)
}
