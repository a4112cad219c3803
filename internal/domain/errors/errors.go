package errors

import (
	"fmt"
	"time"
)

type ValidationKind string

const (
	KindInvalidNumberFormat ValidationKind = "invalid_number_format"
	KindNumberOverflow      ValidationKind = "number_overflow"
)

// ErrInputValidation возвращается обработчиками режимов при некорректном вводе.
type ErrInputValidation struct {
	Kind  ValidationKind
	Token string
}

func (e *ErrInputValidation) Error() string {
	switch e.Kind {
	case KindInvalidNumberFormat:
		return fmt.Sprintf("некорректный формат числа: %q", e.Token)
	case KindNumberOverflow:
		return fmt.Sprintf("число вне допустимого диапазона: %q", e.Token)
	default:
		return fmt.Sprintf("некорректный ввод: %q", e.Token)
	}
}

func (e *ErrInputValidation) Is(target error) bool {
	t, ok := target.(*ErrInputValidation)
	if !ok {
		return false
	}

	return t.Kind == "" || t.Kind == e.Kind
}

type ErrUnsupportedContent struct {
	ContentType string
}

func (e *ErrUnsupportedContent) Error() string {
	return "неподдерживаемый тип сообщения: " + e.ContentType
}

type ErrUnrecognizedCallback struct {
	Data string
}

func (e *ErrUnrecognizedCallback) Error() string {
	return fmt.Sprintf("неизвестные данные callback: %q", e.Data)
}

// ErrTransport оборачивает сбой при обращении к Telegram API. Code и RetryAfter
// заполняются, если API вернул ошибку с кодом.
type ErrTransport struct {
	Op         string
	Code       int
	RetryAfter time.Duration
	Cause      error
}

func (e *ErrTransport) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("ошибка транспорта при %s: [%d] %v", e.Op, e.Code, e.Cause)
	}

	return fmt.Sprintf("ошибка транспорта при %s: %v", e.Op, e.Cause)
}

func (e *ErrTransport) Unwrap() error {
	return e.Cause
}

func (e *ErrTransport) Is(target error) bool {
	_, ok := target.(*ErrTransport)
	return ok
}

type ErrConfig struct {
	Key    string
	Reason string
}

func (e *ErrConfig) Error() string {
	return fmt.Sprintf("некорректная конфигурация %s: %s", e.Key, e.Reason)
}

type ErrUnknownDBAccessType struct {
	AccessType string
}

func (e *ErrUnknownDBAccessType) Error() string {
	return fmt.Sprintf("неизвестный тип доступа к базе данных: %s", e.AccessType)
}

type ErrUnknownJournalTransport struct {
	Transport string
}

func (e *ErrUnknownJournalTransport) Error() string {
	return fmt.Sprintf("неизвестный транспорт журнала: %s", e.Transport)
}

type ErrBeginTransaction struct {
	Cause error
}

func (e *ErrBeginTransaction) Error() string {
	return fmt.Sprintf("ошибка при начале транзакции: %v", e.Cause)
}

func (e *ErrBeginTransaction) Unwrap() error {
	return e.Cause
}

type ErrBuildSQLQuery struct {
	Operation string
	Cause     error
}

func (e *ErrBuildSQLQuery) Error() string {
	return fmt.Sprintf("ошибка при построении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrBuildSQLQuery) Unwrap() error {
	return e.Cause
}

type ErrSQLExecution struct {
	Operation string
	Cause     error
}

func (e *ErrSQLExecution) Error() string {
	return fmt.Sprintf("ошибка при выполнении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrSQLExecution) Unwrap() error {
	return e.Cause
}

type ErrCommitTransaction struct {
	Cause error
}

func (e *ErrCommitTransaction) Error() string {
	return fmt.Sprintf("ошибка при фиксации транзакции: %v", e.Cause)
}

func (e *ErrCommitTransaction) Unwrap() error {
	return e.Cause
}

type ErrHTTPStatus struct {
	StatusCode int
}

func (e *ErrHTTPStatus) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}

type ErrUserStatsNotFound struct {
	UserID int64
}

func (e *ErrUserStatsNotFound) Error() string {
	return fmt.Sprintf("статистика пользователя %d не найдена", e.UserID)
}
