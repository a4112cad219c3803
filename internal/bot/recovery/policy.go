package recovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	customerrors "github.com/Matthew11K/tester-bot/internal/domain/errors"
)

const DefaultReconnectDelay = 10 * time.Second

type Decision struct {
	Delay time.Duration
	// Stop означает, что цикл получения обновлений должен завершиться.
	Stop bool
}

type Policy interface {
	Next(err error, attempt int) Decision
}

// FixedDelay ждёт одинаковое время перед каждым переподключением. Если Telegram
// прислал retry_after, ждём не меньше указанного.
type FixedDelay struct {
	delay time.Duration
}

func NewFixedDelay(delay time.Duration) *FixedDelay {
	if delay <= 0 {
		delay = DefaultReconnectDelay
	}

	return &FixedDelay{delay: delay}
}

func (p *FixedDelay) Next(err error, _ int) Decision {
	if errors.Is(err, context.Canceled) {
		return Decision{Stop: true}
	}

	delay := p.delay

	var transportErr *customerrors.ErrTransport
	if errors.As(err, &transportErr) && transportErr.RetryAfter > delay {
		delay = transportErr.RetryAfter
	}

	return Decision{Delay: delay}
}

// Describe форматирует ошибку для журнала так же, как это делала первая версия бота.
func Describe(err error) string {
	var transportErr *customerrors.ErrTransport
	if errors.As(err, &transportErr) && transportErr.Code != 0 {
		return fmt.Sprintf("Telegram API Error:\n[%d]\n%v", transportErr.Code, transportErr.Cause)
	}

	return err.Error()
}

// Wait блокирует только вызывающую горутину и возвращается раньше при отмене ctx.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
