package httputil

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/Matthew11K/tester-bot/internal/config"
	customerrors "github.com/Matthew11K/tester-bot/internal/domain/errors"
)

// ClientSettings описывает таймауты, ретраи и параметры circuit breaker.
type ClientSettings struct {
	Timeout              time.Duration
	RetryCount           int
	RetryBackoff         time.Duration
	RetryableStatusCodes []int

	CBSlidingWindowSize        int
	CBMinimumRequiredCalls     int
	CBFailureRateThreshold     int
	CBPermittedCallsInHalfOpen int
	CBWaitDurationInOpenState  time.Duration
}

func SettingsFromConfig(cfg *config.Config) ClientSettings {
	return ClientSettings{
		Timeout:                    cfg.ExternalRequestTimeout,
		RetryCount:                 cfg.RetryCount,
		RetryBackoff:               cfg.RetryBackoff,
		RetryableStatusCodes:       cfg.RetryableStatusCodes,
		CBSlidingWindowSize:        cfg.CBSlidingWindowSize,
		CBMinimumRequiredCalls:     cfg.CBMinimumRequiredCalls,
		CBFailureRateThreshold:     cfg.CBFailureRateThreshold,
		CBPermittedCallsInHalfOpen: cfg.CBPermittedCallsInHalfOpen,
		CBWaitDurationInOpenState:  cfg.CBWaitDurationInOpenState,
	}
}

// NewResilientClient создаёт resty-клиент с ретраями и circuit breaker на уровне транспорта.
// Транспорт общий: GetClient() можно отдать библиотекам, которые ждут *http.Client.
func NewResilientClient(settings ClientSettings, logger *slog.Logger, serviceName string) *resty.Client {
	client := resty.New()

	client.SetTimeout(settings.Timeout)

	client.SetRetryCount(settings.RetryCount)
	client.SetRetryWaitTime(settings.RetryBackoff)
	client.SetRetryMaxWaitTime(settings.RetryBackoff * 5)

	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return !errors.Is(err, gobreaker.ErrOpenState)
		}

		for _, status := range settings.RetryableStatusCodes {
			if r.StatusCode() == status {
				return true
			}
		}

		return false
	})

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        serviceName + "_circuit_breaker",
		MaxRequests: uint32(settings.CBPermittedCallsInHalfOpen), //nolint:gosec // G115: Значение из конфига
		Interval:    time.Duration(settings.CBSlidingWindowSize) * time.Second,
		Timeout:     settings.CBWaitDurationInOpenState,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= uint32(settings.CBMinimumRequiredCalls) && //nolint:gosec // G115: Значение из конфига
				failureRatio >= float64(settings.CBFailureRateThreshold)/100.0
		},
		IsSuccessful: func(err error) bool {
			var canceled *canceledError
			return err == nil || errors.As(err, &canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("Circuit breaker сменил состояние",
					"name", name,
					"from", from.String(),
					"to", to.String(),
				)
			}
		},
	})

	client.SetTransport(&CircuitBreakerTransport{
		breaker:     breaker,
		next:        http.DefaultTransport,
		logger:      logger,
		serviceName: serviceName,
	})

	if logger != nil {
		client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			if resp.Request.Attempt > 1 {
				logger.Info("Повторная попытка HTTP запроса",
					"service", serviceName,
					"host", resp.RawResponse.Request.URL.Host,
					"attempt", resp.Request.Attempt,
					"status", resp.StatusCode(),
				)
			}

			return nil
		})
	}

	return client
}

// CircuitBreakerTransport считает ответы 5xx и сетевые ошибки отказами.
type CircuitBreakerTransport struct {
	breaker     *gobreaker.CircuitBreaker
	next        http.RoundTripper
	logger      *slog.Logger
	serviceName string
}

func (t *CircuitBreakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	result, err := t.breaker.Execute(func() (interface{}, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			// Отмена запроса вызывающей стороной не говорит о недоступности сервиса.
			if req.Context().Err() != nil {
				return nil, &canceledError{cause: err}
			}

			return nil, err
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, &customerrors.ErrHTTPStatus{StatusCode: resp.StatusCode}
		}

		return resp, nil
	})

	if err != nil {
		var canceled *canceledError
		if errors.As(err, &canceled) {
			return nil, canceled.cause
		}

		if errors.Is(err, gobreaker.ErrOpenState) && t.logger != nil {
			t.logger.Warn("Circuit breaker открыт",
				"service", t.serviceName,
				"host", req.URL.Host,
			)
		}

		return nil, err
	}

	return result.(*http.Response), nil
}

type canceledError struct {
	cause error
}

func (e *canceledError) Error() string {
	return e.cause.Error()
}
