package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "tester_bot"

	BotSubsystem       = "bot"
	TransportSubsystem = "transport"
	JournalSubsystem   = "journal"
)

// Общие метрики HTTP-сервера метрик.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "endpoint"},
	)
)

// Бот метрики.
var (
	UpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "updates_total",
			Help:      "Total number of inbound updates by event kind and processing status",
		},
		[]string{"event_kind", "status"},
	)

	IntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "intents_total",
			Help:      "Total number of classified intents",
		},
		[]string{"intent"},
	)

	ModeTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "mode_transitions_total",
			Help:      "Total number of session mode transitions",
		},
		[]string{"from", "to"},
	)

	HandlerErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "handler_errors_total",
			Help:      "Total number of mode handler errors by kind",
		},
		[]string{"kind"},
	)

	RepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "replies_total",
			Help:      "Total number of dispatch outcomes",
		},
		[]string{"outcome", "keyboard"},
	)

	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent dispatching one update",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"intent"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "active_sessions",
			Help:      "Number of users in a non-idle mode",
		},
	)
)

// Метрики транспорта.
var (
	TransportErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: TransportSubsystem,
			Name:      "errors_total",
			Help:      "Total number of Telegram API failures by operation",
		},
		[]string{"operation"},
	)

	ReconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: TransportSubsystem,
			Name:      "reconnects_total",
			Help:      "Total number of reconnect attempts after a receive failure",
		},
	)
)

// Метрики журнала.
var (
	JournalWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: JournalSubsystem,
			Name:      "writes_total",
			Help:      "Total number of journal writes by sink and status",
		},
		[]string{"sink", "status"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: JournalSubsystem,
			Name:      "database_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: JournalSubsystem,
			Name:      "database_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func RecordHTTPRequest(service, method, endpoint string, statusCode int, duration time.Duration) {
	status := "success"
	if statusCode >= 400 {
		status = "error"
	}

	HTTPRequestsTotal.WithLabelValues(service, method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(service, method, endpoint).Observe(duration.Seconds())
}

func RecordUpdate(eventKind, status string) {
	UpdatesTotal.WithLabelValues(eventKind, status).Inc()
}

func RecordDispatch(intent, outcome, keyboard string, duration time.Duration) {
	IntentsTotal.WithLabelValues(intent).Inc()
	RepliesTotal.WithLabelValues(outcome, keyboard).Inc()
	DispatchDuration.WithLabelValues(intent).Observe(duration.Seconds())
}

func RecordModeTransition(from, to string) {
	if from == to {
		return
	}

	ModeTransitionsTotal.WithLabelValues(from, to).Inc()
}

func RecordHandlerError(kind string) {
	HandlerErrorsTotal.WithLabelValues(kind).Inc()
}

func RecordTransportError(operation string) {
	TransportErrorsTotal.WithLabelValues(operation).Inc()
}

func RecordReconnect() {
	ReconnectsTotal.Inc()
}

func UpdateActiveSessions(count int) {
	ActiveSessions.Set(float64(count))
}

func RecordJournalWrite(sink, status string) {
	JournalWritesTotal.WithLabelValues(sink, status).Inc()
}

func RecordDatabaseQuery(operation, status string, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(operation, status).Inc()
	DatabaseQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
