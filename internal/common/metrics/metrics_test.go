package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matthew11K/tester-bot/internal/common/metrics"
)

func TestRecordHTTPRequest(t *testing.T) {
	// Arrange
	service := "test-service"
	method := "GET"
	endpoint := "/test"
	initial := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(service, method, endpoint, "success"))

	// Act
	metrics.RecordHTTPRequest(service, method, endpoint, http.StatusOK, 100*time.Millisecond)

	// Assert
	counterValue := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(service, method, endpoint, "success"))
	assert.Equal(t, initial+1, counterValue)
}

func TestRecordHTTPRequestError(t *testing.T) {
	// Arrange
	initial := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("test-service", "POST", "/error", "error"))

	// Act
	metrics.RecordHTTPRequest("test-service", "POST", "/error", http.StatusInternalServerError, 50*time.Millisecond)

	// Assert
	counterValue := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("test-service", "POST", "/error", "error"))
	assert.Equal(t, initial+1, counterValue)
}

func TestRecordDispatch(t *testing.T) {
	// Arrange
	intent := "callback:help_test"
	initialIntents := testutil.ToFloat64(metrics.IntentsTotal.WithLabelValues(intent))
	initialReplies := testutil.ToFloat64(metrics.RepliesTotal.WithLabelValues("replied", "back_to_menu"))

	// Act
	metrics.RecordDispatch(intent, "replied", "back_to_menu", time.Millisecond)

	// Assert
	assert.Equal(t, initialIntents+1, testutil.ToFloat64(metrics.IntentsTotal.WithLabelValues(intent)))
	assert.Equal(t, initialReplies+1, testutil.ToFloat64(metrics.RepliesTotal.WithLabelValues("replied", "back_to_menu")))
}

func TestRecordModeTransition_SkipsSameMode(t *testing.T) {
	// Arrange
	initial := testutil.ToFloat64(metrics.ModeTransitionsTotal.WithLabelValues("idle", "idle"))
	initialChange := testutil.ToFloat64(metrics.ModeTransitionsTotal.WithLabelValues("idle", "counting_chars"))

	// Act
	metrics.RecordModeTransition("idle", "idle")
	metrics.RecordModeTransition("idle", "counting_chars")

	// Assert
	assert.Equal(t, initial, testutil.ToFloat64(metrics.ModeTransitionsTotal.WithLabelValues("idle", "idle")))
	assert.Equal(t, initialChange+1, testutil.ToFloat64(metrics.ModeTransitionsTotal.WithLabelValues("idle", "counting_chars")))
}

func TestUpdateActiveSessions(t *testing.T) {
	// Act
	metrics.UpdateActiveSessions(42)

	// Assert
	assert.Equal(t, float64(42), testutil.ToFloat64(metrics.ActiveSessions))
}

func TestRecordTransportErrorAndReconnect(t *testing.T) {
	// Arrange
	initialErrors := testutil.ToFloat64(metrics.TransportErrorsTotal.WithLabelValues("get_updates"))
	initialReconnects := testutil.ToFloat64(metrics.ReconnectsTotal)

	// Act
	metrics.RecordTransportError("get_updates")
	metrics.RecordReconnect()

	// Assert
	assert.Equal(t, initialErrors+1, testutil.ToFloat64(metrics.TransportErrorsTotal.WithLabelValues("get_updates")))
	assert.Equal(t, initialReconnects+1, testutil.ToFloat64(metrics.ReconnectsTotal))
}

func TestMetricsExist(t *testing.T) {
	// Arrange
	metrics.RecordHandlerError("invalid_number_format")
	metrics.RecordJournalWrite("kafka", "success")
	metrics.RecordDatabaseQuery("insert_event", "success", time.Millisecond)

	// Act
	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	// Assert
	metricNames := make(map[string]bool)
	for _, mf := range metricFamilies {
		metricNames[mf.GetName()] = true
	}

	expectedMetrics := []string{
		"tester_bot_bot_active_sessions",
		"tester_bot_bot_handler_errors_total",
		"tester_bot_transport_reconnects_total",
		"tester_bot_journal_writes_total",
		"tester_bot_journal_database_queries_total",
		"tester_bot_journal_database_query_duration_seconds",
	}

	for _, metricName := range expectedMetrics {
		assert.True(t, metricNames[metricName], "Метрика %s должна быть зарегистрирована", metricName)
	}
}

func TestMetricsServer_Handler(t *testing.T) {
	// Arrange
	server := metrics.NewMetricsServer(0, nil)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	// Act
	healthResp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer healthResp.Body.Close()

	metricsResp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()

	// Assert
	assert.Equal(t, http.StatusOK, healthResp.StatusCode)
	assert.Equal(t, http.StatusOK, metricsResp.StatusCode)
}
