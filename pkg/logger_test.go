package pkg_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matthew11K/tester-bot/pkg"
)

func TestNewLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := pkg.NewLogger(&buf, "info")
	logger.Debug("не должно попасть в вывод")
	logger.Info("Бот запущен", "user_id", int64(42))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "Бот запущен", record["msg"])
	assert.Equal(t, "tester-bot", record["service"])
	assert.InDelta(t, 42, record["user_id"], 0)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, pkg.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, pkg.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, pkg.ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, pkg.ParseLevel("verbose"))
}
