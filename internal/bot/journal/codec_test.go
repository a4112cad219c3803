package journal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matthew11K/tester-bot/internal/bot/journal"
)

func TestEncode_Fields(t *testing.T) {
	// Act
	data := journal.Encode(sampleEntry())

	// Assert
	assert.JSONEq(t, `{
		"update_id": 100,
		"user_id": 7,
		"chat_id": 42,
		"intent": "callback:sum_numbers",
		"mode_before": "idle",
		"mode_after": "summing_numbers",
		"outcome": "replied",
		"created_at": "2024-05-01T12:30:00.123Z"
	}`, string(data))
}

func TestDecode_SkipsUnknownFields(t *testing.T) {
	// Arrange
	data := []byte(`{"update_id":1,"extra":{"nested":[1,2]},"mode_before":"counting_chars","mode_after":"idle","created_at":"2024-05-01T00:00:00Z"}`)

	// Act
	entry, err := journal.Decode(data)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.UpdateID)
	assert.Equal(t, "counting_chars", entry.ModeBefore.String())
}

func TestDecode_UnknownMode(t *testing.T) {
	// Act
	_, err := journal.Decode([]byte(`{"mode_before":"sleeping"}`))

	// Assert
	assert.Error(t, err)
}
