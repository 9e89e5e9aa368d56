//go:build unit

package queries

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeAfterCursor(t *testing.T) {
	t.Run("round-trips timestamp and id at microsecond precision", func(t *testing.T) {
		original := time.Date(2026, 3, 14, 15, 9, 26, 535_000, time.UTC)
		id := uuid.New()

		cursor := EncodeAfterCursor(original, id)
		decodedTime, decodedID, err := DecodeAfterCursor(cursor)

		require.NoError(t, err)
		assert.Equal(t, original.UnixMicro(), decodedTime.UnixMicro())
		assert.Equal(t, id, decodedID)
	})

	t.Run("accepts legacy nanosecond cursors", func(t *testing.T) {
		original := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
		id := uuid.New()
		legacy := fmt.Sprintf("%d-%s", original.UnixNano(), id.String())

		decodedTime, decodedID, err := DecodeAfterCursor(legacy)

		require.NoError(t, err)
		assert.True(t, decodedTime.Equal(original))
		assert.Equal(t, id, decodedID)
	})

	t.Run("rejects malformed cursors", func(t *testing.T) {
		cases := []struct {
			name   string
			cursor string
		}{
			{name: "empty", cursor: ""},
			{name: "garbage", cursor: "not-a-cursor"},
			{name: "missing uuid", cursor: "1234567890"},
			{name: "bad uuid", cursor: "1234567890-not-a-uuid"},
			{name: "bad timestamp", cursor: "abc-" + uuid.New().String()},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, _, err := DecodeAfterCursor(tc.cursor)
				assert.Error(t, err)
			})
		}
	})
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 20, ValidateLimit(-5))
	assert.Equal(t, 50, ValidateLimit(50))
	assert.Equal(t, MaxListLimit, ValidateLimit(MaxListLimit+1))
}
