//go:build unit

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"salon-scheduler/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleDelivery(t *testing.T) {
	cfg := config.AMQPConfig{CompletedQueue: "bookings.completed"}

	t.Run("decodes the event and invokes the handler", func(t *testing.T) {
		event := BookingCompleted{
			BookingID:       uuid.New(),
			ClientID:        uuid.New(),
			HasForfait:      true,
			TotalPriceCents: 35000,
			CompletedAt:     time.Now().UTC().Truncate(time.Second),
		}
		body, err := json.Marshal(event)
		require.NoError(t, err)

		var received BookingCompleted
		consumer := NewConsumer(cfg, func(_ context.Context, e BookingCompleted) error {
			received = e
			return nil
		})

		require.NoError(t, consumer.handleDelivery(context.Background(), body))
		assert.Equal(t, event.BookingID, received.BookingID)
		assert.Equal(t, event.ClientID, received.ClientID)
		assert.True(t, received.HasForfait)
		assert.Equal(t, int64(35000), received.TotalPriceCents)
	})

	t.Run("rejects malformed payloads without calling the handler", func(t *testing.T) {
		called := false
		consumer := NewConsumer(cfg, func(_ context.Context, _ BookingCompleted) error {
			called = true
			return nil
		})

		err := consumer.handleDelivery(context.Background(), []byte("not json"))
		assert.Error(t, err)
		assert.False(t, called)
	})

	t.Run("propagates handler errors", func(t *testing.T) {
		consumer := NewConsumer(cfg, func(_ context.Context, _ BookingCompleted) error {
			return assert.AnError
		})

		body, err := json.Marshal(BookingCompleted{BookingID: uuid.New()})
		require.NoError(t, err)
		assert.ErrorIs(t, consumer.handleDelivery(context.Background(), body), assert.AnError)
	})
}
