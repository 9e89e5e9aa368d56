//go:build unit

package giftcard_test

import (
	"testing"
	"time"

	"salon-scheduler/internal/domain/giftcard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsableAmount(t *testing.T) {
	card, err := giftcard.NewGiftCard("GIFT-ABCD", 3000, nil)
	require.NoError(t, err)

	t.Run("balance below order total", func(t *testing.T) {
		assert.Equal(t, int64(3000), card.UsableAmount(7500))
		assert.Equal(t, int64(4500), card.Remainder(7500))
	})

	t.Run("balance covers the whole order", func(t *testing.T) {
		assert.Equal(t, int64(2000), card.UsableAmount(2000))
		assert.Equal(t, int64(0), card.Remainder(2000))
	})

	t.Run("computation never mutates balance", func(t *testing.T) {
		for range 10 {
			card.UsableAmount(7500)
		}
		assert.Equal(t, int64(3000), card.Balance())
	})
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "GIFT-ABCD", giftcard.NormalizeCode("  gift-abcd "))
	assert.Equal(t, "GIFT-ABCD", giftcard.NormalizeCode("Gift-Abcd"))
}

func TestExpiry(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("expired card still reports its balance", func(t *testing.T) {
		past := now.Add(-24 * time.Hour)
		card, err := giftcard.NewGiftCard("OLD-CARD", 1500, &past)
		require.NoError(t, err)

		assert.True(t, card.IsExpired(now))
		assert.Equal(t, int64(1500), card.Balance())
	})

	t.Run("card without expiry never expires", func(t *testing.T) {
		card, err := giftcard.NewGiftCard("EVERGREEN", 1500, nil)
		require.NoError(t, err)
		assert.False(t, card.IsExpired(now))
	})
}

func TestNewGiftCardValidation(t *testing.T) {
	_, err := giftcard.NewGiftCard("CODE", -1, nil)
	assert.ErrorIs(t, err, giftcard.ErrNegativeBalance)

	_, err = giftcard.NewGiftCard("   ", 100, nil)
	assert.ErrorIs(t, err, giftcard.ErrCodeNotFound)
}
