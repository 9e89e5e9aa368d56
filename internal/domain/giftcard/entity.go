package giftcard

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCodeNotFound    = errors.New("gift card code not found")
	ErrNegativeBalance = errors.New("gift card balance cannot be negative")
	ErrInsufficient    = errors.New("gift card balance insufficient")
)

// NormalizeCode makes lookups case-insensitive; codes are stored upper-case.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GiftCard is a stored-value instrument. Verification is read-only; the
// balance is only debited inside a successful booking commit, so repeated
// verify calls can never double-spend.
type GiftCard struct {
	id        uuid.UUID
	code      string
	balance   int64
	expiresAt *time.Time
	createdAt time.Time
	updatedAt time.Time
}

func NewGiftCard(code string, balance int64, expiresAt *time.Time) (*GiftCard, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, ErrCodeNotFound
	}
	if balance < 0 {
		return nil, ErrNegativeBalance
	}
	return &GiftCard{
		id:        uuid.New(),
		code:      normalized,
		balance:   balance,
		expiresAt: expiresAt,
	}, nil
}

func ReconstructGiftCard(
	id uuid.UUID,
	code string,
	balance int64,
	expiresAt *time.Time,
	createdAt, updatedAt time.Time,
) *GiftCard {
	return &GiftCard{
		id:        id,
		code:      code,
		balance:   balance,
		expiresAt: expiresAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// IsExpired is a soft condition: an expired card still reports its balance
// so the caller can warn instead of hard-blocking the booking.
func (g *GiftCard) IsExpired(now time.Time) bool {
	return g.expiresAt != nil && now.After(*g.expiresAt)
}

// UsableAmount is how much of the card applies to the given order total.
func (g *GiftCard) UsableAmount(orderTotalCents int64) int64 {
	if g.balance < orderTotalCents {
		return g.balance
	}
	return orderTotalCents
}

// Remainder is what is still due after the card is applied.
func (g *GiftCard) Remainder(orderTotalCents int64) int64 {
	remainder := orderTotalCents - g.balance
	if remainder < 0 {
		return 0
	}
	return remainder
}

func (g *GiftCard) ID() uuid.UUID         { return g.id }
func (g *GiftCard) Code() string          { return g.code }
func (g *GiftCard) Balance() int64        { return g.balance }
func (g *GiftCard) ExpiresAt() *time.Time { return g.expiresAt }
func (g *GiftCard) CreatedAt() time.Time  { return g.createdAt }
func (g *GiftCard) UpdatedAt() time.Time  { return g.updatedAt }
