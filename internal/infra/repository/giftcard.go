package repository

import (
	"context"

	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"
)

type GiftCardRepository struct{}

func NewGiftCardRepository() *GiftCardRepository {
	return &GiftCardRepository{}
}

// The balance guard in the WHERE clause makes the deduction safe under
// concurrent submissions using the same card.
const deductGiftCardSQL = `
UPDATE gift_cards
SET balance_cents = balance_cents - $2, updated_at = now()
WHERE code = $1 AND balance_cents >= $2`

func (r *GiftCardRepository) Deduct(ctx context.Context, dbtx db.DBTX, code string, amountCents int64) error {
	tag, err := dbtx.Exec(ctx, deductGiftCardSQL, code, amountCents)
	if err != nil {
		return infra.WrapRepoErr("failed to deduct gift card", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("gift card balance changed", nil, infra.KindConflict)
	}
	return nil
}
