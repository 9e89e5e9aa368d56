package readstore

import (
	"context"
	"time"

	"salon-scheduler/internal/domain/giftcard"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type GiftCardReadStore struct {
	db db.DBTX
}

func NewGiftCardReadStore(dbtx db.DBTX) *GiftCardReadStore {
	return &GiftCardReadStore{db: dbtx}
}

const giftCardByCodeSQL = `
SELECT id, code, balance_cents, expires_at, created_at, updated_at
FROM gift_cards
WHERE code = $1`

func (r *GiftCardReadStore) FindByCode(ctx context.Context, code string) (*giftcard.GiftCard, error) {
	var (
		id                   uuid.UUID
		storedCode           string
		balance              int64
		expiresAt            *time.Time
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, giftCardByCodeSQL, giftcard.NormalizeCode(code)).Scan(
		&id, &storedCode, &balance, &expiresAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("gift card not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find gift card", err)
	}

	return giftcard.ReconstructGiftCard(id, storedCode, balance, expiresAt, createdAt, updatedAt), nil
}
