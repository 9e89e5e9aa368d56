package readstore

import (
	"context"

	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/pkg/pgconv"
	"salon-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyReadStore struct {
	db db.DBTX
}

func NewIdempotencyReadStore(dbtx db.DBTX) *IdempotencyReadStore {
	return &IdempotencyReadStore{db: dbtx}
}

const idempotencyByKeySQL = `
SELECT key, user_id, status, request_hash, result_booking_id, expires_at
FROM idempotency_keys
WHERE key = $1 AND user_id = $2`

func (r *IdempotencyReadStore) Get(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var record shared.IdempotencyRecord
	err := r.db.QueryRow(ctx, idempotencyByKeySQL, key, userID).Scan(
		&record.Key, &record.UserID, &record.Status, &record.RequestHash,
		&record.ResultBookingID, &record.ExpiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find idempotency key", err)
	}
	return &record, nil
}
