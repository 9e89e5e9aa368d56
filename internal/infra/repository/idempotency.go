package repository

import (
	"context"
	"time"

	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"

	"github.com/google/uuid"
)

type IdempotencyRepository struct{}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{}
}

const tryInsertIdempotencySQL = `
INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
VALUES ($1, $2, $3, $4, 'processing', $5)
ON CONFLICT (key, user_id) DO NOTHING`

func (r *IdempotencyRepository) TryInsert(
	ctx context.Context,
	dbtx db.DBTX,
	key, userID uuid.UUID,
	endpoint, requestHash string,
	expiresAt time.Time,
) (bool, error) {
	tag, err := dbtx.Exec(ctx, tryInsertIdempotencySQL, key, userID, endpoint, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert idempotency key", err)
	}
	return tag.RowsAffected() > 0, nil
}

const completeIdempotencySQL = `
UPDATE idempotency_keys
SET status = 'completed', response_body_hash = $3, result_booking_id = $4, updated_at = now()
WHERE key = $1 AND user_id = $2`

func (r *IdempotencyRepository) UpdateStatusCompleted(
	ctx context.Context,
	dbtx db.DBTX,
	key, userID uuid.UUID,
	resultHash string,
	bookingID uuid.UUID,
) error {
	tag, err := dbtx.Exec(ctx, completeIdempotencySQL, key, userID, resultHash, bookingID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}

// ClaimExpiredKey atomically takes over a key whose previous attempt timed
// out. The status guard keeps completed results replayable forever.
const claimExpiredIdempotencySQL = `
UPDATE idempotency_keys
SET request_hash = $3, status = 'processing', expires_at = $4, updated_at = now()
WHERE key = $1 AND user_id = $2 AND status = 'processing' AND expires_at < now()`

func (r *IdempotencyRepository) ClaimExpiredKey(
	ctx context.Context,
	dbtx db.DBTX,
	key, userID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (int64, error) {
	tag, err := dbtx.Exec(ctx, claimExpiredIdempotencySQL, key, userID, requestHash, expiresAt)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to claim expired idempotency key", err)
	}
	return tag.RowsAffected(), nil
}
