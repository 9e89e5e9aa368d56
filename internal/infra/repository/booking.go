package repository

import (
	"context"
	"time"

	"salon-scheduler/internal/domain/booking"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"

	"github.com/google/uuid"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const createBookingSQL = `
INSERT INTO bookings (
    id, client_id, staff_id, date, start_minute, duration_min,
    service_slugs, package_types, status, total_price_cents,
    gift_card_applied_cents, note
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id`

func (r *BookingRepository) Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	var note *string
	if !b.Note().IsEmpty() {
		v := b.Note().String()
		note = &v
	}

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createBookingSQL,
		b.ID(),
		b.ClientID(),
		b.StaffID(),
		b.Slot().Date(),
		b.Slot().StartMinute(),
		b.DurationMinutes(),
		b.ServiceSlugs(),
		b.PackageTypes(),
		b.Status().String(),
		b.TotalPrice().Cents(),
		b.GiftCardApplied(),
		note,
	).Scan(&id)
	if err != nil {
		if kind, ok := infra.ClassifyPgError(err); ok {
			return uuid.Nil, infra.WrapRepoErr("failed to create booking", err, kind)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}

	return id, nil
}

const updateBookingStatusSQL = `
UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`

func (r *BookingRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status booking.Status) error {
	tag, err := dbtx.Exec(ctx, updateBookingStatusSQL, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

// LockDaySlot takes a transaction-scoped advisory lock keyed on the target
// date and start minute, serializing concurrent submissions for the same
// slot so the availability re-check runs against committed state.
func (r *BookingRepository) LockDaySlot(ctx context.Context, dbtx db.DBTX, date time.Time, startMinute int) error {
	key := int64(date.Year())*100000 + int64(date.YearDay())*1440 + int64(startMinute)
	if _, err := dbtx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, key); err != nil {
		return infra.WrapRepoErr("failed to lock slot", err)
	}
	return nil
}
