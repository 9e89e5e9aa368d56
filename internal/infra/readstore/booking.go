package readstore

import (
	"context"
	"time"

	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/pkg/pgconv"
	"salon-scheduler/internal/usecase/queries"
	"salon-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const getBookingByIDSQL = `
SELECT b.id, b.client_id, u.email, b.staff_id, b.date, b.start_minute,
       b.duration_min, b.service_slugs, b.package_types, b.status,
       b.total_price_cents, b.gift_card_applied_cents, b.note,
       b.created_at, b.updated_at
FROM bookings b
JOIN users u ON u.id = b.client_id
WHERE b.id = $1`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		view        queries.BookingView
		date        time.Time
		startMinute int
		note        *string
	)
	err := r.db.QueryRow(ctx, getBookingByIDSQL, id).Scan(
		&view.ID, &view.ClientID, &view.ClientEmail, &view.StaffID,
		&date, &startMinute, &view.DurationMinutes,
		&view.ServiceSlugs, &view.PackageTypes, &view.Status,
		&view.TotalPriceCents, &view.GiftCardApplied, &note,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	view.Date = date.Format("2006-01-02")
	view.Slot = minuteLabel(startMinute)
	view.Note = note
	return &view, nil
}

const getBookingsByUserSQL = `
SELECT id, date, start_minute, duration_min, service_slugs, status,
       total_price_cents, created_at
FROM bookings
WHERE client_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

const getBookingsByUserAfterSQL = `
SELECT id, date, start_minute, duration_min, service_slugs, status,
       total_price_cents, created_at
FROM bookings
WHERE client_id = $1
  AND (created_at, id) < ($2, $3)
ORDER BY created_at DESC, id DESC
LIMIT $4`

func (r *BookingReadStore) FindByUserIDKeyset(ctx context.Context, userID uuid.UUID, afterCreated *time.Time, afterID *uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if afterCreated != nil && afterID != nil {
		rows, err = r.db.Query(ctx, getBookingsByUserAfterSQL, userID, *afterCreated, *afterID, limit)
	} else {
		rows, err = r.db.Query(ctx, getBookingsByUserSQL, userID, limit)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var (
			item        queries.BookingListItem
			date        time.Time
			startMinute int
		)
		if err := rows.Scan(
			&item.ID, &date, &startMinute, &item.DurationMinutes,
			&item.ServiceSlugs, &item.Status, &item.TotalPriceCents, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		item.Date = date.Format("2006-01-02")
		item.Slot = minuteLabel(startMinute)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return result, nil
}

const getBookingSnapshotSQL = `
SELECT id, client_id, date, start_minute, duration_min, package_types,
       status, total_price_cents
FROM bookings
WHERE id = $1`

func (r *BookingReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var snap shared.BookingSnapshot
	err := r.db.QueryRow(ctx, getBookingSnapshotSQL, id).Scan(
		&snap.ID, &snap.ClientID, &snap.Date, &snap.StartMinute,
		&snap.DurationMinutes, &snap.PackageTypes, &snap.Status, &snap.TotalPriceCents,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking snapshot", err)
	}
	return &snap, nil
}
