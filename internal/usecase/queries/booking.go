package queries

import (
	"context"
	"time"

	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errs.New("booking not found")
	ErrBookingAccess   = errs.New("booking access denied")
	ErrInvalidCursor   = errs.New("invalid pagination cursor")
)

type BookingQueries interface {
	GetByID(ctx context.Context, actor uuid.UUID, role user.Role, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem bypasses the ownership check for internal read-after-write
	// and idempotency replay paths.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByUserIDKeyset(ctx context.Context, userID uuid.UUID, afterCreated *time.Time, afterID *uuid.UUID, limit int32) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	readStore BookingReadStore
}

func NewBookingQueries(readStore BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{readStore: readStore}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor uuid.UUID, role user.Role, id uuid.UUID) (*BookingView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}

	// Clients only see their own bookings; staff and admin see all.
	if role == user.RoleClient && view.ClientID != actor {
		return nil, ErrBookingAccess
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var (
		afterCreated *time.Time
		afterID      *uuid.UUID
	)
	if after != nil && after.After != "" {
		t, id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, ErrInvalidCursor
		}
		afterCreated, afterID = &t, &id
	}

	// Fetch one extra row to detect whether a next page exists.
	rows, err := q.readStore.FindByUserIDKeyset(ctx, userID, afterCreated, afterID, int32(limit+1))
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}
	return rows, next, nil
}
