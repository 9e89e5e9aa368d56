package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"salon-scheduler/internal/domain/booking"
	"salon-scheduler/internal/domain/catalog"
	"salon-scheduler/internal/domain/giftcard"
	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/events"
	reqdto "salon-scheduler/internal/handler/dto/request"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/pkg/clock"
	"salon-scheduler/internal/pkg/config"
	"salon-scheduler/internal/pkg/errs"
	"salon-scheduler/internal/usecase/queries"
	"salon-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUnknownService          = errs.New("unknown service")
	ErrInvalidSlot             = errs.New("invalid slot")
	ErrSlotConflict            = errs.New("slot conflict")
	ErrSlotUnavailable         = errs.New("slot unavailable")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrBookingAccessDenied     = errs.New("booking access denied")
	ErrBookingNotActive        = errs.New("booking not active")
	ErrBookingNotConfirmed     = errs.New("booking not confirmed")
	ErrGiftCardNotFound        = errs.New("gift card not found")
	ErrGiftCardExpired         = errs.New("gift card expired")
	ErrGiftCardBalanceChanged  = errs.New("gift card balance changed")
	ErrDuplicateSubmission     = errs.New("duplicate submission")
	ErrIdempotencyInProgress   = errs.New("idempotency in progress")
	ErrIdempotencyKeyRequired  = errs.New("idempotency key required")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type SubmitBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	SubmitBooking(ctx context.Context, req reqdto.SubmitBookingRequest, userID uuid.UUID, idempotencyKey uuid.UUID) (*SubmitBookingResult, error)
	CancelBooking(ctx context.Context, actor uuid.UUID, role user.Role, bookingID uuid.UUID) error
	CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	bookingQueries queries.BookingQueries
	scheduleCfg    config.ScheduleConfig
	clock          clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	bookingQueries queries.BookingQueries,
	scheduleCfg config.ScheduleConfig,
	clock clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		bookingQueries: bookingQueries,
		scheduleCfg:    scheduleCfg,
		clock:          clock,
	}
}

func (c *bookingCommandsImpl) SubmitBooking(
	ctx context.Context,
	req reqdto.SubmitBookingRequest,
	userID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*SubmitBookingResult, error) {
	requestHash := c.calculateRequestHash(req)
	expiresAt := c.clock.Now().Add(24 * time.Hour)

	replayed, err := c.handleIdempotency(ctx, idempotencyKey, userID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &SubmitBookingResult{Booking: replayed, IsReplayed: true}, nil
	}

	view, err := c.createBooking(ctx, req, userID, idempotencyKey)
	if err != nil {
		return nil, err
	}
	return &SubmitBookingResult{Booking: view, IsReplayed: false}, nil
}

func (c *bookingCommandsImpl) handleIdempotency(
	ctx context.Context,
	idempotencyKey, userID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.BookingView, error) {
	var claimed bool
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		inserted, insertErr := tx.Idempotency().TryInsert(ctx, tx.DB(), idempotencyKey, userID, "POST /bookings", requestHash, expiresAt)
		if insertErr != nil {
			return insertErr
		}
		claimed = inserted
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if claimed {
		return nil, nil
	}

	existing, err := c.uow.CommandReads().IdempotencyByKey(ctx, idempotencyKey, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	if c.clock.Now().After(existing.ExpiresAt) {
		return c.reclaimExpiredKey(ctx, idempotencyKey, userID, requestHash, expiresAt)
	}

	switch existing.Status {
	case "completed":
		if existing.ResultBookingID != nil {
			// System-level read: replay must succeed regardless of actor
			return c.bookingQueries.GetByIDSystem(ctx, *existing.ResultBookingID)
		}
		return nil, errs.New("completed request missing result booking ID")

	case "processing":
		if existing.RequestHash != requestHash {
			return nil, ErrDuplicateSubmission
		}
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (c *bookingCommandsImpl) reclaimExpiredKey(
	ctx context.Context,
	idempotencyKey, userID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.BookingView, error) {
	var claimed int64
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, claimErr := tx.Idempotency().ClaimExpiredKey(ctx, tx.DB(), idempotencyKey, userID, requestHash, expiresAt)
		if claimErr != nil {
			return claimErr
		}
		claimed = n
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if claimed == 0 {
		// Lost the reclaim race; the winner is processing it now.
		return nil, ErrIdempotencyInProgress
	}
	return nil, nil
}

func (c *bookingCommandsImpl) createBooking(
	ctx context.Context,
	req reqdto.SubmitBookingRequest,
	userID, idempotencyKey uuid.UUID,
) (*queries.BookingView, error) {
	date, err := req.ParseDate()
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSlot)
	}
	startMinute, err := req.ParseSlot()
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSlot)
	}
	if err := c.validateSlotPlacement(ctx, date, startMinute); err != nil {
		return nil, err
	}
	selections, err := req.Selections()
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	resolved, err := c.resolveSelections(ctx, selections)
	if err != nil {
		return nil, err
	}

	total, applied, err := c.applyGiftCard(ctx, req.GetGiftCardCode(), resolved.PriceCents)
	if err != nil {
		return nil, err
	}

	entity, err := c.buildEntity(req, userID, date, startMinute, resolved, total, applied)
	if err != nil {
		return nil, err
	}

	bookingID, err := c.executeSubmitTransaction(ctx, entity, req.GetGiftCardCode(), applied, idempotencyKey, userID)
	if err != nil {
		return nil, err
	}

	// Read-after-write: return the complete booking view from the read store
	return c.bookingQueries.GetByIDSystem(ctx, bookingID)
}

func (c *bookingCommandsImpl) resolveSelections(ctx context.Context, selections []catalog.Selection) (catalog.ResolvedDuration, error) {
	snapshots, err := c.uow.CommandReads().ActiveServices(ctx)
	if err != nil {
		return catalog.ResolvedDuration{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	items := make(map[string]*catalog.ServiceItem, len(snapshots))
	for _, s := range snapshots {
		items[s.Slug] = catalog.ReconstructServiceItem(
			s.ID, s.Slug, s.Name, s.DurationMinutes,
			s.BasePriceCents, s.PromoPriceCents, s.ForfaitCents,
			s.Active, time.Time{}, time.Time{},
		)
	}

	resolved := catalog.ResolveDuration(selections, items, catalog.DurationPolicy{
		PrepOverheadMinutes: c.scheduleCfg.PrepOverheadMinutes,
		DefaultDurationMin:  c.scheduleCfg.DefaultDurationMin,
	})
	// On the calendar an unknown slug degrades gracefully; on submission it
	// would book a slot for a service that cannot be priced, so reject.
	if len(resolved.Unknown) > 0 {
		return catalog.ResolvedDuration{}, ErrUnknownService
	}
	return resolved, nil
}

func (c *bookingCommandsImpl) applyGiftCard(ctx context.Context, code *string, totalCents int64) (remaining, applied int64, err error) {
	if code == nil {
		return totalCents, 0, nil
	}

	card, err := c.uow.CommandReads().GiftCardByCode(ctx, giftcard.NormalizeCode(*code))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return 0, 0, ErrGiftCardNotFound
		}
		return 0, 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if card.ExpiresAt != nil && c.clock.Now().After(*card.ExpiresAt) {
		return 0, 0, ErrGiftCardExpired
	}

	applied = card.BalanceCents
	if applied > totalCents {
		applied = totalCents
	}
	return totalCents - applied, applied, nil
}

func (c *bookingCommandsImpl) buildEntity(
	req reqdto.SubmitBookingRequest,
	userID uuid.UUID,
	date time.Time,
	startMinute int,
	resolved catalog.ResolvedDuration,
	totalCents, appliedCents int64,
) (*booking.Booking, error) {
	slot, err := booking.NewSlotTime(date, startMinute)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSlot)
	}
	price, err := booking.NewMoney(totalCents)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	slugs := make([]string, 0, len(req.Services))
	pkgs := make([]string, 0, len(req.Services))
	for _, s := range req.Services {
		slugs = append(slugs, s.Slug)
		pkgs = append(pkgs, s.PackageType)
	}

	entity, err := booking.NewBooking(
		userID, req.StaffID, slot, resolved.TotalMinutes,
		slugs, pkgs, price, appliedCents, booking.NewNote(req.GetNote()),
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	return entity, nil
}

// executeSubmitTransaction is the binding half of the two-phase check: an
// advisory lock serializes writers on the same slot, the availability
// re-check runs against committed state, and the insert is backstopped by
// the bookings exclusion constraint.
func (c *bookingCommandsImpl) executeSubmitTransaction(
	ctx context.Context,
	entity *booking.Booking,
	giftCode *string,
	giftApplied int64,
	idempotencyKey, userID uuid.UUID,
) (uuid.UUID, error) {
	var bookingID uuid.UUID

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		date := entity.Slot().Date()
		start := entity.Slot().StartMinute()

		if err := tx.Bookings().LockDaySlot(ctx, tx.DB(), date, start); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := c.recheckAvailability(ctx, tx, date, start, entity.DurationMinutes()); err != nil {
			return err
		}

		if err := entity.Confirm(); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		id, err := tx.Bookings().Create(ctx, tx.DB(), entity)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrSlotConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		bookingID = id

		if giftCode != nil && giftApplied > 0 {
			if err := tx.GiftCards().Deduct(ctx, tx.DB(), giftcard.NormalizeCode(*giftCode), giftApplied); err != nil {
				// A concurrent spend drained the card between verification
				// and deduction; the client should re-verify, not retry.
				if infra.IsKind(err, infra.KindConflict) {
					return ErrGiftCardBalanceChanged
				}
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		resultHash := c.calculateIDHash(bookingID)
		if err := tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, userID, resultHash, bookingID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return bookingID, nil
}

// validateSlotPlacement rejects starts outside opening hours or off the
// booking grid before any transaction work begins.
func (c *bookingCommandsImpl) validateSlotPlacement(ctx context.Context, date time.Time, startMinute int) error {
	hours, err := c.uow.CommandReads().WeekHours(ctx)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	day, open := hours.For(date)
	if !open {
		return ErrSlotUnavailable
	}
	if startMinute < day.OpenMinute || startMinute >= day.CloseMinute {
		return ErrInvalidSlot
	}

	step := c.scheduleCfg.GridStepMinutes
	if step > 0 && (startMinute-day.OpenMinute)%step != 0 {
		return ErrInvalidSlot
	}
	return nil
}

func (c *bookingCommandsImpl) recheckAvailability(
	ctx context.Context,
	tx shared.Tx,
	date time.Time,
	startMinute, durationMinutes int,
) error {
	hours, err := tx.Reads().WeekHours(ctx)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if day, open := hours.For(date); !open || startMinute+durationMinutes > day.CloseMinute {
		return ErrSlotUnavailable
	}

	intervals, err := tx.Reads().BookedIntervals(ctx, date)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	for _, iv := range intervals {
		occupied := schedule.BookedInterval{StartMinute: iv.StartMinute, DurationMinutes: iv.DurationMinutes}
		if occupied.Overlaps(startMinute, durationMinutes) {
			return ErrSlotConflict
		}
	}

	blocked, err := tx.Reads().BlockedForDate(ctx, date)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	for _, b := range blocked {
		bd := schedule.BlockedDate{Date: b.Date, Full: b.Full, FromMinute: b.FromMinute, ToMinute: b.ToMinute}
		if bd.Covers(date, startMinute, durationMinutes) {
			return ErrSlotUnavailable
		}
	}
	return nil
}

func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, actor uuid.UUID, role user.Role, bookingID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snapshot, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if role == user.RoleClient && snapshot.ClientID != actor {
			return ErrBookingAccessDenied
		}

		status := booking.Status(snapshot.Status)
		if !status.IsActive() {
			return ErrBookingNotActive
		}

		return tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, booking.StatusCancelled)
	})
}

// CompleteBooking enqueues the completion event in the same transaction as
// the status change, so the loyalty increment cannot be lost to a broker
// outage. The relay delivers queued events to the broker.
func (c *bookingCommandsImpl) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*queries.BookingView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snapshot, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if booking.Status(snapshot.Status) != booking.StatusConfirmed {
			return ErrBookingNotConfirmed
		}

		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, booking.StatusCompleted); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		event := events.BookingCompleted{
			BookingID:       bookingID,
			ClientID:        snapshot.ClientID,
			HasForfait:      booking.HasForfait(snapshot.PackageTypes),
			TotalPriceCents: snapshot.TotalPriceCents,
			CompletedAt:     c.clock.Now(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if _, err := tx.Outbox().CreateJob(ctx, tx.DB(), events.TopicBookingCompleted, payload, c.clock.Now()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.bookingQueries.GetByIDSystem(ctx, bookingID)
}

func (c *bookingCommandsImpl) calculateRequestHash(req reqdto.SubmitBookingRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func (c *bookingCommandsImpl) calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
