package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"salon-scheduler/internal/domain/loyalty"
	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/infra/readstore"
	"salon-scheduler/internal/infra/repository"
	"salon-scheduler/internal/pkg/errs"
	"salon-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return u.runReadOnlyTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func (u *PostgresUoW) runReadOnlyTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback read-only transaction", "error", rollbackErr.Error())
			}
		}
	}()

	if err := fn(ctx, pgxTx); err != nil {
		return err
	}

	return pgxTx.Commit(ctx)
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fallback to a simple calculation if crypto/rand fails
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	bookingRepo     shared.BookingRepository
	loyaltyRepo     shared.LoyaltyRepository
	giftCardRepo    shared.GiftCardRepository
	idempotencyRepo shared.IdempotencyRepository
	outboxRepo      shared.OutboxRepository
	userRepo        shared.UserRepository
	commandReads    shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository()
	}
	return t.bookingRepo
}

func (t *pgTx) Loyalty() shared.LoyaltyRepository {
	if t.loyaltyRepo == nil {
		t.loyaltyRepo = repository.NewLoyaltyRepository()
	}
	return t.loyaltyRepo
}

func (t *pgTx) GiftCards() shared.GiftCardRepository {
	if t.giftCardRepo == nil {
		t.giftCardRepo = repository.NewGiftCardRepository()
	}
	return t.giftCardRepo
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotencyRepo == nil {
		t.idempotencyRepo = repository.NewIdempotencyRepository()
	}
	return t.idempotencyRepo
}

func (t *pgTx) Outbox() shared.OutboxRepository {
	if t.outboxRepo == nil {
		t.outboxRepo = repository.NewOutboxRepository()
	}
	return t.outboxRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository()
	}
	return t.userRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX

	// Lazy-initialized readstores
	catalogStore     *readstore.CatalogReadStore
	bookingStore     *readstore.BookingReadStore
	calendarStore    *readstore.CalendarReadStore
	giftCardStore    *readstore.GiftCardReadStore
	loyaltyStore     *readstore.LoyaltyReadStore
	userStore        *readstore.UserReadStore
	idempotencyStore *readstore.IdempotencyReadStore
}

func (r *commandReads) catalog() *readstore.CatalogReadStore {
	if r.catalogStore == nil {
		r.catalogStore = readstore.NewCatalogReadStore(r.dbtx)
	}
	return r.catalogStore
}

func (r *commandReads) booking() *readstore.BookingReadStore {
	if r.bookingStore == nil {
		r.bookingStore = readstore.NewBookingReadStore(r.dbtx)
	}
	return r.bookingStore
}

func (r *commandReads) calendar() *readstore.CalendarReadStore {
	if r.calendarStore == nil {
		r.calendarStore = readstore.NewCalendarReadStore(r.dbtx)
	}
	return r.calendarStore
}

func (r *commandReads) ServiceBySlug(ctx context.Context, slug string) (*shared.ServiceSnapshot, error) {
	view, err := r.catalog().FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &shared.ServiceSnapshot{
		ID:              view.ID,
		Slug:            view.Slug,
		Name:            view.Name,
		DurationMinutes: view.DurationMinutes,
		BasePriceCents:  view.BasePriceCents,
		PromoPriceCents: view.PromoPriceCents,
		ForfaitCents:    view.ForfaitCents,
		Active:          view.Active,
	}, nil
}

func (r *commandReads) ActiveServices(ctx context.Context) ([]shared.ServiceSnapshot, error) {
	views, err := r.catalog().FindActive(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]shared.ServiceSnapshot, len(views))
	for i, v := range views {
		snapshots[i] = shared.ServiceSnapshot{
			ID:              v.ID,
			Slug:            v.Slug,
			Name:            v.Name,
			DurationMinutes: v.DurationMinutes,
			BasePriceCents:  v.BasePriceCents,
			PromoPriceCents: v.PromoPriceCents,
			ForfaitCents:    v.ForfaitCents,
			Active:          v.Active,
		}
	}
	return snapshots, nil
}

func (r *commandReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	return r.booking().FindSnapshotByID(ctx, id)
}

func (r *commandReads) BookedIntervals(ctx context.Context, date time.Time) ([]shared.IntervalSnapshot, error) {
	intervals, err := r.calendar().ActiveIntervals(ctx, date)
	if err != nil {
		return nil, err
	}

	snapshots := make([]shared.IntervalSnapshot, len(intervals))
	for i, iv := range intervals {
		snapshots[i] = shared.IntervalSnapshot{
			StartMinute:     iv.StartMinute,
			DurationMinutes: iv.DurationMinutes,
		}
	}
	return snapshots, nil
}

func (r *commandReads) BlockedForDate(ctx context.Context, date time.Time) ([]shared.BlockedSnapshot, error) {
	blocked, err := r.calendar().BlockedForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	snapshots := make([]shared.BlockedSnapshot, len(blocked))
	for i, b := range blocked {
		snapshots[i] = shared.BlockedSnapshot{
			Date:       b.Date,
			Full:       b.Full,
			FromMinute: b.FromMinute,
			ToMinute:   b.ToMinute,
		}
	}
	return snapshots, nil
}

func (r *commandReads) WeekHours(ctx context.Context) (schedule.WeekHours, error) {
	return r.calendar().WeekHours(ctx)
}

func (r *commandReads) GiftCardByCode(ctx context.Context, code string) (*shared.GiftCardSnapshot, error) {
	if r.giftCardStore == nil {
		r.giftCardStore = readstore.NewGiftCardReadStore(r.dbtx)
	}

	card, err := r.giftCardStore.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return &shared.GiftCardSnapshot{
		ID:           card.ID(),
		Code:         card.Code(),
		BalanceCents: card.Balance(),
		ExpiresAt:    card.ExpiresAt(),
	}, nil
}

func (r *commandReads) LoyaltyProfileByUser(ctx context.Context, userID uuid.UUID) (*loyalty.Profile, error) {
	if r.loyaltyStore == nil {
		r.loyaltyStore = readstore.NewLoyaltyReadStore(r.dbtx)
	}
	return r.loyaltyStore.FindProfileByUser(ctx, userID)
}

func (r *commandReads) LoyaltySettings(ctx context.Context) (loyalty.Settings, error) {
	if r.loyaltyStore == nil {
		r.loyaltyStore = readstore.NewLoyaltyReadStore(r.dbtx)
	}
	return r.loyaltyStore.FindSettings(ctx)
}

func (r *commandReads) UserByEmail(ctx context.Context, email string) (*user.User, error) {
	if r.userStore == nil {
		r.userStore = readstore.NewUserReadStore(r.dbtx)
	}

	view, hash, err := r.userStore.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	emailVO, err := user.NewEmail(view.Email)
	if err != nil {
		return nil, err
	}
	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, err
	}
	return user.ReconstructUser(
		view.ID, emailVO, hash, role, view.Name, "",
		nil, nil, view.IsActive, time.Time{}, time.Time{},
	), nil
}

func (r *commandReads) IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	if r.idempotencyStore == nil {
		r.idempotencyStore = readstore.NewIdempotencyReadStore(r.dbtx)
	}
	return r.idempotencyStore.Get(ctx, key, userID)
}
