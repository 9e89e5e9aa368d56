package shared

import (
	"context"
	"time"

	"salon-scheduler/internal/domain/booking"
	"salon-scheduler/internal/domain/loyalty"
	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Loyalty() LoyaltyRepository
	GiftCards() GiftCardRepository
	Idempotency() IdempotencyRepository
	Outbox() OutboxRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ServiceBySlug(ctx context.Context, slug string) (*ServiceSnapshot, error)
	ActiveServices(ctx context.Context) ([]ServiceSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	BookedIntervals(ctx context.Context, date time.Time) ([]IntervalSnapshot, error)
	BlockedForDate(ctx context.Context, date time.Time) ([]BlockedSnapshot, error)
	WeekHours(ctx context.Context) (schedule.WeekHours, error)
	GiftCardByCode(ctx context.Context, code string) (*GiftCardSnapshot, error)
	LoyaltyProfileByUser(ctx context.Context, userID uuid.UUID) (*loyalty.Profile, error)
	LoyaltySettings(ctx context.Context) (loyalty.Settings, error)
	UserByEmail(ctx context.Context, email string) (*user.User, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

type BookingRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status booking.Status) error
	// LockDaySlot serializes concurrent submissions targeting the same interval.
	LockDaySlot(ctx context.Context, dbtx db.DBTX, date time.Time, startMinute int) error
}

type LoyaltyRepository interface {
	CreateProfile(ctx context.Context, dbtx db.DBTX, p *loyalty.Profile) error
	// LockProfileByUser reads the profile under a row lock so a concurrent
	// grant or completion cannot act on the same counter value.
	LockProfileByUser(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) (*loyalty.Profile, error)
	SaveProfile(ctx context.Context, dbtx db.DBTX, p *loyalty.Profile) error
	InsertCredit(ctx context.Context, dbtx db.DBTX, c *loyalty.Credit) error
	SaveSettings(ctx context.Context, dbtx db.DBTX, s loyalty.Settings) error
}

type GiftCardRepository interface {
	Deduct(ctx context.Context, dbtx db.DBTX, code string, amountCents int64) error
}

type IdempotencyRepository interface {
	// TryInsert reports whether the key was freshly claimed. A false return
	// means a prior submission with the same key already holds it.
	TryInsert(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	UpdateStatusCompleted(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, resultHash string, bookingID uuid.UUID) error
	ClaimExpiredKey(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, requestHash string, expiresAt time.Time) (int64, error)
}

// CompletionJob is a queued completion event awaiting delivery to the broker.
type CompletionJob struct {
	ID       uuid.UUID
	Topic    string
	Payload  []byte
	Attempts int
}

type OutboxRepository interface {
	// CreateJob enqueues a payload in the caller's transaction so the event
	// survives a broker outage at commit time.
	CreateJob(ctx context.Context, dbtx db.DBTX, topic string, payload []byte, runAt time.Time) (uuid.UUID, error)
	// ClaimDue locks up to limit due jobs, skipping rows another relay holds.
	ClaimDue(ctx context.Context, dbtx db.DBTX, now time.Time, limit int) ([]CompletionJob, error)
	MarkPublished(ctx context.Context, dbtx db.DBTX, jobID uuid.UUID) error
	MarkFailed(ctx context.Context, dbtx db.DBTX, jobID uuid.UUID, cause string, retryAt time.Time) error
}

type UserRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, u *user.User) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error
}
