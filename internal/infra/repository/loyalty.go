package repository

import (
	"context"
	"time"

	"salon-scheduler/internal/domain/loyalty"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type LoyaltyRepository struct{}

func NewLoyaltyRepository() *LoyaltyRepository {
	return &LoyaltyRepository{}
}

const createLoyaltyProfileSQL = `
INSERT INTO loyalty_profiles (
    id, user_id, individual_services_count, packages_count, total_spent_cents, last_visit
) VALUES ($1, $2, $3, $4, $5, $6)`

func (r *LoyaltyRepository) CreateProfile(ctx context.Context, dbtx db.DBTX, p *loyalty.Profile) error {
	_, err := dbtx.Exec(ctx, createLoyaltyProfileSQL,
		p.ID(),
		p.UserID(),
		p.IndividualServicesCount(),
		p.PackagesCount(),
		p.TotalSpent(),
		p.LastVisit(),
	)
	if err != nil {
		if kind, ok := infra.ClassifyPgError(err); ok {
			return infra.WrapRepoErr("failed to create loyalty profile", err, kind)
		}
		return infra.WrapRepoErr("failed to create loyalty profile", err)
	}
	return nil
}

// Command-side read. The row lock serializes concurrent grants and
// adjustments on one profile so the threshold check runs against a stable
// counter; plain reads stay in the readstore.
const lockLoyaltyProfileSQL = `
SELECT id, user_id, individual_services_count, packages_count,
       total_spent_cents, last_visit, created_at, updated_at
FROM loyalty_profiles
WHERE user_id = $1
FOR UPDATE`

func (r *LoyaltyRepository) LockProfileByUser(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) (*loyalty.Profile, error) {
	var (
		id, uid              uuid.UUID
		individual, packages int
		totalSpent           int64
		lastVisit            *time.Time
		createdAt, updatedAt time.Time
	)
	err := dbtx.QueryRow(ctx, lockLoyaltyProfileSQL, userID).Scan(
		&id, &uid, &individual, &packages, &totalSpent, &lastVisit, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("loyalty profile not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock loyalty profile", err)
	}

	return loyalty.ReconstructProfile(id, uid, individual, packages, totalSpent, lastVisit, createdAt, updatedAt), nil
}

const saveLoyaltyProfileSQL = `
UPDATE loyalty_profiles SET
    individual_services_count = $2,
    packages_count = $3,
    total_spent_cents = $4,
    last_visit = $5,
    updated_at = now()
WHERE id = $1`

func (r *LoyaltyRepository) SaveProfile(ctx context.Context, dbtx db.DBTX, p *loyalty.Profile) error {
	tag, err := dbtx.Exec(ctx, saveLoyaltyProfileSQL,
		p.ID(),
		p.IndividualServicesCount(),
		p.PackagesCount(),
		p.TotalSpent(),
		p.LastVisit(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save loyalty profile", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("loyalty profile not found", nil, infra.KindNotFound)
	}
	return nil
}

const insertLoyaltyCreditSQL = `
INSERT INTO loyalty_credits (id, profile_id, kind, amount_cents, granted_at)
VALUES ($1, $2, $3, $4, $5)`

func (r *LoyaltyRepository) InsertCredit(ctx context.Context, dbtx db.DBTX, c *loyalty.Credit) error {
	_, err := dbtx.Exec(ctx, insertLoyaltyCreditSQL,
		c.ID, c.ProfileID, c.Kind.String(), c.AmountCents, c.GrantedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert loyalty credit", err)
	}
	return nil
}

// Settings live in a single row; the update rewrites it wholesale.
const saveLoyaltySettingsSQL = `
UPDATE loyalty_settings SET
    service_threshold = $1,
    service_discount_cents = $2,
    package_threshold = $3,
    package_discount_cents = $4,
    birthday_discount_cents = $5,
    referral_bonus = $6,
    review_bonus = $7,
    updated_at = now()`

func (r *LoyaltyRepository) SaveSettings(ctx context.Context, dbtx db.DBTX, s loyalty.Settings) error {
	_, err := dbtx.Exec(ctx, saveLoyaltySettingsSQL,
		s.ServiceThreshold,
		s.ServiceDiscount,
		s.PackageThreshold,
		s.PackageDiscount,
		s.BirthdayDiscount,
		s.ReferralBonus,
		s.ReviewBonus,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save loyalty settings", err)
	}
	return nil
}
