package readstore

import (
	"context"
	"time"

	"salon-scheduler/internal/domain/loyalty"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/pkg/pgconv"
	"salon-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoyaltyReadStore struct {
	db db.DBTX
}

func NewLoyaltyReadStore(dbtx db.DBTX) *LoyaltyReadStore {
	return &LoyaltyReadStore{db: dbtx}
}

const loyaltyProfileByUserSQL = `
SELECT id, user_id, individual_services_count, packages_count,
       total_spent_cents, last_visit, created_at, updated_at
FROM loyalty_profiles
WHERE user_id = $1`

func (r *LoyaltyReadStore) FindProfileByUser(ctx context.Context, userID uuid.UUID) (*loyalty.Profile, error) {
	var (
		id, uid              uuid.UUID
		individual, packages int
		totalSpent           int64
		lastVisit            *time.Time
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, loyaltyProfileByUserSQL, userID).Scan(
		&id, &uid, &individual, &packages, &totalSpent, &lastVisit, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("loyalty profile not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find loyalty profile", err)
	}

	return loyalty.ReconstructProfile(id, uid, individual, packages, totalSpent, lastVisit, createdAt, updatedAt), nil
}

const loyaltySettingsSQL = `
SELECT service_threshold, service_discount_cents, package_threshold,
       package_discount_cents, birthday_discount_cents, referral_bonus, review_bonus
FROM loyalty_settings
LIMIT 1`

func (r *LoyaltyReadStore) FindSettings(ctx context.Context) (loyalty.Settings, error) {
	var s loyalty.Settings
	err := r.db.QueryRow(ctx, loyaltySettingsSQL).Scan(
		&s.ServiceThreshold, &s.ServiceDiscount, &s.PackageThreshold,
		&s.PackageDiscount, &s.BirthdayDiscount, &s.ReferralBonus, &s.ReviewBonus,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			// An unseeded table yields the shipped defaults.
			return loyalty.DefaultSettings(), nil
		}
		return loyalty.Settings{}, infra.WrapRepoErr("failed to load loyalty settings", err)
	}
	return s, nil
}

const loyaltyCreditsByUserSQL = `
SELECT c.id, c.kind, c.amount_cents, c.granted_at
FROM loyalty_credits c
JOIN loyalty_profiles p ON p.id = c.profile_id
WHERE p.user_id = $1
ORDER BY c.granted_at DESC`

func (r *LoyaltyReadStore) FindCreditsByUser(ctx context.Context, userID uuid.UUID) ([]*queries.LoyaltyCreditView, error) {
	rows, err := r.db.Query(ctx, loyaltyCreditsByUserSQL, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list loyalty credits", err)
	}
	defer rows.Close()

	var result []*queries.LoyaltyCreditView
	for rows.Next() {
		var view queries.LoyaltyCreditView
		if err := rows.Scan(&view.ID, &view.Kind, &view.AmountCents, &view.GrantedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan loyalty credit", err)
		}
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate loyalty credits", err)
	}
	return result, nil
}
