package queries

import (
	"context"

	"salon-scheduler/internal/domain/loyalty"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrLoyaltyProfileNotFound = errs.New("loyalty profile not found")

type LoyaltyQueries interface {
	GetStatus(ctx context.Context, userID uuid.UUID) (*LoyaltyStatusView, error)
	GetSettings(ctx context.Context) (*LoyaltySettingsView, error)
	ListCredits(ctx context.Context, userID uuid.UUID) ([]*LoyaltyCreditView, error)
}

type LoyaltyReadStore interface {
	FindProfileByUser(ctx context.Context, userID uuid.UUID) (*loyalty.Profile, error)
	FindSettings(ctx context.Context) (loyalty.Settings, error)
	FindCreditsByUser(ctx context.Context, userID uuid.UUID) ([]*LoyaltyCreditView, error)
}

type loyaltyQueriesImpl struct {
	readStore LoyaltyReadStore
}

func NewLoyaltyQueries(readStore LoyaltyReadStore) LoyaltyQueries {
	return &loyaltyQueriesImpl{readStore: readStore}
}

func (q *loyaltyQueriesImpl) GetStatus(ctx context.Context, userID uuid.UUID) (*LoyaltyStatusView, error) {
	profile, err := q.readStore.FindProfileByUser(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLoyaltyProfileNotFound
		}
		return nil, err
	}

	settings, err := q.readStore.FindSettings(ctx)
	if err != nil {
		return nil, err
	}

	return &LoyaltyStatusView{
		UserID:                  profile.UserID(),
		IndividualServicesCount: profile.IndividualServicesCount(),
		PackagesCount:           profile.PackagesCount(),
		TotalSpentCents:         profile.TotalSpent(),
		ServiceRewardEligible:   profile.Eligible(loyalty.KindIndividual, settings),
		PackageRewardEligible:   profile.Eligible(loyalty.KindPackage, settings),
		LastVisit:               profile.LastVisit(),
	}, nil
}

func (q *loyaltyQueriesImpl) GetSettings(ctx context.Context) (*LoyaltySettingsView, error) {
	settings, err := q.readStore.FindSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &LoyaltySettingsView{
		ServiceThreshold:      settings.ServiceThreshold,
		ServiceDiscountCents:  settings.ServiceDiscount,
		PackageThreshold:      settings.PackageThreshold,
		PackageDiscountCents:  settings.PackageDiscount,
		BirthdayDiscountCents: settings.BirthdayDiscount,
		ReferralBonus:         settings.ReferralBonus,
		ReviewBonus:           settings.ReviewBonus,
	}, nil
}

func (q *loyaltyQueriesImpl) ListCredits(ctx context.Context, userID uuid.UUID) ([]*LoyaltyCreditView, error) {
	return q.readStore.FindCreditsByUser(ctx, userID)
}
