package commands

import (
	"context"

	"salon-scheduler/internal/domain/loyalty"
	reqdto "salon-scheduler/internal/handler/dto/request"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/pkg/clock"
	"salon-scheduler/internal/pkg/errs"
	"salon-scheduler/internal/pkg/patch"
	"salon-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrLoyaltyProfileNotFound = errs.New("loyalty profile not found")
	ErrThresholdNotMet        = errs.New("counter below threshold")
	ErrInvalidLoyaltySettings = errs.New("invalid loyalty settings")
)

type GrantRewardResult struct {
	CreditID     uuid.UUID
	Kind         loyalty.Kind
	AmountCents  int64
	CounterAfter int
}

type LoyaltyCommands interface {
	// RecordCompletion applies one completed booking to the client ledger.
	// Called by the completion event consumer, creating the profile on first
	// visit.
	RecordCompletion(ctx context.Context, userID uuid.UUID, kind loyalty.Kind, spentCents int64) error
	GrantReward(ctx context.Context, req reqdto.GrantRewardRequest) (*GrantRewardResult, error)
	AdjustCounter(ctx context.Context, req reqdto.AdjustCounterRequest) (int, error)
	UpdateSettings(ctx context.Context, req reqdto.UpdateLoyaltySettingsRequest) error
}

type loyaltyCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewLoyaltyCommands(uow shared.UnitOfWork, clock clock.Clock) LoyaltyCommands {
	return &loyaltyCommandsImpl{uow: uow, clock: clock}
}

func (c *loyaltyCommandsImpl) RecordCompletion(ctx context.Context, userID uuid.UUID, kind loyalty.Kind, spentCents int64) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		profile, err := tx.Loyalty().LockProfileByUser(ctx, tx.DB(), userID)
		switch {
		case err == nil:
		case infra.IsKind(err, infra.KindNotFound):
			profile = loyalty.NewProfile(userID)
			if createErr := tx.Loyalty().CreateProfile(ctx, tx.DB(), profile); createErr != nil {
				// A concurrent consumer won the first-visit insert; take
				// its row instead.
				if !infra.IsKind(createErr, infra.KindDuplicateKey) {
					return errs.Mark(createErr, ErrDatabaseOperationFailed)
				}
				profile, err = tx.Loyalty().LockProfileByUser(ctx, tx.DB(), userID)
				if err != nil {
					return errs.Mark(err, ErrDatabaseOperationFailed)
				}
			}
		default:
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		profile.RecordCompletion(kind, spentCents, c.clock.Now())
		if err := tx.Loyalty().SaveProfile(ctx, tx.DB(), profile); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *loyaltyCommandsImpl) GrantReward(ctx context.Context, req reqdto.GrantRewardRequest) (*GrantRewardResult, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	kind, err := loyalty.NewKind(req.Kind)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var result *GrantRewardResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// A concurrent grant waits on the row lock and then fails the
		// threshold check against the already-decremented counter.
		profile, readErr := tx.Loyalty().LockProfileByUser(ctx, tx.DB(), userID)
		if readErr != nil {
			if infra.IsKind(readErr, infra.KindNotFound) {
				return ErrLoyaltyProfileNotFound
			}
			return errs.Mark(readErr, ErrDatabaseOperationFailed)
		}

		settings, readErr := tx.Reads().LoyaltySettings(ctx)
		if readErr != nil {
			return errs.Mark(readErr, ErrDatabaseOperationFailed)
		}

		// Grant and decrement are one atomic step; the counter keeps any
		// surplus above the threshold.
		credit, grantErr := profile.GrantReward(kind, settings, c.clock.Now())
		if grantErr != nil {
			return ErrThresholdNotMet
		}

		if saveErr := tx.Loyalty().SaveProfile(ctx, tx.DB(), profile); saveErr != nil {
			return errs.Mark(saveErr, ErrDatabaseOperationFailed)
		}
		if insertErr := tx.Loyalty().InsertCredit(ctx, tx.DB(), credit); insertErr != nil {
			return errs.Mark(insertErr, ErrDatabaseOperationFailed)
		}

		result = &GrantRewardResult{
			CreditID:     credit.ID,
			Kind:         kind,
			AmountCents:  credit.AmountCents,
			CounterAfter: profile.Counter(kind),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *loyaltyCommandsImpl) AdjustCounter(ctx context.Context, req reqdto.AdjustCounterRequest) (int, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return 0, errs.Mark(err, ErrDomainValidation)
	}
	kind, err := loyalty.NewKind(req.Kind)
	if err != nil {
		return 0, errs.Mark(err, ErrDomainValidation)
	}

	var after int
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		profile, readErr := tx.Loyalty().LockProfileByUser(ctx, tx.DB(), userID)
		if readErr != nil {
			if infra.IsKind(readErr, infra.KindNotFound) {
				return ErrLoyaltyProfileNotFound
			}
			return errs.Mark(readErr, ErrDatabaseOperationFailed)
		}

		after = profile.Adjust(kind, req.Delta)
		if saveErr := tx.Loyalty().SaveProfile(ctx, tx.DB(), profile); saveErr != nil {
			return errs.Mark(saveErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return after, nil
}

func (c *loyaltyCommandsImpl) UpdateSettings(ctx context.Context, req reqdto.UpdateLoyaltySettingsRequest) error {
	// Takes effect for future grants only; past grants are never revisited.
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Reads().LoyaltySettings(ctx)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		settings := loyalty.Settings{
			ServiceThreshold: patch.Coalesce(req.ServiceThreshold, current.ServiceThreshold),
			ServiceDiscount:  patch.Coalesce(req.ServiceDiscountCents, current.ServiceDiscount),
			PackageThreshold: patch.Coalesce(req.PackageThreshold, current.PackageThreshold),
			PackageDiscount:  patch.Coalesce(req.PackageDiscountCents, current.PackageDiscount),
			BirthdayDiscount: patch.Coalesce(req.BirthdayDiscountCents, current.BirthdayDiscount),
			ReferralBonus:    patch.Coalesce(req.ReferralBonus, current.ReferralBonus),
			ReviewBonus:      patch.Coalesce(req.ReviewBonus, current.ReviewBonus),
		}
		if err := settings.Validate(); err != nil {
			return errs.Mark(err, ErrInvalidLoyaltySettings)
		}

		if err := tx.Loyalty().SaveSettings(ctx, tx.DB(), settings); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
