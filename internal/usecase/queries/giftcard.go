package queries

import (
	"context"

	"salon-scheduler/internal/domain/giftcard"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/pkg/clock"
	"salon-scheduler/internal/pkg/errs"
)

var ErrGiftCardNotFound = errs.New("gift card not found")

type GiftCardQueries interface {
	// Verify reports the card balance against a booking total without
	// deducting anything. Deduction happens inside the submit transaction.
	Verify(ctx context.Context, code string, totalCents int64) (*GiftCardVerificationView, error)
}

type GiftCardReadStore interface {
	FindByCode(ctx context.Context, code string) (*giftcard.GiftCard, error)
}

type giftCardQueriesImpl struct {
	readStore GiftCardReadStore
	clock     clock.Clock
}

func NewGiftCardQueries(readStore GiftCardReadStore, clock clock.Clock) GiftCardQueries {
	return &giftCardQueriesImpl{readStore: readStore, clock: clock}
}

func (q *giftCardQueriesImpl) Verify(ctx context.Context, code string, totalCents int64) (*GiftCardVerificationView, error) {
	normalized := giftcard.NormalizeCode(code)
	if normalized == "" {
		return nil, errs.Mark(giftcard.ErrCodeNotFound, ErrGiftCardNotFound)
	}

	card, err := q.readStore.FindByCode(ctx, normalized)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrGiftCardNotFound
		}
		return nil, err
	}

	return &GiftCardVerificationView{
		Code:           card.Code(),
		BalanceCents:   card.Balance(),
		UsableCents:    card.UsableAmount(totalCents),
		RemainderCents: card.Remainder(totalCents),
		Expired:        card.IsExpired(q.clock.Now()),
		ExpiresAt:      card.ExpiresAt(),
	}, nil
}
