package response

import (
	"salon-scheduler/internal/usecase/commands"

	"github.com/google/uuid"
)

type GrantRewardResponse struct {
	CreditID     uuid.UUID `json:"credit_id"`
	Kind         string    `json:"kind"`
	AmountCents  int64     `json:"amount_cents"`
	CounterAfter int       `json:"counter_after"`
}

type AdjustCounterResponse struct {
	CounterAfter int `json:"counter_after"`
}

func FromGrantResult(result *commands.GrantRewardResult) *GrantRewardResponse {
	return &GrantRewardResponse{
		CreditID:     result.CreditID,
		Kind:         result.Kind.String(),
		AmountCents:  result.AmountCents,
		CounterAfter: result.CounterAfter,
	}
}
