package request

type GrantRewardRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Kind   string `json:"kind" binding:"required,oneof=individual package"`
}

type AdjustCounterRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Kind   string `json:"kind" binding:"required,oneof=individual package"`
	Delta  int    `json:"delta" binding:"required"`
}

// UpdateLoyaltySettingsRequest is a partial update; omitted fields keep
// their current value.
type UpdateLoyaltySettingsRequest struct {
	ServiceThreshold      *int   `json:"service_threshold,omitempty" binding:"omitempty,min=1"`
	ServiceDiscountCents  *int64 `json:"service_discount_cents,omitempty" binding:"omitempty,min=0"`
	PackageThreshold      *int   `json:"package_threshold,omitempty" binding:"omitempty,min=1"`
	PackageDiscountCents  *int64 `json:"package_discount_cents,omitempty" binding:"omitempty,min=0"`
	BirthdayDiscountCents *int64 `json:"birthday_discount_cents,omitempty" binding:"omitempty,min=0"`
	ReferralBonus         *int   `json:"referral_bonus,omitempty" binding:"omitempty,min=0"`
	ReviewBonus           *int   `json:"review_bonus,omitempty" binding:"omitempty,min=0"`
}
