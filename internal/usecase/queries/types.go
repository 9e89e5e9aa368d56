package queries

import (
	"time"

	"github.com/google/uuid"
)

// ServiceView represents read-optimized catalog data
type ServiceView struct {
	ID              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	BasePriceCents  int64     `json:"base_price_cents"`
	PromoPriceCents *int64    `json:"promo_price_cents,omitempty"`
	ForfaitCents    *int64    `json:"forfait_cents,omitempty"`
	Active          bool      `json:"active"`
}

// SlotView is one grid position of a day, available or not
type SlotView struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DayAvailabilityView carries the full grid so clients can render
// unavailable slots greyed out rather than missing
type DayAvailabilityView struct {
	Date            string     `json:"date"`
	DurationMinutes int        `json:"duration_minutes"`
	Slots           []SlotView `json:"slots"`
	AvailableCount  int        `json:"available_count"`
	LowAvailability bool       `json:"low_availability"`
	Closed          bool       `json:"closed"`
}

type BookingView struct {
	ID              uuid.UUID  `json:"id"`
	ClientID        uuid.UUID  `json:"client_id"`
	ClientEmail     string     `json:"client_email"`
	StaffID         *uuid.UUID `json:"staff_id,omitempty"`
	Date            string     `json:"date"`
	Slot            string     `json:"slot"`
	DurationMinutes int        `json:"duration_minutes"`
	ServiceSlugs    []string   `json:"service_slugs"`
	PackageTypes    []string   `json:"package_types"`
	Status          string     `json:"status"`
	TotalPriceCents int64      `json:"total_price_cents"`
	GiftCardApplied int64      `json:"gift_card_applied_cents"`
	Note            *string    `json:"note,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type BookingListItem struct {
	ID              uuid.UUID `json:"id"`
	Date            string    `json:"date"`
	Slot            string    `json:"slot"`
	DurationMinutes int       `json:"duration_minutes"`
	ServiceSlugs    []string  `json:"service_slugs"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
}

// GiftCardVerificationView reports balance without mutating the card
type GiftCardVerificationView struct {
	Code           string     `json:"code"`
	BalanceCents   int64      `json:"balance_cents"`
	UsableCents    int64      `json:"usable_cents"`
	RemainderCents int64      `json:"remainder_cents"`
	Expired        bool       `json:"expired"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

type LoyaltyStatusView struct {
	UserID                  uuid.UUID  `json:"user_id"`
	IndividualServicesCount int        `json:"individual_services_count"`
	PackagesCount           int        `json:"packages_count"`
	TotalSpentCents         int64      `json:"total_spent_cents"`
	ServiceRewardEligible   bool       `json:"service_reward_eligible"`
	PackageRewardEligible   bool       `json:"package_reward_eligible"`
	LastVisit               *time.Time `json:"last_visit,omitempty"`
}

type LoyaltySettingsView struct {
	ServiceThreshold      int   `json:"service_threshold"`
	ServiceDiscountCents  int64 `json:"service_discount_cents"`
	PackageThreshold      int   `json:"package_threshold"`
	PackageDiscountCents  int64 `json:"package_discount_cents"`
	BirthdayDiscountCents int64 `json:"birthday_discount_cents"`
	ReferralBonus         int   `json:"referral_bonus"`
	ReviewBonus           int   `json:"review_bonus"`
}

type LoyaltyCreditView struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	AmountCents int64     `json:"amount_cents"`
	GrantedAt   time.Time `json:"granted_at"`
}

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active"`
}
