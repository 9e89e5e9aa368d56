package shared

import (
	"time"

	"github.com/google/uuid"
)

type ServiceSnapshot struct {
	ID              uuid.UUID
	Slug            string
	Name            string
	DurationMinutes int
	BasePriceCents  int64
	PromoPriceCents *int64
	ForfaitCents    *int64
	Active          bool
}

type BookingSnapshot struct {
	ID              uuid.UUID
	ClientID        uuid.UUID
	Date            time.Time
	StartMinute     int
	DurationMinutes int
	PackageTypes    []string
	Status          string
	TotalPriceCents int64
}

type IntervalSnapshot struct {
	StartMinute     int
	DurationMinutes int
}

type BlockedSnapshot struct {
	Date       time.Time
	Full       bool
	FromMinute int
	ToMinute   int
}

type GiftCardSnapshot struct {
	ID           uuid.UUID
	Code         string
	BalanceCents int64
	ExpiresAt    *time.Time
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Status          string
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}
