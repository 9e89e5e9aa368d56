package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotPending   = errors.New("booking is not pending")
	ErrNotActive    = errors.New("booking is not active")
	ErrNotConfirmed = errors.New("booking is not confirmed")
	ErrNoServices   = errors.New("booking requires at least one service")
)

// Booking is a confirmed-or-in-flight appointment occupying one interval.
// It is created pending at submission and flipped to confirmed inside the
// same transaction once the binding availability re-check passes.
type Booking struct {
	id              uuid.UUID
	clientID        uuid.UUID
	staffID         *uuid.UUID
	slot            SlotTime
	durationMinutes int
	serviceSlugs    []string
	packageTypes    []string
	status          Status
	totalPrice      Money
	giftCardApplied int64
	note            Note
	createdAt       time.Time
	updatedAt       time.Time
}

func NewBooking(
	clientID uuid.UUID,
	staffID *uuid.UUID,
	slot SlotTime,
	durationMinutes int,
	serviceSlugs []string,
	packageTypes []string,
	totalPrice Money,
	giftCardApplied int64,
	note Note,
) (*Booking, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if len(serviceSlugs) == 0 {
		return nil, ErrNoServices
	}

	return &Booking{
		id:              uuid.New(),
		clientID:        clientID,
		staffID:         staffID,
		slot:            slot,
		durationMinutes: durationMinutes,
		serviceSlugs:    serviceSlugs,
		packageTypes:    packageTypes,
		status:          StatusPending,
		totalPrice:      totalPrice,
		giftCardApplied: giftCardApplied,
		note:            note,
	}, nil
}

func ReconstructBooking(
	id, clientID uuid.UUID,
	staffID *uuid.UUID,
	slot SlotTime,
	durationMinutes int,
	serviceSlugs, packageTypes []string,
	status Status,
	totalPrice Money,
	giftCardApplied int64,
	note Note,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		clientID:        clientID,
		staffID:         staffID,
		slot:            slot,
		durationMinutes: durationMinutes,
		serviceSlugs:    serviceSlugs,
		packageTypes:    packageTypes,
		status:          status,
		totalPrice:      totalPrice,
		giftCardApplied: giftCardApplied,
		note:            note,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// Confirm transitions a pending booking to confirmed after the binding re-check.
func (b *Booking) Confirm() error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	b.status = StatusConfirmed
	return nil
}

// Cancel frees the interval. Completed bookings cannot be cancelled.
func (b *Booking) Cancel() error {
	if !b.status.IsActive() {
		return ErrNotActive
	}
	b.status = StatusCancelled
	return nil
}

// Complete is the operational action that later drives the rewards ledger.
func (b *Booking) Complete() error {
	if b.status != StatusConfirmed {
		return ErrNotConfirmed
	}
	b.status = StatusCompleted
	return nil
}

// HasForfait reports whether any package type marks a bundle, which decides
// which loyalty counter a completion event increments. It works on raw
// package types so callers holding a persisted snapshot can share the rule.
func HasForfait(packageTypes []string) bool {
	for _, p := range packageTypes {
		if p == "forfait" {
			return true
		}
	}
	return false
}

func (b *Booking) HasForfait() bool {
	return HasForfait(b.packageTypes)
}

func (b *Booking) EndMinute() int {
	return b.slot.StartMinute() + b.durationMinutes
}

func (b *Booking) ID() uuid.UUID          { return b.id }
func (b *Booking) ClientID() uuid.UUID    { return b.clientID }
func (b *Booking) StaffID() *uuid.UUID    { return b.staffID }
func (b *Booking) Slot() SlotTime         { return b.slot }
func (b *Booking) DurationMinutes() int   { return b.durationMinutes }
func (b *Booking) ServiceSlugs() []string { return b.serviceSlugs }
func (b *Booking) PackageTypes() []string { return b.packageTypes }
func (b *Booking) Status() Status         { return b.status }
func (b *Booking) TotalPrice() Money      { return b.totalPrice }
func (b *Booking) GiftCardApplied() int64 { return b.giftCardApplied }
func (b *Booking) Note() Note             { return b.note }
func (b *Booking) CreatedAt() time.Time   { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time   { return b.updatedAt }
