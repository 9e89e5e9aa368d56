package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Catalog errors
	ErrUnknownService = errors.New("unknown service")

	// Booking errors
	ErrBookingNotFound  = errors.New("booking not found")
	ErrSlotConflict     = errors.New("slot conflict")
	ErrInvalidSlot      = errors.New("invalid slot")
	ErrBookingNotActive = errors.New("booking is not active")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrIdempotencyCheckFailed = errors.New("idempotency check failed")

	// Loyalty errors
	ErrLoyaltyProfileNotFound = errors.New("loyalty profile not found")
	ErrThresholdNotMet        = errors.New("loyalty threshold not met")

	// Gift card errors
	ErrInvalidGiftCardCode = errors.New("invalid gift card code")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
