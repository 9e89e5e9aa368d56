package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicBookingCompleted names the outbox jobs carrying BookingCompleted
// payloads.
const TopicBookingCompleted = "booking.completed"

// BookingCompleted is emitted after a booking transitions to completed.
// The loyalty consumer turns it into a counter increment; delivery is
// at-least-once, so the consumer keys deduplication on BookingID.
type BookingCompleted struct {
	BookingID       uuid.UUID `json:"booking_id"`
	ClientID        uuid.UUID `json:"client_id"`
	HasForfait      bool      `json:"has_forfait"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CompletedAt     time.Time `json:"completed_at"`
}
