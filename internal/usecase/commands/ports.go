package commands

import (
	"context"

	"salon-scheduler/internal/events"
)

// CompletionPublisher hands completed-booking events to the message broker.
// Only the relay publishes; command handlers enqueue jobs and never talk to
// the broker directly.
type CompletionPublisher interface {
	PublishBookingCompleted(ctx context.Context, event events.BookingCompleted) error
}
