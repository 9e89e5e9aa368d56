package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"salon-scheduler/internal/events"
	"salon-scheduler/internal/pkg/clock"
	"salon-scheduler/internal/pkg/errs"
	"salon-scheduler/internal/usecase/shared"
)

const (
	relayBatchSize  = 32
	relayRetryDelay = 30 * time.Second
)

// CompletionRelay drains queued completion jobs onto the broker. Delivery is
// at-least-once: a job is marked published only after the broker accepts it,
// so a crash between publish and mark replays the event on the next tick.
type CompletionRelay interface {
	// DispatchPending publishes due jobs and reports how many went out.
	DispatchPending(ctx context.Context) (int, error)
}

type completionRelayImpl struct {
	uow       shared.UnitOfWork
	publisher CompletionPublisher
	clock     clock.Clock
}

func NewCompletionRelay(uow shared.UnitOfWork, publisher CompletionPublisher, clock clock.Clock) CompletionRelay {
	return &completionRelayImpl{uow: uow, publisher: publisher, clock: clock}
}

func (r *completionRelayImpl) DispatchPending(ctx context.Context) (int, error) {
	published := 0
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := r.clock.Now()
		jobs, err := tx.Outbox().ClaimDue(ctx, tx.DB(), now, relayBatchSize)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		for _, job := range jobs {
			if pubErr := r.dispatch(ctx, job); pubErr != nil {
				slog.Warn("completion job delivery failed",
					"job_id", job.ID,
					"attempts", job.Attempts+1,
					"error", pubErr)
				if err := tx.Outbox().MarkFailed(ctx, tx.DB(), job.ID, pubErr.Error(), now.Add(relayRetryDelay)); err != nil {
					return errs.Mark(err, ErrDatabaseOperationFailed)
				}
				continue
			}
			if err := tx.Outbox().MarkPublished(ctx, tx.DB(), job.ID); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			published++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return published, nil
}

func (r *completionRelayImpl) dispatch(ctx context.Context, job shared.CompletionJob) error {
	switch job.Topic {
	case events.TopicBookingCompleted:
		var event events.BookingCompleted
		if err := json.Unmarshal(job.Payload, &event); err != nil {
			return errs.Wrap(err, "malformed completion payload")
		}
		return r.publisher.PublishBookingCompleted(ctx, event)
	default:
		return errs.New("unhandled outbox topic " + job.Topic)
	}
}
