package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"salon-scheduler/internal/domain/loyalty"
	"salon-scheduler/internal/events"
	"salon-scheduler/internal/pkg/config"
	"salon-scheduler/internal/usecase/commands"

	"go.uber.org/fx"
)

var AMQPModule = fx.Module("amqp",
	fx.Provide(
		NewEventPublisher,
		fx.Annotate(
			func(p *events.Publisher) *events.Publisher { return p },
			fx.As(new(commands.CompletionPublisher)),
		),
		NewCompletionConsumer,
		commands.NewCompletionRelay,
	),
	fx.Invoke(RunCompletionConsumer, RunCompletionRelay),
)

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config) (*events.Publisher, error) {
	publisher, cleanup, err := events.NewPublisher(cfg.AMQP)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return publisher, nil
}

// NewCompletionConsumer feeds completed bookings into the loyalty ledger.
// Forfait bookings advance the package counter, everything else the
// individual one.
func NewCompletionConsumer(cfg config.Config, loyaltyCommands commands.LoyaltyCommands) *events.Consumer {
	return events.NewConsumer(cfg.AMQP, func(ctx context.Context, event events.BookingCompleted) error {
		kind := loyalty.KindIndividual
		if event.HasForfait {
			kind = loyalty.KindPackage
		}
		return loyaltyCommands.RecordCompletion(ctx, event.ClientID, kind, event.TotalPriceCents)
	})
}

// RunCompletionRelay ticks the outbox relay so completion jobs enqueued
// during a broker outage eventually reach the queue.
func RunCompletionRelay(lc fx.Lifecycle, cfg config.Config, relay commands.CompletionRelay) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				ticker := time.NewTicker(cfg.AMQP.RelayInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if _, err := relay.DispatchPending(ctx); err != nil {
							slog.Error("completion relay dispatch failed", "error", err)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}

func RunCompletionConsumer(lc fx.Lifecycle, consumer *events.Consumer) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := consumer.Run(ctx); err != nil {
					slog.Error("completion consumer stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
