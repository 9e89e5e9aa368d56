package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"salon-scheduler/internal/pkg/config"
	"salon-scheduler/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer drains the completed-booking queue and feeds the loyalty
// ledger. It reconnects with capped backoff and keeps running until the
// context is cancelled. Failed messages are rejected without requeue so a
// poison message cannot stall the queue.
type Consumer struct {
	cfg     config.AMQPConfig
	handler CompletionHandlerFunc
}

// CompletionHandlerFunc avoids a hard dependency on the commands package.
type CompletionHandlerFunc func(ctx context.Context, event BookingCompleted) error

func NewConsumer(cfg config.AMQPConfig, handler CompletionHandlerFunc) *Consumer {
	return &Consumer{cfg: cfg, handler: handler}
}

func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		conn, err := amqp.Dial(c.cfg.URL)
		if err != nil {
			slog.Warn("completion consumer failed to dial broker",
				"error", err,
				"retry_in", backoff.String())
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := c.consumeLoop(ctx, conn); err != nil {
			if errors.Is(err, context.Canceled) {
				_ = conn.Close()
				return err
			}
			slog.Warn("completion consume loop ended, reconnecting", "error", err)
		}
		_ = conn.Close()
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return errs.Wrap(err, "failed to open channel")
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.cfg.PrefetchCount, 0, false); err != nil {
		slog.Warn("failed to set QoS", "error", err)
	}

	if _, err := ch.QueueDeclare(c.cfg.CompletedQueue, true, false, false, false, nil); err != nil {
		return errs.Wrap(err, "failed to declare queue")
	}

	msgs, err := ch.Consume(c.cfg.CompletedQueue, "", false, false, false, false, nil)
	if err != nil {
		return errs.Wrap(err, "failed to start consuming")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errs.New("deliveries channel closed")
			}
			if err := c.handleDelivery(ctx, d.Body); err != nil {
				slog.Error("failed to handle completion event", "error", err)
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, body []byte) error {
	var event BookingCompleted
	if err := json.Unmarshal(body, &event); err != nil {
		return errs.Wrap(err, "failed to unmarshal completion event")
	}

	slog.Info("processing completion event",
		"booking_id", event.BookingID,
		"client_id", event.ClientID,
		"has_forfait", event.HasForfait)

	return c.handler(ctx, event)
}
