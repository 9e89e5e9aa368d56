package events

import (
	"context"
	"encoding/json"
	"time"

	"salon-scheduler/internal/pkg/config"
	"salon-scheduler/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher pushes completion events onto a durable queue on the default
// exchange. One connection lives for the process; a channel is opened per
// publish because channels are not safe for concurrent use.
type Publisher struct {
	conn  *amqp.Connection
	queue string
}

func NewPublisher(cfg config.AMQPConfig) (*Publisher, func(), error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to dial broker")
	}

	// Declare once at startup so the first publish cannot race the consumer.
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to open channel")
	}
	if _, err := ch.QueueDeclare(cfg.CompletedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to declare queue")
	}
	_ = ch.Close()

	cleanup := func() { _ = conn.Close() }
	return &Publisher{conn: conn, queue: cfg.CompletedQueue}, cleanup, nil
}

func (p *Publisher) PublishBookingCompleted(ctx context.Context, event BookingCompleted) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return errs.Wrap(err, "failed to open channel")
	}
	defer func() { _ = ch.Close() }()

	body, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "failed to marshal event")
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return errs.Wrap(err, "failed to publish event")
	}
	return nil
}
