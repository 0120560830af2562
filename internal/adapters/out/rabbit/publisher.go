// Package rabbit publishes outbox notifications to a RabbitMQ fanout exchange.
package rabbit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"workshop/internal/core/domain/model/notification"
	"workshop/internal/pkg/errs"

	"github.com/rabbitmq/amqp091-go"
)

const contentType = "application/json"

// Channel is the part of *amqp091.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type Publisher struct {
	conn     *amqp091.Connection
	ch       Channel
	exchange string
	logger   *slog.Logger
}

// Dial connects to the broker and declares the exchange.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	p, err := NewPublisher(ch, exchange, logger)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher declares a durable fanout exchange on ch and publishes to it.
func NewPublisher(ch Channel, exchange string, logger *slog.Logger) (*Publisher, error) {
	if ch == nil {
		return nil, errs.NewValueIsRequiredError("channel")
	}
	if exchange == "" {
		return nil, errs.NewValueIsRequiredError("exchange")
	}
	if err := ch.ExchangeDeclare(exchange, amqp091.ExchangeFanout, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		logger:   logger.With("component", "rabbit_publisher"),
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, n *notification.Notification) error {
	if n == nil {
		return errs.NewValueIsRequiredError("notification")
	}
	body, err := encode(n)
	if err != nil {
		return err
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, "", false, false, amqp091.Publishing{
		ContentType:  contentType,
		DeliveryMode: amqp091.Persistent,
		MessageId:    n.ID().String(),
		Type:         string(n.Kind()),
		Timestamp:    n.CreatedAt().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish notification %s: %w", n.ID(), err)
	}

	p.logger.DebugContext(ctx, "Notification published",
		"notification_id", n.ID().String(), "order_number", n.OrderNumber(), "channel", n.Channel())
	return nil
}

func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}

// LogPublisher stands in for the broker when none is configured: it only logs
// the notification, so the relay still drains the outbox.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "log_publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, n *notification.Notification) error {
	if n == nil {
		return errs.NewValueIsRequiredError("notification")
	}
	p.logger.InfoContext(ctx, "Notification ready",
		"notification_id", n.ID().String(),
		"order_number", n.OrderNumber(),
		"channel", n.Channel(),
		"message", n.Message())
	return nil
}
