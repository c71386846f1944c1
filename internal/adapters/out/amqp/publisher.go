// Package amqp bridges notification bus events onto a RabbitMQ topic
// exchange so external consumers (mobile push workers, analytics) receive
// the same events as the websocket subscribers.
package amqp

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"oshxona/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange is the topic exchange all notification events are published to.
const Exchange = "notifications"

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher implements ports.NotificationBus on top of a RabbitMQ channel.
// Publishing is best effort: a broker failure is logged and the event is
// dropped, it never fails the operation that produced it.
type Publisher struct {
	ch     channel
	logger *slog.Logger
}

// NewPublisher declares the notifications exchange and returns a Publisher
// bound to it.
func NewPublisher(ch channel, logger *slog.Logger) (*Publisher, error) {
	if err := ch.ExchangeDeclare(
		Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, err
	}

	return &Publisher{ch: ch, logger: logger}, nil
}

// Publish implements ports.NotificationBus.
func (p *Publisher) Publish(event ports.Event) {
	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to encode notification event",
			"topic", event.Topic, "kind", event.Kind, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.ch.PublishWithContext(ctx,
		Exchange,
		routingKey(event.Topic),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    event.At,
		},
	); err != nil {
		p.logger.Error("failed to publish notification event",
			"topic", event.Topic, "kind", event.Kind, "error", err)
	}
}

// routingKey rewrites the bus topic into dotted form so consumers can use
// topic exchange wildcards, e.g. "branch.*" for all branch events.
func routingKey(topic string) string {
	return strings.ReplaceAll(topic, ":", ".")
}

// FanOutBus publishes every event to all wrapped buses in order.
type FanOutBus []ports.NotificationBus

// Publish implements ports.NotificationBus.
func (f FanOutBus) Publish(event ports.Event) {
	for _, bus := range f {
		bus.Publish(event)
	}
}
