// Package broker defines the narrow AMQP 0-9-1 surface the dispatcher
// consumes, and a concrete adapter over github.com/rabbitmq/amqp091-go.
//
// The broker client, connection, and channel lifecycle are external
// collaborators: this package exists only to give the core a small,
// mockable interface rather than depending on *amqp091.Channel directly.
// See ralvescostati-toolkit's AMQPChannel and inturn-kit's transport/amqp
// Channel interface for the pattern this follows.
package broker

import "context"

// Delivery is the per-message tuple the core receives for one delivery.
// DeliveryTag is a pointer so "missing" (nil) is distinguishable from the
// zero tag value, matching the precondition checks in spec §4.3.
type Delivery struct {
	DeliveryTag   *uint64
	ReplyTo       string
	CorrelationID string
	Body          []byte
}

// Properties are the subset of AMQP message properties the dispatcher sets
// on a published reply.
type Properties struct {
	CorrelationID string
	ReplyTo       string
}

// Channel is the broker surface the dispatcher and server depend on.
// exchange is always the empty string (default direct exchange), so it is
// not part of this interface; routingKey doubles as the destination queue
// name.
type Channel interface {
	// QueueDeclare idempotently creates a queue.
	QueueDeclare(name string) error

	// Consume registers a consumer on queue and returns a channel of
	// deliveries. The returned channel is closed when the consumer is
	// cancelled or the underlying connection closes.
	Consume(ctx context.Context, queue string) (<-chan Delivery, error)

	// Publish sends one message to routingKey on the default exchange.
	Publish(ctx context.Context, routingKey string, body []byte, props Properties) error

	// Ack positively acknowledges a single delivery.
	Ack(deliveryTag uint64) error
}
