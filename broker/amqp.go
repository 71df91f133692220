package broker

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Dial opens a connection and a single channel against an AMQP 0-9-1
// broker, the same dial-then-channel sequence as
// kedacore/keda's getConnectionAndChannel and ralvescostati's
// rabbitmq.New.
func Dial(host string, port int, vhost, username, password string) (*Conn, error) {
	uri := amqp.URI{
		Scheme:   "amqp",
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		Vhost:    vhost,
	}

	conn, err := amqp.Dial(uri.String())
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &Conn{conn: conn, channel: ch}, nil
}

// Conn owns the AMQP connection and its single channel for the life of
// the server. Close tears both down, channel first.
type Conn struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Channel returns the Channel implementation backed by the live AMQP
// channel.
func (c *Conn) Channel() Channel {
	return &amqpChannel{ch: c.channel}
}

// Close closes the channel then the connection, ignoring either being
// already closed.
func (c *Conn) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn.Close()
	}
	return nil
}

// amqpChannel adapts *amqp091.Channel to the Channel interface.
type amqpChannel struct {
	ch *amqp.Channel
}

func (a *amqpChannel) QueueDeclare(name string) error {
	_, err := a.ch.QueueDeclare(
		name,
		false, // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	return err
}

func (a *amqpChannel) Consume(ctx context.Context, queue string) (<-chan Delivery, error) {
	deliveries, err := a.ch.ConsumeWithContext(
		ctx,
		queue,
		"",    // consumer
		false, // autoAck: the dispatcher acks explicitly
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return nil, err
	}

	out := make(chan Delivery)
	go func() {
		defer close(out)
		for d := range deliveries {
			var tag *uint64
			t := d.DeliveryTag
			tag = &t
			out <- Delivery{
				DeliveryTag:   tag,
				ReplyTo:       d.ReplyTo,
				CorrelationID: d.CorrelationId,
				Body:          d.Body,
			}
		}
	}()
	return out, nil
}

func (a *amqpChannel) Publish(ctx context.Context, routingKey string, body []byte, props Properties) error {
	return a.ch.PublishWithContext(
		ctx,
		"", // exchange: default direct routing by queue name
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			Body:          body,
			CorrelationId: props.CorrelationID,
			ReplyTo:       props.ReplyTo,
		},
	)
}

func (a *amqpChannel) Ack(deliveryTag uint64) error {
	return a.ch.Ack(deliveryTag, false)
}
