package yarrow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/opcore/yarrow/broker"
)

// deadLetterQueue receives ERROR envelopes for deliveries that carry no
// reply_to, since there is nowhere else to route them.
const deadLetterQueue = "__dead_letters_queue__"

// ErrInvalidJSON is the decode error reported for a delivery body that
// fails a cheap gjson validity check, run before the reflective
// encoding/json.Unmarshal pass: the same cheap-check-before-expensive-
// work idiom the Schema Adapter applies to required fields, applied here
// to the body as a whole before paying for a full decode of garbage.
var ErrInvalidJSON = errors.New("invalid JSON")

// Dispatcher drives the per-delivery state machine for one operator:
// decode, validate, run, reply, acknowledge.
type Dispatcher struct {
	descriptor *Descriptor
	hooks      hooks
}

// NewDispatcher builds a Dispatcher bound to d.
func NewDispatcher(d *Descriptor, opts ...Option) *Dispatcher {
	disp := &Dispatcher{descriptor: d}
	for _, opt := range opts {
		opt(&disp.hooks)
	}
	return disp
}

// Handle processes one delivery end to end: it decodes the body, checks
// the three required broker properties, validates the request against
// the operator's input schema, invokes Run, publishes a PROCESSING
// envelope for each yielded element, publishes a terminal DONE or ERROR
// envelope, and acknowledges the delivery exactly once.
//
// The body is decoded before the property checks run, even though a
// decode failure is reported after them: this guarantees every error
// path has some request value to embed in its ERROR envelope, including
// the "No property reply_to" path, where the original only had a raw
// dict to work with.
func (d *Dispatcher) Handle(ctx context.Context, ch broker.Channel, delivery broker.Delivery) error {
	op := d.descriptor.Name

	var req Request
	var decodeErr error
	if !gjson.ValidBytes(delivery.Body) {
		decodeErr = ErrInvalidJSON
	} else {
		decodeErr = json.Unmarshal(delivery.Body, &req)
	}
	d.hooks.fireDecode(ctx, op, req, decodeErr)

	var reqVal any = req
	if decodeErr != nil {
		reqVal = string(delivery.Body)
	}

	if delivery.ReplyTo == "" {
		return d.fail(ctx, ch, delivery, reqVal, errors.New("No property reply_to"), true)
	}
	if delivery.DeliveryTag == nil {
		return d.fail(ctx, ch, delivery, reqVal, errors.New("No delivery tag"), false)
	}
	if delivery.CorrelationID == "" {
		return d.fail(ctx, ch, delivery, reqVal, errors.New("No correlation_id"), false)
	}

	if d.descriptor.Abstract() {
		return d.fail(ctx, ch, delivery, reqVal, fmt.Errorf("%w: %s", ErrAbstractOperator, op), false)
	}

	if decodeErr != nil {
		return d.fail(ctx, ch, delivery, reqVal, fmt.Errorf("decode request: %w", decodeErr), false)
	}

	if err := d.descriptor.ValidateInput(req); err != nil {
		d.hooks.fireValidate(ctx, op, nil, err)
		return d.fail(ctx, ch, delivery, reqVal, err, false)
	}
	d.hooks.fireValidate(ctx, op, nil, nil)

	num := 0
	runErr := d.descriptor.Run(ctx, req, func(elem ResultElement) error {
		if err := d.descriptor.ValidateOutput(elem); err != nil {
			d.hooks.fireValidate(ctx, op, elem, err)
			return err
		}
		d.hooks.fireValidate(ctx, op, elem, nil)

		if err := d.publish(ctx, ch, delivery, NewProcessing(reqVal, elem, num)); err != nil {
			return err
		}
		num++
		return nil
	})

	if runErr != nil {
		return d.fail(ctx, ch, delivery, reqVal, runErr, false)
	}

	if err := d.publish(ctx, ch, delivery, NewDone(reqVal, num)); err != nil {
		d.hooks.fireError(ctx, op, err)
		return err
	}

	return d.ack(ctx, ch, delivery)
}

// fail publishes an ERROR envelope for err and, if publishing succeeded,
// acknowledges the delivery. deadLetter routes the envelope to
// deadLetterQueue instead of the delivery's own reply_to, for the case
// where reply_to is absent entirely.
func (d *Dispatcher) fail(ctx context.Context, ch broker.Channel, delivery broker.Delivery, reqVal any, err error, deadLetter bool) error {
	d.hooks.fireError(ctx, d.descriptor.Name, err)

	env := NewError(reqVal, err.Error())

	var pubErr error
	if deadLetter {
		pubErr = d.publishTo(ctx, ch, deadLetterQueue, "", delivery.CorrelationID, env)
	} else {
		pubErr = d.publish(ctx, ch, delivery, env)
	}
	if pubErr != nil {
		return pubErr
	}
	return d.ack(ctx, ch, delivery)
}

// publish routes env to delivery's reply_to, splitting it path-style.
func (d *Dispatcher) publish(ctx context.Context, ch broker.Channel, delivery broker.Delivery, env Envelope) error {
	routingKey, outReplyTo := target(delivery.ReplyTo)
	return d.publishTo(ctx, ch, routingKey, outReplyTo, delivery.CorrelationID, env)
}

func (d *Dispatcher) publishTo(ctx context.Context, ch broker.Channel, routingKey, replyTo, correlationID string, env Envelope) error {
	raw, err := Encode(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	if err := ch.Publish(ctx, routingKey, raw, broker.Properties{
		CorrelationID: correlationID,
		ReplyTo:       replyTo,
	}); err != nil {
		return fmt.Errorf("publish envelope: %w", err)
	}
	d.hooks.firePublish(ctx, d.descriptor.Name, env)
	return nil
}

func (d *Dispatcher) ack(ctx context.Context, ch broker.Channel, delivery broker.Delivery) error {
	if delivery.DeliveryTag == nil {
		return nil
	}
	if err := ch.Ack(*delivery.DeliveryTag); err != nil {
		return fmt.Errorf("ack delivery: %w", err)
	}
	d.hooks.fireAck(ctx, d.descriptor.Name, *delivery.DeliveryTag)
	return nil
}

// target splits a path-style reply_to ("a>b>c") into the routing key for
// this hop ("a") and the reply_to to forward on the outgoing message
// ("b>c"). A reply_to with no '>' routes with an empty outgoing reply_to.
func target(replyTo string) (routingKey, outReplyTo string) {
	if i := strings.IndexByte(replyTo, '>'); i >= 0 {
		return replyTo[:i], replyTo[i+1:]
	}
	return replyTo, ""
}
