package yarrow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/opcore/yarrow/broker"
)

type HooksSuite struct {
	suite.Suite
}

func TestHooksSuite(t *testing.T) {
	suite.Run(t, new(HooksSuite))
}

func (s *HooksSuite) TestFiresOnPublishAndOnAck() {
	mem := broker.NewMemory()
	s.Require().NoError(mem.QueueDeclare("reply_queue"))

	var publishedStatuses []Status
	var acked []uint64

	d := NewDispatcher(sumDescriptor(),
		WithOnPublish(func(ctx context.Context, op string, env Envelope) {
			publishedStatuses = append(publishedStatuses, env.Status)
		}),
		WithOnAck(func(ctx context.Context, op string, tag uint64) {
			acked = append(acked, tag)
		}),
	)

	delivery := broker.Delivery{
		DeliveryTag:   deliveryTag(7),
		ReplyTo:       "reply_queue",
		CorrelationID: "X",
		Body:          []byte(`{"a":1,"b":2}`),
	}

	s.Require().NoError(d.Handle(context.Background(), mem, delivery))

	s.Assert().Equal([]Status{StatusProcessing, StatusDone}, publishedStatuses)
	s.Assert().Equal([]uint64{7}, acked)
}

func (s *HooksSuite) TestFiresOnErrorAndOnDecode() {
	mem := broker.NewMemory()
	s.Require().NoError(mem.QueueDeclare(deadLetterQueue))

	var decodeErrs []error
	var dispatchErrs []error

	d := NewDispatcher(sumDescriptor(),
		WithOnDecode(func(ctx context.Context, op string, req Request, err error) {
			decodeErrs = append(decodeErrs, err)
		}),
		WithOnError(func(ctx context.Context, op string, err error) {
			dispatchErrs = append(dispatchErrs, err)
		}),
	)

	delivery := broker.Delivery{
		DeliveryTag:   deliveryTag(1),
		ReplyTo:       "",
		CorrelationID: "X",
		Body:          []byte(`{"a":1,"b":2}`),
	}

	s.Require().NoError(d.Handle(context.Background(), mem, delivery))

	s.Require().Len(decodeErrs, 1)
	s.Assert().NoError(decodeErrs[0])

	s.Require().Len(dispatchErrs, 1)
	s.Assert().EqualError(dispatchErrs[0], "No property reply_to")
}

func (s *HooksSuite) TestFiresOnDecodeWithInvalidJSON() {
	mem := broker.NewMemory()
	s.Require().NoError(mem.QueueDeclare("reply_queue"))

	var decodeErrs []error

	d := NewDispatcher(sumDescriptor(),
		WithOnDecode(func(ctx context.Context, op string, req Request, err error) {
			decodeErrs = append(decodeErrs, err)
		}),
	)

	delivery := broker.Delivery{
		DeliveryTag:   deliveryTag(1),
		ReplyTo:       "reply_queue",
		CorrelationID: "X",
		Body:          []byte(`not json`),
	}

	s.Require().NoError(d.Handle(context.Background(), mem, delivery))

	s.Require().Len(decodeErrs, 1)
	s.Assert().ErrorIs(decodeErrs[0], ErrInvalidJSON)
}

func (s *HooksSuite) TestFiresOnValidate() {
	mem := broker.NewMemory()
	s.Require().NoError(mem.QueueDeclare("reply_queue"))

	var validateCalls int

	d := NewDispatcher(sumDescriptor(),
		WithOnValidate(func(ctx context.Context, op string, elem ResultElement, err error) {
			validateCalls++
		}),
	)

	delivery := broker.Delivery{
		DeliveryTag:   deliveryTag(1),
		ReplyTo:       "reply_queue",
		CorrelationID: "X",
		Body:          []byte(`{"a":1,"b":2}`),
	}

	s.Require().NoError(d.Handle(context.Background(), mem, delivery))

	// One call for input validation, one for the single yielded element.
	s.Assert().Equal(2, validateCalls)
}
