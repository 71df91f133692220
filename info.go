package yarrow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opcore/yarrow/broker"
)

// InfoQueue is the reserved queue name clients query for operator schemas.
const InfoQueue = "__info__"

// OperatorInfo describes one registered operator's wire contract.
type OperatorInfo struct {
	Name   string          `json:"name"`
	Input  json.RawMessage `json:"input"`
	Output json.RawMessage `json:"output"`
}

// InfoHandler answers __info__ queries with the schema of every
// registered operator. Unlike Dispatcher it has nothing to validate and
// never publishes an ERROR envelope: a delivery with no reply_to is
// simply acknowledged without a reply.
type InfoHandler struct {
	operators []Registered
}

// NewInfoHandler returns an InfoHandler describing registered.
func NewInfoHandler(registered []Registered) *InfoHandler {
	return &InfoHandler{operators: registered}
}

// Handle answers one __info__ delivery with a JSON array of OperatorInfo.
func (h *InfoHandler) Handle(ctx context.Context, ch broker.Channel, delivery broker.Delivery) error {
	if delivery.ReplyTo == "" {
		return h.ack(ch, delivery)
	}

	infos := make([]OperatorInfo, 0, len(h.operators))
	for _, r := range h.operators {
		infos = append(infos, OperatorInfo{
			Name:   r.Name,
			Input:  schemaOrNull(r.Descriptor.InputSchema),
			Output: schemaOrNull(r.Descriptor.OutputSchema),
		})
	}

	raw, err := json.Marshal(infos)
	if err != nil {
		return fmt.Errorf("encode operator info: %w", err)
	}

	routingKey, outReplyTo := target(delivery.ReplyTo)
	if err := ch.Publish(ctx, routingKey, raw, broker.Properties{
		CorrelationID: delivery.CorrelationID,
		ReplyTo:       outReplyTo,
	}); err != nil {
		return fmt.Errorf("publish operator info: %w", err)
	}

	return h.ack(ch, delivery)
}

func (h *InfoHandler) ack(ch broker.Channel, delivery broker.Delivery) error {
	if delivery.DeliveryTag == nil {
		return nil
	}
	return ch.Ack(*delivery.DeliveryTag)
}

func schemaOrNull(schema string) json.RawMessage {
	if schema == "" {
		return json.RawMessage("null")
	}
	return json.RawMessage(schema)
}
