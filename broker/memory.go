package broker

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Channel used by tests and examples. It has no
// network dependency: Publish appends directly to the named queue's
// buffer, and Consume drains that buffer as a channel.
type Memory struct {
	mu       sync.Mutex
	queues   map[string][]Delivery
	consumed map[string]chan Delivery
	nextTag  uint64
	acked    map[uint64]bool
}

// NewMemory returns an empty Memory broker.
func NewMemory() *Memory {
	return &Memory{
		queues:   make(map[string][]Delivery),
		consumed: make(map[string]chan Delivery),
		acked:    make(map[uint64]bool),
	}
}

func (m *Memory) QueueDeclare(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.queues[name]; !ok {
		m.queues[name] = nil
	}
	return nil
}

// Consume returns a channel fed by Publish calls targeting queue. Memory
// does not support more than one consumer per queue.
func (m *Memory) Consume(ctx context.Context, queue string) (<-chan Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.consumed[queue]; ok {
		return nil, fmt.Errorf("queue %s already has a consumer", queue)
	}
	ch := make(chan Delivery, 64)
	m.consumed[queue] = ch
	for _, d := range m.queues[queue] {
		ch <- d
	}
	m.queues[queue] = nil
	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.consumed, queue)
		close(ch)
		m.mu.Unlock()
	}()
	return ch, nil
}

// Publish appends a Delivery to routingKey's queue. If a consumer is
// already attached, the delivery is pushed straight to it; otherwise it
// is buffered until a consumer attaches.
func (m *Memory) Publish(ctx context.Context, routingKey string, body []byte, props Properties) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tag := m.nextTag
	m.nextTag++

	d := Delivery{
		DeliveryTag:   &tag,
		ReplyTo:       props.ReplyTo,
		CorrelationID: props.CorrelationID,
		Body:          body,
	}

	if ch, ok := m.consumed[routingKey]; ok {
		ch <- d
		return nil
	}
	m.queues[routingKey] = append(m.queues[routingKey], d)
	return nil
}

func (m *Memory) Ack(deliveryTag uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked[deliveryTag] = true
	return nil
}

// Acked reports whether deliveryTag has been acknowledged.
func (m *Memory) Acked(deliveryTag uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acked[deliveryTag]
}

// Drain removes and returns up to n Deliveries currently buffered on
// queue. It does not block: if fewer than n are buffered, it returns
// only those. Intended for assertions in tests against a reply queue
// that was never bound to a Consume loop.
func (m *Memory) Drain(queue string, n int) []Delivery {
	m.mu.Lock()
	got := m.queues[queue]
	if len(got) > n {
		got = got[:n]
	}
	remaining := m.queues[queue][len(got):]
	m.queues[queue] = remaining
	m.mu.Unlock()
	return got
}
