package yarrow

import "context"

// OnDecodeFunc is called after a delivery's body has been decoded into a
// Request, before input validation. err is non-nil when decoding failed;
// in that case req is nil.
type OnDecodeFunc func(ctx context.Context, operator string, req Request, err error)

// OnValidateFunc is called after input or output schema validation. elem
// is nil for an input-validation call. err is nil when validation passed.
type OnValidateFunc func(ctx context.Context, operator string, elem ResultElement, err error)

// OnPublishFunc is called after an envelope has been published to the
// broker, whether PROCESSING, DONE, or ERROR.
type OnPublishFunc func(ctx context.Context, operator string, env Envelope)

// OnAckFunc is called after a delivery has been acknowledged.
type OnAckFunc func(ctx context.Context, operator string, deliveryTag uint64)

// OnErrorFunc is called whenever the dispatch aborts with an error,
// immediately before the ERROR envelope is published. It is also called
// when publishing the DONE envelope fails; no ERROR envelope follows in
// that case.
type OnErrorFunc func(ctx context.Context, operator string, err error)

// hooks holds all configured hook functions for one Dispatcher.
type hooks struct {
	onDecode   []OnDecodeFunc
	onValidate []OnValidateFunc
	onPublish  []OnPublishFunc
	onAck      []OnAckFunc
	onError    []OnErrorFunc
}

// Option configures a Dispatcher's hook behavior.
type Option func(*hooks)

// WithOnDecode adds a hook called after a delivery body has been decoded.
// Multiple hooks run in order.
func WithOnDecode(fn OnDecodeFunc) Option {
	return func(h *hooks) {
		h.onDecode = append(h.onDecode, fn)
	}
}

// WithOnValidate adds a hook called after schema validation. Multiple
// hooks run in order.
func WithOnValidate(fn OnValidateFunc) Option {
	return func(h *hooks) {
		h.onValidate = append(h.onValidate, fn)
	}
}

// WithOnPublish adds a hook called after an envelope is published.
// Multiple hooks run in order.
//
// Example:
//
//	yarrow.WithOnPublish(func(ctx context.Context, op string, env yarrow.Envelope) {
//	    slog.Info("published", "operator", op, "status", env.Status)
//	})
func WithOnPublish(fn OnPublishFunc) Option {
	return func(h *hooks) {
		h.onPublish = append(h.onPublish, fn)
	}
}

// WithOnAck adds a hook called after a delivery is acknowledged. Multiple
// hooks run in order.
func WithOnAck(fn OnAckFunc) Option {
	return func(h *hooks) {
		h.onAck = append(h.onAck, fn)
	}
}

// WithOnError adds a hook called when a dispatch aborts with an error.
// Multiple hooks run in order.
//
// Example:
//
//	yarrow.WithOnError(func(ctx context.Context, op string, err error) {
//	    slog.Error("dispatch failed", "operator", op, "error", err)
//	})
func WithOnError(fn OnErrorFunc) Option {
	return func(h *hooks) {
		h.onError = append(h.onError, fn)
	}
}

func (h *hooks) fireDecode(ctx context.Context, operator string, req Request, err error) {
	for _, fn := range h.onDecode {
		fn(ctx, operator, req, err)
	}
}

func (h *hooks) fireValidate(ctx context.Context, operator string, elem ResultElement, err error) {
	for _, fn := range h.onValidate {
		fn(ctx, operator, elem, err)
	}
}

func (h *hooks) firePublish(ctx context.Context, operator string, env Envelope) {
	for _, fn := range h.onPublish {
		fn(ctx, operator, env)
	}
}

func (h *hooks) fireAck(ctx context.Context, operator string, deliveryTag uint64) {
	for _, fn := range h.onAck {
		fn(ctx, operator, deliveryTag)
	}
}

func (h *hooks) fireError(ctx context.Context, operator string, err error) {
	for _, fn := range h.onError {
		fn(ctx, operator, err)
	}
}
