// Package yarrow exposes user-defined compute units ("operators") as
// addressable RPC endpoints over an AMQP 0-9-1 broker.
//
// A client publishes a JSON request to the queue named after an operator;
// the dispatcher validates the request against the operator's input
// schema, invokes its Run function, and publishes one or more reply
// envelopes to the caller-supplied reply queue, preserving the caller's
// correlation id.
//
// # Quick Start
//
// Declare an operator by giving it a name, JSON-schema input/output
// descriptors, and a Run function:
//
//	sum := yarrow.MustNewDescriptor(
//	    "example.Sum",
//	    `{"type":"object","properties":{"a":{"type":"integer"},"b":{"type":"integer"}},"required":["a","b"]}`,
//	    `{"type":"object","properties":{"c":{"type":"integer"}},"required":["c"]}`,
//	    func(ctx context.Context, req yarrow.Request, yield func(yarrow.ResultElement) error) error {
//	        a, b := req["a"].(float64), req["b"].(float64)
//	        return yield(yarrow.ResultElement{"c": a + b})
//	    },
//	)
//
// Register it at init time so the server's registry can find it:
//
//	func init() { yarrow.Register(sum) }
//
// Build a registry from a configuration's operator list, open a broker
// channel, and serve:
//
//	registered, err := yarrow.Build([]string{"example.Sum"})
//	srv := yarrow.NewServer(registered, channel)
//	err = srv.Run(ctx)
//
// # Design Philosophy
//
// The package separates concerns into layers:
//
//   - Descriptor: typed input/output schema plus a Run function
//   - Registry: compiled name -> Descriptor resolution, done once at startup
//   - Dispatcher: per-delivery state machine (decode, validate, run, reply, ack)
//   - Envelope: the canonical {request, result, status, error, num} reply shape
//   - Server: declares queues and drives the broker's consume loop
//
// This separation allows:
//   - Operators that only know about their own typed input/output
//   - Transport-agnostic dispatch logic, tested against an in-memory broker.Channel
//   - Consistent observability via hooks
//   - Streaming replies without buffering the whole result sequence
//
// # Validation Precheck
//
// Each operator's input and output validators perform a two-phase check,
// mirroring the cheap-then-expensive pattern common to field-routed
// dispatch:
//
//  1. A cheap top-level required-field presence check against the
//     decoded value
//  2. Full JSON Schema validation, only once the precheck passes
//
// The dispatcher applies the same idiom one level up: a delivery body
// that fails a cheap JSON-validity check is never handed to the
// reflective decoder at all.
//
// # Hooks
//
// Hooks provide observability without coupling the dispatcher to a
// specific logging or metrics system:
//
//	d := yarrow.NewDispatcher(descriptor,
//	    yarrow.WithOnPublish(func(ctx context.Context, op string, env yarrow.Envelope) {
//	        slog.Info("published", "operator", op, "status", env.Status)
//	    }),
//	    yarrow.WithOnError(func(ctx context.Context, op string, err error) {
//	        slog.Error("dispatch failed", "operator", op, "error", err)
//	    }),
//	)
//
// # Acknowledgement and Reply Routing
//
// Every delivery with a non-nil delivery tag is acknowledged exactly
// once, after all replies for it have been published. A reply_to value
// containing '>' is treated as a path-style list: the first segment is
// the routing key, the remainder is forwarded as the outgoing message's
// own reply_to. A missing reply_to routes ERROR replies to the reserved
// __dead_letters_queue__ instead.
package yarrow
