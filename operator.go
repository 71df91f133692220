package yarrow

import (
	"context"
	"fmt"
)

// Request is a single decoded message body.
type Request = map[string]any

// ResultElement is a single validated output element produced by a Run.
type ResultElement = map[string]any

// RunFunc implements an operator's computation. It receives the decoded,
// input-validated request and calls yield once per output element, in
// order. The dispatcher publishes a PROCESSING envelope for each yield
// call before Run produces its next element, so results reach the caller
// as they are computed rather than after the whole sequence finishes.
// Returning a non-nil error aborts the dispatch with an ERROR envelope;
// elements already yielded before the error have already been published
// and are not retracted.
type RunFunc func(ctx context.Context, req Request, yield func(ResultElement) error) error

// Descriptor describes one operator: its wire name, input/output schema
// validators, and its RunFunc. A Descriptor is abstract when it is
// missing an input schema, an output schema, or a RunFunc: Register
// accepts it, but Build refuses it, so it is never bound to a queue or
// listed by __info__, the same abstract-base-class convention the
// original operator registry enforced at class-definition time.
type Descriptor struct {
	Name         string
	InputSchema  string
	OutputSchema string
	Run          RunFunc

	inputValidator  *Validator
	outputValidator *Validator
}

// Abstract reports whether this descriptor is missing an input schema,
// an output schema, or a RunFunc — the three-way check that decides
// whether a registered name resolves to a live, bindable operator.
func (d *Descriptor) Abstract() bool {
	return d.InputSchema == "" || d.OutputSchema == "" || d.Run == nil
}

// ValidateInput checks req against the descriptor's input schema. A
// descriptor with no input schema accepts anything (such a descriptor is
// always Abstract, so this path is only reachable against a descriptor
// that was never bound to a queue).
func (d *Descriptor) ValidateInput(req Request) error {
	if d.inputValidator == nil {
		return nil
	}
	return d.inputValidator.Validate(req)
}

// ValidateOutput checks a single result element against the descriptor's
// output schema. A descriptor with no output schema accepts anything.
func (d *Descriptor) ValidateOutput(elem ResultElement) error {
	if d.outputValidator == nil {
		return nil
	}
	return d.outputValidator.Validate(elem)
}

// NewDescriptor compiles inputSchema and outputSchema, if non-empty, and
// returns a Descriptor bound to run. run may be nil to declare an
// abstract operator.
func NewDescriptor(name, inputSchema, outputSchema string, run RunFunc) (*Descriptor, error) {
	d := &Descriptor{
		Name:         name,
		InputSchema:  inputSchema,
		OutputSchema: outputSchema,
		Run:          run,
	}
	if inputSchema != "" {
		v, err := NewValidator(inputSchema)
		if err != nil {
			return nil, fmt.Errorf("operator %s: input schema: %w", name, err)
		}
		d.inputValidator = v
	}
	if outputSchema != "" {
		v, err := NewValidator(outputSchema)
		if err != nil {
			return nil, fmt.Errorf("operator %s: output schema: %w", name, err)
		}
		d.outputValidator = v
	}
	return d, nil
}

// MustNewDescriptor is like NewDescriptor but panics on error. Intended
// for package-level initialization in operator packages, where a bad
// schema is a programming error caught at process startup.
func MustNewDescriptor(name, inputSchema, outputSchema string, run RunFunc) *Descriptor {
	d, err := NewDescriptor(name, inputSchema, outputSchema, run)
	if err != nil {
		panic(err)
	}
	return d
}
