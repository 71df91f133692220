// Package operators holds the example operators shipped alongside the
// worker framework: Sum and Mul (single-result arithmetic) and Sequence
// (a streaming operator), the Go equivalents of example/example.py's
// Sum and Mul.
package operators

import (
	"context"

	"github.com/opcore/yarrow"
)

const numberPairSchema = `{
	"type": "object",
	"properties": {
		"a": {"type": "integer"},
		"b": {"type": "integer"}
	},
	"required": ["a", "b"]
}`

const singleResultSchema = `{
	"type": "object",
	"properties": {
		"c": {"type": "integer"}
	},
	"required": ["c"]
}`

// Sum adds two integers.
var Sum = yarrow.MustNewDescriptor(
	"example.Sum",
	numberPairSchema,
	singleResultSchema,
	func(ctx context.Context, req yarrow.Request, yield func(yarrow.ResultElement) error) error {
		a, b := req["a"].(float64), req["b"].(float64)
		return yield(yarrow.ResultElement{"c": a + b})
	},
)

// Mul multiplies two integers.
var Mul = yarrow.MustNewDescriptor(
	"example.Mul",
	numberPairSchema,
	singleResultSchema,
	func(ctx context.Context, req yarrow.Request, yield func(yarrow.ResultElement) error) error {
		a, b := req["a"].(float64), req["b"].(float64)
		return yield(yarrow.ResultElement{"c": a * b})
	},
)

func init() {
	yarrow.Register(Sum)
	yarrow.Register(Mul)
}
