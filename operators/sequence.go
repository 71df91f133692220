package operators

import (
	"context"

	"github.com/opcore/yarrow"
)

// Sequence streams {c: a}, {c: a+1}, ..., {c: b-1}, demonstrating a
// multi-element PROCESSING sequence rather than the single-shot result
// Sum and Mul produce.
var Sequence = yarrow.MustNewDescriptor(
	"example.Sequence",
	numberPairSchema,
	singleResultSchema,
	func(ctx context.Context, req yarrow.Request, yield func(yarrow.ResultElement) error) error {
		a, b := int(req["a"].(float64)), int(req["b"].(float64))
		for c := a; c < b; c++ {
			if err := yield(yarrow.ResultElement{"c": c}); err != nil {
				return err
			}
		}
		return nil
	},
)

func init() {
	yarrow.Register(Sequence)
}
