package autodiff

import (
	"context"
	"fmt"

	"github.com/gradloop/gradloop/loop"
	"github.com/gradloop/gradloop/tensor"
	"github.com/gradloop/gradloop/tree"
)

// A tape drives loops directly: folding on a tape records every step's tensor
// work, and the masked select keeps gradients flowing to whichever value each
// leaf element actually took.
var _ loop.Engine = (*Tape)(nil)

// Fold applies step exactly steps times, checking ctx before each step. All
// float64 tensor work the steps perform lands on the tape.
func (t *Tape) Fold(ctx context.Context, init loop.Carry, steps int, step loop.StepFunc) (loop.Carry, error) {
	if step == nil {
		return loop.Carry{}, fmt.Errorf("fold: %w", ErrNilStep)
	}
	carry := init
	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return loop.Carry{}, fmt.Errorf("fold: step=%d: %w", i, err)
		}
		next, err := step(ctx, i, carry)
		if err != nil {
			return loop.Carry{}, err
		}
		carry = next
	}
	return carry, nil
}

// Select keeps candidate leaves while active is true and prev leaves once the
// loop has stopped. Float64 leaves record, so frozen steps pass gradients
// straight through to the surviving value.
func (t *Tape) Select(active *tensor.Tensor, candidate, prev tree.Value) (tree.Value, error) {
	return tree.Map2(candidate, prev, func(cl, pl *tensor.Tensor) (*tensor.Tensor, error) {
		return t.Where(active, cl, pl)
	})
}
