package loop

import (
	"context"

	"github.com/gradloop/gradloop/tensor"
	"github.com/gradloop/gradloop/tree"
)

// Condition evaluates the loop predicate over a carried state. It must return
// a bool scalar tensor for every state the loop can reach.
type Condition func(state tree.Value) (*tensor.Tensor, error)

// Body advances the carried state by one application. The result must keep
// the input's container structure, leaf dtypes, and leaf shapes.
type Body func(state tree.Value) (tree.Value, error)

// Carry threads the user state and its derived active flag through the fold.
// The flag is a bool scalar: true while the emulated loop is still running.
type Carry struct {
	State  tree.Value
	Active *tensor.Tensor
}

// Clone returns a carry with copied containers. Leaf tensors and the active
// flag are immutable and stay shared.
func (c Carry) Clone() Carry {
	return Carry{State: c.State.Clone(), Active: c.Active}
}

// StepFunc is one masked fold step composed by the runner. step counts from 1.
type StepFunc func(ctx context.Context, step int, carry Carry) (Carry, error)

// Engine supplies the execution primitives the runner delegates to: the
// fixed-trip-count fold driver, the leaf-wise select between two states, and
// boolean flag combination. Implementations decide how the fold is evaluated;
// the runner only guarantees it asks for exactly steps applications of step.
type Engine interface {
	Fold(ctx context.Context, init Carry, steps int, step StepFunc) (Carry, error)
	Select(active *tensor.Tensor, candidate, prev tree.Value) (tree.Value, error)
	And(a, b *tensor.Tensor) (*tensor.Tensor, error)
}

// StepObserver receives every completed fold step. Observer errors abort the
// run.
type StepObserver interface {
	ObserveStep(ctx context.Context, step int, carry Carry) error
}

type noopStepObserver struct{}

func (noopStepObserver) ObserveStep(context.Context, int, Carry) error { return nil }
