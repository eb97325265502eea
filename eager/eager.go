package eager

import (
	"context"
	"errors"
	"fmt"

	"github.com/gradloop/gradloop/loop"
	"github.com/gradloop/gradloop/tensor"
	"github.com/gradloop/gradloop/tree"
)

var (
	// ErrMissingBackend is returned by New when no tensor backend is wired.
	ErrMissingBackend = errors.New("missing tensor backend")
	// ErrNilStep is returned by Fold when the step function is nil.
	ErrNilStep = errors.New("step function is nil")
)

// Engine evaluates fold steps immediately on a tensor backend, one at a time
// on the calling goroutine.
type Engine struct {
	backend tensor.Backend
}

var _ loop.Engine = (*Engine)(nil)

func New(backend tensor.Backend) (*Engine, error) {
	if backend == nil {
		return nil, fmt.Errorf("new eager engine: %w", ErrMissingBackend)
	}
	return &Engine{backend: backend}, nil
}

// Fold applies step exactly steps times, checking ctx before each step.
func (e *Engine) Fold(ctx context.Context, init loop.Carry, steps int, step loop.StepFunc) (loop.Carry, error) {
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
// loop has stopped.
func (e *Engine) Select(active *tensor.Tensor, candidate, prev tree.Value) (tree.Value, error) {
	return tree.Map2(candidate, prev, func(cl, pl *tensor.Tensor) (*tensor.Tensor, error) {
		return e.backend.Where(active, cl, pl)
	})
}

// And combines two bool flags elementwise.
func (e *Engine) And(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return e.backend.And(a, b)
}
