package loop_test

import (
	"context"
	"testing"

	"github.com/gradloop/gradloop/eager"
	"github.com/gradloop/gradloop/loop"
	"github.com/gradloop/gradloop/tensor"
	"github.com/gradloop/gradloop/tensor/cpu"
	"github.com/gradloop/gradloop/tree"
)

func newEngine(t *testing.T) loop.Engine {
	t.Helper()

	engine, err := eager.New(cpu.New())
	if err != nil {
		t.Fatalf("new eager engine: %v", err)
	}
	return engine
}

func newRunner(t *testing.T) *loop.Runner {
	t.Helper()

	runner, err := loop.NewRunner(loop.Dependencies{Engine: newEngine(t)})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return runner
}

func scalarState(v float64) tree.Value {
	return tree.Leaf(tensor.Float64Scalar(v))
}

func scalarOf(t *testing.T, v tree.Value) float64 {
	t.Helper()

	got, err := v.Leaf().AsFloat64()
	if err != nil {
		t.Fatalf("read scalar state: %v", err)
	}
	return got
}

func pairState(x, y float64) tree.Value {
	return tree.Tuple(tree.Leaf(tensor.Float64Scalar(x)), tree.Leaf(tensor.Float64Scalar(y)))
}

func pairOf(t *testing.T, v tree.Value) (float64, float64) {
	t.Helper()

	x, err := v.Item(0).Leaf().AsFloat64()
	if err != nil {
		t.Fatalf("read pair state x: %v", err)
	}
	y, err := v.Item(1).Leaf().AsFloat64()
	if err != nil {
		t.Fatalf("read pair state y: %v", err)
	}
	return x, y
}

// lessThan builds a condition comparing the scalar leaf state against limit.
func lessThan(limit float64) loop.Condition {
	backend := cpu.New()
	bound := tensor.Float64Scalar(limit)
	return func(state tree.Value) (*tensor.Tensor, error) {
		return backend.Less(state.Leaf(), bound)
	}
}

// addOne builds a body incrementing the scalar leaf state.
func addOne() loop.Body {
	backend := cpu.New()
	one := tensor.Float64Scalar(1)
	return func(state tree.Value) (tree.Value, error) {
		next, err := backend.Add(state.Leaf(), one)
		if err != nil {
			return tree.Value{}, err
		}
		return tree.Leaf(next), nil
	}
}

// firstLessThan builds a condition comparing a pair state's first element
// against limit.
func firstLessThan(limit float64) loop.Condition {
	backend := cpu.New()
	bound := tensor.Float64Scalar(limit)
	return func(state tree.Value) (*tensor.Tensor, error) {
		return backend.Less(state.Item(0).Leaf(), bound)
	}
}

// incrementAndDouble builds a body mapping a pair state (x, y) to (x+1, y*2).
func incrementAndDouble() loop.Body {
	backend := cpu.New()
	one := tensor.Float64Scalar(1)
	two := tensor.Float64Scalar(2)
	return func(state tree.Value) (tree.Value, error) {
		x, err := backend.Add(state.Item(0).Leaf(), one)
		if err != nil {
			return tree.Value{}, err
		}
		y, err := backend.Mul(state.Item(1).Leaf(), two)
		if err != nil {
			return tree.Value{}, err
		}
		return tree.Tuple(tree.Leaf(x), tree.Leaf(y)), nil
	}
}

type engineSpy struct {
	inner       loop.Engine
	foldCalls   int
	lastSteps   int
	lastInit    loop.Carry
	selectCalls int
	andCalls    int
}

var _ loop.Engine = (*engineSpy)(nil)

func (s *engineSpy) Fold(ctx context.Context, init loop.Carry, steps int, step loop.StepFunc) (loop.Carry, error) {
	s.foldCalls++
	s.lastSteps = steps
	s.lastInit = init.Clone()
	return s.inner.Fold(ctx, init, steps, step)
}

func (s *engineSpy) Select(active *tensor.Tensor, candidate, prev tree.Value) (tree.Value, error) {
	s.selectCalls++
	return s.inner.Select(active, candidate, prev)
}

func (s *engineSpy) And(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	s.andCalls++
	return s.inner.And(a, b)
}
