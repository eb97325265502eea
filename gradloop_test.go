package gradloop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradloop/gradloop"
	"github.com/gradloop/gradloop/autodiff"
	"github.com/gradloop/gradloop/loop"
	"github.com/gradloop/gradloop/tensor"
	"github.com/gradloop/gradloop/tensor/cpu"
	"github.com/gradloop/gradloop/tree"
)

// countLoop is `for x < limit { x++ }` over a float64 scalar state.
func countLoop(backend tensor.Backend, limit float64) (loop.Condition, loop.Body) {
	bound := tensor.Float64Scalar(limit)
	one := tensor.Float64Scalar(1)
	cond := func(state tree.Value) (*tensor.Tensor, error) {
		return backend.Less(state.Leaf(), bound)
	}
	body := func(state tree.Value) (tree.Value, error) {
		next, err := backend.Add(state.Leaf(), one)
		if err != nil {
			return tree.Value{}, err
		}
		return tree.Leaf(next), nil
	}
	return cond, body
}

// decayLoop is `for x > 1 { x *= 0.5 }` over a float64 scalar state.
func decayLoop(backend tensor.Backend) (loop.Condition, loop.Body) {
	floor := tensor.Float64Scalar(1)
	cond := func(state tree.Value) (*tensor.Tensor, error) {
		return backend.Greater(state.Leaf(), floor)
	}
	body := func(state tree.Value) (tree.Value, error) {
		next, err := backend.Scale(0.5, state.Leaf())
		if err != nil {
			return tree.Value{}, err
		}
		return tree.Leaf(next), nil
	}
	return cond, body
}

func scalarResult(t *testing.T, state tree.Value) float64 {
	t.Helper()

	v, err := state.Leaf().AsFloat64()
	require.NoError(t, err)
	return v
}

func TestRunStopsWhenConditionTurnsFalse(t *testing.T) {
	t.Parallel()

	cond, body := countLoop(cpu.New(), 5)
	out, err := gradloop.Run(context.Background(), cond, body, tree.Leaf(tensor.Float64Scalar(0)), 10)
	require.NoError(t, err)
	require.InDelta(t, 5, scalarResult(t, out), 0)
}

func TestRunHonorsStepBudget(t *testing.T) {
	t.Parallel()

	cond, body := countLoop(cpu.New(), 5)
	out, err := gradloop.Run(context.Background(), cond, body, tree.Leaf(tensor.Float64Scalar(0)), 3)
	require.NoError(t, err)
	require.InDelta(t, 3, scalarResult(t, out), 0)
}

func TestRunRequiresContext(t *testing.T) {
	t.Parallel()

	cond, body := countLoop(cpu.New(), 5)
	_, err := gradloop.Run(nil, cond, body, tree.Leaf(tensor.Float64Scalar(0)), 3)
	require.ErrorIs(t, err, loop.ErrContextNil)
}

func runDecay(t *testing.T, x0 float64) float64 {
	t.Helper()

	cond, body := decayLoop(cpu.New())
	out, err := gradloop.Run(context.Background(), cond, body, tree.Leaf(tensor.Float64Scalar(x0)), 10)
	require.NoError(t, err)
	return scalarResult(t, out)
}

func TestRunWithTapeGradientMatchesFiniteDifferences(t *testing.T) {
	t.Parallel()

	tape, err := autodiff.NewTape(cpu.New())
	require.NoError(t, err)

	x0 := tensor.Float64Scalar(20)
	cond, body := decayLoop(tape)
	out, err := gradloop.RunWith(context.Background(), tape, cond, body, tree.Leaf(x0), 10)
	require.NoError(t, err)

	// 20 halves five times before dropping below the floor.
	require.InDelta(t, 0.625, scalarResult(t, out), 1e-12)

	grads, err := tape.Gradient(out.Leaf(), x0)
	require.NoError(t, err)

	const h = 1e-6
	fd := (runDecay(t, 20+h) - runDecay(t, 20-h)) / (2 * h)
	grad, err := grads[0].AsFloat64()
	require.NoError(t, err)
	require.InDelta(t, fd, grad, 1e-4)
	require.InDelta(t, 0.03125, grad, 1e-12)
}
