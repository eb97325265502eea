package main

import (
	"context"
	"log/slog"

	"github.com/gradloop/gradloop"
	"github.com/gradloop/gradloop/loop"
	"github.com/gradloop/gradloop/tensor"
	"github.com/gradloop/gradloop/tensor/cpu"
	"github.com/gradloop/gradloop/tree"
)

// heronLoop is Heron's method for sqrt(target): keep averaging x with
// target/x while x^2 is still more than tolerance away from target.
func heronLoop(backend tensor.Backend, target *tensor.Tensor, tolerance float64) (loop.Condition, loop.Body) {
	tol := tensor.Float64Scalar(tolerance)
	cond := func(state tree.Value) (*tensor.Tensor, error) {
		x := state.Leaf()
		square, err := backend.Mul(x, x)
		if err != nil {
			return nil, err
		}
		diff, err := backend.Sub(square, target)
		if err != nil {
			return nil, err
		}
		gap, err := backend.Abs(diff)
		if err != nil {
			return nil, err
		}
		return backend.Greater(gap, tol)
	}
	body := func(state tree.Value) (tree.Value, error) {
		x := state.Leaf()
		quotient, err := backend.Div(target, x)
		if err != nil {
			return tree.Value{}, err
		}
		sum, err := backend.Add(x, quotient)
		if err != nil {
			return tree.Value{}, err
		}
		next, err := backend.Scale(0.5, sum)
		if err != nil {
			return tree.Value{}, err
		}
		return tree.Leaf(next), nil
	}
	return cond, body
}

// heronValue runs the iteration on the default backend and returns the
// converged estimate.
func heronValue(ctx context.Context, target, tolerance float64, maxSteps int) (float64, error) {
	goal := tensor.Float64Scalar(target)
	cond, body := heronLoop(cpu.New(), goal, tolerance)
	out, err := gradloop.Run(ctx, cond, body, tree.Leaf(tensor.Float64Scalar(target)), maxSteps)
	if err != nil {
		return 0, err
	}
	return out.Leaf().AsFloat64()
}

type stepLogger struct {
	logger *slog.Logger
}

func (l stepLogger) ObserveStep(ctx context.Context, step int, carry loop.Carry) error {
	estimate, err := carry.State.Leaf().AsFloat64()
	if err != nil {
		return err
	}
	active, err := carry.Active.AsBool()
	if err != nil {
		return err
	}
	l.logger.DebugContext(ctx, "heron step", "step", step, "estimate", estimate, "active", active)
	return nil
}
