package loop

import (
	"context"
	"errors"
	"fmt"

	"github.com/gradloop/gradloop/tensor"
	"github.com/gradloop/gradloop/tree"
)

// Dependencies wires execution services into the loop runner.
type Dependencies struct {
	Engine   Engine
	Observer StepObserver
}

// Runner lowers a condition/body pair into a fixed-trip-count masked fold.
type Runner struct {
	engine   Engine
	observer StepObserver
}

func NewRunner(deps Dependencies) (*Runner, error) {
	if deps.Engine == nil {
		return nil, fmt.Errorf("new runner: %w", ErrMissingEngine)
	}
	if deps.Observer == nil {
		deps.Observer = noopStepObserver{}
	}
	return &Runner{engine: deps.Engine, observer: deps.Observer}, nil
}

// Run emulates `for cond(state) { state = body(state) }` with exactly
// maxSteps fold steps. Every step evaluates the body once and keeps its
// result only while the loop is still active; once the condition turns false
// the state freezes and later steps leave it untouched. A run that spends its
// whole budget with the condition still true returns the truncated state
// without error.
//
// A bound of zero returns init as is, without evaluating the condition or
// the body.
func (r *Runner) Run(ctx context.Context, cond Condition, body Body, init tree.Value, maxSteps int) (tree.Value, error) {
	if ctx == nil {
		return tree.Value{}, ErrContextNil
	}
	if cond == nil {
		return tree.Value{}, ErrNilCondition
	}
	if body == nil {
		return tree.Value{}, ErrNilBody
	}
	if maxSteps < 0 {
		return tree.Value{}, fmt.Errorf("%w: max_steps=%d", ErrInvalidBound, maxSteps)
	}
	if err := init.Validate(); err != nil {
		return tree.Value{}, errors.Join(ErrInvalidState, err)
	}
	if maxSteps == 0 {
		return init, nil
	}

	active, err := r.evaluate(cond, init)
	if err != nil {
		return tree.Value{}, err
	}

	final, err := r.engine.Fold(ctx, Carry{State: init, Active: active}, maxSteps, r.step(cond, body, tree.DefOf(init)))
	if err != nil {
		return tree.Value{}, err
	}
	return final.State, nil
}

// step builds the masked fold step: evaluate the body unconditionally, keep
// its output only while the carry is active, then fold the refreshed
// condition into the flag so it can never flip back on.
func (r *Runner) step(cond Condition, body Body, want tree.Def) StepFunc {
	wantPrint := want.Fingerprint()
	return func(ctx context.Context, step int, carry Carry) (Carry, error) {
		candidate, err := body(carry.State)
		if err != nil {
			return Carry{}, fmt.Errorf("body: step=%d: %w", step, err)
		}
		if got := tree.DefOf(candidate); got.Fingerprint() != wantPrint {
			return Carry{}, fmt.Errorf("%w: step=%d want=%s got=%s", ErrStructureMismatch, step, want, got)
		}
		next, err := r.engine.Select(carry.Active, candidate, carry.State)
		if err != nil {
			return Carry{}, fmt.Errorf("select: step=%d: %w", step, err)
		}
		still, err := r.evaluate(cond, next)
		if err != nil {
			return Carry{}, fmt.Errorf("step=%d: %w", step, err)
		}
		active, err := r.engine.And(carry.Active, still)
		if err != nil {
			return Carry{}, fmt.Errorf("combine active: step=%d: %w", step, err)
		}
		out := Carry{State: next, Active: active}
		if err := r.observer.ObserveStep(ctx, step, out); err != nil {
			return Carry{}, errors.Join(ErrObserve, fmt.Errorf("step=%d: %w", step, err))
		}
		return out, nil
	}
}

func (r *Runner) evaluate(cond Condition, state tree.Value) (*tensor.Tensor, error) {
	flag, err := cond(state)
	if err != nil {
		return nil, fmt.Errorf("condition: %w", err)
	}
	if err := validateFlag(flag); err != nil {
		return nil, err
	}
	return flag, nil
}

func validateFlag(flag *tensor.Tensor) error {
	if flag == nil {
		return fmt.Errorf("%w: got nil", ErrInvalidCondition)
	}
	if flag.DType() != tensor.Bool {
		return fmt.Errorf("%w: got dtype=%s", ErrInvalidCondition, flag.DType())
	}
	if !flag.IsScalar() {
		return fmt.Errorf("%w: got shape=%s", ErrInvalidCondition, flag.Shape())
	}
	return nil
}
