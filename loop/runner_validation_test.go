package loop_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gradloop/gradloop/loop"
	"github.com/gradloop/gradloop/looptest"
	"github.com/gradloop/gradloop/tensor"
	"github.com/gradloop/gradloop/tree"
)

func TestRunnerRun_ValidatesInputs(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)
	cond := lessThan(5)
	body := addOne()
	init := scalarState(0)

	cases := []struct {
		name string
		run  func() error
		want error
	}{
		{
			name: "nil context",
			run: func() error {
				_, err := runner.Run(nil, cond, body, init, 1)
				return err
			},
			want: loop.ErrContextNil,
		},
		{
			name: "nil condition",
			run: func() error {
				_, err := runner.Run(context.Background(), nil, body, init, 1)
				return err
			},
			want: loop.ErrNilCondition,
		},
		{
			name: "nil body",
			run: func() error {
				_, err := runner.Run(context.Background(), cond, nil, init, 1)
				return err
			},
			want: loop.ErrNilBody,
		},
		{
			name: "negative bound",
			run: func() error {
				_, err := runner.Run(context.Background(), cond, body, init, -1)
				return err
			},
			want: loop.ErrInvalidBound,
		},
		{
			name: "invalid initial state",
			run: func() error {
				_, err := runner.Run(context.Background(), cond, body, tree.Value{}, 1)
				return err
			},
			want: loop.ErrInvalidState,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := tc.run(); !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRunnerRun_ZeroBoundSkipsConditionAndBody(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)
	cond, condCount := looptest.CountingCondition(looptest.FailingCondition(errors.New("must not run")))
	body, bodyCount := looptest.CountingBody(looptest.FailingBody(errors.New("must not run")))
	init := scalarState(4)

	final, err := runner.Run(context.Background(), cond, body, init, 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !tree.Equal(init, final) {
		t.Fatalf("final state = %v, want init unchanged", final)
	}
	if condCount.Count() != 0 || bodyCount.Count() != 0 {
		t.Fatalf("condition/body evaluations = %d/%d, want 0/0 for a zero bound", condCount.Count(), bodyCount.Count())
	}
}

func TestRunnerRun_ImmediatelyFalseConditionKeepsInit(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)
	body, bodyCount := looptest.CountingBody(addOne())
	init := scalarState(9)

	final, err := runner.Run(context.Background(), lessThan(5), body, init, 10)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !tree.Equal(init, final) {
		t.Fatalf("final state = %v, want init unchanged when the condition starts false", scalarOf(t, final))
	}
	if got := bodyCount.Count(); got != 10 {
		t.Fatalf("body evaluations = %d, want 10: every step evaluates, none lands", got)
	}
}

func TestRunnerRun_RejectsBadConditionResults(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)
	body := addOne()
	init := scalarState(0)

	vectorFlag, err := tensor.FromBools(tensor.Shape{2}, []bool{true, true})
	if err != nil {
		t.Fatalf("build vector flag: %v", err)
	}

	cases := []struct {
		name string
		cond loop.Condition
	}{
		{
			name: "nil result",
			cond: func(tree.Value) (*tensor.Tensor, error) { return nil, nil },
		},
		{
			name: "non-bool result",
			cond: func(tree.Value) (*tensor.Tensor, error) { return tensor.Float64Scalar(1), nil },
		},
		{
			name: "non-scalar result",
			cond: func(tree.Value) (*tensor.Tensor, error) { return vectorFlag, nil },
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := runner.Run(context.Background(), tc.cond, body, init, 3)
			if !errors.Is(err, loop.ErrInvalidCondition) {
				t.Fatalf("error = %v, want %v", err, loop.ErrInvalidCondition)
			}
		})
	}
}

func TestRunnerRun_RejectsStructureChanges(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)
	cond := lessThan(5)
	init := scalarState(0)

	vec, err := tensor.FromFloat64s(tensor.Shape{2}, []float64{1, 2})
	if err != nil {
		t.Fatalf("build vector: %v", err)
	}

	cases := []struct {
		name string
		body loop.Body
	}{
		{
			name: "container change",
			body: func(state tree.Value) (tree.Value, error) { return tree.Tuple(state), nil },
		},
		{
			name: "shape change",
			body: func(tree.Value) (tree.Value, error) { return tree.Leaf(vec), nil },
		},
		{
			name: "dtype change",
			body: func(tree.Value) (tree.Value, error) { return tree.Leaf(tensor.Int64Scalar(1)), nil },
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := runner.Run(context.Background(), cond, tc.body, init, 3)
			if !errors.Is(err, loop.ErrStructureMismatch) {
				t.Fatalf("error = %v, want %v", err, loop.ErrStructureMismatch)
			}
			if !strings.Contains(err.Error(), "want=") || !strings.Contains(err.Error(), "got=") {
				t.Fatalf("error %q does not describe both structures", err)
			}
		})
	}
}

func TestRunnerRun_PropagatesUserErrorsWithStepContext(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)
	boom := errors.New("boom")

	_, err := runner.Run(context.Background(), lessThan(5), looptest.FailingBody(boom), scalarState(0), 3)
	if !errors.Is(err, boom) {
		t.Fatalf("body error = %v, want wrapped %v", err, boom)
	}
	if !strings.Contains(err.Error(), "step=1") {
		t.Fatalf("body error %q does not name the failing step", err)
	}

	script := looptest.NewScriptedCondition(true, true)
	_, err = runner.Run(context.Background(), script.Evaluate, addOne(), scalarState(0), 5)
	if err == nil || !strings.Contains(err.Error(), "script exhausted") {
		t.Fatalf("condition error = %v, want exhausted script", err)
	}
	if !strings.Contains(err.Error(), "step=2") {
		t.Fatalf("condition error %q does not name the failing step", err)
	}
}
