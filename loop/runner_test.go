package loop_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gradloop/gradloop/loop"
	"github.com/gradloop/gradloop/looptest"
	"github.com/gradloop/gradloop/tree"
)

func TestRunnerRun_CountsUpToConditionLimit(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)
	cond, condCount := looptest.CountingCondition(lessThan(5))
	body, bodyCount := looptest.CountingBody(addOne())

	final, err := runner.Run(context.Background(), cond, body, scalarState(0), 10)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := scalarOf(t, final); got != 5 {
		t.Fatalf("final state = %v, want 5", got)
	}
	if got := condCount.Count(); got != 11 {
		t.Fatalf("condition evaluations = %d, want 11 (init plus one per step)", got)
	}
	if got := bodyCount.Count(); got != 10 {
		t.Fatalf("body evaluations = %d, want 10 (one per step)", got)
	}
}

func TestRunnerRun_PairStateStopsAtLimit(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)

	final, err := runner.Run(context.Background(), firstLessThan(3), incrementAndDouble(), pairState(0, 1), 5)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	x, y := pairOf(t, final)
	if x != 3 || y != 8 {
		t.Fatalf("final state = (%v, %v), want (3, 8)", x, y)
	}
}

func TestRunnerRun_TruncatesSilentlyAtBound(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)

	final, err := runner.Run(context.Background(), firstLessThan(3), incrementAndDouble(), pairState(0, 1), 2)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	x, y := pairOf(t, final)
	if x != 2 || y != 4 {
		t.Fatalf("truncated state = (%v, %v), want (2, 4)", x, y)
	}
}

func TestRunnerRun_LargerBoundsAgreeOnceLoopTerminates(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)
	exact, err := runner.Run(context.Background(), lessThan(5), addOne(), scalarState(0), 5)
	if err != nil {
		t.Fatalf("run with exact bound: %v", err)
	}

	for _, bound := range []int{6, 9, 50} {
		got, err := runner.Run(context.Background(), lessThan(5), addOne(), scalarState(0), bound)
		if err != nil {
			t.Fatalf("run with bound %d: %v", bound, err)
		}
		if !tree.Equal(exact, got) {
			t.Fatalf("bound %d diverged: got %v, want %v", bound, scalarOf(t, got), scalarOf(t, exact))
		}
	}
}

func TestRunnerRun_BodyRunsEveryStepEvenAfterFreeze(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)
	body, bodyCount := looptest.CountingBody(addOne())

	final, err := runner.Run(context.Background(), lessThan(3), body, scalarState(0), 8)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := scalarOf(t, final); got != 3 {
		t.Fatalf("final state = %v, want 3", got)
	}
	if got := bodyCount.Count(); got != 8 {
		t.Fatalf("body evaluations = %d, want 8: frozen steps still evaluate and discard", got)
	}
}

func TestRunnerRun_DelegatesFoldToEngine(t *testing.T) {
	t.Parallel()

	spy := &engineSpy{inner: newEngine(t)}
	runner, err := loop.NewRunner(loop.Dependencies{Engine: spy})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	if _, err := runner.Run(context.Background(), lessThan(2), addOne(), scalarState(0), 4); err != nil {
		t.Fatalf("run: %v", err)
	}

	if spy.foldCalls != 1 {
		t.Fatalf("fold calls = %d, want 1", spy.foldCalls)
	}
	if spy.lastSteps != 4 {
		t.Fatalf("fold steps = %d, want the full bound 4", spy.lastSteps)
	}
	if got := scalarOf(t, spy.lastInit.State); got != 0 {
		t.Fatalf("fold init state = %v, want 0", got)
	}
	initActive, err := spy.lastInit.Active.AsBool()
	if err != nil {
		t.Fatalf("read init active flag: %v", err)
	}
	if !initActive {
		t.Fatal("fold init active flag = false, want true for a running loop")
	}
	if spy.selectCalls != 4 || spy.andCalls != 4 {
		t.Fatalf("select/and calls = %d/%d, want 4/4 (one per step)", spy.selectCalls, spy.andCalls)
	}
}

func TestRunnerRun_CancelledContextStopsFold(t *testing.T) {
	t.Parallel()

	runner := newRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, lessThan(5), addOne(), scalarState(0), 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("run error = %v, want context.Canceled", err)
	}
}
