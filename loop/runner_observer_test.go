package loop_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gradloop/gradloop/loop"
	traceinmem "github.com/gradloop/gradloop/trace/inmem"
)

func TestRunnerRun_ObserverSeesEveryStepInOrder(t *testing.T) {
	t.Parallel()

	recorder := traceinmem.New()
	runner, err := loop.NewRunner(loop.Dependencies{Engine: newEngine(t), Observer: recorder})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	if _, err := runner.Run(context.Background(), lessThan(5), addOne(), scalarState(0), 8); err != nil {
		t.Fatalf("run: %v", err)
	}

	steps := recorder.Snapshots()
	if len(steps) != 8 {
		t.Fatalf("observed steps = %d, want 8", len(steps))
	}

	wantStates := []float64{1, 2, 3, 4, 5, 5, 5, 5}
	wantActive := []bool{true, true, true, true, false, false, false, false}
	for i, snapshot := range steps {
		if snapshot.Step != i+1 {
			t.Fatalf("snapshot %d has step %d, want %d", i, snapshot.Step, i+1)
		}
		if got := scalarOf(t, snapshot.State); got != wantStates[i] {
			t.Fatalf("state after step %d = %v, want %v", i+1, got, wantStates[i])
		}
		active, err := snapshot.Active.AsBool()
		if err != nil {
			t.Fatalf("read active flag after step %d: %v", i+1, err)
		}
		if active != wantActive[i] {
			t.Fatalf("active flag after step %d = %v, want %v: the flag never flips back on", i+1, active, wantActive[i])
		}
	}
}

func TestRunnerRun_ObserverErrorAbortsRun(t *testing.T) {
	t.Parallel()

	boom := errors.New("observer down")
	runner, err := loop.NewRunner(loop.Dependencies{Engine: newEngine(t), Observer: failingObserver{err: boom}})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	_, err = runner.Run(context.Background(), lessThan(5), addOne(), scalarState(0), 4)
	if !errors.Is(err, loop.ErrObserve) {
		t.Fatalf("error = %v, want %v", err, loop.ErrObserve)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped cause %v", err, boom)
	}
}

type failingObserver struct {
	err error
}

func (f failingObserver) ObserveStep(context.Context, int, loop.Carry) error {
	return f.err
}
