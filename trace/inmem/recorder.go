package inmem

import (
	"context"
	"fmt"
	"sync"

	"github.com/gradloop/gradloop/loop"
	"github.com/gradloop/gradloop/tensor"
	"github.com/gradloop/gradloop/tree"
)

// Snapshot is one recorded fold step.
type Snapshot struct {
	Step   int
	State  tree.Value
	Active *tensor.Tensor
}

// Recorder captures fold steps in memory and exposes deterministic snapshots.
// It serves as the step observer for runs whose trajectory a caller wants to
// inspect afterwards.
type Recorder struct {
	mu    sync.RWMutex
	steps []Snapshot
}

var _ loop.StepObserver = (*Recorder)(nil)

func New() *Recorder {
	return &Recorder{steps: make([]Snapshot, 0)}
}

func (r *Recorder) ObserveStep(ctx context.Context, step int, carry loop.Carry) error {
	if ctx == nil {
		return loop.ErrContextNil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err := carry.State.Validate(); err != nil {
		return fmt.Errorf("record step %d: %w", step, err)
	}
	if carry.Active == nil {
		return fmt.Errorf("record step %d: %w", step, tensor.ErrNilTensor)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps = append(r.steps, Snapshot{Step: step, State: carry.State.Clone(), Active: carry.Active})
	return nil
}

// Snapshots returns the recorded steps in observation order. Containers are
// cloned so callers cannot disturb the recording.
func (r *Recorder) Snapshots() []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Snapshot, len(r.steps))
	for i := range r.steps {
		out[i] = Snapshot{Step: r.steps[i].Step, State: r.steps[i].State.Clone(), Active: r.steps[i].Active}
	}
	return out
}

// Reset drops all recorded steps so the recorder can serve another run.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps = r.steps[:0]
}
