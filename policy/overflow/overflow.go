package overflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gradloop/gradloop/loop"
	"github.com/gradloop/gradloop/tensor"
	"github.com/gradloop/gradloop/tree"
)

// Handler decides what happens when a fold spends its whole step budget with
// the loop still active. Returning an error fails the run; returning nil
// keeps the truncated result.
type Handler func(ctx context.Context, final loop.Carry, steps int) error

// Wrap layers bound-exhaustion handling over an engine. The default loop
// behavior truncates silently; wrapping restores a diagnostic without
// touching the fold itself.
func Wrap(engine loop.Engine, handler Handler) loop.Engine {
	if engine == nil {
		return nil
	}
	if handler == nil {
		return engine
	}
	return &engineWrapper{
		next:    engine,
		handler: handler,
	}
}

type engineWrapper struct {
	next    loop.Engine
	handler Handler
}

func (w *engineWrapper) Fold(ctx context.Context, init loop.Carry, steps int, step loop.StepFunc) (loop.Carry, error) {
	final, err := w.next.Fold(ctx, init, steps, step)
	if err != nil {
		return loop.Carry{}, err
	}
	if final.Active == nil {
		return loop.Carry{}, fmt.Errorf("overflow policy: active flag: %w", tensor.ErrNilTensor)
	}
	active, err := final.Active.AsBool()
	if err != nil {
		return loop.Carry{}, fmt.Errorf("overflow policy: active flag: %w", err)
	}
	if active {
		if err := w.handler(ctx, final, steps); err != nil {
			return loop.Carry{}, err
		}
	}
	return final, nil
}

func (w *engineWrapper) Select(active *tensor.Tensor, candidate, prev tree.Value) (tree.Value, error) {
	return w.next.Select(active, candidate, prev)
}

func (w *engineWrapper) And(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return w.next.And(a, b)
}

// Reject returns a handler that fails exhausted runs with
// loop.ErrMaxStepsExceeded, for callers that prefer an error over a silently
// truncated state.
func Reject() Handler {
	return func(_ context.Context, _ loop.Carry, steps int) error {
		return fmt.Errorf("%w: max_steps=%d", loop.ErrMaxStepsExceeded, steps)
	}
}

// Log returns a handler that records a warning on logger and keeps the
// truncated result. A nil logger keeps the result silently.
func Log(logger *slog.Logger) Handler {
	return func(ctx context.Context, _ loop.Carry, steps int) error {
		if logger != nil {
			logger.WarnContext(ctx, "loop exhausted its step budget", "max_steps", steps)
		}
		return nil
	}
}
