package gradloop

import (
	"context"

	"github.com/gradloop/gradloop/eager"
	"github.com/gradloop/gradloop/loop"
	"github.com/gradloop/gradloop/tensor/cpu"
	"github.com/gradloop/gradloop/tree"
)

// Run emulates `for cond(state) { state = body(state) }` with a fixed step
// budget on the default CPU backend. Once cond turns false the state is
// frozen, and once maxSteps elapse the loop stops even if cond still holds.
func Run(ctx context.Context, cond loop.Condition, body loop.Body, init tree.Value, maxSteps int) (tree.Value, error) {
	engine, err := eager.New(cpu.New())
	if err != nil {
		return tree.Value{}, err
	}
	return RunWith(ctx, engine, cond, body, init, maxSteps)
}

// RunWith runs the same loop on a caller-supplied engine, such as a recording
// tape that later differentiates the result.
func RunWith(ctx context.Context, engine loop.Engine, cond loop.Condition, body loop.Body, init tree.Value, maxSteps int) (tree.Value, error) {
	runner, err := loop.NewRunner(loop.Dependencies{Engine: engine})
	if err != nil {
		return tree.Value{}, err
	}
	return runner.Run(ctx, cond, body, init, maxSteps)
}
