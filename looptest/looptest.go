package looptest

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gradloop/gradloop/loop"
	"github.com/gradloop/gradloop/tensor"
	"github.com/gradloop/gradloop/tree"
)

// Counter tracks how many times an instrumented function ran.
type Counter struct {
	n atomic.Int64
}

// Count returns the number of recorded calls.
func (c *Counter) Count() int {
	return int(c.n.Load())
}

// CountingCondition wraps a condition and counts its evaluations.
func CountingCondition(cond loop.Condition) (loop.Condition, *Counter) {
	counter := &Counter{}
	wrapped := func(state tree.Value) (*tensor.Tensor, error) {
		counter.n.Add(1)
		return cond(state)
	}
	return wrapped, counter
}

// CountingBody wraps a body and counts its evaluations.
func CountingBody(body loop.Body) (loop.Body, *Counter) {
	counter := &Counter{}
	wrapped := func(state tree.Value) (tree.Value, error) {
		counter.n.Add(1)
		return body(state)
	}
	return wrapped, counter
}

// FailingCondition returns a condition that always fails with err.
func FailingCondition(err error) loop.Condition {
	return func(tree.Value) (*tensor.Tensor, error) {
		return nil, err
	}
}

// FailingBody returns a body that always fails with err.
func FailingBody(err error) loop.Body {
	return func(tree.Value) (tree.Value, error) {
		return tree.Value{}, err
	}
}

// ScriptedCondition is a deterministic condition for runner tests. Each
// evaluation consumes the next scripted outcome regardless of the state it
// receives.
type ScriptedCondition struct {
	mu       sync.Mutex
	index    int
	outcomes []bool
}

func NewScriptedCondition(outcomes ...bool) *ScriptedCondition {
	cloned := make([]bool, len(outcomes))
	copy(cloned, outcomes)
	return &ScriptedCondition{outcomes: cloned}
}

// Evaluate is the loop.Condition for this script.
func (s *ScriptedCondition) Evaluate(tree.Value) (*tensor.Tensor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index >= len(s.outcomes) {
		return nil, fmt.Errorf("script exhausted at evaluation %d", s.index+1)
	}
	current := s.outcomes[s.index]
	s.index++
	return tensor.BoolScalar(current), nil
}
