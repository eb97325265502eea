package autodiff

import (
	"fmt"

	"github.com/gradloop/gradloop/tensor"
)

// Tape is a tensor backend that records every float64 operation it evaluates
// so Gradient can replay them in reverse. Integer and bool operations pass
// through to the wrapped backend unrecorded: they execute normally but carry
// no gradients. Code written against tensor.Backend runs unchanged on a tape.
//
// A tape accumulates records across calls until Reset and is not safe for
// concurrent use.
type Tape struct {
	backend tensor.Backend
	records []record
}

// record ties one evaluated operation to the function that maps its output
// gradient onto input gradients, one per input slot.
type record struct {
	output   *tensor.Tensor
	inputs   []*tensor.Tensor
	backward func(grad *tensor.Tensor) ([]*tensor.Tensor, error)
}

var _ tensor.Backend = (*Tape)(nil)

func NewTape(backend tensor.Backend) (*Tape, error) {
	if backend == nil {
		return nil, fmt.Errorf("new tape: %w", ErrMissingBackend)
	}
	return &Tape{backend: backend}, nil
}

// Len returns the number of recorded operations.
func (t *Tape) Len() int { return len(t.records) }

// Reset drops every recorded operation so the tape can serve a fresh
// computation.
func (t *Tape) Reset() { t.records = t.records[:0] }

func (t *Tape) push(output *tensor.Tensor, inputs []*tensor.Tensor, backward func(*tensor.Tensor) ([]*tensor.Tensor, error)) {
	t.records = append(t.records, record{output: output, inputs: inputs, backward: backward})
}

func recordable(operands ...*tensor.Tensor) bool {
	for _, op := range operands {
		if op.DType() != tensor.Float64 {
			return false
		}
	}
	return true
}

// Add computes a + b. d/da = grad, d/db = grad.
func (t *Tape) Add(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := t.backend.Add(a, b)
	if err != nil {
		return nil, err
	}
	if recordable(a, b) {
		t.push(out, []*tensor.Tensor{a, b}, func(grad *tensor.Tensor) ([]*tensor.Tensor, error) {
			return []*tensor.Tensor{grad, grad}, nil
		})
	}
	return out, nil
}

// Sub computes a - b. d/da = grad, d/db = -grad.
func (t *Tape) Sub(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := t.backend.Sub(a, b)
	if err != nil {
		return nil, err
	}
	if recordable(a, b) {
		t.push(out, []*tensor.Tensor{a, b}, func(grad *tensor.Tensor) ([]*tensor.Tensor, error) {
			db, err := t.backend.Neg(grad)
			if err != nil {
				return nil, err
			}
			return []*tensor.Tensor{grad, db}, nil
		})
	}
	return out, nil
}

// Mul computes a * b. d/da = grad*b, d/db = grad*a.
func (t *Tape) Mul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := t.backend.Mul(a, b)
	if err != nil {
		return nil, err
	}
	if recordable(a, b) {
		t.push(out, []*tensor.Tensor{a, b}, func(grad *tensor.Tensor) ([]*tensor.Tensor, error) {
			da, err := t.backend.Mul(grad, b)
			if err != nil {
				return nil, err
			}
			db, err := t.backend.Mul(grad, a)
			if err != nil {
				return nil, err
			}
			return []*tensor.Tensor{da, db}, nil
		})
	}
	return out, nil
}

// Div computes a / b. d/da = grad/b, d/db = -grad*a/b^2.
func (t *Tape) Div(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := t.backend.Div(a, b)
	if err != nil {
		return nil, err
	}
	if recordable(a, b) {
		t.push(out, []*tensor.Tensor{a, b}, func(grad *tensor.Tensor) ([]*tensor.Tensor, error) {
			da, err := t.backend.Div(grad, b)
			if err != nil {
				return nil, err
			}
			num, err := t.backend.Mul(grad, a)
			if err != nil {
				return nil, err
			}
			den, err := t.backend.Mul(b, b)
			if err != nil {
				return nil, err
			}
			frac, err := t.backend.Div(num, den)
			if err != nil {
				return nil, err
			}
			db, err := t.backend.Neg(frac)
			if err != nil {
				return nil, err
			}
			return []*tensor.Tensor{da, db}, nil
		})
	}
	return out, nil
}

// Neg computes -a. d/da = -grad.
func (t *Tape) Neg(a *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := t.backend.Neg(a)
	if err != nil {
		return nil, err
	}
	if recordable(a) {
		t.push(out, []*tensor.Tensor{a}, func(grad *tensor.Tensor) ([]*tensor.Tensor, error) {
			da, err := t.backend.Neg(grad)
			if err != nil {
				return nil, err
			}
			return []*tensor.Tensor{da}, nil
		})
	}
	return out, nil
}

// Abs computes |a|. d/da = grad where a >= 0, -grad elsewhere.
func (t *Tape) Abs(a *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := t.backend.Abs(a)
	if err != nil {
		return nil, err
	}
	if recordable(a) {
		t.push(out, []*tensor.Tensor{a}, func(grad *tensor.Tensor) ([]*tensor.Tensor, error) {
			zeros, err := tensor.ZerosLike(a)
			if err != nil {
				return nil, err
			}
			nonNegative, err := t.backend.GreaterEqual(a, zeros)
			if err != nil {
				return nil, err
			}
			flipped, err := t.backend.Neg(grad)
			if err != nil {
				return nil, err
			}
			da, err := t.backend.Where(nonNegative, grad, flipped)
			if err != nil {
				return nil, err
			}
			return []*tensor.Tensor{da}, nil
		})
	}
	return out, nil
}

// Scale computes c * a. d/da = c * grad.
func (t *Tape) Scale(c float64, a *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := t.backend.Scale(c, a)
	if err != nil {
		return nil, err
	}
	if recordable(a) {
		t.push(out, []*tensor.Tensor{a}, func(grad *tensor.Tensor) ([]*tensor.Tensor, error) {
			da, err := t.backend.Scale(c, grad)
			if err != nil {
				return nil, err
			}
			return []*tensor.Tensor{da}, nil
		})
	}
	return out, nil
}

// Sum reduces a to a scalar. The scalar gradient broadcasts back over a.
func (t *Tape) Sum(a *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := t.backend.Sum(a)
	if err != nil {
		return nil, err
	}
	if recordable(a) {
		t.push(out, []*tensor.Tensor{a}, func(grad *tensor.Tensor) ([]*tensor.Tensor, error) {
			gv, err := grad.AsFloat64()
			if err != nil {
				return nil, err
			}
			da, err := tensor.FullLike(a, gv)
			if err != nil {
				return nil, err
			}
			return []*tensor.Tensor{da}, nil
		})
	}
	return out, nil
}

// Where picks candidate elements where pred is true. Gradients flow to the
// operand each element was taken from; the predicate carries none.
func (t *Tape) Where(pred, candidate, fallback *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := t.backend.Where(pred, candidate, fallback)
	if err != nil {
		return nil, err
	}
	if recordable(candidate, fallback) {
		t.push(out, []*tensor.Tensor{candidate, fallback}, func(grad *tensor.Tensor) ([]*tensor.Tensor, error) {
			zeros, err := tensor.ZerosLike(grad)
			if err != nil {
				return nil, err
			}
			dc, err := t.backend.Where(pred, grad, zeros)
			if err != nil {
				return nil, err
			}
			df, err := t.backend.Where(pred, zeros, grad)
			if err != nil {
				return nil, err
			}
			return []*tensor.Tensor{dc, df}, nil
		})
	}
	return out, nil
}

// Comparisons and boolean logic produce no gradients and pass through
// unrecorded.

func (t *Tape) Less(a, b *tensor.Tensor) (*tensor.Tensor, error) { return t.backend.Less(a, b) }

func (t *Tape) LessEqual(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return t.backend.LessEqual(a, b)
}

func (t *Tape) Greater(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return t.backend.Greater(a, b)
}

func (t *Tape) GreaterEqual(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return t.backend.GreaterEqual(a, b)
}

func (t *Tape) And(a, b *tensor.Tensor) (*tensor.Tensor, error) { return t.backend.And(a, b) }

func (t *Tape) Or(a, b *tensor.Tensor) (*tensor.Tensor, error) { return t.backend.Or(a, b) }

func (t *Tape) Not(a *tensor.Tensor) (*tensor.Tensor, error) { return t.backend.Not(a) }
