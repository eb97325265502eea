package cpu

import (
	"fmt"

	"github.com/gradloop/gradloop/tensor"
)

func (b *Backend) logic(name string, x, y *tensor.Tensor, op func(bool, bool) bool) (*tensor.Tensor, error) {
	if err := checkBinary(x, y); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if x.DType() != tensor.Bool {
		return nil, fmt.Errorf("%s: %w: want bool, got %s", name, tensor.ErrDTypeUnsupported, x.DType())
	}
	xs, ys := x.RawBools(), y.RawBools()
	out := make([]bool, len(xs))
	err := b.forEach(len(out), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			out[i] = op(xs[i], ys[i])
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return tensor.FromBools(x.Shape(), out)
}

// And computes x && y elementwise over bool operands.
func (b *Backend) And(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	return b.logic("and", x, y, func(a, c bool) bool { return a && c })
}

// Or computes x || y elementwise over bool operands.
func (b *Backend) Or(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	return b.logic("or", x, y, func(a, c bool) bool { return a || c })
}

// Not computes !x elementwise over a bool operand.
func (b *Backend) Not(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x == nil {
		return nil, fmt.Errorf("not: %w", tensor.ErrNilTensor)
	}
	if x.DType() != tensor.Bool {
		return nil, fmt.Errorf("not: %w: want bool, got %s", tensor.ErrDTypeUnsupported, x.DType())
	}
	xs := x.RawBools()
	out := make([]bool, len(xs))
	err := b.forEach(len(out), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			out[i] = !xs[i]
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("not: %w", err)
	}
	return tensor.FromBools(x.Shape(), out)
}

func whereKernel[T any](b *Backend, mask []bool, scalarMask bool, xs, ys []T) ([]T, error) {
	out := make([]T, len(xs))
	err := b.forEach(len(out), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			on := mask[0]
			if !scalarMask {
				on = mask[i]
			}
			if on {
				out[i] = xs[i]
			} else {
				out[i] = ys[i]
			}
		}
		return nil
	})
	return out, err
}

// Where picks candidate elements where pred is true and fallback elements
// where it is false. A scalar pred applies to every element.
func (b *Backend) Where(pred, candidate, fallback *tensor.Tensor) (*tensor.Tensor, error) {
	if pred == nil || candidate == nil || fallback == nil {
		return nil, fmt.Errorf("where: %w", tensor.ErrNilTensor)
	}
	if pred.DType() != tensor.Bool {
		return nil, fmt.Errorf("where: predicate: %w: want bool, got %s", tensor.ErrDTypeUnsupported, pred.DType())
	}
	if err := checkBinary(candidate, fallback); err != nil {
		return nil, fmt.Errorf("where: %w", err)
	}
	if !pred.IsScalar() && !pred.Shape().Equal(candidate.Shape()) {
		return nil, fmt.Errorf("where: predicate: %w: %s vs %s", tensor.ErrShapeMismatch, pred.Shape(), candidate.Shape())
	}
	mask := pred.RawBools()
	scalarMask := pred.IsScalar()
	switch candidate.DType() {
	case tensor.Bool:
		out, err := whereKernel(b, mask, scalarMask, candidate.RawBools(), fallback.RawBools())
		if err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
		return tensor.FromBools(candidate.Shape(), out)
	case tensor.Int64:
		out, err := whereKernel(b, mask, scalarMask, candidate.RawInt64s(), fallback.RawInt64s())
		if err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
		return tensor.FromInt64s(candidate.Shape(), out)
	case tensor.Float64:
		out, err := whereKernel(b, mask, scalarMask, candidate.RawFloat64s(), fallback.RawFloat64s())
		if err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
		return tensor.FromFloat64s(candidate.Shape(), out)
	default:
		return nil, fmt.Errorf("where: %w: %s", tensor.ErrDTypeUnsupported, candidate.DType())
	}
}
