package cpu

import (
	"fmt"

	"github.com/gradloop/gradloop/tensor"
)

func compareKernel[T int64 | float64](b *Backend, xs, ys []T, op func(T, T) bool) ([]bool, error) {
	out := make([]bool, len(xs))
	err := b.forEach(len(out), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			out[i] = op(xs[i], ys[i])
		}
		return nil
	})
	return out, err
}

func (b *Backend) compare(name string, x, y *tensor.Tensor, intOp func(int64, int64) bool, floatOp func(float64, float64) bool) (*tensor.Tensor, error) {
	if err := checkBinary(x, y); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	var (
		out []bool
		err error
	)
	switch x.DType() {
	case tensor.Int64:
		out, err = compareKernel(b, x.RawInt64s(), y.RawInt64s(), intOp)
	case tensor.Float64:
		out, err = compareKernel(b, x.RawFloat64s(), y.RawFloat64s(), floatOp)
	default:
		return nil, fmt.Errorf("%s: %w: %s", name, tensor.ErrDTypeUnsupported, x.DType())
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return tensor.FromBools(x.Shape(), out)
}

// Less computes x < y elementwise over numeric operands.
func (b *Backend) Less(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	return b.compare("less", x, y,
		func(a, c int64) bool { return a < c },
		func(a, c float64) bool { return a < c })
}

// LessEqual computes x <= y elementwise over numeric operands.
func (b *Backend) LessEqual(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	return b.compare("less-equal", x, y,
		func(a, c int64) bool { return a <= c },
		func(a, c float64) bool { return a <= c })
}

// Greater computes x > y elementwise over numeric operands.
func (b *Backend) Greater(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	return b.compare("greater", x, y,
		func(a, c int64) bool { return a > c },
		func(a, c float64) bool { return a > c })
}

// GreaterEqual computes x >= y elementwise over numeric operands.
func (b *Backend) GreaterEqual(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	return b.compare("greater-equal", x, y,
		func(a, c int64) bool { return a >= c },
		func(a, c float64) bool { return a >= c })
}
