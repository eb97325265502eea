package cpu

import (
	"fmt"
	"math"

	"github.com/gradloop/gradloop/tensor"
)

func binaryKernel[T int64 | float64](b *Backend, xs, ys []T, op func(T, T) T) ([]T, error) {
	out := make([]T, len(xs))
	err := b.forEach(len(out), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			out[i] = op(xs[i], ys[i])
		}
		return nil
	})
	return out, err
}

func unaryKernel[T int64 | float64](b *Backend, xs []T, op func(T) T) ([]T, error) {
	out := make([]T, len(xs))
	err := b.forEach(len(out), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			out[i] = op(xs[i])
		}
		return nil
	})
	return out, err
}

func (b *Backend) binary(name string, x, y *tensor.Tensor, intOp func(int64, int64) int64, floatOp func(float64, float64) float64) (*tensor.Tensor, error) {
	if err := checkBinary(x, y); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	switch x.DType() {
	case tensor.Int64:
		out, err := binaryKernel(b, x.RawInt64s(), y.RawInt64s(), intOp)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return tensor.FromInt64s(x.Shape(), out)
	case tensor.Float64:
		out, err := binaryKernel(b, x.RawFloat64s(), y.RawFloat64s(), floatOp)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return tensor.FromFloat64s(x.Shape(), out)
	default:
		return nil, fmt.Errorf("%s: %w: %s", name, tensor.ErrDTypeUnsupported, x.DType())
	}
}

// Add computes x + y elementwise.
func (b *Backend) Add(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	return b.binary("add", x, y,
		func(a, c int64) int64 { return a + c },
		func(a, c float64) float64 { return a + c })
}

// Sub computes x - y elementwise.
func (b *Backend) Sub(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	return b.binary("sub", x, y,
		func(a, c int64) int64 { return a - c },
		func(a, c float64) float64 { return a - c })
}

// Mul computes x * y elementwise.
func (b *Backend) Mul(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	return b.binary("mul", x, y,
		func(a, c int64) int64 { return a * c },
		func(a, c float64) float64 { return a * c })
}

// Div computes x / y elementwise. Integer division fails on any zero divisor
// element; float64 division follows IEEE semantics.
func (b *Backend) Div(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkBinary(x, y); err != nil {
		return nil, fmt.Errorf("div: %w", err)
	}
	switch x.DType() {
	case tensor.Int64:
		xs, ys := x.RawInt64s(), y.RawInt64s()
		out := make([]int64, len(xs))
		err := b.forEach(len(out), func(lo, hi int) error {
			for i := lo; i < hi; i++ {
				if ys[i] == 0 {
					return fmt.Errorf("%w: element %d", tensor.ErrDivisionByZero, i)
				}
				out[i] = xs[i] / ys[i]
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("div: %w", err)
		}
		return tensor.FromInt64s(x.Shape(), out)
	case tensor.Float64:
		out, err := binaryKernel(b, x.RawFloat64s(), y.RawFloat64s(),
			func(a, c float64) float64 { return a / c })
		if err != nil {
			return nil, fmt.Errorf("div: %w", err)
		}
		return tensor.FromFloat64s(x.Shape(), out)
	default:
		return nil, fmt.Errorf("div: %w: %s", tensor.ErrDTypeUnsupported, x.DType())
	}
}

func (b *Backend) unary(name string, x *tensor.Tensor, intOp func(int64) int64, floatOp func(float64) float64) (*tensor.Tensor, error) {
	if err := checkNumeric(x); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	switch x.DType() {
	case tensor.Int64:
		out, err := unaryKernel(b, x.RawInt64s(), intOp)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return tensor.FromInt64s(x.Shape(), out)
	default:
		out, err := unaryKernel(b, x.RawFloat64s(), floatOp)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return tensor.FromFloat64s(x.Shape(), out)
	}
}

// Neg computes -x elementwise.
func (b *Backend) Neg(x *tensor.Tensor) (*tensor.Tensor, error) {
	return b.unary("neg", x,
		func(a int64) int64 { return -a },
		func(a float64) float64 { return -a })
}

// Abs computes |x| elementwise.
func (b *Backend) Abs(x *tensor.Tensor) (*tensor.Tensor, error) {
	return b.unary("abs", x,
		func(a int64) int64 {
			if a < 0 {
				return -a
			}
			return a
		},
		math.Abs)
}

// Scale computes c * x elementwise over a float64 tensor.
func (b *Backend) Scale(c float64, x *tensor.Tensor) (*tensor.Tensor, error) {
	if x == nil {
		return nil, fmt.Errorf("scale: %w", tensor.ErrNilTensor)
	}
	if x.DType() != tensor.Float64 {
		return nil, fmt.Errorf("scale: %w: want float64, got %s", tensor.ErrDTypeUnsupported, x.DType())
	}
	out, err := unaryKernel(b, x.RawFloat64s(), func(a float64) float64 { return c * a })
	if err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}
	return tensor.FromFloat64s(x.Shape(), out)
}
