package tensor

import (
	"fmt"
	"strconv"
	"strings"
)

// DType identifies the element type of a tensor.
type DType uint8

const (
	Invalid DType = iota
	Bool
	Int64
	Float64
)

// Numeric reports whether the dtype supports arithmetic.
func (d DType) Numeric() bool { return d == Int64 || d == Float64 }

func (d DType) String() string {
	switch d {
	case Bool:
		return "bool"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	default:
		return "invalid"
	}
}

// Tensor is an immutable dense array of a single dtype. All constructors copy
// the data they receive, so callers may keep and mutate their input slices.
type Tensor struct {
	dtype  DType
	shape  Shape
	bools  []bool
	ints   []int64
	floats []float64
}

// BoolScalar returns a rank-0 bool tensor.
func BoolScalar(v bool) *Tensor {
	return &Tensor{dtype: Bool, bools: []bool{v}}
}

// Int64Scalar returns a rank-0 int64 tensor.
func Int64Scalar(v int64) *Tensor {
	return &Tensor{dtype: Int64, ints: []int64{v}}
}

// Float64Scalar returns a rank-0 float64 tensor.
func Float64Scalar(v float64) *Tensor {
	return &Tensor{dtype: Float64, floats: []float64{v}}
}

// FromBools builds a bool tensor of the given shape from values in row-major order.
func FromBools(shape Shape, values []bool) (*Tensor, error) {
	if err := checkData(shape, len(values)); err != nil {
		return nil, err
	}
	data := make([]bool, len(values))
	copy(data, values)
	return &Tensor{dtype: Bool, shape: shape.Clone(), bools: data}, nil
}

// FromInt64s builds an int64 tensor of the given shape from values in row-major order.
func FromInt64s(shape Shape, values []int64) (*Tensor, error) {
	if err := checkData(shape, len(values)); err != nil {
		return nil, err
	}
	data := make([]int64, len(values))
	copy(data, values)
	return &Tensor{dtype: Int64, shape: shape.Clone(), ints: data}, nil
}

// FromFloat64s builds a float64 tensor of the given shape from values in row-major order.
func FromFloat64s(shape Shape, values []float64) (*Tensor, error) {
	if err := checkData(shape, len(values)); err != nil {
		return nil, err
	}
	data := make([]float64, len(values))
	copy(data, values)
	return &Tensor{dtype: Float64, shape: shape.Clone(), floats: data}, nil
}

func checkData(shape Shape, n int) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	if size := shape.Size(); size != n {
		return fmt.Errorf("%w: shape %s holds %d elements, got %d values", ErrSizeMismatch, shape, size, n)
	}
	return nil
}

// Zeros returns a tensor of the given dtype and shape with every element at
// its zero value.
func Zeros(dtype DType, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	out := &Tensor{dtype: dtype, shape: shape.Clone()}
	switch dtype {
	case Bool:
		out.bools = make([]bool, shape.Size())
	case Int64:
		out.ints = make([]int64, shape.Size())
	case Float64:
		out.floats = make([]float64, shape.Size())
	default:
		return nil, fmt.Errorf("%w: %s", ErrDTypeUnsupported, dtype)
	}
	return out, nil
}

// ZerosLike returns a zero-filled tensor with t's dtype and shape.
func ZerosLike(t *Tensor) (*Tensor, error) {
	if t == nil {
		return nil, ErrNilTensor
	}
	return Zeros(t.dtype, t.shape)
}

// FullLike returns a tensor with t's shape holding v in every element. The
// dtype must be numeric; int64 tensors truncate v.
func FullLike(t *Tensor, v float64) (*Tensor, error) {
	if t == nil {
		return nil, ErrNilTensor
	}
	switch t.dtype {
	case Int64:
		data := make([]int64, t.Size())
		iv := int64(v)
		for i := range data {
			data[i] = iv
		}
		return &Tensor{dtype: Int64, shape: t.shape.Clone(), ints: data}, nil
	case Float64:
		data := make([]float64, t.Size())
		for i := range data {
			data[i] = v
		}
		return &Tensor{dtype: Float64, shape: t.shape.Clone(), floats: data}, nil
	default:
		return nil, fmt.Errorf("%w: fill requires a numeric dtype, got %s", ErrDTypeUnsupported, t.dtype)
	}
}

// OnesLike returns a one-filled tensor with t's dtype and shape. The dtype
// must be numeric.
func OnesLike(t *Tensor) (*Tensor, error) {
	return FullLike(t, 1)
}

// DType returns the element type.
func (t *Tensor) DType() DType { return t.dtype }

// Shape returns a copy of the dimension list.
func (t *Tensor) Shape() Shape { return t.shape.Clone() }

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// Size returns the number of elements.
func (t *Tensor) Size() int { return t.shape.Size() }

// IsScalar reports whether the tensor is rank 0.
func (t *Tensor) IsScalar() bool { return t.shape.Rank() == 0 }

// Bools returns a copy of the elements of a bool tensor.
func (t *Tensor) Bools() ([]bool, error) {
	if t.dtype != Bool {
		return nil, fmt.Errorf("%w: want bool, got %s", ErrDTypeUnsupported, t.dtype)
	}
	out := make([]bool, len(t.bools))
	copy(out, t.bools)
	return out, nil
}

// Int64s returns a copy of the elements of an int64 tensor.
func (t *Tensor) Int64s() ([]int64, error) {
	if t.dtype != Int64 {
		return nil, fmt.Errorf("%w: want int64, got %s", ErrDTypeUnsupported, t.dtype)
	}
	out := make([]int64, len(t.ints))
	copy(out, t.ints)
	return out, nil
}

// Float64s returns a copy of the elements of a float64 tensor.
func (t *Tensor) Float64s() ([]float64, error) {
	if t.dtype != Float64 {
		return nil, fmt.Errorf("%w: want float64, got %s", ErrDTypeUnsupported, t.dtype)
	}
	out := make([]float64, len(t.floats))
	copy(out, t.floats)
	return out, nil
}

// RawBools returns the backing slice of a bool tensor without copying. The
// slice must be treated as read-only. It is nil for other dtypes.
func (t *Tensor) RawBools() []bool { return t.bools }

// RawInt64s returns the backing slice of an int64 tensor without copying. The
// slice must be treated as read-only. It is nil for other dtypes.
func (t *Tensor) RawInt64s() []int64 { return t.ints }

// RawFloat64s returns the backing slice of a float64 tensor without copying.
// The slice must be treated as read-only. It is nil for other dtypes.
func (t *Tensor) RawFloat64s() []float64 { return t.floats }

// AsBool returns the value of a bool scalar.
func (t *Tensor) AsBool() (bool, error) {
	if t.dtype != Bool {
		return false, fmt.Errorf("%w: want bool, got %s", ErrDTypeUnsupported, t.dtype)
	}
	if !t.IsScalar() {
		return false, fmt.Errorf("%w: shape %s", ErrNotScalar, t.shape)
	}
	return t.bools[0], nil
}

// AsInt64 returns the value of an int64 scalar.
func (t *Tensor) AsInt64() (int64, error) {
	if t.dtype != Int64 {
		return 0, fmt.Errorf("%w: want int64, got %s", ErrDTypeUnsupported, t.dtype)
	}
	if !t.IsScalar() {
		return 0, fmt.Errorf("%w: shape %s", ErrNotScalar, t.shape)
	}
	return t.ints[0], nil
}

// AsFloat64 returns the value of a float64 scalar.
func (t *Tensor) AsFloat64() (float64, error) {
	if t.dtype != Float64 {
		return 0, fmt.Errorf("%w: want float64, got %s", ErrDTypeUnsupported, t.dtype)
	}
	if !t.IsScalar() {
		return 0, fmt.Errorf("%w: shape %s", ErrNotScalar, t.shape)
	}
	return t.floats[0], nil
}

// Equal reports whether both tensors share dtype, shape, and exact element
// values. Two nil tensors compare equal.
func (t *Tensor) Equal(other *Tensor) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.dtype != other.dtype || !t.shape.Equal(other.shape) {
		return false
	}
	switch t.dtype {
	case Bool:
		for i := range t.bools {
			if t.bools[i] != other.bools[i] {
				return false
			}
		}
	case Int64:
		for i := range t.ints {
			if t.ints[i] != other.ints[i] {
				return false
			}
		}
	case Float64:
		for i := range t.floats {
			if t.floats[i] != other.floats[i] {
				return false
			}
		}
	}
	return true
}

// AllClose reports whether both tensors share dtype and shape, with float64
// elements within tol of each other and all other dtypes exactly equal.
func (t *Tensor) AllClose(other *Tensor, tol float64) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.dtype != Float64 {
		return t.Equal(other)
	}
	if other.dtype != Float64 || !t.shape.Equal(other.shape) {
		return false
	}
	for i := range t.floats {
		diff := t.floats[i] - other.floats[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > tol {
			return false
		}
	}
	return true
}

const stringElemLimit = 8

// String renders the tensor as dtype, shape, and up to eight elements.
func (t *Tensor) String() string {
	if t == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(t.dtype.String())
	b.WriteString(t.shape.String())
	b.WriteString("{")
	n := t.Size()
	shown := min(n, stringElemLimit)
	for i := 0; i < shown; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		switch t.dtype {
		case Bool:
			b.WriteString(strconv.FormatBool(t.bools[i]))
		case Int64:
			b.WriteString(strconv.FormatInt(t.ints[i], 10))
		case Float64:
			b.WriteString(strconv.FormatFloat(t.floats[i], 'g', -1, 64))
		}
	}
	if n > shown {
		b.WriteString(" ...")
	}
	b.WriteString("}")
	return b.String()
}
