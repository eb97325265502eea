package tensor

import "errors"

var (
	// ErrInvalidShape is returned when a shape carries a negative dimension.
	ErrInvalidShape = errors.New("invalid tensor shape")
	// ErrSizeMismatch is returned when the provided values do not fill the shape.
	ErrSizeMismatch = errors.New("value count does not match shape")
	// ErrDTypeMismatch is returned when an operation receives operands of different dtypes.
	ErrDTypeMismatch = errors.New("tensor dtypes differ")
	// ErrShapeMismatch is returned when an operation receives operands of different shapes.
	ErrShapeMismatch = errors.New("tensor shapes differ")
	// ErrDTypeUnsupported is returned when an operation cannot accept the operand dtype.
	ErrDTypeUnsupported = errors.New("dtype not supported by operation")
	// ErrNotScalar is returned by scalar accessors on tensors with more than one element.
	ErrNotScalar = errors.New("tensor is not a scalar")
	// ErrDivisionByZero is returned by integer division when a divisor element is zero.
	ErrDivisionByZero = errors.New("integer division by zero")
	// ErrNilTensor is returned when an operation receives a nil tensor.
	ErrNilTensor = errors.New("tensor is nil")
)
