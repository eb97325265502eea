package tensor

// Backend supplies the elementwise and reduction kernels tensors are computed
// with. Binary kernels require operands of identical dtype and shape and never
// broadcast, except Where, which accepts a scalar predicate over shaped
// operands. Implementations must not mutate their inputs.
type Backend interface {
	// Add, Sub, Mul, and Div apply elementwise arithmetic to numeric operands.
	// Integer Div fails with ErrDivisionByZero on any zero divisor element;
	// float64 Div follows IEEE semantics.
	Add(a, b *Tensor) (*Tensor, error)
	Sub(a, b *Tensor) (*Tensor, error)
	Mul(a, b *Tensor) (*Tensor, error)
	Div(a, b *Tensor) (*Tensor, error)

	// Neg and Abs apply elementwise to a numeric operand. Scale multiplies a
	// float64 operand by a constant.
	Neg(a *Tensor) (*Tensor, error)
	Abs(a *Tensor) (*Tensor, error)
	Scale(c float64, a *Tensor) (*Tensor, error)

	// Sum reduces a numeric operand to a scalar of the same dtype.
	Sum(a *Tensor) (*Tensor, error)

	// Comparisons map numeric operands to a bool tensor of the same shape.
	Less(a, b *Tensor) (*Tensor, error)
	LessEqual(a, b *Tensor) (*Tensor, error)
	Greater(a, b *Tensor) (*Tensor, error)
	GreaterEqual(a, b *Tensor) (*Tensor, error)

	// And, Or, and Not apply elementwise boolean logic to bool operands.
	And(a, b *Tensor) (*Tensor, error)
	Or(a, b *Tensor) (*Tensor, error)
	Not(a *Tensor) (*Tensor, error)

	// Where picks candidate elements where pred is true and fallback elements
	// where it is false. pred must be bool, either scalar or shaped like the
	// operands; candidate and fallback must share dtype and shape.
	Where(pred, candidate, fallback *Tensor) (*Tensor, error)
}
