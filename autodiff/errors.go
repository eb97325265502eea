package autodiff

import "errors"

var (
	// ErrMissingBackend is returned by NewTape when no tensor backend is wired.
	ErrMissingBackend = errors.New("missing tensor backend")
	// ErrScalarOutput is returned by Gradient when the output is not a float64 scalar.
	ErrScalarOutput = errors.New("gradient output must be a float64 scalar")
	// ErrNonDifferentiable is returned by Gradient for non-float64 targets.
	ErrNonDifferentiable = errors.New("cannot differentiate with respect to a non-float64 tensor")
	// ErrNilStep is returned by Fold when the step function is nil.
	ErrNilStep = errors.New("step function is nil")
)
