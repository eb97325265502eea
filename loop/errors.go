package loop

import "errors"

var (
	// ErrInvalidBound is returned when the step bound is negative.
	ErrInvalidBound = errors.New("step bound must be non-negative")
	// ErrInvalidCondition is returned when a condition result is not a bool scalar.
	ErrInvalidCondition = errors.New("condition must return a bool scalar")
	// ErrStructureMismatch is returned when a body changes the carried
	// state's structure, leaf dtypes, or leaf shapes.
	ErrStructureMismatch = errors.New("body changed the carried state structure")
	// ErrMaxStepsExceeded reports a loop that spent its whole step budget
	// with the condition still true. Run truncates silently; overflow
	// policies surface this error instead.
	ErrMaxStepsExceeded = errors.New("loop exhausted its step budget")
	// ErrObserve wraps step observer failures.
	ErrObserve = errors.New("observe step")
	// ErrMissingEngine is returned by NewRunner when no engine is wired.
	ErrMissingEngine = errors.New("missing engine")
	// ErrNilCondition is returned when Run receives a nil condition.
	ErrNilCondition = errors.New("condition is nil")
	// ErrNilBody is returned when Run receives a nil body.
	ErrNilBody = errors.New("body is nil")
	// ErrInvalidState is returned when the initial state fails validation.
	ErrInvalidState = errors.New("initial state is invalid")
	// ErrContextNil is returned when Run receives a nil context.
	ErrContextNil = errors.New("context must not be nil")
)
