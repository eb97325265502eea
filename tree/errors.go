package tree

import "errors"

var (
	// ErrInvalidValue is returned when a value (or one of its children) is the
	// zero Value or wraps a nil leaf.
	ErrInvalidValue = errors.New("tree value is invalid")
	// ErrInvalidDef is returned when a def cannot describe a value.
	ErrInvalidDef = errors.New("tree def is invalid")
	// ErrDefMismatch is returned when two values disagree on structure, leaf
	// dtypes, or leaf shapes.
	ErrDefMismatch = errors.New("tree structures differ")
	// ErrLeafCount is returned when a leaf list does not fill a def exactly.
	ErrLeafCount = errors.New("leaf count does not match def")
	// ErrNilLeaf is returned when a leaf slot receives a nil tensor.
	ErrNilLeaf = errors.New("leaf tensor is nil")
)
