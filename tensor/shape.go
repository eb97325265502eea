package tensor

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape is the dimension list of a tensor. A nil or empty shape denotes a
// scalar holding exactly one element.
type Shape []int

// Rank returns the number of dimensions.
func (s Shape) Rank() int { return len(s) }

// Size returns the number of elements the shape addresses. Scalars have size 1.
func (s Shape) Size() int {
	size := 1
	for _, dim := range s {
		size *= dim
	}
	return size
}

// Equal reports whether both shapes carry identical dimensions. A nil shape
// and an empty shape compare equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	if len(s) == 0 {
		return nil
	}
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// Validate rejects shapes with negative dimensions.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("%w: dimension %d is %d", ErrInvalidShape, i, dim)
		}
	}
	return nil
}

// String renders the shape as "[]" for scalars and "[2x3]" otherwise.
func (s Shape) String() string {
	if len(s) == 0 {
		return "[]"
	}
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = strconv.Itoa(dim)
	}
	return "[" + strings.Join(parts, "x") + "]"
}
