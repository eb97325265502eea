package cpu

import (
	"fmt"

	"github.com/gradloop/gradloop/tensor"
)

// Sum reduces a numeric tensor to a scalar of the same dtype. The reduction
// accumulates sequentially so results stay deterministic.
func (b *Backend) Sum(x *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkNumeric(x); err != nil {
		return nil, fmt.Errorf("sum: %w", err)
	}
	switch x.DType() {
	case tensor.Int64:
		var acc int64
		for _, v := range x.RawInt64s() {
			acc += v
		}
		return tensor.Int64Scalar(acc), nil
	default:
		var acc float64
		for _, v := range x.RawFloat64s() {
			acc += v
		}
		return tensor.Float64Scalar(acc), nil
	}
}
