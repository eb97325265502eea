package autodiff

import (
	"fmt"

	"github.com/gradloop/gradloop/tensor"
)

// Gradient computes the derivative of output with respect to each wrt tensor
// by walking the recorded operations in reverse. The output must be a float64
// scalar produced on this tape; the seed gradient is 1. Targets the output
// never depended on receive zero gradients of their own shape.
//
// Tensors are identified by pointer, so callers must pass the exact tensors
// they fed into the recorded computation.
func (t *Tape) Gradient(output *tensor.Tensor, wrt ...*tensor.Tensor) ([]*tensor.Tensor, error) {
	if output == nil {
		return nil, fmt.Errorf("gradient: output: %w", tensor.ErrNilTensor)
	}
	if output.DType() != tensor.Float64 || !output.IsScalar() {
		return nil, fmt.Errorf("gradient: %w: got %s%s", ErrScalarOutput, output.DType(), output.Shape())
	}
	for i, target := range wrt {
		if target == nil {
			return nil, fmt.Errorf("gradient: target %d: %w", i, tensor.ErrNilTensor)
		}
		if target.DType() != tensor.Float64 {
			return nil, fmt.Errorf("gradient: target %d: %w: got %s", i, ErrNonDifferentiable, target.DType())
		}
	}

	grads := map[*tensor.Tensor]*tensor.Tensor{output: tensor.Float64Scalar(1)}
	for i := len(t.records) - 1; i >= 0; i-- {
		rec := t.records[i]
		grad, ok := grads[rec.output]
		if !ok {
			// This operation never fed the output.
			continue
		}
		inputGrads, err := rec.backward(grad)
		if err != nil {
			return nil, fmt.Errorf("gradient: backward through record %d: %w", i, err)
		}
		for j, input := range rec.inputs {
			existing, ok := grads[input]
			if !ok {
				grads[input] = inputGrads[j]
				continue
			}
			summed, err := t.backend.Add(existing, inputGrads[j])
			if err != nil {
				return nil, fmt.Errorf("gradient: accumulate: %w", err)
			}
			grads[input] = summed
		}
	}

	out := make([]*tensor.Tensor, len(wrt))
	for i, target := range wrt {
		if grad, ok := grads[target]; ok {
			out[i] = grad
			continue
		}
		zeros, err := tensor.ZerosLike(target)
		if err != nil {
			return nil, fmt.Errorf("gradient: zero gradient for target %d: %w", i, err)
		}
		out[i] = zeros
	}
	return out, nil
}
