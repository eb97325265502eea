package cpu

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gradloop/gradloop/tensor"
)

const defaultParallelThreshold = 4096

// Backend computes tensor kernels on the host CPU. Kernels over large tensors
// are split into contiguous chunks and run across worker goroutines; smaller
// kernels stay on the calling goroutine.
type Backend struct {
	threshold int
	workers   int
}

var _ tensor.Backend = (*Backend)(nil)

// Option adjusts backend construction.
type Option func(*Backend)

// WithParallelThreshold sets the element count at which kernels start
// fanning out to worker goroutines.
func WithParallelThreshold(n int) Option {
	return func(b *Backend) {
		if n < 1 {
			n = 1
		}
		b.threshold = n
	}
}

// WithWorkers caps the number of goroutines a kernel may fan out to.
func WithWorkers(n int) Option {
	return func(b *Backend) {
		if n < 1 {
			n = 1
		}
		b.workers = n
	}
}

// New returns a CPU backend. By default kernels fan out to GOMAXPROCS
// goroutines once a tensor holds at least 4096 elements.
func New(opts ...Option) *Backend {
	b := &Backend{
		threshold: defaultParallelThreshold,
		workers:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// forEach runs fn over [0, n) in contiguous chunks, fanning out to worker
// goroutines when n reaches the parallel threshold.
func (b *Backend) forEach(n int, fn func(lo, hi int) error) error {
	if n == 0 {
		return nil
	}
	if n < b.threshold || b.workers < 2 {
		return fn(0, n)
	}
	chunks := b.workers
	if chunks > n {
		chunks = n
	}
	chunk := (n + chunks - 1) / chunks
	var g errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := min(lo+chunk, n)
		g.Go(func() error {
			return fn(lo, hi)
		})
	}
	return g.Wait()
}

func checkBinary(a, b *tensor.Tensor) error {
	if a == nil || b == nil {
		return tensor.ErrNilTensor
	}
	if a.DType() != b.DType() {
		return fmt.Errorf("%w: %s vs %s", tensor.ErrDTypeMismatch, a.DType(), b.DType())
	}
	if !a.Shape().Equal(b.Shape()) {
		return fmt.Errorf("%w: %s vs %s", tensor.ErrShapeMismatch, a.Shape(), b.Shape())
	}
	return nil
}

func checkNumeric(a *tensor.Tensor) error {
	if a == nil {
		return tensor.ErrNilTensor
	}
	if !a.DType().Numeric() {
		return fmt.Errorf("%w: want a numeric dtype, got %s", tensor.ErrDTypeUnsupported, a.DType())
	}
	return nil
}
