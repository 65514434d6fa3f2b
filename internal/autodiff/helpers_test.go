package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/backend/cpu"
	"github.com/born-ml/gradtape/internal/parallel"
	"github.com/born-ml/gradtape/internal/tensor"
)

func newBackend() *cpu.CPUBackend {
	return cpu.NewWithConfig(cpu.Config{Parallel: parallel.Sequential()})
}

func fromSlice[T tensor.DType](t *testing.T, b tensor.Backend, shape tensor.Shape, data ...T) *autodiff.Tensor {
	t.Helper()
	x, err := autodiff.FromSlice(data, shape, b)
	require.NoError(t, err)
	return x
}

func scalar(t *testing.T, b tensor.Backend, v float64) *autodiff.Tensor {
	t.Helper()
	x, err := autodiff.Scalar(v, b)
	require.NoError(t, err)
	return x
}

func must(t *testing.T) func(*autodiff.Tensor, error) *autodiff.Tensor {
	t.Helper()
	return func(x *autodiff.Tensor, err error) *autodiff.Tensor {
		t.Helper()
		require.NoError(t, err)
		return x
	}
}

func gradOf(t *testing.T, grads *autodiff.Gradients, x *autodiff.Tensor) []float64 {
	t.Helper()
	g, ok := grads.Get(x)
	require.True(t, ok, "no gradient for tensor %d", x.ID())
	return g.Values()
}

// numericGrad returns the central-difference gradient of f at xs.
func numericGrad(f func([]float64) float64, xs []float64) []float64 {
	const eps = 1e-6
	out := make([]float64, len(xs))
	for i := range xs {
		p := append([]float64(nil), xs...)
		m := append([]float64(nil), xs...)
		p[i] += eps
		m[i] -= eps
		out[i] = (f(p) - f(m)) / (2 * eps)
	}
	return out
}

// flakyBackend refuses allocations once armed.
type flakyBackend struct {
	*cpu.CPUBackend
	armed bool
}

func (b *flakyBackend) Allocate(shape tensor.Shape, dtype tensor.DataType) (*tensor.RawTensor, error) {
	if b.armed {
		return nil, &tensor.DeviceError{Op: "allocate", Device: tensor.CPU, Err: tensor.ErrOutOfMemory}
	}
	return b.CPUBackend.Allocate(shape, dtype)
}
