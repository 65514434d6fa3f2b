// Package autodiff implements tape-based reverse-mode automatic differentiation.
//
// Architecture:
//   - Tensor: a value plus an optional GradientTape it owns
//   - GradientTape: append-only log of backward ops, replayed in reverse
//   - Gradients: identity -> gradient buffer, accumulate-or-create
//   - Kernel descriptors (tensor.UnaryDerivative, tensor.BinaryDerivative):
//     the only thing a new differentiable elementwise op has to provide
//
// Every operation computes its forward value on the backend, moves the tapes
// of its operands into the result (operand A's ops first, then operand B's)
// and records one backward op. Operations on untracked tensors record nothing.
//
// Usage:
//
//	backend := cpu.New()
//	x, _ := autodiff.FromSlice([]float32{6}, tensor.Shape{}, backend)
//	y, _ := autodiff.FromSlice([]float32{2}, tensor.Shape{}, backend)
//	tx, ty := x.Trace(), y.Trace()
//	z, _ := tx.Div(ty)
//	grads, _ := autodiff.Backward(z)
//	gx, _ := grads.Get(x) // 1/y = 0.5
//	gy, _ := grads.Get(y) // -x/y² = -1.5
package autodiff

import (
	"github.com/pkg/errors"

	"github.com/born-ml/gradtape/internal/autodiff/ops"
	"github.com/born-ml/gradtape/internal/tensor"
)

// Unary applies an elementwise kernel to x and records its backward op when
// x is tracked.
func Unary(x *Tensor, k tensor.UnaryDerivative) (*Tensor, error) {
	out, err := x.backend.ApplyUnary(x.raw, k)
	if err != nil {
		return nil, errors.WithMessage(err, kernelName(k))
	}

	result := New(out, x.backend)
	if !x.requiresGrad {
		return result, nil
	}

	tape := takeTapes(x, nil)
	tape.Record(&unaryRecord{kernel: k, x: x.raw, out: out.ID()})
	result.track(tape)
	return result, nil
}

// Binary applies an elementwise two-operand kernel and records its backward
// op when either operand is tracked. a and b must have the same shape.
func Binary(a, b *Tensor, k tensor.BinaryDerivative) (*Tensor, error) {
	out, err := a.backend.ApplyBinary(a.raw, b.raw, k)
	if err != nil {
		return nil, errors.WithMessage(err, kernelName(k))
	}

	result := New(out, a.backend)
	if !a.requiresGrad && !b.requiresGrad {
		return result, nil
	}

	rec := &binaryRecord{
		kernel: k,
		a:      a.raw,
		b:      b.raw,
		needA:  a.requiresGrad,
		needB:  b.requiresGrad,
		out:    out.ID(),
	}
	tape := takeTapes(a, b)
	tape.Record(rec)
	result.track(tape)
	return result, nil
}

// MatMul computes a @ b for 2-D tensors.
func MatMul(a, b *Tensor) (*Tensor, error) {
	out, err := a.backend.MatMul(a.raw, b.raw)
	if err != nil {
		return nil, err
	}

	result := New(out, a.backend)
	if !a.requiresGrad && !b.requiresGrad {
		return result, nil
	}

	rec := &matmulRecord{
		a:     a.raw,
		b:     b.raw,
		needA: a.requiresGrad,
		needB: b.requiresGrad,
		out:   out.ID(),
	}
	tape := takeTapes(a, b)
	tape.Record(rec)
	result.track(tape)
	return result, nil
}

// reduce computes scale * sum(x) as a 0-d tensor.
func reduce(name string, x *Tensor, scale float64) (*Tensor, error) {
	out, err := x.backend.Sum(x.raw)
	if err != nil {
		return nil, errors.WithMessage(err, name)
	}
	if scale != 1 {
		out, err = x.backend.ApplyUnary(out, ops.ScalarMul{Scalar: scale})
		if err != nil {
			return nil, errors.WithMessage(err, name)
		}
	}

	result := New(out, x.backend)
	if !x.requiresGrad {
		return result, nil
	}

	tape := takeTapes(x, nil)
	tape.Record(&reduceRecord{name: name, x: x.raw, scale: scale, out: out.ID()})
	result.track(tape)
	return result, nil
}

// takeTapes moves the tapes of a and b (in that order) into one tape.
// b may be nil or the same tensor as a.
func takeTapes(a, b *Tensor) *GradientTape {
	tape := a.TakeTape()
	if b != nil {
		other := b.TakeTape()
		switch {
		case tape == nil:
			tape = other
		default:
			tape.Merge(other)
		}
	}
	if tape == nil {
		tape = NewGradientTape()
	}
	return tape
}

func (t *Tensor) track(tape *GradientTape) {
	t.tape = tape
	t.requiresGrad = true
}

// Add returns t + other.
func (t *Tensor) Add(other *Tensor) (*Tensor, error) { return Binary(t, other, ops.Add{}) }

// Sub returns t - other.
func (t *Tensor) Sub(other *Tensor) (*Tensor, error) { return Binary(t, other, ops.Sub{}) }

// Mul returns t * other elementwise.
func (t *Tensor) Mul(other *Tensor) (*Tensor, error) { return Binary(t, other, ops.Mul{}) }

// Div returns t / other elementwise.
func (t *Tensor) Div(other *Tensor) (*Tensor, error) { return Binary(t, other, ops.Div{}) }

// DivScalar returns t / s.
func (t *Tensor) DivScalar(s float64) (*Tensor, error) { return Unary(t, ops.ScalarDiv{Scalar: s}) }

// MulScalar returns t * s.
func (t *Tensor) MulScalar(s float64) (*Tensor, error) { return Unary(t, ops.ScalarMul{Scalar: s}) }

// AddScalar returns t + s.
func (t *Tensor) AddScalar(s float64) (*Tensor, error) { return Unary(t, ops.ScalarAdd{Scalar: s}) }

// Neg returns -t.
func (t *Tensor) Neg() (*Tensor, error) { return Unary(t, ops.Neg{}) }

// Exp returns e^t.
func (t *Tensor) Exp() (*Tensor, error) { return Unary(t, ops.Exp{}) }

// Log returns ln t.
func (t *Tensor) Log() (*Tensor, error) { return Unary(t, ops.Log{}) }

// Sqrt returns √t.
func (t *Tensor) Sqrt() (*Tensor, error) { return Unary(t, ops.Sqrt{}) }

// Pow returns t^p.
func (t *Tensor) Pow(p float64) (*Tensor, error) { return Unary(t, ops.Pow{Exponent: p}) }

// Rsqrt returns 1/√t.
func (t *Tensor) Rsqrt() (*Tensor, error) { return Unary(t, ops.Rsqrt{}) }

// Sin returns sin t.
func (t *Tensor) Sin() (*Tensor, error) { return Unary(t, ops.Sin{}) }

// Cos returns cos t.
func (t *Tensor) Cos() (*Tensor, error) { return Unary(t, ops.Cos{}) }

// Tanh returns tanh t.
func (t *Tensor) Tanh() (*Tensor, error) { return Unary(t, ops.Tanh{}) }

// Sigmoid returns σ(t).
func (t *Tensor) Sigmoid() (*Tensor, error) { return Unary(t, ops.Sigmoid{}) }

// SiLU returns t * σ(t).
func (t *Tensor) SiLU() (*Tensor, error) { return Unary(t, ops.SiLU{}) }

// ReLU returns max(0, t).
func (t *Tensor) ReLU() (*Tensor, error) { return Unary(t, ops.ReLU{}) }

// MatMul returns t @ other.
func (t *Tensor) MatMul(other *Tensor) (*Tensor, error) { return MatMul(t, other) }

// Sum reduces t to a 0-d tensor.
func (t *Tensor) Sum() (*Tensor, error) { return reduce("sum", t, 1) }

// Mean reduces t to its 0-d average. Backward requires a scalar, so non-scalar
// outputs are usually reduced with Mean or Sum first.
func (t *Tensor) Mean() (*Tensor, error) {
	return reduce("mean", t, 1/float64(t.NumElements()))
}
