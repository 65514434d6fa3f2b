package cpu

import (
	"fmt"

	"github.com/born-ml/gradtape/internal/parallel"
	"github.com/born-ml/gradtape/internal/tensor"
)

type float interface {
	~float32 | ~float64
}

func unsupported(op string, dt tensor.DataType) error {
	return &tensor.DeviceError{Op: op, Device: tensor.CPU, Err: fmt.Errorf("unsupported dtype %s", dt)}
}

// ApplyUnary evaluates k.F for every element of x into a new buffer.
func (cpu *CPUBackend) ApplyUnary(x *tensor.RawTensor, k tensor.UnaryDerivative) (*tensor.RawTensor, error) {
	result, err := cpu.Allocate(x.Shape(), x.DType())
	if err != nil {
		return nil, err
	}

	switch x.DType() {
	case tensor.Float32:
		mapUnary(result.AsFloat32(), x.AsFloat32(), k.F, cpu.cfg.Parallel)
	case tensor.Float64:
		mapUnary(result.AsFloat64(), x.AsFloat64(), k.F, cpu.cfg.Parallel)
	default:
		return nil, unsupported("apply_unary", x.DType())
	}
	return result, nil
}

// ApplyBinary evaluates k.F for every element pair of a and b.
func (cpu *CPUBackend) ApplyBinary(a, b *tensor.RawTensor, k tensor.BinaryDerivative) (*tensor.RawTensor, error) {
	if err := tensor.CheckSameShape("apply_binary", a, b); err != nil {
		return nil, err
	}

	result, err := cpu.Allocate(a.Shape(), a.DType())
	if err != nil {
		return nil, err
	}

	switch a.DType() {
	case tensor.Float32:
		mapBinary(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), k.F, cpu.cfg.Parallel)
	case tensor.Float64:
		mapBinary(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), k.F, cpu.cfg.Parallel)
	default:
		return nil, unsupported("apply_binary", a.DType())
	}
	return result, nil
}

// UnaryVJP returns grad * k.DF(x), the gradient contribution for x.
func (cpu *CPUBackend) UnaryVJP(x, grad *tensor.RawTensor, k tensor.UnaryDerivative) (*tensor.RawTensor, error) {
	if err := tensor.CheckSameShape("unary_vjp", x, grad); err != nil {
		return nil, err
	}

	result, err := cpu.Allocate(x.Shape(), x.DType())
	if err != nil {
		return nil, err
	}

	switch x.DType() {
	case tensor.Float32:
		mapBinary(result.AsFloat32(), x.AsFloat32(), grad.AsFloat32(), func(v, g float64) float64 {
			return g * k.DF(v)
		}, cpu.cfg.Parallel)
	case tensor.Float64:
		mapBinary(result.AsFloat64(), x.AsFloat64(), grad.AsFloat64(), func(v, g float64) float64 {
			return g * k.DF(v)
		}, cpu.cfg.Parallel)
	default:
		return nil, unsupported("unary_vjp", x.DType())
	}
	return result, nil
}

// BinaryVJP returns (grad * k.DFDX(a, b), grad * k.DFDY(a, b)).
func (cpu *CPUBackend) BinaryVJP(a, b, grad *tensor.RawTensor, k tensor.BinaryDerivative) (*tensor.RawTensor, *tensor.RawTensor, error) {
	if err := tensor.CheckSameShape("binary_vjp", a, b); err != nil {
		return nil, nil, err
	}
	if err := tensor.CheckSameShape("binary_vjp", a, grad); err != nil {
		return nil, nil, err
	}

	gradA, err := cpu.Allocate(a.Shape(), a.DType())
	if err != nil {
		return nil, nil, err
	}
	gradB, err := cpu.Allocate(b.Shape(), b.DType())
	if err != nil {
		return nil, nil, err
	}

	switch a.DType() {
	case tensor.Float32:
		binaryVJP(gradA.AsFloat32(), gradB.AsFloat32(), a.AsFloat32(), b.AsFloat32(), grad.AsFloat32(), k, cpu.cfg.Parallel)
	case tensor.Float64:
		binaryVJP(gradA.AsFloat64(), gradB.AsFloat64(), a.AsFloat64(), b.AsFloat64(), grad.AsFloat64(), k, cpu.cfg.Parallel)
	default:
		return nil, nil, unsupported("binary_vjp", a.DType())
	}
	return gradA, gradB, nil
}

func mapUnary[T float](dst, x []T, f func(float64) float64, cfg parallel.Config) {
	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = T(f(float64(x[i])))
		}
	}, cfg)
}

func mapBinary[T float](dst, a, b []T, f func(x, y float64) float64, cfg parallel.Config) {
	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = T(f(float64(a[i]), float64(b[i])))
		}
	}, cfg)
}

func binaryVJP[T float](gradA, gradB, a, b, grad []T, k tensor.BinaryDerivative, cfg parallel.Config) {
	parallel.ForRange(len(grad), func(start, end int) {
		for i := start; i < end; i++ {
			x, y, g := float64(a[i]), float64(b[i]), float64(grad[i])
			gradA[i] = T(g * k.DFDX(x, y))
			gradB[i] = T(g * k.DFDY(x, y))
		}
	}, cfg)
}
