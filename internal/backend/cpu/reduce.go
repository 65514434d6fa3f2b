package cpu

import (
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/gradtape/internal/tensor"
)

// Sum reduces x to a 0-d scalar. Float32 input is accumulated in float64.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	result, err := cpu.Allocate(tensor.Shape{}, x.DType())
	if err != nil {
		return nil, err
	}

	switch x.DType() {
	case tensor.Float32:
		var sum float64
		for _, v := range x.AsFloat32() {
			sum += float64(v)
		}
		result.AsFloat32()[0] = float32(sum)
	case tensor.Float64:
		result.AsFloat64()[0] = floats.Sum(x.AsFloat64())
	default:
		return nil, unsupported("sum", x.DType())
	}
	return result, nil
}

// Expand broadcasts the 0-d grad to shape, multiplying every element by scale.
// It is the backward of Sum (scale 1) and Mean (scale 1/n).
func (cpu *CPUBackend) Expand(grad *tensor.RawTensor, shape tensor.Shape, scale float64) (*tensor.RawTensor, error) {
	if !grad.Shape().IsScalar() {
		return nil, &tensor.ShapeError{Op: "expand", Got: grad.Shape(), Kind: tensor.ErrNotScalar}
	}

	result, err := cpu.Allocate(shape, grad.DType())
	if err != nil {
		return nil, err
	}

	switch grad.DType() {
	case tensor.Float32:
		fill(result.AsFloat32(), float32(float64(grad.AsFloat32()[0])*scale))
	case tensor.Float64:
		fill(result.AsFloat64(), grad.AsFloat64()[0]*scale)
	default:
		return nil, unsupported("expand", grad.DType())
	}
	return result, nil
}

// AddInto performs dst += src. It is the only operation that writes into an
// existing buffer and is reserved for gradient accumulation.
func (cpu *CPUBackend) AddInto(dst, src *tensor.RawTensor) error {
	if err := tensor.CheckSameShape("add_into", dst, src); err != nil {
		return err
	}

	switch dst.DType() {
	case tensor.Float32:
		d, s := dst.AsFloat32(), src.AsFloat32()
		blas32.Axpy(1,
			blas32.Vector{N: len(s), Inc: 1, Data: s},
			blas32.Vector{N: len(d), Inc: 1, Data: d},
		)
	case tensor.Float64:
		floats.Add(dst.AsFloat64(), src.AsFloat64())
	default:
		return unsupported("add_into", dst.DType())
	}
	return nil
}
