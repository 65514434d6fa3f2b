package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/born-ml/gradtape/internal/tensor"
)

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N), through gonum's GEMM.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	m, k, n, err := matmulDims(a, b)
	if err != nil {
		return nil, err
	}

	result, err := cpu.Allocate(tensor.Shape{m, n}, a.DType())
	if err != nil {
		return nil, err
	}

	if err := gemm(blas.NoTrans, blas.NoTrans, a, b, result, m, k, k, n); err != nil {
		return nil, err
	}
	return result, nil
}

// MatMulVJP returns the gradients of C = A @ B:
//
//	dA = dC @ Bᵀ   (M, N) @ (N, K)
//	dB = Aᵀ @ dC   (K, M) @ (M, N)
func (cpu *CPUBackend) MatMulVJP(a, b, grad *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor, error) {
	m, k, n, err := matmulDims(a, b)
	if err != nil {
		return nil, nil, err
	}
	if want := (tensor.Shape{m, n}); !grad.Shape().Equal(want) {
		return nil, nil, &tensor.ShapeError{Op: "matmul_vjp", Want: want, Got: grad.Shape(), Kind: tensor.ErrShapeMismatch}
	}

	gradA, err := cpu.Allocate(a.Shape(), a.DType())
	if err != nil {
		return nil, nil, err
	}
	gradB, err := cpu.Allocate(b.Shape(), b.DType())
	if err != nil {
		return nil, nil, err
	}

	if err := gemm(blas.NoTrans, blas.Trans, grad, b, gradA, m, n, k, n); err != nil {
		return nil, nil, err
	}
	if err := gemm(blas.Trans, blas.NoTrans, a, grad, gradB, m, k, m, n); err != nil {
		return nil, nil, err
	}
	return gradA, gradB, nil
}

func matmulDims(a, b *tensor.RawTensor) (m, k, n int, err error) {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		return 0, 0, 0, &tensor.ShapeError{Op: "matmul", Want: aShape, Got: bShape, Kind: tensor.ErrShapeMismatch}
	}
	if aShape[1] != bShape[0] {
		return 0, 0, 0, &tensor.ShapeError{Op: "matmul", Want: aShape, Got: bShape, Kind: tensor.ErrShapeMismatch}
	}
	if a.DType() != b.DType() {
		return 0, 0, 0, fmt.Errorf("matmul: %w: %s vs %s", tensor.ErrDTypeMismatch, a.DType(), b.DType())
	}
	return aShape[0], aShape[1], bShape[1], nil
}

// gemm computes c = op(a) @ op(b) where a is stored (aRows, aCols) and b is
// stored (bRows, bCols), both row-major.
func gemm(tA, tB blas.Transpose, a, b, c *tensor.RawTensor, aRows, aCols, bRows, bCols int) error {
	cRows, cCols := c.Shape()[0], c.Shape()[1]

	switch c.DType() {
	case tensor.Float32:
		blas32.Gemm(tA, tB, 1,
			blas32.General{Rows: aRows, Cols: aCols, Stride: aCols, Data: a.AsFloat32()},
			blas32.General{Rows: bRows, Cols: bCols, Stride: bCols, Data: b.AsFloat32()},
			0,
			blas32.General{Rows: cRows, Cols: cCols, Stride: cCols, Data: c.AsFloat32()},
		)
	case tensor.Float64:
		blas64.Gemm(tA, tB, 1,
			blas64.General{Rows: aRows, Cols: aCols, Stride: aCols, Data: a.AsFloat64()},
			blas64.General{Rows: bRows, Cols: bCols, Stride: bCols, Data: b.AsFloat64()},
			0,
			blas64.General{Rows: cRows, Cols: cCols, Stride: cCols, Data: c.AsFloat64()},
		)
	default:
		return unsupported("matmul", c.DType())
	}
	return nil
}
