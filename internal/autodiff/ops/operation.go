// Package ops defines the kernel derivative descriptors of the built-in
// differentiable operations.
//
// Each descriptor pairs a forward formula with its partial derivatives and
// satisfies tensor.UnaryDerivative or tensor.BinaryDerivative:
//   - ScalarDiv: x / s           (d/dx = 1/s)
//   - Div:       x / y           (d/dx = 1/y, d/dy = -x/y²)
//   - Mul:       x * y           (d/dx = y,   d/dy = x)
//   - Add, Sub, Neg, ScalarAdd, ScalarMul
//   - Exp, Log, Sqrt, Rsqrt, Pow, Sin, Cos, Tanh, Sigmoid, SiLU, ReLU
//
// Descriptors are plain values without mutable state, so evaluating a
// partial during Backward gives the same number it would have given during
// the forward pass.
package ops

import "github.com/born-ml/gradtape/internal/tensor"

var (
	_ tensor.UnaryDerivative  = ScalarDiv{}
	_ tensor.UnaryDerivative  = ScalarMul{}
	_ tensor.UnaryDerivative  = ScalarAdd{}
	_ tensor.UnaryDerivative  = Neg{}
	_ tensor.UnaryDerivative  = Exp{}
	_ tensor.UnaryDerivative  = Log{}
	_ tensor.UnaryDerivative  = Sqrt{}
	_ tensor.UnaryDerivative  = Pow{}
	_ tensor.UnaryDerivative  = Tanh{}
	_ tensor.UnaryDerivative  = Sigmoid{}
	_ tensor.UnaryDerivative  = ReLU{}
	_ tensor.UnaryDerivative  = Rsqrt{}
	_ tensor.UnaryDerivative  = Sin{}
	_ tensor.UnaryDerivative  = Cos{}
	_ tensor.UnaryDerivative  = SiLU{}
	_ tensor.BinaryDerivative = Div{}
	_ tensor.BinaryDerivative = Mul{}
	_ tensor.BinaryDerivative = Add{}
	_ tensor.BinaryDerivative = Sub{}
)
