package tensor

// UnaryDerivative is the contract an elementwise unary operation implements to
// become differentiable: its forward function and the derivative of that
// function, both evaluated at the same input. Static parameters of the
// operation (a scalar divisor, an exponent) live in the implementing value.
//
// Implementations must be pure: the same input always yields the same output,
// because partials are recomputed from captured inputs during Backward.
type UnaryDerivative interface {
	F(x float64) float64
	DF(x float64) float64
}

// BinaryDerivative is the two-operand counterpart of UnaryDerivative.
type BinaryDerivative interface {
	F(x, y float64) float64
	DFDX(x, y float64) float64
	DFDY(x, y float64) float64
}

// Named is optionally implemented by kernels to label recorded operations.
type Named interface {
	Name() string
}
