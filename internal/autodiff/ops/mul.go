package ops

// Mul is elementwise multiplication: f(x, y) = x * y.
type Mul struct{}

// F returns x * y.
func (Mul) F(x, y float64) float64 { return x * y }

// DFDX returns y.
func (Mul) DFDX(_, y float64) float64 { return y }

// DFDY returns x.
func (Mul) DFDY(x, _ float64) float64 { return x }

// Name identifies the operation on the tape.
func (Mul) Name() string { return "mul" }

// ScalarMul scales every element: f(x) = x * s.
type ScalarMul struct {
	Scalar float64
}

// F returns x * s.
func (op ScalarMul) F(x float64) float64 { return x * op.Scalar }

// DF returns s.
func (op ScalarMul) DF(_ float64) float64 { return op.Scalar }

// Name identifies the operation on the tape.
func (ScalarMul) Name() string { return "mul_scalar" }
