package ops

// ScalarDiv divides every element by a fixed scalar: f(x) = x / s.
type ScalarDiv struct {
	Scalar float64
}

// F returns x / s.
func (op ScalarDiv) F(x float64) float64 {
	return x / op.Scalar
}

// DF returns 1 / s.
func (op ScalarDiv) DF(_ float64) float64 {
	return 1 / op.Scalar
}

// Name identifies the operation on the tape.
func (op ScalarDiv) Name() string {
	return "div_scalar"
}

// Div is elementwise division: f(x, y) = x / y.
//
// Partials:
//   - d(x/y)/dx = 1/y
//   - d(x/y)/dy = -x/y²
type Div struct{}

// F returns x / y.
func (Div) F(x, y float64) float64 {
	return x / y
}

// DFDX returns 1 / y.
func (Div) DFDX(_, y float64) float64 {
	return 1 / y
}

// DFDY returns -x / y².
func (Div) DFDY(x, y float64) float64 {
	return -x / (y * y)
}

// Name identifies the operation on the tape.
func (Div) Name() string {
	return "div"
}
