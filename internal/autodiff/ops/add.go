package ops

// Add is elementwise addition. Both partials are 1.
type Add struct{}

// F returns x + y.
func (Add) F(x, y float64) float64 { return x + y }

// DFDX returns 1.
func (Add) DFDX(_, _ float64) float64 { return 1 }

// DFDY returns 1.
func (Add) DFDY(_, _ float64) float64 { return 1 }

// Name identifies the operation on the tape.
func (Add) Name() string { return "add" }

// ScalarAdd shifts every element: f(x) = x + s.
type ScalarAdd struct {
	Scalar float64
}

// F returns x + s.
func (op ScalarAdd) F(x float64) float64 { return x + op.Scalar }

// DF returns 1.
func (ScalarAdd) DF(_ float64) float64 { return 1 }

// Name identifies the operation on the tape.
func (ScalarAdd) Name() string { return "add_scalar" }
