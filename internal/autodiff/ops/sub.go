package ops

// Sub is elementwise subtraction: f(x, y) = x - y.
type Sub struct{}

// F returns x - y.
func (Sub) F(x, y float64) float64 { return x - y }

// DFDX returns 1.
func (Sub) DFDX(_, _ float64) float64 { return 1 }

// DFDY returns -1.
func (Sub) DFDY(_, _ float64) float64 { return -1 }

// Name identifies the operation on the tape.
func (Sub) Name() string { return "sub" }

// Neg flips the sign: f(x) = -x.
type Neg struct{}

// F returns -x.
func (Neg) F(x float64) float64 { return -x }

// DF returns -1.
func (Neg) DF(_ float64) float64 { return -1 }

// Name identifies the operation on the tape.
func (Neg) Name() string { return "neg" }
