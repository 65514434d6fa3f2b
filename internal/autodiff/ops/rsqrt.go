package ops

import "math"

// Rsqrt is the reciprocal square root y = 1/√x.
//
// d(1/√x)/dx = -0.5 * x^(-3/2) = -0.5 * y³
type Rsqrt struct{}

// F returns 1 / √x.
func (Rsqrt) F(x float64) float64 { return 1 / math.Sqrt(x) }

// DF returns -0.5 / x^(3/2).
func (Rsqrt) DF(x float64) float64 {
	y := 1 / math.Sqrt(x)
	return -0.5 * y * y * y
}

// Name identifies the operation on the tape.
func (Rsqrt) Name() string { return "rsqrt" }
