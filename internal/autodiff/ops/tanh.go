package ops

import "math"

// Tanh is the hyperbolic tangent: f'(x) = 1 - tanh²(x).
type Tanh struct{}

// F returns tanh(x).
func (Tanh) F(x float64) float64 { return math.Tanh(x) }

// DF returns 1 - tanh²(x).
func (Tanh) DF(x float64) float64 {
	t := math.Tanh(x)
	return 1 - t*t
}

// Name identifies the operation on the tape.
func (Tanh) Name() string { return "tanh" }
