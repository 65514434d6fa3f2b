package ops

import "math"

// Cos is the cosine: f'(x) = -sin(x).
type Cos struct{}

// F returns cos(x).
func (Cos) F(x float64) float64 { return math.Cos(x) }

// DF returns -sin(x).
func (Cos) DF(x float64) float64 { return -math.Sin(x) }

// Name identifies the operation on the tape.
func (Cos) Name() string { return "cos" }
