package ops

import "math"

// Sin is the sine: f'(x) = cos(x).
type Sin struct{}

// F returns sin(x).
func (Sin) F(x float64) float64 { return math.Sin(x) }

// DF returns cos(x).
func (Sin) DF(x float64) float64 { return math.Cos(x) }

// Name identifies the operation on the tape.
func (Sin) Name() string { return "sin" }
