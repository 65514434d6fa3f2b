package ops

import "math"

// Exp is the natural exponential. Its derivative is itself.
type Exp struct{}

// F returns e^x.
func (Exp) F(x float64) float64 { return math.Exp(x) }

// DF returns e^x.
func (Exp) DF(x float64) float64 { return math.Exp(x) }

// Name identifies the operation on the tape.
func (Exp) Name() string { return "exp" }
