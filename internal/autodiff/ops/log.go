package ops

import "math"

// Log is the natural logarithm: f(x) = ln x, f'(x) = 1/x.
//
// Input values must be positive; non-positive inputs yield NaN or -Inf in
// the forward value and propagate into the gradient unchanged.
type Log struct{}

// F returns ln x.
func (Log) F(x float64) float64 { return math.Log(x) }

// DF returns 1 / x.
func (Log) DF(x float64) float64 { return 1 / x }

// Name identifies the operation on the tape.
func (Log) Name() string { return "log" }
