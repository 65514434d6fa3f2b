package ops

import "math"

// Sqrt is the square root: f'(x) = 1 / (2√x).
type Sqrt struct{}

// F returns √x.
func (Sqrt) F(x float64) float64 { return math.Sqrt(x) }

// DF returns 1 / (2√x).
func (Sqrt) DF(x float64) float64 { return 0.5 / math.Sqrt(x) }

// Name identifies the operation on the tape.
func (Sqrt) Name() string { return "sqrt" }

// Pow raises every element to a fixed exponent: f(x) = x^p, f'(x) = p·x^(p-1).
type Pow struct {
	Exponent float64
}

// F returns x^p.
func (op Pow) F(x float64) float64 {
	return math.Pow(x, op.Exponent)
}

// DF returns p·x^(p-1), or 0 when p is 0.
func (op Pow) DF(x float64) float64 {
	if op.Exponent == 0 {
		return 0
	}
	return op.Exponent * math.Pow(x, op.Exponent-1)
}

// Name identifies the operation on the tape.
func (Pow) Name() string { return "pow" }
