package ops

import "math"

// Sigmoid is the logistic function σ(x) = 1 / (1 + e^-x), with σ'(x) = σ(x)(1 - σ(x)).
type Sigmoid struct{}

// F returns σ(x).
func (Sigmoid) F(x float64) float64 {
	return sigmoid(x)
}

// DF returns σ(x)(1 - σ(x)).
func (Sigmoid) DF(x float64) float64 {
	s := sigmoid(x)
	return s * (1 - s)
}

// Name identifies the operation on the tape.
func (Sigmoid) Name() string { return "sigmoid" }

// sigmoid avoids overflow of e^-x for large negative x.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
