package ops

// SiLU (Swish) is y = x * σ(x).
//
// dy/dx = σ(x) + x * σ(x) * (1 - σ(x)) = σ(x) * (1 + x * (1 - σ(x)))
type SiLU struct{}

// F returns x * σ(x).
func (SiLU) F(x float64) float64 { return x * sigmoid(x) }

// DF returns σ(x)(1 + x(1 - σ(x))).
func (SiLU) DF(x float64) float64 {
	s := sigmoid(x)
	return s * (1 + x*(1-s))
}

// Name identifies the operation on the tape.
func (SiLU) Name() string { return "silu" }
