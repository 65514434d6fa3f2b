package ops

// ReLU is max(0, x). The derivative at 0 is taken as 0.
type ReLU struct{}

// F returns max(0, x).
func (ReLU) F(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// DF returns 1 for positive x and 0 otherwise.
func (ReLU) DF(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Name identifies the operation on the tape.
func (ReLU) Name() string { return "relu" }
