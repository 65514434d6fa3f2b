package optim

import (
	"math"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)  // Parameter update
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	params []*autodiff.Tensor
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	t      int                                   // Timestep for bias correction
	m      map[tensor.UniqueID]*tensor.RawTensor // First moment estimates
	v      map[tensor.UniqueID]*tensor.RawTensor // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

var _ Optimizer = (*Adam)(nil)

// NewAdam creates a new Adam optimizer, filling unset hyperparameters with
// the defaults listed on AdamConfig.
func NewAdam(params []*autodiff.Tensor, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make(map[tensor.UniqueID]*tensor.RawTensor),
		v:      make(map[tensor.UniqueID]*tensor.RawTensor),
	}
}

// Step performs a single optimization step using Adam algorithm.
func (a *Adam) Step(grads *autodiff.Gradients) (UnusedTensors, error) {
	a.t++
	bc1 := 1 - math.Pow(a.beta1, float64(a.t))
	bc2 := 1 - math.Pow(a.beta2, float64(a.t))

	var unused UnusedTensors
	for _, param := range a.params {
		grad, err := takeGradient(param, grads)
		if err != nil {
			return unused, err
		}
		if grad == nil {
			unused.IDs = append(unused.IDs, param.ID())
			continue
		}

		m, err := a.moment(a.m, param)
		if err != nil {
			return unused, err
		}
		v, err := a.moment(a.v, param)
		if err != nil {
			return unused, err
		}

		switch param.DType() {
		case tensor.Float32:
			adamUpdate(param.Raw().AsFloat32(), grad.AsFloat32(), m.AsFloat32(), v.AsFloat32(), a, bc1, bc2)
		case tensor.Float64:
			adamUpdate(param.Raw().AsFloat64(), grad.AsFloat64(), m.AsFloat64(), v.AsFloat64(), a, bc1, bc2)
		}
	}
	return unused, nil
}

func (a *Adam) moment(state map[tensor.UniqueID]*tensor.RawTensor, param *autodiff.Tensor) (*tensor.RawTensor, error) {
	if buf, ok := state[param.ID()]; ok {
		return buf, nil
	}
	buf, err := param.Backend().Allocate(param.Shape(), param.DType())
	if err != nil {
		return nil, err
	}
	state[param.ID()] = buf
	return buf, nil
}

func adamUpdate[T float](param, grad, m, v []T, a *Adam, bc1, bc2 float64) {
	for i := range param {
		g := float64(grad[i])
		mi := a.beta1*float64(m[i]) + (1-a.beta1)*g
		vi := a.beta2*float64(v[i]) + (1-a.beta2)*g*g
		m[i], v[i] = T(mi), T(vi)

		mHat := mi / bc1
		vHat := vi / bc2
		param[i] -= T(a.lr * mHat / (math.Sqrt(vHat) + a.eps))
	}
}

// LR returns the current learning rate.
func (a *Adam) LR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}

// Timestep returns the number of steps taken.
func (a *Adam) Timestep() int {
	return a.t
}
