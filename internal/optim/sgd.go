package optim

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/tensor"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Parameters are updated in place. They must be leaves: the gradient is
// looked up by the parameter's identity.
type SGD struct {
	params     []*autodiff.Tensor
	lr         float64
	momentum   float64
	velocities map[tensor.UniqueID]*tensor.RawTensor
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

var _ Optimizer = (*SGD)(nil)

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*autodiff.Tensor, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[tensor.UniqueID]*tensor.RawTensor),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step(grads *autodiff.Gradients) (UnusedTensors, error) {
	var unused UnusedTensors
	for _, param := range s.params {
		grad, err := takeGradient(param, grads)
		if err != nil {
			return unused, err
		}
		if grad == nil {
			unused.IDs = append(unused.IDs, param.ID())
			continue
		}

		step := grad
		if s.momentum != 0 {
			step, err = s.updateVelocity(param, grad)
			if err != nil {
				return unused, err
			}
		}

		if err := axpy(-s.lr, step, param.Raw()); err != nil {
			return unused, err
		}
	}

	if !unused.IsEmpty() {
		log.Debug().Stringer("params", unused).Msg("sgd: parameters without gradient")
	}
	return unused, nil
}

// updateVelocity computes velocity = momentum * velocity + grad.
func (s *SGD) updateVelocity(param *autodiff.Tensor, grad *tensor.RawTensor) (*tensor.RawTensor, error) {
	velocity, exists := s.velocities[param.ID()]
	if !exists {
		var err error
		velocity, err = param.Backend().Allocate(param.Shape(), param.DType())
		if err != nil {
			return nil, err
		}
		s.velocities[param.ID()] = velocity
	}

	switch velocity.DType() {
	case tensor.Float32:
		v := blas32.Vector{N: velocity.NumElements(), Data: velocity.AsFloat32(), Inc: 1}
		blas32.Scal(float32(s.momentum), v)
	case tensor.Float64:
		floats.Scale(s.momentum, velocity.AsFloat64())
	}
	if err := axpy(1, grad, velocity); err != nil {
		return nil, err
	}
	return velocity, nil
}

// axpy computes y += alpha * x.
func axpy(alpha float64, x, y *tensor.RawTensor) error {
	switch y.DType() {
	case tensor.Float32:
		n := y.NumElements()
		blas32.Axpy(float32(alpha),
			blas32.Vector{N: n, Data: x.AsFloat32(), Inc: 1},
			blas32.Vector{N: n, Data: y.AsFloat32(), Inc: 1})
	case tensor.Float64:
		floats.AddScaled(y.AsFloat64(), alpha, x.AsFloat64())
	default:
		return fmt.Errorf("optim: unsupported dtype %s", y.DType())
	}
	return nil
}

// LR returns the current learning rate.
func (s *SGD) LR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// StateDict returns the optimizer state for serialization.
//
// For SGD with momentum, this exports velocity buffers for each parameter.
// Without momentum, returns an empty map.
//
// State keys: "velocity.{param_index}" -> velocity buffer.
func (s *SGD) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	if s.momentum == 0 {
		return stateDict
	}

	for i, param := range s.params {
		velocity, exists := s.velocities[param.ID()]
		if !exists {
			continue // not stepped yet
		}
		stateDict[fmt.Sprintf("velocity.%d", i)] = velocity
	}
	return stateDict
}

// LoadStateDict restores velocity buffers saved by StateDict.
//
// Returns an error if a velocity shape doesn't match its parameter.
func (s *SGD) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if s.momentum == 0 {
		return nil
	}

	s.velocities = make(map[tensor.UniqueID]*tensor.RawTensor)
	for i, param := range s.params {
		velocity, exists := stateDict[fmt.Sprintf("velocity.%d", i)]
		if !exists {
			continue
		}
		if !velocity.Shape().Equal(param.Shape()) || velocity.DType() != param.DType() {
			return fmt.Errorf("velocity mismatch for parameter %d: expected %s%v, got %s%v",
				i, param.DType(), param.Shape(), velocity.DType(), velocity.Shape())
		}
		s.velocities[param.ID()] = velocity
	}
	return nil
}
