// Package optim implements parameter update rules driven by a gradient store.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers consume the gradients they apply: after Step the store holds
// only gradients of tensors that are not parameters of the optimizer, so a
// non-empty store after an update points at a tensor that was traced but is
// never optimized.
//
// Example usage:
//
//	params := []*autodiff.Tensor{w, b}
//	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.01})
//
//	for epoch := range epochs {
//	    loss := forward(w.Trace(), b.Trace(), batch)
//	    grads, err := autodiff.Backward(loss)
//	    ...
//	    unused, err := optimizer.Step(grads)
//	    ...
//	    if !unused.IsEmpty() || !grads.IsEmpty() {
//	        log.Warn().Stringer("unused", unused).Msg("gradients not applied")
//	    }
//	}
package optim

import (
	"fmt"
	"strings"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies the gradients found in grads to the parameters and
	// removes them from the store. Parameters without a gradient are
	// skipped and reported.
	Step(grads *autodiff.Gradients) (UnusedTensors, error)

	// LR returns the current learning rate.
	LR() float64

	// SetLR updates the learning rate.
	SetLR(lr float64)
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

// UnusedTensors lists parameters that received no gradient in a step.
type UnusedTensors struct {
	IDs []tensor.UniqueID
}

// IsEmpty reports whether every parameter received a gradient.
func (u UnusedTensors) IsEmpty() bool {
	return len(u.IDs) == 0
}

func (u UnusedTensors) String() string {
	parts := make([]string, len(u.IDs))
	for i, id := range u.IDs {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// takeGradient removes the gradient of param from grads.
//
// Returns nil if no gradient is found (parameter wasn't part of computation graph).
func takeGradient(param *autodiff.Tensor, grads *autodiff.Gradients) (*tensor.RawTensor, error) {
	grad, ok := grads.Remove(param.ID())
	if !ok {
		return nil, nil
	}
	if !grad.Shape().Equal(param.Shape()) {
		return nil, &tensor.ShapeError{Op: "optim", Want: param.Shape(), Got: grad.Shape(), Kind: tensor.ErrShapeMismatch}
	}
	if grad.DType() != param.DType() {
		return nil, &tensor.ShapeError{Op: "optim", Want: param.Shape(), Got: grad.Shape(), Kind: tensor.ErrDTypeMismatch}
	}
	return grad, nil
}

type float interface {
	~float32 | ~float64
}
