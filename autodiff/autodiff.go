// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides tape-based reverse-mode automatic differentiation.
//
// Operations on tracked tensors are recorded on a GradientTape owned by the
// result; Backward replays the tape in reverse and returns a Gradients store
// keyed by tensor identity.
//
// Example:
//
//	import (
//	    "github.com/born-ml/gradtape/autodiff"
//	    "github.com/born-ml/gradtape/backend/cpu"
//	    "github.com/born-ml/gradtape/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := autodiff.FromSlice([]float32{6}, tensor.Shape{}, backend)
//	    y, _ := autodiff.FromSlice([]float32{2}, tensor.Shape{}, backend)
//
//	    z, _ := x.Trace().Div(y.Trace())
//	    grads, _ := autodiff.Backward(z)
//
//	    gx, _ := grads.Get(x) // 0.5
//	    gy, _ := grads.Get(y) // -1.5
//	}
package autodiff

import (
	"context"
	"io"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/tensor"
)

// Tensor is a device value that may be tracking gradients.
type Tensor = autodiff.Tensor

// Gradients maps tensor identities to gradient buffers.
type Gradients = autodiff.Gradients

// GradientTape records backward ops for automatic differentiation.
type GradientTape = autodiff.GradientTape

// BackwardOp is one recorded unit of backward work.
type BackwardOp = autodiff.BackwardOp

// BackwardFunc adapts a function to BackwardOp.
type BackwardFunc = autodiff.BackwardFunc

// OpRecord describes a recorded op.
type OpRecord = autodiff.OpRecord

// Errors returned by Backward and BackwardAll.
var (
	ErrNoTape        = autodiff.ErrNoTape
	ErrDuplicateLoss = autodiff.ErrDuplicateLoss
)

// New wraps raw as an untracked tensor.
func New(raw *tensor.RawTensor, b tensor.Backend) *Tensor {
	return autodiff.New(raw, b)
}

// FromSlice creates an untracked tensor from a Go slice.
func FromSlice[T tensor.DType](data []T, shape tensor.Shape, b tensor.Backend) (*Tensor, error) {
	return autodiff.FromSlice(data, shape, b)
}

// Scalar creates an untracked 0-d tensor.
func Scalar[T tensor.DType](value T, b tensor.Backend) (*Tensor, error) {
	return autodiff.Scalar(value, b)
}

// Zeros creates an untracked zero-filled tensor.
func Zeros(shape tensor.Shape, dtype tensor.DataType, b tensor.Backend) (*Tensor, error) {
	return autodiff.Zeros(shape, dtype, b)
}

// Ones creates an untracked tensor filled with ones.
func Ones(shape tensor.Shape, dtype tensor.DataType, b tensor.Backend) (*Tensor, error) {
	return autodiff.Ones(shape, dtype, b)
}

// Unary applies a custom elementwise kernel.
func Unary(x *Tensor, k tensor.UnaryDerivative) (*Tensor, error) {
	return autodiff.Unary(x, k)
}

// Binary applies a custom elementwise two-operand kernel.
func Binary(a, b *Tensor, k tensor.BinaryDerivative) (*Tensor, error) {
	return autodiff.Binary(a, b, k)
}

// MatMul computes a @ b for 2-D tensors.
func MatMul(a, b *Tensor) (*Tensor, error) {
	return autodiff.MatMul(a, b)
}

// NewGradients creates an empty gradient store on backend.
func NewGradients(backend tensor.Backend) *Gradients {
	return autodiff.NewGradients(backend)
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// Backward computes gradients of the 0-d tensor loss.
func Backward(loss *Tensor) (*Gradients, error) {
	return autodiff.Backward(loss)
}

// BackwardContext is Backward with a context for tracing.
func BackwardContext(ctx context.Context, loss *Tensor) (*Gradients, error) {
	return autodiff.BackwardContext(ctx, loss)
}

// MustBackward is like Backward but panics on error.
func MustBackward(loss *Tensor) *Gradients {
	return autodiff.MustBackward(loss)
}

// BackwardAll runs Backward for independent losses concurrently.
func BackwardAll(ctx context.Context, losses ...*Tensor) ([]*Gradients, error) {
	return autodiff.BackwardAll(ctx, losses...)
}

// DecodeRecords reads records written by GradientTape.Encode.
func DecodeRecords(r io.Reader) ([]OpRecord, error) {
	return autodiff.DecodeRecords(r)
}
