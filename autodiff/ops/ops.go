// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops exports the built-in kernel descriptors.
//
// Each type implements tensor.UnaryDerivative or tensor.BinaryDerivative and
// can be passed to autodiff.Unary or autodiff.Binary directly.
package ops

import (
	"github.com/born-ml/gradtape/internal/autodiff/ops"
)

// Binary kernels.
type (
	Add = ops.Add
	Sub = ops.Sub
	Mul = ops.Mul
	Div = ops.Div
)

// Unary kernels.
type (
	ScalarAdd = ops.ScalarAdd
	ScalarMul = ops.ScalarMul
	ScalarDiv = ops.ScalarDiv
	Neg       = ops.Neg
	Exp       = ops.Exp
	Log       = ops.Log
	Sqrt      = ops.Sqrt
	Rsqrt     = ops.Rsqrt
	Sin       = ops.Sin
	Cos       = ops.Cos
	SiLU      = ops.SiLU
	Pow       = ops.Pow
	Tanh      = ops.Tanh
	Sigmoid   = ops.Sigmoid
	ReLU      = ops.ReLU
)
