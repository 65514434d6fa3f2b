// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public storage-level types of gradtape.
//
// The package defines:
//   - RawTensor: device buffer with shape, dtype and identity
//   - Backend: interface for device-specific compute implementations
//   - UnaryDerivative, BinaryDerivative: kernel descriptors for new
//     differentiable elementwise operations
//   - Shape, DataType, Device: core type definitions
//   - ShapeError, DeviceError: typed errors
//
// Differentiable tensors live in package autodiff.
package tensor

import (
	"github.com/born-ml/gradtape/internal/tensor"
)

// DType is a constraint for element types: float32 or float64.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	CUDA   Device = tensor.CUDA
	Vulkan Device = tensor.Vulkan
	Metal  Device = tensor.Metal
	WebGPU Device = tensor.WebGPU
)

// Shape represents the dimensions of a tensor. The empty shape is a 0-d scalar.
type Shape = tensor.Shape

// UniqueID identifies tensor storage.
type UniqueID = tensor.UniqueID

// RawTensor is a device buffer with shape, dtype and identity.
type RawTensor = tensor.RawTensor

// Backend is the compute device abstraction.
type Backend = tensor.Backend

// UnaryDerivative describes an elementwise y = f(x) and its derivative.
type UnaryDerivative = tensor.UnaryDerivative

// BinaryDerivative describes an elementwise z = f(x, y) and its partials.
type BinaryDerivative = tensor.BinaryDerivative

// ShapeError reports a shape precondition violation.
type ShapeError = tensor.ShapeError

// DeviceError reports a backend failure.
type DeviceError = tensor.DeviceError

// Sentinel errors, matchable with errors.Is.
var (
	ErrShapeMismatch = tensor.ErrShapeMismatch
	ErrNotScalar     = tensor.ErrNotScalar
	ErrDTypeMismatch = tensor.ErrDTypeMismatch
	ErrOutOfMemory   = tensor.ErrOutOfMemory
)

// NewRaw allocates a zeroed host buffer.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// DataTypeOf returns the DataType tag of T.
func DataTypeOf[T DType]() DataType {
	return tensor.DataTypeOf[T]()
}
