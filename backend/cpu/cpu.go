// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO), matrix products through gonum BLAS
//   - Float32 and Float64 support
//   - Data-parallel elementwise loops for large tensors
//   - An optional per-allocation limit
//
// # Basic Usage
//
//	backend := cpu.New()
//	x, _ := autodiff.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
package cpu

import (
	internalcpu "github.com/born-ml/gradtape/internal/backend/cpu"
	"github.com/born-ml/gradtape/internal/parallel"
	"github.com/born-ml/gradtape/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Config holds CPU backend settings.
type Config = internalcpu.Config

// ParallelConfig controls how elementwise loops are split across goroutines.
type ParallelConfig = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit settings.
//
// Example:
//
//	cfg := cpu.DefaultConfig()
//	cfg.MaxAllocBytes = 1 << 30
//	backend := cpu.NewWithConfig(cfg)
func NewWithConfig(cfg Config) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return internalcpu.DefaultConfig()
}
