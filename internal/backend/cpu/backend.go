// Package cpu implements the CPU backend: allocation plus generic elementwise,
// reduction and matrix kernels driven by kernel derivative descriptors.
package cpu

import (
	"github.com/rs/zerolog/log"

	"github.com/born-ml/gradtape/internal/parallel"
	"github.com/born-ml/gradtape/internal/tensor"
)

// Config holds CPU backend settings.
type Config struct {
	Parallel parallel.Config // Elementwise loop splitting.

	// MaxAllocBytes caps a single allocation. Zero means unlimited.
	MaxAllocBytes int
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{
		Parallel: parallel.DefaultConfig(),
	}
}

// CPUBackend implements tensor.Backend on the host.
type CPUBackend struct {
	device tensor.Device
	cfg    Config
}

var _ tensor.Backend = (*CPUBackend)(nil)

// New creates a new CPU backend with default settings.
func New() *CPUBackend {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a CPU backend with explicit settings.
func NewWithConfig(cfg Config) *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		cfg:    cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Config returns the backend settings.
func (cpu *CPUBackend) Config() Config {
	return cpu.cfg
}

// Allocate returns a zero-filled buffer of the given shape and dtype.
func (cpu *CPUBackend) Allocate(shape tensor.Shape, dtype tensor.DataType) (*tensor.RawTensor, error) {
	if !dtype.Valid() {
		allocFailures.Inc()
		return nil, unsupported("allocate", dtype)
	}
	if err := shape.Validate(); err != nil {
		allocFailures.Inc()
		return nil, &tensor.DeviceError{Op: "allocate", Device: cpu.device, Err: err}
	}

	size, err := shape.ByteSize(dtype)
	if err != nil {
		allocFailures.Inc()
		log.Warn().Err(err).Msg("cpu allocation overflows")
		return nil, &tensor.DeviceError{Op: "allocate", Device: cpu.device, Err: err}
	}
	if cpu.cfg.MaxAllocBytes > 0 && size > cpu.cfg.MaxAllocBytes {
		allocFailures.Inc()
		log.Warn().
			Int("bytes", size).
			Int("limit", cpu.cfg.MaxAllocBytes).
			Stringer("shape", shape).
			Msg("cpu allocation refused")
		return nil, &tensor.DeviceError{Op: "allocate", Device: cpu.device, Err: tensor.ErrOutOfMemory}
	}

	raw, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		allocFailures.Inc()
		return nil, &tensor.DeviceError{Op: "allocate", Device: cpu.device, Err: err}
	}
	allocBytes.Add(float64(size))
	return raw, nil
}

// FillOnes sets every element of r to 1.
func (cpu *CPUBackend) FillOnes(r *tensor.RawTensor) error {
	switch r.DType() {
	case tensor.Float32:
		fill(r.AsFloat32(), 1)
	case tensor.Float64:
		fill(r.AsFloat64(), 1)
	default:
		return unsupported("fill_ones", r.DType())
	}
	return nil
}

func fill[T float](dst []T, v T) {
	for i := range dst {
		dst[i] = v
	}
}
