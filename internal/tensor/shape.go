package tensor

import (
	"fmt"
	"math"
)

// Shape represents the dimensions of a tensor. The empty shape is the 0-d scalar.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// ByteSize returns the buffer size in bytes of a validated shape holding dt
// elements. It reports ErrOutOfMemory when the element count or the byte
// size does not fit in an int.
func (s Shape) ByteSize(dt DataType) (int, error) {
	n := 1
	for _, dim := range s {
		if dim > 0 && n > math.MaxInt/dim {
			return 0, fmt.Errorf("shape %v: %w", s, ErrOutOfMemory)
		}
		n *= dim
	}
	size := dt.Size()
	if n > math.MaxInt/size {
		return 0, fmt.Errorf("shape %v of %s: %w", s, dt, ErrOutOfMemory)
	}
	return n * size, nil
}

// IsScalar reports whether the shape is the 0-dimensional shape.
func (s Shape) IsScalar() bool {
	return len(s) == 0
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// String formats the shape as [d0 d1 ...]; the scalar shape prints as [].
func (s Shape) String() string {
	return fmt.Sprint([]int(s))
}
