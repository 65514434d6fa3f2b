package tensor

import (
	"errors"
	"fmt"
)

// Sentinel errors matchable with errors.Is.
var (
	// ErrShapeMismatch reports operands whose shapes are incompatible.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrNotScalar reports a non 0-d tensor where a scalar is required.
	ErrNotScalar = errors.New("tensor is not a scalar")

	// ErrDTypeMismatch reports operands with different element types.
	ErrDTypeMismatch = errors.New("dtype mismatch")

	// ErrOutOfMemory reports an allocation the backend refused to satisfy.
	ErrOutOfMemory = errors.New("out of memory")
)

// ShapeError is a caller error: an operation received shapes it cannot work with.
type ShapeError struct {
	Op   string
	Want Shape
	Got  Shape
	Kind error // ErrShapeMismatch or ErrNotScalar
}

func (e *ShapeError) Error() string {
	if e.Kind == ErrNotScalar {
		return fmt.Sprintf("%s: %v: got shape %v", e.Op, e.Kind, e.Got)
	}
	return fmt.Sprintf("%s: %v: %v vs %v", e.Op, e.kind(), e.Want, e.Got)
}

func (e *ShapeError) kind() error {
	if e.Kind == nil {
		return ErrShapeMismatch
	}
	return e.Kind
}

// Unwrap exposes the sentinel kind.
func (e *ShapeError) Unwrap() error {
	return e.kind()
}

// DeviceError is raised by a Backend that cannot produce or operate on a buffer.
type DeviceError struct {
	Op     string
	Device Device
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s on %s: %v", e.Op, e.Device, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// CheckSameShape returns a ShapeError unless a and b have equal shapes and dtypes.
func CheckSameShape(op string, a, b *RawTensor) error {
	if !a.Shape().Equal(b.Shape()) {
		return &ShapeError{Op: op, Want: a.Shape(), Got: b.Shape(), Kind: ErrShapeMismatch}
	}
	if a.DType() != b.DType() {
		return fmt.Errorf("%s: %w: %s vs %s", op, ErrDTypeMismatch, a.DType(), b.DType())
	}
	return nil
}
