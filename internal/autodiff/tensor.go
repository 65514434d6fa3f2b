package autodiff

import (
	"fmt"

	"github.com/born-ml/gradtape/internal/tensor"
)

// Tensor is a device-resident value that may be in tracking mode.
//
// A tracked tensor (RequiresGrad) receives gradients during Backward. It may
// additionally own a GradientTape; operations move the tapes of their
// operands into the result, so at any time a tape has at most one owner.
// A tracked tensor whose tape moved away keeps receiving gradients by
// identity, but the ops that produced it travel with the tape.
type Tensor struct {
	raw          *tensor.RawTensor
	backend      tensor.Backend
	tape         *GradientTape
	requiresGrad bool
}

// New wraps raw as an untracked tensor.
func New(raw *tensor.RawTensor, b tensor.Backend) *Tensor {
	return &Tensor{
		raw:     raw,
		backend: b,
	}
}

// FromSlice creates an untracked tensor from a Go slice.
// The slice is copied into memory allocated by b.
func FromSlice[T tensor.DType](data []T, shape tensor.Shape, b tensor.Backend) (*Tensor, error) {
	if shape.NumElements() != len(data) {
		return nil, &tensor.ShapeError{
			Op:   "from_slice",
			Want: shape,
			Got:  tensor.Shape{len(data)},
			Kind: tensor.ErrShapeMismatch,
		}
	}

	raw, err := b.Allocate(shape, tensor.DataTypeOf[T]())
	if err != nil {
		return nil, err
	}

	switch raw.DType() {
	case tensor.Float32:
		dst := raw.AsFloat32()
		for i, v := range data {
			dst[i] = float32(v)
		}
	case tensor.Float64:
		dst := raw.AsFloat64()
		for i, v := range data {
			dst[i] = float64(v)
		}
	}
	return New(raw, b), nil
}

// Scalar creates an untracked 0-d tensor.
func Scalar[T tensor.DType](value T, b tensor.Backend) (*Tensor, error) {
	return FromSlice([]T{value}, tensor.Shape{}, b)
}

// Zeros creates an untracked zero-filled tensor.
func Zeros(shape tensor.Shape, dtype tensor.DataType, b tensor.Backend) (*Tensor, error) {
	raw, err := b.Allocate(shape, dtype)
	if err != nil {
		return nil, err
	}
	return New(raw, b), nil
}

// Ones creates an untracked tensor filled with ones.
func Ones(shape tensor.Shape, dtype tensor.DataType, b tensor.Backend) (*Tensor, error) {
	raw, err := b.Allocate(shape, dtype)
	if err != nil {
		return nil, err
	}
	if err := b.FillOnes(raw); err != nil {
		return nil, err
	}
	return New(raw, b), nil
}

// Raw returns the underlying storage.
func (t *Tensor) Raw() *tensor.RawTensor {
	return t.raw
}

// ID returns the storage identity gradients are keyed by.
func (t *Tensor) ID() tensor.UniqueID {
	return t.raw.ID()
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() tensor.Shape {
	return t.raw.Shape()
}

// DType returns the tensor's data type.
func (t *Tensor) DType() tensor.DataType {
	return t.raw.DType()
}

// Device returns the tensor's compute device.
func (t *Tensor) Device() tensor.Device {
	return t.raw.Device()
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.raw.NumElements()
}

// Backend returns the computation backend.
func (t *Tensor) Backend() tensor.Backend {
	return t.backend
}

// Values copies the elements out as float64.
func (t *Tensor) Values() []float64 {
	return t.raw.Values()
}

// Item returns the value of a 0-d tensor.
// Panics if the tensor is not a scalar.
func (t *Tensor) Item() float64 {
	if !t.Shape().IsScalar() {
		panic(fmt.Sprintf("Item() only works for scalar tensors, got shape %v", t.Shape()))
	}
	return t.raw.Values()[0]
}

// RequiresGrad reports whether the tensor is in tracking mode.
func (t *Tensor) RequiresGrad() bool {
	return t.requiresGrad
}

// HasTape reports whether the tensor currently owns a tape.
func (t *Tensor) HasTape() bool {
	return t.tape != nil
}

// Tape returns the owned tape without transferring it, or nil.
func (t *Tensor) Tape() *GradientTape {
	return t.tape
}

// Trace returns a tracked tensor sharing t's storage with a fresh empty tape.
//
// Example:
//
//	x, _ := autodiff.FromSlice([]float32{6}, tensor.Shape{}, backend)
//	y, _ := x.Trace().DivScalar(2)
//	grads, _ := autodiff.Backward(y)
//	grad, _ := grads.Get(x) // 0.5
func (t *Tensor) Trace() *Tensor {
	return &Tensor{
		raw:          t.raw,
		backend:      t.backend,
		tape:         NewGradientTape(),
		requiresGrad: true,
	}
}

// Retaped returns a tensor sharing t's storage for a second use. If t is
// tracked, the copy is tracked with a fresh empty tape; merging that tape
// back with the original later is enough for gradients from both uses to
// reach t.
func (t *Tensor) Retaped() *Tensor {
	if !t.requiresGrad {
		return t.Detach()
	}
	return t.Trace()
}

// Detach returns an untracked tensor sharing t's storage.
func (t *Tensor) Detach() *Tensor {
	return New(t.raw, t.backend)
}

// TakeTape moves the tape out of t. t stays tracked and keeps receiving
// gradients by identity, but no longer owns any recorded op.
func (t *Tensor) TakeTape() *GradientTape {
	tape := t.tape
	t.tape = nil
	return tape
}

// AttachTape returns a tracked tensor sharing t's storage that owns tape,
// after any tape t itself owned. Both source tapes are moved into the result.
func (t *Tensor) AttachTape(tape *GradientTape) *Tensor {
	own := t.TakeTape()
	switch {
	case own == nil && tape == nil:
		own = NewGradientTape()
	case own == nil:
		own = tape
	default:
		own.Merge(tape)
	}
	return &Tensor{
		raw:          t.raw,
		backend:      t.backend,
		tape:         own,
		requiresGrad: true,
	}
}

// String returns a human-readable representation of the tensor.
func (t *Tensor) String() string {
	mode := "untracked"
	switch {
	case t.tape != nil:
		mode = fmt.Sprintf("tape=%d", t.tape.Len())
	case t.requiresGrad:
		mode = "tracked"
	}
	return fmt.Sprintf("Tensor#%d[%s]%v on %s (%s)", t.ID(), t.DType(), t.Shape(), t.Device(), mode)
}
