package tensor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawTensorAsFloat32(t *testing.T) {
	raw, err := NewRaw(Shape{3, 2}, Float32, CPU)
	require.NoError(t, err)

	data := raw.AsFloat32()
	assert.Len(t, data, 6)

	// Zero-filled on creation, zero-copy view afterwards.
	for _, v := range data {
		assert.Zero(t, v)
	}
	data[0] = 42
	assert.Equal(t, float32(42), raw.AsFloat32()[0])
}

func TestRawTensorAsFloat64(t *testing.T) {
	raw, err := NewRaw(Shape{4}, Float64, CPU)
	require.NoError(t, err)

	raw.AsFloat64()[3] = 1.5
	assert.Equal(t, []float64{0, 0, 0, 1.5}, raw.Values())
}

func TestRawTensorWrongDTypePanics(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Float32, CPU)
	assert.Panics(t, func() { raw.AsFloat64() })
}

func TestRawTensorScalar(t *testing.T) {
	raw, err := NewRaw(Shape{}, Float32, CPU)
	require.NoError(t, err)

	assert.True(t, raw.Shape().IsScalar())
	assert.Equal(t, 1, raw.NumElements())
	assert.Equal(t, 4, raw.ByteSize())
}

func TestRawTensorIdentity(t *testing.T) {
	a, _ := NewRaw(Shape{2}, Float32, CPU)
	b, _ := NewRaw(Shape{2}, Float32, CPU)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Less(t, a.ID(), b.ID(), "identities are handed out in creation order")
	assert.Equal(t, a.ID(), a.ID())
}

func TestNewRawInvalidShape(t *testing.T) {
	_, err := NewRaw(Shape{2, 0}, Float32, CPU)
	assert.Error(t, err)
}

func TestNewRawOverflow(t *testing.T) {
	for _, shape := range []Shape{{1 << 32, 1 << 32}, {math.MaxInt / 2, 3}} {
		raw, err := NewRaw(shape, Float32, CPU)
		assert.Nil(t, raw, shape.String())
		assert.ErrorIs(t, err, ErrOutOfMemory, shape.String())
	}
}

func TestNewRawUnknownDType(t *testing.T) {
	assert.NotPanics(t, func() {
		_, err := NewRaw(Shape{2}, DataType(7), CPU)
		assert.Error(t, err)
	})
}

func TestShapeByteSize(t *testing.T) {
	size, err := Shape{2, 3}.ByteSize(Float64)
	require.NoError(t, err)
	assert.Equal(t, 48, size)

	size, err = Shape{}.ByteSize(Float32)
	require.NoError(t, err)
	assert.Equal(t, 4, size)

	_, err = Shape{math.MaxInt / 4}.ByteSize(Float64)
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
		{Shape{2, 3, 4}, 24},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.shape.NumElements(), "shape %v", tt.shape)
	}
}

func TestShapeCloneIsIndependent(t *testing.T) {
	s := Shape{2, 3}
	c := s.Clone()
	c[0] = 9
	assert.Equal(t, 2, s[0])
	assert.False(t, s.Equal(c))
}

func TestShapeComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Empty(t, Shape{}.ComputeStrides())
}

func TestCheckSameShape(t *testing.T) {
	a, _ := NewRaw(Shape{2, 3}, Float32, CPU)
	b, _ := NewRaw(Shape{3, 2}, Float32, CPU)
	c, _ := NewRaw(Shape{2, 3}, Float64, CPU)

	err := CheckSameShape("div", a, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, "div", shapeErr.Op)

	err = CheckSameShape("div", a, c)
	assert.True(t, errors.Is(err, ErrDTypeMismatch))

	assert.NoError(t, CheckSameShape("div", a, a))
}

func TestDeviceErrorUnwrap(t *testing.T) {
	err := &DeviceError{Op: "allocate", Device: CPU, Err: ErrOutOfMemory}
	assert.True(t, errors.Is(err, ErrOutOfMemory))
	assert.Contains(t, err.Error(), "allocate on CPU")
}

func TestDataTypeOf(t *testing.T) {
	assert.Equal(t, Float32, DataTypeOf[float32]())
	assert.Equal(t, Float64, DataTypeOf[float64]())
	assert.Equal(t, 8, Float64.Size())
	assert.Equal(t, "float32", Float32.String())
}
