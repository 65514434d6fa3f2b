// Package tensor provides the storage-level types shared by every backend and by
// the autodiff engine: shapes, element types, raw buffers with stable identities,
// the Backend contract and the kernel derivative contracts.
package tensor

// DType is a constraint for element types a tensor can be built from.
type DType interface {
	float32 | float64
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
)

// Valid reports whether dt is a supported data type.
func (dt DataType) Valid() bool {
	return dt == Float32 || dt == Float64
}

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// DataTypeOf infers the DataType for a generic element type T.
func DataTypeOf[T DType]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic("unsupported type")
	}
}
