package tensor

// Backend defines the interface that all compute backends must implement.
// A backend owns allocation and executes kernels; it knows nothing about
// gradients beyond evaluating the derivative functions it is handed.
//
// Every method returns a new buffer except AddInto, which accumulates into a
// buffer the caller owns. Failures surface as *DeviceError or *ShapeError.
type Backend interface {
	// Allocate returns a zero-filled buffer.
	Allocate(shape Shape, dtype DataType) (*RawTensor, error)

	// FillOnes sets every element of r to 1.
	FillOnes(r *RawTensor) error

	// ApplyUnary evaluates k.F per element of x.
	ApplyUnary(x *RawTensor, k UnaryDerivative) (*RawTensor, error)

	// ApplyBinary evaluates k.F per element pair; a and b must share a shape.
	ApplyBinary(a, b *RawTensor, k BinaryDerivative) (*RawTensor, error)

	// UnaryVJP returns grad * k.DF(x).
	UnaryVJP(x, grad *RawTensor, k UnaryDerivative) (*RawTensor, error)

	// BinaryVJP returns (grad * k.DFDX(a, b), grad * k.DFDY(a, b)).
	BinaryVJP(a, b, grad *RawTensor, k BinaryDerivative) (*RawTensor, *RawTensor, error)

	// Sum reduces x to a 0-d scalar.
	Sum(x *RawTensor) (*RawTensor, error)

	// Expand broadcasts a 0-d grad to shape, multiplying by scale.
	Expand(grad *RawTensor, shape Shape, scale float64) (*RawTensor, error)

	// MatMul computes (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) (*RawTensor, error)

	// MatMulVJP returns (grad @ bᵀ, aᵀ @ grad).
	MatMulVJP(a, b, grad *RawTensor) (*RawTensor, *RawTensor, error)

	// AddInto accumulates src into dst elementwise.
	AddInto(dst, src *RawTensor) error

	// Metadata
	Name() string
	Device() Device
}
