package autodiff

import (
	"fmt"

	"github.com/born-ml/gradtape/internal/tensor"
)

// The records below are the backward ops the engine itself records. Each
// captures the input buffers by reference (they are never written to after
// creation) and the identity of the output whose gradient it consumes.
// Partials are recomputed from the captured inputs when the record runs.

// unaryRecord is the backward of y = k.F(x).
type unaryRecord struct {
	kernel tensor.UnaryDerivative
	x      *tensor.RawTensor
	out    tensor.UniqueID
}

func (r *unaryRecord) Backward(grads *Gradients) error {
	grad, ok := grads.Remove(r.out)
	if !ok {
		return nil // output does not reach the differentiated scalar
	}
	dx, err := grads.Backend().UnaryVJP(r.x, grad, r.kernel)
	if err != nil {
		return err
	}
	return grads.Accumulate(r.x.ID(), dx)
}

func (r *unaryRecord) Describe() OpRecord {
	return OpRecord{Op: kernelName(r.kernel), Inputs: []tensor.UniqueID{r.x.ID()}, Output: r.out}
}

// binaryRecord is the backward of z = k.F(a, b). Operands that do not track
// gradients receive none.
type binaryRecord struct {
	kernel       tensor.BinaryDerivative
	a, b         *tensor.RawTensor
	needA, needB bool
	out          tensor.UniqueID
}

func (r *binaryRecord) Backward(grads *Gradients) error {
	grad, ok := grads.Remove(r.out)
	if !ok {
		return nil
	}
	da, db, err := grads.Backend().BinaryVJP(r.a, r.b, grad, r.kernel)
	if err != nil {
		return err
	}
	return accumulatePair(grads, r.a, da, r.needA, r.b, db, r.needB)
}

func (r *binaryRecord) Describe() OpRecord {
	return OpRecord{Op: kernelName(r.kernel), Inputs: []tensor.UniqueID{r.a.ID(), r.b.ID()}, Output: r.out}
}

// reduceRecord is the backward of y = scale * sum(x).
type reduceRecord struct {
	name  string
	x     *tensor.RawTensor
	scale float64
	out   tensor.UniqueID
}

func (r *reduceRecord) Backward(grads *Gradients) error {
	grad, ok := grads.Remove(r.out)
	if !ok {
		return nil
	}
	dx, err := grads.Backend().Expand(grad, r.x.Shape(), r.scale)
	if err != nil {
		return err
	}
	return grads.Accumulate(r.x.ID(), dx)
}

func (r *reduceRecord) Describe() OpRecord {
	return OpRecord{Op: r.name, Inputs: []tensor.UniqueID{r.x.ID()}, Output: r.out}
}

// matmulRecord is the backward of C = A @ B.
type matmulRecord struct {
	a, b         *tensor.RawTensor
	needA, needB bool
	out          tensor.UniqueID
}

func (r *matmulRecord) Backward(grads *Gradients) error {
	grad, ok := grads.Remove(r.out)
	if !ok {
		return nil
	}
	da, db, err := grads.Backend().MatMulVJP(r.a, r.b, grad)
	if err != nil {
		return err
	}
	return accumulatePair(grads, r.a, da, r.needA, r.b, db, r.needB)
}

func (r *matmulRecord) Describe() OpRecord {
	return OpRecord{Op: "matmul", Inputs: []tensor.UniqueID{r.a.ID(), r.b.ID()}, Output: r.out}
}

// seedRecord sets d(out)/d(out) = 1. Backward records it last, so it runs first.
type seedRecord struct {
	out *tensor.RawTensor
}

func (r *seedRecord) Backward(grads *Gradients) error {
	grad, err := grads.GetOrAlloc(r.out.ID(), r.out.Shape(), r.out.DType())
	if err != nil {
		return err
	}
	return grads.Backend().FillOnes(grad)
}

func (r *seedRecord) Describe() OpRecord {
	return OpRecord{Op: "seed", Output: r.out.ID()}
}

// accumulatePair adds both operand gradients with two separate Accumulate
// calls, so x op x sums both partials into the same entry.
func accumulatePair(grads *Gradients, a, da *tensor.RawTensor, needA bool, b, db *tensor.RawTensor, needB bool) error {
	if needA {
		if err := grads.Accumulate(a.ID(), da); err != nil {
			return err
		}
	}
	if needB {
		if err := grads.Accumulate(b.ID(), db); err != nil {
			return err
		}
	}
	return nil
}

func kernelName(k any) string {
	if n, ok := k.(tensor.Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", k)
}
