package autodiff

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/born-ml/gradtape/internal/tensor"
)

// Gradients maps tensor identities to accumulated gradient buffers.
//
// A store is created by Backward, filled while the tape is replayed and
// handed to the caller; it is not shared between Backward calls. Every
// buffer in it is owned by the store, which is what makes in-place
// accumulation safe.
type Gradients struct {
	backend tensor.Backend
	grads   map[tensor.UniqueID]*tensor.RawTensor
}

// NewGradients creates an empty store whose buffers live on backend.
func NewGradients(backend tensor.Backend) *Gradients {
	return &Gradients{
		backend: backend,
		grads:   make(map[tensor.UniqueID]*tensor.RawTensor),
	}
}

// Backend returns the backend gradient buffers are allocated on.
func (g *Gradients) Backend() tensor.Backend {
	return g.backend
}

// GetOrAlloc returns the gradient buffer for id, allocating a zero buffer of
// shape and dtype the first time id is seen.
func (g *Gradients) GetOrAlloc(id tensor.UniqueID, shape tensor.Shape, dtype tensor.DataType) (*tensor.RawTensor, error) {
	if grad, ok := g.grads[id]; ok {
		if !grad.Shape().Equal(shape) {
			return nil, &tensor.ShapeError{Op: "gradients", Want: grad.Shape(), Got: shape, Kind: tensor.ErrShapeMismatch}
		}
		return grad, nil
	}

	grad, err := g.backend.Allocate(shape, dtype)
	if err != nil {
		return nil, errors.WithMessagef(err, "gradient buffer for tensor %d", id)
	}
	gradientBuffers.Inc()
	g.grads[id] = grad
	return grad, nil
}

// Accumulate adds inc elementwise into the gradient of id.
func (g *Gradients) Accumulate(id tensor.UniqueID, inc *tensor.RawTensor) error {
	grad, err := g.GetOrAlloc(id, inc.Shape(), inc.DType())
	if err != nil {
		return err
	}
	if err := g.backend.AddInto(grad, inc); err != nil {
		return errors.WithMessagef(err, "accumulate gradient of tensor %d", id)
	}
	return nil
}

// Remove takes the gradient of id out of the store.
func (g *Gradients) Remove(id tensor.UniqueID) (*tensor.RawTensor, bool) {
	grad, ok := g.grads[id]
	if ok {
		delete(g.grads, id)
	}
	return grad, ok
}

// GetByID returns the gradient stored for id.
func (g *Gradients) GetByID(id tensor.UniqueID) (*tensor.RawTensor, bool) {
	grad, ok := g.grads[id]
	return grad, ok
}

// Get returns the gradient of t.
func (g *Gradients) Get(t *Tensor) (*tensor.RawTensor, bool) {
	return g.GetByID(t.ID())
}

// Len returns the number of stored gradients.
func (g *Gradients) Len() int {
	return len(g.grads)
}

// IsEmpty reports whether no gradient is stored.
func (g *Gradients) IsEmpty() bool {
	return len(g.grads) == 0
}

// IDs returns the stored identities in ascending order.
func (g *Gradients) IDs() []tensor.UniqueID {
	ids := make([]tensor.UniqueID, 0, len(g.grads))
	for id := range g.grads {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
