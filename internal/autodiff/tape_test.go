package autodiff_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/tensor"
)

func TestTape_ExecuteRunsInReverse(t *testing.T) {
	var order []int
	tape := autodiff.NewGradientTape()
	for i := 1; i <= 3; i++ {
		tape.Record(autodiff.BackwardFunc(func(*autodiff.Gradients) error {
			order = append(order, i)
			return nil
		}))
	}
	require.Equal(t, 3, tape.Len())

	require.NoError(t, tape.Execute(autodiff.NewGradients(newBackend())))
	assert.Equal(t, []int{3, 2, 1}, order)
	assert.Equal(t, 0, tape.Len(), "execute consumes the tape")
}

func TestTape_ExecuteStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var ran []string
	record := func(name string, err error) autodiff.BackwardFunc {
		return func(*autodiff.Gradients) error {
			ran = append(ran, name)
			return err
		}
	}

	tape := autodiff.NewGradientTape()
	tape.Record(record("first", nil))
	tape.Record(record("second", boom))
	tape.Record(record("third", nil))

	err := tape.Execute(autodiff.NewGradients(newBackend()))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "func")
	assert.Equal(t, []string{"third", "second"}, ran)
}

func TestTape_MergeOrder(t *testing.T) {
	noop := autodiff.BackwardFunc(func(*autodiff.Gradients) error { return nil })

	a := autodiff.NewGradientTape()
	a1 := a.Record(noop)
	a2 := a.Record(noop)

	b := autodiff.NewGradientTape()
	b1 := b.Record(noop)

	a.Merge(b)
	last := a.Record(noop)

	var seqs []uint64
	for _, r := range a.Records() {
		seqs = append(seqs, r.Seq)
	}
	assert.Equal(t, []uint64{a1, a2, b1, last}, seqs)
	assert.Equal(t, 0, b.Len(), "merged tape is drained")

	a.Merge(nil)
	a.Merge(a)
	assert.Equal(t, 4, a.Len())
}

func TestTape_BinaryOpMergesOperandTapes(t *testing.T) {
	b := newBackend()
	x := scalar(t, b, 2)
	y := scalar(t, b, 3)

	ex := must(t)(x.Trace().Exp())
	ly := must(t)(y.Trace().Log())
	z := must(t)(ex.Add(ly))

	assert.False(t, ex.HasTape(), "operand tape moved into result")
	assert.False(t, ly.HasTape())
	require.True(t, z.HasTape())

	var names []string
	for _, r := range z.Tape().Records() {
		names = append(names, r.Op)
	}
	assert.Equal(t, []string{"exp", "log", "add"}, names)

	recs := z.Tape().Records()
	assert.Equal(t, []tensor.UniqueID{x.ID()}, recs[0].Inputs)
	assert.Equal(t, []tensor.UniqueID{ex.ID(), ly.ID()}, recs[2].Inputs)
	assert.Equal(t, z.ID(), recs[2].Output)
}

func TestTape_EncodeDecode(t *testing.T) {
	b := newBackend()
	x := fromSlice[float32](t, b, tensor.Shape{3}, 1, 2, 3)
	y := must(t)(x.Trace().MulScalar(2))
	loss := must(t)(y.Mean())

	var buf bytes.Buffer
	require.NoError(t, loss.Tape().Encode(&buf))

	got, err := autodiff.DecodeRecords(&buf)
	require.NoError(t, err)
	assert.Equal(t, loss.Tape().Records(), got)
	require.Len(t, got, 2)
	assert.Equal(t, "mul_scalar", got[0].Op)
	assert.Equal(t, "mean", got[1].Op)
	assert.Equal(t, loss.ID(), got[1].Output)

	_, err = autodiff.DecodeRecords(bytes.NewReader([]byte{0xff}))
	assert.Error(t, err)
}

func TestGradients_GetOrAllocIdempotent(t *testing.T) {
	grads := autodiff.NewGradients(newBackend())
	id := tensor.NextID()

	g1, err := grads.GetOrAlloc(id, tensor.Shape{2, 2}, tensor.Float32)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, g1.Values())

	g1.AsFloat32()[0] = 7
	g2, err := grads.GetOrAlloc(id, tensor.Shape{2, 2}, tensor.Float32)
	require.NoError(t, err)
	assert.Same(t, g1, g2)
	assert.Equal(t, float32(7), g2.AsFloat32()[0])
	assert.Equal(t, 1, grads.Len())

	_, err = grads.GetOrAlloc(id, tensor.Shape{4}, tensor.Float32)
	var se *tensor.ShapeError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestGradients_AccumulateAndRemove(t *testing.T) {
	b := newBackend()
	grads := autodiff.NewGradients(b)
	x := fromSlice[float64](t, b, tensor.Shape{2}, 1, 2)

	require.NoError(t, grads.Accumulate(x.ID(), x.Raw()))
	require.NoError(t, grads.Accumulate(x.ID(), x.Raw()))
	assert.Equal(t, []float64{2, 4}, gradOf(t, grads, x))
	assert.Equal(t, []float64{1, 2}, x.Values(), "increment is not modified")

	g, ok := grads.Remove(x.ID())
	require.True(t, ok)
	assert.Equal(t, []float64{2, 4}, g.Values())
	assert.True(t, grads.IsEmpty())

	_, ok = grads.Remove(x.ID())
	assert.False(t, ok)
}
