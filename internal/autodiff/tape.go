package autodiff

import (
	"sort"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/born-ml/gradtape/internal/tensor"
)

// BackwardOp is one recorded unit of backward work: given the gradient store,
// it reads the gradient of the operation's output and accumulates the derived
// gradients into the operation's inputs.
type BackwardOp interface {
	Backward(grads *Gradients) error
}

// BackwardFunc adapts a plain function to BackwardOp.
type BackwardFunc func(grads *Gradients) error

// Backward calls f(grads).
func (f BackwardFunc) Backward(grads *Gradients) error {
	return f(grads)
}

// OpRecord describes a recorded op for inspection and trace dumps.
type OpRecord struct {
	Seq    uint64            `cbor:"seq"`
	Op     string            `cbor:"op"`
	Inputs []tensor.UniqueID `cbor:"inputs,omitempty"`
	Output tensor.UniqueID   `cbor:"output,omitempty"`
}

// Describer is implemented by ops that can report what they touch.
type Describer interface {
	Describe() OpRecord
}

var lastSeq atomic.Uint64

type tapeEntry struct {
	seq uint64
	op  BackwardOp
}

// GradientTape records backward ops during the forward pass and replays them
// in reverse during Backward.
//
// A tape is owned by at most one tensor at a time. Ops are appended and never
// reordered on insertion; each one is stamped with a process-wide sequence
// number, so the tape produced by merging the tapes of two operands still
// replays in reverse recording order.
type GradientTape struct {
	entries []tapeEntry
}

// NewGradientTape creates an empty tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		entries: make([]tapeEntry, 0, 16),
	}
}

// Record appends op and returns its sequence number.
func (t *GradientTape) Record(op BackwardOp) uint64 {
	seq := lastSeq.Add(1)
	t.entries = append(t.entries, tapeEntry{seq: seq, op: op})
	opsRecorded.Inc()
	return seq
}

// Merge appends the ops of other after the ops of t and leaves other empty.
func (t *GradientTape) Merge(other *GradientTape) {
	if other == nil || other == t {
		return
	}
	t.entries = append(t.entries, other.entries...)
	other.entries = nil
}

// Len returns the number of recorded ops.
func (t *GradientTape) Len() int {
	return len(t.entries)
}

// Records describes the recorded ops in tape order.
func (t *GradientTape) Records() []OpRecord {
	records := make([]OpRecord, len(t.entries))
	for i, e := range t.entries {
		records[i] = describe(e)
	}
	return records
}

// Execute replays the tape against grads, newest op first, and empties the
// tape. It stops at the first failing op. Gradients accumulated by the ops
// that already ran stay in grads; callers must treat the store as unusable.
func (t *GradientTape) Execute(grads *Gradients) error {
	entries := t.entries
	t.entries = nil

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if err := e.op.Backward(grads); err != nil {
			rec := describe(e)
			return errors.WithMessagef(err, "backward op #%d (%s)", rec.Seq, rec.Op)
		}
		opsExecuted.Inc()
	}
	return nil
}

func describe(e tapeEntry) OpRecord {
	rec := OpRecord{Op: "func"}
	if d, ok := e.op.(Describer); ok {
		rec = d.Describe()
	}
	rec.Seq = e.seq
	return rec
}
