package autodiff

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/gradtape/internal/tensor"
)

const tracerName = "github.com/born-ml/gradtape/autodiff"

var (
	// ErrNoTape is returned by Backward for a tensor that owns no tape.
	ErrNoTape = errors.New("autodiff: tensor owns no gradient tape")

	// ErrDuplicateLoss is returned by BackwardAll when the same tensor is
	// passed twice.
	ErrDuplicateLoss = errors.New("autodiff: loss passed to BackwardAll more than once")
)

// Backward computes the gradient of the 0-d tensor loss with respect to every
// tracked tensor that took part in producing it.
//
// The tape owned by loss is consumed. The returned store holds the gradients
// of the tensors the recorded ops did not produce (traced inputs). On error
// the gradients are nil.
func Backward(loss *Tensor) (*Gradients, error) {
	return BackwardContext(context.Background(), loss)
}

// BackwardContext is Backward with a context for tracing.
func BackwardContext(ctx context.Context, loss *Tensor) (*Gradients, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "autodiff.Backward",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	start := time.Now()
	grads, ops, err := backward(loss)
	backwardDuration.Observe(time.Since(start).Seconds())

	span.SetAttributes(
		attribute.Int("tape.ops", ops),
		attribute.String("loss.shape", loss.Shape().String()),
	)
	if err != nil {
		backwardRuns.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Debug().Err(err).Uint64("loss", uint64(loss.ID())).Msg("backward failed")
		return nil, err
	}

	backwardRuns.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int("gradients", grads.Len()))
	log.Debug().
		Uint64("loss", uint64(loss.ID())).
		Int("ops", ops).
		Int("gradients", grads.Len()).
		Dur("took", time.Since(start)).
		Msg("backward complete")
	return grads, nil
}

func backward(loss *Tensor) (*Gradients, int, error) {
	if !loss.Shape().IsScalar() {
		return nil, 0, &tensor.ShapeError{
			Op:   "backward",
			Want: tensor.Shape{},
			Got:  loss.Shape(),
			Kind: tensor.ErrNotScalar,
		}
	}
	tape := loss.TakeTape()
	if tape == nil {
		return nil, 0, ErrNoTape
	}

	tape.Record(&seedRecord{out: loss.raw})
	ops := tape.Len()

	grads := NewGradients(loss.backend)
	if err := tape.Execute(grads); err != nil {
		return nil, ops, err
	}
	return grads, ops, nil
}

// MustBackward is like Backward but panics on error.
func MustBackward(loss *Tensor) *Gradients {
	grads, err := Backward(loss)
	if err != nil {
		panic(err)
	}
	return grads
}

// BackwardAll runs Backward for several independent losses concurrently and
// returns their gradient stores in the same order.
//
// The losses must not share tapes. Tensors that were used by more than one
// loss receive a gradient in each store.
func BackwardAll(ctx context.Context, losses ...*Tensor) ([]*Gradients, error) {
	seen := make(map[*Tensor]struct{}, len(losses))
	for _, l := range losses {
		if _, ok := seen[l]; ok {
			return nil, ErrDuplicateLoss
		}
		seen[l] = struct{}{}
	}

	out := make([]*Gradients, len(losses))
	g, ctx := errgroup.WithContext(ctx)
	for i, l := range losses {
		g.Go(func() error {
			grads, err := BackwardContext(ctx, l)
			if err != nil {
				return errors.WithMessagef(err, "loss %d", i)
			}
			out[i] = grads
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
