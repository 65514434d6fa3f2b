package autodiff

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/born-ml/gradtape/internal/backend/cpu"
	"github.com/born-ml/gradtape/internal/tensor"
)

func TestMetrics_RecordAndExecute(t *testing.T) {
	b := cpu.New()
	x, err := FromSlice([]float64{1, 2}, tensor.Shape{2}, b)
	require.NoError(t, err)

	recorded := testutil.ToFloat64(opsRecorded)
	executed := testutil.ToFloat64(opsExecuted)
	ok := testutil.ToFloat64(backwardRuns.WithLabelValues("ok"))

	y, err := x.Exp()
	require.NoError(t, err)
	_, err = y.Sum()
	require.NoError(t, err)
	assert.Equal(t, recorded, testutil.ToFloat64(opsRecorded), "untracked ops record nothing")

	y, err = x.Trace().Exp()
	require.NoError(t, err)
	loss, err := y.Sum()
	require.NoError(t, err)
	assert.Equal(t, recorded+2, testutil.ToFloat64(opsRecorded))

	_, err = Backward(loss)
	require.NoError(t, err)
	assert.Equal(t, recorded+3, testutil.ToFloat64(opsRecorded), "seed op")
	assert.Equal(t, executed+3, testutil.ToFloat64(opsExecuted))
	assert.Equal(t, ok+1, testutil.ToFloat64(backwardRuns.WithLabelValues("ok")))
}

func TestBackward_Span(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	b := cpu.New()
	x, err := Scalar(2.0, b)
	require.NoError(t, err)
	loss, err := x.Trace().Log()
	require.NoError(t, err)

	_, err = BackwardContext(context.Background(), loss)
	require.NoError(t, err)
	_, err = BackwardContext(context.Background(), loss)
	require.ErrorIs(t, err, ErrNoTape)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "autodiff.Backward", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.Int("tape.ops", 2))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("gradients", 1))
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
