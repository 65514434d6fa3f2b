// Package main provides the gradtape CLI: it evaluates a small expression,
// differentiates it and optionally fits a parameter with SGD.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/born-ml/gradtape/autodiff"
	"github.com/born-ml/gradtape/backend/cpu"
	"github.com/born-ml/gradtape/optim"
	"github.com/born-ml/gradtape/tensor"
)

const version = "v0.1.0-dev"

var (
	flagX        = flag.Float64("x", 6, "Value of x")
	flagY        = flag.Float64("y", 2, "Value of y")
	flagF64      = flag.Bool("f64", false, "Use float64 instead of float32")
	flagDump     = flag.String("dump", "", "Write the CBOR tape trace to this file")
	flagFit      = flag.Int("fit", 0, "Fit w to minimize (w*y - x)^2 with N SGD steps")
	flagLR       = flag.Float64("lr", 0.05, "Learning rate for -fit")
	flagMaxAlloc = flag.String("max-alloc", "0", "Largest single allocation (e.g. 64MB); 0 for unlimited")
	flagWorkers  = flag.Int("workers", 0, "Elementwise worker goroutines; 0 for the number of CPUs")
	enableOTel   = flag.Bool("otel", false, "Enable OpenTelemetry tracing (stdout)")
	verbose      = flag.Bool("v", false, "Debug logging")
)

// parseBytes reads a byte count with an optional K, M or G (KB, MB, GB) suffix.
func parseBytes(s string) (int, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	var val int
	var unit string
	n, err := fmt.Sscanf(s, "%d%s", &val, &unit)
	if n == 0 {
		return 0, errors.Wrapf(err, "invalid byte size %q", s)
	}
	if val < 0 {
		return 0, errors.Errorf("invalid byte size %q: negative", s)
	}

	var shift uint
	switch unit {
	case "GB", "G":
		shift = 30
	case "MB", "M":
		shift = 20
	case "KB", "K":
		shift = 10
	case "", "B":
	default:
		return 0, errors.Errorf("invalid byte size %q: unknown unit %q", s, unit)
	}
	if val > math.MaxInt>>shift {
		return 0, errors.Errorf("invalid byte size %q: too large", s)
	}
	return val << shift, nil
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	flag.Parse()
	if flag.Arg(0) == "version" {
		fmt.Printf("gradtape %s\n", version)
		return
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// run returns before exiting so the tracer has flushed its spans.
	if err := run(context.Background()); err != nil {
		log.Error().Err(err).Msg("gradtape failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	maxAlloc, err := parseBytes(*flagMaxAlloc)
	if err != nil {
		return errors.Wrap(err, "-max-alloc")
	}

	if *enableOTel {
		shutdown, err := initTracer()
		if err != nil {
			return errors.Wrap(err, "initialize tracer")
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn().Err(err).Msg("Tracer shutdown failed")
			}
		}()
	}

	cfg := cpu.DefaultConfig()
	cfg.MaxAllocBytes = maxAlloc
	if *flagWorkers > 0 {
		cfg.Parallel.NumWorkers = *flagWorkers
	}
	backend := cpu.NewWithConfig(cfg)

	if err := differentiate(ctx, backend); err != nil {
		return errors.Wrap(err, "backward")
	}
	if *flagFit > 0 {
		if err := fit(ctx, backend, *flagFit); err != nil {
			return errors.Wrap(err, "fit")
		}
	}
	return nil
}

func scalar(v float64, b tensor.Backend) (*autodiff.Tensor, error) {
	if *flagF64 {
		return autodiff.Scalar(v, b)
	}
	return autodiff.Scalar(float32(v), b)
}

// differentiate evaluates f(x, y) = x/y + tanh(x*y) and prints df/dx, df/dy.
func differentiate(ctx context.Context, b tensor.Backend) error {
	x, err := scalar(*flagX, b)
	if err != nil {
		return err
	}
	y, err := scalar(*flagY, b)
	if err != nil {
		return err
	}

	tx, ty := x.Trace(), y.Trace()
	q, err := tx.Div(ty)
	if err != nil {
		return err
	}
	p, err := tx.Retaped().Mul(ty.Retaped())
	if err != nil {
		return err
	}
	th, err := p.Tanh()
	if err != nil {
		return err
	}
	f, err := q.Add(th)
	if err != nil {
		return err
	}

	if *flagDump != "" {
		if err := dumpTape(*flagDump, f.Tape()); err != nil {
			return err
		}
	}

	grads, err := autodiff.BackwardContext(ctx, f)
	if err != nil {
		return err
	}
	gx, _ := grads.Get(x)
	gy, _ := grads.Get(y)

	fmt.Printf("f(x, y) = x/y + tanh(x*y) at x=%g y=%g (%s)\n", *flagX, *flagY, x.DType())
	fmt.Printf("  f     = %g\n", f.Item())
	fmt.Printf("  df/dx = %g\n", gx.Values()[0])
	fmt.Printf("  df/dy = %g\n", gy.Values()[0])
	return nil
}

// fit solves w*y = x for w by gradient descent on (w*y - x)^2.
func fit(ctx context.Context, b tensor.Backend, steps int) error {
	w, err := scalar(0, b)
	if err != nil {
		return err
	}
	x, err := scalar(*flagX, b)
	if err != nil {
		return err
	}
	y, err := scalar(*flagY, b)
	if err != nil {
		return err
	}

	sgd := optim.NewSGD([]*autodiff.Tensor{w}, optim.SGDConfig{LR: *flagLR, Momentum: 0.5})
	for step := range steps {
		pred, err := w.Trace().Mul(y)
		if err != nil {
			return err
		}
		diff, err := pred.Sub(x)
		if err != nil {
			return err
		}
		loss, err := diff.Pow(2)
		if err != nil {
			return err
		}
		value := loss.Item()

		grads, err := autodiff.BackwardContext(ctx, loss)
		if err != nil {
			return err
		}
		unused, err := sgd.Step(grads)
		if err != nil {
			return err
		}
		if !unused.IsEmpty() || !grads.IsEmpty() {
			log.Warn().Stringer("unused", unused).Int("stray", grads.Len()).Msg("Gradients not applied")
		}
		log.Debug().Int("step", step).Float64("loss", value).Float64("w", w.Item()).Msg("SGD step")
	}

	fmt.Printf("fit: w = %g (want %g)\n", w.Item(), *flagX / *flagY)
	return nil
}

func dumpTape(path string, tape *autodiff.GradientTape) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := tape.Encode(f); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("ops", tape.Len()).Msg("Tape trace written")
	return nil
}

func initTracer() (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("gradtape"),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
