package autodiff

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	opsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradtape_tape_ops_recorded_total",
		Help: "Total number of backward ops recorded on gradient tapes",
	})

	opsExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradtape_tape_ops_executed_total",
		Help: "Total number of backward ops executed during tape playback",
	})

	gradientBuffers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradtape_gradient_buffers_allocated_total",
		Help: "Total number of gradient buffers allocated by gradient stores",
	})

	backwardRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradtape_backward_runs_total",
		Help: "Total number of Backward calls by outcome",
	}, []string{"status"})

	backwardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gradtape_backward_duration_seconds",
		Help:    "Wall time of Backward calls",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
	})
)
