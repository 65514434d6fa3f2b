package cpu

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	allocBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradtape_cpu_allocated_bytes_total",
		Help: "Total number of bytes allocated by the CPU backend",
	})

	allocFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradtape_cpu_allocation_failures_total",
		Help: "Total number of allocations the CPU backend refused or failed",
	})
)
