package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EpochMetrics holds the Prometheus metrics for the epochs module
type EpochMetrics struct {
	EpochsCreated prometheus.Counter
	CurrentEpoch  prometheus.Gauge
	HookFailures  *prometheus.CounterVec
	HookLatency   *prometheus.HistogramVec
}

var (
	epochMetricsOnce sync.Once
	epochMetrics     *EpochMetrics
)

// NewEpochMetrics creates and registers epochs metrics (singleton pattern)
func NewEpochMetrics() *EpochMetrics {
	epochMetricsOnce.Do(func() {
		epochMetrics = &EpochMetrics{
			EpochsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "epochs",
					Name:      "created_total",
					Help:      "Total number of epochs created",
				},
			),
			CurrentEpoch: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "liquidityhub",
					Subsystem: "epochs",
					Name:      "current_epoch",
					Help:      "Id of the current epoch",
				},
			),
			HookFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "epochs",
					Name:      "hook_failures_total",
					Help:      "Epoch hooks that returned an error",
				},
				[]string{"hook"},
			),
			HookLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "liquidityhub",
					Subsystem: "epochs",
					Name:      "hook_latency_seconds",
					Help:      "Epoch hook execution time",
					Buckets:   prometheus.DefBuckets,
				},
				[]string{"hook"},
			),
		}
	})
	return epochMetrics
}
