package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FeeCollectorMetrics holds the Prometheus metrics for the fee collector module
type FeeCollectorMetrics struct {
	FeesCollected *prometheus.CounterVec
	FeesForwarded *prometheus.CounterVec
}

var (
	feeCollectorMetricsOnce sync.Once
	feeCollectorMetrics     *FeeCollectorMetrics
)

// NewFeeCollectorMetrics creates and registers fee collector metrics (singleton pattern)
func NewFeeCollectorMetrics() *FeeCollectorMetrics {
	feeCollectorMetricsOnce.Do(func() {
		feeCollectorMetrics = &FeeCollectorMetrics{
			FeesCollected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "feecollector",
					Name:      "fees_collected_total",
					Help:      "Protocol fees swept into the treasury, by source and denom",
				},
				[]string{"source", "denom"},
			),
			FeesForwarded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "feecollector",
					Name:      "fees_forwarded_total",
					Help:      "Treasury amounts forwarded to bonding rewards, by denom",
				},
				[]string{"denom"},
			),
		}
	})
	return feeCollectorMetrics
}
