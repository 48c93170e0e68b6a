package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// IncentiveMetrics holds the Prometheus metrics for the incentive module
type IncentiveMetrics struct {
	FlowsOpened      *prometheus.CounterVec
	FlowsClosed      *prometheus.CounterVec
	PositionsFilled  *prometheus.CounterVec
	PositionsClosed  *prometheus.CounterVec
	EmergencyUnlocks prometheus.Counter
	RewardsClaimed   *prometheus.CounterVec
	GlobalWeight     *prometheus.GaugeVec
	ClaimLatency     prometheus.Histogram
}

var (
	incentiveMetricsOnce sync.Once
	incentiveMetrics     *IncentiveMetrics
)

// NewIncentiveMetrics creates and registers incentive metrics (singleton pattern)
func NewIncentiveMetrics() *IncentiveMetrics {
	incentiveMetricsOnce.Do(func() {
		incentiveMetrics = &IncentiveMetrics{
			FlowsOpened: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "incentive",
					Name:      "flows_opened_total",
					Help:      "Total number of flows opened",
				},
				[]string{"lp_denom"},
			),
			FlowsClosed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "incentive",
					Name:      "flows_closed_total",
					Help:      "Total number of flows closed",
				},
				[]string{"reason"},
			),
			PositionsFilled: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "incentive",
					Name:      "positions_filled_total",
					Help:      "Total number of position fills",
				},
				[]string{"lp_denom"},
			),
			PositionsClosed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "incentive",
					Name:      "positions_closed_total",
					Help:      "Total number of positions closed",
				},
				[]string{"lp_denom"},
			),
			EmergencyUnlocks: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "incentive",
					Name:      "emergency_unlocks_total",
					Help:      "Total number of positions emergency unlocked",
				},
			),
			RewardsClaimed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "incentive",
					Name:      "rewards_claimed_total",
					Help:      "Reward amounts claimed, by denom",
				},
				[]string{"denom"},
			),
			GlobalWeight: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "liquidityhub",
					Subsystem: "incentive",
					Name:      "global_weight",
					Help:      "Global weight of the last snapshot, by lp denom",
				},
				[]string{"lp_denom"},
			),
			ClaimLatency: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "liquidityhub",
					Subsystem: "incentive",
					Name:      "claim_latency_seconds",
					Help:      "Time spent computing and paying a claim",
					Buckets:   prometheus.DefBuckets,
				},
			),
		}
	})
	return incentiveMetrics
}
