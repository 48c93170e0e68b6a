package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BondingMetrics holds the Prometheus metrics for the bonding module
type BondingMetrics struct {
	Bonds          *prometheus.CounterVec
	Unbonds        *prometheus.CounterVec
	RewardsClaimed *prometheus.CounterVec
	BucketsCreated prometheus.Counter
	TotalBonded    prometheus.Gauge
}

var (
	bondingMetricsOnce sync.Once
	bondingMetrics     *BondingMetrics
)

// NewBondingMetrics creates and registers bonding metrics (singleton pattern)
func NewBondingMetrics() *BondingMetrics {
	bondingMetricsOnce.Do(func() {
		bondingMetrics = &BondingMetrics{
			Bonds: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "bonding",
					Name:      "bonds_total",
					Help:      "Total number of bond operations",
				},
				[]string{"denom"},
			),
			Unbonds: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "bonding",
					Name:      "unbonds_total",
					Help:      "Total number of unbond operations",
				},
				[]string{"denom"},
			),
			RewardsClaimed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "bonding",
					Name:      "rewards_claimed_total",
					Help:      "Reward amounts claimed from buckets, by denom",
				},
				[]string{"denom"},
			),
			BucketsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "bonding",
					Name:      "buckets_created_total",
					Help:      "Total number of reward buckets created",
				},
			),
			TotalBonded: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "liquidityhub",
					Subsystem: "bonding",
					Name:      "total_bonded",
					Help:      "Total bonded amount across bonding denoms",
				},
			),
		}
	})
	return bondingMetrics
}
