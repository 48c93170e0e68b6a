package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// VaultMetrics holds the Prometheus metrics for the vault module
type VaultMetrics struct {
	VaultsCreated   prometheus.Counter
	Deposits        *prometheus.CounterVec
	Withdrawals     *prometheus.CounterVec
	FlashLoans      *prometheus.CounterVec
	FlashLoanVolume *prometheus.CounterVec
}

var (
	vaultMetricsOnce sync.Once
	vaultMetrics     *VaultMetrics
)

// NewVaultMetrics creates and registers vault metrics (singleton pattern)
func NewVaultMetrics() *VaultMetrics {
	vaultMetricsOnce.Do(func() {
		vaultMetrics = &VaultMetrics{
			VaultsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "vault",
					Name:      "vaults_created_total",
					Help:      "Total number of vaults created",
				},
			),
			Deposits: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "vault",
					Name:      "deposits_total",
					Help:      "Total number of deposits by vault",
				},
				[]string{"vault"},
			),
			Withdrawals: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "vault",
					Name:      "withdrawals_total",
					Help:      "Total number of withdrawals by vault",
				},
				[]string{"vault"},
			),
			FlashLoans: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "vault",
					Name:      "flash_loans_total",
					Help:      "Total number of settled flash loans by vault",
				},
				[]string{"vault"},
			),
			FlashLoanVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "liquidityhub",
					Subsystem: "vault",
					Name:      "flash_loan_volume",
					Help:      "Borrowed amount of settled flash loans by denom",
				},
				[]string{"denom"},
			),
		}
	})
	return vaultMetrics
}
