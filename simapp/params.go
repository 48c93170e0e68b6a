package simapp

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cosmos/cosmos-sdk/types/simulation"
)

// Operation names, also the keys of the run summary
const (
	OpOpenFlow         = "open_flow"
	OpExpandFlow       = "expand_flow"
	OpFillPosition     = "fill_position"
	OpClosePosition    = "close_position"
	OpWithdrawPosition = "withdraw_position"
	OpEmergencyUnlock  = "emergency_unlock"
	OpClaimIncentives  = "claim_incentives"
	OpBond             = "bond"
	OpUnbond           = "unbond"
	OpWithdrawBond     = "withdraw_bond"
	OpClaimBonding     = "claim_bonding"
	OpVaultDeposit     = "vault_deposit"
	OpVaultWithdraw    = "vault_withdraw"
	OpFlashLoan        = "flash_loan"
)

// OperationWeights sets how often each operation is picked relative to the others.
// A zero weight disables the operation.
type OperationWeights struct {
	OpenFlow         int `mapstructure:"open_flow" toml:"open_flow"`
	ExpandFlow       int `mapstructure:"expand_flow" toml:"expand_flow"`
	FillPosition     int `mapstructure:"fill_position" toml:"fill_position"`
	ClosePosition    int `mapstructure:"close_position" toml:"close_position"`
	WithdrawPosition int `mapstructure:"withdraw_position" toml:"withdraw_position"`
	EmergencyUnlock  int `mapstructure:"emergency_unlock" toml:"emergency_unlock"`
	ClaimIncentives  int `mapstructure:"claim_incentives" toml:"claim_incentives"`
	Bond             int `mapstructure:"bond" toml:"bond"`
	Unbond           int `mapstructure:"unbond" toml:"unbond"`
	WithdrawBond     int `mapstructure:"withdraw_bond" toml:"withdraw_bond"`
	ClaimBonding     int `mapstructure:"claim_bonding" toml:"claim_bonding"`
	VaultDeposit     int `mapstructure:"vault_deposit" toml:"vault_deposit"`
	VaultWithdraw    int `mapstructure:"vault_withdraw" toml:"vault_withdraw"`
	FlashLoan        int `mapstructure:"flash_loan" toml:"flash_loan"`
}

// Scenario describes a simulated run of the liquidity hub
type Scenario struct {
	// Seed of the random source. Two runs of the same scenario are identical.
	Seed int64 `mapstructure:"seed" toml:"seed"`

	// GenesisTime is the start of epoch 0. When zero the run is placed so that its last
	// block lands at the current time.
	GenesisTime time.Time `mapstructure:"genesis_time" toml:"genesis_time,omitempty"`

	Accounts       int           `mapstructure:"accounts" toml:"accounts"`
	Epochs         uint64        `mapstructure:"epochs" toml:"epochs"`
	BlocksPerEpoch int           `mapstructure:"blocks_per_epoch" toml:"blocks_per_epoch"`
	OpsPerBlock    int           `mapstructure:"ops_per_block" toml:"ops_per_block"`
	EpochDuration  time.Duration `mapstructure:"epoch_duration" toml:"epoch_duration"`

	// InitialBalance is the most any account holds of each simulated denom at genesis
	InitialBalance int64 `mapstructure:"initial_balance" toml:"initial_balance"`

	LpDenom     string `mapstructure:"lp_denom" toml:"lp_denom"`
	RewardDenom string `mapstructure:"reward_denom" toml:"reward_denom"`
	BondDenom   string `mapstructure:"bond_denom" toml:"bond_denom"`
	VaultDenom  string `mapstructure:"vault_denom" toml:"vault_denom"`

	// InvariantCheckPeriod asserts the module invariants every n blocks
	InvariantCheckPeriod int64 `mapstructure:"invariant_check_period" toml:"invariant_check_period"`

	Operations OperationWeights `mapstructure:"operations" toml:"operations"`
}

// DefaultScenario returns a two week scenario with ten accounts
func DefaultScenario() Scenario {
	return Scenario{
		Seed:                 42,
		Accounts:             10,
		Epochs:               14,
		BlocksPerEpoch:       4,
		OpsPerBlock:          5,
		EpochDuration:        24 * time.Hour,
		InitialBalance:       1_000_000_000,
		LpDenom:              "pool.uwhale.uusdc.lp",
		RewardDenom:          "uusdc",
		BondDenom:            "ampWHALE",
		VaultDenom:           "uusdc",
		InvariantCheckPeriod: 1,
		Operations: OperationWeights{
			OpenFlow:         5,
			ExpandFlow:       3,
			FillPosition:     30,
			ClosePosition:    10,
			WithdrawPosition: 10,
			EmergencyUnlock:  2,
			ClaimIncentives:  20,
			Bond:             20,
			Unbond:           5,
			WithdrawBond:     5,
			ClaimBonding:     10,
			VaultDeposit:     10,
			VaultWithdraw:    5,
			FlashLoan:        5,
		},
	}
}

// RandomizedScenario creates a scenario with random sizes and weights
func RandomizedScenario(r *rand.Rand) Scenario {
	s := DefaultScenario()
	s.Seed = r.Int63()
	s.Accounts = simulation.RandIntBetween(r, 2, 50)
	s.Epochs = uint64(simulation.RandIntBetween(r, 2, 30))
	s.BlocksPerEpoch = simulation.RandIntBetween(r, 1, 10)
	s.OpsPerBlock = simulation.RandIntBetween(r, 1, 20)
	s.Operations = OperationWeights{
		OpenFlow:         simulation.RandIntBetween(r, 1, 10),
		ExpandFlow:       simulation.RandIntBetween(r, 0, 10),
		FillPosition:     simulation.RandIntBetween(r, 1, 50),
		ClosePosition:    simulation.RandIntBetween(r, 0, 20),
		WithdrawPosition: simulation.RandIntBetween(r, 0, 20),
		EmergencyUnlock:  simulation.RandIntBetween(r, 0, 5),
		ClaimIncentives:  simulation.RandIntBetween(r, 0, 30),
		Bond:             simulation.RandIntBetween(r, 1, 30),
		Unbond:           simulation.RandIntBetween(r, 0, 10),
		WithdrawBond:     simulation.RandIntBetween(r, 0, 10),
		ClaimBonding:     simulation.RandIntBetween(r, 0, 20),
		VaultDeposit:     simulation.RandIntBetween(r, 0, 20),
		VaultWithdraw:    simulation.RandIntBetween(r, 0, 10),
		FlashLoan:        simulation.RandIntBetween(r, 0, 10),
	}
	return s
}

// BlockInterval is the time between two simulated blocks
func (s Scenario) BlockInterval() time.Duration {
	return s.EpochDuration / time.Duration(s.BlocksPerEpoch)
}

// Span is the simulated time from genesis to the last block
func (s Scenario) Span() time.Duration {
	return time.Duration(s.Epochs) * s.EpochDuration
}

// Validate checks the scenario can be run
func (s Scenario) Validate() error {
	if s.Accounts < 1 {
		return fmt.Errorf("accounts must be positive, got %d", s.Accounts)
	}
	if s.Epochs == 0 {
		return fmt.Errorf("epochs must be positive")
	}
	if s.BlocksPerEpoch < 1 {
		return fmt.Errorf("blocks per epoch must be positive, got %d", s.BlocksPerEpoch)
	}
	if s.OpsPerBlock < 0 {
		return fmt.Errorf("ops per block cannot be negative, got %d", s.OpsPerBlock)
	}
	if s.EpochDuration <= 0 {
		return fmt.Errorf("epoch duration must be positive, got %s", s.EpochDuration)
	}
	if s.BlockInterval() <= 0 {
		return fmt.Errorf("epoch duration %s too short for %d blocks", s.EpochDuration, s.BlocksPerEpoch)
	}
	if s.InitialBalance <= 0 {
		return fmt.Errorf("initial balance must be positive, got %d", s.InitialBalance)
	}
	if s.InvariantCheckPeriod < 0 {
		return fmt.Errorf("invariant check period cannot be negative, got %d", s.InvariantCheckPeriod)
	}
	for name, denom := range map[string]string{
		"lp denom":     s.LpDenom,
		"reward denom": s.RewardDenom,
		"bond denom":   s.BondDenom,
		"vault denom":  s.VaultDenom,
	} {
		if denom == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	for _, w := range s.Operations.weighted() {
		if w.weight < 0 {
			return fmt.Errorf("weight of %s cannot be negative", w.name)
		}
	}
	return nil
}

type weightedOp struct {
	name   string
	weight int
}

func (w OperationWeights) weighted() []weightedOp {
	return []weightedOp{
		{OpOpenFlow, w.OpenFlow},
		{OpExpandFlow, w.ExpandFlow},
		{OpFillPosition, w.FillPosition},
		{OpClosePosition, w.ClosePosition},
		{OpWithdrawPosition, w.WithdrawPosition},
		{OpEmergencyUnlock, w.EmergencyUnlock},
		{OpClaimIncentives, w.ClaimIncentives},
		{OpBond, w.Bond},
		{OpUnbond, w.Unbond},
		{OpWithdrawBond, w.WithdrawBond},
		{OpClaimBonding, w.ClaimBonding},
		{OpVaultDeposit, w.VaultDeposit},
		{OpVaultWithdraw, w.VaultWithdraw},
		{OpFlashLoan, w.FlashLoan},
	}
}

// pick selects an operation with probability proportional to its weight. It returns
// false when every weight is zero.
func (w OperationWeights) pick(r *rand.Rand) (string, bool) {
	ops := w.weighted()
	total := 0
	for _, op := range ops {
		total += op.weight
	}
	if total == 0 {
		return "", false
	}
	n := r.Intn(total)
	for _, op := range ops {
		if n < op.weight {
			return op.name, true
		}
		n -= op.weight
	}
	return "", false
}
