package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// MinUnbondingDuration is one day in seconds, the lower end of the weight curve.
	MinUnbondingDuration uint64 = 86_400
	// MaxUnbondingDuration is one year in seconds, the upper end of the weight curve.
	MaxUnbondingDuration uint64 = 31_556_926
)

// Params defines the incentive module parameters.
type Params struct {
	// EpochBuffer is how many epochs into the future a flow may start.
	EpochBuffer uint64 `json:"epoch_buffer"`
	// MaxConcurrentFlows is the number of live flows allowed per LP denom.
	MaxConcurrentFlows uint32 `json:"max_concurrent_flows"`
	// MaxFlowDuration bounds end_epoch - start_epoch.
	MaxFlowDuration uint64 `json:"max_flow_duration"`
	// MinUnlockingDuration and MaxUnlockingDuration bound position unbonding durations, in seconds.
	MinUnlockingDuration uint64 `json:"min_unlocking_duration"`
	MaxUnlockingDuration uint64 `json:"max_unlocking_duration"`
	// FlowCreationFee is charged on top of the flow asset when opening a flow.
	FlowCreationFee sdk.Coin `json:"flow_creation_fee"`
	// EmergencyUnlockPenalty is the fraction of a position kept on emergency unlock.
	EmergencyUnlockPenalty math.LegacyDec `json:"emergency_unlock_penalty"`
	// MinFlowAmount is the smallest flow asset amount; a flow whose unclaimed
	// remainder drops below it after its end epoch is considered expired.
	MinFlowAmount math.Int `json:"min_flow_amount"`
	// DefaultFlowDuration is used when a flow is opened without an end epoch.
	DefaultFlowDuration uint64 `json:"default_flow_duration"`
	// FlowExpirationGrace is how many epochs after its end a flow can still be claimed.
	FlowExpirationGrace uint64 `json:"flow_expiration_grace"`
	// MaxPositionsPerAddress bounds open and closed positions of an address.
	MaxPositionsPerAddress uint32 `json:"max_positions_per_address"`
}

// DefaultParams returns default incentive parameters
func DefaultParams() Params {
	return Params{
		EpochBuffer:            14,
		MaxConcurrentFlows:     7,
		MaxFlowDuration:        365,
		MinUnlockingDuration:   MinUnbondingDuration,
		MaxUnlockingDuration:   MaxUnbondingDuration,
		FlowCreationFee:        sdk.NewInt64Coin("uwhale", 1_000),
		EmergencyUnlockPenalty: math.LegacyNewDecWithPrec(1, 1),
		MinFlowAmount:          math.NewInt(1_000),
		DefaultFlowDuration:    14,
		FlowExpirationGrace:    14,
		MaxPositionsPerAddress: 100,
	}
}

// Validate validates the params
func (p Params) Validate() error {
	if p.MaxConcurrentFlows == 0 {
		return ErrInvalidParams.Wrap("max concurrent flows must be positive")
	}
	if p.DefaultFlowDuration == 0 {
		return ErrInvalidParams.Wrap("default flow duration must be positive")
	}
	if p.MaxFlowDuration < p.DefaultFlowDuration {
		return ErrInvalidParams.Wrapf("max flow duration %d below default duration %d", p.MaxFlowDuration, p.DefaultFlowDuration)
	}
	if p.MinUnlockingDuration > p.MaxUnlockingDuration {
		return ErrInvalidUnbondingRange.Wrapf("min %d > max %d", p.MinUnlockingDuration, p.MaxUnlockingDuration)
	}
	if p.MinUnlockingDuration < MinUnbondingDuration || p.MaxUnlockingDuration > MaxUnbondingDuration {
		return ErrInvalidUnbondingRange.Wrapf("range must lie within [%d, %d]", MinUnbondingDuration, MaxUnbondingDuration)
	}
	if err := p.FlowCreationFee.Validate(); err != nil {
		return ErrInvalidParams.Wrapf("flow creation fee: %v", err)
	}
	if p.EmergencyUnlockPenalty.IsNil() || p.EmergencyUnlockPenalty.IsNegative() || p.EmergencyUnlockPenalty.GTE(math.LegacyOneDec()) {
		return ErrInvalidEmergencyUnlockPenalty.Wrap("penalty must be in [0, 1)")
	}
	if p.MinFlowAmount.IsNil() || !p.MinFlowAmount.IsPositive() {
		return ErrInvalidParams.Wrap("min flow amount must be positive")
	}
	if p.MaxPositionsPerAddress == 0 {
		return ErrInvalidParams.Wrap("max positions per address must be positive")
	}
	return nil
}
