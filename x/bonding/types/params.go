package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Params defines the bonding module parameters.
type Params struct {
	// BondingDenoms are the denoms accepted for bonding.
	BondingDenoms []string `json:"bonding_denoms"`
	// UnbondingPeriod is the number of epochs an unbonding entry waits before withdrawal.
	UnbondingPeriod uint64 `json:"unbonding_period"`
	// GrowthRate is the weight gained per bonded unit per epoch.
	GrowthRate math.LegacyDec `json:"growth_rate"`
	// GracePeriod is the number of epochs a bucket stays claimable before its
	// remainder is forwarded to a new bucket.
	GracePeriod uint64 `json:"grace_period"`
}

// DefaultParams returns default bonding parameters
func DefaultParams() Params {
	return Params{
		BondingDenoms:   []string{"ampWHALE", "bWHALE"},
		UnbondingPeriod: 14,
		GrowthRate:      math.LegacyOneDec(),
		GracePeriod:     21,
	}
}

// IsBondingDenom reports whether denom can be bonded
func (p Params) IsBondingDenom(denom string) bool {
	for _, d := range p.BondingDenoms {
		if d == denom {
			return true
		}
	}
	return false
}

// Validate validates the params
func (p Params) Validate() error {
	if len(p.BondingDenoms) == 0 {
		return ErrInvalidParams.Wrap("at least one bonding denom is required")
	}
	seen := make(map[string]struct{}, len(p.BondingDenoms))
	for _, d := range p.BondingDenoms {
		if err := sdk.ValidateDenom(d); err != nil {
			return ErrInvalidParams.Wrapf("bonding denom %q: %v", d, err)
		}
		if _, ok := seen[d]; ok {
			return ErrInvalidParams.Wrapf("duplicate bonding denom %s", d)
		}
		seen[d] = struct{}{}
	}
	if p.GrowthRate.IsNil() || p.GrowthRate.IsNegative() {
		return ErrInvalidParams.Wrap("growth rate must not be negative")
	}
	if p.GracePeriod == 0 {
		return ErrInvalidParams.Wrap("grace period must be positive")
	}
	return nil
}
