package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// LastClaimed is the last epoch an address claimed bonding rewards for
type LastClaimed struct {
	Address string `json:"address"`
	EpochID uint64 `json:"epoch_id"`
}

// GenesisState defines the bonding module's genesis state
type GenesisState struct {
	Params          Params           `json:"params"`
	Bonds           []Bond           `json:"bonds"`
	Unbonding       []UnbondingEntry `json:"unbonding"`
	GlobalIndex     GlobalIndex      `json:"global_index"`
	Buckets         []RewardBucket   `json:"buckets"`
	UpcomingRewards sdk.Coins        `json:"upcoming_rewards"`
	LastClaimed     []LastClaimed    `json:"last_claimed"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:          DefaultParams(),
		GlobalIndex:     NewGlobalIndex(),
		UpcomingRewards: sdk.NewCoins(),
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	for _, b := range gs.Bonds {
		if !gs.Params.IsBondingDenom(b.Asset.Denom) {
			return ErrInvalidBondingAsset.Wrap(b.Asset.Denom)
		}
	}
	ids := make(map[uint64]struct{}, len(gs.Buckets))
	for _, b := range gs.Buckets {
		if _, ok := ids[b.ID]; ok {
			return ErrInvalidState.Wrapf("duplicate bucket %d", b.ID)
		}
		ids[b.ID] = struct{}{}
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return gs.UpcomingRewards.Validate()
}
