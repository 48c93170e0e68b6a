package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// WeightEntry is one point of a weight history
type WeightEntry struct {
	Address string   `json:"address,omitempty"`
	LpDenom string   `json:"lp_denom"`
	EpochID uint64   `json:"epoch_id"`
	Weight  math.Int `json:"weight"`
}

// LastClaimed is the last epoch an address claimed rewards for
type LastClaimed struct {
	Address string `json:"address"`
	EpochID uint64 `json:"epoch_id"`
}

// GenesisState defines the incentive module's genesis state
type GenesisState struct {
	Params         Params        `json:"params"`
	NextFlowID     uint64        `json:"next_flow_id"`
	NextPositionID uint64        `json:"next_position_id"`
	Flows          []Flow        `json:"flows"`
	Positions      []Position    `json:"positions"`
	AddressWeights []WeightEntry `json:"address_weights"`
	LpWeights      []WeightEntry `json:"lp_weights"`
	Snapshots      []WeightEntry `json:"snapshots"`
	SnapshotEpochs []uint64      `json:"snapshot_epochs"`
	LastClaimed    []LastClaimed `json:"last_claimed"`
	ProtocolFees   sdk.Coins     `json:"protocol_fees"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:         DefaultParams(),
		NextFlowID:     1,
		NextPositionID: 1,
		ProtocolFees:   sdk.NewCoins(),
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	flowIDs := make(map[uint64]struct{}, len(gs.Flows))
	labels := make(map[string]struct{})
	for _, f := range gs.Flows {
		if err := f.Validate(); err != nil {
			return err
		}
		if _, ok := flowIDs[f.ID]; ok {
			return ErrInvalidState.Wrapf("duplicate flow id %d", f.ID)
		}
		if f.ID >= gs.NextFlowID {
			return ErrInvalidState.Wrapf("flow id %d not below next flow id %d", f.ID, gs.NextFlowID)
		}
		flowIDs[f.ID] = struct{}{}
		if f.Label != "" {
			if _, ok := labels[f.Label]; ok {
				return ErrFlowAlreadyExists.Wrap(f.Label)
			}
			labels[f.Label] = struct{}{}
		}
	}

	positions := make(map[string]struct{}, len(gs.Positions))
	for _, p := range gs.Positions {
		key := fmt.Sprintf("%s/%s", p.Owner, p.Identifier)
		if _, ok := positions[key]; ok {
			return ErrInvalidState.Wrapf("duplicate position %s", key)
		}
		positions[key] = struct{}{}
		if err := p.LpAsset.Validate(); err != nil {
			return ErrInvalidState.Wrapf("position %s: %v", key, err)
		}
	}

	return gs.ProtocolFees.Validate()
}
