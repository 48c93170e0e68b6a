package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState defines the vault genesis state
type GenesisState struct {
	Params       Params    `json:"params"`
	VaultCounter uint64    `json:"vault_counter"`
	Vaults       []Vault   `json:"vaults"`
	ProtocolFees sdk.Coins `json:"protocol_fees"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:       DefaultParams(),
		VaultCounter: 1,
		ProtocolFees: sdk.NewCoins(),
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(gs.Vaults))
	for _, v := range gs.Vaults {
		if err := v.Validate(); err != nil {
			return err
		}
		if _, dup := seen[v.Identifier]; dup {
			return ErrInvalidState.Wrapf("duplicate vault %s", v.Identifier)
		}
		seen[v.Identifier] = struct{}{}
	}
	if err := gs.ProtocolFees.Validate(); err != nil {
		return ErrInvalidState.Wrapf("protocol fees: %v", err)
	}
	return nil
}
