package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// SourceTotal is the lifetime amount collected from a fee source
type SourceTotal struct {
	Source    string    `json:"source"`
	Collected sdk.Coins `json:"collected"`
}

// GenesisState defines the fee collector genesis state
type GenesisState struct {
	Params    Params        `json:"params"`
	Collected []SourceTotal `json:"collected"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{Params: DefaultParams()}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	for _, s := range gs.Collected {
		if err := s.Collected.Validate(); err != nil {
			return ErrInvalidState.Wrapf("source %s: %v", s.Source, err)
		}
	}
	return nil
}
