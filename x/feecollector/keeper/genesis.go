package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/liquidityhub/x/feecollector/types"
)

// InitGenesis initializes the fee collector state from genesis
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}
	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}
	for _, s := range genState.Collected {
		if err := k.setCollected(ctx, s.Source, s.Collected); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
	}
	return nil
}

// ExportGenesis exports the fee collector state
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	collected, err := k.GetAllCollected(ctx)
	if err != nil {
		return nil, err
	}
	return &types.GenesisState{Params: params, Collected: collected}, nil
}
