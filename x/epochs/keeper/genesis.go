package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/liquidityhub/x/epochs/types"
)

// InitGenesis initializes the epochs state from genesis
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return fmt.Errorf("InitGenesis: set params: %w", err)
	}

	current := gs.CurrentEpoch
	if current.ID == 0 && current.StartTime.IsZero() {
		current.StartTime = gs.Params.GenesisStartTime
	}
	for _, epoch := range gs.Epochs {
		if err := k.setCurrentEpoch(ctx, epoch); err != nil {
			return fmt.Errorf("InitGenesis: epoch %d: %w", epoch.ID, err)
		}
	}
	if err := k.setCurrentEpoch(ctx, current); err != nil {
		return fmt.Errorf("InitGenesis: current epoch: %w", err)
	}

	for _, name := range gs.EnabledHooks {
		if err := k.enableHook(ctx, name); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
	}
	return nil
}

// ExportGenesis exports the epochs state
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	current, err := k.GetCurrentEpoch(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	epochs, err := k.GetAllEpochs(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}

	return &types.GenesisState{
		Params:       params,
		CurrentEpoch: current,
		Epochs:       epochs,
		EnabledHooks: k.EnabledHooks(ctx),
	}, nil
}
