package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/liquidityhub/x/vault/types"
)

// InitGenesis initializes the vault state from genesis
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}
	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}
	counter := max(genState.VaultCounter, 1)
	k.setVaultCounter(ctx, counter)
	for _, v := range genState.Vaults {
		if err := k.SetVault(ctx, v); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
	}
	for _, fee := range genState.ProtocolFees {
		if err := k.accrueProtocolFee(ctx, fee); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
	}
	return nil
}

// ExportGenesis exports the vault state
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	vaults, err := k.GetVaults(ctx, "", 0)
	if err != nil {
		return nil, err
	}
	fees, err := k.GetProtocolFees(ctx)
	if err != nil {
		return nil, err
	}
	return &types.GenesisState{
		Params:       params,
		VaultCounter: k.GetVaultCounter(ctx),
		Vaults:       vaults,
		ProtocolFees: fees,
	}, nil
}
