package keeper

import (
	"context"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/bonding/types"
)

// InitGenesis initializes the bonding state from genesis
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return fmt.Errorf("InitGenesis: set params: %w", err)
	}

	for _, bond := range gs.Bonds {
		if err := k.setBond(ctx, bond); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
	}
	for _, e := range gs.Unbonding {
		if err := k.setJSON(ctx, types.GetUnbondingKey(e.Address, e.Asset.Denom, e.CreatedEpoch), e); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
	}
	index := gs.GlobalIndex
	if index.BondedAmount.IsNil() {
		index = types.NewGlobalIndex()
	}
	if err := k.SetGlobalIndex(ctx, index); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}
	for _, b := range gs.Buckets {
		if err := k.SetBucket(ctx, b); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
	}
	upcoming := gs.UpcomingRewards
	if upcoming == nil {
		upcoming = sdk.NewCoins()
	}
	if err := k.setUpcomingRewards(ctx, upcoming); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}
	for _, lc := range gs.LastClaimed {
		k.setLastClaimed(ctx, lc.Address, lc.EpochID)
	}
	return nil
}

// ExportGenesis exports the bonding state
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	bonds, err := k.GetAllBonds(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	unbonding, err := k.GetAllUnbonding(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	index, err := k.GetGlobalIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	buckets, err := k.GetBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	upcoming, err := k.GetUpcomingRewards(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}

	var lastClaimed []types.LastClaimed
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.LastClaimedKeyPrefix)
	defer iterator.Close()
	for ; iterator.Valid(); iterator.Next() {
		lastClaimed = append(lastClaimed, types.LastClaimed{
			Address: string(iterator.Key()[len(types.LastClaimedKeyPrefix):]),
			EpochID: sdk.BigEndianToUint64(iterator.Value()),
		})
	}

	return &types.GenesisState{
		Params:          params,
		Bonds:           bonds,
		Unbonding:       unbonding,
		GlobalIndex:     index,
		Buckets:         buckets,
		UpcomingRewards: upcoming,
		LastClaimed:     lastClaimed,
	}, nil
}
