package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/incentive/types"
)

// InitGenesis initializes the incentive state from genesis
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return fmt.Errorf("InitGenesis: set params: %w", err)
	}

	store := k.getStore(ctx)
	store.Set(types.FlowCounterKey, sdk.Uint64ToBigEndian(max(gs.NextFlowID, 1)))
	store.Set(types.PositionCounterKey, sdk.Uint64ToBigEndian(max(gs.NextPositionID, 1)))

	for _, flow := range gs.Flows {
		if err := k.SetFlow(ctx, flow); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
	}
	for _, position := range gs.Positions {
		if err := k.SetPosition(ctx, position); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
	}

	for _, w := range gs.AddressWeights {
		if err := setWeight(store, types.GetAddressWeightKey(w.Address, w.LpDenom, w.EpochID), w.Weight); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
		store.Set(types.GetAddressLpDenomKey(w.Address, w.LpDenom), []byte{1})
	}
	for _, w := range gs.LpWeights {
		if err := setWeight(store, types.GetLpWeightKey(w.LpDenom, w.EpochID), w.Weight); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
		store.Set(types.GetLpDenomKey(w.LpDenom), []byte{1})
	}
	for _, epoch := range gs.SnapshotEpochs {
		store.Set(types.GetSnapshotKey(epoch), []byte{1})
	}
	for _, w := range gs.Snapshots {
		if err := setWeight(store, types.GetGlobalWeightKey(w.EpochID, w.LpDenom), w.Weight); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
	}
	for _, lc := range gs.LastClaimed {
		k.setLastClaimed(ctx, lc.Address, lc.EpochID)
	}
	for _, fee := range gs.ProtocolFees {
		if err := k.accrueProtocolFee(ctx, fee); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
	}
	return nil
}

// ExportGenesis exports the incentive state
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	flows, err := k.GetAllFlows(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	positions, err := k.GetAllPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	fees, err := k.GetProtocolFees(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}

	gs := &types.GenesisState{
		Params:         params,
		NextFlowID:     k.GetNextFlowID(ctx),
		NextPositionID: k.GetNextPositionID(ctx),
		Flows:          flows,
		Positions:      positions,
		SnapshotEpochs: k.GetSnapshotEpochs(ctx),
		ProtocolFees:   fees,
	}

	if gs.AddressWeights, err = k.exportAddressWeights(ctx); err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	if gs.LpWeights, err = k.exportLpWeights(ctx); err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	if gs.Snapshots, err = k.exportSnapshots(ctx, gs.SnapshotEpochs); err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	gs.LastClaimed = k.exportLastClaimed(ctx)
	return gs, nil
}

func splitLengthPrefixed(bz []byte) (string, []byte, error) {
	if len(bz) == 0 || len(bz) < 1+int(bz[0]) {
		return "", nil, types.ErrInvalidState.Wrap("malformed length-prefixed key")
	}
	n := int(bz[0])
	return string(bz[1 : 1+n]), bz[1+n:], nil
}

func (k Keeper) exportAddressWeights(ctx context.Context) ([]types.WeightEntry, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.AddressWeightKeyPrefix)
	defer iterator.Close()

	var entries []types.WeightEntry
	for ; iterator.Valid(); iterator.Next() {
		addr, rest, err := splitLengthPrefixed(iterator.Key()[len(types.AddressWeightKeyPrefix):])
		if err != nil {
			return nil, err
		}
		lpDenom, rest, err := splitLengthPrefixed(rest)
		if err != nil {
			return nil, err
		}
		var w math.Int
		if err := w.Unmarshal(iterator.Value()); err != nil {
			return nil, types.ErrInvalidState.Wrap("failed to unmarshal weight")
		}
		entries = append(entries, types.WeightEntry{
			Address: addr,
			LpDenom: lpDenom,
			EpochID: sdk.BigEndianToUint64(rest),
			Weight:  w,
		})
	}
	return entries, nil
}

func (k Keeper) exportLpWeights(ctx context.Context) ([]types.WeightEntry, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.LpWeightKeyPrefix)
	defer iterator.Close()

	var entries []types.WeightEntry
	for ; iterator.Valid(); iterator.Next() {
		lpDenom, rest, err := splitLengthPrefixed(iterator.Key()[len(types.LpWeightKeyPrefix):])
		if err != nil {
			return nil, err
		}
		var w math.Int
		if err := w.Unmarshal(iterator.Value()); err != nil {
			return nil, types.ErrInvalidState.Wrap("failed to unmarshal weight")
		}
		entries = append(entries, types.WeightEntry{LpDenom: lpDenom, EpochID: sdk.BigEndianToUint64(rest), Weight: w})
	}
	return entries, nil
}

func (k Keeper) exportSnapshots(ctx context.Context, epochs []uint64) ([]types.WeightEntry, error) {
	var entries []types.WeightEntry
	for _, epoch := range epochs {
		prefix := types.GetGlobalWeightEpochPrefix(epoch)
		iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
		for ; iterator.Valid(); iterator.Next() {
			var w math.Int
			if err := w.Unmarshal(iterator.Value()); err != nil {
				iterator.Close()
				return nil, types.ErrInvalidState.Wrap("failed to unmarshal global weight")
			}
			entries = append(entries, types.WeightEntry{
				LpDenom: string(iterator.Key()[len(prefix):]),
				EpochID: epoch,
				Weight:  w,
			})
		}
		iterator.Close()
	}
	return entries, nil
}

func (k Keeper) exportLastClaimed(ctx context.Context) []types.LastClaimed {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.LastClaimedKeyPrefix)
	defer iterator.Close()

	var out []types.LastClaimed
	for ; iterator.Valid(); iterator.Next() {
		out = append(out, types.LastClaimed{
			Address: string(iterator.Key()[len(types.LastClaimedKeyPrefix):]),
			EpochID: sdk.BigEndianToUint64(iterator.Value()),
		})
	}
	return out
}
