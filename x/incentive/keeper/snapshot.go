package keeper

import (
	"context"
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/incentive/types"
)

// HasGlobalWeightSnapshot reports whether the snapshot of an epoch was taken
func (k Keeper) HasGlobalWeightSnapshot(ctx context.Context, epoch uint64) bool {
	return k.getStore(ctx).Has(types.GetSnapshotKey(epoch))
}

// TakeGlobalWeightSnapshot freezes the total weight of every LP denom at the epoch.
// A snapshot is taken at most once per epoch.
func (k Keeper) TakeGlobalWeightSnapshot(ctx context.Context, epoch uint64) error {
	if k.HasGlobalWeightSnapshot(ctx, epoch) {
		return types.ErrGlobalWeightSnapshotAlreadyExists.Wrapf("epoch %d", epoch)
	}

	store := k.getStore(ctx)
	total := math.ZeroInt()
	for _, lpDenom := range k.GetLpDenoms(ctx) {
		w, err := weightAt(store, types.GetLpWeightPrefix(lpDenom), epoch)
		if err != nil {
			return fmt.Errorf("TakeGlobalWeightSnapshot: %w", err)
		}
		if err := setWeight(store, types.GetGlobalWeightKey(epoch, lpDenom), w); err != nil {
			return fmt.Errorf("TakeGlobalWeightSnapshot: %w", err)
		}
		total = total.Add(w)
		k.metrics.GlobalWeight.WithLabelValues(lpDenom).Set(toFloat64(w))
	}
	store.Set(types.GetSnapshotKey(epoch), []byte{1})

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSnapshot,
			sdk.NewAttribute(types.AttributeKeyEpochID, strconv.FormatUint(epoch, 10)),
			sdk.NewAttribute(types.AttributeKeyWeight, total.String()),
		),
	)
	k.Logger(ctx).Debug("global weight snapshot taken", "epoch_id", epoch, "weight", total.String())
	return nil
}

// GetGlobalWeight returns the snapshotted weight of an LP denom at an epoch
func (k Keeper) GetGlobalWeight(ctx context.Context, epoch uint64, lpDenom string) (math.Int, error) {
	if !k.HasGlobalWeightSnapshot(ctx, epoch) {
		return math.Int{}, types.ErrGlobalWeightSnapshotNotTakenForEpoch.Wrapf("epoch %d", epoch)
	}

	bz := k.getStore(ctx).Get(types.GetGlobalWeightKey(epoch, lpDenom))
	if bz == nil {
		return math.ZeroInt(), nil
	}
	var w math.Int
	if err := w.Unmarshal(bz); err != nil {
		return math.Int{}, types.ErrInvalidState.Wrap("failed to unmarshal global weight")
	}
	return w, nil
}

// GetTotalGlobalWeight returns the snapshotted weight of all LP denoms at an epoch
func (k Keeper) GetTotalGlobalWeight(ctx context.Context, epoch uint64) (math.Int, error) {
	if !k.HasGlobalWeightSnapshot(ctx, epoch) {
		return math.Int{}, types.ErrGlobalWeightSnapshotNotTakenForEpoch.Wrapf("epoch %d", epoch)
	}

	prefix := types.GetGlobalWeightEpochPrefix(epoch)
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iterator.Close()

	total := math.ZeroInt()
	for ; iterator.Valid(); iterator.Next() {
		var w math.Int
		if err := w.Unmarshal(iterator.Value()); err != nil {
			return math.Int{}, types.ErrInvalidState.Wrap("failed to unmarshal global weight")
		}
		total = total.Add(w)
	}
	return total, nil
}

// GetSnapshotEpochs returns the epochs with a snapshot, in order
func (k Keeper) GetSnapshotEpochs(ctx context.Context) []uint64 {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.SnapshotKeyPrefix)
	defer iterator.Close()

	var epochs []uint64
	for ; iterator.Valid(); iterator.Next() {
		epochs = append(epochs, sdk.BigEndianToUint64(iterator.Key()[len(types.SnapshotKeyPrefix):]))
	}
	return epochs
}
