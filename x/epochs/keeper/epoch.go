package keeper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/epochs/types"
	sharedabci "github.com/paw-chain/liquidityhub/x/shared/abci"
)

// GetCurrentEpoch returns the epoch in progress
func (k Keeper) GetCurrentEpoch(ctx context.Context) (types.Epoch, error) {
	bz := k.getStore(ctx).Get(types.CurrentEpochKey)
	if bz == nil {
		return types.Epoch{}, types.ErrEpochNotFound.Wrap("current epoch not initialized")
	}

	var epoch types.Epoch
	if err := json.Unmarshal(bz, &epoch); err != nil {
		return types.Epoch{}, types.ErrInvalidState.Wrapf("failed to unmarshal current epoch: %v", err)
	}
	return epoch, nil
}

// GetEpoch returns a past or current epoch by id
func (k Keeper) GetEpoch(ctx context.Context, id uint64) (types.Epoch, error) {
	bz := k.getStore(ctx).Get(types.GetEpochKey(id))
	if bz == nil {
		return types.Epoch{}, types.ErrEpochNotFound.Wrapf("epoch %d", id)
	}

	var epoch types.Epoch
	if err := json.Unmarshal(bz, &epoch); err != nil {
		return types.Epoch{}, types.ErrInvalidState.Wrapf("failed to unmarshal epoch %d: %v", id, err)
	}
	return epoch, nil
}

// GetAllEpochs returns the stored epoch history in id order
func (k Keeper) GetAllEpochs(ctx context.Context) ([]types.Epoch, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.EpochKeyPrefix)
	defer iterator.Close()

	var epochs []types.Epoch
	for ; iterator.Valid(); iterator.Next() {
		var epoch types.Epoch
		if err := json.Unmarshal(iterator.Value(), &epoch); err != nil {
			return nil, types.ErrInvalidState.Wrapf("failed to unmarshal epoch: %v", err)
		}
		epochs = append(epochs, epoch)
	}
	return epochs, nil
}

// setCurrentEpoch stores the epoch both as current and in the history
func (k Keeper) setCurrentEpoch(ctx context.Context, epoch types.Epoch) error {
	epoch.StartTime = epoch.StartTime.UTC()
	bz, err := json.Marshal(epoch)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal epoch: %v", err)
	}

	store := k.getStore(ctx)
	store.Set(types.CurrentEpochKey, bz)
	store.Set(types.GetEpochKey(epoch.ID), bz)
	return nil
}

// IsCurrentEpochExpired reports whether the block time reached the end of the current epoch
func (k Keeper) IsCurrentEpochExpired(ctx context.Context) (bool, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return false, err
	}
	current, err := k.GetCurrentEpoch(ctx)
	if err != nil {
		return false, err
	}

	blockTime := sdk.UnwrapSDKContext(ctx).BlockTime()
	return !blockTime.Before(current.EndTime(params.EpochDuration)), nil
}

// CreateEpoch advances to the next epoch and notifies the enabled hooks.
// The new epoch starts exactly one duration after the previous one, regardless of when
// the call happens, so epoch boundaries never drift.
func (k Keeper) CreateEpoch(ctx context.Context) (types.Epoch, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Epoch{}, fmt.Errorf("CreateEpoch: get params: %w", err)
	}
	current, err := k.GetCurrentEpoch(ctx)
	if err != nil {
		return types.Epoch{}, fmt.Errorf("CreateEpoch: get current epoch: %w", err)
	}

	endTime := current.EndTime(params.EpochDuration)
	if sdkCtx.BlockTime().Before(endTime) {
		return types.Epoch{}, types.ErrCurrentEpochNotExpired.Wrapf(
			"epoch %d ends at %s, block time %s",
			current.ID, endTime.UTC().Format(time.RFC3339), sdkCtx.BlockTime().UTC().Format(time.RFC3339),
		)
	}

	next := types.Epoch{ID: current.ID + 1, StartTime: endTime}
	if err := k.setCurrentEpoch(ctx, next); err != nil {
		return types.Epoch{}, fmt.Errorf("CreateEpoch: %w", err)
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEpochCreated,
			sdk.NewAttribute(types.AttributeKeyEpochID, fmt.Sprintf("%d", next.ID)),
			sdk.NewAttribute(types.AttributeKeyStartTime, next.StartTime.Format(time.RFC3339)),
		),
	)
	k.metrics.EpochsCreated.Inc()
	k.metrics.CurrentEpoch.Set(float64(next.ID))

	k.Logger(ctx).Info("epoch created", "epoch_id", next.ID, "start_time", next.StartTime)

	k.notifyHooks(sdkCtx, next)
	return next, nil
}

// notifyHooks calls every enabled hook in registration order. Each hook runs in its own
// cache context: a failing hook is logged and its writes discarded, the others still apply.
func (k Keeper) notifyHooks(ctx sdk.Context, epoch types.Epoch) {
	handler := sharedabci.NewBlockerErrorHandler(ctx, types.ModuleName)
	for _, h := range k.hooks {
		if !k.IsHookEnabled(ctx, h.name) {
			continue
		}

		start := time.Now()
		hooks := h.hooks
		ok := handler.RunCached("hook_"+h.name, sharedabci.SeverityHigh, func(cacheCtx sdk.Context) error {
			return hooks.AfterEpochCreated(cacheCtx, epoch)
		})
		k.metrics.HookLatency.WithLabelValues(h.name).Observe(time.Since(start).Seconds())
		if !ok {
			k.metrics.HookFailures.WithLabelValues(h.name).Inc()
		}
	}
}
