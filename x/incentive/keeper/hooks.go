package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	epochstypes "github.com/paw-chain/liquidityhub/x/epochs/types"
	"github.com/paw-chain/liquidityhub/x/incentive/types"
	sharedabci "github.com/paw-chain/liquidityhub/x/shared/abci"
)

// HookName is the name the incentive hooks are registered under in the epochs module
const HookName = "incentive"

// Hooks wraps the keeper to receive epoch notifications
type Hooks struct {
	k Keeper
}

var _ epochstypes.EpochHooks = Hooks{}

// Hooks returns the epoch hooks of the incentive module
func (k Keeper) Hooks() Hooks {
	return Hooks{k: k}
}

// AfterEpochCreated snapshots the global weight of the new epoch, records what each live flow
// emits in it and closes expired flows. Pruning failures do not undo the snapshot.
func (h Hooks) AfterEpochCreated(ctx context.Context, epoch epochstypes.Epoch) error {
	if !h.k.HasGlobalWeightSnapshot(ctx, epoch.ID) {
		if err := h.k.TakeGlobalWeightSnapshot(ctx, epoch.ID); err != nil {
			return fmt.Errorf("AfterEpochCreated: %w", err)
		}
	}
	if err := h.k.recordEmissions(ctx, epoch.ID); err != nil {
		return fmt.Errorf("AfterEpochCreated: %w", err)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	handler := sharedabci.NewBlockerErrorHandler(sdkCtx, types.ModuleName)
	handler.RunCached("prune_expired_flows", sharedabci.SeverityLow, func(cacheCtx sdk.Context) error {
		closed, err := h.k.PruneExpiredFlows(cacheCtx, epoch.ID)
		if closed > 0 {
			h.k.Logger(cacheCtx).Info("expired flows closed", "epoch_id", epoch.ID, "count", closed)
		}
		return err
	})
	return nil
}

// recordEmissions stores in every live flow the amount it emits at the epoch
func (k Keeper) recordEmissions(ctx context.Context, epoch uint64) error {
	var live []uint64
	err := k.IterateFlows(ctx, func(f types.Flow) (bool, error) {
		if f.HasStarted(epoch) && epoch < f.EndEpoch {
			live = append(live, f.ID)
		}
		return false, nil
	})
	if err != nil {
		return err
	}

	for _, id := range live {
		flow, err := k.GetFlow(ctx, id)
		if err != nil {
			return err
		}
		if flow.EmittedTokens == nil {
			flow.EmittedTokens = map[uint64]math.Int{}
		}
		flow.EmittedTokens[epoch] = flow.EmissionAt(epoch)
		if err := k.SetFlow(ctx, flow); err != nil {
			return err
		}
	}
	return nil
}
