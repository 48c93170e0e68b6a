package keeper

import (
	"context"
	"fmt"

	epochstypes "github.com/paw-chain/liquidityhub/x/epochs/types"
)

// HookName is the name the bonding hooks are registered under in the epochs module
const HookName = "bonding"

// Hooks wraps the keeper to receive epoch notifications
type Hooks struct {
	k Keeper
}

var _ epochstypes.EpochHooks = Hooks{}

// Hooks returns the epoch hooks of the bonding module
func (k Keeper) Hooks() Hooks {
	return Hooks{k: k}
}

// AfterEpochCreated opens the reward bucket of the new epoch
func (h Hooks) AfterEpochCreated(ctx context.Context, epoch epochstypes.Epoch) error {
	bucket, err := h.k.createBucket(ctx, epoch.ID, epoch.StartTime)
	if err != nil {
		return fmt.Errorf("AfterEpochCreated: %w", err)
	}
	h.k.Logger(ctx).Debug("reward bucket created", "epoch_id", epoch.ID, "total", bucket.Total.String())
	return nil
}
