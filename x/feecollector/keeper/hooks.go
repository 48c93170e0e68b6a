package keeper

import (
	"context"
	"errors"
	"fmt"

	epochstypes "github.com/paw-chain/liquidityhub/x/epochs/types"
	"github.com/paw-chain/liquidityhub/x/feecollector/types"
)

// HookName is the name the fee collector hooks are registered under in the epochs module
const HookName = "feecollector"

// Hooks wraps the keeper to receive epoch notifications
type Hooks struct {
	k Keeper
}

var _ epochstypes.EpochHooks = Hooks{}

// Hooks returns the epoch hooks of the fee collector module
func (k Keeper) Hooks() Hooks {
	return Hooks{k: k}
}

// AfterEpochCreated sweeps every source and forwards the treasury so the fees land in
// the bonding bucket of the new epoch.
func (h Hooks) AfterEpochCreated(ctx context.Context, epoch epochstypes.Epoch) error {
	params, err := h.k.GetParams(ctx)
	if err != nil {
		return fmt.Errorf("AfterEpochCreated: %w", err)
	}
	if !params.AutoForward {
		return nil
	}

	collected, err := h.k.CollectFees(ctx, h.k.FeeSourceNames(), "", 0)
	if err != nil {
		return fmt.Errorf("AfterEpochCreated: %w", err)
	}
	forwarded, err := h.k.ForwardFees(ctx)
	if err != nil && !errors.Is(err, types.ErrNothingToForward) {
		return fmt.Errorf("AfterEpochCreated: %w", err)
	}
	h.k.Logger(ctx).Debug("fees swept", "epoch_id", epoch.ID, "collected", collected.String(), "forwarded", forwarded.String())
	return nil
}
