package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/epochs/types"
	sharedabci "github.com/paw-chain/liquidityhub/x/shared/abci"
)

// BeginBlocker creates the next epoch once the current one expired. At most one epoch is
// created per block; a chain that was halted catches up one epoch per block.
func (k Keeper) BeginBlocker(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	handler := sharedabci.NewBlockerErrorHandler(sdkCtx, types.ModuleName)

	expired, err := k.IsCurrentEpochExpired(ctx)
	if handler.WrapError("check_epoch_expiry", sharedabci.SeverityCritical, err) || !expired {
		return nil
	}

	_, err = k.CreateEpoch(ctx)
	handler.WrapError("create_epoch", sharedabci.SeverityCritical, err)
	return nil
}
