package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/incentive/types"
)

// accrueProtocolFee adds a fee to the protocol fee ledger. The coins must already sit
// in the module account.
func (k Keeper) accrueProtocolFee(ctx context.Context, fee sdk.Coin) error {
	store := k.getStore(ctx)
	key := types.GetProtocolFeeKey(fee.Denom)

	total := math.ZeroInt()
	if bz := store.Get(key); bz != nil {
		if err := total.Unmarshal(bz); err != nil {
			return types.ErrInvalidState.Wrap("failed to unmarshal protocol fee")
		}
	}
	total = total.Add(fee.Amount)

	bz, err := total.Marshal()
	if err != nil {
		return types.ErrInvalidState.Wrap("failed to marshal protocol fee")
	}
	store.Set(key, bz)
	return nil
}

// GetProtocolFees returns the accrued protocol fees
func (k Keeper) GetProtocolFees(ctx context.Context) (sdk.Coins, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.ProtocolFeeKeyPrefix)
	defer iterator.Close()

	fees := sdk.NewCoins()
	for ; iterator.Valid(); iterator.Next() {
		denom := string(iterator.Key()[len(types.ProtocolFeeKeyPrefix):])
		var amount math.Int
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			return nil, types.ErrInvalidState.Wrapf("failed to unmarshal protocol fee %s", denom)
		}
		fees = fees.Add(sdk.NewCoin(denom, amount))
	}
	return fees, nil
}

// FeeSourceName implements the fee source contract of the fee collector
func (k Keeper) FeeSourceName() string {
	return types.ModuleName
}

// CollectProtocolFees sends every accrued protocol fee to recipientModule and resets the ledger
func (k Keeper) CollectProtocolFees(ctx context.Context, recipientModule string) (sdk.Coins, error) {
	fees, err := k.GetProtocolFees(ctx)
	if err != nil {
		return nil, fmt.Errorf("CollectProtocolFees: %w", err)
	}
	if fees.IsZero() {
		return fees, nil
	}

	if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, types.ModuleName, recipientModule, fees); err != nil {
		return nil, fmt.Errorf("CollectProtocolFees: transfer to %s: %w", recipientModule, err)
	}

	store := k.getStore(ctx)
	for _, fee := range fees {
		store.Delete(types.GetProtocolFeeKey(fee.Denom))
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeeCollected,
			sdk.NewAttribute(types.AttributeKeyAmount, fees.String()),
		),
	)
	k.Logger(ctx).Info("protocol fees collected", "recipient", recipientModule, "fees", fees.String())
	return fees, nil
}
