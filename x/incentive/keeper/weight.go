package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/incentive/types"
)

// Weight histories are append-only: an entry keyed by epoch e holds the weight in force from e
// until the next entry. Changes made during epoch n are staged at n+1, so the weight of the
// current epoch is never rewritten once the epoch started.

// weightAt returns the latest entry at or before epoch under prefix, or zero
func weightAt(store storetypes.KVStore, prefix []byte, epoch uint64) (math.Int, error) {
	start := append(append([]byte{}, prefix...), sdk.Uint64ToBigEndian(0)...)
	end := append(append([]byte{}, prefix...), sdk.Uint64ToBigEndian(epoch)...)
	end = append(end, 0x00)

	iterator := store.ReverseIterator(start, end)
	defer iterator.Close()
	if !iterator.Valid() {
		return math.ZeroInt(), nil
	}

	var w math.Int
	if err := w.Unmarshal(iterator.Value()); err != nil {
		return math.Int{}, types.ErrInvalidState.Wrap("failed to unmarshal weight")
	}
	return w, nil
}

func setWeight(store storetypes.KVStore, key []byte, w math.Int) error {
	bz, err := w.Marshal()
	if err != nil {
		return types.ErrInvalidState.Wrap("failed to marshal weight")
	}
	store.Set(key, bz)
	return nil
}

// GetAddressWeightAt returns the weight of an address for an LP denom at an epoch
func (k Keeper) GetAddressWeightAt(ctx context.Context, addr, lpDenom string, epoch uint64) (math.Int, error) {
	return weightAt(k.getStore(ctx), types.GetAddressWeightPrefix(addr, lpDenom), epoch)
}

// GetLpWeightAt returns the total weight of an LP denom at an epoch
func (k Keeper) GetLpWeightAt(ctx context.Context, lpDenom string, epoch uint64) (math.Int, error) {
	return weightAt(k.getStore(ctx), types.GetLpWeightPrefix(lpDenom), epoch)
}

// stageWeightChange applies delta to the weight of an address and to the total of the LP denom,
// effective from the next epoch.
func (k Keeper) stageWeightChange(ctx context.Context, addr, lpDenom string, delta math.Int) error {
	if delta.IsZero() {
		return nil
	}
	current, err := k.currentEpochID(ctx)
	if err != nil {
		return fmt.Errorf("stage weight: %w", err)
	}
	target := current + 1
	store := k.getStore(ctx)

	addrWeight, err := weightAt(store, types.GetAddressWeightPrefix(addr, lpDenom), target)
	if err != nil {
		return err
	}
	lpWeight, err := weightAt(store, types.GetLpWeightPrefix(lpDenom), target)
	if err != nil {
		return err
	}

	addrWeight = addrWeight.Add(delta)
	lpWeight = lpWeight.Add(delta)
	if addrWeight.IsNegative() || lpWeight.IsNegative() {
		return types.ErrInvalidState.Wrapf("negative weight for %s on %s", addr, lpDenom)
	}

	if err := setWeight(store, types.GetAddressWeightKey(addr, lpDenom, target), addrWeight); err != nil {
		return err
	}
	if err := setWeight(store, types.GetLpWeightKey(lpDenom, target), lpWeight); err != nil {
		return err
	}
	store.Set(types.GetAddressLpDenomKey(addr, lpDenom), []byte{1})
	store.Set(types.GetLpDenomKey(lpDenom), []byte{1})
	return nil
}

// GetAddressLpDenoms returns the LP denoms an address ever held weight in
func (k Keeper) GetAddressLpDenoms(ctx context.Context, addr string) []string {
	prefix := types.GetAddressLpDenomPrefix(addr)
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iterator.Close()

	var denoms []string
	for ; iterator.Valid(); iterator.Next() {
		denoms = append(denoms, string(iterator.Key()[len(prefix):]))
	}
	return denoms
}

// GetLpDenoms returns every LP denom that ever carried weight
func (k Keeper) GetLpDenoms(ctx context.Context) []string {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.LpDenomKeyPrefix)
	defer iterator.Close()

	var denoms []string
	for ; iterator.Valid(); iterator.Next() {
		denoms = append(denoms, string(iterator.Key()[len(types.LpDenomKeyPrefix):]))
	}
	return denoms
}

// GetLastClaimed returns the last epoch an address claimed for, and whether it is known
func (k Keeper) GetLastClaimed(ctx context.Context, addr string) (uint64, bool) {
	bz := k.getStore(ctx).Get(types.GetLastClaimedKey(addr))
	if bz == nil {
		return 0, false
	}
	return sdk.BigEndianToUint64(bz), true
}

func (k Keeper) setLastClaimed(ctx context.Context, addr string, epoch uint64) {
	k.getStore(ctx).Set(types.GetLastClaimedKey(addr), sdk.Uint64ToBigEndian(epoch))
}
