package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/bonding/types"
)

// GetBond returns the bond of an address in a denom
func (k Keeper) GetBond(ctx context.Context, addr, denom string) (types.Bond, bool, error) {
	var bond types.Bond
	found, err := k.getJSON(ctx, types.GetBondKey(addr, denom), &bond)
	return bond, found, err
}

func (k Keeper) setBond(ctx context.Context, bond types.Bond) error {
	if bond.Asset.IsZero() {
		k.getStore(ctx).Delete(types.GetBondKey(bond.Address, bond.Asset.Denom))
		return nil
	}
	return k.setJSON(ctx, types.GetBondKey(bond.Address, bond.Asset.Denom), bond)
}

// GetBonds returns every bond of an address
func (k Keeper) GetBonds(ctx context.Context, addr string) ([]types.Bond, error) {
	return k.collectBonds(ctx, types.GetBondPrefix(addr))
}

// GetAllBonds returns every stored bond
func (k Keeper) GetAllBonds(ctx context.Context) ([]types.Bond, error) {
	return k.collectBonds(ctx, types.BondKeyPrefix)
}

func (k Keeper) collectBonds(ctx context.Context, prefix []byte) ([]types.Bond, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iterator.Close()

	var bonds []types.Bond
	for ; iterator.Valid(); iterator.Next() {
		var bond types.Bond
		if err := json.Unmarshal(iterator.Value(), &bond); err != nil {
			return nil, types.ErrInvalidState.Wrapf("failed to unmarshal bond: %v", err)
		}
		bonds = append(bonds, bond)
	}
	return bonds, nil
}

// WeightAt returns the weight of an address across its bonds, grown to epoch
func (k Keeper) WeightAt(ctx context.Context, addr string, epoch uint64) (math.Int, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}
	bonds, err := k.GetBonds(ctx, addr)
	if err != nil {
		return math.Int{}, err
	}

	total := math.ZeroInt()
	for _, b := range bonds {
		total = total.Add(b.WeightAt(epoch, params.GrowthRate))
	}
	return total, nil
}

// ensureNoUnclaimedRewards fails when addr has rewards to claim. Otherwise it moves the claim
// cursor to the current epoch, so weights changed now never apply to past buckets.
func (k Keeper) ensureNoUnclaimedRewards(ctx context.Context, addr string, current uint64) error {
	rewards, _, err := k.claimable(ctx, addr)
	if err != nil {
		return err
	}
	if !rewards.IsZero() {
		return types.ErrUnclaimedRewards.Wrapf("%s unclaimed", rewards)
	}
	k.setLastClaimed(ctx, addr, current)
	return nil
}

// Bond locks amount of a bonding denom. The bond weight is grown to the current epoch first.
func (k Keeper) Bond(ctx context.Context, sender string, amount sdk.Coin) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return fmt.Errorf("Bond: get params: %w", err)
	}
	addr, err := sdk.AccAddressFromBech32(sender)
	if err != nil {
		return types.ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}
	if !params.IsBondingDenom(amount.Denom) {
		return types.ErrInvalidBondingAsset.Wrap(amount.Denom)
	}
	if amount.Amount.IsNil() || !amount.Amount.IsPositive() {
		return types.ErrInvalidBondingAmount.Wrap(amount.String())
	}
	current, err := k.currentEpochID(ctx)
	if err != nil {
		return fmt.Errorf("Bond: current epoch: %w", err)
	}

	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.ensureNoUnclaimedRewards(cacheCtx, sender, current); err != nil {
		return err
	}

	bond, found, err := k.GetBond(cacheCtx, sender, amount.Denom)
	if err != nil {
		return fmt.Errorf("Bond: %w", err)
	}
	if !found {
		bond = types.Bond{Address: sender, Asset: sdk.NewCoin(amount.Denom, math.ZeroInt()), Weight: math.ZeroInt(), LastUpdated: current}
	}
	bond.Weight = bond.WeightAt(current, params.GrowthRate).Add(amount.Amount)
	bond.Asset = bond.Asset.Add(amount)
	bond.LastUpdated = current

	index, err := k.GetGlobalIndex(cacheCtx)
	if err != nil {
		return fmt.Errorf("Bond: %w", err)
	}
	index = index.GrownTo(current, params.GrowthRate)
	index.BondedAmount = index.BondedAmount.Add(amount.Amount)
	index.BondedAssets = index.BondedAssets.Add(amount)
	index.LastWeight = index.LastWeight.Add(amount.Amount)

	if err := k.bankKeeper.SendCoinsFromAccountToModule(cacheCtx, addr, types.ModuleName, sdk.NewCoins(amount)); err != nil {
		return fmt.Errorf("Bond: transfer: %w", err)
	}
	if err := k.setBond(cacheCtx, bond); err != nil {
		return fmt.Errorf("Bond: %w", err)
	}
	if err := k.SetGlobalIndex(cacheCtx, index); err != nil {
		return fmt.Errorf("Bond: %w", err)
	}
	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBond,
			sdk.NewAttribute(types.AttributeKeyAddress, sender),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	k.metrics.Bonds.WithLabelValues(amount.Denom).Inc()
	k.metrics.TotalBonded.Set(toFloat64(index.BondedAmount))
	return nil
}

// Unbond moves amount from the bond into an unbonding entry created at the current epoch.
// The bond weight is reduced in proportion to the amount unbonded.
func (k Keeper) Unbond(ctx context.Context, sender string, amount sdk.Coin) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return fmt.Errorf("Unbond: get params: %w", err)
	}
	if _, err := sdk.AccAddressFromBech32(sender); err != nil {
		return types.ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}
	if amount.Amount.IsNil() || !amount.Amount.IsPositive() {
		return types.ErrInvalidUnbondingAmount.Wrap(amount.String())
	}
	current, err := k.currentEpochID(ctx)
	if err != nil {
		return fmt.Errorf("Unbond: current epoch: %w", err)
	}

	bond, found, err := k.GetBond(ctx, sender, amount.Denom)
	if err != nil {
		return fmt.Errorf("Unbond: %w", err)
	}
	if !found || bond.Asset.IsZero() {
		return types.ErrNothingToUnbond.Wrapf("%s has no %s bonded", sender, amount.Denom)
	}
	if amount.Amount.GT(bond.Asset.Amount) {
		return types.ErrInsufficientBond.Wrapf("bonded %s, unbonding %s", bond.Asset, amount)
	}

	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.ensureNoUnclaimedRewards(cacheCtx, sender, current); err != nil {
		return err
	}

	grown := bond.WeightAt(current, params.GrowthRate)
	removed := grown.Mul(amount.Amount).Quo(bond.Asset.Amount)
	bond.Weight = grown.Sub(removed)
	bond.Asset = bond.Asset.Sub(amount)
	bond.LastUpdated = current

	index, err := k.GetGlobalIndex(cacheCtx)
	if err != nil {
		return fmt.Errorf("Unbond: %w", err)
	}
	index = index.GrownTo(current, params.GrowthRate)
	index.BondedAmount = index.BondedAmount.Sub(amount.Amount)
	index.BondedAssets = index.BondedAssets.Sub(amount)
	index.LastWeight = index.LastWeight.Sub(removed)
	if index.LastWeight.IsNegative() || index.BondedAmount.IsNegative() {
		return types.ErrInvalidState.Wrap("global index below zero")
	}

	entry := types.UnbondingEntry{Address: sender, Asset: amount, CreatedEpoch: current}
	var existing types.UnbondingEntry
	key := types.GetUnbondingKey(sender, amount.Denom, current)
	if found, err := k.getJSON(cacheCtx, key, &existing); err != nil {
		return fmt.Errorf("Unbond: %w", err)
	} else if found {
		entry.Asset = entry.Asset.Add(existing.Asset)
	}

	if err := k.setBond(cacheCtx, bond); err != nil {
		return fmt.Errorf("Unbond: %w", err)
	}
	if err := k.SetGlobalIndex(cacheCtx, index); err != nil {
		return fmt.Errorf("Unbond: %w", err)
	}
	if err := k.setJSON(cacheCtx, key, entry); err != nil {
		return fmt.Errorf("Unbond: %w", err)
	}
	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUnbond,
			sdk.NewAttribute(types.AttributeKeyAddress, sender),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	k.metrics.Unbonds.WithLabelValues(amount.Denom).Inc()
	k.metrics.TotalBonded.Set(toFloat64(index.BondedAmount))
	return nil
}

// GetUnbonding returns the unbonding entries of an address, optionally for a single denom
func (k Keeper) GetUnbonding(ctx context.Context, addr, denom string) ([]types.UnbondingEntry, error) {
	prefix := types.GetUnbondingAddressPrefix(addr)
	if denom != "" {
		prefix = types.GetUnbondingDenomPrefix(addr, denom)
	}
	return k.collectUnbonding(ctx, prefix)
}

// GetAllUnbonding returns every unbonding entry
func (k Keeper) GetAllUnbonding(ctx context.Context) ([]types.UnbondingEntry, error) {
	return k.collectUnbonding(ctx, types.UnbondingKeyPrefix)
}

func (k Keeper) collectUnbonding(ctx context.Context, prefix []byte) ([]types.UnbondingEntry, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iterator.Close()

	var entries []types.UnbondingEntry
	for ; iterator.Valid(); iterator.Next() {
		var entry types.UnbondingEntry
		if err := json.Unmarshal(iterator.Value(), &entry); err != nil {
			return nil, types.ErrInvalidState.Wrapf("failed to unmarshal unbonding entry: %v", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Withdrawable returns the amount of a denom whose unbonding period elapsed
func (k Keeper) Withdrawable(ctx context.Context, addr, denom string) (sdk.Coin, []types.UnbondingEntry, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return sdk.Coin{}, nil, err
	}
	current, err := k.currentEpochID(ctx)
	if err != nil {
		return sdk.Coin{}, nil, err
	}
	entries, err := k.GetUnbonding(ctx, addr, denom)
	if err != nil {
		return sdk.Coin{}, nil, err
	}

	total := sdk.NewCoin(denom, math.ZeroInt())
	var ready []types.UnbondingEntry
	for _, e := range entries {
		if e.IsWithdrawable(current, params.UnbondingPeriod) {
			total = total.Add(e.Asset)
			ready = append(ready, e)
		}
	}
	return total, ready, nil
}

// Withdraw releases every unbonding entry of a denom whose unbonding period elapsed
func (k Keeper) Withdraw(ctx context.Context, sender, denom string) (sdk.Coin, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	addr, err := sdk.AccAddressFromBech32(sender)
	if err != nil {
		return sdk.Coin{}, types.ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}
	if err := sdk.ValidateDenom(denom); err != nil {
		return sdk.Coin{}, types.ErrNothingToWithdraw.Wrapf("invalid denom: %v", err)
	}
	total, ready, err := k.Withdrawable(ctx, sender, denom)
	if err != nil {
		return sdk.Coin{}, fmt.Errorf("Withdraw: %w", err)
	}
	if len(ready) == 0 || total.IsZero() {
		return sdk.Coin{}, types.ErrNothingToWithdraw.Wrapf("%s has no withdrawable %s", sender, denom)
	}

	cacheCtx, write := sdkCtx.CacheContext()
	store := k.getStore(cacheCtx)
	for _, e := range ready {
		store.Delete(types.GetUnbondingKey(sender, denom, e.CreatedEpoch))
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(cacheCtx, types.ModuleName, addr, sdk.NewCoins(total)); err != nil {
		return sdk.Coin{}, fmt.Errorf("Withdraw: transfer: %w", err)
	}
	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdraw,
			sdk.NewAttribute(types.AttributeKeyAddress, sender),
			sdk.NewAttribute(types.AttributeKeyAmount, total.String()),
		),
	)
	return total, nil
}

func toFloat64(i math.Int) float64 {
	f, err := i.ToLegacyDec().Float64()
	if err != nil {
		return 0
	}
	return f
}
