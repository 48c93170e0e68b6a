package keeper

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/bonding/types"
)

// GetBucket returns the reward bucket of an epoch
func (k Keeper) GetBucket(ctx context.Context, id uint64) (types.RewardBucket, error) {
	var bucket types.RewardBucket
	found, err := k.getJSON(ctx, types.GetBucketKey(id), &bucket)
	if err != nil {
		return types.RewardBucket{}, err
	}
	if !found {
		return types.RewardBucket{}, types.ErrBucketNotFound.Wrapf("bucket %d", id)
	}
	return bucket, nil
}

// SetBucket stores a reward bucket
func (k Keeper) SetBucket(ctx context.Context, bucket types.RewardBucket) error {
	if err := bucket.Validate(); err != nil {
		return err
	}
	return k.setJSON(ctx, types.GetBucketKey(bucket.ID), bucket)
}

// GetBuckets returns the reward buckets in id order
func (k Keeper) GetBuckets(ctx context.Context) ([]types.RewardBucket, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.BucketKeyPrefix)
	defer iterator.Close()

	var buckets []types.RewardBucket
	for ; iterator.Valid(); iterator.Next() {
		var bucket types.RewardBucket
		if err := json.Unmarshal(iterator.Value(), &bucket); err != nil {
			return nil, types.ErrInvalidState.Wrapf("failed to unmarshal bucket: %v", err)
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}

// FillRewards moves funds from an account into the rewards of the next bucket
func (k Keeper) FillRewards(ctx context.Context, sender string, rewards sdk.Coins) error {
	addr, err := sdk.AccAddressFromBech32(sender)
	if err != nil {
		return types.ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}
	if rewards.Empty() || !rewards.IsValid() {
		return types.ErrInvalidRewards.Wrapf("invalid amount %s", rewards)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.bankKeeper.SendCoinsFromAccountToModule(cacheCtx, addr, types.ModuleName, rewards); err != nil {
		return fmt.Errorf("FillRewards: transfer: %w", err)
	}
	if err := k.addUpcomingRewards(cacheCtx, sender, rewards); err != nil {
		return fmt.Errorf("FillRewards: %w", err)
	}
	write()
	return nil
}

// FillRewardsFromModule moves funds from a module account into the rewards of the next bucket
func (k Keeper) FillRewardsFromModule(ctx context.Context, fromModule string, rewards sdk.Coins) error {
	if rewards.Empty() {
		return nil
	}
	if !rewards.IsValid() {
		return types.ErrInvalidRewards.Wrapf("invalid amount %s", rewards)
	}
	if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, fromModule, types.ModuleName, rewards); err != nil {
		return fmt.Errorf("FillRewardsFromModule: transfer from %s: %w", fromModule, err)
	}
	if err := k.addUpcomingRewards(ctx, fromModule, rewards); err != nil {
		return fmt.Errorf("FillRewardsFromModule: %w", err)
	}
	return nil
}

func (k Keeper) addUpcomingRewards(ctx context.Context, source string, rewards sdk.Coins) error {
	upcoming, err := k.GetUpcomingRewards(ctx)
	if err != nil {
		return err
	}
	if err := k.setUpcomingRewards(ctx, upcoming.Add(rewards...)); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFillRewards,
			sdk.NewAttribute(types.AttributeKeySource, source),
			sdk.NewAttribute(types.AttributeKeyAmount, rewards.String()),
		),
	)
	return nil
}

// claimable returns the rewards addr can claim and, per bucket, the amount taken from it.
// Buckets after the last claimed epoch with funds left are considered; each pays
// total * userWeight / globalWeight, capped by what the bucket has available.
func (k Keeper) claimable(ctx context.Context, addr string) (sdk.Coins, map[uint64]sdk.Coins, error) {
	rewards := sdk.NewCoins()
	perBucket := map[uint64]sdk.Coins{}

	lastClaimed, found := k.GetLastClaimed(ctx, addr)
	if !found {
		return rewards, perBucket, nil
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, nil, err
	}
	bonds, err := k.GetBonds(ctx, addr)
	if err != nil {
		return nil, nil, err
	}
	if len(bonds) == 0 {
		return rewards, perBucket, nil
	}
	buckets, err := k.GetBuckets(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, bucket := range buckets {
		if bucket.ID <= lastClaimed || bucket.Available.IsZero() {
			continue
		}
		global := bucket.GlobalIndex.LastWeight
		if !global.IsPositive() {
			continue
		}

		weight := math.ZeroInt()
		for _, b := range bonds {
			weight = weight.Add(b.WeightAt(bucket.GlobalIndex.EpochID, params.GrowthRate))
		}
		if !weight.IsPositive() {
			continue
		}

		taken := sdk.NewCoins()
		for _, c := range bucket.Total {
			share := c.Amount.Mul(weight).Quo(global)
			share = math.MinInt(share, bucket.Available.AmountOf(c.Denom))
			if share.IsPositive() {
				taken = taken.Add(sdk.NewCoin(c.Denom, share))
			}
		}
		if !taken.IsZero() {
			perBucket[bucket.ID] = taken
			rewards = rewards.Add(taken...)
		}
	}
	return rewards, perBucket, nil
}

// Claimable returns the rewards an address can claim now
func (k Keeper) Claimable(ctx context.Context, addr string) (sdk.Coins, []types.RewardBucket, error) {
	rewards, perBucket, err := k.claimable(ctx, addr)
	if err != nil {
		return nil, nil, err
	}
	buckets := make([]types.RewardBucket, 0, len(perBucket))
	all, err := k.GetBuckets(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, b := range all {
		if _, ok := perBucket[b.ID]; ok {
			buckets = append(buckets, b)
		}
	}
	return rewards, buckets, nil
}

// Claim pays the claimable rewards of sender and moves its claim cursor to the current epoch
func (k Keeper) Claim(ctx context.Context, sender string) (sdk.Coins, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	addr, err := sdk.AccAddressFromBech32(sender)
	if err != nil {
		return nil, types.ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}
	current, err := k.currentEpochID(ctx)
	if err != nil {
		return nil, fmt.Errorf("Claim: current epoch: %w", err)
	}
	rewards, perBucket, err := k.claimable(ctx, sender)
	if err != nil {
		return nil, fmt.Errorf("Claim: %w", err)
	}
	if rewards.IsZero() {
		return nil, types.ErrNothingToClaim.Wrap(sender)
	}

	cacheCtx, write := sdkCtx.CacheContext()
	for _, id := range slices.Sorted(maps.Keys(perBucket)) {
		taken := perBucket[id]
		bucket, err := k.GetBucket(cacheCtx, id)
		if err != nil {
			return nil, fmt.Errorf("Claim: %w", err)
		}
		bucket.Available = bucket.Available.Sub(taken...)
		bucket.Claimed = bucket.Claimed.Add(taken...)
		if err := k.SetBucket(cacheCtx, bucket); err != nil {
			return nil, fmt.Errorf("Claim: %w", err)
		}
	}
	k.setLastClaimed(cacheCtx, sender, current)
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(cacheCtx, types.ModuleName, addr, rewards); err != nil {
		return nil, fmt.Errorf("Claim: transfer: %w", err)
	}
	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeClaim,
			sdk.NewAttribute(types.AttributeKeyAddress, sender),
			sdk.NewAttribute(types.AttributeKeyEpochID, strconv.FormatUint(current, 10)),
			sdk.NewAttribute(types.AttributeKeyRewards, rewards.String()),
		),
	)
	for _, c := range rewards {
		k.metrics.RewardsClaimed.WithLabelValues(c.Denom).Add(toFloat64(c.Amount))
	}
	return rewards, nil
}

// createBucket opens the bucket of a new epoch from the upcoming rewards and the remainder of
// buckets older than the grace period, which are removed.
func (k Keeper) createBucket(ctx context.Context, epochID uint64, startTime time.Time) (types.RewardBucket, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.RewardBucket{}, err
	}
	upcoming, err := k.GetUpcomingRewards(ctx)
	if err != nil {
		return types.RewardBucket{}, err
	}
	buckets, err := k.GetBuckets(ctx)
	if err != nil {
		return types.RewardBucket{}, err
	}

	forwarded := sdk.NewCoins()
	store := k.getStore(ctx)
	for _, b := range buckets {
		if b.ID+params.GracePeriod > epochID {
			continue
		}
		forwarded = forwarded.Add(b.Available...)
		store.Delete(types.GetBucketKey(b.ID))
	}

	index, err := k.GetGlobalIndex(ctx)
	if err != nil {
		return types.RewardBucket{}, err
	}
	index = index.GrownTo(epochID, params.GrowthRate)
	if err := k.SetGlobalIndex(ctx, index); err != nil {
		return types.RewardBucket{}, err
	}

	total := upcoming.Add(forwarded...)
	bucket := types.RewardBucket{
		ID:             epochID,
		EpochStartTime: startTime.UTC(),
		Total:          total,
		Available:      total,
		Claimed:        sdk.NewCoins(),
		GlobalIndex:    index,
	}
	if err := k.SetBucket(ctx, bucket); err != nil {
		return types.RewardBucket{}, err
	}
	if err := k.setUpcomingRewards(ctx, sdk.NewCoins()); err != nil {
		return types.RewardBucket{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBucketCreated,
			sdk.NewAttribute(types.AttributeKeyEpochID, strconv.FormatUint(epochID, 10)),
			sdk.NewAttribute(types.AttributeKeyAmount, total.String()),
			sdk.NewAttribute(types.AttributeKeyForwarded, forwarded.String()),
		),
	)
	k.metrics.BucketsCreated.Inc()
	return bucket, nil
}
