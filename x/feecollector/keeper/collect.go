package keeper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/paw-chain/liquidityhub/x/feecollector/types"
)

const defaultCollectLimit = 10

// selectSources resolves an explicit source list, or a page of registered sources after
// startAfter in name order.
func (k Keeper) selectSources(sources []string, startAfter string, limit uint32) ([]types.FeeSource, error) {
	if len(sources) > 0 {
		out := make([]types.FeeSource, 0, len(sources))
		seen := make(map[string]struct{}, len(sources))
		for _, name := range sources {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			s, err := k.feeSource(name)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}

	if limit == 0 {
		limit = defaultCollectLimit
	}
	var out []types.FeeSource
	for _, s := range k.sources {
		if startAfter != "" && strings.Compare(s.FeeSourceName(), startAfter) <= 0 {
			continue
		}
		out = append(out, s)
		if uint32(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

// CollectFees sweeps the protocol fees of the selected sources into the treasury.
func (k Keeper) CollectFees(ctx context.Context, sources []string, startAfter string, limit uint32) (sdk.Coins, error) {
	defer telemetry.MeasureSince(time.Now(), types.ModuleName, "collect_fees")

	selected, err := k.selectSources(sources, startAfter, limit)
	if err != nil {
		return nil, fmt.Errorf("CollectFees: %w", err)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, write := sdkCtx.CacheContext()

	total := sdk.NewCoins()
	for _, src := range selected {
		name := src.FeeSourceName()
		collected, err := src.CollectProtocolFees(cacheCtx, types.ModuleName)
		if err != nil {
			return nil, fmt.Errorf("CollectFees: source %s: %w", name, err)
		}
		if collected.IsZero() {
			continue
		}

		lifetime, err := k.GetCollected(cacheCtx, name)
		if err != nil {
			return nil, fmt.Errorf("CollectFees: %w", err)
		}
		if err := k.setCollected(cacheCtx, name, lifetime.Add(collected...)); err != nil {
			return nil, fmt.Errorf("CollectFees: %w", err)
		}
		total = total.Add(collected...)

		for _, c := range collected {
			k.metrics.FeesCollected.WithLabelValues(name, c.Denom).Add(toFloat64(c))
		}
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeFeesCollected,
				sdk.NewAttribute(types.AttributeKeySource, name),
				sdk.NewAttribute(types.AttributeKeyAmount, collected.String()),
			),
		)
	}
	write()

	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "collect"},
		float32(len(selected)),
		[]metrics.Label{telemetry.NewLabel("sources", fmt.Sprintf("%d", len(selected)))},
	)
	return total, nil
}

// ForwardFees hands the forwardable treasury balance to the bonding rewards.
func (k Keeper) ForwardFees(ctx context.Context) (sdk.Coins, error) {
	if k.rewardSink == nil {
		return nil, types.ErrNoRewardRecipient
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("ForwardFees: %w", err)
	}

	amount := params.Forwardable(k.GetTreasury(ctx))
	if amount.IsZero() {
		return nil, types.ErrNothingToForward
	}
	if err := k.rewardSink.FillRewardsFromModule(ctx, types.ModuleName, amount); err != nil {
		return nil, fmt.Errorf("ForwardFees: %w", err)
	}

	for _, c := range amount {
		k.metrics.FeesForwarded.WithLabelValues(c.Denom).Add(toFloat64(c))
	}
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeesForwarded,
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return amount, nil
}

func toFloat64(c sdk.Coin) float64 {
	f, err := c.Amount.ToLegacyDec().Float64()
	if err != nil {
		return 0
	}
	return f
}
