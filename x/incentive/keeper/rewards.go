package keeper

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/paw-chain/liquidityhub/x/incentive/types"
)

// RewardsBreakdown is what an address is owed over an epoch range
type RewardsBreakdown struct {
	FromEpoch uint64
	ToEpoch   uint64
	Total     sdk.Coins
	PerFlow   []types.FlowReward
	flows     map[uint64]types.Flow
}

// computeRewards sums what addr is owed for the epochs after its last claim up to the current
// epoch. For every flow and epoch the owed amount is emission * addressWeight / globalWeight,
// truncated. Epochs without a snapshot contribute nothing. When lpDenom is set only flows
// rewarding it are considered.
func (k Keeper) computeRewards(ctx context.Context, addr, lpDenom string) (RewardsBreakdown, error) {
	current, err := k.currentEpochID(ctx)
	if err != nil {
		return RewardsBreakdown{}, err
	}
	out := RewardsBreakdown{Total: sdk.NewCoins(), flows: map[uint64]types.Flow{}}

	lastClaimed, found := k.GetLastClaimed(ctx, addr)
	if !found || lastClaimed >= current {
		out.FromEpoch, out.ToEpoch = current+1, current
		return out, nil
	}
	out.FromEpoch, out.ToEpoch = lastClaimed+1, current

	denoms := k.GetAddressLpDenoms(ctx, addr)
	sort.Strings(denoms)
	for _, denom := range denoms {
		if lpDenom != "" && denom != lpDenom {
			continue
		}
		flows, err := k.GetFlowsByLpDenom(ctx, denom)
		if err != nil {
			return RewardsBreakdown{}, err
		}

		for _, flow := range flows {
			owed, err := k.owedByFlow(ctx, addr, flow, out.FromEpoch, out.ToEpoch)
			if err != nil {
				return RewardsBreakdown{}, err
			}
			if !owed.IsPositive() {
				continue
			}
			if flow.ClaimedAmount.Add(owed).GT(flow.Asset.Amount) {
				return RewardsBreakdown{}, types.ErrFlowRewardsOverflow.Wrapf(
					"flow %d: claimed %s + owed %s exceeds %s", flow.ID, flow.ClaimedAmount, owed, flow.Asset.Amount,
				)
			}

			reward := sdk.NewCoin(flow.Asset.Denom, owed)
			out.Total = out.Total.Add(reward)
			out.PerFlow = append(out.PerFlow, types.FlowReward{FlowID: flow.ID, LpDenom: denom, Amount: reward})
			out.flows[flow.ID] = flow
		}
	}
	return out, nil
}

func (k Keeper) owedByFlow(ctx context.Context, addr string, flow types.Flow, from, to uint64) (math.Int, error) {
	owed := math.ZeroInt()
	if to < flow.StartEpoch || from >= flow.EndEpoch {
		return owed, nil
	}
	if to >= flow.EndEpoch {
		to = flow.EndEpoch - 1
	}
	if from < flow.StartEpoch {
		from = flow.StartEpoch
	}

	emissions := flow.Emissions(to)
	for e := from; e <= to; e++ {
		emission := emissions[e-flow.StartEpoch]
		if !emission.IsPositive() || !k.HasGlobalWeightSnapshot(ctx, e) {
			continue
		}
		global, err := k.GetGlobalWeight(ctx, e, flow.LpDenom)
		if err != nil {
			return math.Int{}, err
		}
		if !global.IsPositive() {
			continue
		}
		weight, err := k.GetAddressWeightAt(ctx, addr, flow.LpDenom, e)
		if err != nil {
			return math.Int{}, err
		}
		if !weight.IsPositive() {
			continue
		}

		share := emission.Mul(weight).Quo(global)
		if share.GT(emission) {
			return math.Int{}, types.ErrFlowRewardsOverflow.Wrapf(
				"flow %d epoch %d: share %s exceeds emission %s", flow.ID, e, share, emission,
			)
		}
		owed = owed.Add(share)
	}
	return owed, nil
}

// QueryRewards returns what an address could claim now. Epochs without a snapshot count as zero.
func (k Keeper) QueryRewards(ctx context.Context, addr string) (RewardsBreakdown, error) {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return RewardsBreakdown{}, types.ErrUnauthorized.Wrapf("invalid address: %v", err)
	}
	return k.computeRewards(ctx, addr, "")
}

// Claim pays every reward owed to addr and moves its last claimed epoch to the current one.
// The snapshot of the current epoch must exist. Claiming twice in an epoch pays nothing the
// second time.
func (k Keeper) Claim(ctx context.Context, addr string) (sdk.Coins, error) {
	defer telemetry.MeasureSince(time.Now(), types.ModuleName, "claim")
	start := time.Now()
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	receiver, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return nil, types.ErrUnauthorized.Wrapf("invalid address: %v", err)
	}
	current, err := k.currentEpochID(ctx)
	if err != nil {
		return nil, fmt.Errorf("Claim: current epoch: %w", err)
	}
	if _, found := k.GetLastClaimed(ctx, addr); !found {
		return nil, types.ErrNoOpenPositions.Wrap(addr)
	}
	if !k.HasGlobalWeightSnapshot(ctx, current) {
		return nil, types.ErrGlobalWeightSnapshotNotTakenForEpoch.Wrapf("epoch %d", current)
	}

	rewards, err := k.computeRewards(ctx, addr, "")
	if err != nil {
		return nil, fmt.Errorf("Claim: %w", err)
	}

	cacheCtx, write := sdkCtx.CacheContext()
	for _, fr := range rewards.PerFlow {
		flow := rewards.flows[fr.FlowID]
		flow.ClaimedAmount = flow.ClaimedAmount.Add(fr.Amount.Amount)
		if err := k.SetFlow(cacheCtx, flow); err != nil {
			return nil, fmt.Errorf("Claim: %w", err)
		}
	}
	k.setLastClaimed(cacheCtx, addr, current)
	if !rewards.Total.IsZero() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(cacheCtx, types.ModuleName, receiver, rewards.Total); err != nil {
			return nil, fmt.Errorf("Claim: pay rewards: %w", err)
		}
	}
	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeClaim,
			sdk.NewAttribute(types.AttributeKeyOwner, addr),
			sdk.NewAttribute(types.AttributeKeyEpochID, strconv.FormatUint(current, 10)),
			sdk.NewAttribute(types.AttributeKeyRewards, rewards.Total.String()),
		),
	)
	for _, c := range rewards.Total {
		amount := toFloat64(c.Amount)
		k.metrics.RewardsClaimed.WithLabelValues(c.Denom).Add(amount)
		telemetry.IncrCounterWithLabels(
			[]string{types.ModuleName, "claim", "amount"},
			float32(amount),
			[]metrics.Label{telemetry.NewLabel("denom", c.Denom)},
		)
	}
	k.metrics.ClaimLatency.Observe(time.Since(start).Seconds())

	return rewards.Total, nil
}

func toFloat64(i math.Int) float64 {
	f, err := i.ToLegacyDec().Float64()
	if err != nil {
		return 0
	}
	return f
}

// CurrentEpochRewardsShare returns the share of addr in the weight snapshotted for the current
// epoch. With an empty lpDenom the share is taken over all LP denoms.
func (k Keeper) CurrentEpochRewardsShare(ctx context.Context, addr, lpDenom string) (types.RewardsShare, error) {
	current, err := k.currentEpochID(ctx)
	if err != nil {
		return types.RewardsShare{}, err
	}

	share := types.RewardsShare{Address: addr, LpDenom: lpDenom, EpochID: current, Share: math.LegacyZeroDec()}
	if lpDenom != "" {
		if share.GlobalWeight, err = k.GetGlobalWeight(ctx, current, lpDenom); err != nil {
			return types.RewardsShare{}, err
		}
		if share.AddressWeight, err = k.GetAddressWeightAt(ctx, addr, lpDenom, current); err != nil {
			return types.RewardsShare{}, err
		}
	} else {
		if share.GlobalWeight, err = k.GetTotalGlobalWeight(ctx, current); err != nil {
			return types.RewardsShare{}, err
		}
		share.AddressWeight = math.ZeroInt()
		for _, denom := range k.GetAddressLpDenoms(ctx, addr) {
			w, err := k.GetAddressWeightAt(ctx, addr, denom, current)
			if err != nil {
				return types.RewardsShare{}, err
			}
			share.AddressWeight = share.AddressWeight.Add(w)
		}
	}

	if share.GlobalWeight.IsPositive() {
		share.Share = math.LegacyNewDecFromInt(share.AddressWeight).QuoInt(share.GlobalWeight)
	}
	return share, nil
}
