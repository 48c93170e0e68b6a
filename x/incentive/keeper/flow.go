package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/incentive/types"
)

// nextFlowID returns the next flow id and advances the counter
func (k Keeper) nextFlowID(ctx context.Context) uint64 {
	store := k.getStore(ctx)
	id := uint64(1)
	if bz := store.Get(types.FlowCounterKey); bz != nil {
		id = sdk.BigEndianToUint64(bz)
	}
	store.Set(types.FlowCounterKey, sdk.Uint64ToBigEndian(id+1))
	return id
}

// GetNextFlowID returns the id the next flow will receive
func (k Keeper) GetNextFlowID(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.FlowCounterKey)
	if bz == nil {
		return 1
	}
	return sdk.BigEndianToUint64(bz)
}

// GetFlow returns a flow by id
func (k Keeper) GetFlow(ctx context.Context, id uint64) (types.Flow, error) {
	bz := k.getStore(ctx).Get(types.GetFlowKey(id))
	if bz == nil {
		return types.Flow{}, types.ErrNonExistentFlow.Wrapf("flow %d", id)
	}

	var flow types.Flow
	if err := json.Unmarshal(bz, &flow); err != nil {
		return types.Flow{}, types.ErrInvalidState.Wrapf("failed to unmarshal flow %d: %v", id, err)
	}
	return flow, nil
}

// GetFlowByIdentifier resolves a flow by numeric id or by label
func (k Keeper) GetFlowByIdentifier(ctx context.Context, identifier string) (types.Flow, error) {
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		return k.GetFlow(ctx, id)
	}

	bz := k.getStore(ctx).Get(types.GetFlowLabelKey(identifier))
	if bz == nil {
		return types.Flow{}, types.ErrNonExistentFlow.Wrapf("flow %q", identifier)
	}
	return k.GetFlow(ctx, sdk.BigEndianToUint64(bz))
}

// SetFlow stores a flow and its label and LP denom indexes
func (k Keeper) SetFlow(ctx context.Context, flow types.Flow) error {
	bz, err := json.Marshal(flow)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal flow %d: %v", flow.ID, err)
	}

	store := k.getStore(ctx)
	store.Set(types.GetFlowKey(flow.ID), bz)
	store.Set(types.GetFlowLpDenomKey(flow.LpDenom, flow.ID), []byte{1})
	if flow.Label != "" {
		store.Set(types.GetFlowLabelKey(flow.Label), sdk.Uint64ToBigEndian(flow.ID))
	}
	return nil
}

func (k Keeper) deleteFlow(ctx context.Context, flow types.Flow) {
	store := k.getStore(ctx)
	store.Delete(types.GetFlowKey(flow.ID))
	store.Delete(types.GetFlowLpDenomKey(flow.LpDenom, flow.ID))
	if flow.Label != "" {
		store.Delete(types.GetFlowLabelKey(flow.Label))
	}
}

// GetFlowsByLpDenom returns the flows rewarding an LP denom in id order
func (k Keeper) GetFlowsByLpDenom(ctx context.Context, lpDenom string) ([]types.Flow, error) {
	prefix := types.GetFlowLpDenomPrefix(lpDenom)
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iterator.Close()

	var flows []types.Flow
	for ; iterator.Valid(); iterator.Next() {
		id := sdk.BigEndianToUint64(iterator.Key()[len(prefix):])
		flow, err := k.GetFlow(ctx, id)
		if err != nil {
			return nil, err
		}
		flows = append(flows, flow)
	}
	return flows, nil
}

// IterateFlows calls cb for every flow in id order until cb returns true
func (k Keeper) IterateFlows(ctx context.Context, cb func(types.Flow) (stop bool, err error)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.FlowKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var flow types.Flow
		if err := json.Unmarshal(iterator.Value(), &flow); err != nil {
			return types.ErrInvalidState.Wrapf("failed to unmarshal flow: %v", err)
		}
		stop, err := cb(flow)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}

// GetAllFlows returns every stored flow
func (k Keeper) GetAllFlows(ctx context.Context) ([]types.Flow, error) {
	var flows []types.Flow
	err := k.IterateFlows(ctx, func(f types.Flow) (bool, error) {
		flows = append(flows, f)
		return false, nil
	})
	return flows, err
}

// validateFlowEpochs checks the epoch range of a new flow against the current epoch
func validateFlowEpochs(params types.Params, current, start, end uint64) error {
	switch {
	case start > end:
		return types.ErrIncentiveStartTimeAfterEndTime.Wrapf("start %d, end %d", start, end)
	case start == end:
		return types.ErrFlowStartTimeAfterEndTime.Wrapf("start and end are both %d", start)
	case end <= current:
		return types.ErrIncentiveEndsInPast.Wrapf("end %d, current epoch %d", end, current)
	case start < current:
		return types.ErrFlowExpirationInPast.Wrapf("start %d, current epoch %d", start, current)
	case start > current+params.EpochBuffer:
		return types.ErrIncentiveStartTooFar.Wrapf("start %d beyond epoch %d", start, current+params.EpochBuffer)
	case end-start > params.MaxFlowDuration:
		return types.ErrFlowStartTooFar.Wrapf("duration %d exceeds %d epochs", end-start, params.MaxFlowDuration)
	}
	return nil
}

// flowCharge validates the funds sent with MsgOpenFlow and returns what is taken from the creator.
// When the fee denom differs from the asset, fee overpayment is left with the sender.
func flowCharge(fee, asset sdk.Coin, funds sdk.Coins) (sdk.Coins, error) {
	required := sdk.NewCoins(asset)
	if fee.IsPositive() {
		required = required.Add(fee)
	}

	for _, c := range funds {
		if required.AmountOf(c.Denom).IsZero() {
			return nil, types.ErrPaymentError.Wrapf("unexpected denom %s", c.Denom)
		}
	}

	if fee.IsPositive() && fee.Denom != asset.Denom {
		paid := funds.AmountOf(fee.Denom)
		if paid.LT(fee.Amount) {
			return nil, types.ErrFlowFeeNotPaid.Wrapf("sent %s%s, fee is %s", paid, fee.Denom, fee)
		}
	}

	sent := funds.AmountOf(asset.Denom)
	if sent.IsZero() {
		return nil, types.ErrFlowAssetNotSent.Wrap(asset.Denom)
	}
	if !sent.Equal(required.AmountOf(asset.Denom)) {
		if fee.Denom == asset.Denom && sent.LT(required.AmountOf(asset.Denom)) && sent.GTE(asset.Amount) {
			return nil, types.ErrFlowFeeNotPaid.Wrapf("sent %s, need %s including the fee", sent, required.AmountOf(asset.Denom))
		}
		return nil, types.ErrAssetMismatch.Wrapf("sent %s%s, expected %s", sent, asset.Denom, required.AmountOf(asset.Denom))
	}
	return required, nil
}

// OpenFlow opens a reward flow for the holders of an LP denom. Expired flows of the denom are
// closed first so their slot and label can be reused.
func (k Keeper) OpenFlow(ctx context.Context, msg *types.MsgOpenFlow) (types.Flow, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Flow{}, fmt.Errorf("OpenFlow: get params: %w", err)
	}
	current, err := k.currentEpochID(ctx)
	if err != nil {
		return types.Flow{}, fmt.Errorf("OpenFlow: current epoch: %w", err)
	}
	creator, err := sdk.AccAddressFromBech32(msg.Creator)
	if err != nil {
		return types.Flow{}, types.ErrUnauthorized.Wrapf("invalid creator: %v", err)
	}

	curve := msg.Curve
	if curve == "" {
		curve = types.CurveLinear
	}
	if err := curve.Validate(); err != nil {
		return types.Flow{}, err
	}
	if err := types.ValidateFlowLabel(msg.Label); err != nil {
		return types.Flow{}, err
	}

	start := current + 1
	if msg.StartEpoch != nil {
		start = *msg.StartEpoch
	}
	end := start + params.DefaultFlowDuration
	if msg.EndEpoch != nil {
		end = *msg.EndEpoch
	}
	if err := validateFlowEpochs(params, current, start, end); err != nil {
		return types.Flow{}, err
	}

	if msg.Asset.Amount.IsNil() || msg.Asset.Amount.IsZero() {
		return types.Flow{}, types.ErrEmptyFlow.Wrap(msg.Asset.Denom)
	}
	if err := msg.Asset.Validate(); err != nil {
		return types.Flow{}, types.ErrFlowAssetNotSent.Wrapf("invalid asset: %v", err)
	}
	if msg.Asset.Amount.LT(params.MinFlowAmount) {
		return types.Flow{}, types.ErrEmptyFlowAfterFee.Wrapf("%s below minimum %s", msg.Asset.Amount, params.MinFlowAmount)
	}
	charge, err := flowCharge(params.FlowCreationFee, msg.Asset, msg.Funds)
	if err != nil {
		return types.Flow{}, err
	}

	cacheCtx, write := sdkCtx.CacheContext()

	if _, err := k.closeExpiredFlows(cacheCtx, msg.LpDenom, current, params); err != nil {
		return types.Flow{}, fmt.Errorf("OpenFlow: close expired flows: %w", err)
	}
	if msg.Label != "" && k.getStore(cacheCtx).Has(types.GetFlowLabelKey(msg.Label)) {
		return types.Flow{}, types.ErrFlowAlreadyExists.Wrap(msg.Label)
	}
	live, err := k.GetFlowsByLpDenom(cacheCtx, msg.LpDenom)
	if err != nil {
		return types.Flow{}, fmt.Errorf("OpenFlow: %w", err)
	}
	if len(live) >= int(params.MaxConcurrentFlows) {
		return types.Flow{}, types.ErrTooManyFlows.Wrapf("%d flows for %s", len(live), msg.LpDenom)
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(cacheCtx, creator, types.ModuleName, charge); err != nil {
		return types.Flow{}, types.ErrPaymentError.Wrapf("transfer flow funds: %v", err)
	}
	if params.FlowCreationFee.IsPositive() {
		if err := k.accrueProtocolFee(cacheCtx, params.FlowCreationFee); err != nil {
			return types.Flow{}, fmt.Errorf("OpenFlow: %w", err)
		}
	}

	flow := types.Flow{
		ID:            k.nextFlowID(cacheCtx),
		Label:         msg.Label,
		Creator:       msg.Creator,
		LpDenom:       msg.LpDenom,
		Asset:         msg.Asset,
		ClaimedAmount: math.ZeroInt(),
		Curve:         curve,
		StartEpoch:    start,
		EndEpoch:      end,
		EmittedTokens: map[uint64]math.Int{},
		AssetHistory: map[uint64]types.ScheduleEntry{
			start: {TotalAmount: msg.Asset.Amount, EndEpoch: end},
		},
	}
	if err := k.SetFlow(cacheCtx, flow); err != nil {
		return types.Flow{}, fmt.Errorf("OpenFlow: %w", err)
	}

	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFlowOpened,
			sdk.NewAttribute(types.AttributeKeyFlowID, strconv.FormatUint(flow.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyFlowLabel, flow.Label),
			sdk.NewAttribute(types.AttributeKeyCreator, flow.Creator),
			sdk.NewAttribute(types.AttributeKeyLpDenom, flow.LpDenom),
			sdk.NewAttribute(types.AttributeKeyAsset, flow.Asset.String()),
			sdk.NewAttribute(types.AttributeKeyStartEpoch, strconv.FormatUint(start, 10)),
			sdk.NewAttribute(types.AttributeKeyEndEpoch, strconv.FormatUint(end, 10)),
		),
	)
	k.metrics.FlowsOpened.WithLabelValues(flow.LpDenom).Inc()
	k.Logger(ctx).Info("flow opened", "flow_id", flow.ID, "lp_denom", flow.LpDenom, "asset", flow.Asset.String())

	return flow, nil
}

// ExpandFlow adds funds to a flow and optionally pushes back its end epoch. The new schedule
// applies from the next epoch (or the flow start when later); past emissions are unchanged.
func (k Keeper) ExpandFlow(ctx context.Context, msg *types.MsgExpandFlow) (types.Flow, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Flow{}, fmt.Errorf("ExpandFlow: get params: %w", err)
	}
	current, err := k.currentEpochID(ctx)
	if err != nil {
		return types.Flow{}, fmt.Errorf("ExpandFlow: current epoch: %w", err)
	}
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return types.Flow{}, types.ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}

	flow, err := k.GetFlowByIdentifier(ctx, msg.FlowIdentifier)
	if err != nil {
		return types.Flow{}, err
	}
	if msg.Sender != flow.Creator && !k.isAuthority(msg.Sender) {
		return types.Flow{}, types.ErrUnauthorized.Wrapf("%s cannot expand flow %s", msg.Sender, flow.Identifier())
	}
	if current >= flow.EndEpoch {
		return types.Flow{}, types.ErrFlowAlreadyEnded.Wrapf("flow %s ended at epoch %d", flow.Identifier(), flow.EndEpoch)
	}

	if msg.Asset.Denom != flow.Asset.Denom {
		return types.Flow{}, types.ErrFlowAssetNotSent.Wrapf("flow distributes %s, got %s", flow.Asset.Denom, msg.Asset.Denom)
	}
	for _, c := range msg.Funds {
		if c.Denom != flow.Asset.Denom {
			return types.Flow{}, types.ErrPaymentError.Wrapf("unexpected denom %s", c.Denom)
		}
	}
	if !msg.Funds.AmountOf(flow.Asset.Denom).Equal(msg.Asset.Amount) {
		return types.Flow{}, types.ErrMissingPositionDepositNative.Wrapf(
			"sent %s%s, declared %s", msg.Funds.AmountOf(flow.Asset.Denom), flow.Asset.Denom, msg.Asset,
		)
	}

	newEnd := flow.EndEpoch
	if msg.EndEpoch != nil {
		newEnd = *msg.EndEpoch
	}
	if newEnd < flow.EndEpoch {
		return types.Flow{}, types.ErrInvalidEndEpoch.Wrapf("end %d before current end %d", newEnd, flow.EndEpoch)
	}
	effective := current + 1
	if flow.StartEpoch > effective {
		effective = flow.StartEpoch
	}
	if effective >= newEnd {
		return types.Flow{}, types.ErrInvalidEndEpoch.Wrapf("no epoch left to emit before %d", newEnd)
	}
	if newEnd-flow.StartEpoch > params.MaxFlowDuration {
		return types.Flow{}, types.ErrFlowStartTooFar.Wrapf("duration %d exceeds %d epochs", newEnd-flow.StartEpoch, params.MaxFlowDuration)
	}

	cacheCtx, write := sdkCtx.CacheContext()

	if err := k.bankKeeper.SendCoinsFromAccountToModule(cacheCtx, sender, types.ModuleName, sdk.NewCoins(msg.Asset)); err != nil {
		return types.Flow{}, types.ErrPaymentError.Wrapf("transfer expansion: %v", err)
	}

	flow.Asset.Amount = flow.Asset.Amount.Add(msg.Asset.Amount)
	flow.EndEpoch = newEnd
	if flow.AssetHistory == nil {
		flow.AssetHistory = map[uint64]types.ScheduleEntry{}
	}
	flow.AssetHistory[effective] = types.ScheduleEntry{TotalAmount: flow.Asset.Amount, EndEpoch: newEnd}
	if err := k.SetFlow(cacheCtx, flow); err != nil {
		return types.Flow{}, fmt.Errorf("ExpandFlow: %w", err)
	}

	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFlowExpanded,
			sdk.NewAttribute(types.AttributeKeyFlowID, strconv.FormatUint(flow.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyAmount, msg.Asset.String()),
			sdk.NewAttribute(types.AttributeKeyEndEpoch, strconv.FormatUint(newEnd, 10)),
		),
	)
	return flow, nil
}

// CloseFlow removes a flow and refunds its unclaimed remainder to the creator.
// Only the creator or the module authority may close a flow.
func (k Keeper) CloseFlow(ctx context.Context, sender, identifier string) (sdk.Coin, error) {
	flow, err := k.GetFlowByIdentifier(ctx, identifier)
	if err != nil {
		return sdk.Coin{}, err
	}
	if sender != flow.Creator && !k.isAuthority(sender) {
		return sdk.Coin{}, types.ErrUnauthorizedFlowClose.Wrapf("%s cannot close flow %s", sender, flow.Identifier())
	}

	refund, err := k.closeFlow(ctx, flow)
	if err != nil {
		return sdk.Coin{}, fmt.Errorf("CloseFlow: %w", err)
	}
	k.metrics.FlowsClosed.WithLabelValues("closed").Inc()
	return refund, nil
}

func (k Keeper) closeFlow(ctx context.Context, flow types.Flow) (sdk.Coin, error) {
	refund := sdk.NewCoin(flow.Asset.Denom, flow.Remaining())
	if refund.IsPositive() {
		creator, err := sdk.AccAddressFromBech32(flow.Creator)
		if err != nil {
			return sdk.Coin{}, types.ErrInvalidState.Wrapf("flow %d creator: %v", flow.ID, err)
		}
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, creator, sdk.NewCoins(refund)); err != nil {
			return sdk.Coin{}, fmt.Errorf("refund flow %d: %w", flow.ID, err)
		}
	}
	k.deleteFlow(ctx, flow)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFlowClosed,
			sdk.NewAttribute(types.AttributeKeyFlowID, strconv.FormatUint(flow.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyFlowLabel, flow.Label),
			sdk.NewAttribute(types.AttributeKeyRefund, refund.String()),
		),
	)
	return refund, nil
}

// closeExpiredFlows closes the expired flows of an LP denom and returns how many were closed
func (k Keeper) closeExpiredFlows(ctx context.Context, lpDenom string, epoch uint64, params types.Params) (int, error) {
	flows, err := k.GetFlowsByLpDenom(ctx, lpDenom)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, flow := range flows {
		if !flow.IsExpired(epoch, params) {
			continue
		}
		if _, err := k.closeFlow(ctx, flow); err != nil {
			return closed, err
		}
		k.metrics.FlowsClosed.WithLabelValues("expired").Inc()
		closed++
	}
	return closed, nil
}

// PruneExpiredFlows closes every expired flow, whatever its LP denom
func (k Keeper) PruneExpiredFlows(ctx context.Context, epoch uint64) (int, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, err
	}

	var expired []types.Flow
	err = k.IterateFlows(ctx, func(f types.Flow) (bool, error) {
		if f.IsExpired(epoch, params) {
			expired = append(expired, f)
		}
		return false, nil
	})
	if err != nil {
		return 0, err
	}

	for i, flow := range expired {
		if _, err := k.closeFlow(ctx, flow); err != nil {
			return i, err
		}
		k.metrics.FlowsClosed.WithLabelValues("expired").Inc()
	}
	return len(expired), nil
}

// ManageFlow fills or closes a flow. Filling an existing flow expands it; filling an unknown
// identifier opens a new flow labeled with it.
func (k Keeper) ManageFlow(ctx context.Context, msg *types.MsgManageFlow) (uint64, error) {
	switch msg.Action {
	case types.FlowActionClose:
		flow, err := k.GetFlowByIdentifier(ctx, msg.FlowIdentifier)
		if err != nil {
			return 0, err
		}
		if _, err := k.CloseFlow(ctx, msg.Sender, msg.FlowIdentifier); err != nil {
			return 0, err
		}
		return flow.ID, nil

	case types.FlowActionFill:
		if msg.FlowIdentifier != "" {
			_, err := k.GetFlowByIdentifier(ctx, msg.FlowIdentifier)
			switch {
			case err == nil:
				expanded, err := k.ExpandFlow(ctx, &types.MsgExpandFlow{
					Sender:         msg.Sender,
					FlowIdentifier: msg.FlowIdentifier,
					EndEpoch:       msg.EndEpoch,
					Asset:          msg.Asset,
					Funds:          msg.Funds,
				})
				if err != nil {
					return 0, err
				}
				return expanded.ID, nil
			case !errors.Is(err, types.ErrNonExistentFlow):
				return 0, err
			}
		}

		opened, err := k.OpenFlow(ctx, &types.MsgOpenFlow{
			Creator:    msg.Sender,
			LpDenom:    msg.LpDenom,
			Asset:      msg.Asset,
			StartEpoch: msg.StartEpoch,
			EndEpoch:   msg.EndEpoch,
			Curve:      msg.Curve,
			Label:      msg.FlowIdentifier,
			Funds:      msg.Funds,
		})
		if err != nil {
			return 0, err
		}
		return opened.ID, nil
	}
	return 0, types.ErrInvalidFlowAction.Wrapf("%q", msg.Action)
}
