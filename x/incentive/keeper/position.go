package keeper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/incentive/types"
)

// GetNextPositionID returns the counter used for generated position identifiers
func (k Keeper) GetNextPositionID(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.PositionCounterKey)
	if bz == nil {
		return 1
	}
	return sdk.BigEndianToUint64(bz)
}

// newPositionIdentifier generates an identifier of the form p-<n> not used by any position
func (k Keeper) newPositionIdentifier(ctx context.Context) string {
	store := k.getStore(ctx)
	id := k.GetNextPositionID(ctx)
	for {
		identifier := fmt.Sprintf("p-%d", id)
		id++
		if !store.Has(types.GetPositionKey(identifier)) {
			store.Set(types.PositionCounterKey, sdk.Uint64ToBigEndian(id))
			return identifier
		}
	}
}

// GetPosition returns a position by identifier
func (k Keeper) GetPosition(ctx context.Context, identifier string) (types.Position, bool, error) {
	bz := k.getStore(ctx).Get(types.GetPositionKey(identifier))
	if bz == nil {
		return types.Position{}, false, nil
	}

	var position types.Position
	if err := json.Unmarshal(bz, &position); err != nil {
		return types.Position{}, false, types.ErrInvalidState.Wrapf("failed to unmarshal position %s: %v", identifier, err)
	}
	return position, true, nil
}

// SetPosition stores a position and its owner index
func (k Keeper) SetPosition(ctx context.Context, position types.Position) error {
	bz, err := json.Marshal(position)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal position %s: %v", position.Identifier, err)
	}

	store := k.getStore(ctx)
	store.Set(types.GetPositionKey(position.Identifier), bz)
	store.Set(types.GetPositionOwnerKey(position.Owner, position.Identifier), []byte{1})
	return nil
}

func (k Keeper) deletePosition(ctx context.Context, position types.Position) {
	store := k.getStore(ctx)
	store.Delete(types.GetPositionKey(position.Identifier))
	store.Delete(types.GetPositionOwnerKey(position.Owner, position.Identifier))
}

// GetPositionsByOwner returns the positions of an owner in identifier order
func (k Keeper) GetPositionsByOwner(ctx context.Context, owner string, openOnly bool) ([]types.Position, error) {
	prefix := types.GetPositionOwnerPrefix(owner)
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iterator.Close()

	var positions []types.Position
	for ; iterator.Valid(); iterator.Next() {
		identifier := string(iterator.Key()[len(prefix):])
		position, found, err := k.GetPosition(ctx, identifier)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, types.ErrInvalidState.Wrapf("dangling position index %s", identifier)
		}
		if openOnly && !position.Open {
			continue
		}
		positions = append(positions, position)
	}
	return positions, nil
}

// GetAllPositions returns every stored position
func (k Keeper) GetAllPositions(ctx context.Context) ([]types.Position, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PositionKeyPrefix)
	defer iterator.Close()

	var positions []types.Position
	for ; iterator.Valid(); iterator.Next() {
		var position types.Position
		if err := json.Unmarshal(iterator.Value(), &position); err != nil {
			return nil, types.ErrInvalidState.Wrapf("failed to unmarshal position: %v", err)
		}
		positions = append(positions, position)
	}
	return positions, nil
}

// FillPosition locks LP tokens into a new position or tops up an open one. The weight gained
// counts from the next epoch on.
func (k Keeper) FillPosition(ctx context.Context, msg *types.MsgFillPosition) (types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Position{}, fmt.Errorf("FillPosition: get params: %w", err)
	}
	current, err := k.currentEpochID(ctx)
	if err != nil {
		return types.Position{}, fmt.Errorf("FillPosition: current epoch: %w", err)
	}
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return types.Position{}, types.ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}
	owner := msg.Sender
	if msg.Receiver != "" {
		owner = msg.Receiver
	}

	if msg.LpAsset.Amount.IsNil() || !msg.LpAsset.Amount.IsPositive() {
		return types.Position{}, types.ErrMissingPositionDeposit.Wrap("lp asset must be positive")
	}
	if msg.Funds.IsZero() {
		return types.Position{}, types.ErrMissingPositionDeposit.Wrapf("no funds sent for %s", msg.LpAsset)
	}
	if len(msg.Funds) != 1 || msg.Funds[0].Denom != msg.LpAsset.Denom || !msg.Funds[0].Amount.Equal(msg.LpAsset.Amount) {
		return types.Position{}, types.ErrPaymentError.Wrapf("sent %s, declared %s", msg.Funds, msg.LpAsset)
	}

	if msg.UnbondingDuration < params.MinUnlockingDuration || msg.UnbondingDuration > params.MaxUnlockingDuration {
		return types.Position{}, types.ErrInvalidUnbondingDuration.Wrapf(
			"%d not in [%d, %d]", msg.UnbondingDuration, params.MinUnlockingDuration, params.MaxUnlockingDuration,
		)
	}

	existing, found, err := k.GetPosition(ctx, msg.Identifier)
	if err != nil {
		return types.Position{}, fmt.Errorf("FillPosition: %w", err)
	}
	found = found && msg.Identifier != ""

	cacheCtx, write := sdkCtx.CacheContext()

	var position types.Position
	var delta math.Int
	if found {
		if existing.Owner != owner || (msg.Receiver != "" && msg.Receiver != msg.Sender) {
			return types.Position{}, types.ErrOwnershipError.Wrapf("position %s", existing.Identifier)
		}
		if !existing.Open {
			return types.Position{}, types.ErrPositionAlreadyClosed.Wrap(existing.Identifier)
		}
		if existing.LpAsset.Denom != msg.LpAsset.Denom {
			return types.Position{}, types.ErrAssetMismatch.Wrapf("position holds %s, got %s", existing.LpAsset.Denom, msg.LpAsset.Denom)
		}
		if existing.UnbondingDuration != msg.UnbondingDuration {
			return types.Position{}, types.ErrInvalidUnbondingDuration.Wrapf(
				"position %s unbonds in %d, got %d", existing.Identifier, existing.UnbondingDuration, msg.UnbondingDuration,
			)
		}

		position = existing
		position.LpAsset = position.LpAsset.Add(msg.LpAsset)
		weight, err := types.CalculateWeight(position.LpAsset.Amount, position.UnbondingDuration)
		if err != nil {
			return types.Position{}, err
		}
		delta = weight.Sub(existing.Weight)
		position.Weight = weight
	} else {
		held, err := k.GetPositionsByOwner(cacheCtx, owner, false)
		if err != nil {
			return types.Position{}, fmt.Errorf("FillPosition: %w", err)
		}
		if msg.Identifier == "" {
			for _, p := range held {
				if p.Open && p.LpAsset.Denom == msg.LpAsset.Denom && p.UnbondingDuration == msg.UnbondingDuration {
					return types.Position{}, types.ErrDuplicatePosition.Wrapf("position %s", p.Identifier)
				}
			}
		}
		if len(held) >= int(params.MaxPositionsPerAddress) {
			return types.Position{}, types.ErrMaxPositionsReached.Wrapf("%s holds %d positions", owner, len(held))
		}

		weight, err := types.CalculateWeight(msg.LpAsset.Amount, msg.UnbondingDuration)
		if err != nil {
			return types.Position{}, err
		}
		identifier := msg.Identifier
		if identifier == "" {
			identifier = k.newPositionIdentifier(cacheCtx)
		}
		position = types.Position{
			Identifier:        identifier,
			Owner:             owner,
			LpAsset:           msg.LpAsset,
			UnbondingDuration: msg.UnbondingDuration,
			Weight:            weight,
			Open:              true,
		}
		delta = weight

		if _, ok := k.GetLastClaimed(cacheCtx, owner); !ok {
			k.setLastClaimed(cacheCtx, owner, current)
		}
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(cacheCtx, sender, types.ModuleName, msg.Funds); err != nil {
		return types.Position{}, types.ErrPaymentError.Wrapf("transfer lp tokens: %v", err)
	}
	if err := k.SetPosition(cacheCtx, position); err != nil {
		return types.Position{}, fmt.Errorf("FillPosition: %w", err)
	}
	if err := k.stageWeightChange(cacheCtx, owner, position.LpAsset.Denom, delta); err != nil {
		return types.Position{}, fmt.Errorf("FillPosition: %w", err)
	}

	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePositionFilled,
			sdk.NewAttribute(types.AttributeKeyPosition, position.Identifier),
			sdk.NewAttribute(types.AttributeKeyOwner, owner),
			sdk.NewAttribute(types.AttributeKeyAmount, msg.LpAsset.String()),
			sdk.NewAttribute(types.AttributeKeyWeight, position.Weight.String()),
		),
	)
	k.metrics.PositionsFilled.WithLabelValues(position.LpAsset.Denom).Inc()
	return position, nil
}

// ClosePosition starts unbonding a position. A partial close splits the closed amount into a
// new closed position; the weight removed stops counting from the next epoch.
func (k Keeper) ClosePosition(ctx context.Context, msg *types.MsgClosePosition) (types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Position{}, fmt.Errorf("ClosePosition: get params: %w", err)
	}
	position, found, err := k.GetPosition(ctx, msg.Identifier)
	if err != nil {
		return types.Position{}, fmt.Errorf("ClosePosition: %w", err)
	}
	if !found {
		return types.Position{}, types.ErrNonExistentPosition.Wrap(msg.Identifier)
	}
	if position.Owner != msg.Sender {
		return types.Position{}, types.ErrUnauthorized.Wrapf("%s does not own position %s", msg.Sender, msg.Identifier)
	}
	if !position.Open {
		return types.Position{}, types.ErrPositionAlreadyClosed.Wrap(msg.Identifier)
	}

	pending, err := k.computeRewards(ctx, msg.Sender, position.LpAsset.Denom)
	if err != nil {
		return types.Position{}, fmt.Errorf("ClosePosition: %w", err)
	}
	if !pending.Total.IsZero() {
		return types.Position{}, types.ErrPendingRewards.Wrapf("%s unclaimed", pending.Total)
	}

	amount := position.LpAsset
	if msg.LpAsset != nil {
		amount = *msg.LpAsset
		if amount.Denom != position.LpAsset.Denom || amount.Amount.IsNil() || !amount.Amount.IsPositive() || amount.Amount.GT(position.LpAsset.Amount) {
			return types.Position{}, types.ErrInvalidAmount.Wrapf("cannot close %s of %s", amount, position.LpAsset)
		}
	}
	expiringAt := sdkCtx.BlockTime().Add(time.Duration(position.UnbondingDuration) * time.Second).UTC()

	cacheCtx, write := sdkCtx.CacheContext()

	var closed types.Position
	var removed math.Int
	if amount.Amount.Equal(position.LpAsset.Amount) {
		closed = position
		closed.Open = false
		closed.ExpiringAt = &expiringAt
		removed = position.Weight
	} else {
		held, err := k.GetPositionsByOwner(cacheCtx, msg.Sender, false)
		if err != nil {
			return types.Position{}, fmt.Errorf("ClosePosition: %w", err)
		}
		if len(held) >= int(params.MaxPositionsPerAddress) {
			return types.Position{}, types.ErrMaxPositionsReached.Wrapf("%s holds %d positions", msg.Sender, len(held))
		}

		position.LpAsset = position.LpAsset.Sub(amount)
		remaining, err := types.CalculateWeight(position.LpAsset.Amount, position.UnbondingDuration)
		if err != nil {
			return types.Position{}, err
		}
		removed = position.Weight.Sub(remaining)
		position.Weight = remaining
		if err := k.SetPosition(cacheCtx, position); err != nil {
			return types.Position{}, fmt.Errorf("ClosePosition: %w", err)
		}

		closed = types.Position{
			Identifier:        k.newPositionIdentifier(cacheCtx),
			Owner:             position.Owner,
			LpAsset:           amount,
			UnbondingDuration: position.UnbondingDuration,
			Weight:            removed,
			ExpiringAt:        &expiringAt,
		}
	}

	if err := k.SetPosition(cacheCtx, closed); err != nil {
		return types.Position{}, fmt.Errorf("ClosePosition: %w", err)
	}
	if err := k.stageWeightChange(cacheCtx, msg.Sender, amount.Denom, removed.Neg()); err != nil {
		return types.Position{}, fmt.Errorf("ClosePosition: %w", err)
	}

	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePositionClosed,
			sdk.NewAttribute(types.AttributeKeyPosition, closed.Identifier),
			sdk.NewAttribute(types.AttributeKeyOwner, closed.Owner),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyExpiringAt, expiringAt.Format(time.RFC3339)),
		),
	)
	k.metrics.PositionsClosed.WithLabelValues(amount.Denom).Inc()
	return closed, nil
}

// WithdrawPosition releases unbonded positions of the sender. With an identifier only that
// position is considered; without one every withdrawable position is released.
// With emergencyUnlock positions are released at once, minus the emergency unlock penalty.
func (k Keeper) WithdrawPosition(ctx context.Context, sender, identifier string, emergencyUnlock bool) (sdk.Coins, sdk.Coins, error) {
	if emergencyUnlock {
		return k.EmergencyUnlock(ctx, sender, identifier)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	owner, err := sdk.AccAddressFromBech32(sender)
	if err != nil {
		return nil, nil, types.ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}
	now := sdkCtx.BlockTime()

	var release []types.Position
	if identifier != "" {
		position, err := k.ownedPosition(ctx, sender, identifier)
		if err != nil {
			return nil, nil, err
		}
		if !position.IsWithdrawable(now) {
			return nil, nil, types.ErrPositionNotExpired.Wrap(identifier)
		}
		release = append(release, position)
	} else {
		held, err := k.GetPositionsByOwner(ctx, sender, false)
		if err != nil {
			return nil, nil, fmt.Errorf("WithdrawPosition: %w", err)
		}
		unbonding := 0
		for _, p := range held {
			switch {
			case p.IsWithdrawable(now):
				release = append(release, p)
			case !p.Open:
				unbonding++
			}
		}
		if len(release) == 0 && unbonding > 0 {
			return nil, nil, types.ErrPositionNotExpired.Wrapf("%d positions still unbonding", unbonding)
		}
	}

	withdrawn := sdk.NewCoins()
	for _, p := range release {
		withdrawn = withdrawn.Add(p.LpAsset)
	}

	cacheCtx, write := sdkCtx.CacheContext()
	for _, p := range release {
		k.deletePosition(cacheCtx, p)
	}
	if !withdrawn.IsZero() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(cacheCtx, types.ModuleName, owner, withdrawn); err != nil {
			return nil, nil, fmt.Errorf("WithdrawPosition: release lp tokens: %w", err)
		}
	}
	write()

	for _, p := range release {
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePositionWithdrawn,
				sdk.NewAttribute(types.AttributeKeyPosition, p.Identifier),
				sdk.NewAttribute(types.AttributeKeyOwner, p.Owner),
				sdk.NewAttribute(types.AttributeKeyAmount, p.LpAsset.String()),
			),
		)
	}
	return withdrawn, sdk.NewCoins(), nil
}

// EmergencyUnlock releases positions immediately, open or unbonding. The penalty share of each
// position goes to the reward sink (the bonding module); the rest returns to the owner.
// An empty identifier unlocks every position of the sender.
func (k Keeper) EmergencyUnlock(ctx context.Context, sender, identifier string) (sdk.Coins, sdk.Coins, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("EmergencyUnlock: get params: %w", err)
	}
	owner, err := sdk.AccAddressFromBech32(sender)
	if err != nil {
		return nil, nil, types.ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}

	var unlock []types.Position
	if identifier != "" {
		position, err := k.ownedPosition(ctx, sender, identifier)
		if err != nil {
			return nil, nil, err
		}
		unlock = append(unlock, position)
	} else {
		if unlock, err = k.GetPositionsByOwner(ctx, sender, false); err != nil {
			return nil, nil, fmt.Errorf("EmergencyUnlock: %w", err)
		}
		if len(unlock) == 0 {
			return nil, nil, types.ErrNoPositionFound.Wrap(sender)
		}
	}

	cacheCtx, write := sdkCtx.CacheContext()

	returned := sdk.NewCoins()
	penalties := sdk.NewCoins()
	for _, p := range unlock {
		penalty := math.LegacyNewDecFromInt(p.LpAsset.Amount).Mul(params.EmergencyUnlockPenalty).TruncateInt()
		if penalty.GTE(p.LpAsset.Amount) {
			return nil, nil, types.ErrInvalidEmergencyUnlockPenalty.Wrapf("penalty %s takes all of %s", penalty, p.LpAsset)
		}
		returned = returned.Add(sdk.NewCoin(p.LpAsset.Denom, p.LpAsset.Amount.Sub(penalty)))
		if penalty.IsPositive() {
			penalties = penalties.Add(sdk.NewCoin(p.LpAsset.Denom, penalty))
		}

		if p.Open {
			if err := k.stageWeightChange(cacheCtx, sender, p.LpAsset.Denom, p.Weight.Neg()); err != nil {
				return nil, nil, fmt.Errorf("EmergencyUnlock: %w", err)
			}
		}
		k.deletePosition(cacheCtx, p)
	}

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(cacheCtx, types.ModuleName, owner, returned); err != nil {
		return nil, nil, fmt.Errorf("EmergencyUnlock: release lp tokens: %w", err)
	}
	if !penalties.IsZero() {
		if k.rewardSink != nil {
			if err := k.rewardSink.FillRewardsFromModule(cacheCtx, types.ModuleName, penalties); err != nil {
				return nil, nil, fmt.Errorf("EmergencyUnlock: send penalty: %w", err)
			}
		} else {
			for _, c := range penalties {
				if err := k.accrueProtocolFee(cacheCtx, c); err != nil {
					return nil, nil, fmt.Errorf("EmergencyUnlock: %w", err)
				}
			}
		}
	}

	write()

	for _, p := range unlock {
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeEmergencyUnlock,
				sdk.NewAttribute(types.AttributeKeyPosition, p.Identifier),
				sdk.NewAttribute(types.AttributeKeyOwner, p.Owner),
				sdk.NewAttribute(types.AttributeKeyAmount, p.LpAsset.String()),
			),
		)
		k.metrics.EmergencyUnlocks.Inc()
	}
	k.Logger(ctx).Info("positions emergency unlocked",
		"owner", sender, "count", len(unlock), "returned", returned.String(), "penalty", penalties.String())
	return returned, penalties, nil
}

func (k Keeper) ownedPosition(ctx context.Context, owner, identifier string) (types.Position, error) {
	position, found, err := k.GetPosition(ctx, identifier)
	if err != nil {
		return types.Position{}, err
	}
	if !found {
		return types.Position{}, types.ErrNonExistentPosition.Wrap(identifier)
	}
	if position.Owner != owner {
		return types.Position{}, types.ErrUnauthorized.Wrapf("%s does not own position %s", owner, identifier)
	}
	return position, nil
}
