package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/epochs/types"
	sharedkeeper "github.com/paw-chain/liquidityhub/x/shared/keeper"
)

// IsHookRegistered reports whether a hook with the given name was wired in
func (k Keeper) IsHookRegistered(name string) bool {
	for _, h := range k.hooks {
		if h.name == name {
			return true
		}
	}
	return false
}

// RegisteredHooks returns the names of all wired hooks in notification order
func (k Keeper) RegisteredHooks() []string {
	names := make([]string, 0, len(k.hooks))
	for _, h := range k.hooks {
		names = append(names, h.name)
	}
	return names
}

// IsHookEnabled reports whether the hook is notified on epoch changes
func (k Keeper) IsHookEnabled(ctx context.Context, name string) bool {
	return k.getStore(ctx).Has(types.GetHookKey(name))
}

// EnabledHooks returns the enabled hook names in key order
func (k Keeper) EnabledHooks(ctx context.Context) []string {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.HookKeyPrefix)
	defer iterator.Close()

	var names []string
	for ; iterator.Valid(); iterator.Next() {
		names = append(names, string(iterator.Key()[len(types.HookKeyPrefix):]))
	}
	return names
}

// AddHook enables a registered hook. Only the authority may manage hooks.
func (k Keeper) AddHook(ctx context.Context, authority, name string) error {
	if err := sharedkeeper.ValidateAuthority(k.authority, authority); err != nil {
		return err
	}
	return k.enableHook(ctx, name)
}

func (k Keeper) enableHook(ctx context.Context, name string) error {
	if !k.IsHookRegistered(name) {
		return types.ErrUnknownHook.Wrap(name)
	}
	if k.IsHookEnabled(ctx, name) {
		return types.ErrHookAlreadyExists.Wrap(name)
	}

	k.getStore(ctx).Set(types.GetHookKey(name), []byte{1})
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventTypeHookAdded, sdk.NewAttribute(types.AttributeKeyHook, name)),
	)
	return nil
}

// RemoveHook disables a hook. Only the authority may manage hooks.
func (k Keeper) RemoveHook(ctx context.Context, authority, name string) error {
	if err := sharedkeeper.ValidateAuthority(k.authority, authority); err != nil {
		return err
	}
	if !k.IsHookEnabled(ctx, name) {
		return types.ErrHookNotFound.Wrap(name)
	}

	k.getStore(ctx).Delete(types.GetHookKey(name))
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventTypeHookRemoved, sdk.NewAttribute(types.AttributeKeyHook, name)),
	)
	return nil
}
