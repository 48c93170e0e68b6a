package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/epochs/types"
)

type registeredHook struct {
	name  string
	hooks types.EpochHooks
}

// Keeper of the epochs store
type Keeper struct {
	storeKey  storetypes.StoreKey
	authority string
	hooks     []registeredHook
	metrics   *EpochMetrics
}

// NewKeeper creates a new epochs Keeper instance
func NewKeeper(key storetypes.StoreKey, authority string) *Keeper {
	return &Keeper{
		storeKey:  key,
		authority: authority,
		metrics:   NewEpochMetrics(),
	}
}

// RegisterHook makes a hook known to the keeper. Registered hooks are only notified once
// enabled through genesis or AddHook. Registering a name twice panics: it is a wiring bug.
func (k *Keeper) RegisterHook(name string, hooks types.EpochHooks) *Keeper {
	for _, h := range k.hooks {
		if h.name == name {
			panic(fmt.Sprintf("epoch hook %s registered twice", name))
		}
	}
	k.hooks = append(k.hooks, registeredHook{name: name, hooks: hooks})
	return k
}

// GetAuthority returns the module authority
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// getStore returns the KVStore for the epochs module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// GetParams returns the module params
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	bz := k.getStore(ctx).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams(), nil
	}

	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.Params{}, types.ErrInvalidState.Wrapf("failed to unmarshal params: %v", err)
	}
	return params, nil
}

// SetParams validates and stores the module params
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}

	bz, err := json.Marshal(params)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal params: %v", err)
	}
	k.getStore(ctx).Set(types.ParamsKey, bz)
	return nil
}
