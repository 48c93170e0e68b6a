package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/paw-chain/liquidityhub/x/incentive/types"
)

// Keeper of the incentive store
type Keeper struct {
	storeKey    storetypes.StoreKey
	authority   string
	bankKeeper  types.BankKeeper
	epochKeeper types.EpochKeeper
	rewardSink  types.RewardSink
	metrics     *IncentiveMetrics
}

// NewKeeper creates a new incentive Keeper instance. rewardSink receives emergency unlock
// penalties; when nil the penalties accrue as protocol fees.
func NewKeeper(
	key storetypes.StoreKey,
	authority string,
	bankKeeper types.BankKeeper,
	epochKeeper types.EpochKeeper,
	rewardSink types.RewardSink,
) *Keeper {
	return &Keeper{
		storeKey:    key,
		authority:   authority,
		bankKeeper:  bankKeeper,
		epochKeeper: epochKeeper,
		rewardSink:  rewardSink,
		metrics:     NewIncentiveMetrics(),
	}
}

// GetAuthority returns the module authority
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// GetModuleAddress returns the incentive module account address
func (k Keeper) GetModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

// currentEpochID returns the id of the epoch in progress
func (k Keeper) currentEpochID(ctx context.Context) (uint64, error) {
	epoch, err := k.epochKeeper.GetCurrentEpoch(ctx)
	if err != nil {
		return 0, err
	}
	return epoch.ID, nil
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

// isAuthority reports whether addr is the module authority
func (k Keeper) isAuthority(addr string) bool {
	return k.authority != "" && addr == k.authority
}
