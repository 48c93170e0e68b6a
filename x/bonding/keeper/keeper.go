package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/paw-chain/liquidityhub/x/bonding/types"
)

// Keeper of the bonding store
type Keeper struct {
	storeKey    storetypes.StoreKey
	authority   string
	bankKeeper  types.BankKeeper
	epochKeeper types.EpochKeeper
	metrics     *BondingMetrics
}

// NewKeeper creates a new bonding Keeper instance
func NewKeeper(key storetypes.StoreKey, authority string, bankKeeper types.BankKeeper, epochKeeper types.EpochKeeper) *Keeper {
	return &Keeper{
		storeKey:    key,
		authority:   authority,
		bankKeeper:  bankKeeper,
		epochKeeper: epochKeeper,
		metrics:     NewBondingMetrics(),
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

// GetModuleAddress returns the bonding module account address
func (k Keeper) GetModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

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

// getJSON decodes the value under key into out and reports whether it was found
func (k Keeper) getJSON(ctx context.Context, key []byte, out any) (bool, error) {
	bz := k.getStore(ctx).Get(key)
	if bz == nil {
		return false, nil
	}
	if err := json.Unmarshal(bz, out); err != nil {
		return false, types.ErrInvalidState.Wrapf("failed to unmarshal %x: %v", key, err)
	}
	return true, nil
}

func (k Keeper) setJSON(ctx context.Context, key []byte, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal %x: %v", key, err)
	}
	k.getStore(ctx).Set(key, bz)
	return nil
}

// GetGlobalIndex returns the stored global index
func (k Keeper) GetGlobalIndex(ctx context.Context) (types.GlobalIndex, error) {
	index := types.NewGlobalIndex()
	if _, err := k.getJSON(ctx, types.GlobalIndexKey, &index); err != nil {
		return types.GlobalIndex{}, err
	}
	return index, nil
}

// SetGlobalIndex stores the global index
func (k Keeper) SetGlobalIndex(ctx context.Context, index types.GlobalIndex) error {
	return k.setJSON(ctx, types.GlobalIndexKey, index)
}

// GetUpcomingRewards returns the rewards waiting for the next bucket
func (k Keeper) GetUpcomingRewards(ctx context.Context) (sdk.Coins, error) {
	rewards := sdk.NewCoins()
	if _, err := k.getJSON(ctx, types.UpcomingRewardsKey, &rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}

func (k Keeper) setUpcomingRewards(ctx context.Context, rewards sdk.Coins) error {
	return k.setJSON(ctx, types.UpcomingRewardsKey, rewards)
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
