package keeper

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/paw-chain/liquidityhub/x/feecollector/types"
)

// Keeper of the fee collector store
type Keeper struct {
	storeKey   storetypes.StoreKey
	authority  string
	bankKeeper types.BankKeeper
	rewardSink types.RewardSink
	sources    []types.FeeSource
	metrics    *FeeCollectorMetrics
}

// NewKeeper creates a new fee collector Keeper instance
func NewKeeper(key storetypes.StoreKey, authority string, bankKeeper types.BankKeeper, rewardSink types.RewardSink) *Keeper {
	return &Keeper{
		storeKey:   key,
		authority:  authority,
		bankKeeper: bankKeeper,
		rewardSink: rewardSink,
		metrics:    NewFeeCollectorMetrics(),
	}
}

// RegisterFeeSource adds a module to the sources swept by CollectFees. Sources are kept
// sorted by name. Registering a name twice panics: it is a wiring bug.
func (k *Keeper) RegisterFeeSource(source types.FeeSource) *Keeper {
	name := source.FeeSourceName()
	idx, found := slices.BinarySearchFunc(k.sources, name, func(s types.FeeSource, n string) int {
		return strings.Compare(s.FeeSourceName(), n)
	})
	if found {
		panic(fmt.Sprintf("fee source %s registered twice", name))
	}
	k.sources = slices.Insert(k.sources, idx, source)
	return k
}

// FeeSourceNames returns the registered source names in order
func (k Keeper) FeeSourceNames() []string {
	names := make([]string, 0, len(k.sources))
	for _, s := range k.sources {
		names = append(names, s.FeeSourceName())
	}
	return names
}

func (k Keeper) feeSource(name string) (types.FeeSource, error) {
	for _, s := range k.sources {
		if s.FeeSourceName() == name {
			return s, nil
		}
	}
	return nil, types.ErrUnknownFeeSource.Wrap(name)
}

// GetAuthority returns the module authority
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// GetModuleAddress returns the treasury address
func (k Keeper) GetModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
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

// GetTreasury returns the balance held by the fee collector
func (k Keeper) GetTreasury(ctx context.Context) sdk.Coins {
	return k.bankKeeper.GetAllBalances(ctx, k.GetModuleAddress())
}

// GetCollected returns the lifetime amount collected from a source
func (k Keeper) GetCollected(ctx context.Context, source string) (sdk.Coins, error) {
	bz := k.getStore(ctx).Get(types.GetCollectedKey(source))
	if bz == nil {
		return sdk.NewCoins(), nil
	}
	var coins sdk.Coins
	if err := json.Unmarshal(bz, &coins); err != nil {
		return nil, types.ErrInvalidState.Wrapf("failed to unmarshal collected for %s: %v", source, err)
	}
	return coins, nil
}

func (k Keeper) setCollected(ctx context.Context, source string, coins sdk.Coins) error {
	bz, err := json.Marshal(coins)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal collected for %s: %v", source, err)
	}
	k.getStore(ctx).Set(types.GetCollectedKey(source), bz)
	return nil
}

// GetAllCollected returns the lifetime totals of every known source
func (k Keeper) GetAllCollected(ctx context.Context) ([]types.SourceTotal, error) {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.CollectedKeyPrefix)
	defer iter.Close()

	var out []types.SourceTotal
	for ; iter.Valid(); iter.Next() {
		var coins sdk.Coins
		if err := json.Unmarshal(iter.Value(), &coins); err != nil {
			return nil, types.ErrInvalidState.Wrapf("failed to unmarshal collected: %v", err)
		}
		source := string(iter.Key()[len(types.CollectedKeyPrefix):])
		out = append(out, types.SourceTotal{Source: source, Collected: coins})
	}
	return out, nil
}
