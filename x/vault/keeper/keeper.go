package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/paw-chain/liquidityhub/x/vault/types"
)

// Keeper of the vault store
type Keeper struct {
	storeKey   storetypes.StoreKey
	authority  string
	bankKeeper types.BankKeeper
	metrics    *VaultMetrics
}

// NewKeeper creates a new vault Keeper instance
func NewKeeper(key storetypes.StoreKey, authority string, bankKeeper types.BankKeeper) *Keeper {
	return &Keeper{
		storeKey:   key,
		authority:  authority,
		bankKeeper: bankKeeper,
		metrics:    NewVaultMetrics(),
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

// GetModuleAddress returns the vault module account address
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

// GetVaultCounter returns the counter used for generated vault identifiers
func (k Keeper) GetVaultCounter(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.VaultCounterKey)
	if bz == nil {
		return 1
	}
	return sdk.BigEndianToUint64(bz)
}

func (k Keeper) setVaultCounter(ctx context.Context, counter uint64) {
	k.getStore(ctx).Set(types.VaultCounterKey, sdk.Uint64ToBigEndian(counter))
}

// flashLoanOngoing reports whether a flash loan payload is executing
func (k Keeper) flashLoanOngoing(ctx context.Context) bool {
	return k.getStore(ctx).Has(types.OngoingFlashLoanKey)
}

func (k Keeper) setFlashLoanOngoing(ctx context.Context, ongoing bool) {
	if ongoing {
		k.getStore(ctx).Set(types.OngoingFlashLoanKey, []byte{1})
		return
	}
	k.getStore(ctx).Delete(types.OngoingFlashLoanKey)
}
