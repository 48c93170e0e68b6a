package keeper

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/vault/types"
)

// GetVault returns a vault by identifier
func (k Keeper) GetVault(ctx context.Context, identifier string) (types.Vault, error) {
	bz := k.getStore(ctx).Get(types.GetVaultKey(identifier))
	if bz == nil {
		return types.Vault{}, types.ErrNonExistentVault.Wrap(identifier)
	}

	var vault types.Vault
	if err := json.Unmarshal(bz, &vault); err != nil {
		return types.Vault{}, types.ErrInvalidState.Wrapf("failed to unmarshal vault %s: %v", identifier, err)
	}
	return vault, nil
}

// GetVaultByLpDenom returns the vault minting lpDenom
func (k Keeper) GetVaultByLpDenom(ctx context.Context, lpDenom string) (types.Vault, error) {
	bz := k.getStore(ctx).Get(types.GetVaultLpDenomKey(lpDenom))
	if bz == nil {
		return types.Vault{}, types.ErrNonExistentVault.Wrapf("lp denom %s", lpDenom)
	}
	return k.GetVault(ctx, string(bz))
}

// SetVault stores a vault and its lp denom index
func (k Keeper) SetVault(ctx context.Context, vault types.Vault) error {
	bz, err := json.Marshal(vault)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal vault %s: %v", vault.Identifier, err)
	}
	store := k.getStore(ctx)
	store.Set(types.GetVaultKey(vault.Identifier), bz)
	store.Set(types.GetVaultLpDenomKey(vault.LpDenom), []byte(vault.Identifier))
	return nil
}

// GetVaults returns up to limit vaults after startAfter in identifier order. A zero limit returns all.
func (k Keeper) GetVaults(ctx context.Context, startAfter string, limit uint32) ([]types.Vault, error) {
	store := k.getStore(ctx)
	start := types.VaultKeyPrefix
	if startAfter != "" {
		start = append(types.GetVaultKey(startAfter), 0x00)
	}
	iterator := store.Iterator(start, storetypes.PrefixEndBytes(types.VaultKeyPrefix))
	defer iterator.Close()

	var vaults []types.Vault
	for ; iterator.Valid(); iterator.Next() {
		var vault types.Vault
		if err := json.Unmarshal(iterator.Value(), &vault); err != nil {
			return nil, types.ErrInvalidState.Wrapf("failed to unmarshal vault: %v", err)
		}
		vaults = append(vaults, vault)
		if limit > 0 && uint32(len(vaults)) >= limit {
			break
		}
	}
	return vaults, nil
}

// CreateVault creates a vault for an asset. The creation fee accrues to the protocol fee ledger.
func (k Keeper) CreateVault(ctx context.Context, msg *types.MsgCreateVault) (types.Vault, error) {
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return types.Vault{}, types.ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Vault{}, fmt.Errorf("CreateVault: %w", err)
	}
	fee := params.VaultCreationFee
	if paid := msg.Funds.AmountOf(fee.Denom); paid.LT(fee.Amount) {
		return types.Vault{}, types.ErrInvalidVaultCreationFee.Wrapf("received %s%s, expected %s", paid, fee.Denom, fee)
	}
	if err := msg.Fees.Validate(); err != nil {
		return types.Vault{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, write := sdkCtx.CacheContext()

	counter := k.GetVaultCounter(cacheCtx)
	identifier := msg.Identifier
	if identifier == "" {
		identifier = strconv.FormatUint(counter, 10)
	}
	if err := types.ValidateIdentifier(identifier); err != nil {
		return types.Vault{}, err
	}
	if k.getStore(cacheCtx).Has(types.GetVaultKey(identifier)) {
		return types.Vault{}, types.ErrExistingVault.Wrapf("asset %s identifier %s", msg.AssetDenom, identifier)
	}

	if fee.IsPositive() {
		if err := k.bankKeeper.SendCoinsFromAccountToModule(cacheCtx, sender, types.ModuleName, sdk.NewCoins(fee)); err != nil {
			return types.Vault{}, fmt.Errorf("CreateVault: creation fee: %w", err)
		}
		if err := k.accrueProtocolFee(cacheCtx, fee); err != nil {
			return types.Vault{}, fmt.Errorf("CreateVault: %w", err)
		}
	}

	vault := types.Vault{
		Identifier: identifier,
		Asset:      sdk.NewCoin(msg.AssetDenom, math.ZeroInt()),
		LpDenom:    types.LpDenomFor(identifier),
		Fees:       msg.Fees,
		Creator:    msg.Sender,
	}
	if err := k.SetVault(cacheCtx, vault); err != nil {
		return types.Vault{}, fmt.Errorf("CreateVault: %w", err)
	}
	k.setVaultCounter(cacheCtx, counter+1)
	write()

	k.metrics.VaultsCreated.Inc()
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCreateVault,
			sdk.NewAttribute(types.AttributeKeyIdentifier, identifier),
			sdk.NewAttribute(types.AttributeKeyAsset, msg.AssetDenom),
			sdk.NewAttribute(types.AttributeKeyLpDenom, vault.LpDenom),
		),
	)
	return vault, nil
}

// Deposit adds an asset to a vault and mints shares for the sender.
func (k Keeper) Deposit(ctx context.Context, senderAddr, identifier string, amount sdk.Coin) (sdk.Coin, error) {
	sender, err := sdk.AccAddressFromBech32(senderAddr)
	if err != nil {
		return sdk.Coin{}, types.ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return sdk.Coin{}, fmt.Errorf("Deposit: %w", err)
	}
	if !params.DepositEnabled {
		return sdk.Coin{}, types.ErrDepositsDisabled
	}
	if k.flashLoanOngoing(ctx) {
		return sdk.Coin{}, types.ErrFlashLoanOngoing
	}
	if !amount.IsPositive() {
		return sdk.Coin{}, types.ErrInvalidAmount.Wrapf("deposit %s", amount)
	}

	vault, err := k.GetVault(ctx, identifier)
	if err != nil {
		return sdk.Coin{}, err
	}
	if vault.Asset.Denom != amount.Denom {
		return sdk.Coin{}, types.ErrAssetMismatch.Wrapf("expected %s, got %s", vault.Asset.Denom, amount.Denom)
	}

	supply := k.bankKeeper.GetSupply(ctx, vault.LpDenom).Amount
	shares, locked, err := types.SharesFor(amount.Amount, vault.Asset.Amount, supply)
	if err != nil {
		return sdk.Coin{}, err
	}
	if !shares.IsPositive() {
		return sdk.Coin{}, types.ErrInvalidAmount.Wrapf("deposit %s mints no shares", amount)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, write := sdkCtx.CacheContext()

	if err := k.bankKeeper.SendCoinsFromAccountToModule(cacheCtx, sender, types.ModuleName, sdk.NewCoins(amount)); err != nil {
		return sdk.Coin{}, fmt.Errorf("Deposit: transfer: %w", err)
	}
	minted := sdk.NewCoin(vault.LpDenom, shares.Add(locked))
	if err := k.bankKeeper.MintCoins(cacheCtx, types.ModuleName, sdk.NewCoins(minted)); err != nil {
		return sdk.Coin{}, fmt.Errorf("Deposit: mint: %w", err)
	}
	sharesCoin := sdk.NewCoin(vault.LpDenom, shares)
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(cacheCtx, types.ModuleName, sender, sdk.NewCoins(sharesCoin)); err != nil {
		return sdk.Coin{}, fmt.Errorf("Deposit: send shares: %w", err)
	}

	vault.Asset = vault.Asset.Add(amount)
	if err := k.SetVault(cacheCtx, vault); err != nil {
		return sdk.Coin{}, fmt.Errorf("Deposit: %w", err)
	}
	write()

	k.metrics.Deposits.WithLabelValues(vault.Identifier).Inc()
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposit,
			sdk.NewAttribute(types.AttributeKeyIdentifier, vault.Identifier),
			sdk.NewAttribute(types.AttributeKeyAddress, senderAddr),
			sdk.NewAttribute(types.AttributeKeyAsset, amount.String()),
			sdk.NewAttribute(types.AttributeKeyShares, sharesCoin.String()),
		),
	)
	return sharesCoin, nil
}

// Withdraw burns shares and returns their portion of the vault asset.
func (k Keeper) Withdraw(ctx context.Context, senderAddr string, shares sdk.Coin) (sdk.Coin, error) {
	sender, err := sdk.AccAddressFromBech32(senderAddr)
	if err != nil {
		return sdk.Coin{}, types.ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return sdk.Coin{}, fmt.Errorf("Withdraw: %w", err)
	}
	if !params.WithdrawEnabled {
		return sdk.Coin{}, types.ErrWithdrawalsDisabled
	}
	if k.flashLoanOngoing(ctx) {
		return sdk.Coin{}, types.ErrFlashLoanOngoing
	}
	if !shares.IsPositive() {
		return sdk.Coin{}, types.ErrInvalidAmount.Wrapf("shares %s", shares)
	}

	vault, err := k.GetVaultByLpDenom(ctx, shares.Denom)
	if err != nil {
		return sdk.Coin{}, err
	}

	supply := k.bankKeeper.GetSupply(ctx, vault.LpDenom).Amount
	amount := types.AssetsFor(shares.Amount, vault.Asset.Amount, supply)
	if amount.GT(vault.Asset.Amount) {
		return sdk.Coin{}, types.ErrInsufficientAssetBalance.Wrapf("balance %s, requested %s", vault.Asset.Amount, amount)
	}
	if !amount.IsPositive() {
		return sdk.Coin{}, types.ErrInvalidAmount.Wrapf("shares %s redeem nothing", shares)
	}
	withdrawn := sdk.NewCoin(vault.Asset.Denom, amount)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, write := sdkCtx.CacheContext()

	if err := k.bankKeeper.SendCoinsFromAccountToModule(cacheCtx, sender, types.ModuleName, sdk.NewCoins(shares)); err != nil {
		return sdk.Coin{}, fmt.Errorf("Withdraw: transfer shares: %w", err)
	}
	if err := k.bankKeeper.BurnCoins(cacheCtx, types.ModuleName, sdk.NewCoins(shares)); err != nil {
		return sdk.Coin{}, fmt.Errorf("Withdraw: burn: %w", err)
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(cacheCtx, types.ModuleName, sender, sdk.NewCoins(withdrawn)); err != nil {
		return sdk.Coin{}, fmt.Errorf("Withdraw: transfer: %w", err)
	}

	vault.Asset = vault.Asset.Sub(withdrawn)
	if err := k.SetVault(cacheCtx, vault); err != nil {
		return sdk.Coin{}, fmt.Errorf("Withdraw: %w", err)
	}
	write()

	k.metrics.Withdrawals.WithLabelValues(vault.Identifier).Inc()
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdraw,
			sdk.NewAttribute(types.AttributeKeyIdentifier, vault.Identifier),
			sdk.NewAttribute(types.AttributeKeyAddress, senderAddr),
			sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, withdrawn.String()),
		),
	)
	return withdrawn, nil
}

// Share returns the vault assets redeemed by a share amount
func (k Keeper) Share(ctx context.Context, shares sdk.Coin) (sdk.Coin, error) {
	vault, err := k.GetVaultByLpDenom(ctx, shares.Denom)
	if err != nil {
		return sdk.Coin{}, err
	}
	supply := k.bankKeeper.GetSupply(ctx, vault.LpDenom).Amount
	return sdk.NewCoin(vault.Asset.Denom, types.AssetsFor(shares.Amount, vault.Asset.Amount, supply)), nil
}
