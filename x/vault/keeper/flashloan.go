package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/vault/types"
)

// FlashLoanPayload runs with the borrowed funds in the borrower account. It must leave the
// borrower able to repay the loan plus fees.
type FlashLoanPayload func(ctx sdk.Context, loan sdk.Coin) error

// FlashLoanResult describes a settled flash loan
type FlashLoanResult struct {
	Loan         sdk.Coin
	ProtocolFee  sdk.Coin
	FlashLoanFee sdk.Coin
}

// Repayment is the amount pulled back from the borrower
func (r FlashLoanResult) Repayment() sdk.Coin {
	return r.Loan.Add(r.ProtocolFee).Add(r.FlashLoanFee)
}

// PaybackAmount returns the fees and total owed for borrowing asset from a vault
func (k Keeper) PaybackAmount(ctx context.Context, identifier string, asset sdk.Coin) (FlashLoanResult, error) {
	vault, err := k.GetVault(ctx, identifier)
	if err != nil {
		return FlashLoanResult{}, err
	}
	if vault.Asset.Denom != asset.Denom {
		return FlashLoanResult{}, types.ErrAssetMismatch.Wrapf("expected %s, got %s", vault.Asset.Denom, asset.Denom)
	}
	protocolFee, flashLoanFee := vault.Fees.Compute(asset.Amount)
	return FlashLoanResult{
		Loan:         asset,
		ProtocolFee:  sdk.NewCoin(asset.Denom, protocolFee),
		FlashLoanFee: sdk.NewCoin(asset.Denom, flashLoanFee),
	}, nil
}

// FlashLoan lends asset from a vault to borrower for the duration of payload. After the
// payload the loan plus fees are pulled back from the borrower. Nothing is committed unless
// repayment succeeds and no vault balance decreased.
func (k Keeper) FlashLoan(ctx context.Context, borrowerAddr, identifier string, asset sdk.Coin, payload FlashLoanPayload) (FlashLoanResult, error) {
	borrower, err := sdk.AccAddressFromBech32(borrowerAddr)
	if err != nil {
		return FlashLoanResult{}, types.ErrUnauthorized.Wrapf("invalid borrower: %v", err)
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return FlashLoanResult{}, fmt.Errorf("FlashLoan: %w", err)
	}
	if !params.FlashLoanEnabled {
		return FlashLoanResult{}, types.ErrFlashLoansDisabled
	}
	if k.flashLoanOngoing(ctx) {
		return FlashLoanResult{}, types.ErrFlashLoanOngoing
	}
	if !asset.IsPositive() {
		return FlashLoanResult{}, types.ErrInvalidAmount.Wrapf("loan %s", asset)
	}

	result, err := k.PaybackAmount(ctx, identifier, asset)
	if err != nil {
		return FlashLoanResult{}, err
	}
	vault, err := k.GetVault(ctx, identifier)
	if err != nil {
		return FlashLoanResult{}, err
	}
	if asset.Amount.GT(vault.Asset.Amount) {
		return FlashLoanResult{}, types.ErrInsufficientAssetBalance.Wrapf("balance %s, requested %s", vault.Asset.Amount, asset.Amount)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, write := sdkCtx.CacheContext()

	moduleAddr := k.GetModuleAddress()
	before := k.bankKeeper.GetAllBalances(cacheCtx, moduleAddr)

	k.setFlashLoanOngoing(cacheCtx, true)
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(cacheCtx, types.ModuleName, borrower, sdk.NewCoins(asset)); err != nil {
		return FlashLoanResult{}, fmt.Errorf("FlashLoan: lend: %w", err)
	}
	if payload != nil {
		if err := payload(cacheCtx, asset); err != nil {
			return FlashLoanResult{}, fmt.Errorf("FlashLoan: payload: %w", err)
		}
	}

	repayment := result.Repayment()
	if balance := k.bankKeeper.GetBalance(cacheCtx, borrower, asset.Denom); balance.Amount.LT(repayment.Amount) {
		return FlashLoanResult{}, types.ErrFlashLoanNotRepaid.Wrapf("owed %s, borrower holds %s", repayment, balance)
	}
	if err := k.bankKeeper.SendCoinsFromAccountToModule(cacheCtx, borrower, types.ModuleName, sdk.NewCoins(repayment)); err != nil {
		return FlashLoanResult{}, fmt.Errorf("%w: %v", types.ErrFlashLoanNotRepaid, err)
	}

	after := k.bankKeeper.GetAllBalances(cacheCtx, moduleAddr)
	for _, c := range before {
		if after.AmountOf(c.Denom).LT(c.Amount) {
			return FlashLoanResult{}, types.ErrFlashLoanLoss.Wrapf("%s dropped from %s to %s", c.Denom, c.Amount, after.AmountOf(c.Denom))
		}
	}

	vault, err = k.GetVault(cacheCtx, identifier)
	if err != nil {
		return FlashLoanResult{}, err
	}
	vault.Asset = vault.Asset.Add(result.FlashLoanFee)
	if err := k.SetVault(cacheCtx, vault); err != nil {
		return FlashLoanResult{}, fmt.Errorf("FlashLoan: %w", err)
	}
	if result.ProtocolFee.IsPositive() {
		if err := k.accrueProtocolFee(cacheCtx, result.ProtocolFee); err != nil {
			return FlashLoanResult{}, fmt.Errorf("FlashLoan: %w", err)
		}
	}
	k.setFlashLoanOngoing(cacheCtx, false)
	write()

	k.metrics.FlashLoans.WithLabelValues(identifier).Inc()
	k.metrics.FlashLoanVolume.WithLabelValues(asset.Denom).Add(toFloat64(asset.Amount))
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFlashLoan,
			sdk.NewAttribute(types.AttributeKeyIdentifier, identifier),
			sdk.NewAttribute(types.AttributeKeyAddress, borrowerAddr),
			sdk.NewAttribute(types.AttributeKeyAsset, asset.String()),
			sdk.NewAttribute(types.AttributeKeyProtocolFee, result.ProtocolFee.String()),
			sdk.NewAttribute(types.AttributeKeyFlashLoanFee, result.FlashLoanFee.String()),
		),
	)
	return result, nil
}

func toFloat64(amount math.Int) float64 {
	f, err := amount.ToLegacyDec().Float64()
	if err != nil {
		return 0
	}
	return f
}
