package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/vault/types"
)

// RegisterInvariants registers all vault module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "vault-balance", VaultBalanceInvariant(k))
	ir.RegisterRoute(types.ModuleName, "no-ongoing-flash-loan", NoOngoingFlashLoanInvariant(k))
}

// AllInvariants runs all invariants of the vault module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		for _, inv := range []sdk.Invariant{VaultBalanceInvariant(k), NoOngoingFlashLoanInvariant(k)} {
			if res, stop := inv(ctx); stop {
				return res, stop
			}
		}
		return "", false
	}
}

// VaultBalanceInvariant checks the module account covers every vault asset plus the
// accrued protocol fees.
func VaultBalanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		vaults, err := k.GetVaults(ctx, "", 0)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "vault-balance", err.Error()), true
		}
		fees, err := k.GetProtocolFees(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "vault-balance", err.Error()), true
		}

		required := fees
		for _, v := range vaults {
			required = required.Add(v.Asset)
		}
		balance := k.bankKeeper.GetAllBalances(ctx, k.GetModuleAddress())

		var msg string
		broken := false
		for _, c := range required {
			if balance.AmountOf(c.Denom).LT(c.Amount) {
				broken = true
				msg += fmt.Sprintf("\t%s: balance %s < required %s\n", c.Denom, balance.AmountOf(c.Denom), c.Amount)
			}
		}
		return sdk.FormatInvariant(types.ModuleName, "vault-balance", msg), broken
	}
}

// NoOngoingFlashLoanInvariant checks no flash loan flag survived a committed transaction
func NoOngoingFlashLoanInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		broken := k.flashLoanOngoing(ctx)
		return sdk.FormatInvariant(types.ModuleName, "no-ongoing-flash-loan", fmt.Sprintf("ongoing: %t", broken)), broken
	}
}
