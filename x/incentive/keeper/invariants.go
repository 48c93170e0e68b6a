package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/incentive/types"
)

// RegisterInvariants registers all incentive invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "flow-claims", FlowClaimsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "flow-schedule", FlowScheduleInvariant(k))
	ir.RegisterRoute(types.ModuleName, "module-account-balance", ModuleAccountBalanceInvariant(k))
}

// AllInvariants runs all invariants of the incentive module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := FlowClaimsInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = FlowScheduleInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return ModuleAccountBalanceInvariant(k)(ctx)
	}
}

// FlowClaimsInvariant checks no flow paid out more than its asset
func FlowClaimsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		flows, err := k.GetAllFlows(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "flow-claims", err.Error()), true
		}
		for _, flow := range flows {
			if flow.ClaimedAmount.IsNegative() || flow.ClaimedAmount.GT(flow.Asset.Amount) {
				count++
				msg += fmt.Sprintf("flow %d: claimed %s of %s\n", flow.ID, flow.ClaimedAmount, flow.Asset.Amount)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "flow-claims",
			fmt.Sprintf("found %d flows with excess claims\n%s", count, msg),
		), broken
	}
}

// FlowScheduleInvariant checks every flow emits exactly its asset over its life
func FlowScheduleInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		flows, err := k.GetAllFlows(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "flow-schedule", err.Error()), true
		}
		for _, flow := range flows {
			if total := flow.ScheduledTotal(); !total.Equal(flow.Asset.Amount) {
				count++
				msg += fmt.Sprintf("flow %d: schedules %s of %s\n", flow.ID, total, flow.Asset.Amount)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "flow-schedule",
			fmt.Sprintf("found %d flows with a broken schedule\n%s", count, msg),
		), broken
	}
}

// ModuleAccountBalanceInvariant checks the module account holds the unclaimed flow assets,
// the locked LP tokens and the accrued protocol fees
func ModuleAccountBalanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		owed := sdk.NewCoins()

		flows, err := k.GetAllFlows(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "module-account-balance", err.Error()), true
		}
		for _, flow := range flows {
			owed = owed.Add(sdk.NewCoin(flow.Asset.Denom, flow.Remaining()))
		}

		positions, err := k.GetAllPositions(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "module-account-balance", err.Error()), true
		}
		for _, p := range positions {
			owed = owed.Add(p.LpAsset)
		}

		fees, err := k.GetProtocolFees(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "module-account-balance", err.Error()), true
		}
		owed = owed.Add(fees...)

		var (
			msg   string
			count int
		)
		moduleAddr := k.GetModuleAddress()
		for _, c := range owed {
			balance := k.bankKeeper.GetBalance(ctx, moduleAddr, c.Denom)
			if balance.Amount.LT(c.Amount) {
				count++
				msg += fmt.Sprintf("%s: module balance %s < owed %s\n", c.Denom, balance.Amount, c.Amount)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "module-account-balance",
			fmt.Sprintf("found %d under-collateralized denoms\n%s", count, msg),
		), broken
	}
}
