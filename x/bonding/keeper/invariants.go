package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/bonding/types"
)

// RegisterInvariants registers all bonding invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "bucket-balance", BucketBalanceInvariant(k))
	ir.RegisterRoute(types.ModuleName, "global-index", GlobalIndexInvariant(k))
}

// AllInvariants runs all invariants of the bonding module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := BucketBalanceInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return GlobalIndexInvariant(k)(ctx)
	}
}

// BucketBalanceInvariant checks available + claimed == total for every bucket
func BucketBalanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		buckets, err := k.GetBuckets(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "bucket-balance", err.Error()), true
		}
		for _, b := range buckets {
			if err := b.Validate(); err != nil {
				count++
				msg += err.Error() + "\n"
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "bucket-balance",
			fmt.Sprintf("found %d unbalanced buckets\n%s", count, msg),
		), broken
	}
}

// GlobalIndexInvariant checks the global index bonded assets equal the sum of the bonds
func GlobalIndexInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		bonds, err := k.GetAllBonds(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "global-index", err.Error()), true
		}
		index, err := k.GetGlobalIndex(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "global-index", err.Error()), true
		}

		sum := sdk.NewCoins()
		for _, b := range bonds {
			sum = sum.Add(b.Asset)
		}

		broken := !sum.Equal(index.BondedAssets)
		return sdk.FormatInvariant(
			types.ModuleName, "global-index",
			fmt.Sprintf("bonds sum to %s, global index holds %s", sum, index.BondedAssets),
		), broken
	}
}
