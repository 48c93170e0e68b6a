package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/paw-chain/liquidityhub/x/vault/types"
)

func TestFeesValidate(t *testing.T) {
	dec := math.LegacyMustNewDecFromStr
	tests := []struct {
		name    string
		fees    types.Fees
		wantErr bool
	}{
		{name: "zero fees", fees: types.Fees{ProtocolFee: math.LegacyZeroDec(), FlashLoanFee: math.LegacyZeroDec()}},
		{name: "typical", fees: types.Fees{ProtocolFee: dec("0.001"), FlashLoanFee: dec("0.002")}},
		{name: "unset", fees: types.Fees{}, wantErr: true},
		{name: "negative", fees: types.Fees{ProtocolFee: dec("-0.1"), FlashLoanFee: math.LegacyZeroDec()}, wantErr: true},
		{name: "protocol fee of one", fees: types.Fees{ProtocolFee: math.LegacyOneDec(), FlashLoanFee: math.LegacyZeroDec()}, wantErr: true},
		{name: "sum of one", fees: types.Fees{ProtocolFee: dec("0.5"), FlashLoanFee: dec("0.5")}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fees.Validate()
			if tc.wantErr {
				require.ErrorIs(t, err, types.ErrInvalidFees)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestFeesCompute(t *testing.T) {
	fees := types.Fees{ProtocolFee: math.LegacyMustNewDecFromStr("0.01"), FlashLoanFee: math.LegacyMustNewDecFromStr("0.025")}
	protocol, flash := fees.Compute(math.NewInt(1_999))
	require.Equal(t, math.NewInt(19), protocol)
	require.Equal(t, math.NewInt(49), flash)
}

func TestSharesForFirstDeposit(t *testing.T) {
	_, _, err := types.SharesFor(types.MinimumLiquidityAmount, math.ZeroInt(), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidInitialLiquidityAmount)

	shares, locked, err := types.SharesFor(math.NewInt(5_000), math.ZeroInt(), math.ZeroInt())
	require.NoError(t, err)
	require.Equal(t, math.NewInt(4_000), shares)
	require.Equal(t, types.MinimumLiquidityAmount, locked)

	_, _, err = types.SharesFor(math.NewInt(5_000), math.ZeroInt(), math.NewInt(10))
	require.ErrorIs(t, err, types.ErrInvalidState)
}

func TestLpDenomFor(t *testing.T) {
	require.Equal(t, "vault/usdc/lp", types.LpDenomFor("usdc"))
	require.NoError(t, types.ValidateIdentifier("usdc-1.a_b"))
	require.ErrorIs(t, types.ValidateIdentifier("bad id"), types.ErrInvalidIdentifier)
	require.ErrorIs(t, types.ValidateIdentifier(""), types.ErrInvalidIdentifier)
}

func TestDepositThenRedeemNeverGains(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vaultAmount := math.NewInt(rapid.Int64Range(1, 1_000_000_000_000).Draw(t, "vault"))
		supply := math.NewInt(rapid.Int64Range(1, 1_000_000_000_000).Draw(t, "supply"))
		deposit := math.NewInt(rapid.Int64Range(1, 1_000_000_000_000).Draw(t, "deposit"))

		shares, locked, err := types.SharesFor(deposit, vaultAmount, supply)
		require.NoError(t, err)
		require.True(t, locked.IsZero())

		redeemed := types.AssetsFor(shares, vaultAmount.Add(deposit), supply.Add(shares))
		require.True(t, redeemed.LTE(deposit), "deposited %s, redeemed %s", deposit, redeemed)
	})
}
