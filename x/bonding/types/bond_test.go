package types_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/paw-chain/liquidityhub/x/bonding/types"
)

func TestBondWeightGrowth(t *testing.T) {
	bond := types.Bond{
		Asset:       sdk.NewInt64Coin("ampWHALE", 1_000),
		Weight:      math.NewInt(1_000),
		LastUpdated: 5,
	}
	one := math.LegacyOneDec()

	require.Equal(t, math.NewInt(1_000), bond.WeightAt(5, one))
	require.Equal(t, math.NewInt(1_000), bond.WeightAt(3, one), "past epochs keep the stored weight")
	require.Equal(t, math.NewInt(4_000), bond.WeightAt(8, one))
	require.Equal(t, math.NewInt(2_500), bond.WeightAt(8, math.LegacyNewDecWithPrec(5, 1)))
}

func TestGlobalIndexGrownTo(t *testing.T) {
	index := types.NewGlobalIndex()
	index.BondedAmount = math.NewInt(2_000)
	index.LastWeight = math.NewInt(2_000)
	index.LastUpdated = 1

	grown := index.GrownTo(3, math.LegacyOneDec())
	require.Equal(t, math.NewInt(6_000), grown.LastWeight)
	require.Equal(t, uint64(3), grown.LastUpdated)
	require.Equal(t, uint64(3), grown.EpochID)

	// growing to an older epoch never shrinks the index
	again := grown.GrownTo(2, math.LegacyOneDec())
	require.Equal(t, grown.LastWeight, again.LastWeight)
	require.Equal(t, uint64(3), again.LastUpdated)
}

func TestUnbondingEntryIsWithdrawable(t *testing.T) {
	entry := types.UnbondingEntry{CreatedEpoch: 10}
	require.False(t, entry.IsWithdrawable(23, 14))
	require.True(t, entry.IsWithdrawable(24, 14))
}

func TestRewardBucketValidate(t *testing.T) {
	bucket := types.RewardBucket{
		ID:        1,
		Total:     sdk.NewCoins(sdk.NewInt64Coin("uwhale", 100)),
		Available: sdk.NewCoins(sdk.NewInt64Coin("uwhale", 60)),
		Claimed:   sdk.NewCoins(sdk.NewInt64Coin("uwhale", 40)),
	}
	require.NoError(t, bucket.Validate())

	bucket.Claimed = sdk.NewCoins(sdk.NewInt64Coin("uwhale", 41))
	require.ErrorIs(t, bucket.Validate(), types.ErrInvalidState)
}

func TestWeightGrowsLinearly(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amount := rapid.Int64Range(1, 1_000_000_000_000).Draw(t, "amount")
		from := rapid.Uint64Range(0, 10_000).Draw(t, "from")
		mid := rapid.Uint64Range(from, from+1_000).Draw(t, "mid")
		to := rapid.Uint64Range(mid, mid+1_000).Draw(t, "to")
		one := math.LegacyOneDec()

		bond := types.Bond{Asset: sdk.NewInt64Coin("ampWHALE", amount), Weight: math.NewInt(amount), LastUpdated: from}
		direct := bond.WeightAt(to, one)

		stepped := bond
		stepped.Weight = bond.WeightAt(mid, one)
		stepped.LastUpdated = mid
		require.Equal(t, direct, stepped.WeightAt(to, one))
		require.Equal(t, math.NewInt(amount).MulRaw(int64(to-from+1)), direct)
	})
}
