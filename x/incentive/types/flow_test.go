package types_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/paw-chain/liquidityhub/x/incentive/types"
)

func newFlow(amount int64, start, end uint64) types.Flow {
	return types.Flow{
		ID:            1,
		LpDenom:       "pool.lp",
		Asset:         sdk.NewInt64Coin("uusdc", amount),
		ClaimedAmount: math.ZeroInt(),
		Curve:         types.CurveLinear,
		StartEpoch:    start,
		EndEpoch:      end,
	}
}

func TestFlowEmissionsLinear(t *testing.T) {
	flow := newFlow(1_000, 10, 13)

	emissions := flow.Emissions(14)
	require.Len(t, emissions, 5)
	// 1000/3, 667/2, 334/1, then nothing past the end
	require.Equal(t, []math.Int{
		math.NewInt(333), math.NewInt(333), math.NewInt(334), math.ZeroInt(), math.ZeroInt(),
	}, emissions)

	require.Equal(t, math.NewInt(334), flow.EmissionAt(12))
	require.True(t, flow.EmissionAt(9).IsZero())
	require.Equal(t, math.NewInt(1_000), flow.ScheduledTotal())
}

func TestFlowEmissionsFollowAssetHistory(t *testing.T) {
	flow := newFlow(2_000, 10, 14)
	flow.AssetHistory = map[uint64]types.ScheduleEntry{
		10: {TotalAmount: math.NewInt(1_000), EndEpoch: 12},
		11: {TotalAmount: math.NewInt(2_000), EndEpoch: 14},
	}

	// epoch 10 runs the first schedule, epoch 11 on the expanded one
	require.Equal(t, []math.Int{
		math.NewInt(500), math.NewInt(500), math.NewInt(500), math.NewInt(500),
	}, flow.Emissions(13))
	require.Equal(t, math.NewInt(2_000), flow.ScheduledTotal())
	require.Equal(t, uint64(14), flow.ScheduleAt(11).EndEpoch)
	require.Equal(t, uint64(12), flow.ScheduleAt(10).EndEpoch)
}

func TestFlowEmissionsSumToAsset(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amount := rapid.Int64Range(1, 1_000_000_000_000).Draw(t, "amount")
		start := rapid.Uint64Range(1, 1_000).Draw(t, "start")
		length := rapid.Uint64Range(1, 365).Draw(t, "length")
		flow := newFlow(amount, start, start+length)

		sum := math.ZeroInt()
		for _, e := range flow.Emissions(flow.EndEpoch - 1) {
			require.False(t, e.IsNegative())
			sum = sum.Add(e)
		}
		require.Equal(t, math.NewInt(amount), sum)
	})
}

func TestFlowIsExpired(t *testing.T) {
	params := types.DefaultParams()
	flow := newFlow(1_000_000, 10, 20)

	require.False(t, flow.IsExpired(19, params))
	require.False(t, flow.IsExpired(20, params))
	require.True(t, flow.IsExpired(20+params.FlowExpirationGrace, params))

	flow.ClaimedAmount = math.NewInt(999_500)
	require.True(t, flow.IsExpired(20, params), "remainder below the minimum flow amount")
	require.False(t, flow.IsExpired(19, params))
}

func TestFlowValidate(t *testing.T) {
	require.NoError(t, newFlow(1_000, 1, 2).Validate())

	bad := newFlow(1_000, 2, 2)
	require.ErrorIs(t, bad.Validate(), types.ErrFlowStartTimeAfterEndTime)

	over := newFlow(1_000, 1, 2)
	over.ClaimedAmount = math.NewInt(1_001)
	require.ErrorIs(t, over.Validate(), types.ErrInvalidState)
}

func TestFlowIdentifier(t *testing.T) {
	flow := newFlow(1_000, 1, 2)
	require.Equal(t, "1", flow.Identifier())

	flow.Label = "ampwhale-rewards"
	require.Equal(t, "ampwhale-rewards", flow.Identifier())
}
