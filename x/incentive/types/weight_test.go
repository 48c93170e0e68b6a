package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/paw-chain/liquidityhub/x/incentive/types"
)

func TestCalculateWeightCurvePoints(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		duration uint64
		want     int64
	}{
		{name: "one day", amount: 1_000_000, duration: types.MinUnbondingDuration, want: 1_000_000},
		{name: "half a year", amount: 1_000_000, duration: 15_778_463, want: 5_000_000},
		{name: "one year", amount: 1_000_000, duration: types.MaxUnbondingDuration, want: 16_000_000},
		{name: "zero amount", amount: 0, duration: types.MaxUnbondingDuration, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, err := types.CalculateWeight(math.NewInt(tc.amount), tc.duration)
			require.NoError(t, err)
			require.Equal(t, math.NewInt(tc.want), w)
		})
	}
}

func TestCalculateWeightOutOfRange(t *testing.T) {
	_, err := types.CalculateWeight(math.NewInt(1), types.MinUnbondingDuration-1)
	require.ErrorIs(t, err, types.ErrInvalidWeight)

	_, err = types.CalculateWeight(math.NewInt(1), types.MaxUnbondingDuration+1)
	require.ErrorIs(t, err, types.ErrInvalidWeight)

	_, err = types.CalculateWeight(math.NewInt(-1), types.MinUnbondingDuration)
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}

func TestCalculateWeightProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amount := math.NewInt(rapid.Int64Range(0, 1_000_000_000_000).Draw(t, "amount"))
		d1 := rapid.Uint64Range(types.MinUnbondingDuration, types.MaxUnbondingDuration).Draw(t, "d1")
		d2 := rapid.Uint64Range(d1, types.MaxUnbondingDuration).Draw(t, "d2")

		w1, err := types.CalculateWeight(amount, d1)
		require.NoError(t, err)
		w2, err := types.CalculateWeight(amount, d2)
		require.NoError(t, err)

		require.True(t, w1.GTE(amount), "weight %s below amount %s", w1, amount)
		require.True(t, w2.GTE(w1), "weight decreased from %s to %s", w1, w2)
		require.True(t, w2.LTE(amount.MulRaw(16)), "weight %s above the yearly multiplier", w2)
	})
}
