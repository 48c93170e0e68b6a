package keeper

import (
	"context"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/liquidityhub/x/feecollector/types"
)

type stubSource string

func (s stubSource) FeeSourceName() string { return string(s) }

func (s stubSource) CollectProtocolFees(context.Context, string) (sdk.Coins, error) {
	return sdk.NewCoins(), nil
}

func sourceNames(sources []types.FeeSource) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.FeeSourceName())
	}
	return out
}

func TestSelectSources(t *testing.T) {
	k := NewKeeper(nil, "", nil, nil)
	for _, name := range []string{"vault", "incentive", "dex", "pool"} {
		k.RegisterFeeSource(stubSource(name))
	}
	require.Equal(t, []string{"dex", "incentive", "pool", "vault"}, k.FeeSourceNames())

	tests := []struct {
		name       string
		sources    []string
		startAfter string
		limit      uint32
		want       []string
		err        error
	}{
		{name: "all with default limit", want: []string{"dex", "incentive", "pool", "vault"}},
		{name: "first page", limit: 2, want: []string{"dex", "incentive"}},
		{name: "second page", startAfter: "incentive", limit: 2, want: []string{"pool", "vault"}},
		{name: "start after unregistered name", startAfter: "m", want: []string{"pool", "vault"}},
		{name: "past the end", startAfter: "vault", want: []string{}},
		{name: "explicit order kept", sources: []string{"vault", "dex"}, want: []string{"vault", "dex"}},
		{name: "explicit duplicates dropped", sources: []string{"pool", "pool"}, want: []string{"pool"}},
		{name: "explicit ignores pagination", sources: []string{"dex"}, startAfter: "vault", limit: 1, want: []string{"dex"}},
		{name: "unknown source", sources: []string{"dex", "oracle"}, err: types.ErrUnknownFeeSource},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := k.selectSources(tc.sources, tc.startAfter, tc.limit)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, sourceNames(got))
		})
	}
}

func TestRegisterFeeSourceTwicePanics(t *testing.T) {
	k := NewKeeper(nil, "", nil, nil)
	k.RegisterFeeSource(stubSource("vault"))
	require.Panics(t, func() { k.RegisterFeeSource(stubSource("vault")) })
}
