package keeper

import (
	"context"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	epochstypes "github.com/paw-chain/liquidityhub/x/epochs/types"
)

type stubEpochKeeper struct {
	epoch epochstypes.Epoch
}

func (s stubEpochKeeper) GetCurrentEpoch(context.Context) (epochstypes.Epoch, error) {
	return s.epoch, nil
}

type stubFeeSource struct {
	name      string
	collected sdk.Coins
}

func (s *stubFeeSource) FeeSourceName() string { return s.name }

func (s *stubFeeSource) CollectProtocolFees(context.Context, string) (sdk.Coins, error) {
	out := s.collected
	s.collected = sdk.NewCoins()
	return out, nil
}

// TestVersionConstants verifies version constants are defined.
func TestVersionConstants(t *testing.T) {
	require.Equal(t, "v1.0.0", EpochKeeperVersion)
	require.Equal(t, "v1.0.0", RewardSinkVersion)
	require.Equal(t, "v1.0.0", FeeSourceVersion)
	require.Equal(t, "v1.0.0", BankKeeperVersion)
}

func TestEpochKeeperContract(t *testing.T) {
	var ek EpochKeeperV1 = stubEpochKeeper{epoch: epochstypes.Epoch{ID: 7}}

	epoch, err := ek.GetCurrentEpoch(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(7), epoch.ID)
}

func TestFeeSourceDrains(t *testing.T) {
	src := &stubFeeSource{name: "vault", collected: sdk.NewCoins(sdk.NewInt64Coin("uwhale", 10))}
	var fs FeeSourceV1 = src

	first, err := fs.CollectProtocolFees(context.Background(), "feecollector")
	require.NoError(t, err)
	require.Equal(t, "10uwhale", first.String())

	second, err := fs.CollectProtocolFees(context.Background(), "feecollector")
	require.NoError(t, err)
	require.True(t, second.IsZero())
	require.Equal(t, "vault", fs.FeeSourceName())
}
