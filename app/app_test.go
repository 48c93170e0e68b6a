package app_test

import (
	"errors"
	"testing"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktestutil "github.com/cosmos/cosmos-sdk/x/bank/testutil"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/liquidityhub/app"
	keepertest "github.com/paw-chain/liquidityhub/testutil/keeper"
	bondingtypes "github.com/paw-chain/liquidityhub/x/bonding/types"
	epochstypes "github.com/paw-chain/liquidityhub/x/epochs/types"
	incentivetypes "github.com/paw-chain/liquidityhub/x/incentive/types"
	vaulttypes "github.com/paw-chain/liquidityhub/x/vault/types"
)

func TestDefaultGenesisValidates(t *testing.T) {
	encoding := app.MakeEncodingConfig()
	require.NoError(t, app.ModuleBasics.ValidateGenesis(encoding.Codec, encoding.TxConfig, app.NewDefaultGenesisState()))
}

func TestInitChainRejectsInvalidGenesis(t *testing.T) {
	lhApp, err := app.New(log.NewNopLogger(), dbm.NewMemDB())
	require.NoError(t, err)

	// epochs must have a positive duration
	config := app.DefaultGenesisConfig()
	config.EpochDuration = 0
	require.ErrorContains(t, lhApp.InitChain(app.NewGenesisStateFromConfig(config), keepertest.GenesisTime), "epoch duration must be positive")
}

func TestInitChainWithoutValidators(t *testing.T) {
	lhApp, err := app.New(log.NewNopLogger(), dbm.NewMemDB())
	require.NoError(t, err)

	require.NoError(t, lhApp.InitChain(app.NewGenesisStateFromConfig(app.DefaultGenesisConfig()), keepertest.GenesisTime))
	lhApp.Commit()

	epoch, _, err := lhApp.CurrentEpoch()
	require.NoError(t, err)
	require.Equal(t, uint64(0), epoch.ID)
	require.NoError(t, lhApp.AssertInvariants())
}

func TestModuleAccountsCreatedAtGenesis(t *testing.T) {
	f := keepertest.NewFixture(t)
	for name := range app.GetMaccPerms() {
		require.NotNil(t, f.App.AccountKeeper.GetModuleAccount(f.Ctx(), name), name)
	}
	require.Equal(t, int64(1), f.App.LastBlockHeight())
}

func TestCurrentEpoch(t *testing.T) {
	f := keepertest.NewFixture(t)
	f.AdvanceToEpoch(3)

	epoch, duration, err := f.App.CurrentEpoch()
	require.NoError(t, err)
	require.Equal(t, uint64(3), epoch.ID)
	require.Equal(t, keepertest.EpochDuration, duration)
}

func TestDeliverKeepsWritesOnlyOnSuccess(t *testing.T) {
	f := keepertest.NewFixture(t)
	addr := f.Addrs(1)[0]
	coins := sdk.NewCoins(sdk.NewInt64Coin("uwhale", 1_000))

	_, err := f.App.Deliver(func(ctx sdk.Context) error {
		if err := banktestutil.FundAccount(ctx, f.App.BankKeeper, addr, coins); err != nil {
			return err
		}
		return errors.New("rejected")
	})
	require.Error(t, err)
	require.True(t, f.Balance(addr, "uwhale").IsZero())

	_, err = f.App.Deliver(func(ctx sdk.Context) error {
		return banktestutil.FundAccount(ctx, f.App.BankKeeper, addr, coins)
	})
	require.NoError(t, err)
	require.Equal(t, coins[0], f.Balance(addr, "uwhale"))
}

func TestQueryDiscardsWrites(t *testing.T) {
	f := keepertest.NewFixture(t)
	addr := f.Addrs(1)[0]

	require.NoError(t, f.App.Query(func(ctx sdk.Context) error {
		return banktestutil.FundAccount(ctx, f.App.BankKeeper, addr, sdk.NewCoins(sdk.NewInt64Coin("uwhale", 1)))
	}))
	require.True(t, f.Balance(addr, "uwhale").IsZero())
}

func TestExportGenesisRoundTrip(t *testing.T) {
	f := keepertest.NewFixture(t)
	addrs := f.Addrs(2)
	f.Fund(addrs[0], sdk.NewInt64Coin("ampWHALE", 5_000), sdk.NewInt64Coin("uusdc", 1_000_000), sdk.NewInt64Coin("uwhale", 1_000))
	f.AdvanceEpoch()

	require.NoError(t, f.App.BondingKeeper.Bond(f.Ctx(), addrs[0].String(), sdk.NewInt64Coin("ampWHALE", 5_000)))
	asset := sdk.NewInt64Coin("uusdc", 1_000_000)
	_, err := f.App.IncentiveKeeper.OpenFlow(f.Ctx(), &incentivetypes.MsgOpenFlow{
		Creator: addrs[0].String(),
		LpDenom: "pool.uwhale.uusdc.lp",
		Asset:   asset,
		Funds:   sdk.NewCoins(asset, sdk.NewInt64Coin("uwhale", 1_000)),
	})
	require.NoError(t, err)
	f.AdvanceEpoch()

	exported, err := f.App.ExportGenesis()
	require.NoError(t, err)

	imported, err := app.New(log.NewNopLogger(), dbm.NewMemDB())
	require.NoError(t, err)
	require.NoError(t, imported.InitChain(exported, f.BlockTime()))

	reexported, err := imported.ExportGenesis()
	require.NoError(t, err)
	for _, name := range []string{epochstypes.ModuleName, bondingtypes.ModuleName, incentivetypes.ModuleName, vaulttypes.ModuleName} {
		require.JSONEq(t, string(exported[name]), string(reexported[name]), name)
	}
	require.NoError(t, imported.AssertInvariants())
}
