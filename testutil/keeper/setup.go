// Package keeper provides an application fixture for keeper tests: a liquidity hub app
// initialized at genesis with daily epochs, plus helpers to fund accounts and advance epochs.
package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	simtestutil "github.com/cosmos/cosmos-sdk/testutil/sims"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktestutil "github.com/cosmos/cosmos-sdk/x/bank/testutil"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/liquidityhub/app"
)

// GenesisTime is the start of epoch 0 in every fixture
var GenesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// EpochDuration is the epoch length of every fixture
const EpochDuration = 24 * time.Hour

func init() {
	app.SetConfig()
}

// Fixture is an initialized application driven block by block
type Fixture struct {
	t   testing.TB
	App *app.App

	blockTime time.Time
}

// FixtureOption customizes the genesis of a fixture
type FixtureOption func(*app.GenesisConfig)

// WithBalances funds accounts at genesis
func WithBalances(balances ...banktypes.Balance) FixtureOption {
	return func(c *app.GenesisConfig) {
		c.Balances = append(c.Balances, balances...)
	}
}

// WithGenesisConfig edits the genesis configuration
func WithGenesisConfig(fn func(*app.GenesisConfig)) FixtureOption {
	return fn
}

// NewFixture starts an application at GenesisTime and commits its first block. Every module
// invariant is asserted at each block.
func NewFixture(t testing.TB, opts ...FixtureOption) *Fixture {
	t.Helper()

	lhApp, err := app.New(log.NewNopLogger(), dbm.NewMemDB(), app.WithInvariantCheckPeriod(1))
	require.NoError(t, err)

	config := app.DefaultGenesisConfig()
	config.GenesisTime = GenesisTime
	config.EpochDuration = EpochDuration
	for _, opt := range opts {
		opt(&config)
	}
	require.NoError(t, lhApp.InitChain(app.NewGenesisStateFromConfig(config), GenesisTime))

	f := &Fixture{t: t, App: lhApp}
	f.NextBlock(GenesisTime)
	return f
}

// Ctx returns a context on the working state of the current block
func (f *Fixture) Ctx() sdk.Context {
	return f.App.NewUncachedContext()
}

// BlockTime returns the time of the current block
func (f *Fixture) BlockTime() time.Time {
	return f.blockTime
}

// NextBlock commits a block at blockTime
func (f *Fixture) NextBlock(blockTime time.Time) {
	f.t.Helper()

	_, err := f.App.BeginBlock(blockTime)
	require.NoError(f.t, err)
	f.App.Commit()
	f.blockTime = blockTime
}

// CurrentEpoch returns the id of the epoch in progress
func (f *Fixture) CurrentEpoch() uint64 {
	f.t.Helper()

	epoch, err := f.App.EpochsKeeper.GetCurrentEpoch(f.Ctx())
	require.NoError(f.t, err)
	return epoch.ID
}

// AdvanceEpoch commits a block at the end of the current epoch, which creates the next
// epoch and runs the epoch hooks. It returns the new epoch id.
func (f *Fixture) AdvanceEpoch() uint64 {
	f.t.Helper()

	epoch, err := f.App.EpochsKeeper.GetCurrentEpoch(f.Ctx())
	require.NoError(f.t, err)
	f.NextBlock(epoch.EndTime(EpochDuration))

	next := f.CurrentEpoch()
	require.Equal(f.t, epoch.ID+1, next)
	return next
}

// AdvanceToEpoch advances epoch by epoch until id is current
func (f *Fixture) AdvanceToEpoch(id uint64) {
	f.t.Helper()

	for f.CurrentEpoch() < id {
		f.AdvanceEpoch()
	}
}

// Advance commits a block d after the current one, within the current epoch or not
func (f *Fixture) Advance(d time.Duration) {
	f.NextBlock(f.blockTime.Add(d))
}

// Addrs returns n deterministic account addresses
func (f *Fixture) Addrs(n int) []sdk.AccAddress {
	return simtestutil.CreateIncrementalAccounts(n)
}

// Fund mints coins to addr
func (f *Fixture) Fund(addr sdk.AccAddress, coins ...sdk.Coin) {
	f.t.Helper()
	require.NoError(f.t, banktestutil.FundAccount(f.Ctx(), f.App.BankKeeper, addr, sdk.NewCoins(coins...)))
}

// FundModule mints coins to a module account
func (f *Fixture) FundModule(module string, coins ...sdk.Coin) {
	f.t.Helper()
	require.NoError(f.t, banktestutil.FundModuleAccount(f.Ctx(), f.App.BankKeeper, module, sdk.NewCoins(coins...)))
}

// Balance returns the balance of addr in denom
func (f *Fixture) Balance(addr sdk.AccAddress, denom string) sdk.Coin {
	return f.App.BankKeeper.GetBalance(f.Ctx(), addr, denom)
}

// ModuleBalance returns the balance of a module account in denom
func (f *Fixture) ModuleBalance(module, denom string) sdk.Coin {
	return f.App.BankKeeper.GetBalance(f.Ctx(), f.App.AccountKeeper.GetModuleAddress(module), denom)
}

// AssertInvariants fails the test when any module invariant is broken
func (f *Fixture) AssertInvariants() {
	f.t.Helper()
	require.NoError(f.t, f.App.AssertInvariants())
}
