package keeper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktestutil "github.com/cosmos/cosmos-sdk/x/bank/testutil"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/suite"

	keepertest "github.com/paw-chain/liquidityhub/testutil/keeper"
	bondingkeeper "github.com/paw-chain/liquidityhub/x/bonding/keeper"
	"github.com/paw-chain/liquidityhub/x/epochs/keeper"
	"github.com/paw-chain/liquidityhub/x/epochs/types"
	feecollectorkeeper "github.com/paw-chain/liquidityhub/x/feecollector/keeper"
	incentivekeeper "github.com/paw-chain/liquidityhub/x/incentive/keeper"
)

// hookFunc adapts a function to types.EpochHooks
type hookFunc func(ctx context.Context, epoch types.Epoch) error

func (f hookFunc) AfterEpochCreated(ctx context.Context, epoch types.Epoch) error {
	return f(ctx, epoch)
}

type KeeperTestSuite struct {
	suite.Suite

	f         *keepertest.Fixture
	k         *keeper.Keeper
	msgs      types.MsgServer
	authority string
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (s *KeeperTestSuite) SetupTest() {
	s.f = keepertest.NewFixture(s.T())
	s.k = s.f.App.EpochsKeeper
	s.msgs = s.f.App.Msgs.Epochs
	s.authority = authtypes.NewModuleAddress(govtypes.ModuleName).String()
}

func (s *KeeperTestSuite) TestGenesisEpoch() {
	epoch, err := s.k.GetCurrentEpoch(s.f.Ctx())
	s.Require().NoError(err)
	s.Require().Equal(uint64(0), epoch.ID)
	s.Require().True(keepertest.GenesisTime.Equal(epoch.StartTime))
}

func (s *KeeperTestSuite) TestEpochCreatedAtEndTime() {
	s.f.Advance(keepertest.EpochDuration - time.Second)
	s.Require().Equal(uint64(0), s.f.CurrentEpoch())

	s.f.NextBlock(keepertest.GenesisTime.Add(keepertest.EpochDuration))
	epoch, err := s.k.GetCurrentEpoch(s.f.Ctx())
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), epoch.ID)
	s.Require().True(keepertest.GenesisTime.Add(keepertest.EpochDuration).Equal(epoch.StartTime))

	past, err := s.k.GetEpoch(s.f.Ctx(), 0)
	s.Require().NoError(err)
	s.Require().Equal(uint64(0), past.ID)

	_, err = s.k.GetEpoch(s.f.Ctx(), 9)
	s.Require().ErrorIs(err, types.ErrEpochNotFound)
}

func (s *KeeperTestSuite) TestHaltedChainCatchesUpOneEpochPerBlock() {
	late := keepertest.GenesisTime.Add(3*keepertest.EpochDuration + time.Hour)

	for want := uint64(1); want <= 3; want++ {
		s.f.NextBlock(late)
		s.Require().Equal(want, s.f.CurrentEpoch())
	}

	// epoch 3 runs until day 4, the boundaries did not drift
	s.f.NextBlock(late)
	epoch, err := s.k.GetCurrentEpoch(s.f.Ctx())
	s.Require().NoError(err)
	s.Require().Equal(uint64(3), epoch.ID)
	s.Require().True(keepertest.GenesisTime.Add(3 * keepertest.EpochDuration).Equal(epoch.StartTime))
}

func (s *KeeperTestSuite) TestCreateEpochMsg() {
	ctx := s.f.Ctx()
	_, err := s.msgs.CreateEpoch(ctx, &types.MsgCreateEpoch{Sender: "anyone"})
	s.Require().ErrorIs(err, types.ErrCurrentEpochNotExpired)

	ctx = ctx.WithBlockTime(keepertest.GenesisTime.Add(keepertest.EpochDuration))
	res, err := s.msgs.CreateEpoch(ctx, &types.MsgCreateEpoch{Sender: "anyone"})
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), res.Epoch.ID)

	var created bool
	for _, event := range ctx.EventManager().Events() {
		if event.Type == types.EventTypeEpochCreated {
			created = true
		}
	}
	s.Require().True(created)
}

func (s *KeeperTestSuite) TestRegisteredHookOrder() {
	s.Require().Equal([]string{
		feecollectorkeeper.HookName,
		bondingkeeper.HookName,
		incentivekeeper.HookName,
	}, s.k.RegisteredHooks())

	// enabled hooks are listed in key order
	s.Require().Equal([]string{"bonding", "feecollector", "incentive"}, s.k.EnabledHooks(s.f.Ctx()))
}

func (s *KeeperTestSuite) TestHookManagementRequiresAuthority() {
	ctx := s.f.Ctx()

	_, err := s.msgs.RemoveHook(ctx, &types.MsgRemoveHook{Authority: "stranger", Hook: bondingkeeper.HookName})
	s.Require().ErrorIs(err, govtypes.ErrInvalidSigner)
	_, err = s.msgs.AddHook(ctx, &types.MsgAddHook{Authority: "stranger", Hook: bondingkeeper.HookName})
	s.Require().ErrorIs(err, govtypes.ErrInvalidSigner)
	_, err = s.msgs.UpdateParams(ctx, &types.MsgUpdateParams{Authority: "stranger", Params: types.DefaultParams()})
	s.Require().ErrorIs(err, govtypes.ErrInvalidSigner)

	_, err = s.msgs.AddHook(ctx, &types.MsgAddHook{Authority: s.authority, Hook: bondingkeeper.HookName})
	s.Require().ErrorIs(err, types.ErrHookAlreadyExists)
	_, err = s.msgs.AddHook(ctx, &types.MsgAddHook{Authority: s.authority, Hook: "dex"})
	s.Require().ErrorIs(err, types.ErrUnknownHook)

	_, err = s.msgs.RemoveHook(ctx, &types.MsgRemoveHook{Authority: s.authority, Hook: bondingkeeper.HookName})
	s.Require().NoError(err)
	s.Require().False(s.k.IsHookEnabled(ctx, bondingkeeper.HookName))

	_, err = s.msgs.RemoveHook(ctx, &types.MsgRemoveHook{Authority: s.authority, Hook: bondingkeeper.HookName})
	s.Require().ErrorIs(err, types.ErrHookNotFound)

	_, err = s.msgs.AddHook(ctx, &types.MsgAddHook{Authority: s.authority, Hook: bondingkeeper.HookName})
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestOnlyEnabledHooksAreNotified() {
	var seen []uint64
	s.k.RegisterHook("recorder", hookFunc(func(_ context.Context, epoch types.Epoch) error {
		seen = append(seen, epoch.ID)
		return nil
	}))

	s.f.AdvanceEpoch()
	s.Require().Empty(seen)

	s.Require().NoError(s.k.AddHook(s.f.Ctx(), s.authority, "recorder"))
	s.f.AdvanceEpoch()
	s.Require().Equal([]uint64{2}, seen)

	s.Require().NoError(s.k.RemoveHook(s.f.Ctx(), s.authority, "recorder"))
	s.f.AdvanceEpoch()
	s.Require().Equal([]uint64{2}, seen)
}

func (s *KeeperTestSuite) TestFailingHookIsIsolated() {
	victim := s.f.Addrs(1)[0]
	s.k.RegisterHook("failing", hookFunc(func(ctx context.Context, _ types.Epoch) error {
		if err := banktestutil.FundAccount(ctx, s.f.App.BankKeeper, victim, sdk.NewCoins(sdk.NewInt64Coin("uwhale", 1_000))); err != nil {
			return err
		}
		return errors.New("hook failed")
	}))
	var notified bool
	s.k.RegisterHook("recorder", hookFunc(func(context.Context, types.Epoch) error {
		notified = true
		return nil
	}))
	s.Require().NoError(s.k.AddHook(s.f.Ctx(), s.authority, "failing"))
	s.Require().NoError(s.k.AddHook(s.f.Ctx(), s.authority, "recorder"))

	s.f.AdvanceEpoch()
	s.Require().True(notified)
	s.Require().True(s.f.Balance(victim, "uwhale").IsZero())
}

func (s *KeeperTestSuite) TestRegisterHookTwicePanics() {
	s.Require().Panics(func() {
		s.k.RegisterHook(bondingkeeper.HookName, hookFunc(func(context.Context, types.Epoch) error { return nil }))
	})
}

func (s *KeeperTestSuite) TestUpdateParamsValidates() {
	_, err := s.msgs.UpdateParams(s.f.Ctx(), &types.MsgUpdateParams{Authority: s.authority, Params: types.Params{}})
	s.Require().ErrorIs(err, types.ErrInvalidParams)

	params := types.DefaultParams()
	params.EpochDuration = time.Hour
	_, err = s.msgs.UpdateParams(s.f.Ctx(), &types.MsgUpdateParams{Authority: s.authority, Params: params})
	s.Require().NoError(err)

	s.f.NextBlock(keepertest.GenesisTime.Add(time.Hour))
	s.Require().Equal(uint64(1), s.f.CurrentEpoch())
}

func (s *KeeperTestSuite) TestExportGenesis() {
	s.f.AdvanceToEpoch(2)

	gs, err := s.k.ExportGenesis(s.f.Ctx())
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), gs.CurrentEpoch.ID)
	s.Require().Len(gs.Epochs, 3)
	s.Require().Equal(s.k.EnabledHooks(s.f.Ctx()), gs.EnabledHooks)
	s.Require().NoError(gs.Validate())
}
