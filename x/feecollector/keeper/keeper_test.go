package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/suite"

	keepertest "github.com/paw-chain/liquidityhub/testutil/keeper"
	bondingtypes "github.com/paw-chain/liquidityhub/x/bonding/types"
	"github.com/paw-chain/liquidityhub/x/feecollector/keeper"
	"github.com/paw-chain/liquidityhub/x/feecollector/types"
	incentivetypes "github.com/paw-chain/liquidityhub/x/incentive/types"
	vaulttypes "github.com/paw-chain/liquidityhub/x/vault/types"
)

const feeDenom = "uwhale"

type KeeperTestSuite struct {
	suite.Suite

	f         *keepertest.Fixture
	k         *keeper.Keeper
	msgs      types.MsgServer
	authority string
	creator   sdk.AccAddress
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (s *KeeperTestSuite) SetupTest() {
	s.f = keepertest.NewFixture(s.T())
	s.k = s.f.App.FeeCollectorKeeper
	s.msgs = s.f.App.Msgs.FeeCollector
	s.authority = authtypes.NewModuleAddress(govtypes.ModuleName).String()

	// fees are swept by the tests, not by the epoch hook
	params := types.DefaultParams()
	params.AutoForward = false
	s.Require().NoError(s.k.SetParams(s.f.Ctx(), params))

	s.creator = s.f.Addrs(1)[0]
	s.f.Fund(s.creator, sdk.NewInt64Coin(feeDenom, 10_000), sdk.NewInt64Coin("uusdc", 1_000_000))
	s.accrueFees()
}

// accrueFees charges a flow creation fee and a vault creation fee, 1000uwhale each
func (s *KeeperTestSuite) accrueFees() {
	asset := sdk.NewInt64Coin("uusdc", 1_000_000)
	_, err := s.f.App.IncentiveKeeper.OpenFlow(s.f.Ctx(), &incentivetypes.MsgOpenFlow{
		Creator: s.creator.String(),
		LpDenom: "pool.uwhale.uusdc.lp",
		Asset:   asset,
		Funds:   sdk.NewCoins(asset, sdk.NewInt64Coin(feeDenom, 1_000)),
	})
	s.Require().NoError(err)

	_, err = s.f.App.VaultKeeper.CreateVault(s.f.Ctx(), &vaulttypes.MsgCreateVault{
		Sender:     s.creator.String(),
		AssetDenom: "uusdc",
		Fees:       vaulttypes.Fees{ProtocolFee: math.LegacyNewDecWithPrec(1, 2), FlashLoanFee: math.LegacyNewDecWithPrec(1, 2)},
		Funds:      sdk.NewCoins(sdk.NewInt64Coin(feeDenom, 1_000)),
	})
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestCollectAllSources() {
	collected, err := s.k.CollectFees(s.f.Ctx(), nil, "", 0)
	s.Require().NoError(err)
	s.Require().Equal("2000uwhale", collected.String())
	s.Require().Equal("2000uwhale", s.k.GetTreasury(s.f.Ctx()).String())

	for _, name := range []string{incentivetypes.ModuleName, vaulttypes.ModuleName} {
		lifetime, err := s.k.GetCollected(s.f.Ctx(), name)
		s.Require().NoError(err)
		s.Require().Equal("1000uwhale", lifetime.String())
	}

	fees, err := s.f.App.IncentiveKeeper.GetProtocolFees(s.f.Ctx())
	s.Require().NoError(err)
	s.Require().True(fees.IsZero())

	again, err := s.k.CollectFees(s.f.Ctx(), nil, "", 0)
	s.Require().NoError(err)
	s.Require().True(again.IsZero())
	s.f.AssertInvariants()
}

func (s *KeeperTestSuite) TestCollectPaginates() {
	first, err := s.k.CollectFees(s.f.Ctx(), nil, "", 1)
	s.Require().NoError(err)
	s.Require().Equal("1000uwhale", first.String())

	lifetime, err := s.k.GetCollected(s.f.Ctx(), vaulttypes.ModuleName)
	s.Require().NoError(err)
	s.Require().True(lifetime.IsZero(), "vault comes after incentive in name order")

	second, err := s.k.CollectFees(s.f.Ctx(), nil, incentivetypes.ModuleName, 1)
	s.Require().NoError(err)
	s.Require().Equal("1000uwhale", second.String())

	lifetime, err = s.k.GetCollected(s.f.Ctx(), vaulttypes.ModuleName)
	s.Require().NoError(err)
	s.Require().Equal("1000uwhale", lifetime.String())
}

func (s *KeeperTestSuite) TestCollectExplicitSources() {
	collected, err := s.k.CollectFees(s.f.Ctx(), []string{vaulttypes.ModuleName, vaulttypes.ModuleName}, "", 0)
	s.Require().NoError(err)
	s.Require().Equal("1000uwhale", collected.String())

	_, err = s.k.CollectFees(s.f.Ctx(), []string{"dex"}, "", 0)
	s.Require().ErrorIs(err, types.ErrUnknownFeeSource)
}

func (s *KeeperTestSuite) TestForwardFeesToBonding() {
	_, err := s.k.ForwardFees(s.f.Ctx())
	s.Require().ErrorIs(err, types.ErrNothingToForward)

	_, err = s.k.CollectFees(s.f.Ctx(), nil, "", 0)
	s.Require().NoError(err)

	forwarded, err := s.k.ForwardFees(s.f.Ctx())
	s.Require().NoError(err)
	s.Require().Equal("2000uwhale", forwarded.String())
	s.Require().True(s.k.GetTreasury(s.f.Ctx()).IsZero())

	upcoming, err := s.f.App.BondingKeeper.GetUpcomingRewards(s.f.Ctx())
	s.Require().NoError(err)
	s.Require().Equal("2000uwhale", upcoming.String())
	s.Require().Equal(math.NewInt(2_000), s.f.ModuleBalance(bondingtypes.ModuleName, feeDenom).Amount)

	_, err = s.k.ForwardFees(s.f.Ctx())
	s.Require().ErrorIs(err, types.ErrNothingToForward)
}

func (s *KeeperTestSuite) TestForwardDenomsFilter() {
	params := types.DefaultParams()
	params.AutoForward = false
	params.ForwardDenoms = []string{"uusdc"}
	s.Require().NoError(s.k.SetParams(s.f.Ctx(), params))

	_, err := s.k.CollectFees(s.f.Ctx(), nil, "", 0)
	s.Require().NoError(err)
	_, err = s.k.ForwardFees(s.f.Ctx())
	s.Require().ErrorIs(err, types.ErrNothingToForward)
	s.Require().Equal("2000uwhale", s.k.GetTreasury(s.f.Ctx()).String())
}

func (s *KeeperTestSuite) TestAutoForwardOnEpoch() {
	params := types.DefaultParams()
	s.Require().NoError(s.k.SetParams(s.f.Ctx(), params))

	epoch := s.f.AdvanceEpoch()

	bucket, err := s.f.App.BondingKeeper.GetBucket(s.f.Ctx(), epoch)
	s.Require().NoError(err)
	s.Require().Equal("2000uwhale", bucket.Total.String())
	s.Require().True(s.k.GetTreasury(s.f.Ctx()).IsZero())
}

func (s *KeeperTestSuite) TestMsgServerRequiresAuthority() {
	ctx := s.f.Ctx()
	stranger := s.creator.String()

	_, err := s.msgs.CollectFees(ctx, &types.MsgCollectFees{Authority: stranger})
	s.Require().ErrorIs(err, govtypes.ErrInvalidSigner)
	_, err = s.msgs.ForwardFees(ctx, &types.MsgForwardFees{Authority: stranger})
	s.Require().ErrorIs(err, govtypes.ErrInvalidSigner)
	_, err = s.msgs.UpdateParams(ctx, &types.MsgUpdateParams{Authority: stranger, Params: types.DefaultParams()})
	s.Require().ErrorIs(err, govtypes.ErrInvalidSigner)

	res, err := s.msgs.CollectFees(ctx, &types.MsgCollectFees{Authority: s.authority, Sources: []string{incentivetypes.ModuleName}})
	s.Require().NoError(err)
	s.Require().Equal("1000uwhale", res.Collected.String())

	fwd, err := s.msgs.ForwardFees(ctx, &types.MsgForwardFees{Authority: s.authority})
	s.Require().NoError(err)
	s.Require().Equal("1000uwhale", fwd.Forwarded.String())
}
