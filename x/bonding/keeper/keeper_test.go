package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/suite"

	keepertest "github.com/paw-chain/liquidityhub/testutil/keeper"
	"github.com/paw-chain/liquidityhub/x/bonding/keeper"
	"github.com/paw-chain/liquidityhub/x/bonding/types"
)

const (
	bondDenom   = "ampWHALE"
	rewardDenom = "uwhale"
)

type KeeperTestSuite struct {
	suite.Suite

	f      *keepertest.Fixture
	k      *keeper.Keeper
	alice  sdk.AccAddress
	bob    sdk.AccAddress
	funder sdk.AccAddress
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (s *KeeperTestSuite) SetupTest() {
	s.f = keepertest.NewFixture(s.T())
	s.k = s.f.App.BondingKeeper

	addrs := s.f.Addrs(3)
	s.alice, s.bob, s.funder = addrs[0], addrs[1], addrs[2]
	s.f.Fund(s.alice, sdk.NewInt64Coin(bondDenom, 10_000))
	s.f.Fund(s.bob, sdk.NewInt64Coin(bondDenom, 10_000))
	s.f.Fund(s.funder, sdk.NewInt64Coin(rewardDenom, 1_000_000))
}

func (s *KeeperTestSuite) bond(addr sdk.AccAddress, amount int64) {
	s.Require().NoError(s.k.Bond(s.f.Ctx(), addr.String(), sdk.NewInt64Coin(bondDenom, amount)))
}

func (s *KeeperTestSuite) fill(amount int64) {
	s.Require().NoError(s.k.FillRewards(s.f.Ctx(), s.funder.String(), sdk.NewCoins(sdk.NewInt64Coin(rewardDenom, amount))))
}

func (s *KeeperTestSuite) TestEqualBondsShareEqually() {
	s.f.AdvanceToEpoch(1)
	s.bond(s.alice, 1_000)
	s.bond(s.bob, 1_000)
	s.fill(1_000)

	s.f.AdvanceToEpoch(2)
	bucket, err := s.k.GetBucket(s.f.Ctx(), 2)
	s.Require().NoError(err)
	s.Require().Equal("1000uwhale", bucket.Total.String())

	for _, addr := range []sdk.AccAddress{s.alice, s.bob} {
		rewards, err := s.k.Claim(s.f.Ctx(), addr.String())
		s.Require().NoError(err)
		s.Require().Equal("500uwhale", rewards.String())
	}

	_, err = s.k.Claim(s.f.Ctx(), s.alice.String())
	s.Require().ErrorIs(err, types.ErrNothingToClaim)
	s.f.AssertInvariants()
}

func (s *KeeperTestSuite) TestEarlierBondsWeighMore() {
	s.f.AdvanceToEpoch(1)
	s.bond(s.alice, 1_000)
	s.f.AdvanceToEpoch(3)
	s.bond(s.bob, 1_000)
	s.fill(600)

	s.f.AdvanceToEpoch(4)
	aliceWeight, err := s.k.WeightAt(s.f.Ctx(), s.alice.String(), 4)
	s.Require().NoError(err)
	s.Require().Equal(math.NewInt(4_000), aliceWeight)

	index, err := s.k.GetGlobalIndex(s.f.Ctx())
	s.Require().NoError(err)
	s.Require().Equal(math.NewInt(6_000), index.LastWeight)

	rewards, err := s.k.Claim(s.f.Ctx(), s.alice.String())
	s.Require().NoError(err)
	s.Require().Equal("400uwhale", rewards.String())

	rewards, err = s.k.Claim(s.f.Ctx(), s.bob.String())
	s.Require().NoError(err)
	s.Require().Equal("200uwhale", rewards.String())
}

func (s *KeeperTestSuite) TestBondRejectsUnknownDenom() {
	err := s.k.Bond(s.f.Ctx(), s.alice.String(), sdk.NewInt64Coin(rewardDenom, 1))
	s.Require().ErrorIs(err, types.ErrInvalidBondingAsset)

	err = s.k.Bond(s.f.Ctx(), s.alice.String(), sdk.NewInt64Coin(bondDenom, 0))
	s.Require().ErrorIs(err, types.ErrInvalidBondingAmount)
}

func (s *KeeperTestSuite) TestBondRequiresClaim() {
	s.f.AdvanceToEpoch(1)
	s.bond(s.alice, 1_000)
	s.fill(100)
	s.f.AdvanceToEpoch(2)

	err := s.k.Bond(s.f.Ctx(), s.alice.String(), sdk.NewInt64Coin(bondDenom, 1))
	s.Require().ErrorIs(err, types.ErrUnclaimedRewards)
	err = s.k.Unbond(s.f.Ctx(), s.alice.String(), sdk.NewInt64Coin(bondDenom, 1))
	s.Require().ErrorIs(err, types.ErrUnclaimedRewards)

	_, err = s.k.Claim(s.f.Ctx(), s.alice.String())
	s.Require().NoError(err)
	s.bond(s.alice, 1)
}

func (s *KeeperTestSuite) TestUnbondErrors() {
	tests := []struct {
		name   string
		amount sdk.Coin
		err    error
	}{
		{name: "zero amount", amount: sdk.NewInt64Coin(bondDenom, 0), err: types.ErrInvalidUnbondingAmount},
		{name: "nothing bonded", amount: sdk.NewInt64Coin("bWHALE", 1), err: types.ErrNothingToUnbond},
		{name: "more than bonded", amount: sdk.NewInt64Coin(bondDenom, 1_001), err: types.ErrInsufficientBond},
	}

	s.bond(s.alice, 1_000)
	for _, tc := range tests {
		s.Run(tc.name, func() {
			err := s.k.Unbond(s.f.Ctx(), s.alice.String(), tc.amount)
			s.Require().ErrorIs(err, tc.err)
		})
	}
}

func (s *KeeperTestSuite) TestUnbondAndWithdraw() {
	s.f.AdvanceToEpoch(1)
	s.bond(s.alice, 1_000)
	s.Require().NoError(s.k.Unbond(s.f.Ctx(), s.alice.String(), sdk.NewInt64Coin(bondDenom, 400)))

	bond, found, err := s.k.GetBond(s.f.Ctx(), s.alice.String(), bondDenom)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(math.NewInt(600), bond.Asset.Amount)

	_, err = s.k.Withdraw(s.f.Ctx(), s.alice.String(), bondDenom)
	s.Require().ErrorIs(err, types.ErrNothingToWithdraw)

	s.f.AdvanceToEpoch(14)
	_, err = s.k.Withdraw(s.f.Ctx(), s.alice.String(), bondDenom)
	s.Require().ErrorIs(err, types.ErrNothingToWithdraw)

	s.f.AdvanceToEpoch(15)
	withdrawn, err := s.k.Withdraw(s.f.Ctx(), s.alice.String(), bondDenom)
	s.Require().NoError(err)
	s.Require().Equal(sdk.NewInt64Coin(bondDenom, 400), withdrawn)
	s.Require().Equal(math.NewInt(9_400), s.f.Balance(s.alice, bondDenom).Amount)

	entries, err := s.k.GetUnbonding(s.f.Ctx(), s.alice.String(), bondDenom)
	s.Require().NoError(err)
	s.Require().Empty(entries)
	s.f.AssertInvariants()
}

func (s *KeeperTestSuite) TestUnbondReducesWeightProportionally() {
	s.f.AdvanceToEpoch(1)
	s.bond(s.alice, 1_000)
	s.f.AdvanceToEpoch(3)
	s.Require().NoError(s.k.Unbond(s.f.Ctx(), s.alice.String(), sdk.NewInt64Coin(bondDenom, 500)))

	// weight 3000 at epoch 3, half of it removed
	weight, err := s.k.WeightAt(s.f.Ctx(), s.alice.String(), 3)
	s.Require().NoError(err)
	s.Require().Equal(math.NewInt(1_500), weight)

	index, err := s.k.GetGlobalIndex(s.f.Ctx())
	s.Require().NoError(err)
	s.Require().Equal(math.NewInt(1_500), index.LastWeight)
	s.Require().Equal(math.NewInt(500), index.BondedAmount)
}

func (s *KeeperTestSuite) TestExpiredBucketsAreForwarded() {
	s.f.AdvanceToEpoch(1)
	s.fill(1_000)
	s.f.AdvanceToEpoch(2)

	bucket, err := s.k.GetBucket(s.f.Ctx(), 2)
	s.Require().NoError(err)
	s.Require().Equal("1000uwhale", bucket.Available.String())

	s.f.AdvanceToEpoch(22)
	_, err = s.k.GetBucket(s.f.Ctx(), 2)
	s.Require().NoError(err)

	s.f.AdvanceToEpoch(23)
	_, err = s.k.GetBucket(s.f.Ctx(), 2)
	s.Require().ErrorIs(err, types.ErrBucketNotFound)

	bucket, err = s.k.GetBucket(s.f.Ctx(), 23)
	s.Require().NoError(err)
	s.Require().Equal("1000uwhale", bucket.Total.String())
	s.f.AssertInvariants()
}

func (s *KeeperTestSuite) TestFillRewardsRejectsEmpty() {
	err := s.k.FillRewards(s.f.Ctx(), s.funder.String(), sdk.NewCoins())
	s.Require().ErrorIs(err, types.ErrInvalidRewards)
}

func (s *KeeperTestSuite) TestFillRewardsFromModule() {
	s.f.FundModule("incentive", sdk.NewInt64Coin(rewardDenom, 50))
	s.Require().NoError(s.k.FillRewardsFromModule(s.f.Ctx(), "incentive", sdk.NewCoins(sdk.NewInt64Coin(rewardDenom, 50))))

	upcoming, err := s.k.GetUpcomingRewards(s.f.Ctx())
	s.Require().NoError(err)
	s.Require().Equal("50uwhale", upcoming.String())
}
