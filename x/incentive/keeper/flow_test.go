package keeper_test

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/incentive/keeper"
	"github.com/paw-chain/liquidityhub/x/incentive/types"
)

func (s *KeeperTestSuite) expandFlow(sender sdk.AccAddress, identifier string, end *uint64, asset sdk.Coin, funds sdk.Coins) (types.Flow, error) {
	return s.k.ExpandFlow(s.f.Ctx(), &types.MsgExpandFlow{
		Sender:         sender.String(),
		FlowIdentifier: identifier,
		EndEpoch:       end,
		Asset:          asset,
		Funds:          funds,
	})
}

func (s *KeeperTestSuite) TestExpandFlowExtendsSchedule() {
	s.f.AdvanceToEpoch(11)
	s.fillPosition(1_000)
	flow := s.openFlow(12, 22)

	s.f.AdvanceToEpoch(14)
	rewards, err := s.k.Claim(s.f.Ctx(), s.user.String())
	s.Require().NoError(err)
	s.Require().Equal("300000000uusdc", rewards.String())

	more := sdk.NewInt64Coin(assetDenom, 1_000_000_000)
	s.f.Fund(s.creator, more)
	end := uint64(32)
	expanded, err := s.expandFlow(s.creator, flow.Identifier(), &end, more, sdk.NewCoins(more))
	s.Require().NoError(err)
	s.Require().Equal(uint64(32), expanded.EndEpoch)
	s.Require().Equal(uint64(12), expanded.StartEpoch)
	s.Require().Equal(math.NewInt(2_000_000_000), expanded.Asset.Amount)

	// the new schedule applies from the next epoch, the original one is kept
	s.Require().Len(expanded.AssetHistory, 2)
	s.Require().Equal(types.ScheduleEntry{TotalAmount: math.NewInt(1_000_000_000), EndEpoch: 22}, expanded.AssetHistory[12])
	s.Require().Equal(types.ScheduleEntry{TotalAmount: math.NewInt(2_000_000_000), EndEpoch: 32}, expanded.AssetHistory[15])

	s.f.AdvanceToEpoch(33)
	rest, err := s.k.Claim(s.f.Ctx(), s.user.String())
	s.Require().NoError(err)
	s.Require().Equal("1700000000uusdc", rest.String())
	s.Require().Equal(math.NewInt(2_000_000_000), s.f.Balance(s.user, assetDenom).Amount)

	stored, err := s.k.GetFlow(s.f.Ctx(), flow.ID)
	s.Require().NoError(err)
	s.Require().Equal(stored.Asset.Amount, stored.ClaimedAmount)
	s.f.AssertInvariants()
}

func (s *KeeperTestSuite) TestExpandFlowKeepsEndWhenOmitted() {
	s.f.AdvanceToEpoch(11)
	flow := s.openFlow(12, 22)

	more := sdk.NewInt64Coin(assetDenom, 5_000)
	s.f.Fund(s.creator, more)
	expanded, err := s.expandFlow(s.creator, flow.Identifier(), nil, more, sdk.NewCoins(more))
	s.Require().NoError(err)
	s.Require().Equal(uint64(22), expanded.EndEpoch)
	// the flow has not started, so the expansion takes effect at its start
	s.Require().Len(expanded.AssetHistory, 1)
	s.Require().Equal(math.NewInt(1_000_005_000), expanded.AssetHistory[12].TotalAmount)
	s.f.AssertInvariants()
}

func (s *KeeperTestSuite) TestExpandFlowRejects() {
	s.f.AdvanceToEpoch(11)
	flow := s.openFlow(12, 22)
	more := sdk.NewInt64Coin(assetDenom, 1_000)
	s.f.Fund(s.creator, more, sdk.NewInt64Coin(feeDenom, 1_000))
	later := uint64(30)
	earlier := uint64(20)

	tests := []struct {
		name       string
		sender     sdk.AccAddress
		identifier string
		end        *uint64
		asset      sdk.Coin
		funds      sdk.Coins
		err        error
	}{
		{name: "unknown flow", sender: s.creator, identifier: "missing", asset: more, funds: sdk.NewCoins(more), err: types.ErrNonExistentFlow},
		{name: "not the creator", sender: s.user, identifier: flow.Identifier(), asset: more, funds: sdk.NewCoins(more), err: types.ErrUnauthorized},
		{name: "end moved earlier", sender: s.creator, identifier: flow.Identifier(), end: &earlier, asset: more, funds: sdk.NewCoins(more), err: types.ErrInvalidEndEpoch},
		{name: "other asset", sender: s.creator, identifier: flow.Identifier(), asset: sdk.NewInt64Coin(feeDenom, 1_000), funds: sdk.NewCoins(sdk.NewInt64Coin(feeDenom, 1_000)), err: types.ErrFlowAssetNotSent},
		{name: "funds short", sender: s.creator, identifier: flow.Identifier(), end: &later, asset: more, funds: sdk.NewCoins(sdk.NewInt64Coin(assetDenom, 999)), err: types.ErrMissingPositionDepositNative},
		{name: "extra denom", sender: s.creator, identifier: flow.Identifier(), asset: more, funds: sdk.NewCoins(more, sdk.NewInt64Coin(feeDenom, 1)), err: types.ErrPaymentError},
	}
	for _, tc := range tests {
		s.Run(tc.name, func() {
			_, err := s.expandFlow(tc.sender, tc.identifier, tc.end, tc.asset, tc.funds)
			s.Require().ErrorIs(err, tc.err)
		})
	}

	stored, err := s.k.GetFlow(s.f.Ctx(), flow.ID)
	s.Require().NoError(err)
	s.Require().Equal(flow.Asset, stored.Asset)
	s.Require().Equal(uint64(22), stored.EndEpoch)
}

func (s *KeeperTestSuite) TestExpandFlowAfterLastEmission() {
	s.f.AdvanceToEpoch(11)
	flow := s.openFlow(12, 22)
	more := sdk.NewInt64Coin(assetDenom, 1_000)
	s.f.Fund(s.creator, more)

	// epoch 21 emits the last tranche, nothing is left to spread the expansion over
	s.f.AdvanceToEpoch(21)
	_, err := s.expandFlow(s.creator, flow.Identifier(), nil, more, sdk.NewCoins(more))
	s.Require().ErrorIs(err, types.ErrInvalidEndEpoch)

	s.f.AdvanceToEpoch(22)
	_, err = s.expandFlow(s.creator, flow.Identifier(), nil, more, sdk.NewCoins(more))
	s.Require().ErrorIs(err, types.ErrFlowAlreadyEnded)

	end := uint64(30)
	_, err = s.expandFlow(s.creator, flow.Identifier(), &end, more, sdk.NewCoins(more))
	s.Require().ErrorIs(err, types.ErrFlowAlreadyEnded)
}

func (s *KeeperTestSuite) TestManageFlowFillOpensThenExpands() {
	s.f.AdvanceToEpoch(1)
	asset := sdk.NewInt64Coin(assetDenom, 10_000)
	fee := sdk.NewInt64Coin(feeDenom, 1_000)

	id, err := s.k.ManageFlow(s.f.Ctx(), &types.MsgManageFlow{
		Sender:         s.creator.String(),
		Action:         types.FlowActionFill,
		FlowIdentifier: "weekly",
		LpDenom:        lpDenom,
		Asset:          asset,
		Funds:          sdk.NewCoins(asset, fee),
	})
	s.Require().NoError(err)
	opened, err := s.k.GetFlowByIdentifier(s.f.Ctx(), "weekly")
	s.Require().NoError(err)
	s.Require().Equal(id, opened.ID)
	s.Require().Equal(asset, opened.Asset)

	// filling a known identifier expands it and charges no fee
	expandedID, err := s.k.ManageFlow(s.f.Ctx(), &types.MsgManageFlow{
		Sender:         s.creator.String(),
		Action:         types.FlowActionFill,
		FlowIdentifier: "weekly",
		Asset:          asset,
		Funds:          sdk.NewCoins(asset),
	})
	s.Require().NoError(err)
	s.Require().Equal(id, expandedID)
	expanded, err := s.k.GetFlow(s.f.Ctx(), id)
	s.Require().NoError(err)
	s.Require().Equal(math.NewInt(20_000), expanded.Asset.Amount)

	fees, err := s.k.GetProtocolFees(s.f.Ctx())
	s.Require().NoError(err)
	s.Require().Equal("1000uwhale", fees.String())

	closedID, err := s.k.ManageFlow(s.f.Ctx(), &types.MsgManageFlow{
		Sender:         s.creator.String(),
		Action:         types.FlowActionClose,
		FlowIdentifier: "weekly",
	})
	s.Require().NoError(err)
	s.Require().Equal(id, closedID)
	_, err = s.k.GetFlowByIdentifier(s.f.Ctx(), "weekly")
	s.Require().ErrorIs(err, types.ErrNonExistentFlow)
	s.f.AssertInvariants()
}

func (s *KeeperTestSuite) TestManageFlowRejectsUnknownAction() {
	_, err := s.k.ManageFlow(s.f.Ctx(), &types.MsgManageFlow{
		Sender:         s.creator.String(),
		Action:         "drain",
		FlowIdentifier: "1",
	})
	s.Require().ErrorIs(err, types.ErrInvalidFlowAction)

	_, err = keeper.NewMsgServerImpl(s.k).ManageFlow(s.f.Ctx(), &types.MsgManageFlow{
		Sender:         "not-an-address",
		Action:         types.FlowActionClose,
		FlowIdentifier: "1",
	})
	s.Require().ErrorIs(err, types.ErrUnauthorized)
}

func (s *KeeperTestSuite) TestTooManyFlows() {
	params, err := s.k.GetParams(s.f.Ctx())
	s.Require().NoError(err)

	asset := sdk.NewInt64Coin(assetDenom, 1_000)
	fee := sdk.NewInt64Coin(feeDenom, 1_000)
	s.f.Fund(s.creator, sdk.NewInt64Coin(feeDenom, int64(params.MaxConcurrentFlows)*1_000))

	open := func() error {
		_, err := s.k.OpenFlow(s.f.Ctx(), &types.MsgOpenFlow{
			Creator: s.creator.String(),
			LpDenom: lpDenom,
			Asset:   asset,
			Funds:   sdk.NewCoins(asset, fee),
		})
		return err
	}
	for i := uint32(0); i < params.MaxConcurrentFlows; i++ {
		s.Require().NoError(open())
	}
	s.Require().ErrorIs(open(), types.ErrTooManyFlows)
}

func (s *KeeperTestSuite) TestClaimSplitsEmissionsByWeight() {
	other := s.f.Addrs(3)[2]
	s.f.Fund(other, sdk.NewInt64Coin(lpDenom, 3_000))

	s.f.AdvanceToEpoch(11)
	mine := s.fillPosition(1_000)
	lp := sdk.NewInt64Coin(lpDenom, 3_000)
	theirs, err := s.k.FillPosition(s.f.Ctx(), &types.MsgFillPosition{
		Sender:            other.String(),
		LpAsset:           lp,
		UnbondingDuration: oneDay,
		Funds:             sdk.NewCoins(lp),
	})
	s.Require().NoError(err)
	flow := s.openFlow(12, 22)

	s.f.AdvanceToEpoch(22)
	mineRewards, err := s.k.Claim(s.f.Ctx(), s.user.String())
	s.Require().NoError(err)
	theirRewards, err := s.k.Claim(s.f.Ctx(), other.String())
	s.Require().NoError(err)

	// ten epochs of 100_000_000 each, split by weight and truncated per epoch
	perEpoch := math.NewInt(100_000_000)
	total := mine.Weight.Add(theirs.Weight)
	wantMine := perEpoch.Mul(mine.Weight).Quo(total).MulRaw(10)
	wantTheirs := perEpoch.Mul(theirs.Weight).Quo(total).MulRaw(10)
	s.Require().Equal(wantMine, mineRewards.AmountOf(assetDenom))
	s.Require().Equal(wantTheirs, theirRewards.AmountOf(assetDenom))

	stored, err := s.k.GetFlow(s.f.Ctx(), flow.ID)
	s.Require().NoError(err)
	s.Require().Equal(wantMine.Add(wantTheirs), stored.ClaimedAmount)
	s.Require().True(stored.ClaimedAmount.LTE(stored.Asset.Amount))
	s.Require().True(stored.Asset.Amount.Sub(stored.ClaimedAmount).LTE(math.NewInt(10)))
	s.f.AssertInvariants()
}
