package keeper_test

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/suite"

	keepertest "github.com/paw-chain/liquidityhub/testutil/keeper"
	"github.com/paw-chain/liquidityhub/x/vault/keeper"
	"github.com/paw-chain/liquidityhub/x/vault/types"
)

const assetDenom = "uusdc"

type KeeperTestSuite struct {
	suite.Suite

	f        *keepertest.Fixture
	k        *keeper.Keeper
	alice    sdk.AccAddress
	bob      sdk.AccAddress
	borrower sdk.AccAddress
	vault    types.Vault
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (s *KeeperTestSuite) SetupTest() {
	s.f = keepertest.NewFixture(s.T())
	s.k = s.f.App.VaultKeeper

	addrs := s.f.Addrs(3)
	s.alice, s.bob, s.borrower = addrs[0], addrs[1], addrs[2]
	s.f.Fund(s.alice, sdk.NewInt64Coin(assetDenom, 100_000), sdk.NewInt64Coin("uwhale", 1_000))
	s.f.Fund(s.bob, sdk.NewInt64Coin(assetDenom, 100_000))

	vault, err := s.k.CreateVault(s.f.Ctx(), &types.MsgCreateVault{
		Sender:     s.alice.String(),
		AssetDenom: assetDenom,
		Identifier: "usdc",
		Fees: types.Fees{
			ProtocolFee:  math.LegacyNewDecWithPrec(1, 2),
			FlashLoanFee: math.LegacyNewDecWithPrec(2, 2),
		},
		Funds: sdk.NewCoins(sdk.NewInt64Coin("uwhale", 1_000)),
	})
	s.Require().NoError(err)
	s.vault = vault
}

func (s *KeeperTestSuite) deposit(addr sdk.AccAddress, amount int64) sdk.Coin {
	shares, err := s.k.Deposit(s.f.Ctx(), addr.String(), s.vault.Identifier, sdk.NewInt64Coin(assetDenom, amount))
	s.Require().NoError(err)
	return shares
}

func (s *KeeperTestSuite) vaultAsset() math.Int {
	vault, err := s.k.GetVault(s.f.Ctx(), s.vault.Identifier)
	s.Require().NoError(err)
	return vault.Asset.Amount
}

func (s *KeeperTestSuite) TestCreateVault() {
	s.Require().Equal("vault/usdc/lp", s.vault.LpDenom)

	fees, err := s.k.GetProtocolFees(s.f.Ctx())
	s.Require().NoError(err)
	s.Require().Equal("1000uwhale", fees.String())

	_, err = s.k.CreateVault(s.f.Ctx(), &types.MsgCreateVault{
		Sender:     s.alice.String(),
		AssetDenom: assetDenom,
		Identifier: "usdc",
		Fees:       s.vault.Fees,
		Funds:      sdk.NewCoins(sdk.NewInt64Coin("uwhale", 1_000)),
	})
	s.Require().ErrorIs(err, types.ErrExistingVault)

	_, err = s.k.CreateVault(s.f.Ctx(), &types.MsgCreateVault{
		Sender:     s.bob.String(),
		AssetDenom: assetDenom,
		Fees:       s.vault.Fees,
	})
	s.Require().ErrorIs(err, types.ErrInvalidVaultCreationFee)
}

func (s *KeeperTestSuite) TestFirstDepositLocksMinimumLiquidity() {
	_, err := s.k.Deposit(s.f.Ctx(), s.alice.String(), s.vault.Identifier, sdk.NewInt64Coin(assetDenom, 1_000))
	s.Require().ErrorIs(err, types.ErrInvalidInitialLiquidityAmount)

	shares := s.deposit(s.alice, 10_000)
	s.Require().Equal(sdk.NewInt64Coin(s.vault.LpDenom, 9_000), shares)
	s.Require().Equal(math.NewInt(10_000), s.f.App.BankKeeper.GetSupply(s.f.Ctx(), s.vault.LpDenom).Amount)
	s.Require().Equal(math.NewInt(1_000), s.f.ModuleBalance(types.ModuleName, s.vault.LpDenom).Amount)
	s.f.AssertInvariants()
}

func (s *KeeperTestSuite) TestDepositAndWithdrawProRata() {
	s.deposit(s.alice, 10_000)
	bobShares := s.deposit(s.bob, 5_000)
	s.Require().Equal(math.NewInt(5_000), bobShares.Amount)

	value, err := s.k.Share(s.f.Ctx(), bobShares)
	s.Require().NoError(err)
	s.Require().Equal(sdk.NewInt64Coin(assetDenom, 5_000), value)

	withdrawn, err := s.k.Withdraw(s.f.Ctx(), s.bob.String(), bobShares)
	s.Require().NoError(err)
	s.Require().Equal(sdk.NewInt64Coin(assetDenom, 5_000), withdrawn)
	s.Require().Equal(math.NewInt(100_000), s.f.Balance(s.bob, assetDenom).Amount)
	s.Require().Equal(math.NewInt(10_000), s.vaultAsset())
	s.f.AssertInvariants()
}

func (s *KeeperTestSuite) TestDepositRejectsWrongAsset() {
	_, err := s.k.Deposit(s.f.Ctx(), s.alice.String(), s.vault.Identifier, sdk.NewInt64Coin("uwhale", 5_000))
	s.Require().ErrorIs(err, types.ErrAssetMismatch)

	_, err = s.k.Deposit(s.f.Ctx(), s.alice.String(), "missing", sdk.NewInt64Coin(assetDenom, 5_000))
	s.Require().ErrorIs(err, types.ErrNonExistentVault)
}

func (s *KeeperTestSuite) TestFlashLoanRepaid() {
	s.deposit(s.alice, 20_000)
	s.f.Fund(s.borrower, sdk.NewInt64Coin(assetDenom, 300))

	loan := sdk.NewInt64Coin(assetDenom, 10_000)
	quote, err := s.k.PaybackAmount(s.f.Ctx(), s.vault.Identifier, loan)
	s.Require().NoError(err)
	s.Require().Equal(sdk.NewInt64Coin(assetDenom, 10_300), quote.Repayment())

	var held sdk.Coin
	result, err := s.k.FlashLoan(s.f.Ctx(), s.borrower.String(), s.vault.Identifier, loan, func(ctx sdk.Context, loan sdk.Coin) error {
		held = s.f.App.BankKeeper.GetBalance(ctx, s.borrower, loan.Denom)
		return nil
	})
	s.Require().NoError(err)
	s.Require().Equal(math.NewInt(10_300), held.Amount)
	s.Require().Equal(math.NewInt(100), result.ProtocolFee.Amount)
	s.Require().Equal(math.NewInt(200), result.FlashLoanFee.Amount)

	s.Require().True(s.f.Balance(s.borrower, assetDenom).IsZero())
	s.Require().Equal(math.NewInt(20_200), s.vaultAsset())

	fees, err := s.k.GetProtocolFees(s.f.Ctx())
	s.Require().NoError(err)
	s.Require().Equal(math.NewInt(100), fees.AmountOf(assetDenom))
	s.f.AssertInvariants()
}

func (s *KeeperTestSuite) TestFlashLoanNotRepaidRollsBack() {
	s.deposit(s.alice, 20_000)
	before := s.f.ModuleBalance(types.ModuleName, assetDenom)

	_, err := s.k.FlashLoan(s.f.Ctx(), s.borrower.String(), s.vault.Identifier, sdk.NewInt64Coin(assetDenom, 10_000), nil)
	s.Require().ErrorIs(err, types.ErrFlashLoanNotRepaid)

	s.Require().Equal(before, s.f.ModuleBalance(types.ModuleName, assetDenom))
	s.Require().True(s.f.Balance(s.borrower, assetDenom).IsZero())
	s.Require().Equal(math.NewInt(20_000), s.vaultAsset())

	// the in-progress flag was dropped with the rest of the loan
	s.deposit(s.bob, 1_000)
	s.f.AssertInvariants()
}

func (s *KeeperTestSuite) TestFlashLoanBlocksReentry() {
	s.deposit(s.alice, 20_000)
	s.f.Fund(s.borrower, sdk.NewInt64Coin(assetDenom, 300))

	_, err := s.k.FlashLoan(s.f.Ctx(), s.borrower.String(), s.vault.Identifier, sdk.NewInt64Coin(assetDenom, 10_000), func(ctx sdk.Context, loan sdk.Coin) error {
		if _, err := s.k.Deposit(ctx, s.borrower.String(), s.vault.Identifier, loan); err != nil {
			return err
		}
		return nil
	})
	s.Require().ErrorIs(err, types.ErrFlashLoanOngoing)
	s.Require().Equal(math.NewInt(20_000), s.vaultAsset())
}

func (s *KeeperTestSuite) TestFlashLoanPayloadError() {
	s.deposit(s.alice, 20_000)
	boom := errors.New("boom")

	_, err := s.k.FlashLoan(s.f.Ctx(), s.borrower.String(), s.vault.Identifier, sdk.NewInt64Coin(assetDenom, 1_000), func(sdk.Context, sdk.Coin) error {
		return boom
	})
	s.Require().ErrorIs(err, boom)
}

func (s *KeeperTestSuite) TestFlashLoanExceedingVault() {
	s.deposit(s.alice, 20_000)

	_, err := s.k.FlashLoan(s.f.Ctx(), s.borrower.String(), s.vault.Identifier, sdk.NewInt64Coin(assetDenom, 20_001), nil)
	s.Require().ErrorIs(err, types.ErrInsufficientAssetBalance)
}

func (s *KeeperTestSuite) TestFlashLoanFeesGrowShareValue() {
	shares := s.deposit(s.alice, 20_000)
	s.f.Fund(s.borrower, sdk.NewInt64Coin(assetDenom, 300))

	_, err := s.k.FlashLoan(s.f.Ctx(), s.borrower.String(), s.vault.Identifier, sdk.NewInt64Coin(assetDenom, 10_000), nil)
	s.Require().NoError(err)

	// 19000 of 20000 shares over 20200 assets
	value, err := s.k.Share(s.f.Ctx(), shares)
	s.Require().NoError(err)
	s.Require().Equal(math.NewInt(19_190), value.Amount)
}

func (s *KeeperTestSuite) TestDisabledOperations() {
	params := types.DefaultParams()
	params.DepositEnabled = false
	params.FlashLoanEnabled = false
	s.Require().NoError(s.k.SetParams(s.f.Ctx(), params))

	_, err := s.k.Deposit(s.f.Ctx(), s.alice.String(), s.vault.Identifier, sdk.NewInt64Coin(assetDenom, 5_000))
	s.Require().ErrorIs(err, types.ErrDepositsDisabled)

	_, err = s.k.FlashLoan(s.f.Ctx(), s.borrower.String(), s.vault.Identifier, sdk.NewInt64Coin(assetDenom, 1), nil)
	s.Require().ErrorIs(err, types.ErrFlashLoansDisabled)
}
