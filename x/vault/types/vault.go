package types

import (
	"fmt"
	"regexp"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MinimumLiquidityAmount is locked in the vault on the first deposit.
var MinimumLiquidityAmount = math.NewInt(1_000)

var identifierRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)

// Fees of a vault, as shares of the borrowed amount.
type Fees struct {
	// ProtocolFee accrues to the protocol fee ledger.
	ProtocolFee math.LegacyDec `json:"protocol_fee"`
	// FlashLoanFee stays in the vault and grows the value of its shares.
	FlashLoanFee math.LegacyDec `json:"flash_loan_fee"`
}

// Validate checks each share is in [0, 1) and the shares sum to less than one.
func (f Fees) Validate() error {
	if f.ProtocolFee.IsNil() || f.FlashLoanFee.IsNil() {
		return ErrInvalidFees.Wrap("fees must be set")
	}
	one := math.LegacyOneDec()
	if f.ProtocolFee.IsNegative() || f.ProtocolFee.GTE(one) {
		return ErrInvalidFees.Wrapf("protocol fee %s out of range", f.ProtocolFee)
	}
	if f.FlashLoanFee.IsNegative() || f.FlashLoanFee.GTE(one) {
		return ErrInvalidFees.Wrapf("flash loan fee %s out of range", f.FlashLoanFee)
	}
	if f.ProtocolFee.Add(f.FlashLoanFee).GTE(one) {
		return ErrInvalidFees.Wrap("fees sum to 100% or more")
	}
	return nil
}

// Compute returns the protocol and flash loan fees owed on a loan.
func (f Fees) Compute(amount math.Int) (protocolFee, flashLoanFee math.Int) {
	return f.ProtocolFee.MulInt(amount).TruncateInt(), f.FlashLoanFee.MulInt(amount).TruncateInt()
}

func (f Fees) String() string {
	return fmt.Sprintf("protocol_fee: %s, flash_loan_fee: %s", f.ProtocolFee, f.FlashLoanFee)
}

// Vault holds deposits of a single asset.
type Vault struct {
	Identifier string   `json:"identifier"`
	Asset      sdk.Coin `json:"asset"`
	LpDenom    string   `json:"lp_denom"`
	Fees       Fees     `json:"fees"`
	Creator    string   `json:"creator"`
}

// LpDenomFor returns the share denom minted by a vault
func LpDenomFor(identifier string) string {
	return fmt.Sprintf("%s/%s/lp", ModuleName, identifier)
}

// ValidateIdentifier checks a vault identifier
func ValidateIdentifier(identifier string) error {
	if !identifierRe.MatchString(identifier) {
		return ErrInvalidIdentifier.Wrapf("%q", identifier)
	}
	return nil
}

// Validate performs stateless validation of a vault
func (v Vault) Validate() error {
	if err := ValidateIdentifier(v.Identifier); err != nil {
		return err
	}
	if err := v.Asset.Validate(); err != nil {
		return ErrInvalidState.Wrapf("vault %s asset: %v", v.Identifier, err)
	}
	if v.LpDenom != LpDenomFor(v.Identifier) {
		return ErrInvalidState.Wrapf("vault %s lp denom %s", v.Identifier, v.LpDenom)
	}
	return v.Fees.Validate()
}

// SharesFor returns the shares minted for a deposit. An empty vault locks the minimum
// liquidity, returned separately.
func SharesFor(deposit, vaultAmount, supply math.Int) (shares, locked math.Int, err error) {
	if supply.IsZero() {
		shares = deposit.Sub(MinimumLiquidityAmount)
		if !shares.IsPositive() {
			return math.ZeroInt(), math.ZeroInt(), ErrInvalidInitialLiquidityAmount.Wrapf("minimum %s", MinimumLiquidityAmount)
		}
		return shares, MinimumLiquidityAmount, nil
	}
	if vaultAmount.IsZero() {
		return math.ZeroInt(), math.ZeroInt(), ErrInvalidState.Wrap("shares outstanding on an empty vault")
	}
	return deposit.Mul(supply).Quo(vaultAmount), math.ZeroInt(), nil
}

// AssetsFor returns the vault assets redeemed by burning shares.
func AssetsFor(shares, vaultAmount, supply math.Int) math.Int {
	if supply.IsZero() {
		return math.ZeroInt()
	}
	return shares.Mul(vaultAmount).Quo(supply)
}
