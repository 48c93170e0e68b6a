package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Params defines the vault module parameters.
type Params struct {
	VaultCreationFee sdk.Coin `json:"vault_creation_fee"`
	FlashLoanEnabled bool     `json:"flash_loan_enabled"`
	DepositEnabled   bool     `json:"deposit_enabled"`
	WithdrawEnabled  bool     `json:"withdraw_enabled"`
}

// DefaultParams returns default vault parameters
func DefaultParams() Params {
	return Params{
		VaultCreationFee: sdk.NewCoin("uwhale", math.NewInt(1_000)),
		FlashLoanEnabled: true,
		DepositEnabled:   true,
		WithdrawEnabled:  true,
	}
}

// Validate validates the params
func (p Params) Validate() error {
	if err := p.VaultCreationFee.Validate(); err != nil {
		return ErrInvalidParams.Wrapf("vault creation fee: %v", err)
	}
	return nil
}
