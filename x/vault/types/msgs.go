package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgCreateVault creates a vault for an asset. Identifier defaults to the vault counter.
type MsgCreateVault struct {
	Sender     string    `json:"sender"`
	AssetDenom string    `json:"asset_denom"`
	Fees       Fees      `json:"fees"`
	Identifier string    `json:"identifier,omitempty"`
	Funds      sdk.Coins `json:"funds"`
}

func (m MsgCreateVault) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Sender); err != nil {
		return ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}
	if err := sdk.ValidateDenom(m.AssetDenom); err != nil {
		return ErrInvalidAmount.Wrapf("asset denom: %v", err)
	}
	if m.Identifier != "" {
		if err := ValidateIdentifier(m.Identifier); err != nil {
			return err
		}
	}
	return m.Fees.Validate()
}

type MsgCreateVaultResponse struct {
	Identifier string `json:"identifier"`
	LpDenom    string `json:"lp_denom"`
}

// MsgDeposit deposits the vault asset in exchange for shares.
type MsgDeposit struct {
	Sender     string   `json:"sender"`
	Identifier string   `json:"identifier"`
	Amount     sdk.Coin `json:"amount"`
}

func (m MsgDeposit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Sender); err != nil {
		return ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}
	if err := m.Amount.Validate(); err != nil || !m.Amount.IsPositive() {
		return ErrInvalidAmount.Wrapf("deposit %s", m.Amount)
	}
	return nil
}

type MsgDepositResponse struct {
	Shares sdk.Coin `json:"shares"`
}

// MsgWithdraw burns shares for the underlying asset.
type MsgWithdraw struct {
	Sender string   `json:"sender"`
	Shares sdk.Coin `json:"shares"`
}

func (m MsgWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Sender); err != nil {
		return ErrUnauthorized.Wrapf("invalid sender: %v", err)
	}
	if err := m.Shares.Validate(); err != nil || !m.Shares.IsPositive() {
		return ErrInvalidAmount.Wrapf("shares %s", m.Shares)
	}
	return nil
}

type MsgWithdrawResponse struct {
	Withdrawn sdk.Coin `json:"withdrawn"`
}

// MsgUpdateParams replaces the module params.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

type MsgUpdateParamsResponse struct{}

// MsgServer is the vault transaction surface. Flash loans are a keeper API: the payload is
// code run by the calling module.
type MsgServer interface {
	CreateVault(context.Context, *MsgCreateVault) (*MsgCreateVaultResponse, error)
	Deposit(context.Context, *MsgDeposit) (*MsgDepositResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgWithdrawResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}

type QueryVaultRequest struct {
	Identifier string `json:"identifier,omitempty"`
	LpDenom    string `json:"lp_denom,omitempty"`
}

type QueryVaultResponse struct {
	Vault Vault `json:"vault"`
}

type QueryVaultsRequest struct {
	StartAfter string `json:"start_after,omitempty"`
	Limit      uint32 `json:"limit,omitempty"`
}

type QueryVaultsResponse struct {
	Vaults []Vault `json:"vaults"`
}

// QueryShareRequest asks for the assets a share amount redeems.
type QueryShareRequest struct {
	Shares sdk.Coin `json:"shares"`
}

type QueryShareResponse struct {
	Share sdk.Coin `json:"share"`
}

// QueryPaybackAmountRequest asks what must be repaid for a flash loan.
type QueryPaybackAmountRequest struct {
	Identifier string   `json:"identifier"`
	Asset      sdk.Coin `json:"asset"`
}

type QueryPaybackAmountResponse struct {
	Payback      sdk.Coin `json:"payback"`
	ProtocolFee  sdk.Coin `json:"protocol_fee"`
	FlashLoanFee sdk.Coin `json:"flash_loan_fee"`
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryServer is the vault query surface.
type QueryServer interface {
	Vault(context.Context, *QueryVaultRequest) (*QueryVaultResponse, error)
	Vaults(context.Context, *QueryVaultsRequest) (*QueryVaultsResponse, error)
	Share(context.Context, *QueryShareRequest) (*QueryShareResponse, error)
	PaybackAmount(context.Context, *QueryPaybackAmountRequest) (*QueryPaybackAmountResponse, error)
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
}
