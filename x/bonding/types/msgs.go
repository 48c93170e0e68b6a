package types

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

func validateAddress(addr, field string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return errorsmod.Wrapf(ErrUnauthorized, "invalid %s address %q: %v", field, addr, err)
	}
	return nil
}

// MsgBond bonds an amount of a bonding denom.
type MsgBond struct {
	Sender string   `json:"sender"`
	Amount sdk.Coin `json:"amount"`
}

func (msg MsgBond) ValidateBasic() error {
	return validateAddress(msg.Sender, "sender")
}

type MsgBondResponse struct{}

// MsgUnbond starts unbonding an amount.
type MsgUnbond struct {
	Sender string   `json:"sender"`
	Amount sdk.Coin `json:"amount"`
}

func (msg MsgUnbond) ValidateBasic() error {
	return validateAddress(msg.Sender, "sender")
}

type MsgUnbondResponse struct{}

// MsgWithdraw withdraws the unbonded entries of a denom.
type MsgWithdraw struct {
	Sender string `json:"sender"`
	Denom  string `json:"denom"`
}

func (msg MsgWithdraw) ValidateBasic() error {
	return validateAddress(msg.Sender, "sender")
}

type MsgWithdrawResponse struct {
	Withdrawn sdk.Coin `json:"withdrawn"`
}

// MsgClaim claims the bonding rewards of the sender.
type MsgClaim struct {
	Sender string `json:"sender"`
}

func (msg MsgClaim) ValidateBasic() error {
	return validateAddress(msg.Sender, "sender")
}

type MsgClaimResponse struct {
	Rewards sdk.Coins `json:"rewards"`
}

// MsgFillRewards adds funds to the rewards of the next bucket.
type MsgFillRewards struct {
	Sender string    `json:"sender"`
	Amount sdk.Coins `json:"amount"`
}

func (msg MsgFillRewards) ValidateBasic() error {
	if err := validateAddress(msg.Sender, "sender"); err != nil {
		return err
	}
	if msg.Amount.Empty() || !msg.Amount.IsValid() {
		return ErrInvalidRewards.Wrapf("invalid amount %s", msg.Amount)
	}
	return nil
}

type MsgFillRewardsResponse struct{}

// MsgUpdateParams replaces the module params.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

type MsgUpdateParamsResponse struct{}

// MsgServer is the bonding transaction surface.
type MsgServer interface {
	Bond(context.Context, *MsgBond) (*MsgBondResponse, error)
	Unbond(context.Context, *MsgUnbond) (*MsgUnbondResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgWithdrawResponse, error)
	Claim(context.Context, *MsgClaim) (*MsgClaimResponse, error)
	FillRewards(context.Context, *MsgFillRewards) (*MsgFillRewardsResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}
