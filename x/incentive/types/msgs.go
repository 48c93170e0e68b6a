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

// MsgOpenFlow opens a reward flow for the holders of an LP denom. Funds must cover the
// flow asset plus the creation fee.
type MsgOpenFlow struct {
	Creator    string    `json:"creator"`
	LpDenom    string    `json:"lp_denom"`
	Asset      sdk.Coin  `json:"asset"`
	StartEpoch *uint64   `json:"start_epoch,omitempty"`
	EndEpoch   *uint64   `json:"end_epoch,omitempty"`
	Curve      Curve     `json:"curve,omitempty"`
	Label      string    `json:"label,omitempty"`
	Funds      sdk.Coins `json:"funds"`
}

func (msg MsgOpenFlow) ValidateBasic() error {
	if err := validateAddress(msg.Creator, "creator"); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.LpDenom); err != nil {
		return ErrInvalidAmount.Wrapf("lp denom: %v", err)
	}
	if msg.Asset.Denom == "" || msg.Asset.Amount.IsNil() {
		return ErrFlowAssetNotSent.Wrap("flow asset is required")
	}
	if msg.Curve != "" {
		if err := msg.Curve.Validate(); err != nil {
			return err
		}
	}
	return ValidateFlowLabel(msg.Label)
}

type MsgOpenFlowResponse struct {
	FlowID uint64 `json:"flow_id"`
}

// MsgExpandFlow adds funds to a flow and optionally extends its end epoch.
type MsgExpandFlow struct {
	Sender         string    `json:"sender"`
	FlowIdentifier string    `json:"flow_identifier"`
	EndEpoch       *uint64   `json:"end_epoch,omitempty"`
	Asset          sdk.Coin  `json:"asset"`
	Funds          sdk.Coins `json:"funds"`
}

func (msg MsgExpandFlow) ValidateBasic() error {
	if err := validateAddress(msg.Sender, "sender"); err != nil {
		return err
	}
	if msg.FlowIdentifier == "" {
		return ErrNonExistentFlow.Wrap("flow identifier is required")
	}
	if msg.Asset.Denom == "" || msg.Asset.Amount.IsNil() || !msg.Asset.Amount.IsPositive() {
		return ErrFlowAssetNotSent.Wrap("expansion asset must be positive")
	}
	return nil
}

type MsgExpandFlowResponse struct{}

// MsgCloseFlow closes a flow and refunds its unclaimed remainder to the creator.
type MsgCloseFlow struct {
	Sender         string `json:"sender"`
	FlowIdentifier string `json:"flow_identifier"`
}

func (msg MsgCloseFlow) ValidateBasic() error {
	if err := validateAddress(msg.Sender, "sender"); err != nil {
		return err
	}
	if msg.FlowIdentifier == "" {
		return ErrNonExistentFlow.Wrap("flow identifier is required")
	}
	return nil
}

type MsgCloseFlowResponse struct {
	Refund sdk.Coin `json:"refund"`
}

// FlowAction selects what MsgManageFlow does
type FlowAction string

const (
	FlowActionFill  FlowAction = "fill"
	FlowActionClose FlowAction = "close"
)

// MsgManageFlow fills (opens or expands) or closes a flow by identifier.
type MsgManageFlow struct {
	Sender         string     `json:"sender"`
	Action         FlowAction `json:"action"`
	FlowIdentifier string     `json:"flow_identifier,omitempty"`
	LpDenom        string     `json:"lp_denom,omitempty"`
	Asset          sdk.Coin   `json:"asset"`
	StartEpoch     *uint64    `json:"start_epoch,omitempty"`
	EndEpoch       *uint64    `json:"end_epoch,omitempty"`
	Curve          Curve      `json:"curve,omitempty"`
	Funds          sdk.Coins  `json:"funds"`
}

func (msg MsgManageFlow) ValidateBasic() error {
	if err := validateAddress(msg.Sender, "sender"); err != nil {
		return err
	}
	switch msg.Action {
	case FlowActionClose:
		if msg.FlowIdentifier == "" {
			return ErrNonExistentFlow.Wrap("flow identifier is required")
		}
		return nil
	case FlowActionFill:
		if msg.Asset.Denom == "" || msg.Asset.Amount.IsNil() || !msg.Asset.Amount.IsPositive() {
			return ErrFlowAssetNotSent.Wrap("flow asset must be positive")
		}
		if msg.Curve != "" {
			if err := msg.Curve.Validate(); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrInvalidFlowAction.Wrapf("%q", msg.Action)
	}
}

type MsgManageFlowResponse struct {
	FlowID uint64 `json:"flow_id"`
}

// MsgFillPosition opens a position or adds to an existing one.
type MsgFillPosition struct {
	Sender            string    `json:"sender"`
	Identifier        string    `json:"identifier,omitempty"`
	LpAsset           sdk.Coin  `json:"lp_asset"`
	UnbondingDuration uint64    `json:"unbonding_duration"`
	Receiver          string    `json:"receiver,omitempty"`
	Funds             sdk.Coins `json:"funds"`
}

func (msg MsgFillPosition) ValidateBasic() error {
	if err := validateAddress(msg.Sender, "sender"); err != nil {
		return err
	}
	if msg.Receiver != "" {
		if err := validateAddress(msg.Receiver, "receiver"); err != nil {
			return err
		}
	}
	if msg.LpAsset.Denom == "" || msg.LpAsset.Amount.IsNil() || !msg.LpAsset.Amount.IsPositive() {
		return ErrMissingPositionDeposit.Wrap("lp asset must be positive")
	}
	return nil
}

type MsgFillPositionResponse struct {
	Identifier string `json:"identifier"`
}

// MsgClosePosition starts unbonding a position, fully or partially.
type MsgClosePosition struct {
	Sender     string    `json:"sender"`
	Identifier string    `json:"identifier"`
	LpAsset    *sdk.Coin `json:"lp_asset,omitempty"`
}

func (msg MsgClosePosition) ValidateBasic() error {
	if err := validateAddress(msg.Sender, "sender"); err != nil {
		return err
	}
	if msg.Identifier == "" {
		return ErrNonExistentPosition.Wrap("identifier is required")
	}
	return nil
}

type MsgClosePositionResponse struct {
	ClosedIdentifier string `json:"closed_identifier"`
}

// MsgWithdrawPosition releases unbonded positions, or any position with a penalty
// when EmergencyUnlock is set.
type MsgWithdrawPosition struct {
	Sender          string `json:"sender"`
	Identifier      string `json:"identifier,omitempty"`
	EmergencyUnlock bool   `json:"emergency_unlock,omitempty"`
}

func (msg MsgWithdrawPosition) ValidateBasic() error {
	return validateAddress(msg.Sender, "sender")
}

type MsgWithdrawPositionResponse struct {
	Withdrawn sdk.Coins `json:"withdrawn"`
	Penalty   sdk.Coins `json:"penalty,omitempty"`
}

// MsgClaim claims every reward owed to the sender.
type MsgClaim struct {
	Sender string `json:"sender"`
}

func (msg MsgClaim) ValidateBasic() error {
	return validateAddress(msg.Sender, "sender")
}

type MsgClaimResponse struct {
	Rewards sdk.Coins `json:"rewards"`
}

// MsgTakeGlobalWeightSnapshot records the global weight of the current epoch.
type MsgTakeGlobalWeightSnapshot struct {
	Sender string `json:"sender"`
}

type MsgTakeGlobalWeightSnapshotResponse struct {
	EpochID uint64 `json:"epoch_id"`
}

// MsgUpdateParams replaces the module params.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

type MsgUpdateParamsResponse struct{}

// MsgServer is the incentive transaction surface.
type MsgServer interface {
	OpenFlow(context.Context, *MsgOpenFlow) (*MsgOpenFlowResponse, error)
	ExpandFlow(context.Context, *MsgExpandFlow) (*MsgExpandFlowResponse, error)
	CloseFlow(context.Context, *MsgCloseFlow) (*MsgCloseFlowResponse, error)
	ManageFlow(context.Context, *MsgManageFlow) (*MsgManageFlowResponse, error)
	FillPosition(context.Context, *MsgFillPosition) (*MsgFillPositionResponse, error)
	ClosePosition(context.Context, *MsgClosePosition) (*MsgClosePositionResponse, error)
	WithdrawPosition(context.Context, *MsgWithdrawPosition) (*MsgWithdrawPositionResponse, error)
	Claim(context.Context, *MsgClaim) (*MsgClaimResponse, error)
	TakeGlobalWeightSnapshot(context.Context, *MsgTakeGlobalWeightSnapshot) (*MsgTakeGlobalWeightSnapshotResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}
