package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/liquidityhub/x/bonding/types"
	sharedkeeper "github.com/paw-chain/liquidityhub/x/shared/keeper"
)

type msgServer struct {
	*Keeper
}

// NewMsgServerImpl returns an implementation of the bonding MsgServer interface
func NewMsgServerImpl(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

func (ms msgServer) Bond(goCtx context.Context, msg *types.MsgBond) (*types.MsgBondResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.Keeper.Bond(goCtx, msg.Sender, msg.Amount); err != nil {
		return nil, fmt.Errorf("Bond: %w", err)
	}
	return &types.MsgBondResponse{}, nil
}

func (ms msgServer) Unbond(goCtx context.Context, msg *types.MsgUnbond) (*types.MsgUnbondResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.Keeper.Unbond(goCtx, msg.Sender, msg.Amount); err != nil {
		return nil, fmt.Errorf("Unbond: %w", err)
	}
	return &types.MsgUnbondResponse{}, nil
}

func (ms msgServer) Withdraw(goCtx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	withdrawn, err := ms.Keeper.Withdraw(goCtx, msg.Sender, msg.Denom)
	if err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}
	return &types.MsgWithdrawResponse{Withdrawn: withdrawn}, nil
}

func (ms msgServer) Claim(goCtx context.Context, msg *types.MsgClaim) (*types.MsgClaimResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	rewards, err := ms.Keeper.Claim(goCtx, msg.Sender)
	if err != nil {
		return nil, fmt.Errorf("Claim: %w", err)
	}
	return &types.MsgClaimResponse{Rewards: rewards}, nil
}

func (ms msgServer) FillRewards(goCtx context.Context, msg *types.MsgFillRewards) (*types.MsgFillRewardsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.Keeper.FillRewards(goCtx, msg.Sender, msg.Amount); err != nil {
		return nil, fmt.Errorf("FillRewards: %w", err)
	}
	return &types.MsgFillRewardsResponse{}, nil
}

func (ms msgServer) UpdateParams(goCtx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if err := sharedkeeper.ValidateAuthority(ms.authority, msg.Authority); err != nil {
		return nil, err
	}
	if err := ms.SetParams(goCtx, msg.Params); err != nil {
		return nil, fmt.Errorf("UpdateParams: %w", err)
	}
	return &types.MsgUpdateParamsResponse{}, nil
}
