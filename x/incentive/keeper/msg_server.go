package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/liquidityhub/x/incentive/types"
	sharedkeeper "github.com/paw-chain/liquidityhub/x/shared/keeper"
)

type msgServer struct {
	*Keeper
}

// NewMsgServerImpl returns an implementation of the incentive MsgServer interface
func NewMsgServerImpl(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

func (ms msgServer) OpenFlow(goCtx context.Context, msg *types.MsgOpenFlow) (*types.MsgOpenFlowResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	flow, err := ms.Keeper.OpenFlow(goCtx, msg)
	if err != nil {
		return nil, fmt.Errorf("OpenFlow: %w", err)
	}
	return &types.MsgOpenFlowResponse{FlowID: flow.ID}, nil
}

func (ms msgServer) ExpandFlow(goCtx context.Context, msg *types.MsgExpandFlow) (*types.MsgExpandFlowResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if _, err := ms.Keeper.ExpandFlow(goCtx, msg); err != nil {
		return nil, fmt.Errorf("ExpandFlow: %w", err)
	}
	return &types.MsgExpandFlowResponse{}, nil
}

func (ms msgServer) CloseFlow(goCtx context.Context, msg *types.MsgCloseFlow) (*types.MsgCloseFlowResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	refund, err := ms.Keeper.CloseFlow(goCtx, msg.Sender, msg.FlowIdentifier)
	if err != nil {
		return nil, fmt.Errorf("CloseFlow: %w", err)
	}
	return &types.MsgCloseFlowResponse{Refund: refund}, nil
}

func (ms msgServer) ManageFlow(goCtx context.Context, msg *types.MsgManageFlow) (*types.MsgManageFlowResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	id, err := ms.Keeper.ManageFlow(goCtx, msg)
	if err != nil {
		return nil, fmt.Errorf("ManageFlow: %w", err)
	}
	return &types.MsgManageFlowResponse{FlowID: id}, nil
}

func (ms msgServer) FillPosition(goCtx context.Context, msg *types.MsgFillPosition) (*types.MsgFillPositionResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	position, err := ms.Keeper.FillPosition(goCtx, msg)
	if err != nil {
		return nil, fmt.Errorf("FillPosition: %w", err)
	}
	return &types.MsgFillPositionResponse{Identifier: position.Identifier}, nil
}

func (ms msgServer) ClosePosition(goCtx context.Context, msg *types.MsgClosePosition) (*types.MsgClosePositionResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	closed, err := ms.Keeper.ClosePosition(goCtx, msg)
	if err != nil {
		return nil, fmt.Errorf("ClosePosition: %w", err)
	}
	return &types.MsgClosePositionResponse{ClosedIdentifier: closed.Identifier}, nil
}

func (ms msgServer) WithdrawPosition(goCtx context.Context, msg *types.MsgWithdrawPosition) (*types.MsgWithdrawPositionResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	withdrawn, penalty, err := ms.Keeper.WithdrawPosition(goCtx, msg.Sender, msg.Identifier, msg.EmergencyUnlock)
	if err != nil {
		return nil, fmt.Errorf("WithdrawPosition: %w", err)
	}
	return &types.MsgWithdrawPositionResponse{Withdrawn: withdrawn, Penalty: penalty}, nil
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

// TakeGlobalWeightSnapshot is permissionless; it only succeeds once per epoch.
func (ms msgServer) TakeGlobalWeightSnapshot(goCtx context.Context, msg *types.MsgTakeGlobalWeightSnapshot) (*types.MsgTakeGlobalWeightSnapshotResponse, error) {
	current, err := ms.currentEpochID(goCtx)
	if err != nil {
		return nil, fmt.Errorf("TakeGlobalWeightSnapshot: %w", err)
	}
	if err := ms.Keeper.TakeGlobalWeightSnapshot(goCtx, current); err != nil {
		return nil, fmt.Errorf("TakeGlobalWeightSnapshot: %w", err)
	}
	return &types.MsgTakeGlobalWeightSnapshotResponse{EpochID: current}, nil
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
