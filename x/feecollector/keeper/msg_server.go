package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/liquidityhub/x/feecollector/types"
	sharedkeeper "github.com/paw-chain/liquidityhub/x/shared/keeper"
)

type msgServer struct {
	*Keeper
}

// NewMsgServerImpl returns an implementation of the fee collector MsgServer interface
func NewMsgServerImpl(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

func (ms msgServer) CollectFees(goCtx context.Context, msg *types.MsgCollectFees) (*types.MsgCollectFeesResponse, error) {
	if err := sharedkeeper.ValidateAuthority(ms.authority, msg.Authority); err != nil {
		return nil, err
	}
	collected, err := ms.Keeper.CollectFees(goCtx, msg.Sources, msg.StartAfter, msg.Limit)
	if err != nil {
		return nil, err
	}
	return &types.MsgCollectFeesResponse{Collected: collected}, nil
}

func (ms msgServer) ForwardFees(goCtx context.Context, msg *types.MsgForwardFees) (*types.MsgForwardFeesResponse, error) {
	if err := sharedkeeper.ValidateAuthority(ms.authority, msg.Authority); err != nil {
		return nil, err
	}
	forwarded, err := ms.Keeper.ForwardFees(goCtx)
	if err != nil {
		return nil, err
	}
	return &types.MsgForwardFeesResponse{Forwarded: forwarded}, nil
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
