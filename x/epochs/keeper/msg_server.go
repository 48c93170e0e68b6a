package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/liquidityhub/x/epochs/types"
	sharedkeeper "github.com/paw-chain/liquidityhub/x/shared/keeper"
)

type msgServer struct {
	*Keeper
}

// NewMsgServerImpl returns an implementation of the epochs MsgServer interface
func NewMsgServerImpl(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// CreateEpoch is permissionless: any account may advance an expired epoch.
func (ms msgServer) CreateEpoch(goCtx context.Context, msg *types.MsgCreateEpoch) (*types.MsgCreateEpochResponse, error) {
	epoch, err := ms.Keeper.CreateEpoch(goCtx)
	if err != nil {
		return nil, fmt.Errorf("CreateEpoch: %w", err)
	}
	return &types.MsgCreateEpochResponse{Epoch: epoch}, nil
}

func (ms msgServer) AddHook(goCtx context.Context, msg *types.MsgAddHook) (*types.MsgAddHookResponse, error) {
	if err := ms.Keeper.AddHook(goCtx, msg.Authority, msg.Hook); err != nil {
		return nil, fmt.Errorf("AddHook: %w", err)
	}
	return &types.MsgAddHookResponse{}, nil
}

func (ms msgServer) RemoveHook(goCtx context.Context, msg *types.MsgRemoveHook) (*types.MsgRemoveHookResponse, error) {
	if err := ms.Keeper.RemoveHook(goCtx, msg.Authority, msg.Hook); err != nil {
		return nil, fmt.Errorf("RemoveHook: %w", err)
	}
	return &types.MsgRemoveHookResponse{}, nil
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
