package keeper

import (
	"context"
	"fmt"

	sharedkeeper "github.com/paw-chain/liquidityhub/x/shared/keeper"
	"github.com/paw-chain/liquidityhub/x/vault/types"
)

type msgServer struct {
	*Keeper
}

// NewMsgServerImpl returns an implementation of the vault MsgServer interface
func NewMsgServerImpl(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

func (ms msgServer) CreateVault(goCtx context.Context, msg *types.MsgCreateVault) (*types.MsgCreateVaultResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	vault, err := ms.Keeper.CreateVault(goCtx, msg)
	if err != nil {
		return nil, fmt.Errorf("CreateVault: %w", err)
	}
	return &types.MsgCreateVaultResponse{Identifier: vault.Identifier, LpDenom: vault.LpDenom}, nil
}

func (ms msgServer) Deposit(goCtx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	shares, err := ms.Keeper.Deposit(goCtx, msg.Sender, msg.Identifier, msg.Amount)
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}
	return &types.MsgDepositResponse{Shares: shares}, nil
}

func (ms msgServer) Withdraw(goCtx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	withdrawn, err := ms.Keeper.Withdraw(goCtx, msg.Sender, msg.Shares)
	if err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}
	return &types.MsgWithdrawResponse{Withdrawn: withdrawn}, nil
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
