package keeper

import (
	"context"

	"github.com/paw-chain/liquidityhub/x/vault/types"
)

const defaultVaultsLimit = 100

type queryServer struct {
	*Keeper
}

// NewQueryServerImpl returns an implementation of the vault QueryServer interface
func NewQueryServerImpl(keeper *Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

// Vault looks a vault up by identifier, or by lp denom when no identifier is given
func (qs queryServer) Vault(goCtx context.Context, req *types.QueryVaultRequest) (*types.QueryVaultResponse, error) {
	var (
		vault types.Vault
		err   error
	)
	if req.Identifier != "" {
		vault, err = qs.GetVault(goCtx, req.Identifier)
	} else {
		vault, err = qs.GetVaultByLpDenom(goCtx, req.LpDenom)
	}
	if err != nil {
		return nil, err
	}
	return &types.QueryVaultResponse{Vault: vault}, nil
}

func (qs queryServer) Vaults(goCtx context.Context, req *types.QueryVaultsRequest) (*types.QueryVaultsResponse, error) {
	limit := req.Limit
	if limit == 0 || limit > defaultVaultsLimit {
		limit = defaultVaultsLimit
	}
	vaults, err := qs.GetVaults(goCtx, req.StartAfter, limit)
	if err != nil {
		return nil, err
	}
	return &types.QueryVaultsResponse{Vaults: vaults}, nil
}

func (qs queryServer) Share(goCtx context.Context, req *types.QueryShareRequest) (*types.QueryShareResponse, error) {
	share, err := qs.Keeper.Share(goCtx, req.Shares)
	if err != nil {
		return nil, err
	}
	return &types.QueryShareResponse{Share: share}, nil
}

func (qs queryServer) PaybackAmount(goCtx context.Context, req *types.QueryPaybackAmountRequest) (*types.QueryPaybackAmountResponse, error) {
	result, err := qs.Keeper.PaybackAmount(goCtx, req.Identifier, req.Asset)
	if err != nil {
		return nil, err
	}
	return &types.QueryPaybackAmountResponse{
		Payback:      result.Repayment(),
		ProtocolFee:  result.ProtocolFee,
		FlashLoanFee: result.FlashLoanFee,
	}, nil
}

func (qs queryServer) Params(goCtx context.Context, _ *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	params, err := qs.GetParams(goCtx)
	if err != nil {
		return nil, err
	}
	return &types.QueryParamsResponse{Params: params}, nil
}
