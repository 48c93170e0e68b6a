package keeper

import (
	"context"

	"github.com/paw-chain/liquidityhub/x/epochs/types"
)

type queryServer struct {
	*Keeper
}

// NewQueryServerImpl returns an implementation of the epochs QueryServer interface
func NewQueryServerImpl(keeper *Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

func (qs queryServer) CurrentEpoch(ctx context.Context, _ *types.QueryCurrentEpochRequest) (*types.QueryCurrentEpochResponse, error) {
	epoch, err := qs.GetCurrentEpoch(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryCurrentEpochResponse{Epoch: epoch}, nil
}

func (qs queryServer) Epoch(ctx context.Context, req *types.QueryEpochRequest) (*types.QueryEpochResponse, error) {
	epoch, err := qs.GetEpoch(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &types.QueryEpochResponse{Epoch: epoch}, nil
}

func (qs queryServer) Hooks(ctx context.Context, _ *types.QueryHooksRequest) (*types.QueryHooksResponse, error) {
	return &types.QueryHooksResponse{
		Registered: qs.RegisteredHooks(),
		Enabled:    qs.EnabledHooks(ctx),
	}, nil
}

func (qs queryServer) Params(ctx context.Context, _ *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	params, err := qs.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryParamsResponse{Params: params}, nil
}
