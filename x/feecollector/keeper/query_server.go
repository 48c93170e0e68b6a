package keeper

import (
	"context"

	"github.com/paw-chain/liquidityhub/x/feecollector/types"
)

type queryServer struct {
	*Keeper
}

// NewQueryServerImpl returns an implementation of the fee collector QueryServer interface
func NewQueryServerImpl(keeper *Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

// FeeSources lists every registered source with its lifetime total
func (qs queryServer) FeeSources(goCtx context.Context, _ *types.QueryFeeSourcesRequest) (*types.QueryFeeSourcesResponse, error) {
	out := make([]types.SourceTotal, 0, len(qs.sources))
	for _, name := range qs.FeeSourceNames() {
		collected, err := qs.GetCollected(goCtx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, types.SourceTotal{Source: name, Collected: collected})
	}
	return &types.QueryFeeSourcesResponse{Sources: out}, nil
}

func (qs queryServer) Treasury(goCtx context.Context, _ *types.QueryTreasuryRequest) (*types.QueryTreasuryResponse, error) {
	return &types.QueryTreasuryResponse{Balance: qs.GetTreasury(goCtx)}, nil
}

func (qs queryServer) Params(goCtx context.Context, _ *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	params, err := qs.GetParams(goCtx)
	if err != nil {
		return nil, err
	}
	return &types.QueryParamsResponse{Params: params}, nil
}
