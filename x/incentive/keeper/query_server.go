package keeper

import (
	"context"

	"github.com/paw-chain/liquidityhub/x/incentive/types"
)

const defaultFlowsLimit = 100

type queryServer struct {
	*Keeper
}

// NewQueryServerImpl returns an implementation of the incentive QueryServer interface
func NewQueryServerImpl(keeper *Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

// Flows lists flows in id order, after StartAfter and up to Limit
func (qs queryServer) Flows(ctx context.Context, req *types.QueryFlowsRequest) (*types.QueryFlowsResponse, error) {
	limit := int(req.Limit)
	if limit == 0 {
		limit = defaultFlowsLimit
	}

	flows := []types.Flow{}
	err := qs.IterateFlows(ctx, func(f types.Flow) (bool, error) {
		if f.ID <= req.StartAfter || (req.LpDenom != "" && f.LpDenom != req.LpDenom) {
			return false, nil
		}
		flows = append(flows, f)
		return len(flows) >= limit, nil
	})
	if err != nil {
		return nil, err
	}
	return &types.QueryFlowsResponse{Flows: flows}, nil
}

func (qs queryServer) Flow(ctx context.Context, req *types.QueryFlowRequest) (*types.QueryFlowResponse, error) {
	flow, err := qs.GetFlowByIdentifier(ctx, req.FlowIdentifier)
	if err != nil {
		return nil, err
	}
	return &types.QueryFlowResponse{Flow: flow}, nil
}

func (qs queryServer) Positions(ctx context.Context, req *types.QueryPositionsRequest) (*types.QueryPositionsResponse, error) {
	positions, err := qs.GetPositionsByOwner(ctx, req.Owner, req.OpenOnly)
	if err != nil {
		return nil, err
	}
	if positions == nil {
		positions = []types.Position{}
	}
	return &types.QueryPositionsResponse{Positions: positions}, nil
}

func (qs queryServer) Rewards(ctx context.Context, req *types.QueryRewardsRequest) (*types.QueryRewardsResponse, error) {
	rewards, err := qs.QueryRewards(ctx, req.Address)
	if err != nil {
		return nil, err
	}
	perFlow := rewards.PerFlow
	if perFlow == nil {
		perFlow = []types.FlowReward{}
	}
	return &types.QueryRewardsResponse{
		Rewards:   rewards.Total,
		PerFlow:   perFlow,
		FromEpoch: rewards.FromEpoch,
		ToEpoch:   rewards.ToEpoch,
	}, nil
}

// LpWeight returns the weight of an address, or the total of the LP denom when no address is given
func (qs queryServer) LpWeight(ctx context.Context, req *types.QueryLpWeightRequest) (*types.QueryLpWeightResponse, error) {
	var err error
	resp := &types.QueryLpWeightResponse{}
	if req.Address != "" {
		resp.Weight, err = qs.GetAddressWeightAt(ctx, req.Address, req.LpDenom, req.EpochID)
	} else {
		resp.Weight, err = qs.GetLpWeightAt(ctx, req.LpDenom, req.EpochID)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (qs queryServer) CurrentEpochRewardsShare(ctx context.Context, req *types.QueryRewardsShareRequest) (*types.QueryRewardsShareResponse, error) {
	share, err := qs.Keeper.CurrentEpochRewardsShare(ctx, req.Address, req.LpDenom)
	if err != nil {
		return nil, err
	}
	return &types.QueryRewardsShareResponse{Share: share}, nil
}

func (qs queryServer) GlobalWeight(ctx context.Context, req *types.QueryGlobalWeightRequest) (*types.QueryGlobalWeightResponse, error) {
	var err error
	resp := &types.QueryGlobalWeightResponse{}
	if req.LpDenom != "" {
		resp.Weight, err = qs.Keeper.GetGlobalWeight(ctx, req.EpochID, req.LpDenom)
	} else {
		resp.Weight, err = qs.GetTotalGlobalWeight(ctx, req.EpochID)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (qs queryServer) Params(ctx context.Context, _ *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	params, err := qs.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryParamsResponse{Params: params}, nil
}
