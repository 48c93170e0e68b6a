package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/x/bonding/types"
)

type queryServer struct {
	*Keeper
}

// NewQueryServerImpl returns an implementation of the bonding QueryServer interface
func NewQueryServerImpl(keeper *Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

func (qs queryServer) Bonded(ctx context.Context, req *types.QueryBondedRequest) (*types.QueryBondedResponse, error) {
	bonds, err := qs.GetBonds(ctx, req.Address)
	if err != nil {
		return nil, err
	}
	bonded := sdk.NewCoins()
	for _, b := range bonds {
		bonded = bonded.Add(b.Asset)
	}
	if bonds == nil {
		bonds = []types.Bond{}
	}
	return &types.QueryBondedResponse{Bonded: bonded, Bonds: bonds}, nil
}

func (qs queryServer) Unbonding(ctx context.Context, req *types.QueryUnbondingRequest) (*types.QueryUnbondingResponse, error) {
	entries, err := qs.GetUnbonding(ctx, req.Address, req.Denom)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []types.UnbondingEntry{}
	}
	return &types.QueryUnbondingResponse{Entries: entries}, nil
}

func (qs queryServer) Withdrawable(ctx context.Context, req *types.QueryWithdrawableRequest) (*types.QueryWithdrawableResponse, error) {
	total, _, err := qs.Keeper.Withdrawable(ctx, req.Address, req.Denom)
	if err != nil {
		return nil, err
	}
	return &types.QueryWithdrawableResponse{Withdrawable: total}, nil
}

func (qs queryServer) Claimable(ctx context.Context, req *types.QueryClaimableRequest) (*types.QueryClaimableResponse, error) {
	rewards, buckets, err := qs.Keeper.Claimable(ctx, req.Address)
	if err != nil {
		return nil, err
	}
	return &types.QueryClaimableResponse{Rewards: rewards, Buckets: buckets}, nil
}

func (qs queryServer) GlobalIndex(ctx context.Context, _ *types.QueryGlobalIndexRequest) (*types.QueryGlobalIndexResponse, error) {
	index, err := qs.GetGlobalIndex(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryGlobalIndexResponse{GlobalIndex: index}, nil
}

// Weight returns the weight of an address and its share of the global weight, both grown to
// the current epoch
func (qs queryServer) Weight(ctx context.Context, req *types.QueryWeightRequest) (*types.QueryWeightResponse, error) {
	params, err := qs.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	current, err := qs.currentEpochID(ctx)
	if err != nil {
		return nil, err
	}
	weight, err := qs.WeightAt(ctx, req.Address, current)
	if err != nil {
		return nil, err
	}
	index, err := qs.GetGlobalIndex(ctx)
	if err != nil {
		return nil, err
	}
	global := index.GrownTo(current, params.GrowthRate).LastWeight

	share := math.LegacyZeroDec()
	if global.IsPositive() {
		share = math.LegacyNewDecFromInt(weight).QuoInt(global)
	}
	return &types.QueryWeightResponse{
		Address:      req.Address,
		EpochID:      current,
		Weight:       weight,
		GlobalWeight: global,
		Share:        share,
	}, nil
}

func (qs queryServer) Params(ctx context.Context, _ *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	params, err := qs.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryParamsResponse{Params: params}, nil
}
