package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RewardsShare is an address's share of an epoch's emissions
type RewardsShare struct {
	Address       string         `json:"address"`
	LpDenom       string         `json:"lp_denom,omitempty"`
	EpochID       uint64         `json:"epoch_id"`
	AddressWeight math.Int       `json:"address_weight"`
	GlobalWeight  math.Int       `json:"global_weight"`
	Share         math.LegacyDec `json:"share"`
}

// FlowReward is what an address is owed by a single flow
type FlowReward struct {
	FlowID  uint64   `json:"flow_id"`
	LpDenom string   `json:"lp_denom"`
	Amount  sdk.Coin `json:"amount"`
}

type QueryFlowsRequest struct {
	LpDenom    string `json:"lp_denom,omitempty"`
	StartAfter uint64 `json:"start_after,omitempty"`
	Limit      uint32 `json:"limit,omitempty"`
}

type QueryFlowsResponse struct {
	Flows []Flow `json:"flows"`
}

type QueryFlowRequest struct {
	FlowIdentifier string `json:"flow_identifier"`
}

type QueryFlowResponse struct {
	Flow Flow `json:"flow"`
}

type QueryPositionsRequest struct {
	Owner    string `json:"owner"`
	OpenOnly bool   `json:"open_only,omitempty"`
}

type QueryPositionsResponse struct {
	Positions []Position `json:"positions"`
}

type QueryRewardsRequest struct {
	Address string `json:"address"`
}

type QueryRewardsResponse struct {
	Rewards   sdk.Coins    `json:"rewards"`
	PerFlow   []FlowReward `json:"per_flow"`
	FromEpoch uint64       `json:"from_epoch"`
	ToEpoch   uint64       `json:"to_epoch"`
}

type QueryLpWeightRequest struct {
	Address string `json:"address,omitempty"`
	LpDenom string `json:"lp_denom"`
	EpochID uint64 `json:"epoch_id"`
}

type QueryLpWeightResponse struct {
	Weight math.Int `json:"weight"`
}

type QueryRewardsShareRequest struct {
	Address string `json:"address"`
	LpDenom string `json:"lp_denom,omitempty"`
}

type QueryRewardsShareResponse struct {
	Share RewardsShare `json:"share"`
}

type QueryGlobalWeightRequest struct {
	EpochID uint64 `json:"epoch_id"`
	LpDenom string `json:"lp_denom,omitempty"`
}

type QueryGlobalWeightResponse struct {
	Weight math.Int `json:"weight"`
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryServer is the incentive query surface.
type QueryServer interface {
	Flows(context.Context, *QueryFlowsRequest) (*QueryFlowsResponse, error)
	Flow(context.Context, *QueryFlowRequest) (*QueryFlowResponse, error)
	Positions(context.Context, *QueryPositionsRequest) (*QueryPositionsResponse, error)
	Rewards(context.Context, *QueryRewardsRequest) (*QueryRewardsResponse, error)
	LpWeight(context.Context, *QueryLpWeightRequest) (*QueryLpWeightResponse, error)
	CurrentEpochRewardsShare(context.Context, *QueryRewardsShareRequest) (*QueryRewardsShareResponse, error)
	GlobalWeight(context.Context, *QueryGlobalWeightRequest) (*QueryGlobalWeightResponse, error)
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
}
