package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

type QueryBondedRequest struct {
	Address string `json:"address"`
}

type QueryBondedResponse struct {
	Bonded sdk.Coins `json:"bonded"`
	Bonds  []Bond    `json:"bonds"`
}

type QueryUnbondingRequest struct {
	Address string `json:"address"`
	Denom   string `json:"denom,omitempty"`
}

type QueryUnbondingResponse struct {
	Entries []UnbondingEntry `json:"entries"`
}

type QueryWithdrawableRequest struct {
	Address string `json:"address"`
	Denom   string `json:"denom"`
}

type QueryWithdrawableResponse struct {
	Withdrawable sdk.Coin `json:"withdrawable"`
}

type QueryClaimableRequest struct {
	Address string `json:"address"`
}

type QueryClaimableResponse struct {
	Rewards sdk.Coins      `json:"rewards"`
	Buckets []RewardBucket `json:"buckets"`
}

type QueryGlobalIndexRequest struct{}

type QueryGlobalIndexResponse struct {
	GlobalIndex GlobalIndex `json:"global_index"`
}

type QueryWeightRequest struct {
	Address string `json:"address"`
}

type QueryWeightResponse struct {
	Address      string         `json:"address"`
	EpochID      uint64         `json:"epoch_id"`
	Weight       math.Int       `json:"weight"`
	GlobalWeight math.Int       `json:"global_weight"`
	Share        math.LegacyDec `json:"share"`
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryServer is the bonding query surface.
type QueryServer interface {
	Bonded(context.Context, *QueryBondedRequest) (*QueryBondedResponse, error)
	Unbonding(context.Context, *QueryUnbondingRequest) (*QueryUnbondingResponse, error)
	Withdrawable(context.Context, *QueryWithdrawableRequest) (*QueryWithdrawableResponse, error)
	Claimable(context.Context, *QueryClaimableRequest) (*QueryClaimableResponse, error)
	GlobalIndex(context.Context, *QueryGlobalIndexRequest) (*QueryGlobalIndexResponse, error)
	Weight(context.Context, *QueryWeightRequest) (*QueryWeightResponse, error)
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
}
