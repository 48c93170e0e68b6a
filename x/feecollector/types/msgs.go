package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgCollectFees sweeps protocol fees into the treasury. With Sources set only those are
// collected; otherwise registered sources are paginated in name order.
type MsgCollectFees struct {
	Authority  string   `json:"authority"`
	Sources    []string `json:"sources,omitempty"`
	StartAfter string   `json:"start_after,omitempty"`
	Limit      uint32   `json:"limit,omitempty"`
}

type MsgCollectFeesResponse struct {
	Collected sdk.Coins `json:"collected"`
}

// MsgForwardFees forwards the treasury to the bonding rewards.
type MsgForwardFees struct {
	Authority string `json:"authority"`
}

type MsgForwardFeesResponse struct {
	Forwarded sdk.Coins `json:"forwarded"`
}

// MsgUpdateParams replaces the module params.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

type MsgUpdateParamsResponse struct{}

// MsgServer is the fee collector transaction surface.
type MsgServer interface {
	CollectFees(context.Context, *MsgCollectFees) (*MsgCollectFeesResponse, error)
	ForwardFees(context.Context, *MsgForwardFees) (*MsgForwardFeesResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}

type QueryFeeSourcesRequest struct{}

type QueryFeeSourcesResponse struct {
	Sources []SourceTotal `json:"sources"`
}

type QueryTreasuryRequest struct{}

type QueryTreasuryResponse struct {
	Balance sdk.Coins `json:"balance"`
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryServer is the fee collector query surface.
type QueryServer interface {
	FeeSources(context.Context, *QueryFeeSourcesRequest) (*QueryFeeSourcesResponse, error)
	Treasury(context.Context, *QueryTreasuryRequest) (*QueryTreasuryResponse, error)
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
}
