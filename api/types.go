package api

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/liquidityhub/app/health"
	bondingtypes "github.com/paw-chain/liquidityhub/x/bonding/types"
	epochstypes "github.com/paw-chain/liquidityhub/x/epochs/types"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// CurrentEpochResponse is the epoch in progress and when the next one may start
type CurrentEpochResponse struct {
	Epoch   epochstypes.Epoch `json:"epoch"`
	EndTime string            `json:"end_time"`
}

// BondingResponse is the bonding state of an address
type BondingResponse struct {
	Address   string                           `json:"address"`
	Bonded    sdk.Coins                        `json:"bonded"`
	Bonds     []bondingtypes.Bond              `json:"bonds"`
	Unbonding []bondingtypes.UnbondingEntry    `json:"unbonding"`
	Claimable sdk.Coins                        `json:"claimable"`
	Weight    bondingtypes.QueryWeightResponse `json:"weight"`
}

// HealthResponse is served by /api/health
type HealthResponse struct {
	Status string              `json:"status"`
	Node   *health.HealthCheck `json:"node,omitempty"`
}
