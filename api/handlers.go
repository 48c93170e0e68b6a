package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/liquidityhub/app/health"
	bondingtypes "github.com/paw-chain/liquidityhub/x/bonding/types"
	epochstypes "github.com/paw-chain/liquidityhub/x/epochs/types"
	feecollectortypes "github.com/paw-chain/liquidityhub/x/feecollector/types"
	incentivetypes "github.com/paw-chain/liquidityhub/x/incentive/types"
	vaulttypes "github.com/paw-chain/liquidityhub/x/vault/types"
)

// MaxPageLimit caps the page size of list endpoints
const MaxPageLimit = 100

// runQuery runs fn against a branch of the node state
func runQuery[T any](s *Server, fn func(ctx sdk.Context) (T, error)) (T, error) {
	var out T
	err := s.node.Query(func(ctx sdk.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

// notFoundErrors are reported as 404
var notFoundErrors = []error{
	epochstypes.ErrEpochNotFound,
	incentivetypes.ErrNonExistentFlow,
	incentivetypes.ErrNonExistentPosition,
	bondingtypes.ErrBucketNotFound,
	vaulttypes.ErrNonExistentVault,
}

func (s *Server) writeError(c *gin.Context, err error) {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found", Code: "NOT_FOUND", Details: err.Error()})
			return
		}
	}
	s.logger.Error("query failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Query failed", Code: "INTERNAL_ERROR"})
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Code: code, Details: err.Error()})
}

// addressParam returns the bech32 address path parameter, or writes a 400
func addressParam(c *gin.Context, name string) (string, bool) {
	addr := c.Param(name)
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		badRequest(c, "INVALID_ADDRESS", err)
		return "", false
	}
	return addr, true
}

// pageLimit parses the limit query parameter, capped at MaxPageLimit
func pageLimit(c *gin.Context) (uint32, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		badRequest(c, "INVALID_LIMIT", err)
		return 0, false
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return uint32(limit), true
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, HealthResponse{Status: string(health.StatusHealthy)})
		return
	}

	check, err := s.health.Check(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Health check failed", Code: "UNAVAILABLE", Details: err.Error()})
		return
	}
	status := http.StatusOK
	if check.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, HealthResponse{Status: string(check.Status), Node: check})
}

func (s *Server) handleGetCurrentEpoch(c *gin.Context) {
	resp, err := runQuery(s, func(ctx sdk.Context) (CurrentEpochResponse, error) {
		params, err := s.queries.Epochs.Params(ctx, &epochstypes.QueryParamsRequest{})
		if err != nil {
			return CurrentEpochResponse{}, err
		}
		current, err := s.queries.Epochs.CurrentEpoch(ctx, &epochstypes.QueryCurrentEpochRequest{})
		if err != nil {
			return CurrentEpochResponse{}, err
		}
		return CurrentEpochResponse{
			Epoch:   current.Epoch,
			EndTime: current.Epoch.EndTime(params.Params.EpochDuration).UTC().Format(time.RFC3339),
		}, nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetFlows(c *gin.Context) {
	req := &incentivetypes.QueryFlowsRequest{LpDenom: c.Query("lp_denom")}
	if raw := c.Query("start_after"); raw != "" {
		startAfter, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			badRequest(c, "INVALID_CURSOR", err)
			return
		}
		req.StartAfter = startAfter
	}
	limit, ok := pageLimit(c)
	if !ok {
		return
	}
	req.Limit = limit

	resp, err := runQuery(s, func(ctx sdk.Context) (*incentivetypes.QueryFlowsResponse, error) {
		return s.queries.Incentive.Flows(ctx, req)
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleGetFlow looks a flow up by id or by label
func (s *Server) handleGetFlow(c *gin.Context) {
	req := &incentivetypes.QueryFlowRequest{FlowIdentifier: c.Param("id")}
	resp, err := runQuery(s, func(ctx sdk.Context) (*incentivetypes.QueryFlowResponse, error) {
		return s.queries.Incentive.Flow(ctx, req)
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetPositions(c *gin.Context) {
	owner, ok := addressParam(c, "owner")
	if !ok {
		return
	}
	req := &incentivetypes.QueryPositionsRequest{Owner: owner}
	if raw := c.Query("open_only"); raw != "" {
		openOnly, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "INVALID_FILTER", err)
			return
		}
		req.OpenOnly = openOnly
	}

	resp, err := runQuery(s, func(ctx sdk.Context) (*incentivetypes.QueryPositionsResponse, error) {
		return s.queries.Incentive.Positions(ctx, req)
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleGetRewards returns the rewards the address could claim now
func (s *Server) handleGetRewards(c *gin.Context) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return
	}
	resp, err := runQuery(s, func(ctx sdk.Context) (*incentivetypes.QueryRewardsResponse, error) {
		return s.queries.Incentive.Rewards(ctx, &incentivetypes.QueryRewardsRequest{Address: addr})
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetBonding(c *gin.Context) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return
	}
	resp, err := runQuery(s, func(ctx sdk.Context) (BondingResponse, error) {
		bonded, err := s.queries.Bonding.Bonded(ctx, &bondingtypes.QueryBondedRequest{Address: addr})
		if err != nil {
			return BondingResponse{}, err
		}
		unbonding, err := s.queries.Bonding.Unbonding(ctx, &bondingtypes.QueryUnbondingRequest{Address: addr})
		if err != nil {
			return BondingResponse{}, err
		}
		claimable, err := s.queries.Bonding.Claimable(ctx, &bondingtypes.QueryClaimableRequest{Address: addr})
		if err != nil {
			return BondingResponse{}, err
		}
		weight, err := s.queries.Bonding.Weight(ctx, &bondingtypes.QueryWeightRequest{Address: addr})
		if err != nil {
			return BondingResponse{}, err
		}
		return BondingResponse{
			Address:   addr,
			Bonded:    bonded.Bonded,
			Bonds:     bonded.Bonds,
			Unbonding: unbonding.Entries,
			Claimable: claimable.Rewards,
			Weight:    *weight,
		}, nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetVaults(c *gin.Context) {
	limit, ok := pageLimit(c)
	if !ok {
		return
	}
	req := &vaulttypes.QueryVaultsRequest{StartAfter: c.Query("start_after"), Limit: limit}
	resp, err := runQuery(s, func(ctx sdk.Context) (*vaulttypes.QueryVaultsResponse, error) {
		return s.queries.Vault.Vaults(ctx, req)
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetVault(c *gin.Context) {
	req := &vaulttypes.QueryVaultRequest{Identifier: c.Param("id")}
	resp, err := runQuery(s, func(ctx sdk.Context) (*vaulttypes.QueryVaultResponse, error) {
		return s.queries.Vault.Vault(ctx, req)
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleGetTreasury returns the fee collector balance and the lifetime totals per fee source
func (s *Server) handleGetTreasury(c *gin.Context) {
	type treasuryResponse struct {
		Balance sdk.Coins                       `json:"balance"`
		Sources []feecollectortypes.SourceTotal `json:"sources"`
	}
	resp, err := runQuery(s, func(ctx sdk.Context) (treasuryResponse, error) {
		treasury, err := s.queries.FeeCollector.Treasury(ctx, &feecollectortypes.QueryTreasuryRequest{})
		if err != nil {
			return treasuryResponse{}, err
		}
		sources, err := s.queries.FeeCollector.FeeSources(ctx, &feecollectortypes.QueryFeeSourcesRequest{})
		if err != nil {
			return treasuryResponse{}, err
		}
		return treasuryResponse{Balance: treasury.Balance, Sources: sources.Sources}, nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
