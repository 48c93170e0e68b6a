package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/liquidityhub/api"
	"github.com/paw-chain/liquidityhub/app/health"
	keepertest "github.com/paw-chain/liquidityhub/testutil/keeper"
	incentivetypes "github.com/paw-chain/liquidityhub/x/incentive/types"
)

const lpDenom = "pool.uwhale.uusdc.lp"

// setupTestServer creates a server over a fresh fixture with rate limiting disabled
func setupTestServer(t *testing.T, mutate func(*api.Config)) (*api.Server, *keepertest.Fixture) {
	t.Helper()

	f := keepertest.NewFixture(t)
	config := api.DefaultConfig()
	config.CORSOrigins = []string{"http://localhost:3000"}
	config.RateLimitRPS = 0
	config.RateLimitBurst = 0
	if mutate != nil {
		mutate(&config)
	}

	server, err := api.NewServer(log.NewNopLogger(), f.App, f.App.Queries, nil, config)
	require.NoError(t, err)
	return server, f
}

func get(t *testing.T, server *api.Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func openFlow(t *testing.T, f *keepertest.Fixture, creator sdk.AccAddress, label string) incentivetypes.Flow {
	t.Helper()

	asset := sdk.NewInt64Coin("uusdc", 1_000_000)
	flow, err := f.App.IncentiveKeeper.OpenFlow(f.Ctx(), &incentivetypes.MsgOpenFlow{
		Creator: creator.String(),
		Label:   label,
		LpDenom: lpDenom,
		Asset:   asset,
		Funds:   sdk.NewCoins(asset, sdk.NewInt64Coin("uwhale", 1_000)),
	})
	require.NoError(t, err)
	return flow
}

func TestCurrentEpoch(t *testing.T) {
	server, f := setupTestServer(t, nil)
	f.AdvanceToEpoch(2)

	w := get(t, server, "/api/epochs/current")
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.CurrentEpochResponse
	decode(t, w, &resp)
	assert.Equal(t, uint64(2), resp.Epoch.ID)
	assert.Equal(t, "2024-01-04T00:00:00Z", resp.EndTime)
}

func TestFlowsListAndLookup(t *testing.T) {
	server, f := setupTestServer(t, nil)
	creator := f.Addrs(1)[0]
	f.Fund(creator, sdk.NewInt64Coin("uusdc", 2_000_000), sdk.NewInt64Coin("uwhale", 2_000))
	first := openFlow(t, f, creator, "")
	second := openFlow(t, f, creator, "launch")

	w := get(t, server, "/api/flows")
	require.Equal(t, http.StatusOK, w.Code)
	var list incentivetypes.QueryFlowsResponse
	decode(t, w, &list)
	require.Len(t, list.Flows, 2)

	w = get(t, server, fmt.Sprintf("/api/flows?start_after=%d&limit=5", first.ID))
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list.Flows, 1)
	assert.Equal(t, second.ID, list.Flows[0].ID)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantID     uint64
	}{
		{name: "by id", path: fmt.Sprintf("/api/flows/%d", first.ID), wantStatus: http.StatusOK, wantID: first.ID},
		{name: "by label", path: "/api/flows/launch", wantStatus: http.StatusOK, wantID: second.ID},
		{name: "unknown id", path: "/api/flows/999", wantStatus: http.StatusNotFound},
		{name: "unknown label", path: "/api/flows/missing", wantStatus: http.StatusNotFound},
		{name: "bad limit", path: "/api/flows?limit=ten", wantStatus: http.StatusBadRequest},
		{name: "bad cursor", path: "/api/flows?start_after=-1", wantStatus: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := get(t, server, tc.path)
			require.Equal(t, tc.wantStatus, w.Code, w.Body.String())
			if tc.wantID == 0 {
				return
			}
			var resp incentivetypes.QueryFlowResponse
			decode(t, w, &resp)
			assert.Equal(t, tc.wantID, resp.Flow.ID)
		})
	}
}

func TestPositionsAndRewards(t *testing.T) {
	server, f := setupTestServer(t, nil)
	user := f.Addrs(1)[0]
	f.Fund(user, sdk.NewInt64Coin(lpDenom, 1_000))

	lp := sdk.NewInt64Coin(lpDenom, 1_000)
	_, err := f.App.IncentiveKeeper.FillPosition(f.Ctx(), &incentivetypes.MsgFillPosition{
		Sender:            user.String(),
		LpAsset:           lp,
		UnbondingDuration: 86_400,
		Funds:             sdk.NewCoins(lp),
	})
	require.NoError(t, err)

	w := get(t, server, "/api/positions/"+user.String()+"?open_only=true")
	require.Equal(t, http.StatusOK, w.Code)
	var positions incentivetypes.QueryPositionsResponse
	decode(t, w, &positions)
	require.Len(t, positions.Positions, 1)
	assert.Equal(t, lp, positions.Positions[0].LpAsset)

	w = get(t, server, "/api/rewards/"+user.String())
	require.Equal(t, http.StatusOK, w.Code)
	var rewards incentivetypes.QueryRewardsResponse
	decode(t, w, &rewards)
	assert.True(t, rewards.Rewards.IsZero())

	assert.Equal(t, http.StatusBadRequest, get(t, server, "/api/positions/not-an-address").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, server, "/api/rewards/not-an-address").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, server, "/api/positions/"+user.String()+"?open_only=maybe").Code)
}

func TestBonding(t *testing.T) {
	server, f := setupTestServer(t, nil)
	addr := f.Addrs(1)[0]
	f.Fund(addr, sdk.NewInt64Coin("ampWHALE", 1_000))
	f.AdvanceEpoch()
	require.NoError(t, f.App.BondingKeeper.Bond(f.Ctx(), addr.String(), sdk.NewInt64Coin("ampWHALE", 1_000)))

	w := get(t, server, "/api/bonding/"+addr.String())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.BondingResponse
	decode(t, w, &resp)
	assert.Equal(t, "1000ampWHALE", resp.Bonded.String())
	assert.Len(t, resp.Bonds, 1)
	assert.Empty(t, resp.Unbonding)
	assert.Equal(t, uint64(1), resp.Weight.EpochID)
	assert.Equal(t, int64(1_000), resp.Weight.Weight.Int64())
}

func TestVaultsAndTreasury(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	w := get(t, server, "/api/vaults")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, get(t, server, "/api/vaults/usdc").Code)
	assert.Equal(t, http.StatusOK, get(t, server, "/api/treasury").Code)
}

func TestHealth(t *testing.T) {
	server, f := setupTestServer(t, nil)

	w := get(t, server, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	var resp api.HealthResponse
	decode(t, w, &resp)
	assert.Equal(t, "healthy", resp.Status)

	// the fixture chain stopped producing blocks in 2024
	checker, err := health.NewChecker(log.NewNopLogger(), health.DefaultConfig(), f.App)
	require.NoError(t, err)
	withChecker, err := api.NewServer(log.NewNopLogger(), f.App, f.App.Queries, checker, api.DefaultConfig())
	require.NoError(t, err)

	w = get(t, withChecker, "/api/health")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, "unhealthy", resp.Status)
	require.NotNil(t, resp.Node)
	assert.Contains(t, resp.Node.Components, "epochs")
}

func TestRateLimit(t *testing.T) {
	server, _ := setupTestServer(t, func(c *api.Config) {
		c.RateLimitRPS = 0.001
		c.RateLimitBurst = 2
	})

	assert.Equal(t, http.StatusOK, get(t, server, "/api/epochs/current").Code)
	assert.Equal(t, http.StatusOK, get(t, server, "/api/epochs/current").Code)

	w := get(t, server, "/api/epochs/current")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestCORSPreflight(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/flows", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/flows", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	server, _ := setupTestServer(t, nil)

	w := get(t, server, "/api/epochs/current")
	assert.NotEmpty(t, w.Header().Get(api.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/epochs/current", nil)
	req.Header.Set(api.RequestIDHeader, "trace-1")
	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	assert.Equal(t, "trace-1", w.Header().Get(api.RequestIDHeader))
}

func TestConfigValidate(t *testing.T) {
	config := api.DefaultConfig()
	require.NoError(t, config.Validate())

	config.Port = 0
	require.Error(t, config.Validate())

	config = api.DefaultConfig()
	config.RateLimitBurst = 0
	require.Error(t, config.Validate())
}
