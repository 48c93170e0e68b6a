package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	epochstypes "github.com/paw-chain/liquidityhub/x/epochs/types"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type stubNode struct {
	height       int64
	blockTime    time.Time
	epoch        epochstypes.Epoch
	duration     time.Duration
	epochErr     error
	invariantErr error
	telemetryErr error
}

func (n *stubNode) LastBlockHeight() int64   { return n.height }
func (n *stubNode) LastBlockTime() time.Time { return n.blockTime }
func (n *stubNode) AssertInvariants() error  { return n.invariantErr }
func (n *stubNode) TelemetryHealth() error   { return n.telemetryErr }
func (n *stubNode) CurrentEpoch() (epochstypes.Epoch, time.Duration, error) {
	return n.epoch, n.duration, n.epochErr
}

func healthyNode() *stubNode {
	return &stubNode{
		height:    42,
		blockTime: baseTime.Add(-10 * time.Second),
		epoch:     epochstypes.Epoch{ID: 3, StartTime: baseTime.Add(-time.Hour)},
		duration:  24 * time.Hour,
	}
}

type HealthCheckTestSuite struct {
	suite.Suite
	node    *stubNode
	checker *Checker
}

func TestHealthCheckTestSuite(t *testing.T) {
	suite.Run(t, new(HealthCheckTestSuite))
}

func (suite *HealthCheckTestSuite) SetupTest() {
	suite.node = healthyNode()

	checker, err := NewChecker(log.NewNopLogger(), DefaultConfig(), suite.node)
	suite.Require().NoError(err)
	checker.now = func() time.Time { return baseTime }
	suite.checker = checker
}

func (suite *HealthCheckTestSuite) TestHealthyNode() {
	health, err := suite.checker.Check(context.Background(), false)
	suite.Require().NoError(err)
	suite.Require().Equal(StatusHealthy, health.Status)
	suite.Require().Len(health.Components, 3)
	suite.Require().NotContains(health.Components, "invariants")
}

func (suite *HealthCheckTestSuite) TestStaleBlock() {
	suite.node.blockTime = baseTime.Add(-time.Hour)

	health, err := suite.checker.Check(context.Background(), false)
	suite.Require().NoError(err)
	suite.Require().Equal(StatusUnhealthy, health.Status)
	suite.Require().Equal(StatusUnhealthy, health.Components["blocks"].Status)
}

func (suite *HealthCheckTestSuite) TestNoBlockYet() {
	suite.node.height = 0
	suite.node.blockTime = time.Time{}

	health, err := suite.checker.Check(context.Background(), false)
	suite.Require().NoError(err)
	suite.Require().Equal(StatusDegraded, health.Components["blocks"].Status)
}

func (suite *HealthCheckTestSuite) TestEpochLag() {
	// the block time is three epochs past the start of the current epoch
	suite.node.epoch.StartTime = baseTime.Add(-72 * time.Hour)

	health, err := suite.checker.Check(context.Background(), false)
	suite.Require().NoError(err)
	suite.Require().Equal(StatusDegraded, health.Status)
	suite.Require().Equal(uint64(2), health.Components["epochs"].Metrics["epoch_lag"])
}

func (suite *HealthCheckTestSuite) TestEpochError() {
	suite.node.epochErr = errors.New("current epoch not initialized")

	health, err := suite.checker.Check(context.Background(), false)
	suite.Require().NoError(err)
	suite.Require().Equal(StatusUnhealthy, health.Components["epochs"].Status)
}

func (suite *HealthCheckTestSuite) TestTelemetryDegraded() {
	suite.node.telemetryErr = errors.New("tracer provider not initialized")

	health, err := suite.checker.Check(context.Background(), false)
	suite.Require().NoError(err)
	suite.Require().Equal(StatusDegraded, health.Status)
}

func (suite *HealthCheckTestSuite) TestDetailedAssertsInvariants() {
	suite.node.invariantErr = errors.New("incentive/weight-balance: mismatch")

	health, err := suite.checker.Check(context.Background(), true)
	suite.Require().NoError(err)
	suite.Require().Equal(StatusUnhealthy, health.Status)
	suite.Require().Contains(health.Components["invariants"].Message, "weight-balance")
}

func (suite *HealthCheckTestSuite) TestCachedResult() {
	first, err := suite.checker.Check(context.Background(), false)
	suite.Require().NoError(err)

	// a change within the cache window is not observed
	suite.node.blockTime = baseTime.Add(-time.Hour)
	second, err := suite.checker.Check(context.Background(), false)
	suite.Require().NoError(err)
	suite.Require().Same(first, second)

	suite.checker.now = func() time.Time { return baseTime.Add(10 * time.Second) }
	third, err := suite.checker.Check(context.Background(), false)
	suite.Require().NoError(err)
	suite.Require().Equal(StatusUnhealthy, third.Status)
}

func (suite *HealthCheckTestSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.checker.Check(ctx, false)
	suite.Require().ErrorIs(err, context.Canceled)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, 5*time.Minute, cfg.MaxBlockAge)
	require.Equal(t, uint64(1), cfg.MaxEpochLag)
	require.Equal(t, 5*time.Second, cfg.CacheDuration)
}

func TestNewChecker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   Config
		node     Node
		errorMsg string
	}{
		{name: "valid config", config: DefaultConfig(), node: healthyNode()},
		{name: "missing node", config: DefaultConfig(), errorMsg: "node is required"},
		{name: "zero block age", config: Config{CacheDuration: time.Second}, node: healthyNode(), errorMsg: "max block age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker, err := NewChecker(log.NewNopLogger(), tt.config, tt.node)
			if tt.errorMsg != "" {
				require.ErrorContains(t, err, tt.errorMsg)
				require.Nil(t, checker)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.config.MaxBlockAge, checker.maxBlockAge)
		})
	}
}

func TestCalculateOverallStatus(t *testing.T) {
	checker := &Checker{}

	tests := []struct {
		name       string
		components map[string]ComponentHealth
		expected   Status
	}{
		{
			name: "all healthy",
			components: map[string]ComponentHealth{
				"blocks": {Status: StatusHealthy},
				"epochs": {Status: StatusHealthy},
			},
			expected: StatusHealthy,
		},
		{
			name: "one degraded",
			components: map[string]ComponentHealth{
				"blocks": {Status: StatusHealthy},
				"epochs": {Status: StatusDegraded},
			},
			expected: StatusDegraded,
		},
		{
			name: "unknown counts as degraded",
			components: map[string]ComponentHealth{
				"telemetry": {Status: StatusUnknown},
			},
			expected: StatusDegraded,
		},
		{
			name: "unhealthy wins",
			components: map[string]ComponentHealth{
				"blocks": {Status: StatusUnhealthy},
				"epochs": {Status: StatusDegraded},
			},
			expected: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, checker.calculateOverallStatus(tt.components))
		})
	}
}

func TestRegisterRoutes(t *testing.T) {
	node := healthyNode()
	checker, err := NewChecker(log.NewNopLogger(), DefaultConfig(), node)
	require.NoError(t, err)
	checker.now = func() time.Time { return baseTime }

	router := mux.NewRouter()
	checker.RegisterRoutes(router)

	for _, route := range []string{"/health", "/health/ready", "/health/detailed"} {
		req := httptest.NewRequest(http.MethodGet, route, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, route)
		require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	}

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestDetailedEndpointUnavailable(t *testing.T) {
	node := healthyNode()
	node.invariantErr = errors.New("vault/balance: broken")
	checker, err := NewChecker(log.NewNopLogger(), DefaultConfig(), node)
	require.NoError(t, err)
	checker.now = func() time.Time { return baseTime }

	router := mux.NewRouter()
	checker.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/health/detailed", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var health HealthCheck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	require.Equal(t, StatusUnhealthy, health.Status)

	// readiness does not assert invariants
	req = httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestConcurrentHealthChecks(t *testing.T) {
	checker, err := NewChecker(log.NewNopLogger(), DefaultConfig(), healthyNode())
	require.NoError(t, err)

	router := mux.NewRouter()
	checker.RegisterRoutes(router)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
		}()
	}
	wg.Wait()
}
