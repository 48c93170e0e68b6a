// Package health provides health check endpoints for a liquidity hub node.
//
// The checker inspects the state machine directly:
// - block production and the age of the last block
// - epoch progress (hooks run once per epoch, a lagging epoch means missed distributions)
// - telemetry exporters
// - module invariants (detailed check only)
//
// The health check system supports multiple endpoints:
// - /health - Basic liveness check
// - /health/ready - Readiness check for load balancers
// - /health/detailed - Comprehensive status with invariants
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"

	epochstypes "github.com/paw-chain/liquidityhub/x/epochs/types"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// Node is the view of the state machine the checker inspects. It is implemented by *app.App.
type Node interface {
	LastBlockHeight() int64
	LastBlockTime() time.Time
	CurrentEpoch() (epochstypes.Epoch, time.Duration, error)
	AssertInvariants() error
	TelemetryHealth() error
}

// Checker performs health checks on the node components
type Checker struct {
	logger  log.Logger
	node    Node
	version string
	now     func() time.Time

	// Thresholds for health determination
	maxBlockAge   time.Duration
	maxEpochLag   uint64
	cacheDuration time.Duration

	mu           sync.RWMutex
	lastCheck    time.Time
	cachedHealth *HealthCheck
}

// Config holds configuration for the health checker
type Config struct {
	// MaxBlockAge is the maximum age of the last block before the node is unhealthy
	MaxBlockAge time.Duration `mapstructure:"max_block_age" toml:"max_block_age"`

	// MaxEpochLag is the number of epochs the current epoch may trail the block time
	// before the node is marked as degraded
	MaxEpochLag uint64 `mapstructure:"max_epoch_lag" toml:"max_epoch_lag"`

	// CacheDuration is how long to cache health check results
	CacheDuration time.Duration `mapstructure:"cache_duration" toml:"cache_duration"`

	// Version is reported in every health response
	Version string `mapstructure:"version" toml:"version"`
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{
		MaxBlockAge:   5 * time.Minute,
		MaxEpochLag:   1,
		CacheDuration: 5 * time.Second,
	}
}

// NewChecker creates a new health checker
func NewChecker(logger log.Logger, cfg Config, node Node) (*Checker, error) {
	if node == nil {
		return nil, fmt.Errorf("node is required")
	}
	if cfg.MaxBlockAge <= 0 {
		return nil, fmt.Errorf("max block age must be positive")
	}

	return &Checker{
		logger:        logger,
		node:          node,
		version:       cfg.Version,
		now:           time.Now,
		maxBlockAge:   cfg.MaxBlockAge,
		maxEpochLag:   cfg.MaxEpochLag,
		cacheDuration: cfg.CacheDuration,
	}, nil
}

// Check performs a health check. The detailed check also asserts the module invariants
// and is never served from the cache.
func (c *Checker) Check(ctx context.Context, detailed bool) (*HealthCheck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Return cached result if still valid
	if !detailed && c.shouldUseCached() {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.cachedHealth, nil
	}

	health := &HealthCheck{
		Timestamp:  c.now(),
		Version:    c.version,
		Components: make(map[string]ComponentHealth),
	}

	checks := []struct {
		name string
		fn   func() ComponentHealth
	}{
		{"blocks", c.checkBlocks},
		{"epochs", c.checkEpochs},
		{"telemetry", c.checkTelemetry},
	}
	if detailed {
		checks = append(checks, struct {
			name string
			fn   func() ComponentHealth
		}{"invariants", c.checkInvariants})
	}

	for _, check := range checks {
		health.Components[check.name] = check.fn()
	}
	health.Status = c.calculateOverallStatus(health.Components)

	if !detailed {
		c.mu.Lock()
		c.lastCheck = c.now()
		c.cachedHealth = health
		c.mu.Unlock()
	}
	return health, nil
}

// checkBlocks verifies that blocks are being produced
func (c *Checker) checkBlocks() ComponentHealth {
	height := c.node.LastBlockHeight()
	lastBlock := c.node.LastBlockTime()

	metrics := map[string]interface{}{
		"latest_block_height": height,
	}
	if height == 0 || lastBlock.IsZero() {
		return ComponentHealth{
			Status:    StatusDegraded,
			Message:   "No block committed yet",
			Timestamp: c.now(),
			Metrics:   metrics,
		}
	}

	metrics["latest_block_time"] = lastBlock.Format(time.RFC3339)
	blockAge := c.now().Sub(lastBlock)
	if blockAge > c.maxBlockAge {
		metrics["block_age_seconds"] = blockAge.Seconds()
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   fmt.Sprintf("Node is stale (last block %.1f minutes ago)", blockAge.Minutes()),
			Timestamp: c.now(),
			Metrics:   metrics,
		}
	}

	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "Blocks are being produced",
		Timestamp: c.now(),
		Metrics:   metrics,
	}
}

// checkEpochs verifies that the current epoch keeps up with the block time
func (c *Checker) checkEpochs() ComponentHealth {
	epoch, duration, err := c.node.CurrentEpoch()
	if err != nil {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   fmt.Sprintf("Failed to load current epoch: %v", err),
			Timestamp: c.now(),
		}
	}

	metrics := map[string]interface{}{
		"current_epoch":    epoch.ID,
		"epoch_start_time": epoch.StartTime.Format(time.RFC3339),
	}

	blockTime := c.node.LastBlockTime()
	var lag uint64
	if duration > 0 && blockTime.After(epoch.EndTime(duration)) {
		lag = uint64(blockTime.Sub(epoch.StartTime) / duration)
	}
	metrics["epoch_lag"] = lag

	if lag > c.maxEpochLag {
		return ComponentHealth{
			Status:    StatusDegraded,
			Message:   fmt.Sprintf("Epochs are catching up (%d behind)", lag),
			Timestamp: c.now(),
			Metrics:   metrics,
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "Epochs are up to date",
		Timestamp: c.now(),
		Metrics:   metrics,
	}
}

// checkTelemetry verifies the tracing and metrics exporters
func (c *Checker) checkTelemetry() ComponentHealth {
	if err := c.node.TelemetryHealth(); err != nil {
		return ComponentHealth{
			Status:    StatusDegraded,
			Message:   fmt.Sprintf("Telemetry unavailable: %v", err),
			Timestamp: c.now(),
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "Telemetry is operational",
		Timestamp: c.now(),
	}
}

// checkInvariants asserts every registered module invariant
func (c *Checker) checkInvariants() ComponentHealth {
	if err := c.node.AssertInvariants(); err != nil {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   err.Error(),
			Timestamp: c.now(),
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "All invariants hold",
		Timestamp: c.now(),
	}
}

// calculateOverallStatus determines the overall health status based on component statuses
func (c *Checker) calculateOverallStatus(components map[string]ComponentHealth) Status {
	hasUnhealthy := false
	hasDegraded := false

	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded, StatusUnknown:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return StatusUnhealthy
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// shouldUseCached determines if cached health check results should be used
func (c *Checker) shouldUseCached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachedHealth == nil {
		return false
	}

	return c.now().Sub(c.lastCheck) < c.cacheDuration
}

// RegisterRoutes registers health check endpoints on router
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleHealth).Methods("GET")
	router.HandleFunc("/health/ready", c.handleHealthReady).Methods("GET")
	router.HandleFunc("/health/detailed", c.handleHealthDetailed).Methods("GET")
}

// handleHealth handles the basic liveness check endpoint
func (c *Checker) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": c.now().Format(time.RFC3339),
	})
}

// handleHealthReady handles the readiness check endpoint
func (c *Checker) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	c.serveCheck(w, r, false)
}

// handleHealthDetailed handles the detailed health check endpoint
func (c *Checker) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	c.serveCheck(w, r, true)
}

func (c *Checker) serveCheck(w http.ResponseWriter, r *http.Request, detailed bool) {
	health, err := c.Check(r.Context(), detailed)
	if err != nil {
		c.logger.Error("Health check failed", "detailed", detailed, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	// a degraded node is still ready
	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, health)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
