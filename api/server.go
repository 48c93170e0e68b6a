// Package api serves read-only HTTP queries over the liquidity hub state: epochs, flows,
// positions, pending rewards, bonds and vaults.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/paw-chain/liquidityhub/app"
	"github.com/paw-chain/liquidityhub/app/health"
)

// Node runs queries against a branch of the current state. It is implemented by *app.App.
type Node interface {
	Query(fn func(ctx sdk.Context) error) error
}

// HealthChecker reports the health of the node
type HealthChecker interface {
	Check(ctx context.Context, detailed bool) (*health.HealthCheck, error)
}

// Server is the query API server
type Server struct {
	logger  log.Logger
	node    Node
	queries app.QueryServers
	health  HealthChecker
	config  Config

	router      *gin.Engine
	rateLimiter *RateLimiter
}

// Config holds server configuration
type Config struct {
	Host            string        `mapstructure:"host" toml:"host"`
	Port            int           `mapstructure:"port" toml:"port"`
	CORSOrigins     []string      `mapstructure:"cors_origins" toml:"cors_origins"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps" toml:"rate_limit_rps"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst" toml:"rate_limit_burst"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" toml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" toml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" toml:"shutdown_timeout"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            1317,
		CORSOrigins:     []string{"http://localhost:3000"},
		RateLimitRPS:    20,
		RateLimitBurst:  40,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Validate checks the server configuration
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return errors.New("rate limit must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst == 0 {
		return errors.New("rate limit burst must be positive when a rate is set")
	}
	return nil
}

// NewServer creates a new API server. checker may be nil, /api/health then only reports
// that the server is up.
func NewServer(logger log.Logger, node Node, queries app.QueryServers, checker HealthChecker, config Config) (*Server, error) {
	if node == nil {
		return nil, errors.New("node is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid api config: %w", err)
	}

	s := &Server{
		logger:  logger.With("module", "api"),
		node:    node,
		queries: queries,
		health:  checker,
		config:  config,
	}
	if config.RateLimitRPS > 0 {
		s.rateLimiter = NewRateLimiter(config.RateLimitRPS, config.RateLimitBurst)
	}
	s.setupRouter()
	return s, nil
}

// setupRouter configures the Gin router with all routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()

	// Recovery must be first to catch panics
	s.router.Use(gin.Recovery())
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	if s.rateLimiter != nil {
		s.router.Use(RateLimitMiddleware(s.rateLimiter))
	}

	s.registerRoutes()
}

// Handler returns the HTTP handler of the server with CORS applied
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         86400,
	})
	return c.Handler(s.router)
}

// Start serves the API until ctx is done, then shuts the server down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	if s.rateLimiter != nil {
		go s.rateLimiter.RunCleanup(ctx, time.Minute, 10*time.Minute)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting api server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}
	return nil
}
