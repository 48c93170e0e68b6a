package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		api.GET("/epochs/current", s.handleGetCurrentEpoch)

		// Incentive flows and positions
		flows := api.Group("/flows")
		{
			flows.GET("", s.handleGetFlows)
			flows.GET("/:id", s.handleGetFlow)
		}
		api.GET("/positions/:owner", s.handleGetPositions)
		api.GET("/rewards/:address", s.handleGetRewards)

		api.GET("/bonding/:address", s.handleGetBonding)

		vaults := api.Group("/vaults")
		{
			vaults.GET("", s.handleGetVaults)
			vaults.GET("/:id", s.handleGetVault)
		}

		api.GET("/treasury", s.handleGetTreasury)
	}
}
