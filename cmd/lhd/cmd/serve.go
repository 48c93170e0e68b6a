package cmd

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/paw-chain/liquidityhub/api"
	"github.com/paw-chain/liquidityhub/app"
	"github.com/paw-chain/liquidityhub/app/health"
	"github.com/paw-chain/liquidityhub/app/telemetry"
	"github.com/paw-chain/liquidityhub/simapp"
)

// ServeCmd replays the scenario, then keeps producing blocks in real time while serving
// the query API and the metrics endpoints.
func ServeCmd(cctx *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Replay the scenario and serve the resulting state over the query API",
		Long: `Replay the configured scenario so that its last block lands at the current time, then
keep committing a block every node.block_interval with fresh random operations. The query API,
Prometheus metrics and health endpoints are served until the process is interrupted.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationBindings: scenarioBindings},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cctx.logger, cctx.config)
		},
	}
	addScenarioFlags(cmd)
	return cmd
}

func serve(ctx context.Context, logger log.Logger, config Config) error {
	config.Telemetry.ChainID = config.ChainID
	provider, err := telemetry.NewProvider(config.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	// the replay ends now, so that the health checker sees a live chain
	scenario := config.Scenario
	scenario.GenesisTime = time.Time{}
	runner, err := simapp.NewRunner(logger, scenario, app.WithChainID(config.ChainID), app.WithTelemetry(provider))
	if err != nil {
		return err
	}
	summary, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("replay %s: %w", runner.RunID(), err)
	}
	logger.Info("scenario replayed", "run_id", summary.RunID, "height", summary.Height, "epoch", summary.Epoch, "flows", summary.Flows)

	lhApp := runner.App()
	checker, err := health.NewChecker(logger, config.Health, lhApp)
	if err != nil {
		return err
	}
	server, err := api.NewServer(logger, lhApp, lhApp.Queries, checker, config.API)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(ctx)
	})
	if config.Metrics.Enabled {
		g.Go(func() error {
			return serveMetrics(ctx, logger, config.Metrics.Port, newMetricsRouter(checker, logWriter{logger}))
		})
	}
	g.Go(func() error {
		return produceBlocks(ctx, logger, runner, config.Node.BlockInterval)
	})
	return g.Wait()
}

// produceBlocks commits a block at wall clock time every interval until ctx is done. A
// failing block is logged and retried at the next tick.
func produceBlocks(ctx context.Context, logger log.Logger, runner *simapp.Runner, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if err := runner.Step(now.UTC()); err != nil {
				blockFailures.Inc()
				logger.Error("failed to produce block", "error", err)
				continue
			}
			blocksProduced.Inc()
			lastBlockHeight.Set(float64(runner.App().LastBlockHeight()))
		}
	}
}

// logWriter forwards access log lines to the logger
type logWriter struct {
	logger log.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.logger.Debug("metrics request", "line", string(trimNewline(p)))
	return len(p), nil
}

func trimNewline(p []byte) []byte {
	if n := len(p); n > 0 && p[n-1] == '\n' {
		return p[:n-1]
	}
	return p
}
