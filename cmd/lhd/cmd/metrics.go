package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paw-chain/liquidityhub/app/health"
)

var (
	blocksProduced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "liquidityhub",
		Subsystem: "node",
		Name:      "blocks_produced_total",
		Help:      "Blocks committed by the serving node after the scenario replay",
	})

	blockFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "liquidityhub",
		Subsystem: "node",
		Name:      "block_failures_total",
		Help:      "Blocks that failed to commit",
	})

	lastBlockHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "liquidityhub",
		Subsystem: "node",
		Name:      "last_block_height",
		Help:      "Height of the last committed block",
	})
)

// newMetricsRouter serves /metrics and, when checker is set, the health endpoints
func newMetricsRouter(checker *health.Checker, accessLog io.Writer) http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	if checker != nil {
		checker.RegisterRoutes(router)
	}
	return handlers.RecoveryHandler()(handlers.CombinedLoggingHandler(accessLog, router))
}

// serveMetrics runs the metrics server on port until ctx is done
func serveMetrics(ctx context.Context, logger log.Logger, port int, handler http.Handler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting metrics server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
