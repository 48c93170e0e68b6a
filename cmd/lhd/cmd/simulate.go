package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paw-chain/liquidityhub/app"
	"github.com/paw-chain/liquidityhub/simapp"
)

const (
	flagSeed     = "seed"
	flagEpochs   = "epochs"
	flagAccounts = "accounts"
	flagOutput   = "output"
)

// scenarioBindings maps the scenario flags shared by simulate and serve onto config keys
const scenarioBindings = flagSeed + "=scenario.seed," +
	flagEpochs + "=scenario.epochs," +
	flagAccounts + "=scenario.accounts"

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Int64(flagSeed, 0, "random seed of the scenario (overrides scenario.seed)")
	cmd.Flags().Uint64(flagEpochs, 0, "number of epochs to simulate (overrides scenario.epochs)")
	cmd.Flags().Int(flagAccounts, 0, "number of simulated accounts (overrides scenario.accounts)")
}

// SimulateCmd replays the configured scenario and prints the run summary as JSON
func SimulateCmd(cctx *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the configured scenario against an in-memory liquidity hub",
		Long: `Run the configured scenario against an in-memory liquidity hub. Every block carries
random user operations; module invariants are asserted as configured. The run summary is
printed as JSON.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationBindings: scenarioBindings},
		RunE: func(cmd *cobra.Command, _ []string) error {
			config := cctx.config
			runner, err := simapp.NewRunner(cctx.logger, config.Scenario, app.WithChainID(config.ChainID))
			if err != nil {
				return err
			}
			summary, err := runner.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("simulation %s: %w", runner.RunID(), err)
			}

			bz, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			output, err := cmd.Flags().GetString(flagOutput)
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, append(bz, '\n'), 0o644)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().String(flagOutput, "", "write the summary to this file instead of stdout")
	return cmd
}
