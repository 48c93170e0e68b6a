// Package cmd implements the lhd command line: scenario simulations of the liquidity hub
// and a query node serving the simulated state.
package cmd

import (
	"fmt"
	"io"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	flagHome      = "home"
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
)

// cliContext carries what PersistentPreRunE resolved to the subcommands
type cliContext struct {
	home       string
	configPath string
	viper      *viper.Viper
	config     Config
	logger     log.Logger
}

// persistentBindings maps persistent flags onto config keys
var persistentBindings = map[string]string{
	flagLogLevel:  "log_level",
	flagLogFormat: "log_format",
}

// NewRootCmd creates the lhd root command
func NewRootCmd() *cobra.Command {
	cctx := &cliContext{}

	rootCmd := &cobra.Command{
		Use:   "lhd",
		Short: "Liquidity hub daemon",
		Long: `lhd runs the liquidity hub state machine in memory: it replays simulated scenarios
of incentive flows, positions, bonding and vault activity, and serves the resulting state over
a read-only query API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return cctx.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagHome, DefaultHome(), "directory for config and data")
	flags.String(flagConfig, "", "config file (default <home>/config/lhd.toml)")
	flags.String(flagLogLevel, "info", "log level, or per module filter such as x/incentive:debug,*:info")
	flags.String(flagLogFormat, "plain", "log format (plain|json)")

	rootCmd.AddCommand(
		ConfigCmd(cctx),
		SimulateCmd(cctx),
		ServeCmd(cctx),
	)
	return rootCmd
}

// load resolves the config file, env overrides and flags of cmd into cctx
func (c *cliContext) load(cmd *cobra.Command) error {
	flags := cmd.Flags()
	home, err := flags.GetString(flagHome)
	if err != nil {
		return err
	}
	configPath, err := flags.GetString(flagConfig)
	if err != nil {
		return err
	}
	explicit := configPath != ""
	if !explicit {
		configPath = ConfigPath(home)
	}

	v, err := newViper()
	if err != nil {
		return err
	}
	if err := mergeConfigFile(v, configPath, !explicit); err != nil {
		return err
	}
	if err := bindFlags(v, flags, persistentBindings); err != nil {
		return err
	}
	if bindings, ok := cmd.Annotations[annotationBindings]; ok {
		if err := bindFlags(v, flags, parseBindings(bindings)); err != nil {
			return err
		}
	}

	c.home = home
	c.configPath = configPath
	c.viper = v

	// config init must work with a broken config file in place
	if cmd.Annotations[annotationSkipDecode] == "true" {
		c.logger = log.NewNopLogger()
		return nil
	}

	config, err := decodeConfig(v)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), config.LogLevel, config.LogFormat)
	if err != nil {
		return err
	}
	c.config = config
	c.logger = logger
	return nil
}

// bindFlags binds each flag to its config key. Only flags set on the command line
// override the config file.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings map[string]string) error {
	for flagName, key := range bindings {
		flag := flags.Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", flagName, err)
		}
	}
	return nil
}

// newLogger builds the process logger. level is either a zerolog level or a module
// filter understood by log.ParseLogLevel.
func newLogger(out io.Writer, level, format string) (log.Logger, error) {
	var opts []log.Option
	if format == "json" {
		opts = append(opts, log.OutputJSONOption())
	}
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		opts = append(opts, log.LevelOption(lvl))
	} else {
		filter, err := log.ParseLogLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		opts = append(opts, log.FilterOption(filter))
	}
	return log.NewLogger(out, opts...), nil
}
