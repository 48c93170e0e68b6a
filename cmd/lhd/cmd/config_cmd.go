package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

const (
	// annotationSkipDecode lets a command run without a valid effective config
	annotationSkipDecode = "lhd/skip-decode"
	// annotationBindings lists flag=key pairs bound to config keys before decoding
	annotationBindings = "lhd/bindings"

	flagForce = "force"
)

func parseBindings(raw string) map[string]string {
	bindings := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		flagName, key, ok := strings.Cut(pair, "=")
		if ok {
			bindings[flagName] = key
		}
	}
	return bindings
}

// ConfigCmd groups the config file commands
func ConfigCmd(cctx *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the lhd configuration file",
	}
	cmd.AddCommand(
		configInitCmd(cctx),
		configShowCmd(cctx),
		configGetCmd(cctx),
	)
	return cmd
}

func configInitCmd(cctx *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the default configuration to the config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipDecode: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, err := cmd.Flags().GetBool(flagForce)
			if err != nil {
				return err
			}
			if _, err := os.Stat(cctx.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --%s to overwrite it", cctx.configPath, flagForce)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			if err := WriteConfig(cctx.configPath, DefaultConfig()); err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", cctx.configPath)
			return nil
		},
	}
	cmd.Flags().Bool(flagForce, false, "overwrite an existing config file")
	return cmd
}

func configShowCmd(cctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration, with environment and flag overrides applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bz, err := EncodeConfig(cctx.config)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(bz)
			return err
		},
	}
}

func configGetCmd(cctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:     "get [key]",
		Short:   "Print one effective configuration value",
		Example: "lhd config get api.port",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(args[0])
			if !cctx.viper.IsSet(key) {
				return fmt.Errorf("unknown config key %q", key)
			}
			value, err := cast.ToStringE(cctx.viper.Get(key))
			if err != nil {
				// tables and arrays
				value = fmt.Sprint(cctx.viper.Get(key))
			}
			cmd.Println(value)
			return nil
		},
	}
}
