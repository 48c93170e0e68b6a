package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/paw-chain/liquidityhub/api"
	"github.com/paw-chain/liquidityhub/app"
	"github.com/paw-chain/liquidityhub/app/health"
	"github.com/paw-chain/liquidityhub/app/telemetry"
	"github.com/paw-chain/liquidityhub/simapp"
)

const (
	// EnvPrefix prefixes every environment override, e.g. LHD_API_PORT
	EnvPrefix = "LHD"

	configDirName  = "config"
	configFileName = "lhd.toml"
)

// Config is the off-chain configuration of lhd
type Config struct {
	ChainID   string `mapstructure:"chain_id" toml:"chain_id"`
	LogLevel  string `mapstructure:"log_level" toml:"log_level"`
	LogFormat string `mapstructure:"log_format" toml:"log_format"`

	Scenario  simapp.Scenario  `mapstructure:"scenario" toml:"scenario"`
	Node      NodeConfig       `mapstructure:"node" toml:"node"`
	API       api.Config       `mapstructure:"api" toml:"api"`
	Health    health.Config    `mapstructure:"health" toml:"health"`
	Metrics   MetricsConfig    `mapstructure:"metrics" toml:"metrics"`
	Telemetry telemetry.Config `mapstructure:"telemetry" toml:"telemetry"`
}

// NodeConfig controls block production once the scenario is replayed by serve
type NodeConfig struct {
	BlockInterval time.Duration `mapstructure:"block_interval" toml:"block_interval"`
}

// MetricsConfig controls the Prometheus and health endpoint server
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled"`
	Port    int  `mapstructure:"port" toml:"port"`
}

// DefaultConfig returns the configuration written by `lhd config init`
func DefaultConfig() Config {
	return Config{
		ChainID:   app.DefaultChainID,
		LogLevel:  "info",
		LogFormat: "plain",
		Scenario:  simapp.DefaultScenario(),
		Node:      NodeConfig{BlockInterval: 5 * time.Second},
		API:       api.DefaultConfig(),
		Health:    health.DefaultConfig(),
		Metrics:   MetricsConfig{Enabled: true, Port: 36660},
		Telemetry: telemetry.Config{
			SampleRate:  1.0,
			Environment: "development",
			ChainID:     app.DefaultChainID,
		},
	}
}

// Validate checks the configuration can start lhd
func (c Config) Validate() error {
	if c.ChainID == "" {
		return errors.New("chain_id is required")
	}
	switch c.LogFormat {
	case "plain", "json":
	default:
		return fmt.Errorf("log_format must be plain or json, got %q", c.LogFormat)
	}
	if err := c.Scenario.Validate(); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	if c.Node.BlockInterval <= 0 {
		return fmt.Errorf("node.block_interval must be positive, got %s", c.Node.BlockInterval)
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("metrics.port out of range: %d", c.Metrics.Port)
	}
	return nil
}

// DefaultHome is the lhd home directory, $HOME/.lhd
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lhd"
	}
	return filepath.Join(home, ".lhd")
}

// ConfigPath returns the config file location inside home
func ConfigPath(home string) string {
	return filepath.Join(home, configDirName, configFileName)
}

// EncodeConfig renders the configuration as TOML
func EncodeConfig(c Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteConfig writes c to path, creating its directory
func WriteConfig(path string, c Config) error {
	bz, err := EncodeConfig(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, bz, 0o644)
}

// newViper returns a viper instance holding every default key, so that environment
// variables can override keys missing from the config file.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults, err := EncodeConfig(DefaultConfig())
	if err != nil {
		return nil, err
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	return v, nil
}

// mergeConfigFile merges the file at path over the defaults. A missing file is not an
// error when optional is set.
func mergeConfigFile(v *viper.Viper, path string, optional bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && optional {
			return nil
		}
		return fmt.Errorf("config file: %w", err)
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// decodeConfig unmarshals and validates the effective configuration
func decodeConfig(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if c.Scenario.GenesisTime.IsZero() {
		c.Scenario.GenesisTime = time.Time{}
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// LoadConfig reads the config file at path over the defaults and applies the LHD_
// environment overrides. The file is optional.
func LoadConfig(path string) (Config, error) {
	v, err := newViper()
	if err != nil {
		return Config{}, err
	}
	if err := mergeConfigFile(v, path, true); err != nil {
		return Config{}, err
	}
	return decodeConfig(v)
}
