package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/liquidityhub/app/health"
	"github.com/paw-chain/liquidityhub/simapp"
)

// execute runs lhd with args and returns its stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// smallConfig writes a config with a short scenario into a new home
func smallConfig(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	config := DefaultConfig()
	config.Scenario.GenesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	config.Scenario.Accounts = 3
	config.Scenario.Epochs = 2
	config.Scenario.BlocksPerEpoch = 2
	require.NoError(t, WriteConfig(ConfigPath(home), config))
	return home
}

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	config := DefaultConfig()
	config.LogFormat = "xml"
	require.Error(t, config.Validate())

	config = DefaultConfig()
	config.Node.BlockInterval = 0
	require.Error(t, config.Validate())
}

func TestConfigInitWritesLoadableDefaults(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, "config", "init", "--home", home)
	require.NoError(t, err)
	require.Contains(t, out, ConfigPath(home))

	loaded, err := LoadConfig(ConfigPath(home))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), loaded)

	_, err = execute(t, "config", "init", "--home", home)
	require.ErrorContains(t, err, "already exists")

	_, err = execute(t, "config", "init", "--home", home, "--force")
	require.NoError(t, err)
}

func TestConfigInitIgnoresBrokenConfig(t *testing.T) {
	home := t.TempDir()
	path := ConfigPath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[api]\nport = 0\n"), 0o644))

	_, err := execute(t, "config", "show", "--home", home)
	require.ErrorContains(t, err, "invalid config")

	_, err = execute(t, "config", "init", "--home", home, "--force")
	require.NoError(t, err)
	_, err = execute(t, "config", "show", "--home", home)
	require.NoError(t, err)
}

func TestLoadConfigWithoutFileUsesDefaults(t *testing.T) {
	loaded, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), loaded)
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, err := execute(t, "config", "show", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestPartialConfigFileKeepsOtherDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lhd.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nport = 8080\n\n[scenario]\nepochs = 3\n"), 0o644))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 8080, loaded.API.Port)
	require.Equal(t, uint64(3), loaded.Scenario.Epochs)
	require.Equal(t, DefaultConfig().API.Host, loaded.API.Host)
	require.Equal(t, DefaultConfig().Scenario.EpochDuration, loaded.Scenario.EpochDuration)
}

func TestEnvironmentOverridesConfigFile(t *testing.T) {
	home := smallConfig(t)
	t.Setenv("LHD_API_PORT", "9090")
	t.Setenv("LHD_SCENARIO_SEED", "7")

	loaded, err := LoadConfig(ConfigPath(home))
	require.NoError(t, err)
	require.Equal(t, 9090, loaded.API.Port)
	require.Equal(t, int64(7), loaded.Scenario.Seed)
	require.Equal(t, uint64(2), loaded.Scenario.Epochs)
}

func TestConfigGet(t *testing.T) {
	home := smallConfig(t)

	out, err := execute(t, "config", "get", "scenario.epochs", "--home", home)
	require.NoError(t, err)
	require.Equal(t, "2", strings.TrimSpace(out))

	out, err = execute(t, "config", "get", "log_level", "--home", home, "--log-level", "debug")
	require.NoError(t, err)
	require.Equal(t, "debug", strings.TrimSpace(out))

	_, err = execute(t, "config", "get", "api.nope", "--home", home)
	require.ErrorContains(t, err, "unknown config key")
}

func TestInvalidLogLevel(t *testing.T) {
	home := smallConfig(t)
	_, err := execute(t, "config", "show", "--home", home, "--log-level", "loud")
	require.ErrorContains(t, err, "invalid log level")

	_, err = execute(t, "config", "show", "--home", home, "--log-level", "x/incentive:debug,*:error")
	require.NoError(t, err)
}

func TestSimulatePrintsSummary(t *testing.T) {
	home := smallConfig(t)

	out, err := execute(t, "simulate", "--home", home, "--log-level", "error")
	require.NoError(t, err)

	var summary simapp.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary), out)
	require.NotEmpty(t, summary.RunID)
	require.Equal(t, uint64(2), summary.Epoch)
	require.Equal(t, int64(5), summary.Height)
	require.Equal(t, 3, summary.Accounts)
}

func TestSimulateFlagsOverrideScenario(t *testing.T) {
	home := smallConfig(t)
	output := filepath.Join(t.TempDir(), "summary.json")

	_, err := execute(t, "simulate", "--home", home, "--log-level", "error",
		"--epochs", "3", "--accounts", "2", "--seed", "9", "--output", output)
	require.NoError(t, err)

	bz, err := os.ReadFile(output)
	require.NoError(t, err)
	var summary simapp.Summary
	require.NoError(t, json.Unmarshal(bz, &summary))
	require.Equal(t, uint64(3), summary.Epoch)
	require.Equal(t, 2, summary.Accounts)
	require.Equal(t, int64(9), summary.Seed)
}

func TestMetricsRouter(t *testing.T) {
	scenario := simapp.DefaultScenario()
	scenario.GenesisTime = time.Now().UTC()
	runner, err := simapp.NewRunner(log.NewNopLogger(), scenario)
	require.NoError(t, err)
	checker, err := health.NewChecker(log.NewNopLogger(), health.DefaultConfig(), runner.App())
	require.NoError(t, err)

	var accessLog bytes.Buffer
	router := newMetricsRouter(checker, &accessLog)

	blocksProduced.Inc()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "liquidityhub_node_blocks_produced_total")

	// the genesis block was just committed
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var check health.HealthCheck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &check))
	require.NotEqual(t, health.StatusUnhealthy, check.Status)

	require.Contains(t, accessLog.String(), "GET /metrics")
}
