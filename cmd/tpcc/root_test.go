package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pingcap-incubator/tinytpcc/config"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc"
	"github.com/pingcap-incubator/tinytpcc/kv/transaction"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsedRootCommand(t *testing.T, args ...string) *cobra.Command {
	configFile, propertyValues = "", nil
	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestInitialConfigLayers(t *testing.T) {
	dir, err := ioutil.TempDir("", "tpcc")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "tpcc.toml")
	require.NoError(t, ioutil.WriteFile(path, []byte(`
threads = 2
transactions = 1000

[workload]
target-tps = 5

[measurement]
warmup = "1s"
`), 0644))

	cmd := parsedRootCommand(t, "--config", path, "-p", "workload.target-tps=50", "-p", "mode=partitioned", "--threads", "3")
	cfg, err := initialConfig(cmd, []string{"4"})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Warehouses)
	assert.Equal(t, 3, cfg.Threads)
	assert.Equal(t, int64(1000), cfg.Transactions)
	assert.Equal(t, config.ModePartitioned, cfg.Mode)
	assert.Equal(t, 50, cfg.Workload.TargetTPS)
	assert.Equal(t, time.Second, cfg.Measurement.Warmup.Duration)
	assert.NotZero(t, cfg.Seed)
}

func TestInitialConfigDefaults(t *testing.T) {
	cmd := parsedRootCommand(t)
	cfg, err := initialConfig(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Warehouses)
	assert.Equal(t, 1, cfg.Threads)
	assert.Equal(t, int64(200000), cfg.Transactions)
	assert.Equal(t, config.ModeSerial, cfg.Mode)
}

func TestInitialConfigErrors(t *testing.T) {
	_, err := initialConfig(parsedRootCommand(t), []string{"0"})
	assert.Error(t, err)

	_, err = initialConfig(parsedRootCommand(t, "--mode", "parallel"), nil)
	assert.Error(t, err)

	_, err = initialConfig(parsedRootCommand(t, "-p", "threads"), nil)
	assert.Error(t, err)

	_, err = initialConfig(parsedRootCommand(t, "--config", "/nonexistent/tpcc.toml"), nil)
	assert.Error(t, err)
}

func TestWrapTables(t *testing.T) {
	tables := tpcc.NewTables()
	_, ok := wrapTables(config.ModePartitioned, tables).(*transaction.Partitioned)
	assert.True(t, ok)
	_, ok = wrapTables(config.ModeSerial, tables).(*transaction.Serial)
	assert.True(t, ok)
}
