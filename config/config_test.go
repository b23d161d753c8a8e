package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/magiconair/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "tpcc.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	c := NewDefaultConfig()
	require.NoError(t, c.Adjust())
	assert.Equal(t, ModeSerial, c.Mode)
	assert.Equal(t, int64(defaultTransactions), c.Transactions)
	assert.Equal(t, defaultRemoteItemMilliP, c.Workload.RemoteItemMilliP)
	assert.Equal(t, 10*time.Second, c.Measurement.LogInterval.Duration)
	assert.NotZero(t, c.Seed)
}

func TestConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
log-level = "debug"
warehouses = 4
threads = 8
mode = "partitioned"
seed = 7
unknown-key = 1

[tree]
keys-per-internal = 32
keys-per-leaf = 64

[workload]
remote-item-milli-p = 0
bind-warehouse = 2
deferred-delivery = true

[measurement]
output-style = "table"
warmup = "3s"
`)
	c, err := NewConfigFromFile(path)
	require.NoError(t, err)
	require.NoError(t, c.Adjust())

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 4, c.Warehouses)
	assert.Equal(t, 8, c.Threads)
	assert.Equal(t, ModePartitioned, c.Mode)
	assert.Equal(t, int64(7), c.Seed)
	assert.Equal(t, 32, c.Tree.KeysPerInternal)
	assert.Equal(t, 64, c.Tree.KeysPerLeaf)
	assert.Equal(t, 0, c.Workload.RemoteItemMilliP)
	assert.Equal(t, 2, c.Workload.BindWarehouse)
	assert.True(t, c.Workload.DeferredDelivery)
	assert.Equal(t, OutputStyleTable, c.Measurement.OutputStyle)
	assert.Equal(t, 3*time.Second, c.Measurement.Warmup.Duration)
	assert.Equal(t, defaultLogInterval, c.Measurement.LogInterval.Duration)

	require.Len(t, c.WarningMsgs, 1)
	assert.Contains(t, c.WarningMsgs[0], "unknown-key")
}

func TestConfigFromFileErrors(t *testing.T) {
	_, err := NewConfigFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = NewConfigFromFile(writeConfig(t, `[measurement]
warmup = "soon"`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []func(c *Config){
		func(c *Config) { c.Warehouses = 0 },
		func(c *Config) { c.Warehouses = 101 },
		func(c *Config) { c.Threads = 0 },
		func(c *Config) { c.Transactions = 2; c.Threads = 3 },
		func(c *Config) { c.Mode = "optimistic" },
		func(c *Config) { c.Tree.KeysPerLeaf = 2 },
		func(c *Config) { c.Workload.RemoteItemMilliP = 1001 },
		func(c *Config) { c.Workload.BindWarehouse = 2 },
		func(c *Config) { c.Workload.BindDistrict = 11 },
		func(c *Config) { c.Workload.TargetTPS = -1 },
		func(c *Config) { c.Measurement.OutputStyle = "xml" },
	}
	for i, mutate := range cases {
		c := NewDefaultConfig()
		mutate(c)
		assert.Error(t, c.Validate(), "case %d", i)
	}
}

func TestApplyProperties(t *testing.T) {
	p := properties.NewProperties()
	p.Set(PropWarehouses, "3")
	p.Set(PropThreads, "2")
	p.Set(PropMode, ModePartitioned)
	p.Set(PropTargetTPS, "500")
	p.Set(PropDeferredDelivery, "true")
	p.Set(PropLogInterval, "1s")
	p.Set(PropStatusAddr, "127.0.0.1:0")
	p.Set("bogus", "1")

	c := NewDefaultConfig()
	require.NoError(t, c.ApplyProperties(p))
	require.NoError(t, c.Adjust())
	assert.Equal(t, 3, c.Warehouses)
	assert.Equal(t, 2, c.Threads)
	assert.Equal(t, ModePartitioned, c.Mode)
	assert.Equal(t, 500, c.Workload.TargetTPS)
	assert.True(t, c.Workload.DeferredDelivery)
	assert.Equal(t, time.Second, c.Measurement.LogInterval.Duration)
	assert.Equal(t, "127.0.0.1:0", c.Status.Addr)
	require.Len(t, c.WarningMsgs, 1)
	assert.Contains(t, c.WarningMsgs[0], "bogus")

	p = properties.NewProperties()
	p.Set(PropWarmup, "later")
	assert.Error(t, NewDefaultConfig().ApplyProperties(p))
}

func TestConfigString(t *testing.T) {
	s := NewDefaultConfig().String()
	assert.Contains(t, s, `mode = "serial"`)
	assert.Contains(t, s, `log-interval = "10s"`)
}
