package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/magiconair/properties"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc"
	"github.com/pingcap/errors"
)

const (
	ModeSerial      = "serial"
	ModePartitioned = "partitioned"

	OutputStylePlain = "plain"
	OutputStyleTable = "table"
	OutputStyleJSON  = "json"
)

type Config struct {
	LogLevel     string `toml:"log-level"`
	Warehouses   int    `toml:"warehouses"`
	Transactions int64  `toml:"transactions"`
	Threads      int    `toml:"threads"`
	// Mode selects how concurrent transactions are isolated: "serial" or
	// "partitioned".
	Mode string `toml:"mode"`
	// Seed for the random generators, 0 means seed from the clock.
	Seed int64 `toml:"seed"`

	Tree        Tree        `toml:"tree"`
	Workload    Workload    `toml:"workload"`
	Measurement Measurement `toml:"measurement"`
	Status      Status      `toml:"status"`

	// For all warnings during parsing.
	WarningMsgs []string `toml:"-"`
}

// Tree sizes the nodes of the record store indexes.
type Tree struct {
	KeysPerInternal int `toml:"keys-per-internal"`
	KeysPerLeaf     int `toml:"keys-per-leaf"`
}

type Workload struct {
	// Chance, in thousandths, that a new order line is supplied remotely.
	RemoteItemMilliP int  `toml:"remote-item-milli-p"`
	BindWarehouse    int  `toml:"bind-warehouse"` // 0 picks at random
	BindDistrict     int  `toml:"bind-district"`  // 0 picks at random
	TargetTPS        int  `toml:"target-tps"`     // 0 is unthrottled
	DeferredDelivery bool `toml:"deferred-delivery"`
}

type Measurement struct {
	OutputStyle string   `toml:"output-style"`
	LogInterval Duration `toml:"log-interval"`
	Warmup      Duration `toml:"warmup"`
}

type Status struct {
	// Addr serves /metrics and /status; empty disables the server.
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "10s" in TOML.
type Duration struct {
	time.Duration
}

func NewDuration(d time.Duration) Duration {
	return Duration{Duration: d}
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return errors.WithStack(err)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

const (
	defaultLogLevel         = "info"
	defaultWarehouses       = 1
	defaultTransactions     = 200000
	defaultThreads          = 1
	defaultKeysPerInternal  = 8
	defaultKeysPerLeaf      = 8
	defaultRemoteItemMilliP = 10
	defaultLogInterval      = 10 * time.Second
)

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:     defaultLogLevel,
		Warehouses:   defaultWarehouses,
		Transactions: defaultTransactions,
		Threads:      defaultThreads,
		Mode:         ModeSerial,
		Tree: Tree{
			KeysPerInternal: defaultKeysPerInternal,
			KeysPerLeaf:     defaultKeysPerLeaf,
		},
		Workload: Workload{
			RemoteItemMilliP: defaultRemoteItemMilliP,
		},
		Measurement: Measurement{
			OutputStyle: OutputStylePlain,
			LogInterval: NewDuration(defaultLogInterval),
		},
	}
}

// NewConfigFromFile decodes path on top of the defaults. Keys the decoder
// does not know are reported in WarningMsgs.
func NewConfigFromFile(path string) (*Config, error) {
	c := NewDefaultConfig()
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, errors.Annotatef(err, "load config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		c.WarningMsgs = append(c.WarningMsgs, "Config contains undefined item: "+strings.Join(keys, ", "))
	}
	return c, nil
}

func adjustString(v *string, defValue string) {
	if len(*v) == 0 {
		*v = defValue
	}
}

func adjustInt(v *int, defValue int) {
	if *v == 0 {
		*v = defValue
	}
}

func adjustInt64(v *int64, defValue int64) {
	if *v == 0 {
		*v = defValue
	}
}

func adjustDuration(v *Duration, defValue time.Duration) {
	if v.Duration == 0 {
		v.Duration = defValue
	}
}

// Adjust fills unset fields with defaults and validates the result.
func (c *Config) Adjust() error {
	adjustString(&c.LogLevel, defaultLogLevel)
	adjustInt(&c.Warehouses, defaultWarehouses)
	adjustInt64(&c.Transactions, defaultTransactions)
	adjustInt(&c.Threads, defaultThreads)
	adjustString(&c.Mode, ModeSerial)
	adjustInt64(&c.Seed, time.Now().UnixNano())
	adjustInt(&c.Tree.KeysPerInternal, defaultKeysPerInternal)
	adjustInt(&c.Tree.KeysPerLeaf, defaultKeysPerLeaf)
	adjustString(&c.Measurement.OutputStyle, OutputStylePlain)
	adjustDuration(&c.Measurement.LogInterval, defaultLogInterval)
	return c.Validate()
}

// Validate checks the ranges of every field.
func (c *Config) Validate() error {
	if c.Warehouses < 1 || c.Warehouses > tpcc.MaxWarehouseID {
		return errors.Errorf("warehouses must be in [1, %d], got %d", tpcc.MaxWarehouseID, c.Warehouses)
	}
	if c.Transactions < 1 {
		return errors.Errorf("transactions must be positive, got %d", c.Transactions)
	}
	if c.Threads < 1 {
		return errors.Errorf("threads must be positive, got %d", c.Threads)
	}
	if int64(c.Threads) > c.Transactions {
		return errors.Errorf("threads (%d) exceed transactions (%d)", c.Threads, c.Transactions)
	}
	switch c.Mode {
	case ModeSerial, ModePartitioned:
	default:
		return errors.Errorf("unknown mode %q", c.Mode)
	}
	if c.Tree.KeysPerInternal < 3 || c.Tree.KeysPerLeaf < 3 {
		return errors.Errorf("tree fanout must be at least 3, got %d/%d", c.Tree.KeysPerInternal, c.Tree.KeysPerLeaf)
	}
	w := c.Workload
	if w.RemoteItemMilliP < 0 || w.RemoteItemMilliP > 1000 {
		return errors.Errorf("remote-item-milli-p must be in [0, 1000], got %d", w.RemoteItemMilliP)
	}
	if w.BindWarehouse < 0 || w.BindWarehouse > c.Warehouses {
		return errors.Errorf("bind-warehouse must be in [0, %d], got %d", c.Warehouses, w.BindWarehouse)
	}
	if w.BindDistrict < 0 || w.BindDistrict > tpcc.DistrictsPerWarehouse {
		return errors.Errorf("bind-district must be in [0, %d], got %d", tpcc.DistrictsPerWarehouse, w.BindDistrict)
	}
	if w.TargetTPS < 0 {
		return errors.Errorf("target-tps must not be negative, got %d", w.TargetTPS)
	}
	switch c.Measurement.OutputStyle {
	case OutputStylePlain, OutputStyleTable, OutputStyleJSON:
	default:
		return errors.Errorf("unknown output style %q", c.Measurement.OutputStyle)
	}
	if c.Measurement.LogInterval.Duration < 0 || c.Measurement.Warmup.Duration < 0 {
		return errors.New("measurement intervals must not be negative")
	}
	return nil
}

// Property names accepted by ApplyProperties. They mirror the TOML keys,
// with tables joined by a dot.
const (
	PropLogLevel         = "log-level"
	PropWarehouses       = "warehouses"
	PropTransactions     = "transactions"
	PropThreads          = "threads"
	PropMode             = "mode"
	PropSeed             = "seed"
	PropKeysPerInternal  = "tree.keys-per-internal"
	PropKeysPerLeaf      = "tree.keys-per-leaf"
	PropRemoteItemMilliP = "workload.remote-item-milli-p"
	PropBindWarehouse    = "workload.bind-warehouse"
	PropBindDistrict     = "workload.bind-district"
	PropTargetTPS        = "workload.target-tps"
	PropDeferredDelivery = "workload.deferred-delivery"
	PropOutputStyle      = "measurement.output-style"
	PropLogInterval      = "measurement.log-interval"
	PropWarmup           = "measurement.warmup"
	PropStatusAddr       = "status.addr"
)

var knownProps = map[string]struct{}{
	PropLogLevel: {}, PropWarehouses: {}, PropTransactions: {}, PropThreads: {}, PropMode: {},
	PropSeed: {}, PropKeysPerInternal: {}, PropKeysPerLeaf: {}, PropRemoteItemMilliP: {},
	PropBindWarehouse: {}, PropBindDistrict: {}, PropTargetTPS: {}, PropDeferredDelivery: {},
	PropOutputStyle: {}, PropLogInterval: {}, PropWarmup: {}, PropStatusAddr: {},
}

// ApplyProperties overrides fields with name=value properties. Unknown
// names are reported in WarningMsgs.
func (c *Config) ApplyProperties(p *properties.Properties) error {
	for _, key := range p.Keys() {
		if _, ok := knownProps[key]; !ok {
			c.WarningMsgs = append(c.WarningMsgs, fmt.Sprintf("unknown property %q", key))
		}
	}

	c.LogLevel = p.GetString(PropLogLevel, c.LogLevel)
	c.Warehouses = p.GetInt(PropWarehouses, c.Warehouses)
	c.Transactions = p.GetInt64(PropTransactions, c.Transactions)
	c.Threads = p.GetInt(PropThreads, c.Threads)
	c.Mode = p.GetString(PropMode, c.Mode)
	c.Seed = p.GetInt64(PropSeed, c.Seed)
	c.Tree.KeysPerInternal = p.GetInt(PropKeysPerInternal, c.Tree.KeysPerInternal)
	c.Tree.KeysPerLeaf = p.GetInt(PropKeysPerLeaf, c.Tree.KeysPerLeaf)
	c.Workload.RemoteItemMilliP = p.GetInt(PropRemoteItemMilliP, c.Workload.RemoteItemMilliP)
	c.Workload.BindWarehouse = p.GetInt(PropBindWarehouse, c.Workload.BindWarehouse)
	c.Workload.BindDistrict = p.GetInt(PropBindDistrict, c.Workload.BindDistrict)
	c.Workload.TargetTPS = p.GetInt(PropTargetTPS, c.Workload.TargetTPS)
	c.Workload.DeferredDelivery = p.GetBool(PropDeferredDelivery, c.Workload.DeferredDelivery)
	c.Measurement.OutputStyle = p.GetString(PropOutputStyle, c.Measurement.OutputStyle)
	c.Status.Addr = p.GetString(PropStatusAddr, c.Status.Addr)

	for key, d := range map[string]*Duration{PropLogInterval: &c.Measurement.LogInterval, PropWarmup: &c.Measurement.Warmup} {
		v, ok := p.Get(key)
		if !ok {
			continue
		}
		if err := d.UnmarshalText([]byte(v)); err != nil {
			return errors.Annotatef(err, "property %s", key)
		}
	}
	return nil
}

// String renders the config as TOML.
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "<nil>"
	}
	return b.String()
}
