package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/magiconair/properties"
	"github.com/pingcap-incubator/tinytpcc/bench/measurement"
	"github.com/pingcap-incubator/tinytpcc/bench/metrics"
	"github.com/pingcap-incubator/tinytpcc/bench/runner"
	"github.com/pingcap-incubator/tinytpcc/config"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc/loader"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc/random"
	"github.com/pingcap-incubator/tinytpcc/kv/transaction"
	"github.com/pingcap-incubator/tinytpcc/kv/util/clock"
	"github.com/pingcap-incubator/tinytpcc/log"
	"github.com/pingcap/errors"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configFile     string
	propertyValues []string

	threadsArg      int
	transactionsArg int64
	modeArg         string
	outputArg       string
	statusAddrArg   string
)

func newRootCommand() *cobra.Command {
	m := &cobra.Command{
		Use:          "tpcc [num warehouses]",
		Short:        "In-memory TPC-C benchmark",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runBenchCommandFunc,
		SilenceUsage: true,
	}
	m.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file in TOML")
	m.PersistentFlags().StringSliceVarP(&propertyValues, "prop", "p", nil, "Specify a property value with name=value")

	m.Flags().IntVarP(&threadsArg, "threads", "t", 1, "Number of client threads")
	m.Flags().Int64Var(&transactionsArg, "transactions", 200000, "Number of transactions to run")
	m.Flags().StringVar(&modeArg, "mode", config.ModeSerial, "Isolation of concurrent threads: serial or partitioned")
	m.Flags().StringVar(&outputArg, "output", config.OutputStylePlain, "Latency output style: plain, table or json")
	m.Flags().StringVar(&statusAddrArg, "status-addr", "", "Serve /metrics and /status on this address")
	return m
}

// parseWarehouses checks the positional warehouse count.
func parseWarehouses(arg string) (int, error) {
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, errors.Errorf("Bad warehouse number (%s)", arg)
	}
	if n <= 0 {
		return 0, errors.Errorf("Number of warehouses must be > 0 (was %d)", n)
	}
	if n > tpcc.MaxWarehouseID {
		return 0, errors.Errorf("Number of warehouses must be <= %d (was %d)", tpcc.MaxWarehouseID, n)
	}
	return int(n), nil
}

func parseProperties(values []string) (*properties.Properties, error) {
	props := properties.NewProperties()
	for _, prop := range values {
		seps := strings.SplitN(prop, "=", 2)
		if len(seps) != 2 {
			return nil, errors.Errorf("bad property: `%s`, expected format `name=value`", prop)
		}
		if _, _, err := props.Set(seps[0], seps[1]); err != nil {
			return nil, errors.Annotatef(err, "property %s", seps[0])
		}
	}
	return props, nil
}

// initialConfig layers the config file, -p properties, the positional
// warehouse count and explicitly set flags, in that order.
func initialConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.NewConfigFromFile(configFile); err != nil {
			return nil, err
		}
	}

	props, err := parseProperties(propertyValues)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyProperties(props); err != nil {
		return nil, err
	}

	if len(args) == 1 {
		if cfg.Warehouses, err = parseWarehouses(args[0]); err != nil {
			return nil, err
		}
	}

	applyFlags(cfg, cmd.Flags())

	if err := cfg.Adjust(); err != nil {
		return nil, err
	}
	log.SetLevelByString(cfg.LogLevel)
	for _, msg := range cfg.WarningMsgs {
		log.Warn(msg)
	}
	return cfg, nil
}

// applyFlags copies the flags set on the command line into cfg.
func applyFlags(cfg *config.Config, flags *pflag.FlagSet) {
	if flags.Changed("threads") {
		cfg.Threads = threadsArg
	}
	if flags.Changed("transactions") {
		cfg.Transactions = transactionsArg
	}
	if flags.Changed("mode") {
		cfg.Mode = modeArg
	}
	if flags.Changed("output") {
		cfg.Measurement.OutputStyle = outputArg
	}
	if flags.Changed("status-addr") {
		cfg.Status.Addr = statusAddrArg
	}
}

// loadTables populates a fresh store with cfg.Warehouses warehouses.
func loadTables(ctx context.Context, w io.Writer, cfg *config.Config) (*tpcc.Tables, random.NURandC, error) {
	tables := tpcc.NewTablesWithFanout(cfg.Tree.KeysPerInternal, cfg.Tree.KeysPerLeaf)
	opts := loader.DefaultOptions(cfg.Warehouses, cfg.Seed, clock.SystemClock{}.DateTimestamp())
	opts.Threads = cfg.Threads

	fmt.Fprintf(w, "Loading %d warehouses... ", cfg.Warehouses)
	start := time.Now()
	cLoad, err := loader.Load(ctx, tables, opts)
	if err != nil {
		fmt.Fprintln(w)
		return nil, cLoad, err
	}
	elapsed := time.Since(start)
	metrics.SetLoadDuration(elapsed)
	fmt.Fprintf(w, "%d ms\n", (elapsed+500*time.Microsecond)/time.Millisecond)
	reportTableRows(tables)
	return tables, cLoad, nil
}

func reportTableRows(tables *tpcc.Tables) {
	metrics.SetTableRows("item", tables.NumItems())
	metrics.SetTableRows("order", tables.NumOrders())
	metrics.SetTableRows("order_line", tables.NumOrderLines())
	metrics.SetTableRows("new_order", tables.NumNewOrders())
	metrics.SetTableRows("history", tables.NumHistory())
}

func wrapTables(mode string, tables *tpcc.Tables) tpcc.DB {
	if mode == config.ModePartitioned {
		return transaction.NewPartitioned(tables)
	}
	return transaction.NewSerial(tables)
}

func runBenchCommandFunc(cmd *cobra.Command, args []string) error {
	cfg, err := initialConfig(cmd, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	tables, cLoad, err := loadTables(globalContext, out, cfg)
	if err != nil {
		return err
	}

	measure := measurement.New(cfg.Measurement.OutputStyle)
	if cfg.Status.Addr != "" {
		srv, err := startStatusServer(cfg.Status.Addr, measure)
		if err != nil {
			return err
		}
		defer srv.Close()
	}

	r := runner.New(wrapTables(cfg.Mode, tables), measure, runner.Options{
		Threads:               cfg.Threads,
		Transactions:          cfg.Transactions,
		Warehouses:            cfg.Warehouses,
		Items:                 tpcc.NumItems,
		DistrictsPerWarehouse: tpcc.DistrictsPerWarehouse,
		CustomersPerDistrict:  tpcc.CustomersPerDistrict,
		Seed:                  cfg.Seed,
		CLoad:                 cLoad,
		RemoteItemMilliP:      cfg.Workload.RemoteItemMilliP,
		BindWarehouse:         cfg.Workload.BindWarehouse,
		BindDistrict:          cfg.Workload.BindDistrict,
		TargetTPS:             cfg.Workload.TargetTPS,
		DeferredDelivery:      cfg.Workload.DeferredDelivery,
		Warmup:                cfg.Measurement.Warmup.Duration,
		LogInterval:           cfg.Measurement.LogInterval.Duration,
		Report:                func() { reportTableRows(tables) },
		Output:                out,
	})

	fmt.Fprint(out, "Running... ")
	res, err := r.Run(globalContext)
	if res != nil {
		fmt.Fprintf(out, "%d transactions in %d ms = %f txns/s\n",
			res.Transactions, res.Elapsed/time.Millisecond, res.TPS)
		fmt.Fprintf(out, "new order: %d committed, %d aborted\n", res.NewOrderCommitted, res.NewOrderAborted)
		if len(res.IntervalTPS) > 0 {
			fmt.Fprintf(out, "txns/s per %s: median %.1f, stddev %.1f over %d intervals\n",
				cfg.Measurement.LogInterval.Duration, res.MedianTPS, res.StdDevTPS, len(res.IntervalTPS))
		}
	}
	reportTableRows(tables)
	if outErr := measure.Output(out); outErr != nil {
		log.Warnf("write summary: %v", outErr)
	}
	printMemory(out)
	if errors.Cause(err) == context.Canceled {
		return nil
	}
	return err
}

// printMemory reports the resident size of this process next to the
// machine's memory.
func printMemory(w io.Writer) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warnf("inspect process: %v", err)
		return
	}
	info, err := p.MemoryInfo()
	if err != nil {
		log.Warnf("read process memory: %v", err)
		return
	}
	line := fmt.Sprintf("memory: rss %s, vms %s", units.BytesSize(float64(info.RSS)), units.BytesSize(float64(info.VMS)))
	if vm, err := mem.VirtualMemory(); err == nil {
		line += fmt.Sprintf(", machine %s of %s used", units.BytesSize(float64(vm.Used)), units.BytesSize(float64(vm.Total)))
	}
	fmt.Fprintln(w, line)
}
