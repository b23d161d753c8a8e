// Package runner drives a tpcc.DB from several client threads and reports
// throughput and latency.
package runner

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pingcap-incubator/tinytpcc/bench/measurement"
	"github.com/pingcap-incubator/tinytpcc/bench/metrics"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc/client"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc/random"
	"github.com/pingcap-incubator/tinytpcc/kv/util/clock"
	"github.com/pingcap-incubator/tinytpcc/kv/util/worker"
	"github.com/pingcap-incubator/tinytpcc/log"
	"github.com/pingcap/errors"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type Options struct {
	Threads      int
	Transactions int64

	Warehouses            int
	Items                 int
	DistrictsPerWarehouse int
	CustomersPerDistrict  int

	Seed int64
	// CLoad holds the NURand constants the data was loaded with.
	CLoad random.NURandC

	RemoteItemMilliP int
	BindWarehouse    int
	BindDistrict     int
	// TargetTPS caps the combined rate of all threads; 0 is unthrottled.
	TargetTPS        int
	DeferredDelivery bool

	Warmup      time.Duration
	LogInterval time.Duration
	// Report, if set, is called on every log interval.
	Report func()
	Output io.Writer
	Clock  clock.Clock
}

type Result struct {
	Transactions      int64
	Elapsed           time.Duration
	TPS               float64
	ByKind            map[client.Kind]int64
	NewOrderCommitted int64
	NewOrderAborted   int64
	// Throughput of each full log interval, with its median and standard
	// deviation. Empty when the run was shorter than one interval.
	IntervalTPS []float64
	MedianTPS   float64
	StdDevTPS   float64
}

type Runner struct {
	opts    Options
	db      tpcc.DB
	measure *measurement.Measurement

	done        atomic.Int64
	kindCounts  [client.NumKinds]atomic.Int64
	newOrderAbt atomic.Int64
	// intervals is only touched by the report goroutine until it exits.
	intervals []float64
}

func New(db tpcc.DB, measure *measurement.Measurement, opts Options) *Runner {
	if opts.Clock == nil {
		opts.Clock = clock.SystemClock{}
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	return &Runner{opts: opts, db: db, measure: measure}
}

// Done returns the number of transactions finished so far.
func (r *Runner) Done() int64 {
	return r.done.Load()
}

// Run executes the configured number of transactions and waits for deferred
// deliveries to drain. A cancelled ctx stops the threads early; the partial
// result is returned together with the context error.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.opts.Threads < 1 {
		return nil, errors.Errorf("threads must be positive, got %d", r.opts.Threads)
	}
	if r.opts.Transactions < int64(r.opts.Threads) {
		return nil, errors.Errorf("transactions (%d) must not be fewer than threads (%d)",
			r.opts.Transactions, r.opts.Threads)
	}

	var db tpcc.DB = measuredDB{DB: r.db, measure: r.measure}
	var deliveryWorker *worker.Worker
	var workerWg sync.WaitGroup
	if r.opts.DeferredDelivery {
		deliveryWorker = worker.NewWorker("delivery", &workerWg)
		deliveryWorker.Start(&deliveryHandler{db: db})
		db = deferredDB{DB: db, worker: deliveryWorker}
	}

	var limiter *rate.Limiter
	if r.opts.TargetTPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.opts.TargetTPS), 1)
	}

	r.measure.EnableWarmUp(r.opts.Warmup > 0)
	reportCtx, stopReport := context.WithCancel(ctx)
	reportDone := make(chan struct{})
	go func() {
		defer close(reportDone)
		r.report(reportCtx, deliveryWorker)
	}()

	start := time.Now()
	eg, runCtx := errgroup.WithContext(ctx)
	perThread := r.opts.Transactions / int64(r.opts.Threads)
	extra := r.opts.Transactions % int64(r.opts.Threads)
	for i := 0; i < r.opts.Threads; i++ {
		count := perThread
		if int64(i) < extra {
			count++
		}
		c := r.newClient(db, i)
		eg.Go(func() error {
			return r.runThread(runCtx, c, limiter, count)
		})
	}
	err := eg.Wait()
	elapsed := time.Since(start)

	if deliveryWorker != nil {
		deliveryWorker.Stop()
		workerWg.Wait()
		metrics.SetDeliveryQueue(0)
	}
	stopReport()
	<-reportDone

	res := r.result(elapsed)
	log.Infof("finished %d transactions in %s", res.Transactions, elapsed)
	return res, errors.Trace(err)
}

func (r *Runner) newClient(db tpcc.DB, thread int) *client.Client {
	rng := random.NewGenerator(random.NewRealSource(r.opts.Seed + int64(thread+1)*7919))
	rng.SetC(random.MakeNURandCForRun(rng, r.opts.CLoad))
	c := client.NewClient(r.opts.Clock, rng, db, r.opts.Items, r.opts.Warehouses,
		r.opts.DistrictsPerWarehouse, r.opts.CustomersPerDistrict)
	c.SetRemoteItemMilliP(r.opts.RemoteItemMilliP)
	c.BindWarehouseDistrict(r.opts.BindWarehouse, r.opts.BindDistrict)
	return c
}

func (r *Runner) runThread(ctx context.Context, c *client.Client, limiter *rate.Limiter, count int64) error {
	for done := int64(0); done < count; {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return errors.Trace(err)
			}
		}
		kind, committed := c.DoOne()
		if r.measure.IsWarmUpFinished() {
			done++
			r.done.Inc()
			r.kindCounts[kind].Inc()
			if kind == client.NewOrder && !committed {
				r.newOrderAbt.Inc()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return nil
}

func (r *Runner) report(ctx context.Context, deliveryWorker *worker.Worker) {
	if r.opts.Warmup > 0 {
		select {
		case <-ctx.Done():
			r.measure.EnableWarmUp(false)
			return
		case <-time.After(r.opts.Warmup):
		}
		log.Infof("warmup of %s finished", r.opts.Warmup)
	}
	r.measure.EnableWarmUp(false)

	if r.opts.LogInterval <= 0 {
		<-ctx.Done()
		return
	}
	t := time.NewTicker(r.opts.LogInterval)
	defer t.Stop()
	last := r.done.Load()
	for {
		select {
		case <-t.C:
			done := r.done.Load()
			r.intervals = append(r.intervals, float64(done-last)/r.opts.LogInterval.Seconds())
			last = done
			if deliveryWorker != nil {
				metrics.SetDeliveryQueue(deliveryWorker.Queued())
			}
			if r.opts.Report != nil {
				r.opts.Report()
			}
			if err := r.measure.Output(r.opts.Output); err != nil {
				log.Warnf("write summary: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *Runner) result(elapsed time.Duration) *Result {
	res := &Result{
		Transactions:    r.done.Load(),
		Elapsed:         elapsed,
		ByKind:          make(map[client.Kind]int64, client.NumKinds),
		NewOrderAborted: r.newOrderAbt.Load(),
	}
	for _, kind := range client.Kinds() {
		res.ByKind[kind] = r.kindCounts[kind].Load()
	}
	res.NewOrderCommitted = res.ByKind[client.NewOrder] - res.NewOrderAborted
	if elapsed > 0 {
		res.TPS = float64(res.Transactions) / elapsed.Seconds()
	}
	if len(r.intervals) > 0 {
		res.IntervalTPS = append([]float64(nil), r.intervals...)
		res.MedianTPS, _ = stats.Median(res.IntervalTPS)
		res.StdDevTPS, _ = stats.StandardDeviation(res.IntervalTPS)
	}
	return res
}
