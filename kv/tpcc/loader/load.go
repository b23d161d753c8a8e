package loader

import (
	"context"

	"github.com/pingcap-incubator/tinytpcc/kv/tpcc"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc/random"
	"github.com/pingcap-incubator/tinytpcc/log"
	"github.com/pingcap/errors"
	"golang.org/x/sync/errgroup"
)

// Options sizes a load.
type Options struct {
	Warehouses            int
	Items                 int
	DistrictsPerWarehouse int
	CustomersPerDistrict  int
	NewOrdersPerDistrict  int
	// Threads bounds how many warehouses are generated at once.
	Threads int
	Seed    int64
	Now     string
}

// DefaultOptions returns the standard TPC-C cardinalities.
func DefaultOptions(warehouses int, seed int64, now string) Options {
	return Options{
		Warehouses:            warehouses,
		Items:                 tpcc.NumItems,
		DistrictsPerWarehouse: tpcc.DistrictsPerWarehouse,
		CustomersPerDistrict:  tpcc.CustomersPerDistrict,
		NewOrdersPerDistrict:  tpcc.InitialNewOrdersPerDistrict,
		Threads:               1,
		Seed:                  seed,
		Now:                   now,
	}
}

func (o Options) validate() error {
	if o.Warehouses < 1 || o.Warehouses > tpcc.MaxWarehouseID {
		return errors.Errorf("warehouses must be in [1, %d], got %d", tpcc.MaxWarehouseID, o.Warehouses)
	}
	if o.Items < 1 || o.Items > tpcc.NumItems {
		return errors.Errorf("items must be in [1, %d], got %d", tpcc.NumItems, o.Items)
	}
	if o.DistrictsPerWarehouse < 1 || o.DistrictsPerWarehouse > tpcc.DistrictsPerWarehouse {
		return errors.Errorf("districts must be in [1, %d], got %d", tpcc.DistrictsPerWarehouse, o.DistrictsPerWarehouse)
	}
	if o.CustomersPerDistrict < 1 || o.CustomersPerDistrict > tpcc.CustomersPerDistrict {
		return errors.Errorf("customers must be in [1, %d], got %d", tpcc.CustomersPerDistrict, o.CustomersPerDistrict)
	}
	if o.NewOrdersPerDistrict < 0 || o.NewOrdersPerDistrict > o.CustomersPerDistrict {
		return errors.Errorf("new orders must be in [0, %d], got %d", o.CustomersPerDistrict, o.NewOrdersPerDistrict)
	}
	if len(o.Now) != tpcc.DateTimeSize {
		return errors.Errorf("load time %q is not a %d character timestamp", o.Now, tpcc.DateTimeSize)
	}
	return nil
}

// Load populates store and returns the NURand constants used for the load.
// Items are inserted first; warehouses are then generated concurrently,
// each from its own random source derived from the seed.
func Load(ctx context.Context, store Store, opts Options) (random.NURandC, error) {
	if err := opts.validate(); err != nil {
		return random.NURandC{}, err
	}
	threads := opts.Threads
	if threads < 1 {
		threads = 1
	}

	rng := random.NewGenerator(random.NewRealSource(opts.Seed))
	cLoad := random.MakeNURandC(rng)
	rng.SetC(cLoad)

	g := NewGenerator(rng, opts.Now, opts.Items, opts.DistrictsPerWarehouse,
		opts.CustomersPerDistrict, opts.NewOrdersPerDistrict)
	g.MakeItemsTable(store)
	log.Infof("loaded %d items", opts.Items)

	sem := make(chan struct{}, threads)
	eg, ctx := errgroup.WithContext(ctx)
	for w := 1; w <= opts.Warehouses; w++ {
		w := w
		eg.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			wrng := random.NewGenerator(random.NewRealSource(opts.Seed + int64(w)))
			wrng.SetC(cLoad)
			NewGenerator(wrng, opts.Now, opts.Items, opts.DistrictsPerWarehouse,
				opts.CustomersPerDistrict, opts.NewOrdersPerDistrict).MakeWarehouse(store, int32(w))
			log.Debugf("loaded warehouse %d", w)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return random.NURandC{}, errors.Trace(err)
	}
	log.Infof("loaded %d warehouses", opts.Warehouses)
	return cLoad, nil
}
