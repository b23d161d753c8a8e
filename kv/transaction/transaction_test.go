package transaction

import (
	"context"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc/client"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc/loader"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc/random"
	"github.com/pingcap-incubator/tinytpcc/kv/util/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWarehouses = 3
	testItems      = 100
	testCustomers  = 30
	testNewOrders  = 9
	now            = "20080718083852"
)

var dumper = spew.ConfigState{Indent: " ", DisablePointerAddresses: true, SortKeys: true}

func loadTables(t *testing.T) *tpcc.Tables {
	tables := tpcc.NewTables()
	_, err := loader.Load(context.Background(), tables, loader.Options{
		Warehouses:            testWarehouses,
		Items:                 testItems,
		DistrictsPerWarehouse: tpcc.DistrictsPerWarehouse,
		CustomersPerDistrict:  testCustomers,
		NewOrdersPerDistrict:  testNewOrders,
		Threads:               1,
		Seed:                  42,
		Now:                   now,
	})
	require.NoError(t, err)
	return tables
}

// dump renders every row of the store that a transaction can change.
func dump(tables *tpcc.Tables) string {
	var rows []interface{}
	for w := int32(1); w <= testWarehouses; w++ {
		rows = append(rows, *tables.FindWarehouse(w))
		for i := int32(1); i <= testItems; i++ {
			rows = append(rows, *tables.FindStock(w, i))
		}
		for d := int32(1); d <= tpcc.DistrictsPerWarehouse; d++ {
			district := tables.FindDistrict(w, d)
			rows = append(rows, *district)
			for c := int32(1); c <= testCustomers; c++ {
				rows = append(rows, *tables.FindCustomer(w, d, c))
			}
			for o := int32(1); o < district.NextOID; o++ {
				order := tables.FindOrder(w, d, o)
				rows = append(rows, *order)
				rows = append(rows, tables.FindNewOrder(w, d, o) != nil)
				for n := int32(1); n <= order.OLCnt; n++ {
					rows = append(rows, *tables.FindOrderLine(w, d, o, n))
				}
			}
		}
	}
	for _, h := range tables.History() {
		rows = append(rows, *h)
	}
	rows = append(rows, tables.NumOrders(), tables.NumOrderLines(), tables.NumNewOrders())
	return dumper.Sdump(rows...)
}

func remoteItems() []tpcc.NewOrderItem {
	return []tpcc.NewOrderItem{
		{IID: 1, SupplyWID: 1, Quantity: 5},
		{IID: 2, SupplyWID: 3, Quantity: 3},
		{IID: 3, SupplyWID: 2, Quantity: 7},
		{IID: 2, SupplyWID: 1, Quantity: 1},
	}
}

func TestPartitionedNewOrderMatchesSingleCall(t *testing.T) {
	direct, split := loadTables(t), loadTables(t)
	p := NewPartitioned(split)

	var want, got tpcc.NewOrderOutput
	require.True(t, direct.NewOrder(1, 4, 7, remoteItems(), now, &want, nil))
	require.True(t, p.NewOrder(1, 4, 7, remoteItems(), now, &got, nil))
	assert.Equal(t, want, got)
	assert.Equal(t, dump(direct), dump(split))
}

func TestPartitionedNewOrderAbort(t *testing.T) {
	tables := loadTables(t)
	before := dump(tables)
	p := NewPartitioned(tables)

	items := remoteItems()
	items[len(items)-1].IID = testItems + 1
	var output tpcc.NewOrderOutput
	var undo *tpcc.Undo
	assert.False(t, p.NewOrder(1, 4, 7, items, now, &output, &undo))
	assert.Nil(t, undo)
	assert.Equal(t, tpcc.InvalidItemStatus, tpcc.Text(output.Status[:]))
	assert.Equal(t, before, dump(tables))
}

func TestPartitionedPaymentMatchesSingleCall(t *testing.T) {
	direct, split := loadTables(t), loadTables(t)
	p := NewPartitioned(split)

	var want, got tpcc.PaymentOutput
	direct.Payment(1, 2, 3, 4, 5, 12.5, now, &want, nil)
	p.Payment(1, 2, 3, 4, 5, 12.5, now, &got, nil)
	assert.Equal(t, want, got)

	last := random.MakeLastName(6)
	direct.PaymentByName(2, 3, 1, 9, last, 99.25, now, &want, nil)
	p.PaymentByName(2, 3, 1, 9, last, 99.25, now, &got, nil)
	assert.Equal(t, want, got)

	// local customers take the single call path
	direct.PaymentByName(3, 3, 3, 9, last, 1, now, &want, nil)
	p.PaymentByName(3, 3, 3, 9, last, 1, now, &got, nil)
	assert.Equal(t, want, got)

	assert.Equal(t, dump(direct), dump(split))
}

func TestPartitionedUndo(t *testing.T) {
	tables := loadTables(t)
	before := dump(tables)
	p := NewPartitioned(tables)

	var undo *tpcc.Undo
	var newOrder tpcc.NewOrderOutput
	require.True(t, p.NewOrder(1, 4, 7, remoteItems(), now, &newOrder, &undo))
	var payment tpcc.PaymentOutput
	p.Payment(2, 2, 3, 4, 5, 12.5, now, &payment, &undo)
	var delivered []tpcc.DeliveryOrderInfo
	p.Delivery(3, 7, now, &delivered, &undo)
	require.NotNil(t, undo)
	assert.Len(t, delivered, tpcc.DistrictsPerWarehouse)
	assert.Equal(t, []int32{1, 2, 3}, undo.Warehouses())
	assert.NotEqual(t, before, dump(tables))

	p.ApplyUndo(undo)
	assert.Equal(t, before, dump(tables))
	assert.Nil(t, p.Latches().AcquireLatches([]int32{1, 2, 3}))
}

func TestPartitionedLatchSets(t *testing.T) {
	tables := loadTables(t)
	p := NewPartitioned(tables)
	var sets [][]int32
	p.Latches().Validation = func(warehouses []int32) {
		sets = append(sets, append([]int32(nil), warehouses...))
	}

	var newOrder tpcc.NewOrderOutput
	p.NewOrder(2, 1, 1, remoteItems(), now, &newOrder, nil)
	var payment tpcc.PaymentOutput
	p.Payment(3, 1, 1, 1, 1, 1, now, &payment, nil)
	p.Payment(2, 1, 2, 1, 1, 1, now, &payment, nil)
	p.StockLevel(1, 1, 15)

	assert.Equal(t, [][]int32{{1, 2, 3}, {1, 3}, {2}, {1}}, sets)
}

func TestSerialDelegates(t *testing.T) {
	direct, wrapped := loadTables(t), loadTables(t)
	s := NewSerial(wrapped)

	var want, got tpcc.NewOrderOutput
	require.True(t, direct.NewOrder(1, 4, 7, remoteItems(), now, &want, nil))
	require.True(t, s.NewOrder(1, 4, 7, remoteItems(), now, &got, nil))
	assert.Equal(t, want, got)
	assert.Equal(t, direct.StockLevel(1, 4, 50), s.StockLevel(1, 4, 50))
	assert.True(t, s.HasWarehouse(testWarehouses))
	assert.False(t, s.HasWarehouse(testWarehouses+1))
	assert.Equal(t, dump(direct), dump(wrapped))
}

// checkConsistency verifies the TPC-C consistency conditions that hold for
// any serializable history.
func checkConsistency(t *testing.T, tables *tpcc.Tables) {
	for w := int32(1); w <= testWarehouses; w++ {
		warehouse := tables.FindWarehouse(w)
		var districtYTD float64
		for d := int32(1); d <= tpcc.DistrictsPerWarehouse; d++ {
			district := tables.FindDistrict(w, d)
			districtYTD += float64(district.YTD)

			assert.NotNil(t, tables.FindOrder(w, d, district.NextOID-1))
			assert.Nil(t, tables.FindOrder(w, d, district.NextOID))
			for o := int32(1); o < district.NextOID; o++ {
				order := tables.FindOrder(w, d, o)
				require.NotNil(t, order, "w=%d d=%d o=%d", w, d, o)
				undelivered := order.CarrierID == tpcc.NullCarrierID
				assert.Equal(t, undelivered, tables.FindNewOrder(w, d, o) != nil, "w=%d d=%d o=%d", w, d, o)
				for n := int32(1); n <= order.OLCnt; n++ {
					assert.NotNil(t, tables.FindOrderLine(w, d, o, n))
				}
			}
		}
		assert.InEpsilon(t, float64(warehouse.YTD), districtYTD, 1e-4, "warehouse %d", w)
	}
}

func runConcurrently(t *testing.T, db tpcc.DB, threads, perThread int) {
	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			c := client.NewClient(clock.SystemClock{}, random.NewGenerator(random.NewRealSource(seed)), db,
				testItems, testWarehouses, tpcc.DistrictsPerWarehouse, testCustomers)
			c.SetRemoteItemMilliP(300)
			for j := 0; j < perThread; j++ {
				c.DoOne()
			}
		}(int64(i + 1))
	}
	wg.Wait()
}

func TestConcurrentPartitioned(t *testing.T) {
	tables := loadTables(t)
	runConcurrently(t, NewPartitioned(tables), 4, 500)
	checkConsistency(t, tables)
}

func TestConcurrentSerial(t *testing.T) {
	tables := loadTables(t)
	runConcurrently(t, NewSerial(tables), 4, 500)
	checkConsistency(t, tables)
}
