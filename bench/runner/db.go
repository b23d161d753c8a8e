package runner

import (
	"time"

	"github.com/pingcap-incubator/tinytpcc/bench/measurement"
	"github.com/pingcap-incubator/tinytpcc/bench/metrics"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc/client"
	"github.com/pingcap-incubator/tinytpcc/kv/util/worker"
)

// measuredDB records the latency of every transaction in the histograms and
// the Prometheus metrics. The split variants pass through unmeasured.
type measuredDB struct {
	tpcc.DB
	measure *measurement.Measurement
}

func (db measuredDB) observe(kind client.Kind, start time.Time, committed bool) {
	lat := time.Since(start)
	op := kind.String()
	if !committed {
		op += "_abort"
	}
	db.measure.Measure(op, lat)
	metrics.ObserveTxn(kind.String(), committed, lat)
}

func (db measuredDB) StockLevel(warehouseID, districtID, threshold int32) int32 {
	start := time.Now()
	defer db.observe(client.StockLevel, start, true)
	return db.DB.StockLevel(warehouseID, districtID, threshold)
}

func (db measuredDB) OrderStatus(warehouseID, districtID, customerID int32, output *tpcc.OrderStatusOutput) {
	start := time.Now()
	defer db.observe(client.OrderStatus, start, true)
	db.DB.OrderStatus(warehouseID, districtID, customerID, output)
}

func (db measuredDB) OrderStatusByName(warehouseID, districtID int32, cLast string, output *tpcc.OrderStatusOutput) {
	start := time.Now()
	defer db.observe(client.OrderStatus, start, true)
	db.DB.OrderStatusByName(warehouseID, districtID, cLast, output)
}

func (db measuredDB) NewOrder(warehouseID, districtID, customerID int32, items []tpcc.NewOrderItem, now string,
	output *tpcc.NewOrderOutput, undo **tpcc.Undo) (committed bool) {
	start := time.Now()
	defer func() { db.observe(client.NewOrder, start, committed) }()
	return db.DB.NewOrder(warehouseID, districtID, customerID, items, now, output, undo)
}

func (db measuredDB) Payment(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32, hAmount float32,
	now string, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	start := time.Now()
	defer db.observe(client.Payment, start, true)
	db.DB.Payment(warehouseID, districtID, cWarehouseID, cDistrictID, customerID, hAmount, now, output, undo)
}

func (db measuredDB) PaymentByName(warehouseID, districtID, cWarehouseID, cDistrictID int32, cLast string,
	hAmount float32, now string, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	start := time.Now()
	defer db.observe(client.Payment, start, true)
	db.DB.PaymentByName(warehouseID, districtID, cWarehouseID, cDistrictID, cLast, hAmount, now, output, undo)
}

func (db measuredDB) Delivery(warehouseID, carrierID int32, now string, orders *[]tpcc.DeliveryOrderInfo,
	undo **tpcc.Undo) {
	start := time.Now()
	defer db.observe(client.Delivery, start, true)
	db.DB.Delivery(warehouseID, carrierID, now, orders, undo)
}

type deliveryTask struct {
	warehouseID int32
	carrierID   int32
	now         string
}

// deliveryHandler runs queued deliveries on the worker goroutine.
type deliveryHandler struct {
	db     tpcc.DB
	orders []tpcc.DeliveryOrderInfo
}

func (h *deliveryHandler) Handle(t worker.Task) {
	task := t.(deliveryTask)
	h.orders = h.orders[:0]
	h.db.Delivery(task.warehouseID, task.carrierID, task.now, &h.orders, nil)
}

// deferredDB queues deliveries for a background worker instead of running
// them on the calling thread. Deliveries that need an undo log still run
// inline.
type deferredDB struct {
	tpcc.DB
	worker *worker.Worker
}

func (db deferredDB) Delivery(warehouseID, carrierID int32, now string, orders *[]tpcc.DeliveryOrderInfo,
	undo **tpcc.Undo) {
	if undo != nil {
		db.DB.Delivery(warehouseID, carrierID, now, orders, undo)
		return
	}
	db.worker.Send(deliveryTask{warehouseID: warehouseID, carrierID: carrierID, now: now})
	metrics.SetDeliveryQueue(db.worker.Queued())
}
