package transaction

import (
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc"
	"github.com/pingcap-incubator/tinytpcc/kv/transaction/latches"
	"github.com/pingcap-incubator/tinytpcc/log"
)

// Partitioned latches the warehouses of each transaction and runs
// multi-warehouse transactions as a home part plus remote parts.
type Partitioned struct {
	db      tpcc.DB
	latches *latches.Latches
}

var _ tpcc.DB = (*Partitioned)(nil)

func NewPartitioned(db tpcc.DB) *Partitioned {
	return &Partitioned{db: db, latches: latches.NewLatches()}
}

// Latches exposes the latch table, mostly so tests can install a validation
// hook.
func (p *Partitioned) Latches() *latches.Latches {
	return p.latches
}

func (p *Partitioned) lock(warehouses []int32) {
	p.latches.WaitForLatches(warehouses)
	p.latches.Validate(warehouses)
}

func (p *Partitioned) StockLevel(warehouseID, districtID, threshold int32) int32 {
	ws := []int32{warehouseID}
	p.lock(ws)
	defer p.latches.ReleaseLatches(ws)
	return p.db.StockLevel(warehouseID, districtID, threshold)
}

func (p *Partitioned) OrderStatus(warehouseID, districtID, customerID int32, output *tpcc.OrderStatusOutput) {
	ws := []int32{warehouseID}
	p.lock(ws)
	defer p.latches.ReleaseLatches(ws)
	p.db.OrderStatus(warehouseID, districtID, customerID, output)
}

func (p *Partitioned) OrderStatusByName(warehouseID, districtID int32, cLast string, output *tpcc.OrderStatusOutput) {
	ws := []int32{warehouseID}
	p.lock(ws)
	defer p.latches.ReleaseLatches(ws)
	p.db.OrderStatusByName(warehouseID, districtID, cLast, output)
}

// NewOrder runs an order whose lines are all supplied locally as a single
// call. Otherwise the home part runs first and then one remote part per
// supply warehouse, and the remote stock quantities are merged into output.
func (p *Partitioned) NewOrder(warehouseID, districtID, customerID int32, items []tpcc.NewOrderItem, now string,
	output *tpcc.NewOrderOutput, undo **tpcc.Undo) bool {
	ids := make([]int32, 0, len(items)+1)
	ids = append(ids, warehouseID)
	for i := range items {
		ids = append(ids, items[i].SupplyWID)
	}
	ws := latches.Set(ids...)
	p.lock(ws)
	defer p.latches.ReleaseLatches(ws)

	if len(ws) == 1 {
		return p.db.NewOrder(warehouseID, districtID, customerID, items, now, output, undo)
	}
	if !p.db.NewOrderHome(warehouseID, districtID, customerID, items, now, output, undo) {
		return false
	}
	var quantities []int32
	for _, remote := range ws {
		if remote == warehouseID {
			continue
		}
		if !p.db.NewOrderRemote(warehouseID, remote, items, &quantities, undo) {
			log.Panicf("remote new order on warehouse %d failed after home accepted the items", remote)
		}
		tpcc.NewOrderCombine(quantities, output)
	}
	return true
}

func (p *Partitioned) NewOrderHome(warehouseID, districtID, customerID int32, items []tpcc.NewOrderItem, now string,
	output *tpcc.NewOrderOutput, undo **tpcc.Undo) bool {
	ws := []int32{warehouseID}
	p.lock(ws)
	defer p.latches.ReleaseLatches(ws)
	return p.db.NewOrderHome(warehouseID, districtID, customerID, items, now, output, undo)
}

func (p *Partitioned) NewOrderRemote(homeWarehouse, remoteWarehouse int32, items []tpcc.NewOrderItem,
	quantities *[]int32, undo **tpcc.Undo) bool {
	ws := []int32{remoteWarehouse}
	p.lock(ws)
	defer p.latches.ReleaseLatches(ws)
	return p.db.NewOrderRemote(homeWarehouse, remoteWarehouse, items, quantities, undo)
}

// Payment pays a local customer with a single call. A remote customer is
// updated first so that its id is known, then the home part records the
// payment.
func (p *Partitioned) Payment(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32, hAmount float32,
	now string, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	ws := latches.Set(warehouseID, cWarehouseID)
	p.lock(ws)
	defer p.latches.ReleaseLatches(ws)

	if cWarehouseID == warehouseID {
		p.db.Payment(warehouseID, districtID, cWarehouseID, cDistrictID, customerID, hAmount, now, output, undo)
		return
	}
	var remote tpcc.PaymentOutput
	p.db.PaymentRemote(warehouseID, districtID, cWarehouseID, cDistrictID, customerID, hAmount, &remote, undo)
	p.db.PaymentHome(warehouseID, districtID, cWarehouseID, cDistrictID, customerID, hAmount, now, output, undo)
	tpcc.PaymentCombine(&remote, output)
}

func (p *Partitioned) PaymentByName(warehouseID, districtID, cWarehouseID, cDistrictID int32, cLast string,
	hAmount float32, now string, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	ws := latches.Set(warehouseID, cWarehouseID)
	p.lock(ws)
	defer p.latches.ReleaseLatches(ws)

	if cWarehouseID == warehouseID {
		p.db.PaymentByName(warehouseID, districtID, cWarehouseID, cDistrictID, cLast, hAmount, now, output, undo)
		return
	}
	var remote tpcc.PaymentOutput
	p.db.PaymentRemoteByName(warehouseID, districtID, cWarehouseID, cDistrictID, cLast, hAmount, &remote, undo)
	p.db.PaymentHome(warehouseID, districtID, cWarehouseID, cDistrictID, remote.Customer.ID, hAmount, now,
		output, undo)
	tpcc.PaymentCombine(&remote, output)
}

func (p *Partitioned) PaymentHome(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32,
	hAmount float32, now string, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	ws := []int32{warehouseID}
	p.lock(ws)
	defer p.latches.ReleaseLatches(ws)
	p.db.PaymentHome(warehouseID, districtID, cWarehouseID, cDistrictID, customerID, hAmount, now, output, undo)
}

func (p *Partitioned) PaymentRemote(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32,
	hAmount float32, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	ws := []int32{cWarehouseID}
	p.lock(ws)
	defer p.latches.ReleaseLatches(ws)
	p.db.PaymentRemote(warehouseID, districtID, cWarehouseID, cDistrictID, customerID, hAmount, output, undo)
}

func (p *Partitioned) PaymentRemoteByName(warehouseID, districtID, cWarehouseID, cDistrictID int32, cLast string,
	hAmount float32, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	ws := []int32{cWarehouseID}
	p.lock(ws)
	defer p.latches.ReleaseLatches(ws)
	p.db.PaymentRemoteByName(warehouseID, districtID, cWarehouseID, cDistrictID, cLast, hAmount, output, undo)
}

func (p *Partitioned) Delivery(warehouseID, carrierID int32, now string, orders *[]tpcc.DeliveryOrderInfo,
	undo **tpcc.Undo) {
	ws := []int32{warehouseID}
	p.lock(ws)
	defer p.latches.ReleaseLatches(ws)
	p.db.Delivery(warehouseID, carrierID, now, orders, undo)
}

func (p *Partitioned) HasWarehouse(warehouseID int32) bool {
	return p.db.HasWarehouse(warehouseID)
}

// ApplyUndo latches every warehouse the undo log touched before reverting.
func (p *Partitioned) ApplyUndo(undo *tpcc.Undo) {
	ws := undo.Warehouses()
	if len(ws) > 0 {
		p.lock(ws)
		defer p.latches.ReleaseLatches(ws)
	}
	p.db.ApplyUndo(undo)
}

func (p *Partitioned) FreeUndo(undo *tpcc.Undo) {
	p.db.FreeUndo(undo)
}
