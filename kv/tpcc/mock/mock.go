// Package mock provides a tpcc.DB that records the parameters of the last
// call instead of running it.
package mock

import (
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc"
	"github.com/pingcap-incubator/tinytpcc/log"
)

// DB records its arguments. The partitioned variants are not supported and
// panic if called.
type DB struct {
	WID                 int32
	DID                 int32
	StockLevelThreshold int32
	OrderStatusCID      int32
	CLast               string
	DeliveryCarrierID   int32
	Now                 string
	CWID                int32
	CDID                int32
	CID                 int32
	HAmount             float32
	Items               []tpcc.NewOrderItem

	// NewOrderCommitted is returned by NewOrder.
	NewOrderCommitted bool
	// Warehouses answers HasWarehouse; nil means every warehouse exists.
	Warehouses map[int32]bool
	// Calls counts calls by method name.
	Calls map[string]int
}

var _ tpcc.DB = (*DB)(nil)

// MockDTax is stored in the output of every NewOrder call.
const MockDTax = 42

func NewDB() *DB {
	return &DB{NewOrderCommitted: true, Calls: make(map[string]int)}
}

func (db *DB) called(name string) {
	if db.Calls == nil {
		db.Calls = make(map[string]int)
	}
	db.Calls[name]++
}

func (db *DB) StockLevel(warehouseID, districtID, threshold int32) int32 {
	db.called("StockLevel")
	db.WID = warehouseID
	db.DID = districtID
	db.StockLevelThreshold = threshold
	return 0
}

func (db *DB) OrderStatus(warehouseID, districtID, customerID int32, output *tpcc.OrderStatusOutput) {
	db.called("OrderStatus")
	db.WID = warehouseID
	db.DID = districtID
	db.OrderStatusCID = customerID
}

func (db *DB) OrderStatusByName(warehouseID, districtID int32, cLast string, output *tpcc.OrderStatusOutput) {
	db.called("OrderStatusByName")
	db.WID = warehouseID
	db.DID = districtID
	db.CLast = cLast
}

func (db *DB) NewOrder(warehouseID, districtID, customerID int32, items []tpcc.NewOrderItem, now string,
	output *tpcc.NewOrderOutput, undo **tpcc.Undo) bool {
	db.called("NewOrder")
	db.WID = warehouseID
	db.DID = districtID
	db.CID = customerID
	db.Items = append(db.Items[:0], items...)
	db.Now = now
	output.DTax = MockDTax
	return db.NewOrderCommitted
}

func (db *DB) NewOrderHome(warehouseID, districtID, customerID int32, items []tpcc.NewOrderItem, now string,
	output *tpcc.NewOrderOutput, undo **tpcc.Undo) bool {
	log.Panicf("mock: NewOrderHome is not supported")
	return false
}

func (db *DB) NewOrderRemote(homeWarehouse, remoteWarehouse int32, items []tpcc.NewOrderItem,
	quantities *[]int32, undo **tpcc.Undo) bool {
	log.Panicf("mock: NewOrderRemote is not supported")
	return false
}

func (db *DB) Payment(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32, hAmount float32,
	now string, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	db.called("Payment")
	db.WID = warehouseID
	db.DID = districtID
	db.CWID = cWarehouseID
	db.CDID = cDistrictID
	db.CID = customerID
	db.HAmount = hAmount
	db.Now = now
}

func (db *DB) PaymentByName(warehouseID, districtID, cWarehouseID, cDistrictID int32, cLast string,
	hAmount float32, now string, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	db.called("PaymentByName")
	db.WID = warehouseID
	db.DID = districtID
	db.CWID = cWarehouseID
	db.CDID = cDistrictID
	db.CLast = cLast
	db.HAmount = hAmount
	db.Now = now
}

func (db *DB) PaymentHome(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32, hAmount float32,
	now string, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	log.Panicf("mock: PaymentHome is not supported")
}

func (db *DB) PaymentRemote(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32, hAmount float32,
	output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	log.Panicf("mock: PaymentRemote is not supported")
}

func (db *DB) PaymentRemoteByName(warehouseID, districtID, cWarehouseID, cDistrictID int32, cLast string,
	hAmount float32, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	log.Panicf("mock: PaymentRemoteByName is not supported")
}

func (db *DB) Delivery(warehouseID, carrierID int32, now string, orders *[]tpcc.DeliveryOrderInfo, undo **tpcc.Undo) {
	db.called("Delivery")
	db.WID = warehouseID
	db.DeliveryCarrierID = carrierID
	db.Now = now
}

func (db *DB) HasWarehouse(warehouseID int32) bool {
	if db.Warehouses == nil {
		return true
	}
	return db.Warehouses[warehouseID]
}

func (db *DB) ApplyUndo(undo *tpcc.Undo) {
	db.called("ApplyUndo")
}

func (db *DB) FreeUndo(undo *tpcc.Undo) {
	db.called("FreeUndo")
}
