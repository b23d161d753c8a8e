package transaction

import (
	"sync"

	"github.com/pingcap-incubator/tinytpcc/kv/tpcc"
)

// Serial runs every call under one mutex.
type Serial struct {
	mu sync.Mutex
	db tpcc.DB
}

var _ tpcc.DB = (*Serial)(nil)

func NewSerial(db tpcc.DB) *Serial {
	return &Serial{db: db}
}

func (s *Serial) StockLevel(warehouseID, districtID, threshold int32) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.StockLevel(warehouseID, districtID, threshold)
}

func (s *Serial) OrderStatus(warehouseID, districtID, customerID int32, output *tpcc.OrderStatusOutput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.OrderStatus(warehouseID, districtID, customerID, output)
}

func (s *Serial) OrderStatusByName(warehouseID, districtID int32, cLast string, output *tpcc.OrderStatusOutput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.OrderStatusByName(warehouseID, districtID, cLast, output)
}

func (s *Serial) NewOrder(warehouseID, districtID, customerID int32, items []tpcc.NewOrderItem, now string,
	output *tpcc.NewOrderOutput, undo **tpcc.Undo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.NewOrder(warehouseID, districtID, customerID, items, now, output, undo)
}

func (s *Serial) NewOrderHome(warehouseID, districtID, customerID int32, items []tpcc.NewOrderItem, now string,
	output *tpcc.NewOrderOutput, undo **tpcc.Undo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.NewOrderHome(warehouseID, districtID, customerID, items, now, output, undo)
}

func (s *Serial) NewOrderRemote(homeWarehouse, remoteWarehouse int32, items []tpcc.NewOrderItem,
	quantities *[]int32, undo **tpcc.Undo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.NewOrderRemote(homeWarehouse, remoteWarehouse, items, quantities, undo)
}

func (s *Serial) Payment(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32, hAmount float32,
	now string, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.Payment(warehouseID, districtID, cWarehouseID, cDistrictID, customerID, hAmount, now, output, undo)
}

func (s *Serial) PaymentByName(warehouseID, districtID, cWarehouseID, cDistrictID int32, cLast string,
	hAmount float32, now string, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.PaymentByName(warehouseID, districtID, cWarehouseID, cDistrictID, cLast, hAmount, now, output, undo)
}

func (s *Serial) PaymentHome(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32, hAmount float32,
	now string, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.PaymentHome(warehouseID, districtID, cWarehouseID, cDistrictID, customerID, hAmount, now, output, undo)
}

func (s *Serial) PaymentRemote(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32, hAmount float32,
	output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.PaymentRemote(warehouseID, districtID, cWarehouseID, cDistrictID, customerID, hAmount, output, undo)
}

func (s *Serial) PaymentRemoteByName(warehouseID, districtID, cWarehouseID, cDistrictID int32, cLast string,
	hAmount float32, output *tpcc.PaymentOutput, undo **tpcc.Undo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.PaymentRemoteByName(warehouseID, districtID, cWarehouseID, cDistrictID, cLast, hAmount, output, undo)
}

func (s *Serial) Delivery(warehouseID, carrierID int32, now string, orders *[]tpcc.DeliveryOrderInfo,
	undo **tpcc.Undo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.Delivery(warehouseID, carrierID, now, orders, undo)
}

func (s *Serial) HasWarehouse(warehouseID int32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.HasWarehouse(warehouseID)
}

func (s *Serial) ApplyUndo(undo *tpcc.Undo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.ApplyUndo(undo)
}

func (s *Serial) FreeUndo(undo *tpcc.Undo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.FreeUndo(undo)
}
