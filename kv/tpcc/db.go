package tpcc

import "github.com/pingcap-incubator/tinytpcc/log"

// OrderLineSubset is the part of an order line reported by order status.
type OrderLineSubset struct {
	IID       int32
	SupplyWID int32
	Quantity  int32
	Amount    float32
	DeliveryD [DateTimeSize]byte
}

type OrderStatusOutput struct {
	CID        int32
	CBalance   float32
	OID        int32
	OCarrierID int32
	Lines      []OrderLineSubset
	CFirst     [MaxFirst]byte
	CMiddle    [len(MiddleName)]byte
	CLast      [MaxLast]byte
	OEntryD    [DateTimeSize]byte
}

func (o *OrderStatusOutput) reset() {
	lines := o.Lines[:0]
	*o = OrderStatusOutput{Lines: lines}
}

// NewOrderItem is one requested line of a new-order transaction.
type NewOrderItem struct {
	IID       int32
	SupplyWID int32
	Quantity  int32
}

// ItemInfo is the per line result of a new-order transaction.
type ItemInfo struct {
	SQuantity    int32
	IPrice       float32
	OLAmount     float32
	BrandGeneric byte
	IName        [MaxItemName]byte
}

const (
	Brand   = 'B'
	Generic = 'G'
)

type NewOrderOutput struct {
	WTax      float32
	DTax      float32
	OID       int32
	CDiscount float32
	Total     float32
	Items     []ItemInfo
	CLast     [MaxLast]byte
	CCredit   [Credit]byte
	Status    [MaxNewOrderStatus]byte
}

func (o *NewOrderOutput) reset() {
	items := o.Items[:0]
	*o = NewOrderOutput{Items: items}
}

// PaymentOutput carries the full rows as they are after the payment.
type PaymentOutput struct {
	Warehouse Warehouse
	District  District
	Customer  Customer
}

// DeliveryOrderInfo names an order delivered by a delivery transaction.
type DeliveryOrderInfo struct {
	DID int32
	OID int32
}

// DB runs the TPC-C transactions.
//
// Methods that change data take an undo slot. Passing nil skips undo
// bookkeeping; otherwise *undo is allocated on the first change and must be
// passed to ApplyUndo or FreeUndo afterwards. A nil *undo after the call
// means nothing was changed.
//
// The Home and Remote variants split new-order and payment by warehouse so
// that each part touches a single partition. Their outputs are merged with
// NewOrderCombine and PaymentCombine.
type DB interface {
	// StockLevel counts recently ordered items of the district whose stock is
	// below threshold.
	StockLevel(warehouseID, districtID, threshold int32) int32

	OrderStatus(warehouseID, districtID, customerID int32, output *OrderStatusOutput)
	OrderStatusByName(warehouseID, districtID int32, cLast string, output *OrderStatusOutput)

	// NewOrder returns false when an item is invalid, in which case nothing
	// was changed and the output carries the abort status.
	NewOrder(warehouseID, districtID, customerID int32, items []NewOrderItem, now string,
		output *NewOrderOutput, undo **Undo) bool
	// NewOrderHome is NewOrder without stock updates for remote supply
	// warehouses.
	NewOrderHome(warehouseID, districtID, customerID int32, items []NewOrderItem, now string,
		output *NewOrderOutput, undo **Undo) bool
	// NewOrderRemote updates the stock of lines supplied by remoteWarehouse
	// and stores their new quantities in quantities, which is resized to
	// len(items). Other positions are zero.
	NewOrderRemote(homeWarehouse, remoteWarehouse int32, items []NewOrderItem,
		quantities *[]int32, undo **Undo) bool

	Payment(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32, hAmount float32,
		now string, output *PaymentOutput, undo **Undo)
	PaymentByName(warehouseID, districtID, cWarehouseID, cDistrictID int32, cLast string,
		hAmount float32, now string, output *PaymentOutput, undo **Undo)
	// PaymentHome updates the warehouse and district and records history. The
	// customer is only updated when it belongs to warehouseID.
	PaymentHome(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32, hAmount float32,
		now string, output *PaymentOutput, undo **Undo)
	// PaymentRemote updates only the customer.
	PaymentRemote(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32, hAmount float32,
		output *PaymentOutput, undo **Undo)
	PaymentRemoteByName(warehouseID, districtID, cWarehouseID, cDistrictID int32, cLast string,
		hAmount float32, output *PaymentOutput, undo **Undo)

	// Delivery delivers the oldest undelivered order of every district of
	// the warehouse and reports which orders were delivered.
	Delivery(warehouseID, carrierID int32, now string, orders *[]DeliveryOrderInfo, undo **Undo)

	HasWarehouse(warehouseID int32) bool
	ApplyUndo(undo *Undo)
	FreeUndo(undo *Undo)
}

var _ DB = (*Tables)(nil)

// NewOrderCombine copies the stock quantities computed by a remote call into
// the output of the home call.
func NewOrderCombine(remoteQuantities []int32, output *NewOrderOutput) {
	if len(remoteQuantities) != len(output.Items) {
		log.Panicf("combine of %d remote quantities into %d items", len(remoteQuantities), len(output.Items))
	}
	for i, q := range remoteQuantities {
		if q == 0 {
			continue
		}
		if output.Items[i].SQuantity != 0 {
			log.Panicf("item %d quantity set by both home and remote", i)
		}
		output.Items[i].SQuantity = q
	}
}

// PaymentCombine copies the customer updated by a remote call into the output
// of the home call.
func PaymentCombine(remote *PaymentOutput, home *PaymentOutput) {
	home.Customer = remote.Customer
}
