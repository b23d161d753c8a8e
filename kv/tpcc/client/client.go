// Package client drives a tpcc.DB with the standard transaction mix.
//
// Terminals are not modelled: every call picks its warehouse and district at
// random unless they were bound, and there is no keying or think time.
package client

import (
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc/random"
	"github.com/pingcap-incubator/tinytpcc/kv/util/clock"
	"github.com/pingcap-incubator/tinytpcc/log"
)

// Kind names one of the five transactions.
type Kind int

const (
	StockLevel Kind = iota
	OrderStatus
	Delivery
	Payment
	NewOrder
	NumKinds
)

var kindNames = [NumKinds]string{"stock_level", "order_status", "delivery", "payment", "new_order"}

func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds lists every transaction kind in mix order.
func Kinds() []Kind {
	return []Kind{StockLevel, OrderStatus, Delivery, Payment, NewOrder}
}

const (
	// DefaultRemoteItemMilliP is the chance, in thousandths, that a new
	// order line is supplied by another warehouse.
	DefaultRemoteItemMilliP = 10

	byNamePercent         = 60
	localCustomerPercent  = 85
	rollbackPercent       = 1
	stockLevelMixPercent  = 4
	deliveryMixPercent    = 4
	orderStatusMixPercent = 4
	paymentMixPercent     = 43
)

type Client struct {
	clock                 clock.Clock
	rand                  *random.Generator
	db                    tpcc.DB
	numItems              int
	numWarehouses         int
	districtsPerWarehouse int
	customersPerDistrict  int
	remoteItemMilliP      int
	boundWarehouse        int
	boundDistrict         int

	// reused between calls
	items       []tpcc.NewOrderItem
	newOrderOut tpcc.NewOrderOutput
	paymentOut  tpcc.PaymentOutput
	statusOut   tpcc.OrderStatusOutput
	delivered   []tpcc.DeliveryOrderInfo
}

func NewClient(clk clock.Clock, rand *random.Generator, db tpcc.DB, numItems, numWarehouses,
	districtsPerWarehouse, customersPerDistrict int) *Client {
	return &Client{
		clock:                 clk,
		rand:                  rand,
		db:                    db,
		numItems:              numItems,
		numWarehouses:         numWarehouses,
		districtsPerWarehouse: districtsPerWarehouse,
		customersPerDistrict:  customersPerDistrict,
		remoteItemMilliP:      DefaultRemoteItemMilliP,
		items:                 make([]tpcc.NewOrderItem, 0, tpcc.MaxOLCnt),
	}
}

// SetRemoteItemMilliP sets the chance, in thousandths, that a new order line
// is supplied remotely.
func (c *Client) SetRemoteItemMilliP(p int) {
	if p < 0 || p > 1000 {
		log.Panicf("remote item probability %d is not in [0, 1000]", p)
	}
	c.remoteItemMilliP = p
}

// BindWarehouseDistrict pins the home warehouse and district. Zero leaves the
// value random.
func (c *Client) BindWarehouseDistrict(warehouseID, districtID int) {
	if warehouseID < 0 || warehouseID > c.numWarehouses {
		log.Panicf("bound warehouse %d is not in [0, %d]", warehouseID, c.numWarehouses)
	}
	if districtID < 0 || districtID > c.districtsPerWarehouse {
		log.Panicf("bound district %d is not in [0, %d]", districtID, c.districtsPerWarehouse)
	}
	c.boundWarehouse = warehouseID
	c.boundDistrict = districtID
}

func (c *Client) DoStockLevel() {
	threshold := c.rand.Number(tpcc.MinStockLevelThreshold, tpcc.MaxStockLevelThreshold)
	c.db.StockLevel(c.generateWarehouse(), c.generateDistrict(), int32(threshold))
}

func (c *Client) DoOrderStatus() {
	w, d := c.generateWarehouse(), c.generateDistrict()
	if c.rand.Number(1, 100) <= byNamePercent {
		c.db.OrderStatusByName(w, d, c.rand.LastName(c.customersPerDistrict), &c.statusOut)
	} else {
		c.db.OrderStatus(w, d, c.generateCID(), &c.statusOut)
	}
}

func (c *Client) DoDelivery() {
	carrier := int32(c.rand.Number(tpcc.MinCarrierID, tpcc.MaxCarrierID))
	c.delivered = c.delivered[:0]
	c.db.Delivery(c.generateWarehouse(), carrier, c.clock.DateTimestamp(), &c.delivered, nil)
}

// DoPayment pays a customer of the home district, or with 15% chance a
// customer of another warehouse when there is more than one.
func (c *Client) DoPayment() {
	w, d := c.generateWarehouse(), c.generateDistrict()
	cw, cd := w, d
	if c.numWarehouses > 1 && c.rand.Number(1, 100) > localCustomerPercent {
		cw = int32(c.rand.NumberExcluding(1, c.numWarehouses, int(w)))
		cd = int32(c.rand.Number(1, c.districtsPerWarehouse))
	}
	amount := c.rand.FixedPoint(2, tpcc.MinPaymentAmount, tpcc.MaxPaymentAmount)
	now := c.clock.DateTimestamp()
	if c.rand.Number(1, 100) <= byNamePercent {
		c.db.PaymentByName(w, d, cw, cd, c.rand.LastName(c.customersPerDistrict), amount, now, &c.paymentOut, nil)
	} else {
		c.db.Payment(w, d, cw, cd, c.generateCID(), amount, now, &c.paymentOut, nil)
	}
}

// DoNewOrder submits an order and reports whether it committed. One order
// in a hundred carries an unused item id on its last line and aborts.
func (c *Client) DoNewOrder() bool {
	w, d := c.generateWarehouse(), c.generateDistrict()
	cid := c.generateCID()
	olCnt := c.rand.Number(tpcc.MinOLCnt, tpcc.MaxOLCnt)
	rollback := c.rand.Number(1, 100) <= rollbackPercent

	c.items = c.items[:olCnt]
	for i := range c.items {
		item := &c.items[i]
		if rollback && i == olCnt-1 {
			item.IID = int32(c.numItems + 1)
		} else {
			item.IID = c.generateItemID()
		}
		remote := c.rand.Number(1, 1000) <= c.remoteItemMilliP
		if c.numWarehouses > 1 && remote {
			item.SupplyWID = int32(c.rand.NumberExcluding(1, c.numWarehouses, int(w)))
		} else {
			item.SupplyWID = w
		}
		item.Quantity = int32(c.rand.Number(1, tpcc.MaxOLQuantity))
	}
	return c.db.NewOrder(w, d, cid, c.items, c.clock.DateTimestamp(), &c.newOrderOut, nil)
}

// DoOne runs a transaction picked from the mix and reports which one ran
// and whether it committed.
func (c *Client) DoOne() (Kind, bool) {
	x := c.rand.Number(1, 100)
	switch {
	case x <= stockLevelMixPercent:
		c.DoStockLevel()
		return StockLevel, true
	case x <= stockLevelMixPercent+deliveryMixPercent:
		c.DoDelivery()
		return Delivery, true
	case x <= stockLevelMixPercent+deliveryMixPercent+orderStatusMixPercent:
		c.DoOrderStatus()
		return OrderStatus, true
	case x <= stockLevelMixPercent+deliveryMixPercent+orderStatusMixPercent+paymentMixPercent:
		c.DoPayment()
		return Payment, true
	default:
		return NewOrder, c.DoNewOrder()
	}
}

func (c *Client) generateWarehouse() int32 {
	if c.boundWarehouse != 0 {
		return int32(c.boundWarehouse)
	}
	return int32(c.rand.Number(1, c.numWarehouses))
}

func (c *Client) generateDistrict() int32 {
	if c.boundDistrict != 0 {
		return int32(c.boundDistrict)
	}
	return int32(c.rand.Number(1, c.districtsPerWarehouse))
}

func (c *Client) generateCID() int32 {
	return int32(c.rand.NURand(1023, 1, c.customersPerDistrict))
}

func (c *Client) generateItemID() int32 {
	return int32(c.rand.NURand(8191, 1, c.numItems))
}
