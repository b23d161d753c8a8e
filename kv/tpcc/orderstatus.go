package tpcc

import "github.com/pingcap-incubator/tinytpcc/log"

func (t *Tables) OrderStatus(warehouseID, districtID, customerID int32, output *OrderStatusOutput) {
	t.orderStatus(t.mustFindCustomer(warehouseID, districtID, customerID), output)
}

func (t *Tables) OrderStatusByName(warehouseID, districtID int32, cLast string, output *OrderStatusOutput) {
	t.orderStatus(t.mustFindCustomerByName(warehouseID, districtID, cLast), output)
}

// orderStatus reports the customer's latest order and its lines.
func (t *Tables) orderStatus(c *Customer, output *OrderStatusOutput) {
	output.reset()
	output.CID = c.ID
	output.CBalance = c.Balance
	output.CFirst = c.First
	output.CMiddle = c.Middle
	output.CLast = c.Last

	order := t.FindLastOrderByCustomer(c.WID, c.DID, c.ID)
	if order == nil {
		log.Panicf("customer w=%d d=%d c=%d has no orders", c.WID, c.DID, c.ID)
	}
	output.OID = order.ID
	output.OCarrierID = order.CarrierID
	output.OEntryD = order.EntryD

	for n := int32(1); n <= order.OLCnt; n++ {
		line := t.FindOrderLine(c.WID, c.DID, order.ID, n)
		if line == nil {
			log.Panicf("missing order line w=%d d=%d o=%d n=%d", c.WID, c.DID, order.ID, n)
		}
		output.Lines = append(output.Lines, OrderLineSubset{
			IID:       line.IID,
			SupplyWID: line.SupplyWID,
			Quantity:  line.Quantity,
			Amount:    line.Amount,
			DeliveryD: line.DeliveryD,
		})
	}
}
