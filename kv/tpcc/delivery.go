package tpcc

import "github.com/pingcap-incubator/tinytpcc/log"

func (t *Tables) Delivery(warehouseID, carrierID int32, now string, orders *[]DeliveryOrderInfo, undo **Undo) {
	*orders = (*orders)[:0]
	for d := int32(1); d <= DistrictsPerWarehouse; d++ {
		newOrder := t.firstNewOrder(warehouseID, d)
		if newOrder == nil {
			continue
		}
		order := t.FindOrder(warehouseID, d, newOrder.OID)
		if order == nil {
			log.Panicf("new order without order w=%d d=%d o=%d", warehouseID, d, newOrder.OID)
		}
		*orders = append(*orders, DeliveryOrderInfo{DID: d, OID: newOrder.OID})

		u := allocateUndo(undo)
		t.eraseNewOrder(newOrder)
		u.inserted(warehouseID, deletedNewOrder{newOrder})

		u.saveOrder(order)
		order.CarrierID = carrierID

		var total float32
		for n := int32(1); n <= order.OLCnt; n++ {
			line := t.FindOrderLine(warehouseID, d, order.ID, n)
			if line == nil {
				log.Panicf("missing order line w=%d d=%d o=%d n=%d", warehouseID, d, order.ID, n)
			}
			u.saveOrderLine(line)
			SetText(line.DeliveryD[:], now)
			total += line.Amount
		}

		c := t.mustFindCustomer(warehouseID, d, order.CID)
		u.saveCustomer(c)
		c.Balance += total
		c.DeliveryCnt++
	}
}
