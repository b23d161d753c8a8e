package tpcc

import "github.com/pingcap-incubator/tinytpcc/log"

// NewOrder enters an order with its lines and updates the stock of every
// supplying warehouse.
func (t *Tables) NewOrder(warehouseID, districtID, customerID int32, items []NewOrderItem,
	now string, output *NewOrderOutput, undo **Undo) bool {
	return t.newOrder(warehouseID, districtID, customerID, items, now, output, undo, false)
}

// NewOrderHome enters the order but leaves the stock of remote supply
// warehouses to NewOrderRemote. Their SQuantity is left zero.
func (t *Tables) NewOrderHome(warehouseID, districtID, customerID int32, items []NewOrderItem,
	now string, output *NewOrderOutput, undo **Undo) bool {
	return t.newOrder(warehouseID, districtID, customerID, items, now, output, undo, true)
}

func (t *Tables) NewOrderRemote(homeWarehouse, remoteWarehouse int32, items []NewOrderItem,
	quantities *[]int32, undo **Undo) bool {
	if homeWarehouse == remoteWarehouse {
		log.Panicf("remote new order for home warehouse %d", homeWarehouse)
	}
	if _, ok := t.findAndValidateItems(items); !ok {
		return false
	}

	q := (*quantities)[:0]
	for range items {
		q = append(q, 0)
	}
	*quantities = q

	for i := range items {
		item := &items[i]
		if item.SupplyWID != remoteWarehouse {
			continue
		}
		stock := t.FindStock(remoteWarehouse, item.IID)
		if stock == nil {
			log.Panicf("missing stock w=%d i=%d", remoteWarehouse, item.IID)
		}
		u := allocateUndo(undo)
		u.saveStock(stock)
		updateStock(stock, item, homeWarehouse)
		q[i] = stock.Quantity
	}
	return true
}

func (t *Tables) newOrder(w, d, c int32, items []NewOrderItem, now string,
	output *NewOrderOutput, undo **Undo, homeOnly bool) bool {
	output.reset()

	district := t.FindDistrict(w, d)
	if district == nil {
		log.Panicf("missing district w=%d d=%d", w, d)
	}
	output.OID = district.NextOID

	customer := t.FindCustomer(w, d, c)
	if customer == nil {
		log.Panicf("missing customer w=%d d=%d c=%d", w, d, c)
	}
	output.CLast = customer.Last
	output.CCredit = customer.Credit

	itemRows, ok := t.findAndValidateItems(items)
	if !ok {
		SetText(output.Status[:], InvalidItemStatus)
		return false
	}

	warehouse := t.FindWarehouse(w)
	if warehouse == nil {
		log.Panicf("missing warehouse %d", w)
	}
	output.WTax = warehouse.Tax
	output.DTax = district.Tax
	output.CDiscount = customer.Discount

	u := allocateUndo(undo)
	u.saveDistrict(district)
	district.NextOID++

	order := Order{
		ID:        output.OID,
		CID:       c,
		DID:       d,
		WID:       w,
		CarrierID: NullCarrierID,
		OLCnt:     int32(len(items)),
		AllLocal:  1,
	}
	for i := range items {
		if items[i].SupplyWID != w {
			order.AllLocal = 0
			break
		}
	}
	SetText(order.EntryD[:], now)
	u.inserted(w, insertedOrder{t.InsertOrder(&order)})
	u.inserted(w, insertedNewOrder{t.InsertNewOrder(w, d, order.ID)})

	for range items {
		output.Items = append(output.Items, ItemInfo{})
	}
	var sum float32
	for i := range items {
		item := &items[i]
		itemRow := itemRows[i]
		stock := t.FindStock(item.SupplyWID, item.IID)
		if stock == nil {
			log.Panicf("missing stock w=%d i=%d", item.SupplyWID, item.IID)
		}

		line := OrderLine{
			OID:       order.ID,
			DID:       d,
			WID:       w,
			Number:    int32(i + 1),
			IID:       item.IID,
			SupplyWID: item.SupplyWID,
			Quantity:  item.Quantity,
			Amount:    float32(item.Quantity) * itemRow.Price,
			DistInfo:  stock.Dist[d-1],
		}

		info := &output.Items[i]
		info.IPrice = itemRow.Price
		info.IName = itemRow.Name
		info.OLAmount = line.Amount
		if containsText(itemRow.Data[:], OriginalString) && containsText(stock.Data[:], OriginalString) {
			info.BrandGeneric = Brand
		} else {
			info.BrandGeneric = Generic
		}

		if !homeOnly || item.SupplyWID == w {
			u.saveStock(stock)
			updateStock(stock, item, w)
			info.SQuantity = stock.Quantity
		}

		u.inserted(w, insertedOrderLine{t.InsertOrderLine(&line)})
		sum += line.Amount
	}
	output.Total = sum * (1 - output.CDiscount) * (1 + output.WTax + output.DTax)
	return true
}

// findAndValidateItems resolves every requested item. It returns false if any
// item id is unknown.
func (t *Tables) findAndValidateItems(items []NewOrderItem) ([]*Item, bool) {
	rows := make([]*Item, len(items))
	for i := range items {
		row := t.FindItem(items[i].IID)
		if row == nil {
			return nil, false
		}
		rows[i] = row
	}
	return rows, true
}

// updateStock takes item's quantity out of stock, restocking by 91 when the
// level would drop below 10.
func updateStock(stock *Stock, item *NewOrderItem, homeWarehouse int32) {
	if stock.Quantity >= item.Quantity+10 {
		stock.Quantity -= item.Quantity
	} else {
		stock.Quantity = stock.Quantity - item.Quantity + 91
	}
	stock.YTD += item.Quantity
	stock.OrderCnt++
	if item.SupplyWID != homeWarehouse {
		stock.RemoteCnt++
	}
}
