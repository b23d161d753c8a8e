// Package loader populates a store with the initial TPC-C database.
package loader

import (
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc/random"
)

// Store is the part of the record store the loader writes to.
type Store interface {
	ReserveItems(n int)
	InsertItem(item *tpcc.Item)
	InsertWarehouse(w *tpcc.Warehouse)
	InsertDistrict(d *tpcc.District)
	InsertStock(s *tpcc.Stock)
	InsertCustomer(c *tpcc.Customer)
	InsertOrder(o *tpcc.Order) *tpcc.Order
	InsertOrderLine(l *tpcc.OrderLine) *tpcc.OrderLine
	InsertNewOrder(w, d, o int32) *tpcc.NewOrder
	InsertHistory(h *tpcc.History) *tpcc.History
}

var _ Store = (*tpcc.Tables)(nil)

// Generator builds rows for a database of the configured size.
type Generator struct {
	rand                  *random.Generator
	now                   string
	numItems              int
	districtsPerWarehouse int
	customersPerDistrict  int
	newOrdersPerDistrict  int
}

func NewGenerator(rand *random.Generator, now string, numItems, districtsPerWarehouse,
	customersPerDistrict, newOrdersPerDistrict int) *Generator {
	return &Generator{
		rand:                  rand,
		now:                   now,
		numItems:              numItems,
		districtsPerWarehouse: districtsPerWarehouse,
		customersPerDistrict:  customersPerDistrict,
		newOrdersPerDistrict:  newOrdersPerDistrict,
	}
}

// withOriginal overwrites a random position of data with the ORIGINAL
// marker.
func (g *Generator) withOriginal(data string) string {
	pos := g.rand.Number(0, len(data)-len(tpcc.OriginalString))
	return data[:pos] + tpcc.OriginalString + data[pos+len(tpcc.OriginalString):]
}

func (g *Generator) GenerateItem(id int32, original bool) tpcc.Item {
	item := tpcc.Item{
		ID:    id,
		ImID:  int32(g.rand.Number(tpcc.MinIM, tpcc.MaxIM)),
		Price: g.rand.FixedPoint(2, tpcc.MinItemPrice, tpcc.MaxItemPrice),
	}
	tpcc.SetText(item.Name[:], g.rand.AString(tpcc.MinItemName, tpcc.MaxItemName))
	data := g.rand.AString(tpcc.MinItemData, tpcc.MaxItemData)
	if original {
		data = g.withOriginal(data)
	}
	tpcc.SetText(item.Data[:], data)
	return item
}

func (g *Generator) generateAddress(a *tpcc.Address) {
	tpcc.SetText(a.Street1[:], g.rand.AString(tpcc.MinStreet, tpcc.MaxStreet))
	tpcc.SetText(a.Street2[:], g.rand.AString(tpcc.MinStreet, tpcc.MaxStreet))
	tpcc.SetText(a.City[:], g.rand.AString(tpcc.MinCity, tpcc.MaxCity))
	tpcc.SetText(a.State[:], g.rand.AString(tpcc.State, tpcc.State))
	tpcc.SetText(a.Zip[:], g.rand.NString(4, 4)+"11111")
}

func (g *Generator) GenerateWarehouse(id int32) tpcc.Warehouse {
	w := tpcc.Warehouse{
		ID:  id,
		Tax: g.rand.FixedPoint(4, tpcc.MinWarehouseTax, tpcc.MaxWarehouseTax),
		YTD: tpcc.InitialWarehouseYTD,
	}
	tpcc.SetText(w.Name[:], g.rand.AString(tpcc.MinWarehouseName, tpcc.MaxWarehouseName))
	g.generateAddress(&w.Address)
	return w
}

func (g *Generator) GenerateStock(itemID, warehouseID int32, original bool) tpcc.Stock {
	s := tpcc.Stock{
		IID:      itemID,
		WID:      warehouseID,
		Quantity: int32(g.rand.Number(tpcc.MinStockQuantity, tpcc.MaxStockQuantity)),
	}
	for i := range s.Dist {
		tpcc.SetText(s.Dist[i][:], g.rand.AString(tpcc.StockDist, tpcc.StockDist))
	}
	data := g.rand.AString(tpcc.MinStockData, tpcc.MaxStockData)
	if original {
		data = g.withOriginal(data)
	}
	tpcc.SetText(s.Data[:], data)
	return s
}

func (g *Generator) GenerateDistrict(id, warehouseID int32) tpcc.District {
	d := tpcc.District{
		ID:      id,
		WID:     warehouseID,
		Tax:     g.rand.FixedPoint(4, tpcc.MinDistrictTax, tpcc.MaxDistrictTax),
		YTD:     tpcc.InitialDistrictYTD,
		NextOID: int32(g.customersPerDistrict + 1),
	}
	tpcc.SetText(d.Name[:], g.rand.AString(tpcc.MinDistrictName, tpcc.MaxDistrictName))
	g.generateAddress(&d.Address)
	return d
}

// GenerateCustomer builds customer id. The first 1000 customers of a
// district get every last name once; later ones are drawn with NURand.
func (g *Generator) GenerateCustomer(id, districtID, warehouseID int32, badCredit bool) tpcc.Customer {
	c := tpcc.Customer{
		ID:          id,
		DID:         districtID,
		WID:         warehouseID,
		CreditLim:   tpcc.InitialCreditLim,
		Discount:    g.rand.FixedPoint(4, tpcc.MinCustomerDiscount, tpcc.MaxCustomerDiscount),
		Balance:     tpcc.InitialCustomerBalance,
		YTDPayment:  tpcc.InitialYTDPayment,
		PaymentCnt:  tpcc.InitialPaymentCnt,
		DeliveryCnt: tpcc.InitialDeliveryCnt,
	}
	tpcc.SetText(c.First[:], g.rand.AString(tpcc.MinFirst, tpcc.MaxFirst))
	tpcc.SetText(c.Middle[:], tpcc.MiddleName)
	if id <= 1000 {
		tpcc.SetText(c.Last[:], random.MakeLastName(int(id)-1))
	} else {
		tpcc.SetText(c.Last[:], g.rand.LastName(g.customersPerDistrict))
	}
	g.generateAddress(&c.Address)
	tpcc.SetText(c.Phone[:], g.rand.NString(tpcc.Phone, tpcc.Phone))
	tpcc.SetText(c.Since[:], g.now)
	if badCredit {
		tpcc.SetText(c.Credit[:], tpcc.BadCredit)
	} else {
		tpcc.SetText(c.Credit[:], tpcc.GoodCredit)
	}
	tpcc.SetText(c.Data[:], g.rand.AString(tpcc.MinCustomerData, tpcc.MaxCustomerData))
	return c
}

// GenerateOrder builds an order. Undelivered orders have no carrier.
func (g *Generator) GenerateOrder(id, customerID, districtID, warehouseID int32, newOrder bool) tpcc.Order {
	o := tpcc.Order{
		ID:        id,
		CID:       customerID,
		DID:       districtID,
		WID:       warehouseID,
		CarrierID: tpcc.NullCarrierID,
		AllLocal:  tpcc.InitialAllLocal,
	}
	if !newOrder {
		o.CarrierID = int32(g.rand.Number(tpcc.MinCarrierID, tpcc.MaxCarrierID))
	}
	o.OLCnt = int32(g.rand.Number(tpcc.MinOLCnt, tpcc.MaxOLCnt))
	tpcc.SetText(o.EntryD[:], g.now)
	return o
}

// GenerateOrderLine builds a line. Delivered lines have a zero amount and
// are stamped with the load time.
func (g *Generator) GenerateOrderLine(number, orderID, districtID, warehouseID int32, newOrder bool) tpcc.OrderLine {
	l := tpcc.OrderLine{
		OID:       orderID,
		DID:       districtID,
		WID:       warehouseID,
		Number:    number,
		IID:       int32(g.rand.Number(tpcc.MinOrderLineIID, g.numItems)),
		SupplyWID: warehouseID,
		Quantity:  tpcc.InitialOrderLineQuantity,
	}
	if newOrder {
		l.Amount = g.rand.FixedPoint(2, tpcc.MinOrderLineAmount, tpcc.MaxOrderLineAmount)
	} else {
		tpcc.SetText(l.DeliveryD[:], g.now)
	}
	tpcc.SetText(l.DistInfo[:], g.rand.AString(tpcc.StockDist, tpcc.StockDist))
	return l
}

func (g *Generator) GenerateHistory(customerID, districtID, warehouseID int32) tpcc.History {
	h := tpcc.History{
		CID:    customerID,
		CDID:   districtID,
		CWID:   warehouseID,
		DID:    districtID,
		WID:    warehouseID,
		Amount: tpcc.InitialHistoryAmount,
	}
	tpcc.SetText(h.Date[:], g.now)
	tpcc.SetText(h.Data[:], g.rand.AString(tpcc.MinHistoryData, tpcc.MaxHistoryData))
	return h
}

// MakeItemsTable inserts every item; a tenth of them are marked original.
func (g *Generator) MakeItemsTable(store Store) {
	store.ReserveItems(g.numItems)
	original := g.rand.UniqueIDs(g.numItems/10, 1, g.numItems)
	for i := 1; i <= g.numItems; i++ {
		_, isOriginal := original[i]
		item := g.GenerateItem(int32(i), isOriginal)
		store.InsertItem(&item)
	}
}

// MakeWarehouse inserts a warehouse with its stock, districts, customers,
// history and orders.
func (g *Generator) MakeWarehouse(store Store, warehouseID int32) {
	w := g.GenerateWarehouse(warehouseID)
	store.InsertWarehouse(&w)

	original := g.rand.UniqueIDs(g.numItems/10, 1, g.numItems)
	for i := 1; i <= g.numItems; i++ {
		_, isOriginal := original[i]
		s := g.GenerateStock(int32(i), warehouseID, isOriginal)
		store.InsertStock(&s)
	}

	for d := int32(1); d <= int32(g.districtsPerWarehouse); d++ {
		district := g.GenerateDistrict(d, warehouseID)
		store.InsertDistrict(&district)

		badCredit := g.rand.UniqueIDs(g.customersPerDistrict/10, 1, g.customersPerDistrict)
		for c := 1; c <= g.customersPerDistrict; c++ {
			_, bad := badCredit[c]
			customer := g.GenerateCustomer(int32(c), d, warehouseID, bad)
			store.InsertCustomer(&customer)

			h := g.GenerateHistory(int32(c), d, warehouseID)
			store.InsertHistory(&h)
		}

		customerIDs := g.rand.Permutation(1, g.customersPerDistrict)
		for o := 1; o <= g.customersPerDistrict; o++ {
			newOrder := o > g.customersPerDistrict-g.newOrdersPerDistrict
			order := g.GenerateOrder(int32(o), int32(customerIDs[o-1]), d, warehouseID, newOrder)
			store.InsertOrder(&order)

			for n := int32(1); n <= order.OLCnt; n++ {
				line := g.GenerateOrderLine(n, order.ID, d, warehouseID, newOrder)
				store.InsertOrderLine(&line)
			}
			if newOrder {
				store.InsertNewOrder(warehouseID, d, order.ID)
			}
		}
	}
}
