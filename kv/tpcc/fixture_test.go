package tpcc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testWID       int32 = MaxWarehouseID
	testDID       int32 = 2
	testCID       int32 = 3
	testCarrierID int32 = 4
	testOID       int32 = 3972
	testSupplyWID int32 = 5
	testQuantity  int32 = 6
	testItemImID  int32 = 52

	customerFirst  = "foo4567890"
	customerMiddle = "AB"
	customerLast   = "bar4567890123456"
	now            = "20080708012243"
	itemName       = "12345678901234"
	itemData       = "ORIGINAL9012345678901234"
	stockDist      = "12345678901234"
	wName          = "wname"
	dName          = "dname"
	street         = "maxstreet01234567890"
)

var (
	customerBalance  float32 = 123.45
	customerDiscount float32 = 0.0003
	lineAmount       float32 = 1.23
	wTax             float32 = 0.0001
	dTax             float32 = 0.0002
	itemPrice        float32 = 1.09
	paymentAmount    float32 = 123.45
)

type fixture struct {
	t      *testing.T
	tables *Tables
	undo   *Undo
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, tables: NewTables()}
}

func (f *fixture) makeDistrict(w, d, nextOID int32) {
	district := District{WID: w, ID: d, NextOID: nextOID, Tax: dTax}
	SetText(district.Name[:], dName)
	f.tables.InsertDistrict(&district)
}

func (f *fixture) makeOrderLine(w, d, o, number, iid int32) {
	f.tables.InsertOrderLine(&OrderLine{
		WID:       w,
		DID:       d,
		OID:       o,
		Number:    number,
		IID:       iid,
		SupplyWID: testSupplyWID,
		Quantity:  testQuantity,
		Amount:    lineAmount,
	})
}

func (f *fixture) makeStock(w, iid, quantity int32, original bool) {
	stock := Stock{WID: w, IID: iid, Quantity: quantity}
	data := []byte("01234567890123456789012345678901234567890123456789")
	if original {
		copy(data[25:], OriginalString)
	}
	SetText(stock.Data[:], string(data))
	for i := range stock.Dist {
		SetText(stock.Dist[i][:], stockDist)
	}
	f.tables.InsertStock(&stock)
}

func (f *fixture) makeCustomer(w, d, c int32, last, first string) {
	customer := Customer{
		WID:      w,
		DID:      d,
		ID:       c,
		Balance:  customerBalance,
		Discount: customerDiscount,
	}
	SetText(customer.First[:], first)
	SetText(customer.Middle[:], customerMiddle)
	SetText(customer.Last[:], last)
	SetText(customer.Credit[:], BadCredit)
	SetText(customer.Street2[:], street)
	f.tables.InsertCustomer(&customer)
}

func (f *fixture) makeOrder(w, d, o, c, lines int32) {
	order := Order{WID: w, DID: d, ID: o, CID: c, OLCnt: lines, CarrierID: NullCarrierID}
	SetText(order.EntryD[:], now)
	f.tables.InsertOrder(&order)
}

func (f *fixture) makeWarehouse(w int32) {
	warehouse := Warehouse{ID: w, Tax: wTax}
	SetText(warehouse.Name[:], wName)
	SetText(warehouse.Street1[:], street)
	f.tables.InsertWarehouse(&warehouse)
}

func (f *fixture) makeItem(id int32) {
	item := Item{ID: id, ImID: testItemImID, Price: itemPrice}
	SetText(item.Name[:], itemName)
	SetText(item.Data[:], itemData)
	f.tables.InsertItem(&item)
}

// makeNewOrderSuccess loads everything a two line new order needs. The
// second line is supplied by another warehouse.
func (f *fixture) makeNewOrderSuccess() []NewOrderItem {
	f.makeWarehouse(testWID)
	f.makeDistrict(testWID, testDID, 22)
	f.makeCustomer(testWID, testDID, testCID, customerLast, customerFirst)
	f.makeItem(1)
	f.makeItem(2)
	f.makeStock(testWID, 1, 18, true)
	f.makeStock(testWID-1, 2, 19, false)
	return []NewOrderItem{
		{IID: 1, SupplyWID: testWID, Quantity: 9},
		{IID: 2, SupplyWID: testWID - 1, Quantity: 9},
	}
}

func (f *fixture) makePaymentSuccess() {
	f.makeWarehouse(testWID)
	f.makeDistrict(testWID, testDID, 22)
	f.makeCustomer(testWID-1, testDID-1, testCID, customerLast, customerFirst)
}

func requireText(t *testing.T, want string, got []byte) {
	require.Equal(t, want, Text(got))
}

func repeat(c string, n int) string {
	return strings.Repeat(c, n)
}
