package tpcc

import (
	"fmt"

	"github.com/pingcap-incubator/tinytpcc/log"
)

func (t *Tables) Payment(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32,
	hAmount float32, now string, output *PaymentOutput, undo **Undo) {
	t.PaymentHome(warehouseID, districtID, cWarehouseID, cDistrictID, customerID, hAmount, now, output, undo)
	if cWarehouseID != warehouseID {
		c := t.mustFindCustomer(cWarehouseID, cDistrictID, customerID)
		t.paymentCustomer(warehouseID, districtID, c, hAmount, output, undo)
	}
}

func (t *Tables) PaymentByName(warehouseID, districtID, cWarehouseID, cDistrictID int32, cLast string,
	hAmount float32, now string, output *PaymentOutput, undo **Undo) {
	c := t.mustFindCustomerByName(cWarehouseID, cDistrictID, cLast)
	t.Payment(warehouseID, districtID, cWarehouseID, cDistrictID, c.ID, hAmount, now, output, undo)
}

func (t *Tables) PaymentHome(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32,
	hAmount float32, now string, output *PaymentOutput, undo **Undo) {
	*output = PaymentOutput{}

	warehouse := t.FindWarehouse(warehouseID)
	if warehouse == nil {
		log.Panicf("missing warehouse %d", warehouseID)
	}
	district := t.FindDistrict(warehouseID, districtID)
	if district == nil {
		log.Panicf("missing district w=%d d=%d", warehouseID, districtID)
	}

	u := allocateUndo(undo)
	u.saveWarehouse(warehouse)
	warehouse.YTD += hAmount
	output.Warehouse = *warehouse

	u.saveDistrict(district)
	district.YTD += hAmount
	output.District = *district

	h := History{
		CID:    customerID,
		CDID:   cDistrictID,
		CWID:   cWarehouseID,
		DID:    districtID,
		WID:    warehouseID,
		Amount: hAmount,
	}
	SetText(h.Date[:], now)
	SetText(h.Data[:], Text(warehouse.Name[:])+"    "+Text(district.Name[:]))
	u.inserted(warehouseID, insertedHistory{t.InsertHistory(&h)})

	if cWarehouseID == warehouseID {
		c := t.mustFindCustomer(cWarehouseID, cDistrictID, customerID)
		t.paymentCustomer(warehouseID, districtID, c, hAmount, output, undo)
	}
}

func (t *Tables) PaymentRemote(warehouseID, districtID, cWarehouseID, cDistrictID, customerID int32,
	hAmount float32, output *PaymentOutput, undo **Undo) {
	*output = PaymentOutput{}
	c := t.mustFindCustomer(cWarehouseID, cDistrictID, customerID)
	t.paymentCustomer(warehouseID, districtID, c, hAmount, output, undo)
}

func (t *Tables) PaymentRemoteByName(warehouseID, districtID, cWarehouseID, cDistrictID int32, cLast string,
	hAmount float32, output *PaymentOutput, undo **Undo) {
	*output = PaymentOutput{}
	c := t.mustFindCustomerByName(cWarehouseID, cDistrictID, cLast)
	t.paymentCustomer(warehouseID, districtID, c, hAmount, output, undo)
}

// paymentCustomer charges hAmount to c. Bad credit customers also get the
// payment prepended to their data.
func (t *Tables) paymentCustomer(warehouseID, districtID int32, c *Customer, hAmount float32,
	output *PaymentOutput, undo **Undo) {
	u := allocateUndo(undo)
	u.saveCustomer(c)
	c.Balance -= hAmount
	c.YTDPayment += hAmount
	c.PaymentCnt++
	if Text(c.Credit[:]) == BadCredit {
		entry := fmt.Sprintf("(%d, %d, %d, %d, %d, %.2f)\n", c.ID, c.DID, c.WID, districtID, warehouseID, hAmount)
		prependText(c.Data[:], entry)
	}
	output.Customer = *c
}

func (t *Tables) mustFindCustomer(w, d, c int32) *Customer {
	customer := t.FindCustomer(w, d, c)
	if customer == nil {
		log.Panicf("missing customer w=%d d=%d c=%d", w, d, c)
	}
	return customer
}

func (t *Tables) mustFindCustomerByName(w, d int32, last string) *Customer {
	customer := t.FindCustomerByName(w, d, last)
	if customer == nil {
		log.Panicf("no customer named %q in w=%d d=%d", last, w, d)
	}
	return customer
}
