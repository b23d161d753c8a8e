package tpcc

import (
	"sort"

	"github.com/pingcap-incubator/tinytpcc/log"
)

// Undo records what a transaction changed so that ApplyUndo can restore the
// store exactly. A nil *Undo records nothing.
type Undo struct {
	records    []undoRecord
	warehouses map[int32]struct{}
}

type undoRecord interface {
	revert(t *Tables)
}

// allocateUndo returns the handle that mutations should be recorded in,
// creating it on first use. It returns nil when the caller passed no slot.
func allocateUndo(undo **Undo) *Undo {
	if undo == nil {
		return nil
	}
	if *undo == nil {
		*undo = &Undo{warehouses: make(map[int32]struct{})}
	}
	return *undo
}

func (u *Undo) add(w int32, r undoRecord) {
	if u == nil {
		return
	}
	u.records = append(u.records, r)
	u.warehouses[w] = struct{}{}
}

// Len returns the number of recorded changes.
func (u *Undo) Len() int {
	if u == nil {
		return 0
	}
	return len(u.records)
}

// Warehouses returns the ids of the warehouses whose rows were changed, in
// increasing order.
func (u *Undo) Warehouses() []int32 {
	if u == nil {
		return nil
	}
	ids := make([]int32, 0, len(u.warehouses))
	for w := range u.warehouses {
		ids = append(ids, w)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type warehouseImage struct {
	row    *Warehouse
	before Warehouse
}

func (r *warehouseImage) revert(*Tables) { *r.row = r.before }

type districtImage struct {
	row    *District
	before District
}

func (r *districtImage) revert(*Tables) { *r.row = r.before }

type stockImage struct {
	row    *Stock
	before Stock
}

func (r *stockImage) revert(*Tables) { *r.row = r.before }

type customerImage struct {
	row    *Customer
	before Customer
}

func (r *customerImage) revert(*Tables) { *r.row = r.before }

type orderImage struct {
	row    *Order
	before Order
}

func (r *orderImage) revert(*Tables) { *r.row = r.before }

type orderLineImage struct {
	row    *OrderLine
	before OrderLine
}

func (r *orderLineImage) revert(*Tables) { *r.row = r.before }

type insertedOrder struct{ row *Order }

func (r insertedOrder) revert(t *Tables) { t.eraseOrder(r.row) }

type insertedOrderLine struct{ row *OrderLine }

func (r insertedOrderLine) revert(t *Tables) { t.eraseOrderLine(r.row) }

type insertedNewOrder struct{ row *NewOrder }

func (r insertedNewOrder) revert(t *Tables) { t.eraseNewOrder(r.row) }

type deletedNewOrder struct{ row *NewOrder }

func (r deletedNewOrder) revert(t *Tables) { t.insertNewOrderRow(r.row) }

type insertedHistory struct{ row *History }

func (r insertedHistory) revert(t *Tables) { t.removeHistory(r.row) }

func (u *Undo) saveWarehouse(w *Warehouse) {
	if u != nil {
		u.add(w.ID, &warehouseImage{w, *w})
	}
}

func (u *Undo) saveDistrict(d *District) {
	if u != nil {
		u.add(d.WID, &districtImage{d, *d})
	}
}

func (u *Undo) saveStock(s *Stock) {
	if u != nil {
		u.add(s.WID, &stockImage{s, *s})
	}
}

func (u *Undo) saveCustomer(c *Customer) {
	if u != nil {
		u.add(c.WID, &customerImage{c, *c})
	}
}

func (u *Undo) saveOrder(o *Order) {
	if u != nil {
		u.add(o.WID, &orderImage{o, *o})
	}
}

func (u *Undo) saveOrderLine(l *OrderLine) {
	if u != nil {
		u.add(l.WID, &orderLineImage{l, *l})
	}
}

func (u *Undo) inserted(w int32, r undoRecord) {
	u.add(w, r)
}

// ApplyUndo reverts every change in u, newest first, then releases u.
func (t *Tables) ApplyUndo(u *Undo) {
	if u == nil {
		log.Panicf("apply of nil undo")
	}
	for i := len(u.records) - 1; i >= 0; i-- {
		u.records[i].revert(t)
	}
	t.FreeUndo(u)
}

// FreeUndo releases u without reverting anything.
func (t *Tables) FreeUndo(u *Undo) {
	if u == nil {
		log.Panicf("free of nil undo")
	}
	u.records = nil
	u.warehouses = nil
}
