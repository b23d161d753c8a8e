package tpcc

import (
	"bytes"
	"sync"

	"github.com/google/btree"
	"github.com/pingcap-incubator/tinytpcc/kv/util/bptree"
	"github.com/pingcap-incubator/tinytpcc/log"
)

const (
	defaultKeysPerInternal = 8
	defaultKeysPerLeaf     = 8
	defaultBTreeDegree     = 32
)

var (
	_ btree.Item = customerByName{}
	_ btree.Item = newOrderItem{}
)

// CustomerByNameLess orders customers by (warehouse, district, last name,
// first name, id).
func CustomerByNameLess(a, b *Customer) bool {
	if a.WID != b.WID {
		return a.WID < b.WID
	}
	if a.DID != b.DID {
		return a.DID < b.DID
	}
	if c := bytes.Compare(a.Last[:], b.Last[:]); c != 0 {
		return c < 0
	}
	if c := bytes.Compare(a.First[:], b.First[:]); c != 0 {
		return c < 0
	}
	return a.ID < b.ID
}

type customerByName struct {
	c *Customer
}

func (i customerByName) Less(other btree.Item) bool {
	return CustomerByNameLess(i.c, other.(customerByName).c)
}

type newOrderItem struct {
	key int64
	row *NewOrder
}

func (i newOrderItem) Less(other btree.Item) bool {
	return i.key < other.(newOrderItem).key
}

// Tables holds every TPC-C table in memory and runs the transactions against
// them. Pointers returned by the Find methods are borrowed and stay valid
// until the next transaction runs on the store.
//
// mu guards the index structures only. Callers that run transactions from
// several goroutines must keep them from touching the same rows; see the
// executors in kv/transaction.
type Tables struct {
	mu sync.Mutex

	items            []Item
	warehouses       *bptree.Tree[int64, *Warehouse]
	stock            *bptree.Tree[int64, *Stock]
	districts        *bptree.Tree[int64, *District]
	customers        *bptree.Tree[int64, *Customer]
	orders           *bptree.Tree[int64, *Order]
	ordersByCustomer *bptree.Tree[int64, *Order]
	orderLines       *bptree.Tree[int64, *OrderLine]
	customersByName  *btree.BTree
	newOrders        *btree.BTree
	history          []*History
}

// NewTables creates an empty store with the default index fanout.
func NewTables() *Tables {
	return NewTablesWithFanout(defaultKeysPerInternal, defaultKeysPerLeaf)
}

// NewTablesWithFanout creates an empty store whose B+Trees use the given node
// capacities.
func NewTablesWithFanout(keysPerInternal, keysPerLeaf int) *Tables {
	return &Tables{
		warehouses:       bptree.New[int64, *Warehouse](keysPerInternal, keysPerLeaf),
		stock:            bptree.New[int64, *Stock](keysPerInternal, keysPerLeaf),
		districts:        bptree.New[int64, *District](keysPerInternal, keysPerLeaf),
		customers:        bptree.New[int64, *Customer](keysPerInternal, keysPerLeaf),
		orders:           bptree.New[int64, *Order](keysPerInternal, keysPerLeaf),
		ordersByCustomer: bptree.New[int64, *Order](keysPerInternal, keysPerLeaf),
		orderLines:       bptree.New[int64, *OrderLine](keysPerInternal, keysPerLeaf),
		customersByName:  btree.New(defaultBTreeDegree),
		newOrders:        btree.New(defaultBTreeDegree),
	}
}

// ReserveItems preallocates room for n items.
func (t *Tables) ReserveItems(n int) {
	if cap(t.items) < n {
		items := make([]Item, len(t.items), n)
		copy(items, t.items)
		t.items = items
	}
}

// InsertItem appends an item. Item ids must be inserted densely from 1.
func (t *Tables) InsertItem(item *Item) {
	if int(item.ID) != len(t.items)+1 {
		log.Panicf("item %d inserted out of order, expected %d", item.ID, len(t.items)+1)
	}
	t.items = append(t.items, *item)
}

// FindItem returns nil when id is not a loaded item.
func (t *Tables) FindItem(id int32) *Item {
	if id < 1 || int(id) > len(t.items) {
		return nil
	}
	return &t.items[id-1]
}

func (t *Tables) InsertWarehouse(w *Warehouse) {
	row := *w
	t.mu.Lock()
	defer t.mu.Unlock()
	insertUnique(t.warehouses, warehouseKey(w.ID), &row, "warehouse")
}

func (t *Tables) FindWarehouse(id int32) *Warehouse {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, _ := t.warehouses.Find(warehouseKey(id))
	return w
}

// HasWarehouse reports whether warehouse id has been loaded.
func (t *Tables) HasWarehouse(id int32) bool {
	if id < 1 || id > MaxWarehouseID {
		return false
	}
	return t.FindWarehouse(id) != nil
}

func (t *Tables) InsertDistrict(d *District) {
	row := *d
	t.mu.Lock()
	defer t.mu.Unlock()
	insertUnique(t.districts, districtKey(d.WID, d.ID), &row, "district")
}

func (t *Tables) FindDistrict(w, d int32) *District {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, _ := t.districts.Find(districtKey(w, d))
	return row
}

func (t *Tables) InsertStock(s *Stock) {
	row := *s
	t.mu.Lock()
	defer t.mu.Unlock()
	insertUnique(t.stock, stockKey(s.WID, s.IID), &row, "stock")
}

func (t *Tables) FindStock(w, i int32) *Stock {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, _ := t.stock.Find(stockKey(w, i))
	return row
}

func (t *Tables) InsertCustomer(c *Customer) {
	row := *c
	t.mu.Lock()
	defer t.mu.Unlock()
	insertUnique(t.customers, customerKey(c.WID, c.DID, c.ID), &row, "customer")
	if t.customersByName.ReplaceOrInsert(customerByName{&row}) != nil {
		log.Panicf("duplicate customer name entry w=%d d=%d c=%d", c.WID, c.DID, c.ID)
	}
}

func (t *Tables) FindCustomer(w, d, c int32) *Customer {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, _ := t.customers.Find(customerKey(w, d, c))
	return row
}

// FindCustomerByName returns the customer in position (n-1)/2 among the n
// customers of the district with the given last name, ordered by first name.
// It returns nil when there is no such customer.
func (t *Tables) FindCustomerByName(w, d int32, last string) *Customer {
	probe := &Customer{WID: w, DID: d}
	SetText(probe.Last[:], last)

	var matches []*Customer
	t.mu.Lock()
	t.customersByName.AscendGreaterOrEqual(customerByName{probe}, func(i btree.Item) bool {
		c := i.(customerByName).c
		if c.WID != w || c.DID != d || c.Last != probe.Last {
			return false
		}
		matches = append(matches, c)
		return true
	})
	t.mu.Unlock()

	if len(matches) == 0 {
		return nil
	}
	return matches[(len(matches)-1)/2]
}

// InsertOrder stores o in the order and order-by-customer indexes.
func (t *Tables) InsertOrder(o *Order) *Order {
	row := *o
	t.mu.Lock()
	defer t.mu.Unlock()
	insertUnique(t.orders, orderKey(o.WID, o.DID, o.ID), &row, "order")
	insertUnique(t.ordersByCustomer, orderByCustomerKey(o.WID, o.DID, o.CID, o.ID), &row, "order by customer")
	return &row
}

func (t *Tables) FindOrder(w, d, o int32) *Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, _ := t.orders.Find(orderKey(w, d, o))
	return row
}

// FindLastOrderByCustomer returns the customer's order with the highest id.
func (t *Tables) FindLastOrderByCustomer(w, d, c int32) *Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	o, _, ok := t.ordersByCustomer.FindLastLessThan(orderByCustomerKey(w, d, c, MaxOrderID) + 1)
	if !ok || o.WID != w || o.DID != d || o.CID != c {
		return nil
	}
	return o
}

func (t *Tables) eraseOrder(o *Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.orders.Delete(orderKey(o.WID, o.DID, o.ID)) ||
		!t.ordersByCustomer.Delete(orderByCustomerKey(o.WID, o.DID, o.CID, o.ID)) {
		log.Panicf("erase of missing order w=%d d=%d o=%d", o.WID, o.DID, o.ID)
	}
}

func (t *Tables) InsertOrderLine(l *OrderLine) *OrderLine {
	row := *l
	t.mu.Lock()
	defer t.mu.Unlock()
	insertUnique(t.orderLines, orderLineKey(l.WID, l.DID, l.OID, l.Number), &row, "order line")
	return &row
}

func (t *Tables) FindOrderLine(w, d, o, number int32) *OrderLine {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, _ := t.orderLines.Find(orderLineKey(w, d, o, number))
	return row
}

func (t *Tables) eraseOrderLine(l *OrderLine) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.orderLines.Delete(orderLineKey(l.WID, l.DID, l.OID, l.Number)) {
		log.Panicf("erase of missing order line w=%d d=%d o=%d n=%d", l.WID, l.DID, l.OID, l.Number)
	}
}

// InsertNewOrder marks order o as undelivered.
func (t *Tables) InsertNewOrder(w, d, o int32) *NewOrder {
	row := &NewOrder{WID: w, DID: d, OID: o}
	t.insertNewOrderRow(row)
	return row
}

func (t *Tables) insertNewOrderRow(row *NewOrder) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.newOrders.ReplaceOrInsert(newOrderItem{newOrderKey(row.WID, row.DID, row.OID), row}) != nil {
		log.Panicf("duplicate new order w=%d d=%d o=%d", row.WID, row.DID, row.OID)
	}
}

func (t *Tables) FindNewOrder(w, d, o int32) *NewOrder {
	t.mu.Lock()
	defer t.mu.Unlock()
	item := t.newOrders.Get(newOrderItem{key: newOrderKey(w, d, o)})
	if item == nil {
		return nil
	}
	return item.(newOrderItem).row
}

// firstNewOrder returns the undelivered order of the district with the
// lowest id.
func (t *Tables) firstNewOrder(w, d int32) *NewOrder {
	var row *NewOrder
	t.mu.Lock()
	t.newOrders.AscendGreaterOrEqual(newOrderItem{key: newOrderKey(w, d, 1)}, func(i btree.Item) bool {
		if r := i.(newOrderItem).row; r.WID == w && r.DID == d {
			row = r
		}
		return false
	})
	t.mu.Unlock()
	return row
}

func (t *Tables) eraseNewOrder(row *NewOrder) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.newOrders.Delete(newOrderItem{key: newOrderKey(row.WID, row.DID, row.OID)}) == nil {
		log.Panicf("erase of missing new order w=%d d=%d o=%d", row.WID, row.DID, row.OID)
	}
}

// InsertHistory appends a history row.
func (t *Tables) InsertHistory(h *History) *History {
	row := *h
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = append(t.history, &row)
	return &row
}

// History returns a snapshot of the history rows in insertion order.
func (t *Tables) History() []*History {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*History(nil), t.history...)
}

// removeHistory drops h, which is normally the last row.
func (t *Tables) removeHistory(h *History) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.history) - 1; i >= 0; i-- {
		if t.history[i] == h {
			copy(t.history[i:], t.history[i+1:])
			t.history[len(t.history)-1] = nil
			t.history = t.history[:len(t.history)-1]
			return
		}
	}
	log.Panicf("history row for customer %d not found", h.CID)
}

func (t *Tables) NumItems() int {
	return len(t.items)
}

func (t *Tables) NumOrders() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.orders.Len()
}

func (t *Tables) NumOrderLines() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.orderLines.Len()
}

func (t *Tables) NumNewOrders() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.newOrders.Len()
}

func (t *Tables) NumHistory() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.history)
}

func insertUnique[V any](tree *bptree.Tree[int64, V], key int64, v V, table string) {
	if _, ok := tree.Find(key); ok {
		log.Panicf("duplicate %s key %d", table, key)
	}
	tree.Insert(key, v)
}
