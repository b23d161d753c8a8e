package tpcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerByNameLess(t *testing.T) {
	var a, b Customer
	a.WID, b.WID = 1, 2
	assert.True(t, CustomerByNameLess(&a, &b))
	assert.False(t, CustomerByNameLess(&b, &a))

	b.WID = 1
	a.DID, b.DID = 1, 2
	assert.True(t, CustomerByNameLess(&a, &b))
	assert.False(t, CustomerByNameLess(&b, &a))

	b.DID = 1
	SetText(a.Last[:], "Afoo")
	SetText(b.Last[:], "Bfoo")
	assert.True(t, CustomerByNameLess(&a, &b))
	assert.False(t, CustomerByNameLess(&b, &a))

	b.Last[0] = 'A'
	SetText(a.First[:], "Afoo")
	SetText(b.First[:], "Bfoo")
	assert.True(t, CustomerByNameLess(&a, &b))
	assert.False(t, CustomerByNameLess(&b, &a))

	b.First[0] = 'A'
	assert.False(t, CustomerByNameLess(&a, &b))
	assert.False(t, CustomerByNameLess(&b, &a))
}

func TestText(t *testing.T) {
	var b [5]byte
	SetText(b[:], "abc")
	assert.Equal(t, "abc", Text(b[:]))
	SetText(b[:], "abcde")
	assert.Equal(t, "abcde", Text(b[:]))
	SetText(b[:], "z")
	assert.Equal(t, [5]byte{'z'}, b)
	assert.Panics(t, func() { SetText(b[:], "abcdef") })

	prependText(b[:], "xy")
	assert.Equal(t, "xyz", Text(b[:]))
	prependText(b[:], "1234")
	assert.Equal(t, "1234x", Text(b[:]))
}

func TestKeyRanges(t *testing.T) {
	assert.Panics(t, func() { warehouseKey(0) })
	assert.Panics(t, func() { warehouseKey(MaxWarehouseID + 1) })
	assert.Panics(t, func() { districtKey(1, DistrictsPerWarehouse+1) })
	assert.Panics(t, func() { customerKey(1, 1, CustomersPerDistrict+1) })
	assert.Panics(t, func() { orderKey(1, 1, MaxOrderID+1) })
	assert.Panics(t, func() { orderLineKey(1, 1, 1, MaxOLCnt+1) })
	assert.True(t, districtKey(1, DistrictsPerWarehouse) < districtKey(2, 1))
	assert.True(t, orderByCustomerKey(1, 1, 1, MaxOrderID) < orderByCustomerKey(1, 1, 2, 1))
}

func TestInsertItem(t *testing.T) {
	f := newFixture(t)
	f.makeItem(1)

	i := f.tables.FindItem(1)
	require.NotNil(t, i)
	assert.Equal(t, int32(1), i.ID)
	assert.Equal(t, testItemImID, i.ImID)
	assert.Equal(t, itemPrice, i.Price)
	requireText(t, itemName, i.Name[:])
	requireText(t, itemData, i.Data[:])
	assert.Nil(t, f.tables.FindItem(2))
	assert.Nil(t, f.tables.FindItem(0))

	assert.Panics(t, func() { f.makeItem(1) })
}

func TestInsertWarehouse(t *testing.T) {
	f := newFixture(t)
	f.makeWarehouse(testWID)
	w := f.tables.FindWarehouse(testWID)
	require.NotNil(t, w)
	assert.Equal(t, testWID, w.ID)
	assert.True(t, f.tables.HasWarehouse(testWID))
	assert.False(t, f.tables.HasWarehouse(1))
	assert.False(t, f.tables.HasWarehouse(MaxWarehouseID+1))

	assert.Panics(t, func() { f.makeWarehouse(testWID) })
}

func TestInsertStock(t *testing.T) {
	f := newFixture(t)
	f.makeStock(testWID, 123, 0, false)
	f.makeStock(42, 123, 0, false)

	s := f.tables.FindStock(42, 123)
	assert.Equal(t, int32(42), s.WID)
	assert.Equal(t, int32(123), s.IID)
	s = f.tables.FindStock(testWID, 123)
	assert.Equal(t, testWID, s.WID)
	assert.Equal(t, int32(123), s.IID)
}

func TestInsertDistrict(t *testing.T) {
	f := newFixture(t)
	f.makeDistrict(testWID, 10, 0)
	f.makeDistrict(42, 10, 0)

	d := f.tables.FindDistrict(42, 10)
	assert.Equal(t, int32(42), d.WID)
	assert.Equal(t, int32(10), d.ID)
	d = f.tables.FindDistrict(testWID, 10)
	assert.Equal(t, testWID, d.WID)
	assert.Equal(t, int32(10), d.ID)
}

func TestInsertCustomer(t *testing.T) {
	f := newFixture(t)
	f.makeCustomer(testWID, 10, 42, customerLast, customerFirst)
	f.makeCustomer(testWID, 1, 42, customerLast, customerFirst)
	f.makeCustomer(1, 10, 42, customerLast, customerFirst)

	for _, key := range [][2]int32{{testWID, 10}, {testWID, 1}, {1, 10}} {
		c := f.tables.FindCustomer(key[0], key[1], 42)
		require.NotNil(t, c)
		assert.Equal(t, int32(42), c.ID)
		assert.Equal(t, key[1], c.DID)
		assert.Equal(t, key[0], c.WID)
	}
	assert.Panics(t, func() { f.makeCustomer(1, 10, 42, customerLast, customerFirst) })
}

func TestFindCustomerByName(t *testing.T) {
	f := newFixture(t)
	fullLast := []byte(repeat("Z", MaxLast))

	f.makeCustomer(testWID, testDID, testCID, string(fullLast), "A")
	assert.Equal(t, testCID, f.tables.FindCustomerByName(testWID, testDID, string(fullLast)).ID)

	f.makeCustomer(testWID, testDID, testCID+1, string(fullLast), "B")
	assert.Equal(t, testCID, f.tables.FindCustomerByName(testWID, testDID, string(fullLast)).ID)

	f.makeCustomer(testWID, testDID, testCID+2, string(fullLast), "C")
	assert.Equal(t, testCID+1, f.tables.FindCustomerByName(testWID, testDID, string(fullLast)).ID)

	f.makeCustomer(testWID, testDID, testCID+3, string(fullLast), "D")
	assert.Equal(t, testCID+1, f.tables.FindCustomerByName(testWID, testDID, string(fullLast)).ID)

	// Neighbouring last names must not be counted.
	next := append([]byte(nil), fullLast...)
	next[MaxLast-1]++
	f.makeCustomer(testWID, testDID, testCID+4, string(next), "")
	prev := append([]byte(nil), fullLast...)
	prev[MaxLast-1]--
	f.makeCustomer(testWID, testDID, testCID+5, string(prev), "")
	assert.Equal(t, testCID+1, f.tables.FindCustomerByName(testWID, testDID, string(fullLast)).ID)

	assert.Nil(t, f.tables.FindCustomerByName(testWID, testDID, "nobody"))
	assert.Nil(t, f.tables.FindCustomerByName(testWID, testDID+1, string(fullLast)))
}

func TestInsertOrder(t *testing.T) {
	f := newFixture(t)
	f.makeOrder(testWID, 10, testOID, 1, 1)
	f.makeOrder(testWID, 1, testOID, 1, 1)
	f.makeOrder(1, 10, testOID, 1, 1)

	for _, key := range [][2]int32{{testWID, 10}, {testWID, 1}, {1, 10}} {
		o := f.tables.FindOrder(key[0], key[1], testOID)
		require.NotNil(t, o)
		assert.Equal(t, testOID, o.ID)
		assert.Equal(t, key[1], o.DID)
		assert.Equal(t, key[0], o.WID)
	}
	assert.Equal(t, 3, f.tables.NumOrders())
	assert.Panics(t, func() { f.makeOrder(1, 10, testOID, 1, 1) })
}

func TestLastOrderByCustomer(t *testing.T) {
	f := newFixture(t)
	f.makeOrder(testWID, DistrictsPerWarehouse, 3971, CustomersPerDistrict, 1)
	f.makeOrder(testWID, DistrictsPerWarehouse, 3862, CustomersPerDistrict, 1)

	o := f.tables.FindLastOrderByCustomer(testWID, DistrictsPerWarehouse, CustomersPerDistrict)
	require.NotNil(t, o)
	assert.Equal(t, int32(3971), o.ID)

	assert.Nil(t, f.tables.FindLastOrderByCustomer(testWID, DistrictsPerWarehouse, 1))
	assert.Nil(t, f.tables.FindLastOrderByCustomer(1, 1, 1))
}

func TestInsertOrderLine(t *testing.T) {
	f := newFixture(t)
	f.makeOrderLine(testWID, 10, testOID, MaxOLCnt, 0)
	f.makeOrderLine(testWID, 10, 1, MaxOLCnt, 0)
	f.makeOrderLine(testWID, 1, testOID, MaxOLCnt, 0)
	f.makeOrderLine(1, 10, testOID, MaxOLCnt, 0)

	for _, key := range [][3]int32{{testWID, 10, testOID}, {testWID, 10, 1}, {testWID, 1, testOID}, {1, 10, testOID}} {
		l := f.tables.FindOrderLine(key[0], key[1], key[2], MaxOLCnt)
		require.NotNil(t, l)
		assert.Equal(t, int32(MaxOLCnt), l.Number)
		assert.Equal(t, key[2], l.OID)
		assert.Equal(t, key[1], l.DID)
		assert.Equal(t, key[0], l.WID)
	}
	assert.Equal(t, 4, f.tables.NumOrderLines())
}

func TestNewOrderRows(t *testing.T) {
	f := newFixture(t)
	f.tables.InsertNewOrder(testWID, testDID, 7)
	f.tables.InsertNewOrder(testWID, testDID, 5)
	f.tables.InsertNewOrder(testWID, testDID+1, 1)
	assert.Equal(t, 3, f.tables.NumNewOrders())

	assert.Equal(t, int32(5), f.tables.firstNewOrder(testWID, testDID).OID)
	assert.Nil(t, f.tables.firstNewOrder(testWID, testDID-1))
	assert.Nil(t, f.tables.firstNewOrder(testWID-1, testDID))
	assert.NotNil(t, f.tables.FindNewOrder(testWID, testDID, 7))
	assert.Nil(t, f.tables.FindNewOrder(testWID, testDID, 6))
	assert.Panics(t, func() { f.tables.InsertNewOrder(testWID, testDID, 7) })
}
