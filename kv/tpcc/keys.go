package tpcc

import "github.com/pingcap-incubator/tinytpcc/log"

// Composite keys pack their components outer to inner into an int64. Each
// level multiplies by the inner component's maximum plus one, so keys of a
// table sort by warehouse first.

func checkWarehouse(w int32) {
	if w < 1 || w > MaxWarehouseID {
		log.Panicf("warehouse id %d out of range", w)
	}
}

func checkDistrict(d int32) {
	if d < 1 || d > DistrictsPerWarehouse {
		log.Panicf("district id %d out of range", d)
	}
}

func checkCustomer(c int32) {
	if c < 1 || c > CustomersPerDistrict {
		log.Panicf("customer id %d out of range", c)
	}
}

func checkOrder(o int32) {
	if o < 1 || o > MaxOrderID {
		log.Panicf("order id %d out of range", o)
	}
}

func warehouseKey(w int32) int64 {
	checkWarehouse(w)
	return int64(w)
}

func districtKey(w, d int32) int64 {
	checkWarehouse(w)
	checkDistrict(d)
	return int64(w)*(DistrictsPerWarehouse+1) + int64(d)
}

func stockKey(w, i int32) int64 {
	checkWarehouse(w)
	if i < 1 || i > StockPerWarehouse {
		log.Panicf("item id %d out of range", i)
	}
	return int64(w)*(StockPerWarehouse+1) + int64(i)
}

func customerKey(w, d, c int32) int64 {
	checkCustomer(c)
	return districtKey(w, d)*(CustomersPerDistrict+1) + int64(c)
}

func orderKey(w, d, o int32) int64 {
	checkOrder(o)
	return districtKey(w, d)*(MaxOrderID+1) + int64(o)
}

// orderByCustomerKey orders a customer's orders by id so that the latest one
// is the predecessor of the key for MaxOrderID+1.
func orderByCustomerKey(w, d, c, o int32) int64 {
	checkOrder(o)
	return customerKey(w, d, c)*(MaxOrderID+1) + int64(o)
}

func orderLineKey(w, d, o, number int32) int64 {
	if number < 1 || number > MaxOLCnt {
		log.Panicf("order line number %d out of range", number)
	}
	return orderKey(w, d, o)*(MaxOLCnt+1) + int64(number)
}

// newOrderKey shares the order key layout.
func newOrderKey(w, d, o int32) int64 {
	return orderKey(w, d, o)
}
