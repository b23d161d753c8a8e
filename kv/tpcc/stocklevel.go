package tpcc

import "github.com/pingcap-incubator/tinytpcc/log"

// stockLevelOrders is how many of the most recent orders StockLevel examines.
const stockLevelOrders = 20

func (t *Tables) StockLevel(warehouseID, districtID, threshold int32) int32 {
	district := t.FindDistrict(warehouseID, districtID)
	if district == nil {
		log.Panicf("missing district w=%d d=%d", warehouseID, districtID)
	}

	first := district.NextOID - stockLevelOrders
	if first < 1 {
		first = 1
	}
	items := make(map[int32]struct{})
	for o := first; o < district.NextOID; o++ {
		for n := int32(1); n <= MaxOLCnt; n++ {
			line := t.FindOrderLine(warehouseID, districtID, o, n)
			if line == nil {
				break
			}
			items[line.IID] = struct{}{}
		}
	}

	var count int32
	for iid := range items {
		stock := t.FindStock(warehouseID, iid)
		if stock == nil {
			log.Panicf("missing stock w=%d i=%d", warehouseID, iid)
		}
		if stock.Quantity < threshold {
			count++
		}
	}
	return count
}
