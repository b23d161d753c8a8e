package latches

import (
	"sort"
	"sync"
)

// Latching makes a multi-warehouse transaction atomic with respect to every
// other transaction that touches one of its warehouses. A transaction names
// all the warehouses it might read or write up front and latches them at
// once; transactions on disjoint warehouse sets run in parallel.
//
// A latch is a per-warehouse lock. Only one thread can hold a latch at a
// time. Latching is implemented with a single map from warehouse id to a Go
// WaitGroup, guarded by a mutex so that acquiring a set of latches is atomic.

type Latches struct {
	// Before touching any row of a warehouse, the thread must hold the latch
	// for that warehouse. Threads who find a warehouse latched wait on its
	// WaitGroup.
	latchMap map[int32]*sync.WaitGroup
	// Mutex to guard latchMap.
	latchGuard sync.Mutex
	// An optional validation function, only used for testing.
	Validation func(warehouses []int32)
}

// NewLatches creates the latches shared by every thread running against one
// store.
func NewLatches() *Latches {
	l := new(Latches)
	l.latchMap = make(map[int32]*sync.WaitGroup)
	return l
}

// AcquireLatches tries to lock every warehouse in warehouses. If this
// succeeds, nil is returned. Otherwise it returns a WaitGroup the thread can
// wait on until a conflicting holder releases.
func (l *Latches) AcquireLatches(warehouses []int32) *sync.WaitGroup {
	l.latchGuard.Lock()
	defer l.latchGuard.Unlock()

	for _, w := range warehouses {
		if latchWg, ok := l.latchMap[w]; ok {
			return latchWg
		}
	}

	wg := new(sync.WaitGroup)
	wg.Add(1)
	for _, w := range warehouses {
		l.latchMap[w] = wg
	}
	return nil
}

// ReleaseLatches releases the latches for all of warehouses and wakes any
// waiters. The set must have been locked together by one AcquireLatches
// call.
func (l *Latches) ReleaseLatches(warehouses []int32) {
	l.latchGuard.Lock()
	defer l.latchGuard.Unlock()

	first := true
	for _, w := range warehouses {
		if first {
			wg := l.latchMap[w]
			wg.Done()
			first = false
		}
		delete(l.latchMap, w)
	}
}

// WaitForLatches locks all of warehouses, waiting as long as needed for
// conflicting holders.
func (l *Latches) WaitForLatches(warehouses []int32) {
	for {
		wg := l.AcquireLatches(warehouses)
		if wg == nil {
			return
		}
		wg.Wait()
	}
}

// Validate calls the function in Validation, if it exists.
func (l *Latches) Validate(latched []int32) {
	if l.Validation != nil {
		l.Validation(latched)
	}
}

// Set returns the distinct warehouses of ids in increasing order.
func Set(ids ...int32) []int32 {
	out := make([]int32, 0, len(ids))
	for _, id := range ids {
		dup := false
		for _, seen := range out {
			if seen == id {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
