package bptree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxKeys = 3

func newSmallTree() *Tree[int, int] {
	return New[int, int](maxKeys, maxKeys)
}

func TestInsertAndFind(t *testing.T) {
	tree := newSmallTree()
	_, ok := tree.Find(52)
	assert.False(t, ok)

	tree.Insert(52, 77)
	v, ok := tree.Find(52)
	assert.True(t, ok)
	assert.Equal(t, 77, v)
	_, ok = tree.Find(54)
	assert.False(t, ok)
	_, ok = tree.Find(50)
	assert.False(t, ok)

	tree.Insert(52, 78)
	v, _ = tree.Find(52)
	assert.Equal(t, 78, v)
	assert.Equal(t, 1, tree.Len())

	tree.Insert(54, 79)
	tree.Insert(50, 80)
	for key, want := range map[int]int{52: 78, 54: 79, 50: 80} {
		v, ok := tree.Find(key)
		assert.True(t, ok)
		assert.Equal(t, want, v)
	}
	for _, key := range []int{55, 51, 0} {
		_, ok := tree.Find(key)
		assert.False(t, ok)
	}
}

func TestSplitGrowsDepth(t *testing.T) {
	tree := newSmallTree()
	// Enough sequential keys to force a second level of internal nodes.
	depth3 := maxKeys + 1 + (maxKeys/2+1)*maxKeys
	for i := 0; i < depth3; i++ {
		tree.Insert(i*2, i*2)
	}
	assert.Equal(t, 3, tree.Depth())
	assert.Equal(t, depth3, tree.Len())
	for i := 0; i < depth3; i++ {
		v, ok := tree.Find(i * 2)
		require.True(t, ok)
		assert.Equal(t, i*2, v)
		_, ok = tree.Find(i*2 + 1)
		assert.False(t, ok)
	}
}

func TestDelete(t *testing.T) {
	tree := newSmallTree()
	for i := 0; i < 20; i++ {
		tree.Insert(i, i)
	}
	assert.True(t, tree.Delete(7))
	assert.False(t, tree.Delete(7))
	assert.False(t, tree.Delete(100))
	_, ok := tree.Find(7)
	assert.False(t, ok)
	assert.Equal(t, 19, tree.Len())

	tree.Insert(7, 70)
	v, ok := tree.Find(7)
	assert.True(t, ok)
	assert.Equal(t, 70, v)
}

func TestFindLastLessThan(t *testing.T) {
	tree := newSmallTree()
	_, _, ok := tree.FindLastLessThan(52)
	assert.False(t, ok)

	tree.Insert(52, 1)
	_, _, ok = tree.FindLastLessThan(52)
	assert.False(t, ok)
	v, k, ok := tree.FindLastLessThan(100)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 52, k)

	tree.Insert(50, 2)
	v, k, _ = tree.FindLastLessThan(53)
	assert.Equal(t, 1, v)
	assert.Equal(t, 52, k)
	v, k, _ = tree.FindLastLessThan(52)
	assert.Equal(t, 2, v)
	assert.Equal(t, 50, k)
	v, k, _ = tree.FindLastLessThan(51)
	assert.Equal(t, 2, v)
	assert.Equal(t, 50, k)
	_, _, ok = tree.FindLastLessThan(50)
	assert.False(t, ok)

	tree.Insert(49, 3)
	v, k, _ = tree.FindLastLessThan(52)
	assert.Equal(t, 2, v)
	assert.Equal(t, 50, k)
}

func TestFindLastLessThanAfterDeleteInLeaf(t *testing.T) {
	tree := newSmallTree()
	tree.Insert(52, 1)
	tree.Insert(50, 2)
	tree.Delete(52)
	v, _, ok := tree.FindLastLessThan(53)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestFindLastLessThanAcrossLeaves(t *testing.T) {
	tree := newSmallTree()
	tree.Insert(42, -1)
	tree.Insert(1804289383, 1)
	tree.Insert(1804289383, 2)
	tree.Insert(719885386, 3)
	tree.Insert(1804289383, 4)
	tree.Insert(783368690, 5)
	tree.Insert(719885386, 6)
	v, _, ok := tree.FindLastLessThan(2044897763)
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	tree.Insert(304089172, 7)
	v, _, ok = tree.FindLastLessThan(1804289383)
	assert.True(t, ok)
	assert.Equal(t, 5, v)
}

// An emptied leaf hides the keys to its left.
func TestFindLastLessThanEmptyLeaf(t *testing.T) {
	tree := newSmallTree()
	for _, k := range []int{2, 4, 6, 8, 10, 12} {
		tree.Insert(k, k)
	}
	// Leaves are now [2 4] [6 8] [10 12] under root [6 10].
	require.Equal(t, 2, tree.Depth())
	tree.Delete(6)
	tree.Delete(8)

	_, _, ok := tree.FindLastLessThan(10)
	assert.False(t, ok)

	v, k, ok := tree.FindLastLessThan(11)
	assert.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, 10, k)

	v, _, ok = tree.FindLastLessThan(5)
	assert.True(t, ok)
	assert.Equal(t, 4, v)
}

func TestRandomAgainstMap(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	tree := New[int64, int](4, 3)
	ref := make(map[int64]int)
	var keys []int64

	predecessor := func(key int64) (int, bool) {
		sorted := make([]int64, 0, len(ref))
		for k := range ref {
			sorted = append(sorted, k)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		i := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= key })
		if i == 0 {
			return 0, false
		}
		return ref[sorted[i-1]], true
	}

	for loop := 0; loop < 2000; loop++ {
		var key int64
		if loop%2 == 0 || len(keys) == 0 {
			key = r.Int63n(1 << 20)
		} else {
			key = keys[r.Intn(len(keys))]
		}
		if _, ok := ref[key]; !ok {
			keys = append(keys, key)
		}
		ref[key] = loop
		tree.Insert(key, loop)

		probe := r.Int63n(1 << 20)
		want, wantOK := predecessor(probe)
		got, _, gotOK := tree.FindLastLessThan(probe)
		require.Equal(t, wantOK, gotOK, "probe %d", probe)
		if wantOK {
			require.Equal(t, want, got, "probe %d", probe)
		}
	}
	require.Equal(t, len(ref), tree.Len())

	// Deletions are only checked with exact lookups.
	for i, key := range keys {
		if i%3 != 0 {
			continue
		}
		require.True(t, tree.Delete(key))
		delete(ref, key)
	}
	require.Equal(t, len(ref), tree.Len())
	for _, key := range keys {
		v, ok := tree.Find(key)
		want, wantOK := ref[key]
		require.Equal(t, wantOK, ok)
		if ok {
			require.Equal(t, want, v)
		}
	}
}
