// Package bptree is an in-memory B+Tree keyed by an ordered type.
//
// Values live only in leaves; internal nodes hold separator keys. Nodes split
// when they overflow but are never merged, so after deletions a leaf may be
// left empty. FindLastLessThan does not look past an empty leaf and can then
// report that no smaller key exists even though one does further left.
package bptree

import (
	"cmp"
	"sort"
)

// Key is the set of types a Tree can be keyed by.
type Key = cmp.Ordered

type node[K Key, V any] struct {
	leaf bool
	keys []K
	// values is parallel to keys in a leaf.
	values []V
	// children has len(keys)+1 entries in an internal node. Subtree i holds
	// keys in [keys[i-1], keys[i]).
	children []*node[K, V]
}

// Tree is a B+Tree mapping K to V. A Tree is not safe for concurrent use.
type Tree[K Key, V any] struct {
	root        *node[K, V]
	internalCap int
	leafCap     int
	size        int
	depth       int
}

// New creates an empty tree whose internal nodes hold at most keysPerInternal
// separators and whose leaves hold at most keysPerLeaf entries.
func New[K Key, V any](keysPerInternal, keysPerLeaf int) *Tree[K, V] {
	if keysPerInternal < 2 || keysPerLeaf < 2 {
		panic("bptree: node capacity must be at least 2")
	}
	return &Tree[K, V]{
		root:        &node[K, V]{leaf: true},
		internalCap: keysPerInternal,
		leafCap:     keysPerLeaf,
		depth:       1,
	}
}

// Len returns the number of entries.
func (t *Tree[K, V]) Len() int {
	return t.size
}

// Depth returns the number of levels, counting the leaves.
func (t *Tree[K, V]) Depth() int {
	return t.depth
}

// childIndex returns the number of separators that are <= key.
func (n *node[K, V]) childIndex(key K) int {
	return sort.Search(len(n.keys), func(i int) bool { return n.keys[i] > key })
}

// lowerBound returns the position of the first key >= key.
func (n *node[K, V]) lowerBound(key K) int {
	return sort.Search(len(n.keys), func(i int) bool { return n.keys[i] >= key })
}

func insertAt[T any](s []T, i int, v T) []T {
	var zero T
	s = append(s, zero)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeAt[T any](s []T, i int) []T {
	var zero T
	copy(s[i:], s[i+1:])
	s[len(s)-1] = zero
	return s[:len(s)-1]
}
