package bptree

func (t *Tree[K, V]) findLeaf(key K) *node[K, V] {
	n := t.root
	for !n.leaf {
		n = n.children[n.childIndex(key)]
	}
	return n
}

// Find returns the value stored under key.
func (t *Tree[K, V]) Find(key K) (V, bool) {
	n := t.findLeaf(key)
	i := n.lowerBound(key)
	if i < len(n.keys) && n.keys[i] == key {
		return n.values[i], true
	}
	var zero V
	return zero, false
}

// FindLastLessThan returns the entry with the greatest key strictly less than
// key. See the package comment for how deletions can hide an answer.
func (t *Tree[K, V]) FindLastLessThan(key K) (V, K, bool) {
	var (
		zeroV    V
		zeroK    K
		lastLeft *node[K, V]
	)
	n := t.root
	for !n.leaf {
		i := n.childIndex(key)
		if i > 0 {
			lastLeft = n.children[i-1]
		}
		n = n.children[i]
	}

	if i := n.lowerBound(key); i > 0 {
		return n.values[i-1], n.keys[i-1], true
	}
	if lastLeft == nil {
		return zeroV, zeroK, false
	}
	n = lastLeft
	for !n.leaf {
		n = n.children[len(n.children)-1]
	}
	if len(n.keys) == 0 {
		return zeroV, zeroK, false
	}
	last := len(n.keys) - 1
	return n.values[last], n.keys[last], true
}
