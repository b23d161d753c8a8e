package bptree

// Delete removes key and reports whether it was present. Nodes are not
// rebalanced, so separators above the leaf may go stale.
func (t *Tree[K, V]) Delete(key K) bool {
	n := t.findLeaf(key)
	i := n.lowerBound(key)
	if i >= len(n.keys) || n.keys[i] != key {
		return false
	}
	n.keys = removeAt(n.keys, i)
	n.values = removeAt(n.values, i)
	t.size--
	return true
}
