package bptree

// Insert stores value under key, replacing any existing value.
func (t *Tree[K, V]) Insert(key K, value V) {
	sep, right, added := t.insert(t.root, key, value)
	if added {
		t.size++
	}
	if right != nil {
		t.root = &node[K, V]{
			keys:     []K{sep},
			children: []*node[K, V]{t.root, right},
		}
		t.depth++
	}
}

// insert adds key below n. When n overflows it is split, and the separator
// and new right sibling are returned for the parent to link.
func (t *Tree[K, V]) insert(n *node[K, V], key K, value V) (K, *node[K, V], bool) {
	var zero K
	if n.leaf {
		i := n.lowerBound(key)
		if i < len(n.keys) && n.keys[i] == key {
			n.values[i] = value
			return zero, nil, false
		}
		n.keys = insertAt(n.keys, i, key)
		n.values = insertAt(n.values, i, value)
		if len(n.keys) <= t.leafCap {
			return zero, nil, true
		}
		sep, right := splitLeaf(n)
		return sep, right, true
	}

	i := n.childIndex(key)
	sep, right, added := t.insert(n.children[i], key, value)
	if right == nil {
		return zero, nil, added
	}
	n.keys = insertAt(n.keys, i, sep)
	n.children = insertAt(n.children, i+1, right)
	if len(n.keys) <= t.internalCap {
		return zero, nil, added
	}
	sep, right = splitInternal(n)
	return sep, right, added
}

// splitLeaf moves the upper half of an overflowing leaf to a new sibling.
// The left half keeps the extra entry when the count is odd, and the first
// key of the right half becomes the separator.
func splitLeaf[K Key, V any](n *node[K, V]) (K, *node[K, V]) {
	mid := (len(n.keys) + 1) / 2
	right := &node[K, V]{
		leaf:   true,
		keys:   append([]K(nil), n.keys[mid:]...),
		values: append([]V(nil), n.values[mid:]...),
	}
	n.keys = append([]K(nil), n.keys[:mid]...)
	n.values = append([]V(nil), n.values[:mid]...)
	return right.keys[0], right
}

// splitInternal promotes the middle separator of an overflowing internal
// node. The left node keeps keys [0, mid) and the right gets (mid, end].
func splitInternal[K Key, V any](n *node[K, V]) (K, *node[K, V]) {
	mid := len(n.keys) / 2
	promote := n.keys[mid]
	right := &node[K, V]{
		keys:     append([]K(nil), n.keys[mid+1:]...),
		children: append([]*node[K, V](nil), n.children[mid+1:]...),
	}
	n.keys = append([]K(nil), n.keys[:mid]...)
	n.children = append([]*node[K, V](nil), n.children[:mid+1]...)
	return promote, right
}
