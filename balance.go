package avlmap

// Balance rebuilds the tree to minimal height, keeping every entry. The
// existing nodes are relinked in place rather than copied, and their
// heights are recomputed, so the rebuilt tree is itself a valid AVL tree.
// The map stays locked for the whole O(n) rebuild.
func (m *Map[K, V]) Balance() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("balance")
	before := heightOf(m.root)
	nodes := flatten(m.root, make([]*node[K, V], 0, m.index.len()))
	m.root = build(nodes)
	m.metrics.rebuilt()
	m.logger.Debug("balanced", "entries", len(nodes), "height_before", before, "height_after", heightOf(m.root))
}

// flatten appends the nodes below n to buf in key order.
func flatten[K, V any](n *node[K, V], buf []*node[K, V]) []*node[K, V] {
	if n == nil {
		return buf
	}
	buf = flatten(n.left, buf)
	buf = append(buf, n)
	return flatten(n.right, buf)
}

// build links sorted nodes into a tree rooted at the median, recursively.
func build[K, V any](nodes []*node[K, V]) *node[K, V] {
	if len(nodes) == 0 {
		return nil
	}
	mid := len(nodes) / 2
	n := nodes[mid]
	n.left = build(nodes[:mid])
	n.right = build(nodes[mid+1:])
	n.fixHeight()
	return n
}
