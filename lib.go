package avlmap

import (
	"fmt"
	"io"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Map is an ordered map stored in an AVL tree. All methods are safe for
// concurrent use. Create one with New, NewFunc or NewKeyed.
type Map[K, V any] struct {
	mu          sync.Mutex
	root        *node[K, V]
	index       *keyIndex[K]
	keyOrder    func(a, b K) int
	logger      hclog.Logger
	metrics     *Metrics
	digestCache DigestCache
	marshal     func(interface{}) ([]byte, error)
	valuesEqual func(a, b interface{}) bool
	indexDegree int
	id          uint64
	version     uint64
}

type node[K, V any] struct {
	key    K
	value  V
	height int
	left   *node[K, V]
	right  *node[K, V]
}

type entry[K, V any] struct {
	Key   K
	Value V
}

// rotation names the four imbalance shapes.
type rotation string

const (
	leftLeft   rotation = "left-left"
	rightRight rotation = "right-right"
	leftRight  rotation = "left-right"
	rightLeft  rotation = "right-left"
)

func heightOf[K, V any](n *node[K, V]) int {
	if n == nil {
		return -1
	}
	return n.height
}

func (n *node[K, V]) fixHeight() {
	n.height = 1 + max(heightOf(n.left), heightOf(n.right))
}

func (n *node[K, V]) balanceFactor() int {
	return heightOf(n.left) - heightOf(n.right)
}

// rotateRight turns (y (x a b) c) into (x a (y b c)).
func rotateRight[K, V any](y *node[K, V]) *node[K, V] {
	x := y.left
	y.left = x.right
	x.right = y
	y.fixHeight()
	x.fixHeight()
	return x
}

// rotateLeft turns (x a (y b c)) into (y (x a b) c).
func rotateLeft[K, V any](x *node[K, V]) *node[K, V] {
	y := x.right
	x.right = y.left
	y.left = x
	x.fixHeight()
	y.fixHeight()
	return y
}

func (m *Map[K, V]) rotate(n *node[K, V], shape rotation) *node[K, V] {
	if m.logger.IsTrace() {
		m.logger.Trace("rotate", "shape", shape, "pivot", n.key, "height", n.height)
	}
	m.metrics.rotated(shape)
	switch shape {
	case leftLeft:
		return rotateRight(n)
	case rightRight:
		return rotateLeft(n)
	case leftRight:
		n.left = rotateLeft(n.left)
		return rotateRight(n)
	case rightLeft:
		n.right = rotateRight(n.right)
		return rotateLeft(n)
	}
	panic(fmt.Sprintf("unknown rotation %q", shape))
}

// insert places key below n and returns the new subtree root. added is
// false when the key was already present and only its value changed.
func (m *Map[K, V]) insert(n *node[K, V], key K, value V) (*node[K, V], bool) {
	if n == nil {
		return &node[K, V]{key: key, value: value}, true
	}
	var added bool
	cmp := m.keyOrder(key, n.key)
	switch {
	case cmp < 0:
		n.left, added = m.insert(n.left, key, value)
	case cmp > 0:
		n.right, added = m.insert(n.right, key, value)
	default:
		n.value = value
		return n, false
	}
	if !added {
		return n, false
	}
	n.fixHeight()
	// The subtree that grew is the one holding key, so the key's position
	// relative to the child picks the shape.
	switch bf := n.balanceFactor(); {
	case bf > 1:
		if m.keyOrder(key, n.left.key) < 0 {
			return m.rotate(n, leftLeft), true
		}
		return m.rotate(n, leftRight), true
	case bf < -1:
		if m.keyOrder(key, n.right.key) > 0 {
			return m.rotate(n, rightRight), true
		}
		return m.rotate(n, rightLeft), true
	}
	return n, true
}

// rebalance restores the AVL invariant at n after one of its subtrees
// shrank. A child with balance factor 0 takes the single rotation.
func (m *Map[K, V]) rebalance(n *node[K, V]) *node[K, V] {
	n.fixHeight()
	switch bf := n.balanceFactor(); {
	case bf > 1:
		if n.left.balanceFactor() >= 0 {
			return m.rotate(n, leftLeft)
		}
		return m.rotate(n, leftRight)
	case bf < -1:
		if n.right.balanceFactor() <= 0 {
			return m.rotate(n, rightRight)
		}
		return m.rotate(n, rightLeft)
	}
	return n
}

// remove deletes key from below n and returns the new subtree root.
// Every node on the way back up is rebalanced, including the path to a
// two-child node's in-order predecessor.
func (m *Map[K, V]) remove(n *node[K, V], key K) (*node[K, V], bool) {
	if n == nil {
		return nil, false
	}
	var removed bool
	cmp := m.keyOrder(key, n.key)
	switch {
	case cmp < 0:
		n.left, removed = m.remove(n.left, key)
	case cmp > 0:
		n.right, removed = m.remove(n.right, key)
	default:
		if n.left == nil {
			return n.right, true
		}
		if n.right == nil {
			return n.left, true
		}
		pred := n.left.max()
		n.key, n.value = pred.key, pred.value
		n.left, removed = m.remove(n.left, pred.key)
		if !removed {
			panic(fmt.Sprintf("in-order predecessor %v vanished from left subtree", pred.key))
		}
	}
	if !removed {
		return n, false
	}
	return m.rebalance(n), true
}

func (n *node[K, V]) min() *node[K, V] {
	for n.left != nil {
		n = n.left
	}
	return n
}

func (n *node[K, V]) max() *node[K, V] {
	for n.right != nil {
		n = n.right
	}
	return n
}

func (m *Map[K, V]) find(key K) *node[K, V] {
	n := m.root
	for n != nil {
		cmp := m.keyOrder(key, n.key)
		if cmp == 0 {
			return n
		}
		if cmp < 0 {
			n = n.left
		} else {
			n = n.right
		}
	}
	return nil
}

// clone copies the subtree rooted at n into freshly allocated nodes.
func (n *node[K, V]) clone() *node[K, V] {
	if n == nil {
		return nil
	}
	return &node[K, V]{
		key:    n.key,
		value:  n.value,
		height: n.height,
		left:   n.left.clone(),
		right:  n.right.clone(),
	}
}

func (n *node[K, V]) iter(f func(K, V) error) error {
	if n == nil {
		return nil
	}
	if err := n.left.iter(f); err != nil {
		return err
	}
	if err := f(n.key, n.value); err != nil {
		return err
	}
	return n.right.iter(f)
}

// seekIter iterates from the first key that is not less than key.
func (m *Map[K, V]) seekIter(n *node[K, V], key K, f func(K, V) error) error {
	if n == nil {
		return nil
	}
	if m.keyOrder(key, n.key) > 0 {
		return m.seekIter(n.right, key, f)
	}
	if err := m.seekIter(n.left, key, f); err != nil {
		return err
	}
	if err := f(n.key, n.value); err != nil {
		return err
	}
	return n.right.iter(f)
}

// toSlice returns the map's entries in key order.
func (m *Map[K, V]) toSlice() []entry[K, V] {
	array := make([]entry[K, V], 0, m.index.len())
	_ = m.root.iter(func(key K, value V) error {
		array = append(array, entry[K, V]{key, value})
		return nil
	})
	return array
}

// mustAddKey and mustEraseKey keep the key index in lockstep with the
// tree; disagreement means the map is corrupt.
func (m *Map[K, V]) mustAddKey(key K) {
	if !m.index.add(key) {
		m.logger.Error("key index already held inserted key", "key", key)
		panic(fmt.Sprintf("key index out of sync: %v already indexed", key))
	}
}

func (m *Map[K, V]) mustEraseKey(key K) {
	if !m.index.erase(key) {
		m.logger.Error("key index lacked removed key", "key", key)
		panic(fmt.Sprintf("key index out of sync: %v not indexed", key))
	}
}

// checkNode verifies order bounds, stored heights and balance below n,
// returning the subtree's node count.
func (m *Map[K, V]) checkNode(n *node[K, V], lo, hi *K) (int, error) {
	if n == nil {
		return 0, nil
	}
	if lo != nil && m.keyOrder(n.key, *lo) <= 0 {
		return 0, fmt.Errorf("key %v not greater than ancestor %v", n.key, *lo)
	}
	if hi != nil && m.keyOrder(n.key, *hi) >= 0 {
		return 0, fmt.Errorf("key %v not less than ancestor %v", n.key, *hi)
	}
	left, err := m.checkNode(n.left, lo, &n.key)
	if err != nil {
		return 0, err
	}
	right, err := m.checkNode(n.right, &n.key, hi)
	if err != nil {
		return 0, err
	}
	want := 1 + max(heightOf(n.left), heightOf(n.right))
	if n.height != want {
		return 0, fmt.Errorf("node %v has height %d, want %d", n.key, n.height, want)
	}
	if bf := n.balanceFactor(); bf < -1 || bf > 1 {
		return 0, fmt.Errorf("node %v has balance factor %d", n.key, bf)
	}
	return left + right + 1, nil
}

func (m *Map[K, V]) verify() error {
	count, err := m.checkNode(m.root, nil, nil)
	if err != nil {
		return err
	}
	if count != m.index.len() {
		return fmt.Errorf("tree holds %d nodes but key index holds %d keys", count, m.index.len())
	}
	treeKeys := make([]K, 0, count)
	_ = m.root.iter(func(key K, _ V) error {
		treeKeys = append(treeKeys, key)
		return nil
	})
	i := 0
	m.index.ascend(func(key K) bool {
		if m.keyOrder(key, treeKeys[i]) != 0 {
			err = fmt.Errorf("key index holds %v where tree holds %v", key, treeKeys[i])
			return false
		}
		i++
		return true
	})
	return err
}

// writeTree renders n and its subtrees, left child first.
func writeTree[K, V any](w io.Writer, n *node[K, V], drawing string, isLeft bool) error {
	if n == nil {
		return nil
	}
	branch := "└--"
	if isLeft {
		branch = "|--"
	}
	if _, err := fmt.Fprintf(w, "%s%sk: %v h: %d\n", drawing, branch, n.key, n.height); err != nil {
		return err
	}
	if isLeft {
		drawing += "|   "
	} else {
		drawing += "    "
	}
	if err := writeTree(w, n.left, drawing, true); err != nil {
		return err
	}
	return writeTree(w, n.right, drawing, false)
}
