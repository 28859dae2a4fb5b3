package avlmap

import "github.com/google/btree"

// DefaultIndexDegree is the btree degree of a map's key index when Config.IndexDegree is unset.
const DefaultIndexDegree = 32

// keyIndex is the ordered set of keys mirrored alongside the tree, so
// counting and enumerating keys never needs a tree walk.
type keyIndex[K any] struct {
	tree *btree.BTreeG[K]
}

func newKeyIndex[K any](degree int, keyOrder func(a, b K) int) *keyIndex[K] {
	if degree < 2 {
		degree = DefaultIndexDegree
	}
	less := func(a, b K) bool {
		return keyOrder(a, b) < 0
	}
	return &keyIndex[K]{btree.NewG(degree, less)}
}

// add reports whether the key was not already present.
func (ki *keyIndex[K]) add(key K) bool {
	_, replaced := ki.tree.ReplaceOrInsert(key)
	return !replaced
}

// erase reports whether the key was present.
func (ki *keyIndex[K]) erase(key K) bool {
	_, found := ki.tree.Delete(key)
	return found
}

func (ki *keyIndex[K]) has(key K) bool {
	return ki.tree.Has(key)
}

func (ki *keyIndex[K]) len() int {
	return ki.tree.Len()
}

func (ki *keyIndex[K]) ascend(f func(K) bool) {
	ki.tree.Ascend(f)
}

func (ki *keyIndex[K]) keys() []K {
	keys := make([]K, 0, ki.tree.Len())
	ki.tree.Ascend(func(key K) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// clone returns an index that can be modified independently of ki.
func (ki *keyIndex[K]) clone() *keyIndex[K] {
	return &keyIndex[K]{ki.tree.Clone()}
}

func (ki *keyIndex[K]) clear() {
	ki.tree.Clear(false)
}
