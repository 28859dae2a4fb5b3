package avlmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"
)

var (
	// ErrKeyNotFound is returned by At and Update when the map doesn't contain the key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrIterDone can be returned by an iteration callback to stop iterating without an error.
	ErrIterDone = errors.New("iteration done")
)

var lastMapID atomic.Uint64

// Config controls the optional collaborators of a map. A nil *Config, or
// any zero field, selects the default.
type Config struct {
	// Logger receives rotation traces and maintenance events. Defaults to a null logger.
	Logger hclog.Logger

	// Metrics counts operations and rotations, and may be shared by many maps.
	Metrics *Metrics

	// DigestCache remembers computed digests and may be shared by many maps.
	DigestCache DigestCache

	// Marshal encodes keys and values for Digest, defaults to JSON.
	Marshal func(interface{}) ([]byte, error)

	// ValuesEqual decides whether DiffIter reports a changed value, defaults to reflect.DeepEqual.
	ValuesEqual func(a, b interface{}) bool

	// IndexDegree is the btree degree of the key index. 0 means use DefaultIndexDegree.
	IndexDegree int
}

// NewFunc returns an empty map whose keys are ordered by keyOrder, which
// returns a negative number, zero or a positive number when a is less
// than, equal to or greater than b.
func NewFunc[K, V any](keyOrder func(a, b K) int, config *Config) *Map[K, V] {
	if config == nil {
		config = &Config{}
	}
	m := &Map[K, V]{
		keyOrder:    keyOrder,
		logger:      config.Logger,
		metrics:     config.Metrics,
		digestCache: config.DigestCache,
		marshal:     config.Marshal,
		valuesEqual: config.ValuesEqual,
		indexDegree: config.IndexDegree,
		id:          lastMapID.Add(1),
	}
	if m.logger == nil {
		m.logger = hclog.NewNullLogger()
	}
	m.logger = m.logger.Named("avlmap")
	if m.marshal == nil {
		m.marshal = json.Marshal
	}
	if m.valuesEqual == nil {
		m.valuesEqual = reflect.DeepEqual
	}
	m.index = newKeyIndex(m.indexDegree, keyOrder)
	return m
}

// emptyLike returns a new, empty map with the same ordering and collaborators as m.
func (m *Map[K, V]) emptyLike() *Map[K, V] {
	return &Map[K, V]{
		index:       newKeyIndex(m.indexDegree, m.keyOrder),
		keyOrder:    m.keyOrder,
		logger:      m.logger,
		metrics:     m.metrics,
		digestCache: m.digestCache,
		marshal:     m.marshal,
		valuesEqual: m.valuesEqual,
		indexDegree: m.indexDegree,
		id:          lastMapID.Add(1),
	}
}

// Insert adds or replaces the value for the given key.
func (m *Map[K, V]) Insert(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("insert")
	var added bool
	m.root, added = m.insert(m.root, key, value)
	if added {
		m.mustAddKey(key)
	}
	m.version++
}

// Upsert atomically replaces the value for key with the result of f,
// which is passed the current value and whether the key was present.
func (m *Map[K, V]) Upsert(key K, f func(old V, exists bool) V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("upsert")
	if n := m.find(key); n != nil {
		n.value = f(n.value, true)
		m.version++
		return
	}
	var zero V
	value := f(zero, false)
	m.root, _ = m.insert(m.root, key, value)
	m.mustAddKey(key)
	m.version++
}

// Remove deletes the entry with the given key, and reports whether it was present.
func (m *Map[K, V]) Remove(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("remove")
	var removed bool
	m.root, removed = m.remove(m.root, key)
	if !removed {
		return false
	}
	m.mustEraseKey(key)
	m.version++
	return true
}

// Find returns the value stored for the given key, and false if the map doesn't contain it.
func (m *Map[K, V]) Find(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("find")
	if n := m.find(key); n != nil {
		return n.value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether the map has an entry for the given key.
func (m *Map[K, V]) Contains(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("contains")
	return m.index.has(key)
}

// At returns the value stored for the given key, or an error wrapping
// ErrKeyNotFound if the map doesn't contain it.
func (m *Map[K, V]) At(key K) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("at")
	n := m.find(key)
	if n == nil {
		var zero V
		return zero, fmt.Errorf("key %v: %w", key, ErrKeyNotFound)
	}
	return n.value, nil
}

// Update invokes f with a pointer to the stored value for key, so it can
// be modified in place. The map is locked while f runs, so f must not
// call methods on the same map. Returns an error wrapping ErrKeyNotFound,
// without invoking f, if the map doesn't contain the key.
func (m *Map[K, V]) Update(key K, f func(value *V)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("update")
	n := m.find(key)
	if n == nil {
		return fmt.Errorf("key %v: %w", key, ErrKeyNotFound)
	}
	f(&n.value)
	m.version++
	return nil
}

// Size returns the number of entries in the map.
func (m *Map[K, V]) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.len()
}

// Keys returns the map's keys in ascending order.
func (m *Map[K, V]) Keys() []K {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("keys")
	return m.index.keys()
}

// Clear removes all entries.
func (m *Map[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("clear")
	m.logger.Debug("clear", "entries", m.index.len())
	m.root = nil
	m.index.clear()
	m.version++
}

// Height returns the number of levels between the root and the deepest leaf, or -1 for an empty map.
func (m *Map[K, V]) Height() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return heightOf(m.root)
}

// Min returns the entry with the smallest key, and false if the map is empty.
func (m *Map[K, V]) Min() (K, V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		var k K
		var v V
		return k, v, false
	}
	n := m.root.min()
	return n.key, n.value, true
}

// Max returns the entry with the largest key, and false if the map is empty.
func (m *Map[K, V]) Max() (K, V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		var k K
		var v V
		return k, v, false
	}
	n := m.root.max()
	return n.key, n.value, true
}

// Iter invokes f for every entry in ascending key order. Iteration stops
// at the first error f returns; ErrIterDone stops it without an error.
// The map is locked for the whole iteration, so f must not call methods
// on the same map.
func (m *Map[K, V]) Iter(f func(K, V) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("iter")
	err := m.root.iter(f)
	if errors.Is(err, ErrIterDone) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("callback: %w", err)
	}
	return nil
}

// SeekIter is like Iter, but starts at the first key that is not less than the given one.
func (m *Map[K, V]) SeekIter(key K, f func(K, V) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("iter")
	err := m.seekIter(m.root, key, f)
	if errors.Is(err, ErrIterDone) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("callback: %w", err)
	}
	return nil
}

// Clone returns an independent deep copy of the map, with its own nodes, key index and lock.
func (m *Map[K, V]) Clone() *Map[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("clone")
	m2 := m.emptyLike()
	m2.root = m.root.clone()
	m2.index = m.index.clone()
	m.logger.Debug("cloned", "entries", m2.index.len(), "from", m.id, "to", m2.id)
	return m2
}

// Move returns a new map that takes over all of m's entries in constant
// time, leaving m empty and ready for reuse.
func (m *Map[K, V]) Move() *Map[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("move")
	m2 := m.emptyLike()
	m2.root, m2.index = m.root, m.index
	m.root = nil
	m.index = newKeyIndex(m.indexDegree, m.keyOrder)
	m.version++
	m.logger.Debug("moved", "entries", m2.index.len(), "from", m.id, "to", m2.id)
	return m2
}

// Verify checks the tree's ordering, stored heights and balance, and that
// the key index holds exactly the tree's keys.
func (m *Map[K, V]) Verify() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verify()
}

// Fprint writes a drawing of the tree to w, one node per line.
func (m *Map[K, V]) Fprint(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		_, err := fmt.Fprintf(w, "NIL\n")
		return err
	}
	return writeTree(w, m.root, "", false)
}

// String returns the drawing written by Fprint.
func (m *Map[K, V]) String() string {
	var sb strings.Builder
	_ = m.Fprint(&sb)
	return sb.String()
}
